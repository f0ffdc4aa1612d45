// Package adapter implements the Adapter/Device Catalog backing
// EnumerateAdapters, SelectAdapter, and the static-query device tables. It
// is grounded on the teacher's internal/gpu package: the same
// NVMLInterface/DeviceInterface mockable-wrapper split, generalized from a
// one-shot detection report into a live catalog the control channel and
// query engine can query repeatedly.
package adapter

// Info describes one enumerated adapter, the device-table row a static
// query reads from.
type Info struct {
	Index           int
	Name            string
	Vendor          string
	UUID            string
	MemorySizeBytes uint64
	MemMaxBandwidth float64
}

// StaticCPUInfo is the CPU-side half of the static query tables.
type StaticCPUInfo struct {
	Name       string
	Vendor     string
	PowerLimit float64
}

// Snapshot is a point-in-time enumeration result, mirroring the teacher's
// GPUReport.
type Snapshot struct {
	DriverVersion string
	CUDAVersion   int
	NVMLOk        bool
	Adapters      []Info
	ErrorMessage  string
}
