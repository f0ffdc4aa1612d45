package daemon

import (
	"presentmw/internal/adapter"
)

// staticProvider satisfies query.StaticProvider over the adapter catalog
// and gopsutil's CPU identification. GPUStatic re-enumerates the catalog on
// every call, so in NVML-backed builds it queries NVML on the caller's
// goroutine.
type staticProvider struct {
	catalog *adapter.Catalog
}

func newStaticProvider(catalog *adapter.Catalog) *staticProvider {
	return &staticProvider{catalog: catalog}
}

func (s *staticProvider) CPUStatic() (name, vendor string, powerLimitWatts float64, err error) {
	info, err := adapter.StaticCPU()
	if err != nil {
		return "", "", 0, err
	}
	return info.Name, info.Vendor, info.PowerLimit, nil
}

func (s *staticProvider) GPUStatic(deviceIndex int) (name, vendor string, memMaxBandwidth float64, err error) {
	snap := s.catalog.EnumerateAdapters()
	for _, a := range snap.Adapters {
		if a.Index == deviceIndex {
			return a.Name, a.Vendor, a.MemMaxBandwidth, nil
		}
	}
	return "", "", 0, nil
}
