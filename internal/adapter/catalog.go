//go:build cuda

package adapter

import (
	"fmt"

	"github.com/NVIDIA/go-nvml/pkg/nvml"

	"presentmw/internal/logchan"
)

// Catalog enumerates adapters through NVML and tracks which one the query
// engine currently has selected. Grounded on the teacher's gpu.Detector;
// generalized from a one-shot report into a handle EnumerateAdapters and
// SelectAdapter call repeatedly.
type Catalog struct {
	nvml    NVMLInterface
	log     *logchan.Channel
	current int
}

// NewCatalog returns a catalog backed by the real NVML.
func NewCatalog(log *logchan.Channel) *Catalog {
	return &Catalog{nvml: NewRealNVML(), log: log}
}

// NewCatalogWithNVML injects a mock NVMLInterface for tests.
func NewCatalogWithNVML(n NVMLInterface, log *logchan.Channel) *Catalog {
	return &Catalog{nvml: n, log: log}
}

// EnumerateAdapters initializes NVML, walks every device, and returns a
// snapshot of the catalog.
func (c *Catalog) EnumerateAdapters() Snapshot {
	var snap Snapshot

	ret := c.nvml.Init()
	if ret != nvml.SUCCESS {
		snap.ErrorMessage = fmt.Sprintf("nvml init: %v", nvml.ErrorString(ret))
		if c.log != nil {
			c.log.Warn("adapter.nvml.init.failed", "NVML init failed", map[string]interface{}{"error": snap.ErrorMessage})
		}
		return snap
	}
	defer c.nvml.Shutdown()
	snap.NVMLOk = true

	if v, ret := c.nvml.SystemGetDriverVersion(); ret == nvml.SUCCESS {
		snap.DriverVersion = v
	}
	if v, ret := c.nvml.SystemGetCudaDriverVersion(); ret == nvml.SUCCESS {
		snap.CUDAVersion = v
	}

	count, ret := c.nvml.DeviceGetCount()
	if ret != nvml.SUCCESS {
		snap.ErrorMessage = fmt.Sprintf("device count: %v", nvml.ErrorString(ret))
		return snap
	}

	for i := 0; i < count; i++ {
		dev, ret := c.nvml.DeviceGetHandleByIndex(i)
		if ret != nvml.SUCCESS {
			continue
		}
		info := Info{Index: i, Vendor: "NVIDIA"}
		if name, ret := dev.GetName(); ret == nvml.SUCCESS {
			info.Name = name
		}
		if uuid, ret := dev.GetUUID(); ret == nvml.SUCCESS {
			info.UUID = uuid
		}
		if mem, ret := dev.GetMemoryInfo(); ret == nvml.SUCCESS {
			info.MemorySizeBytes = mem.Total
		}
		snap.Adapters = append(snap.Adapters, info)
	}
	return snap
}

// SelectAdapter pins the catalog's current device index. Control-channel
// callers issue SelectAdapter on the capture service whenever a dynamic
// query's pinned device differs from the last selection.
func (c *Catalog) SelectAdapter(index int) error {
	c.current = index
	return nil
}

// CurrentAdapter returns the last selected device index.
func (c *Catalog) CurrentAdapter() int {
	return c.current
}
