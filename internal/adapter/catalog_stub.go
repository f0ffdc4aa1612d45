//go:build !cuda

package adapter

import "presentmw/internal/logchan"

// Catalog is a no-op adapter catalog when built without NVML support; it
// reports an empty, unavailable snapshot, matching the teacher's
// detector_stub.go convention.
type Catalog struct {
	log     *logchan.Channel
	current int
}

// NewCatalog returns a catalog that reports NVML unavailable.
func NewCatalog(log *logchan.Channel) *Catalog {
	return &Catalog{log: log}
}

// NewCatalogWithNVML ignores the injected interface when built without
// NVML support, kept for API compatibility with the cuda build.
func NewCatalogWithNVML(_ NVMLInterface, log *logchan.Channel) *Catalog {
	return NewCatalog(log)
}

func (c *Catalog) EnumerateAdapters() Snapshot {
	if c.log != nil {
		c.log.Info("adapter.enumerate.disabled", "skipping NVML enumeration (built without cuda tag)", nil)
	}
	return Snapshot{ErrorMessage: "NVML disabled: rebuild with -tags cuda"}
}

func (c *Catalog) SelectAdapter(index int) error {
	c.current = index
	return nil
}

func (c *Catalog) CurrentAdapter() int {
	return c.current
}
