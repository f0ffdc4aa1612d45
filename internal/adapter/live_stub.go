//go:build !cuda

package adapter

import (
	"errors"

	"presentmw/internal/ptypes"
)

// ReadLive is unavailable without NVML support.
func (c *Catalog) ReadLive() (ptypes.PowerTelemetry, error) {
	return ptypes.PowerTelemetry{}, errors.New("adapter: NVML disabled: rebuild with -tags cuda")
}
