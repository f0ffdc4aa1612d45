//go:build !cuda

package adapter

// NVMLInterface is a placeholder for builds without NVML support.
type NVMLInterface interface{}

// DeviceInterface is a placeholder for builds without NVML support.
type DeviceInterface interface{}

// NewRealNVML returns a nil placeholder when NVML support is disabled.
func NewRealNVML() NVMLInterface {
	return nil
}
