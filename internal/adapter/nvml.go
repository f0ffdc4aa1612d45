//go:build cuda

package adapter

import (
	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

// DeviceInterface is the subset of nvml.Device the catalog needs, split
// out for mocking in tests.
type DeviceInterface interface {
	GetName() (string, nvml.Return)
	GetUUID() (string, nvml.Return)
	GetMemoryInfo() (nvml.Memory, nvml.Return)
	GetPowerManagementLimit() (uint32, nvml.Return)
}

// NVMLInterface is the subset of the NVML system API the catalog needs.
type NVMLInterface interface {
	Init() nvml.Return
	Shutdown() nvml.Return
	DeviceGetCount() (int, nvml.Return)
	DeviceGetHandleByIndex(index int) (DeviceInterface, nvml.Return)
	SystemGetDriverVersion() (string, nvml.Return)
	SystemGetCudaDriverVersion() (int, nvml.Return)
}

type deviceWrapper struct {
	device nvml.Device
}

func (w deviceWrapper) GetName() (string, nvml.Return) { return w.device.GetName() }
func (w deviceWrapper) GetUUID() (string, nvml.Return) { return w.device.GetUUID() }
func (w deviceWrapper) GetMemoryInfo() (nvml.Memory, nvml.Return) {
	return w.device.GetMemoryInfo()
}
func (w deviceWrapper) GetPowerManagementLimit() (uint32, nvml.Return) {
	return w.device.GetPowerManagementLimit()
}
func (w deviceWrapper) GetPowerUsage() (uint32, nvml.Return) { return w.device.GetPowerUsage() }
func (w deviceWrapper) GetTemperature(s nvml.TemperatureSensors) (uint32, nvml.Return) {
	return w.device.GetTemperature(s)
}
func (w deviceWrapper) GetUtilizationRates() (nvml.Utilization, nvml.Return) {
	return w.device.GetUtilizationRates()
}

// RealNVML implements NVMLInterface against the real driver.
type RealNVML struct{}

// NewRealNVML returns a catalog backend that talks to the real NVML.
func NewRealNVML() *RealNVML { return &RealNVML{} }

func (r *RealNVML) Init() nvml.Return     { return nvml.Init() }
func (r *RealNVML) Shutdown() nvml.Return { return nvml.Shutdown() }

func (r *RealNVML) DeviceGetCount() (int, nvml.Return) { return nvml.DeviceGetCount() }

func (r *RealNVML) DeviceGetHandleByIndex(index int) (DeviceInterface, nvml.Return) {
	d, ret := nvml.DeviceGetHandleByIndex(index)
	if ret != nvml.SUCCESS {
		return nil, ret
	}
	return deviceWrapper{device: d}, ret
}

func (r *RealNVML) SystemGetDriverVersion() (string, nvml.Return) {
	return nvml.SystemGetDriverVersion()
}

func (r *RealNVML) SystemGetCudaDriverVersion() (int, nvml.Return) {
	return nvml.SystemGetCudaDriverVersion()
}
