//go:build cuda

package adapter

import (
	"fmt"

	"github.com/NVIDIA/go-nvml/pkg/nvml"

	"presentmw/internal/ptypes"
)

// ReadLive samples the currently selected device's live telemetry,
// grounded on the teacher's metrics.GPUCollector.Collect.
func (c *Catalog) ReadLive() (ptypes.PowerTelemetry, error) {
	dev, ret := c.nvml.DeviceGetHandleByIndex(c.current)
	if ret != nvml.SUCCESS {
		return ptypes.PowerTelemetry{}, fmt.Errorf("adapter: device handle: %v", nvml.ErrorString(ret))
	}
	liveDev, ok := dev.(liveDevice)
	if !ok {
		return ptypes.PowerTelemetry{}, fmt.Errorf("adapter: device does not support live telemetry")
	}

	var p ptypes.PowerTelemetry
	if w, ret := liveDev.GetPowerUsage(); ret == nvml.SUCCESS {
		p.GPUPower = float64(w) / 1000 // milliwatts -> watts
	}
	if temp, ret := liveDev.GetTemperature(nvml.TEMPERATURE_GPU); ret == nvml.SUCCESS {
		p.GPUTemperature = float64(temp)
	}
	if util, ret := liveDev.GetUtilizationRates(); ret == nvml.SUCCESS {
		p.GPUUtilization = float64(util.Gpu)
	}
	if mem, ret := dev.GetMemoryInfo(); ret == nvml.SUCCESS {
		p.GPUMemUsed = mem.Used
		p.GPUMemSize = mem.Total
	}
	return p, nil
}

// liveDevice extends DeviceInterface with the live-telemetry calls that
// catalog.go's enumeration path doesn't need.
type liveDevice interface {
	GetPowerUsage() (uint32, nvml.Return)
	GetTemperature(nvml.TemperatureSensors) (uint32, nvml.Return)
	GetUtilizationRates() (nvml.Utilization, nvml.Return)
}
