// Package telemetry implements the Telemetry Accumulator (scattering
// per-record power/CPU samples into per-metric arrays for the statistic
// evaluator) and the out-of-band Telemetry Sampler that keeps the latest
// live GPU/CPU reading, grounded on the teacher's metrics.GPUCollector
// and gpu.Detector.
package telemetry

import (
	"presentmw/internal/ptypes"
)

// Bits is a fixed-width bitset sized for the telemetry channel catalog (up
// to 64 GPU channels, up to 16 CPU channels), per the spec's design note on
// bitset sizing.
type Bits uint64

// Set reports whether bit m is set.
func (b Bits) Set(m ptypes.Metric) bool {
	return b&(1<<uint(m)) != 0
}

// WithBit returns b with metric m's bit set.
func (b Bits) WithBit(m ptypes.Metric) Bits {
	return b | (1 << uint(m))
}

// Accumulator scatters the telemetry samples embedded in a window of
// FrameRecords into per-metric, per-array-index data series.
type Accumulator struct {
	data map[ptypes.Metric]map[int][]float64
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{data: make(map[ptypes.Metric]map[int][]float64)}
}

func (a *Accumulator) push(m ptypes.Metric, arrayIndex int, v float64) {
	byIndex, ok := a.data[m]
	if !ok {
		byIndex = make(map[int][]float64)
		a.data[m] = byIndex
	}
	byIndex[arrayIndex] = append(byIndex[arrayIndex], v)
}

// Data returns the accumulated series for (metric, arrayIndex), or nil.
func (a *Accumulator) Data(m ptypes.Metric, arrayIndex int) []float64 {
	byIndex, ok := a.data[m]
	if !ok {
		return nil
	}
	return byIndex[arrayIndex]
}

// Accumulate walks records in window order and, for every bit set in
// gpuBits/cpuBits, reads the matching field off each record's telemetry
// sample and appends it to that metric's series. GPU_MEM_UTILIZATION is
// derived afterward since it depends on two raw fields.
func (a *Accumulator) Accumulate(records []ptypes.FrameRecord, gpuBits, cpuBits Bits) {
	for _, r := range records {
		a.scatterGPU(r.Power, gpuBits)
		a.scatterCPU(r.CPU, cpuBits)
	}
	a.deriveGPUMemUtilization(records, gpuBits)
}

func (a *Accumulator) scatterGPU(p ptypes.PowerTelemetry, bits Bits) {
	push := func(m ptypes.Metric, v float64) {
		if bits.Set(m) {
			a.push(m, 0, v)
		}
	}
	push(ptypes.MetricGPUPower, p.GPUPower)
	push(ptypes.MetricGPUVoltage, p.GPUVoltage)
	push(ptypes.MetricGPUFrequency, p.GPUFrequency)
	push(ptypes.MetricGPUTemperature, p.GPUTemperature)
	push(ptypes.MetricGPUUtilization, p.GPUUtilization)
	push(ptypes.MetricGPURenderComputeUtilization, p.GPURenderComputeUtilization)
	push(ptypes.MetricGPUMediaUtilization, p.GPUMediaUtilization)
	push(ptypes.MetricGPUMemPower, p.GPUMemPower)
	push(ptypes.MetricGPUMemVoltage, p.GPUMemVoltage)
	push(ptypes.MetricGPUMemFrequency, p.GPUMemFrequency)
	push(ptypes.MetricGPUMemEffectiveFrequency, p.GPUMemEffectiveFrequency)
	push(ptypes.MetricGPUMemTemperature, p.GPUMemTemperature)
	push(ptypes.MetricGPUMemWriteBandwidth, p.GPUMemWriteBandwidth)
	push(ptypes.MetricGPUMemReadBandwidth, p.GPUMemReadBandwidth)

	if bits.Set(ptypes.MetricGPUFanSpeed) {
		for i, v := range p.GPUFanSpeed {
			a.push(ptypes.MetricGPUFanSpeed, i, v)
		}
	}
}

func (a *Accumulator) scatterCPU(c ptypes.CpuTelemetry, bits Bits) {
	push := func(m ptypes.Metric, v float64) {
		if bits.Set(m) {
			a.push(m, 0, v)
		}
	}
	push(ptypes.MetricCPUUtilization, c.CPUUtilization)
	push(ptypes.MetricCPUPower, c.CPUPower)
	push(ptypes.MetricCPUTemperature, c.CPUTemperature)
	push(ptypes.MetricCPUFrequency, c.CPUFrequency)

	if bits.Set(ptypes.MetricCPUCoreUtility) {
		for i, v := range c.CPUCoreUtility {
			a.push(ptypes.MetricCPUCoreUtility, i, v)
		}
	}
}

func (a *Accumulator) deriveGPUMemUtilization(records []ptypes.FrameRecord, bits Bits) {
	if !bits.Set(ptypes.MetricGPUMemUtilization) {
		return
	}
	for _, r := range records {
		if r.Power.GPUMemSize == 0 {
			continue
		}
		util := 100 * float64(r.Power.GPUMemUsed) / float64(r.Power.GPUMemSize)
		a.push(ptypes.MetricGPUMemUtilization, 0, util)
	}
}
