package telemetry

import (
	"math"
	"testing"

	"presentmw/internal/ptypes"
)

func TestAccumulateScattersGPUPower(t *testing.T) {
	bits := Bits(0).WithBit(ptypes.MetricGPUPower).WithBit(ptypes.MetricGPUTemperature)
	records := []ptypes.FrameRecord{
		{Power: ptypes.PowerTelemetry{GPUPower: 10, GPUTemperature: 60}},
		{Power: ptypes.PowerTelemetry{GPUPower: 20, GPUTemperature: 65}},
	}
	a := NewAccumulator()
	a.Accumulate(records, bits, 0)

	got := a.Data(ptypes.MetricGPUPower, 0)
	if len(got) != 2 || got[0] != 10 || got[1] != 20 {
		t.Fatalf("GPUPower series = %v, want [10 20]", got)
	}
	if got := a.Data(ptypes.MetricGPUUtilization, 0); got != nil {
		t.Fatalf("expected no data for unset bit, got %v", got)
	}
}

func TestAccumulateFanSpeedArrayIndex(t *testing.T) {
	bits := Bits(0).WithBit(ptypes.MetricGPUFanSpeed)
	records := []ptypes.FrameRecord{
		{Power: ptypes.PowerTelemetry{GPUFanSpeed: [5]float64{1, 2, 3, 4, 5}}},
	}
	a := NewAccumulator()
	a.Accumulate(records, bits, 0)

	for i := 0; i < 5; i++ {
		got := a.Data(ptypes.MetricGPUFanSpeed, i)
		if len(got) != 1 || got[0] != float64(i+1) {
			t.Errorf("fan[%d] = %v, want [%d]", i, got, i+1)
		}
	}
}

func TestDeriveGPUMemUtilizationSkipsZeroSize(t *testing.T) {
	bits := Bits(0).WithBit(ptypes.MetricGPUMemUtilization)
	records := []ptypes.FrameRecord{
		{Power: ptypes.PowerTelemetry{GPUMemUsed: 50, GPUMemSize: 100}},
		{Power: ptypes.PowerTelemetry{GPUMemUsed: 10, GPUMemSize: 0}},
	}
	a := NewAccumulator()
	a.Accumulate(records, bits, 0)

	got := a.Data(ptypes.MetricGPUMemUtilization, 0)
	if len(got) != 1 || math.Abs(got[0]-50) > 1e-9 {
		t.Fatalf("GPUMemUtilization = %v, want [50]", got)
	}
}
