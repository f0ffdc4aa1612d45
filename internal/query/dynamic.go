package query

import "presentmw/internal/telemetry"

// DynamicQuery is the engine-owned handle RegisterDynamicQuery hands back:
// the element list plus the window parameters and telemetry bitsets every
// poll against this handle reuses, per §3.
type DynamicQuery struct {
	Elements []Element

	WindowSizeMs   float64
	MetricOffsetMs float64

	AccumGpuBits telemetry.Bits
	AccumCpuBits telemetry.Bits
	AccumFpsData bool

	DeviceIndex int // -1 means "no device pin"

	CacheSize int
}

// RegisterDynamicQuery assigns each element's DataOffset/DataSize and
// derives the telemetry accumulation bitsets from the elements that
// reference GPU/CPU telemetry metrics, then returns the handle the caller
// polls. windowMs/offsetMs are stored for §4.6.1's clock alignment.
func RegisterDynamicQuery(elements []Element, windowMs, offsetMs float64) *DynamicQuery {
	q := &DynamicQuery{
		Elements:       elements,
		WindowSizeMs:   windowMs,
		MetricOffsetMs: offsetMs,
		DeviceIndex:    -1,
	}
	q.CacheSize = assignDynamicOffsets(q.Elements)
	for _, e := range q.Elements {
		if bit, isGPU, ok := telemetryBit(e.Metric); ok {
			if isGPU {
				q.AccumGpuBits = q.AccumGpuBits.WithBit(bit)
			} else {
				q.AccumCpuBits = q.AccumCpuBits.WithBit(bit)
			}
		}
		if isFPSMetric(e.Metric) {
			q.AccumFpsData = true
		}
	}
	return q
}

// PinDevice marks q as targeting a specific adapter index, so the next
// poll issues SelectAdapter before reading the ring if the engine's
// current device differs. Callers that don't care which device a query
// runs against leave the default (-1, "no pin").
func (q *DynamicQuery) PinDevice(index int) {
	q.DeviceIndex = index
}
