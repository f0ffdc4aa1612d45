// Package query implements the Query Engine: the dynamic (statistical)
// and frame (per-row) poll paths a client drives over a process's stream,
// plus the registration bookkeeping (element offset/size assignment) and
// the result caches that let an empty window return the last good answer
// instead of a zeroed one.
package query

import "presentmw/internal/ptypes"

// Element describes one column of a DynamicQuery: which metric to read,
// how to aggregate it over the poll window, which device/array slot it
// reads from, and where its value lands in the caller's output blob.
// DataOffset/DataSize are populated by RegisterDynamicQuery, per §6's
// client API surface.
type Element struct {
	Metric     ptypes.Metric
	Stat       ptypes.Stat
	Percentile float64
	DeviceId   int
	ArrayIndex int

	DataOffset int
	DataSize   int
}

// FrameElement describes one column of a FrameQuery. Frame rows have no
// statistic to apply: every gatherer reduces a handful of FrameRecords
// (the row's cur/nextDisp/lastPres/lastDisp/prevOfLastDisp quintet) to a
// single value, per §3's FrameQuery gatherer invariant.
type FrameElement struct {
	Metric     ptypes.Metric
	DeviceId   int
	ArrayIndex int

	DataOffset int
	DataSize   int
}

func isStringMetric(m ptypes.Metric) bool {
	switch m {
	case ptypes.MetricApplication,
		ptypes.MetricCPUName, ptypes.MetricCPUVendor,
		ptypes.MetricGPUName, ptypes.MetricGPUVendor:
		return true
	}
	return false
}

// stringFieldWidth is the fixed 260-byte cap §4.6.2 specifies for string
// outputs.
const stringFieldWidth = 260

func sizeOfMetric(m ptypes.Metric) int {
	if isStringMetric(m) {
		return stringFieldWidth
	}
	return 8
}

func assignDynamicOffsets(elements []Element) int {
	offset := 0
	for i := range elements {
		elements[i].DataSize = sizeOfMetric(elements[i].Metric)
		elements[i].DataOffset = offset
		offset += elements[i].DataSize
	}
	return offset
}

func assignFrameOffsets(elements []FrameElement) int {
	offset := 0
	for i := range elements {
		elements[i].DataSize = sizeOfMetric(elements[i].Metric)
		elements[i].DataOffset = offset
		offset += elements[i].DataSize
	}
	return offset
}
