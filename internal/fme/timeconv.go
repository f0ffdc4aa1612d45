package fme

// Context carries the per-poll constants every timestamp conversion needs.
type Context struct {
	QpcFrequency uint64
}

// ms converts an unsigned QPC delta to milliseconds. It reports 0 whenever
// either endpoint is 0 or the delta would be negative (end <= start),
// matching the unsigned conversion rule in the frame-metric spec.
func (c Context) ms(start, end uint64) float64 {
	if start == 0 || end == 0 || end <= start {
		return 0
	}
	return float64(end-start) * 1000 / float64(c.QpcFrequency)
}

// signedMs converts a signed QPC delta (already computed by the caller as
// two differences) to milliseconds, preserving sign.
func (c Context) signedMs(delta int64) float64 {
	if c.QpcFrequency == 0 {
		return 0
	}
	return float64(delta) * 1000 / float64(c.QpcFrequency)
}

// msUnsigned converts a raw non-negative QPC duration (not a start/end
// pair) to milliseconds, e.g. p.TimeInPresent or p.GPUDuration.
func (c Context) msUnsigned(d uint64) float64 {
	if c.QpcFrequency == 0 {
		return 0
	}
	return float64(d) * 1000 / float64(c.QpcFrequency)
}

// MsToQpc converts a millisecond duration to QPC ticks at the given
// frequency, for callers outside this package that need to size a window
// (e.g. the query engine's clock alignment, §4.6.1).
func MsToQpc(ms float64, qpcFrequency uint64) uint64 {
	if ms <= 0 || qpcFrequency == 0 {
		return 0
	}
	return uint64(ms * float64(qpcFrequency) / 1000)
}

// Ms exposes the unsigned start/end millisecond conversion to callers
// outside this package.
func (c Context) Ms(start, end uint64) float64 { return c.ms(start, end) }

// SignedMs exposes the signed-delta millisecond conversion to callers
// outside this package.
func (c Context) SignedMs(delta int64) float64 { return c.signedMs(delta) }
