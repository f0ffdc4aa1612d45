package query

import (
	"presentmw/internal/fme"
	"presentmw/internal/ptypes"
	"presentmw/internal/stat"
	"presentmw/internal/telemetry"
)

// PollDynamicQuery implements QE.PollDynamic (§4.6). clientQpcNow is the
// caller's current QPC reading, used to anchor the window against the
// producer's clock. numSwapChains is in/out: the caller's row capacity on
// entry, the true swap-chain count on return.
func (e *Engine) PollDynamicQuery(q *DynamicQuery, pid uint32, blob []byte, numSwapChains *int, clientQpcNow uint64) error {
	if *numSwapChains == 0 {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.pinDevice(q.DeviceIndex); err != nil {
		return err
	}

	key := cacheKey{query: q, pid: pid}

	client, ok := e.registry.Lookup(pid)
	if !ok {
		return nil
	}
	if !client.ProcessActive() {
		return nil
	}

	latest, err := client.ReadByIndex(0)
	if err != nil {
		if ptypes.StatusOf(err) == ptypes.StatusNoData {
			e.copyCached(key, blob)
			return nil
		}
		return err
	}

	qpcFreq := client.QpcFrequency()
	currentDelta := absDeltaU64(clientQpcNow, latest.PresentStartTime)
	stored, haveStored := e.deltas.get(key)
	if !haveStored || absDeltaU64(currentDelta, stored) > qpcRebindThreshold {
		stored = currentDelta
		e.deltas.set(key, stored)
	}
	offsetQpc := fme.MsToQpc(q.MetricOffsetMs, qpcFreq)
	if clientQpcNow < stored+offsetQpc {
		e.copyCached(key, blob)
		return nil
	}
	adjustedQpc := clientQpcNow - stored - offsetQpc

	windowTicks := fme.MsToQpc(q.WindowSizeMs, qpcFreq)

	frames, _, found, err := client.WindowEndingAt(adjustedQpc, subSaturating(adjustedQpc, windowTicks))
	if err != nil {
		return err
	}
	if !found {
		e.copyCached(key, blob)
		return nil
	}

	ctx := fme.Context{QpcFrequency: qpcFreq}
	chains := e.fme.Process(ctx, frames)

	accum := telemetry.NewAccumulator()
	if q.AccumGpuBits != 0 || q.AccumCpuBits != 0 {
		accum.Accumulate(frames, q.AccumGpuBits, q.AccumCpuBits)
	}

	dominant, dominantAddr := selectDominantChain(chains)

	// §4.6.2's degenerate case: the dominant chain's only present is still
	// unresolved in the pending-presents buffer (no frame data reported
	// yet), so there is nothing new to materialize. Return the previously
	// cached blob untouched rather than overwriting it with zeroed data.
	if dominant != nil && dominant.DisplayCount <= 1 && len(dominant.CPUBusy) == 0 {
		e.copyCached(key, blob)
		return nil
	}

	trueCount := len(chains)
	if trueCount == 0 {
		trueCount = 1
	}
	capacity := *numSwapChains
	*numSwapChains = trueCount
	if capacity < 1 {
		return nil
	}

	var derived fme.DerivedFPS
	if dominant != nil {
		derived = fme.Derive(dominant)
	}

	for i := range q.Elements {
		el := &q.Elements[i]
		v, s, isStr := e.evaluateElement(*el, dominant, dominantAddr, derived, accum)
		if isStr {
			writeString(blob, el.DataOffset, el.DataSize, s)
		} else {
			writeFloat64(blob, el.DataOffset, v)
		}
	}

	if q.CacheSize > 0 && q.CacheSize <= len(blob) {
		e.cache.put(key, blob[:q.CacheSize])
	}
	return nil
}

// PollStaticQuery answers a single static element (device identity/limits)
// without touching any stream or window state, per §6's PollStaticQuery
// client operation.
func (e *Engine) PollStaticQuery(el Element, blob []byte) error {
	el.DataSize = sizeOfMetric(el.Metric)
	v, s, isStr := e.evaluateStatic(el)
	if isStr {
		writeString(blob, 0, el.DataSize, s)
	} else {
		writeFloat64(blob, 0, v)
	}
	return nil
}

func (e *Engine) copyCached(key cacheKey, blob []byte) {
	cached, ok := e.cache.get(key)
	if !ok {
		return
	}
	copy(blob, cached)
}

func subSaturating(a, b uint64) uint64 {
	if b >= a {
		return 0
	}
	return a - b
}

// selectDominantChain picks the swap chain with the most cpuBusy entries,
// per §4.6.2.
func selectDominantChain(chains map[uint64]*fme.SwapChainState) (*fme.SwapChainState, uint64) {
	var best *fme.SwapChainState
	var bestAddr uint64
	for addr, c := range chains {
		if best == nil || len(c.CPUBusy) > len(best.CPUBusy) {
			best = c
			bestAddr = addr
		}
	}
	return best, bestAddr
}

func (e *Engine) evaluateElement(el Element, chain *fme.SwapChainState, chainAddr uint64, derived fme.DerivedFPS, accum *telemetry.Accumulator) (num float64, str string, isStr bool) {
	m := el.Metric

	if isStaticMetric(m) {
		return e.evaluateStatic(el)
	}

	if isScalarPerChainMetric(m) {
		var rec ptypes.FrameRecord
		if chain != nil {
			rec = chain.LastPresent
		}
		return evaluateScalar(m, rec, chainAddr)
	}

	if arr, ok := chainArray(chain, derived, m); ok {
		return stat.Evaluate(arr, el.Stat, el.Percentile), "", false
	}

	if _, _, ok := telemetryBit(m); ok {
		series := accum.Data(m, el.ArrayIndex)
		return stat.Evaluate(series, el.Stat, el.Percentile), "", false
	}

	return 0, "", false
}

func (e *Engine) evaluateStatic(el Element) (float64, string, bool) {
	if e.static == nil {
		return 0, "", isStringMetric(el.Metric)
	}
	switch el.Metric {
	case ptypes.MetricCPUName:
		name, _, _, _ := e.static.CPUStatic()
		return 0, name, true
	case ptypes.MetricCPUVendor:
		_, vendor, _, _ := e.static.CPUStatic()
		return 0, vendor, true
	case ptypes.MetricCPUPowerLimit:
		_, _, limit, _ := e.static.CPUStatic()
		return limit, "", false
	case ptypes.MetricGPUName:
		name, _, _, _ := e.static.GPUStatic(el.DeviceId)
		return 0, name, true
	case ptypes.MetricGPUVendor:
		_, vendor, _, _ := e.static.GPUStatic(el.DeviceId)
		return 0, vendor, true
	case ptypes.MetricGPUMemMaxBandwidth:
		_, _, bw, _ := e.static.GPUStatic(el.DeviceId)
		return bw, "", false
	}
	return 0, "", false
}

func evaluateScalar(m ptypes.Metric, rec ptypes.FrameRecord, chainAddr uint64) (float64, string, bool) {
	switch m {
	case ptypes.MetricApplication:
		return 0, rec.Application, true
	case ptypes.MetricSwapChainAddress:
		return float64(chainAddr), "", false
	case ptypes.MetricPresentMode:
		return float64(rec.PresentMode), "", false
	case ptypes.MetricPresentRuntime:
		return float64(rec.Runtime), "", false
	case ptypes.MetricPresentFlags:
		return float64(rec.PresentFlags), "", false
	case ptypes.MetricSyncInterval:
		return float64(rec.SyncInterval), "", false
	case ptypes.MetricAllowsTearing:
		return boolToFloat(rec.SupportsTearing), "", false
	case ptypes.MetricFrameType:
		return float64(rec.FrameType), "", false
	case ptypes.MetricCPUStartQPC:
		return float64(rec.PresentStartTime + rec.TimeInPresent), "", false
	}
	return 0, "", false
}

// chainArray maps a per-present statistic metric onto the array the
// statistic evaluator should reduce.
func chainArray(chain *fme.SwapChainState, derived fme.DerivedFPS, m ptypes.Metric) ([]float64, bool) {
	if chain == nil {
		return nil, false
	}
	switch m {
	case ptypes.MetricCPUBusy:
		return chain.CPUBusy, true
	case ptypes.MetricCPUWait:
		return chain.CPUWait, true
	case ptypes.MetricCPUFrameTime:
		return derived.FrameTimeMs, true
	case ptypes.MetricGPULatency:
		return chain.GPULatency, true
	case ptypes.MetricGPUBusy:
		return chain.GPUBusy, true
	case ptypes.MetricGPUWait:
		return chain.GPUWait, true
	case ptypes.MetricGPUTime:
		return derived.GPUTimeMs, true
	case ptypes.MetricDisplayLatency:
		return chain.DisplayLatency, true
	case ptypes.MetricDisplayedTime:
		return chain.DisplayedTime, true
	case ptypes.MetricAnimationError:
		return chain.AnimationError, true
	case ptypes.MetricClickToPhotonLatency:
		return chain.ClickToPhotonLatency, true
	case ptypes.MetricPresentedFPS:
		return derived.PresentedFps, true
	case ptypes.MetricApplicationFPS:
		return derived.ApplicationFps, true
	case ptypes.MetricDisplayedFPS:
		return derived.DisplayedFps, true
	case ptypes.MetricDroppedFrames:
		return chain.Dropped, true
	}
	return nil, false
}
