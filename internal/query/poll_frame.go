package query

import (
	"presentmw/internal/fme"
	"presentmw/internal/ptypes"
)

// frameStateKey identifies one (frame query, pid) pair's consume cursor.
type frameStateKey struct {
	query *FrameQuery
	pid   uint32
}

// frameCursor carries the lastPres/lastDisp/prevOfLastDisp bookkeeping
// across ConsumeFrameEvents calls, since each call only sees the frames
// produced since the previous one.
type frameCursor struct {
	havePrev bool
	prev     ptypes.FrameRecord

	haveDisp     bool
	lastDisp     ptypes.FrameRecord
	havePrevDisp bool
	prevDisp     ptypes.FrameRecord
}

// rowContext is the quintet §4.7 step 5 names, scoped to one emitted row.
type rowContext struct {
	ctx            fme.Context
	cur            ptypes.FrameRecord
	nextDisp       ptypes.FrameRecord
	lastPres       ptypes.FrameRecord
	lastDisp       ptypes.FrameRecord
	havePrevDisp   bool
	prevOfLastDisp ptypes.FrameRecord
}

// ConsumeFrameEvents implements QE.ConsumeFrames (§4.7). numFrames is
// in/out: the caller's row capacity on entry, the emitted row count on
// return.
func (e *Engine) ConsumeFrameEvents(q *FrameQuery, pid uint32, blob []byte, numFrames *int) error {
	capacity := *numFrames
	*numFrames = 0

	e.mu.Lock()
	defer e.mu.Unlock()

	client, ok := e.registry.Lookup(pid)
	if !ok {
		return ErrStreamNotFound
	}
	if !client.ProcessActive() {
		_ = e.registry.Release(pid)
		return ErrProcessGone
	}

	frames, err := client.ConsumeNext()
	if err != nil {
		return err
	}
	if len(frames) == 0 || capacity == 0 {
		return nil
	}

	key := frameStateKey{query: q, pid: pid}
	cur := e.frameState[key]
	if cur == nil {
		cur = &frameCursor{}
		e.frameState[key] = cur
	}

	fctx := fme.Context{QpcFrequency: client.QpcFrequency()}
	rows := 0
	for i := 0; i < len(frames) && rows < capacity; i++ {
		f := frames[i]

		if !cur.havePrev {
			cur.prev = f
			cur.havePrev = true
			advanceDisplayState(cur, f)
			continue
		}
		lastPres := cur.prev

		nextDisp, ok := findNextDisplayed(frames, i)
		if !ok {
			cur.prev = f
			advanceDisplayState(cur, f)
			continue
		}

		row := rowContext{
			ctx:            fctx,
			cur:            f,
			nextDisp:       nextDisp,
			lastPres:       lastPres,
			lastDisp:       cur.lastDisp,
			havePrevDisp:   cur.havePrevDisp,
			prevOfLastDisp: cur.prevDisp,
		}
		off := rows * q.RowStride
		for _, el := range q.Elements {
			v, s, isStr := evaluateFrameElement(el, row)
			if isStr {
				writeString(blob, off+el.DataOffset, el.DataSize, s)
			} else {
				writeFloat64(blob, off+el.DataOffset, v)
			}
		}
		rows++

		cur.prev = f
		advanceDisplayState(cur, f)
	}

	*numFrames = rows
	return nil
}

func advanceDisplayState(cur *frameCursor, f ptypes.FrameRecord) {
	if f.FinalState != ptypes.FinalStatePresented {
		return
	}
	if cur.haveDisp {
		cur.prevDisp = cur.lastDisp
		cur.havePrevDisp = true
	}
	cur.lastDisp = f
	cur.haveDisp = true
}

// findNextDisplayed returns the first Presented frame at or after index i
// in frames, per §4.7 step 5's nextDisp requirement.
func findNextDisplayed(frames []ptypes.FrameRecord, i int) (ptypes.FrameRecord, bool) {
	for j := i; j < len(frames); j++ {
		if frames[j].FinalState == ptypes.FinalStatePresented {
			return frames[j], true
		}
	}
	return ptypes.FrameRecord{}, false
}

func evaluateFrameElement(el FrameElement, row rowContext) (num float64, str string, isStr bool) {
	m := el.Metric
	cpuStart := row.lastPres.PresentStartTime + row.lastPres.TimeInPresent

	switch m {
	case ptypes.MetricApplication:
		return 0, row.cur.Application, true
	case ptypes.MetricSwapChainAddress:
		return float64(row.cur.SwapChainAddress), "", false
	case ptypes.MetricPresentMode:
		return float64(row.cur.PresentMode), "", false
	case ptypes.MetricPresentRuntime:
		return float64(row.cur.Runtime), "", false
	case ptypes.MetricPresentFlags:
		return float64(row.cur.PresentFlags), "", false
	case ptypes.MetricSyncInterval:
		return float64(row.cur.SyncInterval), "", false
	case ptypes.MetricAllowsTearing:
		return boolToFloat(row.cur.SupportsTearing), "", false
	case ptypes.MetricFrameType:
		return float64(row.cur.FrameType), "", false
	case ptypes.MetricCPUStartQPC:
		return float64(cpuStart), "", false
	case ptypes.MetricCPUBusy:
		return row.ctx.Ms(cpuStart, row.cur.PresentStartTime), "", false
	case ptypes.MetricCPUWait:
		return msUnsignedStandalone(row.ctx, row.cur.TimeInPresent), "", false
	case ptypes.MetricGPULatency:
		return row.ctx.Ms(cpuStart, row.cur.GPUStartTime), "", false
	case ptypes.MetricGPUBusy:
		return msUnsignedStandalone(row.ctx, row.cur.GPUDuration), "", false
	case ptypes.MetricGPUWait:
		total := row.ctx.Ms(row.cur.GPUStartTime, row.cur.ReadyTime)
		busy := msUnsignedStandalone(row.ctx, row.cur.GPUDuration)
		wait := total - busy
		if wait < 0 {
			wait = 0
		}
		return wait, "", false
	case ptypes.MetricDisplayLatency:
		return row.ctx.Ms(cpuStart, row.cur.ScreenTime), "", false
	case ptypes.MetricDisplayedTime:
		if row.nextDisp.FrameId == row.cur.FrameId {
			return 0, "", false
		}
		return row.ctx.Ms(row.cur.ScreenTime, row.nextDisp.ScreenTime), "", false
	case ptypes.MetricClickToPhotonLatency:
		return row.ctx.Ms(row.cur.InputTime, row.cur.ScreenTime), "", false
	case ptypes.MetricAnimationError:
		if !row.havePrevDisp || row.lastDisp.PresentStartTime == 0 {
			return 0, "", false
		}
		lastDispCpuStart := row.prevOfLastDisp.PresentStartTime + row.prevOfLastDisp.TimeInPresent
		delta := (int64(row.cur.ScreenTime) - int64(row.lastDisp.ScreenTime)) -
			(int64(cpuStart) - int64(lastDispCpuStart))
		return absFloat(row.ctx.SignedMs(delta)), "", false
	case ptypes.MetricDroppedFrames:
		return boolToFloat(row.cur.FinalState != ptypes.FinalStatePresented), "", false
	case ptypes.MetricPresentedFPS:
		frameTime := row.ctx.Ms(cpuStart, row.cur.PresentStartTime) + msUnsignedStandalone(row.ctx, row.cur.TimeInPresent)
		if frameTime == 0 {
			return 0, "", false
		}
		return 1000 / frameTime, "", false
	}
	return 0, "", false
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func msUnsignedStandalone(ctx fme.Context, d uint64) float64 {
	if ctx.QpcFrequency == 0 {
		return 0
	}
	return float64(d) * 1000 / float64(ctx.QpcFrequency)
}
