// Package fme is the Frame-Metric Engine: it walks a poll's present
// records oldest-to-newest per swap chain, reorders through a small pending
// buffer to resolve display latency, and appends the resulting per-present
// metrics onto each SwapChainState's arrays.
package fme

import (
	"math"

	"presentmw/internal/ptypes"
)

// Engine drives one poll's worth of records through the pending-presents
// protocol. It holds no state across calls to Process; the SwapChainState
// map is entirely rebuilt each poll, per the spec's statelessness
// invariant.
type Engine struct{}

// NewEngine returns a ready-to-use engine. It carries no configuration.
func NewEngine() *Engine { return &Engine{} }

// Process walks records (already in oldest-to-newest ring order) and
// returns the resulting per-swap-chain state, including every per-present
// metric array populated by ReportMetrics.
func (e *Engine) Process(ctx Context, records []ptypes.FrameRecord) map[uint64]*SwapChainState {
	chains := make(map[uint64]*SwapChainState)
	for i := range records {
		p := new(ptypes.FrameRecord)
		*p = records[i]

		chain, ok := chains[p.SwapChainAddress]
		if !ok {
			chain = NewSwapChainState()
			chains[p.SwapChainAddress] = chain
		}
		e.onPresent(ctx, chain, p)
	}
	return chains
}

// onPresent implements the pending-presents protocol of §4.3.1.
func (e *Engine) onPresent(ctx Context, chain *SwapChainState, p *ptypes.FrameRecord) {
	if !chain.Valid {
		UpdateChain(chain, *p, p.PresentStartTime, false)
		return
	}

	if len(chain.Pending) > 0 {
		if p.FinalState == ptypes.FinalStatePresented {
			for k := 0; k < len(chain.Pending)-1; k++ {
				e.reportMetrics(ctx, chain, chain.Pending[k], chain.Pending[k+1], p)
			}
			last := chain.Pending[len(chain.Pending)-1]
			e.reportMetrics(ctx, chain, last, p, p)
			chain.Pending = nil
		} else if chain.Pending[0].FinalState != ptypes.FinalStatePresented {
			// pending[0] is itself undisplayed, so it will never learn a
			// nextDisplayed; report it now against this also-undisplayed
			// arrival. A pending[0] that *was* displayed is left in place
			// to wait for a future Presented arrival to resolve it.
			e.reportMetrics(ctx, chain, chain.Pending[0], p, nil)
			chain.Pending = nil
		}
	}

	chain.Pending = append(chain.Pending, p)
}

// reportMetrics implements ReportMetrics from §4.3.2. p is the present
// being reported; next is the present immediately following it in ring
// order; nextDisp is the next displayed present (may equal p, or be nil
// when none is known yet).
func (e *Engine) reportMetrics(ctx Context, chain *SwapChainState, p, next, nextDisp *ptypes.FrameRecord) {
	prev := chain.LastPresent
	cpuStart := prev.PresentStartTime + prev.TimeInPresent

	includeFrameData := chain.IncludeFrameData &&
		(p.FrameId != next.FrameId || p.FrameType == ptypes.FrameTypeApplication)

	if p.FrameType == ptypes.FrameTypeRepeated {
		if p.FrameId == chain.LastPresent.FrameId {
			return
		}
		if p.FrameId == next.FrameId && next.ScreenTime != 0 {
			next.ScreenTime = p.ScreenTime
			return
		}
		p.FrameType = ptypes.FrameTypeApplication
	}

	if includeFrameData {
		gpuDurationMs := ctx.ms(p.GPUStartTime, p.ReadyTime)
		cpuBusy := ctx.ms(cpuStart, p.PresentStartTime)
		cpuWait := ctx.msUnsigned(p.TimeInPresent)
		gpuLatency := ctx.ms(cpuStart, p.GPUStartTime)
		gpuBusy := ctx.msUnsigned(p.GPUDuration)
		videoBusy := ctx.msUnsigned(p.GPUVideoDuration)
		gpuWait := gpuDurationMs - gpuBusy
		if gpuWait < 0 {
			gpuWait = 0
		}

		chain.CPUBusy = append(chain.CPUBusy, cpuBusy)
		chain.CPUWait = append(chain.CPUWait, cpuWait)
		chain.GPULatency = append(chain.GPULatency, gpuLatency)
		chain.GPUBusy = append(chain.GPUBusy, gpuBusy)
		chain.VideoBusy = append(chain.VideoBusy, videoBusy)
		chain.GPUWait = append(chain.GPUWait, gpuWait)

		var animationError float64
		if chain.LastDisplayedCpuStart != 0 {
			delta := (int64(p.ScreenTime) - int64(chain.DisplayNScreenTime)) -
				(int64(cpuStart) - int64(chain.LastDisplayedCpuStart))
			animationError = ctx.signedMs(delta)
		}
		chain.AnimationError = append(chain.AnimationError, math.Abs(animationError))
	}

	if p.FinalState == ptypes.FinalStatePresented {
		displayLatency := ctx.ms(cpuStart, p.ScreenTime)

		var displayedTime float64
		if nextDisp != nil && nextDisp != p {
			displayedTime = ctx.ms(p.ScreenTime, nextDisp.ScreenTime)
		}

		chain.DisplayLatency = append(chain.DisplayLatency, displayLatency)
		chain.DisplayedTime = append(chain.DisplayedTime, displayedTime)
		chain.Dropped = append(chain.Dropped, 0)
		if p.InputTime != 0 {
			chain.ClickToPhotonLatency = append(chain.ClickToPhotonLatency, ctx.ms(p.InputTime, p.ScreenTime))
		}

		if len(chain.AppDisplayedTime) == 0 ||
			p.FrameType == ptypes.FrameTypeNotSet || p.FrameType == ptypes.FrameTypeApplication {
			chain.AppDisplayedTime = append(chain.AppDisplayedTime, displayedTime)
		} else {
			chain.AppDisplayedTime[len(chain.AppDisplayedTime)-1] += displayedTime
		}
	} else {
		chain.Dropped = append(chain.Dropped, 1)
	}

	if p.FrameId == next.FrameId && includeFrameData {
		chain.IncludeFrameData = false
	} else {
		UpdateChain(chain, *p, cpuStart, true)
		chain.IncludeFrameData = true
	}
}
