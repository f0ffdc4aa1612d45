package fme

import "presentmw/internal/ptypes"

// SwapChainState is the per-swap-chain accumulator rebuilt fresh for every
// poll; it never outlives the poll that created it.
type SwapChainState struct {
	LastPresent ptypes.FrameRecord
	Valid       bool

	LastDisplayedCpuStart uint64
	DisplayCount          int
	Display0ScreenTime    uint64
	DisplayNScreenTime    uint64

	Pending []*ptypes.FrameRecord

	IncludeFrameData bool

	CPUBusy               []float64
	CPUWait               []float64
	GPULatency            []float64
	GPUBusy               []float64
	VideoBusy             []float64
	GPUWait               []float64
	AnimationError        []float64
	DisplayLatency        []float64
	DisplayedTime         []float64
	AppDisplayedTime      []float64
	ClickToPhotonLatency  []float64
	Dropped               []float64
}

// NewSwapChainState returns an empty, invalid chain ready for its first
// present.
func NewSwapChainState() *SwapChainState {
	return &SwapChainState{IncludeFrameData: true}
}

// UpdateChain folds present p into chain as the new lastPresent, tracking
// the display bookkeeping ReportMetrics consults on the next present.
// wasValid reports whether chain.Valid was already true before this call;
// LastDisplayedCpuStart is only primed when it was, matching the original's
// UpdateChain, which only touches mLastDisplayedCPUStart when
// mLastPresentIsValid held at entry — never on a chain's first present.
func UpdateChain(chain *SwapChainState, p ptypes.FrameRecord, cpuStart uint64, wasValid bool) {
	if p.FinalState == ptypes.FinalStatePresented {
		chain.DisplayCount++
		if chain.DisplayCount == 1 {
			chain.Display0ScreenTime = p.ScreenTime
		}
		chain.DisplayNScreenTime = p.ScreenTime
		if wasValid {
			chain.LastDisplayedCpuStart = cpuStart
		}
	}
	chain.LastPresent = p
	chain.Valid = true
}
