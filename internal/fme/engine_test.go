package fme

import (
	"math"
	"testing"

	"presentmw/internal/ptypes"
)

const qpcFreq = 1000 // 1 tick == 1 ms, for readable fixtures

func present(id, startQpc, timeInPresent, screenTime uint64, final ptypes.FinalState, ft ptypes.FrameType) ptypes.FrameRecord {
	return ptypes.FrameRecord{
		FrameId:          id,
		SwapChainAddress: 0xA,
		PresentStartTime: startQpc,
		TimeInPresent:    timeInPresent,
		ScreenTime:       screenTime,
		FinalState:       final,
		FrameType:        ft,
	}
}

// S1: one chain, five presented frames, constant cpuBusy=5ms cpuWait=1ms =>
// PRESENTED_FPS average of 1000/6.
func TestScenarioS1ConstantCadence(t *testing.T) {
	ctx := Context{QpcFrequency: qpcFreq}
	var records []ptypes.FrameRecord
	// cpuStart(p) = prev.PresentStartTime + prev.TimeInPresent, and
	// cpuBusy = p.PresentStartTime - cpuStart, so consecutive starts must
	// be spaced by cpuBusy+cpuWait = 6ms after accounting for TimeInPresent=1ms.
	var start uint64 = 100
	for i := 0; i < 6; i++ {
		records = append(records, present(uint64(i), start, 1, start+5, ptypes.FinalStatePresented, ptypes.FrameTypeApplication))
		start += 6
	}

	e := NewEngine()
	chains := e.Process(ctx, records)
	chain := chains[0xA]
	if len(chain.CPUBusy) == 0 {
		t.Fatalf("expected populated cpuBusy array")
	}
	for i, v := range chain.CPUBusy {
		if math.Abs(v-5) > 1e-9 {
			t.Errorf("cpuBusy[%d] = %v, want 5", i, v)
		}
	}
	derived := Derive(chain)
	for i, fps := range derived.PresentedFps {
		want := 1000.0 / 6.0
		if math.Abs(fps-want) > 1e-6 {
			t.Errorf("presentedFps[%d] = %v, want %v", i, fps, want)
		}
	}
}

// S2: mixed displayed/dropped, dropped = [0,1,0,0,1] => DROPPED_FRAMES_AVG
// == 0.4.
func TestScenarioS2DroppedAverage(t *testing.T) {
	ctx := Context{QpcFrequency: qpcFreq}
	finals := []ptypes.FinalState{
		ptypes.FinalStatePresented,
		ptypes.FinalStateDropped,
		ptypes.FinalStatePresented,
		ptypes.FinalStatePresented,
		ptypes.FinalStateDropped,
	}
	var records []ptypes.FrameRecord
	var start uint64 = 100
	// A leading present only seeds chain.LastPresent; it produces no row
	// of its own, so the five scenario frames below are ids 1..5.
	records = append(records, present(0, start, 1, start+5, ptypes.FinalStatePresented, ptypes.FrameTypeApplication))
	start += 6
	for i, final := range finals {
		screen := uint64(0)
		if final == ptypes.FinalStatePresented {
			screen = start + 5
		}
		records = append(records, present(uint64(i+1), start, 1, screen, final, ptypes.FrameTypeApplication))
		start += 6
	}
	// trailing present flushes the pending buffer for the last entry.
	records = append(records, present(99, start, 1, start+5, ptypes.FinalStatePresented, ptypes.FrameTypeApplication))

	e := NewEngine()
	chains := e.Process(ctx, records)
	chain := chains[0xA]

	if len(chain.Dropped) == 0 {
		t.Fatalf("expected dropped entries")
	}
	var sum float64
	for _, d := range chain.Dropped {
		sum += d
	}
	avg := sum / float64(len(chain.Dropped))
	if math.Abs(avg-0.4) > 1e-9 {
		t.Errorf("dropped average = %v, want 0.4 (dropped=%v)", avg, chain.Dropped)
	}
}

// A chain's first reported present has no prior displayed baseline: the
// chain was seeded (not yet valid) on the present before it, so
// LastDisplayedCpuStart must stay at its zero sentinel and animationError
// must report 0 rather than comparing against a bogus baseline.
func TestAnimationErrorSuppressedOnFirstReportedPresent(t *testing.T) {
	ctx := Context{QpcFrequency: qpcFreq}
	var records []ptypes.FrameRecord
	var start uint64 = 100
	for i := 0; i < 3; i++ {
		records = append(records, present(uint64(i), start, 1, start+5, ptypes.FinalStatePresented, ptypes.FrameTypeApplication))
		start += 6
	}

	e := NewEngine()
	chains := e.Process(ctx, records)
	chain := chains[0xA]
	if len(chain.AnimationError) == 0 {
		t.Fatalf("expected at least one reported row")
	}
	if chain.AnimationError[0] != 0 {
		t.Errorf("animationError[0] = %v, want 0 (no prior displayed baseline)", chain.AnimationError[0])
	}
}

// AnimationError belongs to the includeFrameData-gated group, not the
// displayed/dropped group: when a frame-generation present coalesces into
// the next arrival (includeFrameData false for its row), AnimationError
// must stay in lockstep with CPUBusy's length, not with DisplayLatency's or
// Dropped's.
func TestAnimationErrorTracksIncludeFrameDataNotDisplayed(t *testing.T) {
	ctx := Context{QpcFrequency: qpcFreq}
	p0 := present(0, 100, 1, 105, ptypes.FinalStatePresented, ptypes.FrameTypeApplication)
	p1 := present(1, 106, 1, 111, ptypes.FinalStatePresented, ptypes.FrameTypeIntelXeFGFrame)
	p2 := present(1, 112, 1, 117, ptypes.FinalStatePresented, ptypes.FrameTypeApplication)
	p3 := present(2, 118, 1, 123, ptypes.FinalStatePresented, ptypes.FrameTypeApplication)

	e := NewEngine()
	chains := e.Process(ctx, []ptypes.FrameRecord{p0, p1, p2, p3})
	chain := chains[0xA]

	// p1's row coalesces into p2 (same FrameId, p1 not Application), so it
	// is excluded from frame data but still reported as a displayed,
	// non-dropped present; p2's row is the only one with frame data.
	if len(chain.Dropped) != 2 {
		t.Fatalf("expected 2 displayed rows (p1, p2), got %d (%v)", len(chain.Dropped), chain.Dropped)
	}
	if len(chain.CPUBusy) != 1 {
		t.Fatalf("expected 1 frame-data row (p2 only), got %d (%v)", len(chain.CPUBusy), chain.CPUBusy)
	}
	if len(chain.AnimationError) != len(chain.CPUBusy) {
		t.Fatalf("AnimationError length %d must track CPUBusy length %d, not Dropped length %d",
			len(chain.AnimationError), len(chain.CPUBusy), len(chain.Dropped))
	}
}

// Testable property 1: ring ordering. FME must process and accumulate
// metrics in the order records were handed to it.
func TestRingOrderingPreserved(t *testing.T) {
	ctx := Context{QpcFrequency: qpcFreq}
	var records []ptypes.FrameRecord
	var start uint64 = 100
	for i := 0; i < 5; i++ {
		records = append(records, present(uint64(i), start, 1, start+5, ptypes.FinalStatePresented, ptypes.FrameTypeApplication))
		start += 6
	}
	e := NewEngine()
	chains := e.Process(ctx, records)
	chain := chains[0xA]
	for i := 1; i < len(chain.DisplayLatency); i++ {
		if chain.DisplayLatency[i] < chain.DisplayLatency[i-1] {
			t.Errorf("display latency not monotonic at %d: %v", i, chain.DisplayLatency)
		}
	}
}

// Testable property 4: repeated-frame splice. A Repeated record sharing its
// FrameId with the next present, carrying a non-zero ScreenTime, donates
// that ScreenTime to the neighbour instead of producing its own row.
func TestRepeatedFrameSplice(t *testing.T) {
	ctx := Context{QpcFrequency: qpcFreq}
	p0 := present(1, 100, 1, 105, ptypes.FinalStatePresented, ptypes.FrameTypeApplication)
	repeated := present(2, 106, 1, 111, ptypes.FinalStatePresented, ptypes.FrameTypeRepeated)
	p2 := present(2, 112, 1, 200, ptypes.FinalStatePresented, ptypes.FrameTypeApplication) // same FrameId as repeated; splice overwrites this ScreenTime
	p3 := present(3, 118, 1, 123, ptypes.FinalStatePresented, ptypes.FrameTypeApplication)

	e := NewEngine()
	chains := e.Process(ctx, []ptypes.FrameRecord{p0, repeated, p2, p3})
	chain := chains[0xA]

	// The repeated frame is spliced into p2 and produces no row of its
	// own; p0 only seeds the chain and p3 stays pending at the end of the
	// window, so exactly one row (p2's) is reported.
	if len(chain.Dropped) != 1 {
		t.Fatalf("expected exactly 1 reported row after splice, got %d (%v)", len(chain.Dropped), chain.Dropped)
	}
	// displayLatency must be computed from the spliced ScreenTime (111),
	// not p2's original 200: ms(cpuStart=101, 111) = 10.
	if got, want := chain.DisplayLatency[0], 10.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("displayLatency after splice = %v, want %v (spliced ScreenTime not applied)", got, want)
	}
}
