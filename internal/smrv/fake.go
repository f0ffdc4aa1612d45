package smrv

import (
	"sync"

	"presentmw/internal/ptypes"
)

// FakeSource is an in-memory ring used by tests. It behaves like the real
// mapped ring: pushing
// past capacity silently overwrites the oldest slot, and reading an index
// older than the retained window reports data loss.
type FakeSource struct {
	mu           sync.Mutex
	capacity     uint32
	slots        []ptypes.FrameRecord
	head         uint64
	qpcFrequency uint64
	active       bool
}

// NewFakeSource creates an empty, active ring with room for capacity
// records and a QPC frequency of 10,000,000 (100ns ticks, matching the
// Windows QPC default on most hardware).
func NewFakeSource(capacity uint32) *FakeSource {
	return &FakeSource{
		capacity:     capacity,
		slots:        make([]ptypes.FrameRecord, capacity),
		qpcFrequency: 10_000_000,
		active:       true,
	}
}

// SetProcessActive lets tests simulate the monitored process exiting.
func (f *FakeSource) SetProcessActive(active bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.active = active
}

// SetQpcFrequency overrides the simulated QPC frequency.
func (f *FakeSource) SetQpcFrequency(freq uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.qpcFrequency = freq
}

func (f *FakeSource) QpcFrequency() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.qpcFrequency
}

func (f *FakeSource) ProcessActive() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

// Push appends a frame as the new head, overwriting the oldest slot once
// the ring is full.
func (f *FakeSource) Push(r ptypes.FrameRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.slots[f.head%uint64(f.capacity)] = r
	f.head++
}

func (f *FakeSource) HeadIndex() (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.head, nil
}

func (f *FakeSource) Capacity() uint32 {
	return f.capacity
}

func (f *FakeSource) ReadSlot(idx uint64) (ptypes.FrameRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if idx >= f.head || f.head-idx > uint64(f.capacity) {
		return ptypes.FrameRecord{}, ptypes.NewError(ptypes.StatusDataLoss, "smrv.FakeSource.ReadSlot", nil)
	}
	return f.slots[idx%uint64(f.capacity)], nil
}

func (f *FakeSource) Close() error { return nil }
