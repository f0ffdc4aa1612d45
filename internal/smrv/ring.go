// Package smrv implements the Shared-Memory Ring View: the read-only window
// onto the capture service's present-event ring that every stream client
// polls. The transport that maps the ring into this process is
// platform-gated (ring_windows.go / ring_stub.go); the decrement/wraparound
// logic here is platform-independent and is what client code actually
// calls.
package smrv

import (
	"fmt"

	"presentmw/internal/ptypes"
)

// Source is the minimum a ring transport must provide: the current write
// head, the ring's capacity, and random access to a slot by its absolute
// (ever-increasing) index.
type Source interface {
	// HeadIndex returns the index of the next slot the writer will fill.
	// The most recently completed frame is at HeadIndex-1.
	HeadIndex() (uint64, error)
	// Capacity is the number of FrameRecord slots in the ring.
	Capacity() uint32
	// ReadSlot copies the FrameRecord stored at absolute index idx. It
	// returns ptypes.StatusDataLoss if idx has already been overwritten.
	ReadSlot(idx uint64) (ptypes.FrameRecord, error)
	// QpcFrequency is the producer's QueryPerformanceFrequency, needed to
	// convert between QPC ticks and milliseconds.
	QpcFrequency() uint64
	// ProcessActive reports the producer's last-published process_active
	// flag: false once the monitored process has exited.
	ProcessActive() bool
	// Close releases the mapping.
	Close() error
}

// View wraps a Source with the bounds checking needed to walk the ring
// backwards from the head without racing the writer.
type View struct {
	src Source
}

// NewView wraps src for client use.
func NewView(src Source) *View {
	return &View{src: src}
}

// Head returns the writer's current head index.
func (v *View) Head() (uint64, error) {
	return v.src.HeadIndex()
}

// Capacity returns the number of slots the ring holds.
func (v *View) Capacity() uint32 {
	return v.src.Capacity()
}

// QpcFrequency returns the producer's QueryPerformanceFrequency.
func (v *View) QpcFrequency() uint64 {
	return v.src.QpcFrequency()
}

// ProcessActive reports whether the monitored process is still alive,
// per the producer's process_active header flag.
func (v *View) ProcessActive() bool {
	return v.src.ProcessActive()
}

// ReadBack reads the slot `back` positions behind the given head (back=0 is
// the most recently completed present, head-1). It fails with
// ptypes.StatusDataLoss once back exceeds the ring's capacity, since that
// slot has necessarily been overwritten by the writer.
func (v *View) ReadBack(head uint64, back uint64) (ptypes.FrameRecord, error) {
	cap64 := uint64(v.src.Capacity())
	if back+1 > head {
		return ptypes.FrameRecord{}, ptypes.NewError(ptypes.StatusNoData, "smrv.ReadBack",
			fmt.Errorf("offset %d precedes ring start (head=%d)", back, head))
	}
	if back >= cap64 {
		return ptypes.FrameRecord{}, ptypes.NewError(ptypes.StatusDataLoss, "smrv.ReadBack",
			fmt.Errorf("requested offset %d exceeds ring capacity %d", back, cap64))
	}
	idx := head - 1 - back
	return v.src.ReadSlot(idx)
}

// Close releases the underlying transport.
func (v *View) Close() error {
	return v.src.Close()
}
