package streamclient

import (
	"testing"

	"presentmw/internal/ptypes"
	"presentmw/internal/smrv"
)

func TestRegistryGetIsIdempotent(t *testing.T) {
	fakes := map[uint32]*smrv.FakeSource{}
	r := NewRegistry(func(pid uint32) (smrv.Source, error) {
		f := smrv.NewFakeSource(8)
		fakes[pid] = f
		return f, nil
	})

	c1, err := r.Get(42)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	c2, err := r.Get(42)
	if err != nil {
		t.Fatalf("Get again: %v", err)
	}
	if c1 != c2 {
		t.Fatalf("expected same client instance for repeated Get")
	}
	if len(fakes) != 1 {
		t.Fatalf("expected ring opened exactly once, opened %d times", len(fakes))
	}
}

func TestRegistryRelease(t *testing.T) {
	r := NewRegistry(func(pid uint32) (smrv.Source, error) {
		return smrv.NewFakeSource(8), nil
	})
	if _, err := r.Get(1); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if err := r.Release(1); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if len(r.Pids()) != 0 {
		t.Fatalf("expected no tracked pids after release")
	}
}

func TestClientConsumeNext(t *testing.T) {
	f := smrv.NewFakeSource(4)
	c := New(7, smrv.NewView(f))

	if frames, err := c.ConsumeNext(); err != nil || len(frames) != 0 {
		t.Fatalf("first ConsumeNext should be empty baseline, got %v %v", frames, err)
	}

	f.Push(ptypes.FrameRecord{FrameId: 1})
	f.Push(ptypes.FrameRecord{FrameId: 2})

	frames, err := c.ConsumeNext()
	if err != nil {
		t.Fatalf("ConsumeNext: %v", err)
	}
	if len(frames) != 2 || frames[0].FrameId != 1 || frames[1].FrameId != 2 {
		t.Fatalf("unexpected frames: %+v", frames)
	}
}
