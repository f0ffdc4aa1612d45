package smrv

import (
	"testing"

	"presentmw/internal/ptypes"
)

func TestViewReadBack(t *testing.T) {
	src := NewFakeSource(4)
	for i := uint64(0); i < 3; i++ {
		src.Push(ptypes.FrameRecord{FrameId: i})
	}
	v := NewView(src)

	head, err := v.Head()
	if err != nil {
		t.Fatalf("Head: %v", err)
	}
	if head != 3 {
		t.Fatalf("head = %d, want 3", head)
	}

	latest, err := v.ReadBack(head, 0)
	if err != nil {
		t.Fatalf("ReadBack(0): %v", err)
	}
	if latest.FrameId != 2 {
		t.Fatalf("latest.FrameId = %d, want 2", latest.FrameId)
	}

	oldest, err := v.ReadBack(head, 2)
	if err != nil {
		t.Fatalf("ReadBack(2): %v", err)
	}
	if oldest.FrameId != 0 {
		t.Fatalf("oldest.FrameId = %d, want 0", oldest.FrameId)
	}
}

func TestViewReadBackDataLoss(t *testing.T) {
	src := NewFakeSource(4)
	for i := uint64(0); i < 10; i++ {
		src.Push(ptypes.FrameRecord{FrameId: i})
	}
	v := NewView(src)
	head, _ := v.Head()

	if _, err := v.ReadBack(head, 4); ptypes.StatusOf(err) != ptypes.StatusDataLoss {
		t.Fatalf("expected StatusDataLoss for offset beyond capacity, got %v", err)
	}
}

func TestViewReadBackNoData(t *testing.T) {
	src := NewFakeSource(4)
	src.Push(ptypes.FrameRecord{FrameId: 0})
	v := NewView(src)
	head, _ := v.Head()

	if _, err := v.ReadBack(head, 5); ptypes.StatusOf(err) != ptypes.StatusNoData {
		t.Fatalf("expected StatusNoData for offset before ring start, got %v", err)
	}
}
