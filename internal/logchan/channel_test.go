package logchan

import (
	"sync"
	"testing"
	"time"
)

type recordingDriver struct {
	mu      sync.Mutex
	entries []Entry
}

func (d *recordingDriver) Submit(e Entry) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries = append(d.entries, e)
	return nil
}

func (d *recordingDriver) snapshot() []Entry {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Entry(nil), d.entries...)
}

func TestAttachDriverAndSubmit(t *testing.T) {
	c := New(16)
	defer c.Close()

	d := &recordingDriver{}
	c.AttachDriver(d)
	c.Info("test.event", "hello", map[string]interface{}{"n": 1})
	c.Flush()

	got := d.snapshot()
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	if got[0].Message != "hello" || got[0].Type != "test.event" {
		t.Fatalf("unexpected entry: %+v", got[0])
	}
}

func TestLevelFilterDropsBelowMinimum(t *testing.T) {
	c := New(16)
	defer c.Close()

	d := &recordingDriver{}
	c.AttachDriver(d)
	c.AttachPolicy(LevelFilter{Min: LevelWarn})

	c.Debug("noisy", "should be dropped", nil)
	c.Error("important", "should pass", nil)
	c.Flush()

	got := d.snapshot()
	if len(got) != 1 {
		t.Fatalf("expected 1 surviving entry, got %d: %+v", len(got), got)
	}
	if got[0].Type != "important" {
		t.Fatalf("wrong entry survived: %+v", got[0])
	}
}

func TestAttachObjectPinsUntilClose(t *testing.T) {
	c := New(16)

	type resource struct{ closed bool }
	r := &resource{}
	c.AttachObject(r)

	if len(c.internal.objects) != 1 {
		t.Fatalf("expected AttachObject to record 1 pinned object, got %d", len(c.internal.objects))
	}
	if c.internal.objects[0] != r {
		t.Fatalf("pinned object mismatch: got %v want %v", c.internal.objects[0], r)
	}

	c.Close()
}

func TestErrorResolvesAttachedTrace(t *testing.T) {
	c := New(16)
	defer c.Close()

	d := &recordingDriver{}
	c.AttachDriver(d)
	c.Error("boom", "something failed", nil)
	c.Flush()

	got := d.snapshot()
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	if len(got[0].Trace) == 0 {
		t.Fatalf("expected a resolved trace on an Error entry, got none")
	}
}

func TestDisableTraceResolutionLeavesTraceUnresolved(t *testing.T) {
	c := New(16)
	defer c.Close()

	d := &recordingDriver{}
	c.AttachDriver(d)
	c.DisableTraceResolution()
	c.Error("boom", "something failed", nil)
	c.Flush()

	got := d.snapshot()
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	if got[0].Trace != nil {
		t.Fatalf("expected no resolved trace after DisableTraceResolution, got %v", got[0].Trace)
	}
}

func TestRateLimiterExhaustsBurst(t *testing.T) {
	rl := NewRateLimiter(2, 0)
	now := time.Now()
	e := Entry{Level: LevelInfo, Type: "x", Timestamp: now}

	if !rl.TransformFilter(&e) {
		t.Fatal("first entry should pass")
	}
	if !rl.TransformFilter(&e) {
		t.Fatal("second entry should pass (burst=2)")
	}
	if rl.TransformFilter(&e) {
		t.Fatal("third entry should be dropped once burst is exhausted")
	}
}
