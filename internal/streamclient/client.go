// Package streamclient implements the Stream Client: the per-process handle
// a frame metric engine uses to pull present events off a Shared-Memory Ring
// View, plus the registry that tracks one client per monitored pid. The
// registry is modeled on the teacher's services.Manager name->instance map.
package streamclient

import (
	"fmt"
	"sync"

	"presentmw/internal/ptypes"
	"presentmw/internal/smrv"
)

// Client tracks one consumer's read position against a ring, isolating it
// from other consumers of the same ring.
type Client struct {
	pid  uint32
	view *smrv.View

	mu           sync.Mutex
	lastConsumed uint64
	haveConsumed bool
}

// New wraps view as a client for pid. The client starts with no consumed
// position: the first ConsumeNext call records the current ring head as its
// baseline and returns no frames.
func New(pid uint32, view *smrv.View) *Client {
	return &Client{pid: pid, view: view}
}

// PID returns the process this client is attached to.
func (c *Client) PID() uint32 { return c.pid }

// LatestFrameIndex returns the ring's current head index, i.e. one past the
// most recently completed present.
func (c *Client) LatestFrameIndex() (uint64, error) {
	return c.view.Head()
}

// ReadByIndex reads the frame `back` slots behind the current head.
func (c *Client) ReadByIndex(back uint64) (ptypes.FrameRecord, error) {
	head, err := c.view.Head()
	if err != nil {
		return ptypes.FrameRecord{}, err
	}
	return c.view.ReadBack(head, back)
}

// ConsumeNext returns every frame produced since the last call, oldest
// first, and advances the client's consumed position to the ring head. If
// the ring has wrapped past frames the client never saw, those frames are
// reported as lost via ptypes.StatusDataLoss rather than silently skipped.
func (c *Client) ConsumeNext() ([]ptypes.FrameRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	head, err := c.view.Head()
	if err != nil {
		return nil, err
	}
	if !c.haveConsumed {
		c.lastConsumed = head
		c.haveConsumed = true
		return nil, nil
	}
	if head == c.lastConsumed {
		return nil, nil
	}

	span := head - c.lastConsumed
	if span > uint64(c.view.Capacity()) {
		c.lastConsumed = head
		return nil, ptypes.NewError(ptypes.StatusDataLoss, "streamclient.ConsumeNext",
			fmt.Errorf("%d frames produced since last consume exceed ring capacity %d", span, c.view.Capacity()))
	}

	out := make([]ptypes.FrameRecord, 0, span)
	for back := span; back >= 1; back-- {
		rec, err := c.view.ReadBack(head, back-1)
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
	c.lastConsumed = head
	return out, nil
}

// WindowEndingAt walks backward from the ring head looking for the newest
// frame whose PresentStartTime is <= anchorQpc (the dynamic poll's
// adjustedQpc), then keeps collecting older frames down to minStartQpc. It
// reports ok=false, per §4.6 step 5, when every frame in the ring is newer
// than anchorQpc. A StatusDataLoss from the underlying ring is returned
// immediately, since it means frames inside the window were overwritten.
func (c *Client) WindowEndingAt(anchorQpc, minStartQpc uint64) (frames []ptypes.FrameRecord, startQpc uint64, ok bool, err error) {
	head, err := c.view.Head()
	if err != nil {
		return nil, 0, false, err
	}

	var collected []ptypes.FrameRecord
	foundAnchor := false
	for back := uint64(0); ; back++ {
		rec, err := c.view.ReadBack(head, back)
		if err != nil {
			if ptypes.StatusOf(err) == ptypes.StatusNoData {
				break
			}
			return nil, 0, false, err
		}
		if !foundAnchor {
			if rec.PresentStartTime > anchorQpc {
				continue
			}
			foundAnchor = true
			startQpc = rec.PresentStartTime
		}
		if rec.PresentStartTime < minStartQpc {
			break
		}
		collected = append(collected, rec)
	}
	if !foundAnchor {
		return nil, 0, false, nil
	}

	for i, j := 0, len(collected)-1; i < j; i, j = i+1, j-1 {
		collected[i], collected[j] = collected[j], collected[i]
	}
	return collected, startQpc, true, nil
}

// ProcessActive reports whether the producer still has this pid's process
// alive, per the ring header's process_active flag.
func (c *Client) ProcessActive() bool { return c.view.ProcessActive() }

// QpcFrequency returns the producer's QueryPerformanceFrequency.
func (c *Client) QpcFrequency() uint64 { return c.view.QpcFrequency() }

// Close releases the underlying ring view.
func (c *Client) Close() error {
	return c.view.Close()
}
