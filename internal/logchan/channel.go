// Package logchan implements the Logging Channel: a multi-producer queue
// fed by log entries and control packets, drained by a single background
// worker. It is grounded directly on the original C++
// implementation (CommonUtilities/log/Channel.cpp): Packet_/AttachPacket_
// become Go control-packet structs carrying a one-shot completion channel
// in place of std::binary_semaphore, and the moodycamel queue becomes a
// buffered Go channel with a sum type over entries and control packets.
package logchan

import (
	"fmt"
	"os"
	"runtime"
	"time"
)

// Level mirrors the teacher's logging.Level, reused verbatim as the
// channel's severity scale.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

var levelRank = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// Entry is one fully-resolved log record, handed to every attached driver
// after the policy chain approves it.
type Entry struct {
	Timestamp time.Time
	Level     Level
	Type      string
	Message   string
	Payload   map[string]interface{}

	// Trace holds the resolved "func (file:line)" frames once the worker
	// has resolved rawTrace, or nil if none was attached or resolution is
	// disabled.
	Trace []string

	rawTrace []uintptr
}

// captureTrace grabs the caller's raw program counters, skipping skip
// frames of logchan's own call stack. Resolution into Trace happens later,
// on the worker goroutine, only if resolveTraces is still enabled by then.
func captureTrace(skip int) []uintptr {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(skip, pcs)
	return pcs[:n]
}

func resolveTrace(pcs []uintptr) []string {
	if len(pcs) == 0 {
		return nil
	}
	frames := runtime.CallersFrames(pcs)
	var out []string
	for {
		frame, more := frames.Next()
		out = append(out, fmt.Sprintf("%s (%s:%d)", frame.Function, frame.File, frame.Line))
		if !more {
			break
		}
	}
	return out
}

// Driver receives approved entries. Submit must not block for long; slow
// sinks should buffer internally.
type Driver interface {
	Submit(Entry) error
}

// Policy inspects (and may mutate) an entry before it reaches the drivers.
// Returning false drops the entry, mirroring the C++ TransformFilter chain.
type Policy interface {
	TransformFilter(*Entry) bool
}

// queueElement is the sum type carried over the channel: either a ready
// entry or a control packet awaiting (or not) synchronous completion.
type queueElement struct {
	entry  *Entry
	packet controlPacket
}

// controlPacket mirrors Channel.cpp's Packet_ hierarchy: each op knows how
// to apply itself to the worker's internal state and then release its
// completion signal, if it has one.
type controlPacket interface {
	apply(*internal)
	done() chan struct{}
}

// Channel is the public handle application code submits entries and
// control operations through.
type Channel struct {
	queue chan queueElement
	kill  chan struct{}

	internal *internal
}

type internal struct {
	drivers       []Driver
	policies      []Policy
	objects       []interface{}
	resolveTraces bool
	panicSink     func(format string, args ...interface{})
}

// New starts the channel's worker goroutine with queueDepth buffered slots
// for non-blocking submission.
func New(queueDepth int) *Channel {
	if queueDepth <= 0 {
		queueDepth = 1024
	}
	c := &Channel{
		queue: make(chan queueElement, queueDepth),
		kill:  make(chan struct{}),
		internal: &internal{
			resolveTraces: true,
			panicSink:     defaultPanicSink,
		},
	}
	go c.run()
	return c
}

func defaultPanicSink(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "logchan: "+format+"\n", args...)
}

func (c *Channel) run() {
	for el := range c.queue {
		if el.packet != nil {
			el.packet.apply(c.internal)
			if d := el.packet.done(); d != nil {
				close(d)
			}
			if _, isKill := el.packet.(*killPacket); isKill {
				return
			}
			continue
		}
		c.process(*el.entry)
	}
}

func (c *Channel) process(e Entry) {
	for _, p := range c.internal.policies {
		if !p.TransformFilter(&e) {
			return
		}
	}
	if len(e.rawTrace) > 0 && c.internal.resolveTraces {
		e.Trace = resolveTrace(e.rawTrace)
	}
	if len(c.internal.drivers) == 0 {
		c.internal.panicSink("entry submitted with no attached drivers: %s/%s", e.Type, e.Message)
		return
	}
	for _, d := range c.internal.drivers {
		if err := d.Submit(e); err != nil {
			c.internal.panicSink("driver submit failed: %v", err)
		}
	}
}

// Submit enqueues an entry. It never blocks the caller and never returns
// an error to them; a full queue is reported to the panic sink and the
// entry is dropped.
func (c *Channel) Submit(e Entry) {
	select {
	case c.queue <- queueElement{entry: &e}:
	default:
		c.internal.panicSink("queue full, dropping entry: %s/%s", e.Type, e.Message)
	}
}

// enqueueWait submits a control packet and blocks until the worker has
// applied it, mirroring EnqueuePacketWait.
func (c *Channel) enqueueWait(p controlPacket) {
	c.queue <- queueElement{packet: p}
	<-p.done()
}

// AttachDriver registers a driver; blocks until applied.
func (c *Channel) AttachDriver(d Driver) {
	c.enqueueWait(&attachDriverPacket{d: d, ch: make(chan struct{})})
}

// AttachPolicy registers a policy; blocks until applied.
func (c *Channel) AttachPolicy(p Policy) {
	c.enqueueWait(&attachPolicyPacket{p: p, ch: make(chan struct{})})
}

// AttachObject pins obj to the channel's lifetime, mirroring the original's
// AttachObject(shared_ptr<void>): a driver or policy attached earlier may
// hold only a raw reference to obj's backing resource, so the channel keeps
// it alive until Close. Blocks until applied.
func (c *Channel) AttachObject(obj interface{}) {
	c.enqueueWait(&attachObjectPacket{obj: obj, ch: make(chan struct{})})
}

// Flush is a synchronous no-op barrier: by the time it returns, every
// entry enqueued before it has been processed.
func (c *Channel) Flush() {
	c.enqueueWait(&flushPacket{ch: make(chan struct{})})
}

// DisableTraceResolution stops the worker from resolving stack traces on
// future entries; blocks until applied.
func (c *Channel) DisableTraceResolution() {
	c.enqueueWait(&disableTracePacket{ch: make(chan struct{})})
}

// Close enqueues a kill packet asynchronously, mirroring the C++
// destructor's fire-and-forget EnqueuePacketAsync<KillPacket_>. The worker
// drains whatever was already queued, then exits.
func (c *Channel) Close() {
	select {
	case c.queue <- queueElement{packet: &killPacket{}}:
	default:
		c.internal.panicSink("queue full, kill packet dropped")
	}
}
