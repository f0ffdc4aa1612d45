package logchan

// attachDriverPacket, attachPolicyPacket, flushPacket, and
// disableTracePacket each mirror one AttachXPacket_/FlushPacket_ from the
// original's Channel.cpp: apply the mutation against the worker's internal
// state, then release the waiting submitter via done().

type attachDriverPacket struct {
	d  Driver
	ch chan struct{}
}

func (p *attachDriverPacket) apply(in *internal)  { in.drivers = append(in.drivers, p.d) }
func (p *attachDriverPacket) done() chan struct{} { return p.ch }

type attachPolicyPacket struct {
	p  Policy
	ch chan struct{}
}

func (p *attachPolicyPacket) apply(in *internal)  { in.policies = append(in.policies, p.p) }
func (p *attachPolicyPacket) done() chan struct{} { return p.ch }

type attachObjectPacket struct {
	obj interface{}
	ch  chan struct{}
}

func (p *attachObjectPacket) apply(in *internal)  { in.objects = append(in.objects, p.obj) }
func (p *attachObjectPacket) done() chan struct{} { return p.ch }

type flushPacket struct {
	ch chan struct{}
}

func (p *flushPacket) apply(in *internal)  {}
func (p *flushPacket) done() chan struct{} { return p.ch }

type disableTracePacket struct {
	ch chan struct{}
}

func (p *disableTracePacket) apply(in *internal)  { in.resolveTraces = false }
func (p *disableTracePacket) done() chan struct{} { return p.ch }

// killPacket has no completion channel: the worker applies it by returning
// from run(), which is itself the only signal its submitter (Close) needs.
type killPacket struct{}

func (p *killPacket) apply(in *internal)  {}
func (p *killPacket) done() chan struct{} { return nil }
