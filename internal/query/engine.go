package query

import (
	"errors"
	"fmt"
	"sync"

	"presentmw/internal/fme"
	"presentmw/internal/streamclient"
)

// qpcRebindThreshold is the clock-jump tolerance §4.6.1 specifies: once the
// observed delta between the client's wall clock and the producer's
// latest frame drifts past this many QPC ticks, the stored delta rebinds
// instead of compounding the drift.
const qpcRebindThreshold = 50_000_000

// AdapterSelector is the control-channel operation a device-pinned query
// drives when its target device differs from the engine's current one.
type AdapterSelector interface {
	SelectAdapter(index int) error
}

// StaticProvider answers the handful of metrics that never change across a
// poll: device identity and limits, sourced from the Adapter/Device
// Catalog and the CPU static-info reader.
type StaticProvider interface {
	CPUStatic() (name, vendor string, powerLimitWatts float64, err error)
	GPUStatic(deviceIndex int) (name, vendor string, memMaxBandwidth float64, err error)
}

// ErrStreamNotFound is returned by ConsumeFrameEvents when pid has no
// active StreamClient.
var ErrStreamNotFound = errors.New("query: stream not found")

// ErrProcessGone is returned by ConsumeFrameEvents when the monitored
// process has exited; the engine auto-stops the stream before returning
// it.
var ErrProcessGone = errors.New("query: process exited")

// Engine is the Query Engine: it owns the dynamic and frame poll paths,
// the result/delta caches they consult, and the registry/FME/TA/SE
// plumbing every poll drives. One Engine serves every registered query;
// per §5, callers must serialize their own poll calls.
type Engine struct {
	registry *streamclient.Registry
	fme      *fme.Engine
	static   StaticProvider
	selector AdapterSelector
	log      logger

	mu            sync.Mutex
	currentDevice int
	cache         *queryCache
	deltas        *queryDeltaMap
	frameState    map[frameStateKey]*frameCursor
}

type logger interface {
	Warn(eventType, message string, payload map[string]interface{})
}

// NewEngine wires a Query Engine over registry. static and selector may be
// nil; log may be nil (drops diagnostics silently).
func NewEngine(registry *streamclient.Registry, static StaticProvider, selector AdapterSelector, log logger) *Engine {
	return &Engine{
		registry:   registry,
		fme:        fme.NewEngine(),
		static:     static,
		selector:   selector,
		cache:      newQueryCache(),
		deltas:     newQueryDeltaMap(),
		frameState: make(map[frameStateKey]*frameCursor),
	}
}

func (e *Engine) pinDevice(index int) error {
	if index < 0 || index == e.currentDevice {
		return nil
	}
	if e.selector != nil {
		if err := e.selector.SelectAdapter(index); err != nil {
			return fmt.Errorf("query: select adapter %d: %w", index, err)
		}
	}
	e.currentDevice = index
	return nil
}

// FreeDynamicQuery releases every cached result/delta the engine is
// holding for q, across every pid it was ever polled against.
func (e *Engine) FreeDynamicQuery(q *DynamicQuery) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for k := range e.cache.blobs {
		if k.query == q {
			delete(e.cache.blobs, k)
		}
	}
	for k := range e.deltas.deltas {
		if k.query == q {
			delete(e.deltas.deltas, k)
		}
	}
}

// FreeFrameEventQuery releases q's consume cursor for every pid it was
// ever polled against.
func (e *Engine) FreeFrameEventQuery(q *FrameQuery) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for k := range e.frameState {
		if k.query == q {
			delete(e.frameState, k)
		}
	}
}

func absDeltaU64(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}
