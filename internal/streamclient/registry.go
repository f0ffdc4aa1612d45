package streamclient

import (
	"fmt"
	"sync"

	"presentmw/internal/ptypes"
	"presentmw/internal/smrv"
)

// OpenFunc opens the ring transport for pid. Production wiring plugs in
// smrv.OpenNamedRing; tests plug in a factory over smrv.FakeSource.
type OpenFunc func(pid uint32) (smrv.Source, error)

// Registry tracks one Client per monitored process, mirroring the teacher's
// name-keyed service map but keyed by pid and built lazily on first use.
type Registry struct {
	open OpenFunc

	mu      sync.Mutex
	clients map[uint32]*Client
}

// NewRegistry builds a registry that opens ring transports via open.
func NewRegistry(open OpenFunc) *Registry {
	return &Registry{open: open, clients: make(map[uint32]*Client)}
}

// Get returns the existing client for pid, opening a new ring transport if
// this is the first request for that process.
func (r *Registry) Get(pid uint32) (*Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.clients[pid]; ok {
		return c, nil
	}
	src, err := r.open(pid)
	if err != nil {
		return nil, ptypes.NewError(ptypes.StatusProcessNotExist, "streamclient.Registry.Get",
			fmt.Errorf("pid %d: %w", pid, err))
	}
	c := New(pid, smrv.NewView(src))
	r.clients[pid] = c
	return c, nil
}

// Lookup returns the client for pid without opening a new one, for callers
// that must distinguish "never streamed" from "streaming but empty".
func (r *Registry) Lookup(pid uint32) (*Client, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[pid]
	return c, ok
}

// Release closes and forgets the client for pid, if one exists.
func (r *Registry) Release(pid uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.clients[pid]
	if !ok {
		return nil
	}
	delete(r.clients, pid)
	return c.Close()
}

// Pids returns the pids currently tracked.
func (r *Registry) Pids() []uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]uint32, 0, len(r.clients))
	for pid := range r.clients {
		out = append(out, pid)
	}
	return out
}
