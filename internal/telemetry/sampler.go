package telemetry

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"

	"presentmw/internal/logchan"
	"presentmw/internal/ptypes"
)

// GPUReader is the live-telemetry half of the adapter catalog; kept as an
// interface here so the sampler doesn't need a build-tag split of its own.
type GPUReader interface {
	ReadLive() (ptypes.PowerTelemetry, error)
}

// Sampler runs out-of-band from any query poll, on its own ticker,
// populating the latest GPU/CPU telemetry reading the fake producer (and,
// in a production build, the capture service) stamps onto new
// FrameRecords. Grounded on the teacher's agent.Agent ticker-loop pattern:
// signal-free here since the service entry point owns shutdown by closing
// the stop channel passed to Run, per §5's concurrency note that the sampler
// never blocks a query operation.
type Sampler struct {
	gpu GPUReader
	log *logchan.Channel

	mu     sync.Mutex
	period time.Duration

	latest atomic.Value // holds sample
}

type sample struct {
	power ptypes.PowerTelemetry
	cpu   ptypes.CpuTelemetry
}

// NewSampler returns a sampler that polls gpu (may be nil to skip GPU
// telemetry) every period.
func NewSampler(gpu GPUReader, log *logchan.Channel, period time.Duration) *Sampler {
	if period <= 0 {
		period = time.Second
	}
	s := &Sampler{gpu: gpu, log: log, period: period}
	s.latest.Store(sample{})
	return s
}

// SetPeriod implements SetTelemetryPollingPeriod: the next tick picks up
// the new interval.
func (s *Sampler) SetPeriod(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.period = d
}

func (s *Sampler) currentPeriod() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.period
}

// Run blocks, sampling on its own ticker until stop is closed. The service
// entry point launches this in its own goroutine and closes stop to end
// it.
func (s *Sampler) Run(stop <-chan struct{}) {
	cur := s.currentPeriod()
	t := time.NewTicker(cur)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			s.tick()
			if p := s.currentPeriod(); p > 0 && p != cur {
				t.Reset(p)
				cur = p
			}
		}
	}
}

func (s *Sampler) tick() {
	snap := sample{}
	if s.gpu != nil {
		if p, err := s.gpu.ReadLive(); err == nil {
			snap.power = p
		} else if s.log != nil {
			s.log.Warn("telemetry.sampler.gpu_read_failed", "GPU telemetry read failed", map[string]interface{}{"error": err.Error()})
		}
	}
	if pct, err := cpu.Percent(0, false); err == nil && len(pct) > 0 {
		snap.cpu.CPUUtilization = pct[0]
	} else if err != nil && s.log != nil {
		s.log.Warn("telemetry.sampler.cpu_read_failed", "CPU telemetry read failed", map[string]interface{}{"error": err.Error()})
	}
	if perCore, err := cpu.Percent(0, true); err == nil {
		snap.cpu.CPUCoreUtility = perCore
	}
	s.latest.Store(snap)
}

// Latest returns the most recently sampled telemetry.
func (s *Sampler) Latest() (ptypes.PowerTelemetry, ptypes.CpuTelemetry) {
	snap := s.latest.Load().(sample)
	return snap.power, snap.cpu
}
