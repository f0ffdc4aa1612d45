// Package daemon wires the middleware's subsystems — the stream
// registry, frame metric engine, telemetry sampler, adapter catalog,
// query engine, and control channel — into one service process.
// Grounded on the teacher's internal/agent.Agent: the same
// context-cancellation plus ticker plus signal-channel main loop,
// generalized from idle-detection bookkeeping into running the
// telemetry sampler and accepting control-channel connections.
package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"presentmw/internal/adapter"
	"presentmw/internal/config"
	"presentmw/internal/control"
	"presentmw/internal/logchan"
	"presentmw/internal/query"
	"presentmw/internal/smrv"
	"presentmw/internal/streamclient"
	"presentmw/internal/telemetry"
)

const ringSizeBytes = 4 << 20 // 4 MiB, enough for several thousand queued present events

// Daemon owns every long-lived subsystem and the control-channel listener
// that exposes them to clients.
type Daemon struct {
	cfg config.Config
	log *logchan.Channel

	ctx    context.Context
	cancel context.CancelFunc

	startTime time.Time
	tickRate  time.Duration

	registry *streamclient.Registry
	catalog  *adapter.Catalog
	sampler  *telemetry.Sampler
	engine   *query.Engine
	listener control.Listener
}

// New builds a Daemon from cfg, wiring the stream registry's ring opener
// to the platform's real named-ring transport.
func New(cfg config.Config, log *logchan.Channel) *Daemon {
	ctx, cancel := context.WithCancel(context.Background())

	catalog := adapter.NewCatalog(log)
	_ = catalog.SelectAdapter(cfg.Adapter.PreferredIndex)
	sampler := telemetry.NewSampler(catalog, log, time.Duration(cfg.Telemetry.SamplePeriodMs*float64(time.Millisecond)))

	registry := streamclient.NewRegistry(func(pid uint32) (smrv.Source, error) {
		return smrv.OpenNamedRing(ringName(cfg.PipeNamePrefix, pid), ringSizeBytes)
	})

	engine := query.NewEngine(registry, newStaticProvider(catalog), catalog, log)

	return &Daemon{
		cfg:       cfg,
		log:       log,
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
		tickRate:  10 * time.Second,
		registry:  registry,
		catalog:   catalog,
		sampler:   sampler,
		engine:    engine,
	}
}

// Engine exposes the wired query engine, for the control dispatcher and
// any in-process client (tests, the cmd entry point).
func (d *Daemon) Engine() *query.Engine { return d.engine }

func ringName(prefix string, pid uint32) string {
	return fmt.Sprintf("%s_%d", prefix, pid)
}

// Run starts the telemetry sampler, accepts control-channel connections on
// name, and blocks until a termination signal or context cancellation.
func (d *Daemon) Run(name string) error {
	d.log.Info("daemon.started", "middleware service started", map[string]interface{}{
		"pid":              os.Getpid(),
		"pipe_name_prefix": d.cfg.PipeNamePrefix,
	})

	var g errgroup.Group

	stopSampler := make(chan struct{})
	g.Go(func() error {
		d.sampler.Run(stopSampler)
		return nil
	})

	listener, err := control.NewListener(name)
	if err != nil {
		d.log.Warn("daemon.listener.unavailable", "control channel listener unavailable", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		d.listener = listener
		g.Go(func() error {
			d.acceptLoop()
			return nil
		})
	}
	defer func() {
		close(stopSampler)
		g.Wait()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	ticker := time.NewTicker(d.tickRate)
	defer ticker.Stop()

	for {
		select {
		case <-d.ctx.Done():
			d.log.Info("daemon.context_cancelled", "daemon context cancelled", nil)
			return d.ctx.Err()

		case sig := <-sigChan:
			d.log.Info("daemon.signal_received", "received signal", map[string]interface{}{"signal": sig.String()})
			switch sig {
			case syscall.SIGHUP:
				d.log.Info("daemon.reload", "configuration reload requested", nil)
			case syscall.SIGTERM, syscall.SIGINT:
				return d.Shutdown()
			}

		case <-ticker.C:
			uptime := time.Since(d.startTime)
			d.log.Debug("daemon.heartbeat", "daemon heartbeat", map[string]interface{}{
				"uptime_seconds":   uptime.Seconds(),
				"streamed_process": len(d.registry.Pids()),
			})
		}
	}
}

func (d *Daemon) acceptLoop() {
	dispatcher := control.NewDispatcher(d.handlers())
	for {
		t, err := d.listener.Accept()
		if err != nil {
			select {
			case <-d.ctx.Done():
				return
			default:
			}
			d.log.Warn("daemon.accept_failed", "control channel accept failed", map[string]interface{}{"error": err.Error()})
			return
		}
		go func() {
			if err := dispatcher.Serve(t); err != nil {
				d.log.Debug("daemon.connection_closed", "control channel connection ended", map[string]interface{}{"error": err.Error()})
			}
			t.Close()
		}()
	}
}

// handlers binds the control channel's tagged actions to the registry,
// catalog, and sampler.
func (d *Daemon) handlers() control.Handlers {
	return control.Handlers{
		StartStream: func(pid uint32) (string, error) {
			if _, err := d.registry.Get(pid); err != nil {
				return "", err
			}
			return ringName(d.cfg.PipeNamePrefix, pid), nil
		},
		StopStream: func(pid uint32) error {
			return d.registry.Release(pid)
		},
		EnumerateAdapters: func() ([]control.AdapterInfo, error) {
			snap := d.catalog.EnumerateAdapters()
			out := make([]control.AdapterInfo, 0, len(snap.Adapters))
			for _, a := range snap.Adapters {
				out = append(out, control.AdapterInfo{
					Index:           a.Index,
					Name:            a.Name,
					Vendor:          a.Vendor,
					MemorySizeBytes: a.MemorySizeBytes,
					MemMaxBandwidth: a.MemMaxBandwidth,
				})
			}
			return out, nil
		},
		SelectAdapter: func(index int) error {
			return d.catalog.SelectAdapter(index)
		},
		SetTelemetryPeriod: func(periodMs float64) error {
			d.sampler.SetPeriod(time.Duration(periodMs * float64(time.Millisecond)))
			return nil
		},
		GetStaticCpuMetrics: func() (control.StaticCPUMetrics, error) {
			info, err := adapter.StaticCPU()
			if err != nil {
				return control.StaticCPUMetrics{}, err
			}
			return control.StaticCPUMetrics{Name: info.Name, Vendor: info.Vendor, PowerLimit: info.PowerLimit}, nil
		},
	}
}

// Shutdown cancels the daemon's context, unblocking Run and stopping the
// accept loop.
func (d *Daemon) Shutdown() error {
	d.log.Info("daemon.stopping", "stopping middleware service", nil)
	if d.listener != nil {
		d.listener.Close()
	}
	d.cancel()
	d.log.Info("daemon.stopped", "middleware service stopped", map[string]interface{}{
		"uptime_seconds": time.Since(d.startTime).Seconds(),
	})
	return nil
}

// HealthCheck reports whether the daemon's context is still live.
func (d *Daemon) HealthCheck() error {
	select {
	case <-d.ctx.Done():
		return fmt.Errorf("daemon context is cancelled")
	default:
		return nil
	}
}
