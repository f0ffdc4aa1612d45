package daemon

import (
	"testing"

	"presentmw/internal/config"
	"presentmw/internal/control"
	"presentmw/internal/logchan"
	"presentmw/internal/ptypes"
)

func newTestDaemon(t *testing.T) *Daemon {
	t.Helper()
	cfg := config.DefaultConfig()
	log := logchan.New(8)
	t.Cleanup(log.Close)
	return New(cfg, log)
}

func TestHandlersSelectAdapterAndTelemetryPeriod(t *testing.T) {
	d := newTestDaemon(t)
	h := d.handlers()

	if err := h.SelectAdapter(0); err != nil {
		t.Fatalf("SelectAdapter: %v", err)
	}
	if err := h.SetTelemetryPeriod(8); err != nil {
		t.Fatalf("SetTelemetryPeriod: %v", err)
	}
}

func TestHandlersEnumerateAdaptersReturnsEmptyWithoutNVML(t *testing.T) {
	d := newTestDaemon(t)
	h := d.handlers()

	adapters, err := h.EnumerateAdapters()
	if err != nil {
		t.Fatalf("EnumerateAdapters: %v", err)
	}
	if len(adapters) != 0 {
		t.Fatalf("got %d adapters, want 0 on a non-cuda build", len(adapters))
	}
}

func TestHandlersStartStreamSurfacesOpenFailureOverControlChannel(t *testing.T) {
	d := newTestDaemon(t)

	clientT, serverT := control.NewFakeTransportPair()
	dispatcher := control.NewDispatcher(d.handlers())
	go dispatcher.Serve(serverT)

	c := control.NewClient(clientT)
	defer c.Close()

	_, err := c.StartStream(1234)
	if err == nil {
		t.Fatal("expected StartStream to fail when the ring transport is unavailable")
	}
	if got := ptypes.StatusOf(err); got != ptypes.StatusProcessNotExist {
		t.Fatalf("status = %v, want StatusProcessNotExist", got)
	}
}

func TestHealthCheckBeforeAndAfterShutdown(t *testing.T) {
	d := newTestDaemon(t)

	if err := d.HealthCheck(); err != nil {
		t.Fatalf("HealthCheck before shutdown: %v", err)
	}

	if err := d.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	if err := d.HealthCheck(); err == nil {
		t.Fatal("HealthCheck after shutdown should report the cancelled context")
	}
}
