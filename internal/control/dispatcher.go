package control

import (
	"errors"
	"io"

	"presentmw/internal/ptypes"
)

// Handlers holds the capture-service-side callbacks a Dispatcher invokes
// for each tagged request. The daemon wires these to the stream registry,
// adapter catalog, telemetry sampler, and static CPU reader; Dispatcher
// itself knows nothing about those concrete types, only the wire shapes.
type Handlers struct {
	StartStream         func(pid uint32) (ringName string, err error)
	StopStream          func(pid uint32) error
	EnumerateAdapters   func() ([]AdapterInfo, error)
	SelectAdapter       func(index int) error
	SetTelemetryPeriod  func(periodMs float64) error
	GetStaticCpuMetrics func() (StaticCPUMetrics, error)
}

// Dispatcher serves one connected Transport, reading requests and writing
// responses until the peer closes the pipe or a framing error occurs.
// Grounded on the same synchronous one-request-at-a-time model the Client
// assumes: a single goroutine owns the transport for its whole lifetime.
type Dispatcher struct {
	h Handlers
}

// NewDispatcher builds a Dispatcher backed by h.
func NewDispatcher(h Handlers) *Dispatcher {
	return &Dispatcher{h: h}
}

// Serve loops reading request frames off t and writing response frames
// back, returning nil when the peer closes the connection cleanly.
func (d *Dispatcher) Serve(t Transport) error {
	for {
		raw, err := readFrame(t)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		req, err := decodeRequest(raw)
		if err != nil {
			return err
		}
		resp := d.handle(req)
		if err := writeFrame(t, encodeResponse(resp)); err != nil {
			return err
		}
	}
}

func (d *Dispatcher) handle(req request) response {
	switch req.Action {
	case ActionStartStream:
		return d.handleStartStream(req.Body)
	case ActionStopStream:
		return d.handleStopStream(req.Body)
	case ActionEnumerateAdapters:
		return d.handleEnumerateAdapters()
	case ActionSelectAdapter:
		return d.handleSelectAdapter(req.Body)
	case ActionSetTelemetryPeriod:
		return d.handleSetTelemetryPeriod(req.Body)
	case ActionGetStaticCpuMetrics:
		return d.handleGetStaticCpuMetrics()
	default:
		return response{Status: ptypes.StatusFailure}
	}
}

func (d *Dispatcher) handleStartStream(body []byte) response {
	if d.h.StartStream == nil || len(body) < 4 {
		return response{Status: ptypes.StatusServiceError}
	}
	pid := getUint32(body, 0)
	ringName, err := d.h.StartStream(pid)
	if err != nil {
		return response{Status: ptypes.StatusOf(err)}
	}
	return response{Status: ptypes.StatusSuccess, Body: encodeString(ringName)}
}

func (d *Dispatcher) handleStopStream(body []byte) response {
	if d.h.StopStream == nil || len(body) < 4 {
		return response{Status: ptypes.StatusServiceError}
	}
	pid := getUint32(body, 0)
	if err := d.h.StopStream(pid); err != nil {
		return response{Status: ptypes.StatusOf(err)}
	}
	return response{Status: ptypes.StatusSuccess}
}

func (d *Dispatcher) handleEnumerateAdapters() response {
	if d.h.EnumerateAdapters == nil {
		return response{Status: ptypes.StatusServiceError}
	}
	infos, err := d.h.EnumerateAdapters()
	if err != nil {
		return response{Status: ptypes.StatusOf(err)}
	}
	return response{Status: ptypes.StatusSuccess, Body: encodeAdapterList(infos)}
}

func (d *Dispatcher) handleSelectAdapter(body []byte) response {
	if d.h.SelectAdapter == nil || len(body) < 4 {
		return response{Status: ptypes.StatusServiceError}
	}
	index := int(getUint32(body, 0))
	if err := d.h.SelectAdapter(index); err != nil {
		return response{Status: ptypes.StatusOf(err)}
	}
	return response{Status: ptypes.StatusSuccess}
}

func (d *Dispatcher) handleSetTelemetryPeriod(body []byte) response {
	if d.h.SetTelemetryPeriod == nil || len(body) < 8 {
		return response{Status: ptypes.StatusServiceError}
	}
	periodMs := getFloat64(body, 0)
	if err := d.h.SetTelemetryPeriod(periodMs); err != nil {
		return response{Status: ptypes.StatusOf(err)}
	}
	return response{Status: ptypes.StatusSuccess}
}

func (d *Dispatcher) handleGetStaticCpuMetrics() response {
	if d.h.GetStaticCpuMetrics == nil {
		return response{Status: ptypes.StatusServiceError}
	}
	metrics, err := d.h.GetStaticCpuMetrics()
	if err != nil {
		return response{Status: ptypes.StatusOf(err)}
	}
	body := make([]byte, 8)
	putFloat64(body, 0, metrics.PowerLimit)
	body = append(body, encodeString(metrics.Name)...)
	body = append(body, encodeString(metrics.Vendor)...)
	return response{Status: ptypes.StatusSuccess, Body: body}
}
