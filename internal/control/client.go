package control

import (
	"fmt"
	"sync"

	"presentmw/internal/ptypes"
)

// Client is the synchronous request/response side of the control channel:
// every call writes one length-prefixed request frame and blocks for the
// matching response frame, per §4.8's "the channel is strictly
// synchronous: one outstanding request at a time."
type Client struct {
	t  Transport
	mu sync.Mutex
}

// NewClient wraps an already-connected, message-mode Transport.
func NewClient(t Transport) *Client {
	return &Client{t: t}
}

// Dial opens the named pipe identified by name and switches it into
// message-read mode before handing back a Client.
func Dial(name string) (*Client, error) {
	t, err := DialNamedPipe(name)
	if err != nil {
		return nil, err
	}
	if err := t.SetMessageMode(); err != nil {
		t.Close()
		return nil, err
	}
	return NewClient(t), nil
}

// Close tears down the underlying transport.
func (c *Client) Close() error {
	return c.t.Close()
}

// roundTrip sends action with body and returns the response body, or an
// error carrying the response's status when it isn't StatusSuccess.
func (c *Client) roundTrip(action Action, body []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := writeFrame(c.t, encodeRequest(request{Action: action, Body: body})); err != nil {
		return nil, ptypes.NewError(ptypes.StatusServiceError, "control.Client", err)
	}
	raw, err := readFrame(c.t)
	if err != nil {
		return nil, ptypes.NewError(ptypes.StatusServiceError, "control.Client", err)
	}
	resp, err := decodeResponse(raw)
	if err != nil {
		return nil, ptypes.NewError(ptypes.StatusServiceError, "control.Client", err)
	}
	if resp.Status != ptypes.StatusSuccess {
		return nil, ptypes.NewError(resp.Status, opName(action), fmt.Errorf("service returned %s", resp.Status))
	}
	return resp.Body, nil
}

func opName(a Action) string {
	switch a {
	case ActionStartStream:
		return "control.StartStream"
	case ActionStopStream:
		return "control.StopStream"
	case ActionEnumerateAdapters:
		return "control.EnumerateAdapters"
	case ActionSelectAdapter:
		return "control.SelectAdapter"
	case ActionSetTelemetryPeriod:
		return "control.SetTelemetryPeriod"
	case ActionGetStaticCpuMetrics:
		return "control.GetStaticCpuMetrics"
	default:
		return "control.unknown"
	}
}

// StartStream asks the capture service to begin streaming present events
// for pid, returning the shared-memory ring's name.
func (c *Client) StartStream(pid uint32) (ringName string, err error) {
	reqBody := make([]byte, 4)
	putUint32(reqBody, 0, pid)
	body, err := c.roundTrip(ActionStartStream, reqBody)
	if err != nil {
		return "", err
	}
	return decodeString(body), nil
}

// StopStream asks the capture service to stop streaming pid.
func (c *Client) StopStream(pid uint32) error {
	reqBody := make([]byte, 4)
	putUint32(reqBody, 0, pid)
	_, err := c.roundTrip(ActionStopStream, reqBody)
	return err
}

// AdapterInfo is the wire form of one enumerated adapter.
type AdapterInfo struct {
	Index           int
	Name            string
	Vendor          string
	MemorySizeBytes uint64
	MemMaxBandwidth float64
}

// EnumerateAdapters lists the adapters the capture service's catalog has
// detected.
func (c *Client) EnumerateAdapters() ([]AdapterInfo, error) {
	body, err := c.roundTrip(ActionEnumerateAdapters, nil)
	if err != nil {
		return nil, err
	}
	return decodeAdapterList(body), nil
}

// SelectAdapter pins the query engine's active device.
func (c *Client) SelectAdapter(index int) error {
	reqBody := make([]byte, 4)
	putUint32(reqBody, 0, uint32(index))
	_, err := c.roundTrip(ActionSelectAdapter, reqBody)
	return err
}

// SetTelemetryPeriod changes the async GPU/CPU telemetry sampler's period.
func (c *Client) SetTelemetryPeriod(periodMs float64) error {
	reqBody := make([]byte, 8)
	putFloat64(reqBody, 0, periodMs)
	_, err := c.roundTrip(ActionSetTelemetryPeriod, reqBody)
	return err
}

// StaticCPUMetrics is the wire form of the CPU_NAME/CPU_VENDOR/
// CPU_POWER_LIMIT static-query row.
type StaticCPUMetrics struct {
	Name       string
	Vendor     string
	PowerLimit float64
}

// GetStaticCpuMetrics fetches the host CPU's static identification row.
func (c *Client) GetStaticCpuMetrics() (StaticCPUMetrics, error) {
	body, err := c.roundTrip(ActionGetStaticCpuMetrics, nil)
	if err != nil {
		return StaticCPUMetrics{}, err
	}
	if len(body) < 8 {
		return StaticCPUMetrics{}, ptypes.NewError(ptypes.StatusServiceError, "control.GetStaticCpuMetrics",
			fmt.Errorf("response body too short"))
	}
	powerLimit := getFloat64(body, 0)
	name, rest := decodeLengthPrefixedString(body[8:])
	vendor, _ := decodeLengthPrefixedString(rest)
	return StaticCPUMetrics{Name: name, Vendor: vendor, PowerLimit: powerLimit}, nil
}
