package control

import "net"

// fakeTransport wraps one end of an in-memory duplex pipe. SetMessageMode
// is a no-op: net.Pipe never coalesces writes, so each Write is already
// readable as one Read-sized message the way a real message-mode pipe
// would deliver it, as long as both sides read/write whole frames.
type fakeTransport struct {
	net.Conn
}

func (fakeTransport) SetMessageMode() error { return nil }

// NewFakeTransportPair returns two connected Transports: the client-side
// end a control.Client dials, and the server-side end a test or sample
// producer drives with a Dispatcher.
func NewFakeTransportPair() (client, server Transport) {
	a, b := net.Pipe()
	return fakeTransport{a}, fakeTransport{b}
}
