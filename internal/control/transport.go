// Package control implements the Control Channel: a length-prefixed,
// message-mode, synchronous request/response byte pipe between this
// middleware and the capture service. The platform split mirrors smrv's
// ring_windows.go/ring_stub.go convention: a real named-pipe dialer on
// Windows, a stub everywhere else, and an in-process fake transport for
// tests and the sample client/producer pairing.
package control

import "io"

// Transport is the byte pipe a Client frames requests/responses over. Real
// implementations switch the underlying pipe into message-read mode once
// after connecting; the fake transport used by tests is already
// message-safe since it never coalesces writes.
type Transport interface {
	io.ReadWriteCloser
	SetMessageMode() error
}
