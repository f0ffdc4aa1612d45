//go:build !windows

package control

import "presentmw/internal/ptypes"

type stubListener struct{}

// NewListener is unavailable off Windows; non-Windows builds exercise
// Dispatcher directly over NewFakeTransportPair instead.
func NewListener(name string) (Listener, error) {
	return nil, ptypes.NewError(ptypes.StatusServiceError, "control.NewListener", errUnsupportedPlatform)
}

func (stubListener) Accept() (Transport, error) {
	return nil, ptypes.NewError(ptypes.StatusServiceError, "control.Listener.Accept", errUnsupportedPlatform)
}

func (stubListener) Close() error { return nil }
