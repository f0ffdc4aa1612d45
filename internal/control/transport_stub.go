//go:build !windows

package control

import "presentmw/internal/ptypes"

// DialNamedPipe is unavailable off Windows; non-Windows builds exercise
// the protocol through NewFakeTransportPair instead.
func DialNamedPipe(name string) (Transport, error) {
	return nil, ptypes.NewError(ptypes.StatusServiceError, "control.DialNamedPipe",
		errUnsupportedPlatform)
}
