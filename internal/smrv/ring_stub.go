//go:build !windows

package smrv

import (
	"presentmw/internal/ptypes"
)

// OpenNamedRing is unavailable off Windows: the capture service only ever
// publishes its ring as a Win32 named section. Non-Windows builds exercise
// the rest of the stack through NewFakeSource instead.
func OpenNamedRing(name string, size uintptr) (Source, error) {
	return nil, ptypes.NewError(ptypes.StatusServiceError, "smrv.OpenNamedRing",
		errUnsupportedPlatform)
}
