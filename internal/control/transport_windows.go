//go:build windows

package control

import (
	"fmt"
	"time"

	"golang.org/x/sys/windows"

	"presentmw/internal/ptypes"
)

// pipeBusyRetryBudget is the 20s budget §4.8 gives a connect attempt to
// wait out ERROR_PIPE_BUSY.
const pipeBusyRetryBudget = 20 * time.Second

type windowsTransport struct {
	handle windows.Handle
}

// DialNamedPipe opens the capture service's control pipe by name (e.g.
// `\\.\pipe\pm_control_<pid>`), retrying while the pipe is busy.
func DialNamedPipe(name string) (Transport, error) {
	namePtr, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return nil, ptypes.NewError(ptypes.StatusFailure, "control.DialNamedPipe", err)
	}

	deadline := time.Now().Add(pipeBusyRetryBudget)
	for {
		h, err := windows.CreateFile(namePtr,
			windows.GENERIC_READ|windows.GENERIC_WRITE, 0, nil,
			windows.OPEN_EXISTING, 0, 0)
		if err == nil {
			return &windowsTransport{handle: h}, nil
		}
		if err != windows.ERROR_PIPE_BUSY || time.Now().After(deadline) {
			return nil, ptypes.NewError(ptypes.StatusFailure, "control.DialNamedPipe",
				fmt.Errorf("CreateFile %q: %w", name, err))
		}
		if !windows.WaitNamedPipe(namePtr, 1000) {
			time.Sleep(50 * time.Millisecond)
		}
	}
}

// SetMessageMode switches the pipe handle into message-read mode, per
// §4.8's "after connect, switch to message read mode".
func (t *windowsTransport) SetMessageMode() error {
	mode := uint32(windows.PIPE_READMODE_MESSAGE)
	if err := windows.SetNamedPipeHandleState(t.handle, &mode, nil, nil); err != nil {
		return ptypes.NewError(ptypes.StatusFailure, "control.SetMessageMode", err)
	}
	return nil
}

func (t *windowsTransport) Read(b []byte) (int, error) {
	var n uint32
	if err := windows.ReadFile(t.handle, b, &n, nil); err != nil {
		return int(n), err
	}
	return int(n), nil
}

func (t *windowsTransport) Write(b []byte) (int, error) {
	var n uint32
	if err := windows.WriteFile(t.handle, b, &n, nil); err != nil {
		return int(n), err
	}
	return int(n), nil
}

func (t *windowsTransport) Close() error {
	return windows.CloseHandle(t.handle)
}
