//go:build windows

package control

import (
	"golang.org/x/sys/windows"

	"presentmw/internal/ptypes"
)

const (
	pipeBufferSize  = 64 * 1024
	pipeMaxInstance = windows.PIPE_UNLIMITED_INSTANCES
)

type windowsListener struct {
	name string
}

// NewListener creates a named-pipe server listening under name (e.g.
// `\\.\pipe\pm_control`).
func NewListener(name string) (Listener, error) {
	return &windowsListener{name: name}, nil
}

// Accept creates a fresh pipe instance and blocks until a client connects
// to it, returning a Transport scoped to that one connection. The
// listener keeps accepting on the same name afterward, so concurrent
// clients each get their own instance.
func (l *windowsListener) Accept() (Transport, error) {
	namePtr, err := windows.UTF16PtrFromString(l.name)
	if err != nil {
		return nil, ptypes.NewError(ptypes.StatusFailure, "control.Listener.Accept", err)
	}

	handle, err := windows.CreateNamedPipe(
		namePtr,
		windows.PIPE_ACCESS_DUPLEX,
		windows.PIPE_TYPE_MESSAGE|windows.PIPE_READMODE_MESSAGE|windows.PIPE_WAIT,
		pipeMaxInstance,
		pipeBufferSize,
		pipeBufferSize,
		0,
		nil,
	)
	if err != nil {
		return nil, ptypes.NewError(ptypes.StatusFailure, "control.Listener.Accept", err)
	}

	if err := windows.ConnectNamedPipe(handle, nil); err != nil && err != windows.ERROR_PIPE_CONNECTED {
		windows.CloseHandle(handle)
		return nil, ptypes.NewError(ptypes.StatusFailure, "control.Listener.Accept", err)
	}

	return &windowsTransport{handle: handle}, nil
}

func (l *windowsListener) Close() error { return nil }
