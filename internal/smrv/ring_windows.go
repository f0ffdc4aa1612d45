//go:build windows

package smrv

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"presentmw/internal/ptypes"
)

// header mirrors the fixed-size prologue the capture service writes at the
// start of the shared-memory section, before the FrameRecord slots. It
// carries §6's start_qpc, qpc_frequency, capacity, head_idx and
// process_active plus slot_size; it has no tail_idx field.
type header struct {
	startQpc      uint64
	qpcFrequency  uint64
	capacity      uint32
	headIndex     uint64
	slotSize      uint32
	processActive bool
}

const headerSize = 40

// windowsSource maps a named shared-memory section created by the capture
// service and exposes it as a Source.
type windowsSource struct {
	handle windows.Handle
	addr   uintptr
	size   uintptr
}

// OpenNamedRing opens the ring the capture service publishes under name
// (e.g. "pm_frame_ring_<pid>"). size is the number of bytes mapped from the
// start of the section; the caller supplies it, it is not read from the
// section or the control channel.
func OpenNamedRing(name string, size uintptr) (Source, error) {
	namePtr, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return nil, ptypes.NewError(ptypes.StatusFailure, "smrv.OpenNamedRing", err)
	}
	h, err := windows.OpenFileMapping(windows.FILE_MAP_READ, false, namePtr)
	if err != nil {
		return nil, ptypes.NewError(ptypes.StatusServiceError, "smrv.OpenNamedRing",
			fmt.Errorf("OpenFileMapping %q: %w", name, err))
	}
	addr, err := windows.MapViewOfFile(h, windows.FILE_MAP_READ, 0, 0, size)
	if err != nil {
		windows.CloseHandle(h)
		return nil, ptypes.NewError(ptypes.StatusServiceError, "smrv.OpenNamedRing",
			fmt.Errorf("MapViewOfFile %q: %w", name, err))
	}
	return &windowsSource{handle: h, addr: addr, size: size}, nil
}

func (s *windowsSource) readHeader() header {
	b := unsafe.Slice((*byte)(unsafe.Pointer(s.addr)), headerSize)
	return header{
		startQpc:      binary.LittleEndian.Uint64(b[0:8]),
		qpcFrequency:  binary.LittleEndian.Uint64(b[8:16]),
		capacity:      binary.LittleEndian.Uint32(b[16:20]),
		headIndex:     binary.LittleEndian.Uint64(b[20:28]),
		slotSize:      binary.LittleEndian.Uint32(b[28:32]),
		processActive: b[32] != 0,
	}
}

func (s *windowsSource) HeadIndex() (uint64, error) {
	return s.readHeader().headIndex, nil
}

func (s *windowsSource) Capacity() uint32 {
	return s.readHeader().capacity
}

func (s *windowsSource) QpcFrequency() uint64 {
	return s.readHeader().qpcFrequency
}

func (s *windowsSource) ProcessActive() bool {
	return s.readHeader().processActive
}

func (s *windowsSource) ReadSlot(idx uint64) (ptypes.FrameRecord, error) {
	h := s.readHeader()
	slot := idx % uint64(h.capacity)
	off := uintptr(headerSize) + uintptr(slot)*uintptr(h.slotSize)
	if off+uintptr(h.slotSize) > s.size {
		return ptypes.FrameRecord{}, ptypes.NewError(ptypes.StatusDataLoss, "smrv.ReadSlot",
			fmt.Errorf("slot %d out of mapped range", slot))
	}
	raw := unsafe.Slice((*byte)(unsafe.Pointer(s.addr+off)), h.slotSize)
	return decodeFrameRecord(raw)
}

func (s *windowsSource) Close() error {
	if s.addr != 0 {
		_ = windows.UnmapViewOfFile(s.addr)
		s.addr = 0
	}
	if s.handle != 0 {
		err := windows.CloseHandle(s.handle)
		s.handle = 0
		return err
	}
	return nil
}
