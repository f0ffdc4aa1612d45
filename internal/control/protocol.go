package control

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"presentmw/internal/ptypes"
)

// Action tags the PM_ACTION a request carries, per §6's external
// interface.
type Action uint32

const (
	ActionStartStream Action = iota
	ActionStopStream
	ActionEnumerateAdapters
	ActionSelectAdapter
	ActionSetTelemetryPeriod
	ActionGetStaticCpuMetrics
)

// maxFrameBody caps a single message body, guarding against a corrupt
// length prefix turning into an unbounded allocation.
const maxFrameBody = 1 << 20

// writeFrame writes a length-prefixed frame: a 4-byte big-endian length
// followed by body.
func writeFrame(w io.Writer, body []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(body)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}

// readFrame reads one length-prefixed frame.
func readFrame(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	if n > maxFrameBody {
		return nil, fmt.Errorf("control: frame body %d exceeds %d byte cap", n, maxFrameBody)
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}
	return body, nil
}

// request is the wire form of a tagged call: a 4-byte action tag followed
// by an action-specific body.
type request struct {
	Action Action
	Body   []byte
}

func encodeRequest(req request) []byte {
	body := make([]byte, 4+len(req.Body))
	binary.BigEndian.PutUint32(body[0:4], uint32(req.Action))
	copy(body[4:], req.Body)
	return body
}

func decodeRequest(b []byte) (request, error) {
	if len(b) < 4 {
		return request{}, fmt.Errorf("control: request frame too short")
	}
	return request{Action: Action(binary.BigEndian.Uint32(b[0:4])), Body: b[4:]}, nil
}

// response is the wire form of a reply: a status code followed by an
// action-specific body, per §7's "response bodies are tagged with a
// status code".
type response struct {
	Status ptypes.Status
	Body   []byte
}

func encodeResponse(resp response) []byte {
	body := make([]byte, 4+len(resp.Body))
	binary.BigEndian.PutUint32(body[0:4], uint32(resp.Status))
	copy(body[4:], resp.Body)
	return body
}

func decodeResponse(b []byte) (response, error) {
	if len(b) < 4 {
		return response{}, fmt.Errorf("control: response frame too short")
	}
	return response{Status: ptypes.Status(binary.BigEndian.Uint32(b[0:4])), Body: b[4:]}, nil
}

func putUint32(body []byte, off int, v uint32) { binary.BigEndian.PutUint32(body[off:off+4], v) }
func getUint32(body []byte, off int) uint32    { return binary.BigEndian.Uint32(body[off : off+4]) }
func putFloat64(body []byte, off int, v float64) {
	binary.BigEndian.PutUint64(body[off:off+8], math.Float64bits(v))
}
func getFloat64(body []byte, off int) float64 {
	return math.Float64frombits(binary.BigEndian.Uint64(body[off : off+8]))
}

// encodeString writes s as a 4-byte big-endian length followed by its bytes,
// so several strings can be chained in one body.
func encodeString(s string) []byte {
	b := make([]byte, 4+len(s))
	binary.BigEndian.PutUint32(b[0:4], uint32(len(s)))
	copy(b[4:], s)
	return b
}

func decodeString(b []byte) string {
	s, _ := decodeLengthPrefixedString(b)
	return s
}

// decodeLengthPrefixedString reads one 4-byte-length-prefixed string from
// the front of b and returns it along with whatever bytes follow it, so
// callers can chain several strings in one body.
func decodeLengthPrefixedString(b []byte) (s string, rest []byte) {
	if len(b) < 4 {
		return "", nil
	}
	n := binary.BigEndian.Uint32(b[0:4])
	if uint64(n) > uint64(len(b)-4) {
		return "", nil
	}
	return string(b[4 : 4+n]), b[4+n:]
}

func encodeAdapterList(infos []AdapterInfo) []byte {
	var out []byte
	countBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(countBuf, uint32(len(infos)))
	out = append(out, countBuf...)
	for _, info := range infos {
		fixed := make([]byte, 4+8+8)
		putUint32(fixed, 0, uint32(info.Index))
		putFloat64(fixed, 4, float64(info.MemorySizeBytes))
		putFloat64(fixed, 12, info.MemMaxBandwidth)
		out = append(out, fixed...)
		out = append(out, encodeString(info.Name)...)
		out = append(out, encodeString(info.Vendor)...)
	}
	return out
}

func decodeAdapterList(b []byte) []AdapterInfo {
	if len(b) < 4 {
		return nil
	}
	count := binary.BigEndian.Uint32(b[0:4])
	b = b[4:]
	infos := make([]AdapterInfo, 0, count)
	for i := uint32(0); i < count; i++ {
		if len(b) < 20 {
			break
		}
		index := int(getUint32(b, 0))
		memSize := uint64(getFloat64(b, 4))
		memBw := getFloat64(b, 12)
		b = b[20:]
		name, rest := decodeLengthPrefixedString(b)
		vendor, rest2 := decodeLengthPrefixedString(rest)
		b = rest2
		infos = append(infos, AdapterInfo{
			Index: index, Name: name, Vendor: vendor,
			MemorySizeBytes: memSize, MemMaxBandwidth: memBw,
		})
	}
	return infos
}
