package logchan

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// jsonLine is the wire shape written by both drivers, matching the
// teacher's logging.Event json tags.
type jsonLine struct {
	Timestamp string                 `json:"timestamp"`
	Level     Level                  `json:"level"`
	Type      string                 `json:"type"`
	Message   string                 `json:"message"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	Trace     []string               `json:"trace,omitempty"`
}

func encode(e Entry) ([]byte, error) {
	line := jsonLine{
		Timestamp: e.Timestamp.Format("2006-01-02T15:04:05.000Z07:00"),
		Level:     e.Level,
		Type:      e.Type,
		Message:   e.Message,
		Payload:   e.Payload,
		Trace:     e.Trace,
	}
	b, err := json.Marshal(line)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// ConsoleDriver writes JSON lines to an io.Writer, stderr by default.
type ConsoleDriver struct {
	out io.Writer
}

// NewConsoleDriver writes to out, or os.Stderr if out is nil.
func NewConsoleDriver(out io.Writer) *ConsoleDriver {
	if out == nil {
		out = os.Stderr
	}
	return &ConsoleDriver{out: out}
}

func (d *ConsoleDriver) Submit(e Entry) error {
	b, err := encode(e)
	if err != nil {
		return err
	}
	_, err = d.out.Write(b)
	return err
}

// FileDriver appends JSON lines to a log file, reusing the teacher's
// MkdirAll + O_APPEND|O_CREATE|O_WRONLY file-open idiom.
type FileDriver struct {
	f *os.File
}

// NewFileDriver opens (creating if needed) the log file at path.
func NewFileDriver(path string) (*FileDriver, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("logchan: create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("logchan: open log file: %w", err)
	}
	return &FileDriver{f: f}, nil
}

func (d *FileDriver) Submit(e Entry) error {
	b, err := encode(e)
	if err != nil {
		return err
	}
	_, err = d.f.Write(b)
	return err
}

// Close closes the underlying file.
func (d *FileDriver) Close() error {
	return d.f.Close()
}
