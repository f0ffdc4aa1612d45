package logchan

import "time"

// Debug, Info, Warn, and Error mirror the teacher's logging.Logger
// convenience wrappers, submitting a fully-timestamped Entry.
func (c *Channel) Debug(eventType, message string, payload map[string]interface{}) {
	c.log(LevelDebug, eventType, message, payload)
}

func (c *Channel) Info(eventType, message string, payload map[string]interface{}) {
	c.log(LevelInfo, eventType, message, payload)
}

func (c *Channel) Warn(eventType, message string, payload map[string]interface{}) {
	c.log(LevelWarn, eventType, message, payload)
}

// Error attaches a raw call stack to the entry, in addition to logging at
// LevelError; the worker resolves it into Entry.Trace unless
// DisableTraceResolution has been called.
func (c *Channel) Error(eventType, message string, payload map[string]interface{}) {
	c.Submit(Entry{
		Timestamp: time.Now(),
		Level:     LevelError,
		Type:      eventType,
		Message:   message,
		Payload:   payload,
		rawTrace:  captureTrace(3),
	})
}

func (c *Channel) log(level Level, eventType, message string, payload map[string]interface{}) {
	c.Submit(Entry{
		Timestamp: time.Now(),
		Level:     level,
		Type:      eventType,
		Message:   message,
		Payload:   payload,
	})
}
