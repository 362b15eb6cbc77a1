package companion

import (
	"context"
	"net/http"
	"time"
)

// TelemetryHooks expose observability callbacks without forcing dependencies
// on the caller. All hooks are optional and never affect control flow.
type TelemetryHooks struct {
	// OnHTTPRequest fires before a request (including the preflight
	// OPTIONS) is sent.
	OnHTTPRequest func(ctx context.Context, req *http.Request)
	// OnHTTPResponse fires after the request completes (even when err != nil).
	OnHTTPResponse func(ctx context.Context, req *http.Request, resp *http.Response, err error, latency time.Duration)
	// OnLogEntry allows callers to capture client log events.
	OnLogEntry func(ctx context.Context, entry LogEntry)
}

// LogLevel encodes the severity for log hooks.
type LogLevel string

const (
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warning"
)

// LogEntry captures structured log details for client consumers.
type LogEntry struct {
	Level   LogLevel
	Message string
	Fields  map[string]any
}

func (t TelemetryHooks) log(ctx context.Context, level LogLevel, msg string, fields map[string]any) {
	if t.OnLogEntry == nil {
		return
	}
	t.OnLogEntry(ctx, LogEntry{Level: level, Message: msg, Fields: fields})
}
