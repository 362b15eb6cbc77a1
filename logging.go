package companion

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// ZerologHooks returns TelemetryHooks that forward log entries and request
// outcomes to a zerolog logger. Warnings map to zerolog's warn level,
// everything else to info.
func ZerologHooks(logger zerolog.Logger) TelemetryHooks {
	return TelemetryHooks{
		OnLogEntry: func(_ context.Context, entry LogEntry) {
			evt := logger.Info()
			if entry.Level == LogLevelWarning {
				evt = logger.Warn()
			}
			if len(entry.Fields) > 0 {
				evt = evt.Fields(entry.Fields)
			}
			evt.Msg(entry.Message)
		},
		OnHTTPResponse: func(_ context.Context, req *http.Request, resp *http.Response, err error, latency time.Duration) {
			evt := logger.Info()
			if err != nil {
				evt = logger.Warn().Err(err)
			}
			if resp != nil {
				evt = evt.Int("status", resp.StatusCode)
			}
			evt.Str("method", req.Method).
				Str("url", req.URL.String()).
				Dur("latency", latency).
				Msg("companion request")
		},
	}
}
