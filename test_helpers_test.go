package companion

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/uppy/companion-client-go/testutil"
)

func newTestClient(t *testing.T, srv *testutil.CompanionServer, cfg Config) *Client {
	t.Helper()
	if cfg.CompanionURL == "" {
		cfg.CompanionURL = srv.URL
	}
	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

// logCapture collects log entries emitted through the telemetry hooks.
type logCapture struct {
	mu      sync.Mutex
	entries []LogEntry
}

func (l *logCapture) hooks() TelemetryHooks {
	return TelemetryHooks{
		OnLogEntry: func(_ context.Context, entry LogEntry) {
			l.mu.Lock()
			l.entries = append(l.entries, entry)
			l.mu.Unlock()
		},
	}
}

func (l *logCapture) contains(level LogLevel, substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, entry := range l.entries {
		if entry.Level == level && strings.Contains(entry.Message, substr) {
			return true
		}
	}
	return false
}
