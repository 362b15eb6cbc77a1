package companion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/uppy/companion-client-go/headers"
	"github.com/uppy/companion-client-go/testutil"
)

func TestPreflightFiltersMergedHeaders(t *testing.T) {
	srv := testutil.NewCompanionServer(testutil.CompanionServerConfig{
		AllowHeaders: "Accept, X-Custom",
	})
	defer srv.Close()
	capture := &logCapture{}
	cfg := Config{
		Headers:   map[string]string{"X-Custom": "1"},
		Telemetry: capture.hooks(),
	}
	client := newTestClient(t, srv, cfg)

	if err := client.Get(context.Background(), "files", nil, nil); err != nil {
		t.Fatalf("get: %v", err)
	}
	last, ok := srv.LastRequest()
	if !ok {
		t.Fatal("no request recorded")
	}
	if got := last.Header.Get("Accept"); got != "application/json" {
		t.Fatalf("Accept = %q, want application/json", got)
	}
	if got := last.Header.Get("X-Custom"); got != "1" {
		t.Fatalf("X-Custom = %q, want 1", got)
	}
	for _, name := range []string{"Content-Type", headers.UppyVersions, headers.RequestID} {
		if got := last.Header.Get(name); got != "" {
			t.Fatalf("header %s = %q, want filtered out", name, got)
		}
	}
	if !capture.contains(LogLevelInfo, "does not allow header") {
		t.Fatal("dropped headers were not logged")
	}
}

func TestPreflightDefaultAllowedSet(t *testing.T) {
	// no Access-Control-Allow-Headers in the OPTIONS answer
	srv := testutil.NewCompanionServer(testutil.CompanionServerConfig{})
	defer srv.Close()
	client := newTestClient(t, srv, Config{
		Headers: map[string]string{headers.UppyAuthToken: "tok"},
	})

	if err := client.Get(context.Background(), "files", nil, nil); err != nil {
		t.Fatalf("get: %v", err)
	}
	last, ok := srv.LastRequest()
	if !ok {
		t.Fatal("no request recorded")
	}
	if got := last.Header.Get("Accept"); got != "application/json" {
		t.Fatalf("Accept = %q", got)
	}
	if got := last.Header.Get("Content-Type"); got != "application/json" {
		t.Fatalf("Content-Type = %q", got)
	}
	if got := last.Header.Get(headers.UppyAuthToken); got != "tok" {
		t.Fatalf("auth token = %q, want tok", got)
	}
	// version header is not in the default allowed set
	if got := last.Header.Get(headers.UppyVersions); got != "" {
		t.Fatalf("Uppy-Versions = %q, want filtered out", got)
	}
}

func TestPreflightRunsOncePerClient(t *testing.T) {
	srv := testutil.NewCompanionServer(testutil.CompanionServerConfig{})
	defer srv.Close()
	client := newTestClient(t, srv, Config{})

	for i := 0; i < 3; i++ {
		if err := client.Get(context.Background(), "files", nil, nil); err != nil {
			t.Fatalf("get %d: %v", i, err)
		}
	}
	if count := srv.OptionsCount(); count != 1 {
		t.Fatalf("expected 1 preflight, got %d", count)
	}
}

func TestPreflightFailureFallsBackToDefaults(t *testing.T) {
	// the stub kills OPTIONS connections and serves everything else
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			hj, ok := w.(http.Hijacker)
			if !ok {
				t.Error("server does not support hijacking")
				return
			}
			conn, _, err := hj.Hijack()
			if err != nil {
				t.Errorf("hijack: %v", err)
				return
			}
			_ = conn.Close()
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	capture := &logCapture{}
	client, err := NewClient(Config{CompanionURL: srv.URL, Telemetry: capture.hooks()})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	var resp struct {
		OK bool `json:"ok"`
	}
	if err := client.Get(context.Background(), "files", &resp, nil); err != nil {
		t.Fatalf("get after failed preflight: %v", err)
	}
	if !resp.OK {
		t.Fatal("response not decoded")
	}
	if !capture.contains(LogLevelWarning, "preflight failed") {
		t.Fatal("preflight failure was not logged as a warning")
	}
}

func TestParseAllowedHeaders(t *testing.T) {
	cases := []struct {
		name  string
		allow string
		want  []string
	}{
		{"simple", "Accept, X-Custom", []string{"accept", "x-custom"}},
		{"ragged whitespace", "  Accept ,X-Custom ,  Uppy-Auth-Token", []string{"accept", "x-custom", "uppy-auth-token"}},
		{"empty items skipped", "Accept,,", []string{"accept"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := parseAllowedHeaders(tc.allow); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("parseAllowedHeaders(%q) = %v, want %v", tc.allow, got, tc.want)
			}
		})
	}
}
