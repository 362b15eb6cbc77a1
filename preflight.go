package companion

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/uppy/companion-client-go/headers"
)

// defaultAllowedHeaders is the header set assumed when the endpoint does not
// (or cannot) answer the preflight with Access-Control-Allow-Headers.
func defaultAllowedHeaders() []string {
	return []string{"accept", "content-type", "uppy-auth-token"}
}

// preflighter caches the outcome of the one-shot OPTIONS negotiation. Once
// done, the allowed set is never re-queried for the lifetime of the client;
// there is no reset path.
type preflighter struct {
	mu      sync.Mutex
	done    bool
	allowed []string
}

// preflight returns the allowed-header set for this client, issuing the
// OPTIONS negotiation on the first call. Success and failure both complete
// the negotiation: a failed preflight logs a warning and falls back to the
// default set. The mutex is held across the OPTIONS call so concurrent first
// requests serialize on exactly one preflight.
func (c *Client) preflight(ctx context.Context, path string) []string {
	p := &c.preflighter
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done {
		return p.allowed
	}
	p.done = true

	req, err := http.NewRequestWithContext(ctx, http.MethodOptions, c.buildURL(path), nil)
	if err == nil {
		var resp *http.Response
		resp, err = c.transport(req)
		if err == nil {
			if allow := resp.Header.Get(headers.AccessControlAllowHeaders); allow != "" {
				p.allowed = parseAllowedHeaders(allow)
			}
			drainAndClose(resp)
		}
	}
	if err != nil {
		c.telemetry.log(ctx, LogLevelWarning, "companion preflight failed, using default headers", map[string]any{
			"path":  path,
			"error": err.Error(),
		})
	}
	return p.allowed
}

// parseAllowedHeaders splits a comma-separated Access-Control-Allow-Headers
// value into trimmed, lower-cased names.
func parseAllowedHeaders(allow string) []string {
	parts := strings.Split(allow, ",")
	parsed := make([]string, 0, len(parts))
	for _, part := range parts {
		name := strings.ToLower(strings.TrimSpace(part))
		if name != "" {
			parsed = append(parsed, name)
		}
	}
	return parsed
}
