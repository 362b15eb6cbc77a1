// Package companion implements the HTTP request client the upload widget
// uses to talk to its companion service: a proxy that fetches files from
// remote providers on the widget's behalf.
//
// The client negotiates its outgoing header set through a one-shot CORS
// preflight, classifies authentication failures distinctly from other
// request failures, and remembers which concrete companion backend answered
// so follow-up requests stay on the same instance.
package companion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/uppy/companion-client-go/headers"
)

const defaultUserAgent = "companion-client-go/" + Version

// Config wires the companion endpoint, static headers, and shared state for
// a request client.
type Config struct {
	// CompanionURL is the logical companion base URL, e.g.
	// "https://companion.example.com". Requests resolve against the
	// host-affinity entry recorded under this value when one exists.
	CompanionURL string

	// Headers are static headers merged into every request, overriding
	// the defaults on conflict. Subject to the negotiated allowed set
	// like any other header.
	Headers map[string]string

	// Store holds the host-affinity mapping, shared with the host
	// application. Defaults to a private MemoryStore when nil.
	Store Store

	// HTTPClient performs the transport calls. Cookie semantics (the
	// browser widget's same-origin credentials) belong to this client's
	// Jar. Defaults to http.DefaultClient.
	HTTPClient *http.Client

	// Telemetry receives request and log events.
	Telemetry TelemetryHooks

	// UserAgent overrides the default User-Agent header.
	UserAgent string
}

// Client issues JSON requests against a companion service.
type Client struct {
	companionURL  string
	staticHeaders map[string]string
	store         Store
	httpClient    *http.Client
	telemetry     TelemetryHooks
	userAgent     string

	preflighter preflighter

	// URL drives the companion URL-import endpoints.
	URL *URLClient
}

// NewClient validates the configuration and returns a ready-to-use Client.
func NewClient(cfg Config) (*Client, error) {
	companionURL := strings.TrimSpace(cfg.CompanionURL)
	if companionURL == "" {
		return nil, errors.New("companion: companion URL required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	store := cfg.Store
	if store == nil {
		store = NewMemoryStore()
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	client := &Client{
		companionURL:  companionURL,
		staticHeaders: cfg.Headers,
		store:         store,
		httpClient:    httpClient,
		telemetry:     cfg.Telemetry,
		userAgent:     ua,
		preflighter:   preflighter{allowed: defaultAllowedHeaders()},
	}
	client.URL = &URLClient{client: client}
	return client, nil
}

// Get issues a GET against path and decodes the JSON response into out.
// A nil out discards the body. opts may be nil, a RequestOptions value or
// pointer, or the legacy boolean form of SkipPostResponse.
func (c *Client) Get(ctx context.Context, path string, out any, opts any) error {
	return c.do(ctx, http.MethodGet, path, nil, out, NormalizeOptions(opts), nil)
}

// Post issues a POST with payload JSON-encoded as the body and decodes the
// response into out. opts follows the same forms as Get.
func (c *Client) Post(ctx context.Context, path string, payload, out any, opts any) error {
	return c.do(ctx, http.MethodPost, path, payload, out, NormalizeOptions(opts), nil)
}

// Delete issues a DELETE, with an optional JSON payload, and decodes the
// response into out. opts follows the same forms as Get.
func (c *Client) Delete(ctx context.Context, path string, payload, out any, opts any) error {
	return c.do(ctx, http.MethodDelete, path, payload, out, NormalizeOptions(opts), nil)
}

// do runs the full request pipeline: preflight negotiation, header merge and
// filter, transport, status classification, host-affinity bookkeeping, and
// JSON decoding. extra headers (provider auth) participate in the merge with
// the highest precedence.
func (c *Client) do(ctx context.Context, method, path string, payload, out any, opts RequestOptions, extra map[string]string) error {
	url := c.buildURL(path)
	allowed := c.preflight(ctx, path)
	req, err := c.newJSONRequest(ctx, method, url, payload, c.requestHeaders(ctx, allowed, extra))
	if err != nil {
		return err
	}
	resp, err := c.send(req)
	if err != nil {
		return wrapTransportError(url, err)
	}
	//nolint:errcheck // best-effort cleanup on return
	defer func() { _ = resp.Body.Close() }()

	if !opts.SkipPostResponse {
		c.recordHostAffinity(ctx, resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("companion: decode response from %s: %w", url, err)
	}
	return nil
}

// newJSONRequest builds the request with the already-negotiated header set.
func (c *Client) newJSONRequest(ctx context.Context, method, url string, payload any, hdrs http.Header) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("companion: encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	for name, values := range hdrs {
		req.Header[name] = values
	}
	return req, nil
}

// send performs the transport call and classifies the response status:
// 401 becomes an AuthError, any other non-2xx a RequestError. The caller
// owns the body of a returned response.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	resp, err := c.transport(req)
	if err != nil {
		return nil, err
	}
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		drainAndClose(resp)
		return nil, &AuthError{URL: responseURL(req, resp)}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		drainAndClose(resp)
		return nil, &RequestError{
			URL:        responseURL(req, resp),
			StatusCode: resp.StatusCode,
			StatusText: resp.Status,
		}
	}
	return resp, nil
}

// transport applies the transport-level headers, fires the telemetry hooks,
// and hands the request to the underlying HTTP client.
func (c *Client) transport(req *http.Request) (*http.Response, error) {
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	injectTraceparent(req.Context(), req)
	if c.telemetry.OnHTTPRequest != nil {
		c.telemetry.OnHTTPRequest(req.Context(), req)
	}
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if c.telemetry.OnHTTPResponse != nil {
		c.telemetry.OnHTTPResponse(req.Context(), req, resp, err, time.Since(start))
	}
	return resp, err
}

// requestHeaders merges the default header set with caller-supplied static
// headers and per-request extras (later sources win), then filters the
// result against the negotiated allowed set. Dropped headers are logged,
// never an error.
func (c *Client) requestHeaders(ctx context.Context, allowed []string, extra map[string]string) http.Header {
	candidates := http.Header{}
	candidates.Set("Accept", "application/json")
	candidates.Set("Content-Type", "application/json")
	candidates.Set(headers.UppyVersions, versionHeaderValue)
	candidates.Set(headers.RequestID, uuid.NewString())
	for name, value := range c.staticHeaders {
		candidates.Set(name, value)
	}
	for name, value := range extra {
		candidates.Set(name, value)
	}

	allowedSet := make(map[string]bool, len(allowed))
	for _, name := range allowed {
		allowedSet[name] = true
	}

	filtered := make(http.Header, len(candidates))
	for name, values := range candidates {
		if !allowedSet[strings.ToLower(name)] {
			c.telemetry.log(ctx, LogLevelInfo, "companion endpoint does not allow header, skipping", map[string]any{
				"header": name,
			})
			continue
		}
		filtered[name] = values
	}
	return filtered
}

// hostname returns the effective base URL: the configured companion URL,
// swapped for its host-affinity entry when one exists, trailing slash
// stripped.
func (c *Client) hostname() string {
	if domain, ok := c.store.CompanionHost(c.companionURL); ok && domain != "" {
		return strings.TrimSuffix(domain, "/")
	}
	return strings.TrimSuffix(c.companionURL, "/")
}

// buildURL resolves path into the request URL. Absolute and
// protocol-relative paths pass through verbatim.
func (c *Client) buildURL(path string) string {
	if isFullURL(path) {
		return path
	}
	return c.hostname() + "/" + path
}

func isFullURL(path string) bool {
	return strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "//")
}

// recordHostAffinity stores the backend identity reported through the i-am
// response header, overwriting only when it differs from the current entry.
func (c *Client) recordHostAffinity(ctx context.Context, resp *http.Response) {
	domain := resp.Header.Get(headers.IAm)
	if domain == "" {
		return
	}
	current, _ := c.store.CompanionHost(c.companionURL)
	if domain == current {
		return
	}
	c.store.SetCompanionHost(c.companionURL, domain)
	c.telemetry.log(ctx, LogLevelInfo, "companion host affinity updated", map[string]any{
		"host":   c.companionURL,
		"domain": domain,
	})
}

func responseURL(req *http.Request, resp *http.Response) string {
	if resp.Request != nil && resp.Request.URL != nil {
		return resp.Request.URL.String()
	}
	return req.URL.String()
}

func drainAndClose(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
