package companion

import (
	"context"
	"net/http"
	"sync"

	"github.com/uppy/companion-client-go/headers"
	"github.com/uppy/companion-client-go/routes"
)

// Provider talks to a single remote provider (drive, dropbox, instagram, ...)
// through the companion endpoints, carrying the provider session token on
// every call.
type Provider struct {
	client *Client
	name   string

	mu    sync.Mutex
	token string
}

// Provider returns a helper bound to the named remote provider.
func (c *Client) Provider(name string) *Provider {
	return &Provider{client: c, name: name}
}

// Name returns the provider identifier used in companion paths.
func (p *Provider) Name() string { return p.name }

// SetAuthToken stores the session token sent as Uppy-Auth-Token. The token
// is an opaque blob minted by companion; the client never inspects it.
func (p *Provider) SetAuthToken(token string) {
	p.mu.Lock()
	p.token = token
	p.mu.Unlock()
}

// AuthToken returns the current session token, empty when logged out.
func (p *Provider) AuthToken() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.token
}

// authHeaders returns the per-request header carrying the session token.
// Like every other header it is subject to the negotiated allowed set.
func (p *Provider) authHeaders() map[string]string {
	token := p.AuthToken()
	if token == "" {
		return nil
	}
	return map[string]string{headers.UppyAuthToken: token}
}

// AuthorizedResponse mirrors the companion authorized-check body.
type AuthorizedResponse struct {
	Authorized bool `json:"authorized"`
}

// Authorized reports whether the provider session is authenticated.
func (p *Provider) Authorized(ctx context.Context) (bool, error) {
	var resp AuthorizedResponse
	err := p.client.do(ctx, http.MethodGet, routes.ProviderAuthorized(p.name), nil, &resp, RequestOptions{}, p.authHeaders())
	if err != nil {
		return false, err
	}
	return resp.Authorized, nil
}

// List fetches the contents of a provider directory into out. An empty
// dirPath addresses the provider root.
func (p *Provider) List(ctx context.Context, dirPath string, out any) error {
	return p.client.do(ctx, http.MethodGet, routes.ProviderList(p.name, dirPath), nil, out, RequestOptions{}, p.authHeaders())
}

// Fetch asks companion to start transferring a single provider file and
// decodes the transfer handle into out.
func (p *Provider) Fetch(ctx context.Context, fileID string, out any) error {
	return p.client.do(ctx, http.MethodPost, routes.ProviderGet(p.name, fileID), nil, out, RequestOptions{}, p.authHeaders())
}

// Logout terminates the provider session and clears the stored token.
func (p *Provider) Logout(ctx context.Context, out any) error {
	err := p.client.do(ctx, http.MethodGet, routes.ProviderLogout(p.name), nil, out, RequestOptions{}, p.authHeaders())
	if err != nil {
		return err
	}
	p.SetAuthToken("")
	return nil
}

// URLClient drives the companion URL-import endpoints.
type URLClient struct {
	client *Client
}

// URLMetaRequest asks companion to inspect a remote URL.
type URLMetaRequest struct {
	URL string `json:"url"`
}

// Meta asks companion to inspect a remote URL without downloading it and
// decodes the reported metadata (name, size, type) into out.
func (u *URLClient) Meta(ctx context.Context, remoteURL string, out any) error {
	return u.client.do(ctx, http.MethodPost, routes.URLMeta, URLMetaRequest{URL: remoteURL}, out, RequestOptions{}, nil)
}

// Get asks companion to download the remote URL described by payload and
// decodes the transfer handle into out.
func (u *URLClient) Get(ctx context.Context, payload, out any) error {
	return u.client.do(ctx, http.MethodPost, routes.URLGet, payload, out, RequestOptions{}, nil)
}
