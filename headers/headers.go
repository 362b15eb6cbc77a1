// Package headers defines the wire header names spoken between the upload
// widget and its companion service. This is the single source of truth for
// header names used in requests and responses.
package headers

const (
	// IAm is the response header a companion instance uses to report the
	// domain that actually served the request. It feeds host affinity so
	// follow-up requests land on the same backend.
	IAm = "i-am"

	// AccessControlAllowHeaders is the CORS preflight response header
	// listing which request headers the endpoint accepts.
	AccessControlAllowHeaders = "Access-Control-Allow-Headers"

	// UppyAuthToken carries the remote-provider session token.
	UppyAuthToken = "Uppy-Auth-Token" //nolint:gosec // This is a header name, not a credential

	// UppyVersions identifies the client version to the companion service.
	UppyVersions = "Uppy-Versions"

	// RequestID is the correlation id attached to outgoing requests.
	RequestID = "X-Request-Id"
)
