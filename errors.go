package companion

import (
	"errors"
	"fmt"
)

// AuthError signals an authentication failure (HTTP 401) from companion.
// Outer layers never rewrap it; errors.As recovers it through any contextual
// wrapping added on the way up.
type AuthError struct {
	URL string
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.URL == "" {
		return "companion: authorization required"
	}
	return fmt.Sprintf("companion: authorization required for %s", e.URL)
}

// IsAuthError reports whether err is, or wraps, an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// RequestError conveys a non-2xx, non-401 companion response.
type RequestError struct {
	URL        string
	StatusCode int
	StatusText string
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return fmt.Sprintf("companion: request to %s failed with status %s", e.URL, e.StatusText)
}

// wrapTransportError adds request context to a network-level failure while
// keeping AuthError identity intact for errors.As callers.
func wrapTransportError(url string, err error) error {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return err
	}
	return fmt.Errorf("companion: could not reach %s: %w", url, err)
}
