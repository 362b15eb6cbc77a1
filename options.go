package companion

// RequestOptions adjusts a single Get/Post/Delete call.
type RequestOptions struct {
	// SkipPostResponse suppresses the host-affinity update that normally
	// runs after a successful response.
	SkipPostResponse bool
}

// NormalizeOptions converts the accepted option forms into a RequestOptions
// value. The upload widget historically passed a bare boolean meaning
// SkipPostResponse; that form is still accepted.
//
// Recognized inputs: nil, bool, RequestOptions, *RequestOptions. Anything
// else normalizes to the zero options.
func NormalizeOptions(v any) RequestOptions {
	switch opts := v.(type) {
	case bool:
		return RequestOptions{SkipPostResponse: opts}
	case RequestOptions:
		return opts
	case *RequestOptions:
		if opts == nil {
			return RequestOptions{}
		}
		return *opts
	default:
		return RequestOptions{}
	}
}
