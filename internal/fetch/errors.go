package fetch

import "fmt"

// ErrorKind classifies fetch failures so callers can react to the class
// of failure (retry, count, abort) without inspecting error strings.
type ErrorKind int

// Fetch failure kinds.
const (
	// KindNetwork covers connection, DNS, and TLS failures.
	KindNetwork ErrorKind = iota

	// KindTimeout covers deadline and cancellation failures.
	KindTimeout

	// KindHTTPStatus covers responses with a non-2xx status code.
	KindHTTPStatus

	// KindBody covers failures while reading the response body.
	KindBody
)

// String returns a human-readable name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindHTTPStatus:
		return "http-status"
	case KindBody:
		return "body"
	default:
		return "unknown"
	}
}

// Error is a typed fetch failure carrying the failed URL and the failure
// class. It wraps the underlying error for errors.Is/As chains.
type Error struct {
	// Kind classifies the failure.
	Kind ErrorKind

	// URL is the request URL that failed.
	URL string

	// StatusCode is set for KindHTTPStatus failures, zero otherwise.
	StatusCode int

	// Err is the underlying error, nil for pure status failures.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Kind == KindHTTPStatus {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}
