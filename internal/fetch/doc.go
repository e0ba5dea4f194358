// Package fetch retrieves web pages over HTTP.
//
// The Client wraps a tuned http.Client with a politeness rate limiter,
// a response body size limit, and typed failure kinds so callers can
// distinguish network errors from HTTP status errors without string
// matching. All fetches honor context cancellation.
package fetch
