package fetch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// maxRedirects bounds redirect chains. Ten matches the net/http default
// and is plenty for legitimate sites; longer chains are usually loops.
const maxRedirects = 10

// Page is the raw result of fetching a single URL.
// Parsing (title, links, text) happens in the crawler layer; fetch only
// moves bytes.
type Page struct {
	// URL is the URL that was requested.
	URL string

	// StatusCode is the HTTP response status.
	StatusCode int

	// ContentType is the Content-Type header value.
	ContentType string

	// Body is the response body, truncated at the client's body limit.
	Body []byte

	// FetchedAt is when the response was received.
	FetchedAt time.Time
}

// Client fetches pages with politeness controls.
//
// Design decision: One shared Client serves all crawl workers so the rate
// limiter is global. Per-worker limiters would multiply the effective
// request rate by the worker count and defeat the politeness setting.
type Client struct {
	// httpClient is the underlying HTTP client.
	httpClient *http.Client

	// userAgent is the User-Agent header to send.
	userAgent string

	// maxBodySize limits the size of response bodies to read.
	maxBodySize int64

	// limiter throttles outgoing requests. Nil means unlimited.
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size in bytes.
func WithMaxBodySize(size int64) Option {
	return func(c *Client) {
		c.maxBodySize = size
	}
}

// WithRequestsPerSecond sets the global request rate.
// Zero or negative disables rate limiting.
func WithRequestsPerSecond(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			// Burst of 1 keeps requests evenly spaced rather than
			// allowing an initial volley
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// NewClient creates a page fetch client with the given per-request timeout.
func NewClient(timeout time.Duration, opts ...Option) *Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return errors.New("too many redirects")
				}
				return nil
			},
		},
		userAgent:   "webscout/1.0",
		maxBodySize: 5 * 1024 * 1024,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Fetch retrieves the page at pageURL.
// Failures are returned as *Error with a Kind describing the failure class.
// Non-HTML content is not an error; the caller decides what to do with it.
func (c *Client) Fetch(ctx context.Context, pageURL string) (*Page, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &Error{Kind: KindTimeout, URL: pageURL, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, URL: pageURL, Err: err}
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		kind := KindNetwork
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			kind = KindTimeout
		}
		return nil, &Error{Kind: kind, URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{Kind: KindHTTPStatus, URL: pageURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return nil, &Error{Kind: KindBody, URL: pageURL, Err: err}
	}

	return &Page{
		URL:         pageURL,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
		FetchedAt:   time.Now(),
	}, nil
}
