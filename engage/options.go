package engage

import (
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the Engage API v2 endpoint. The trailing slash is required.
	DefaultBaseURL = "https://rpxnow.com/api/v2/"
	// DefaultTimeout is the total request timeout.
	DefaultTimeout = 10 * time.Second
	// DefaultUserAgent is sent with every request.
	DefaultUserAgent = "go-engage-api/1.0"
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	baseURL      string
	timeout      time.Duration
	userAgent    string
	keepAlive    bool
	maxRedirects int
	httpClient   *http.Client
}

func defaultOptions() clientOptions {
	return clientOptions{
		baseURL:      DefaultBaseURL,
		timeout:      DefaultTimeout,
		userAgent:    DefaultUserAgent,
		keepAlive:    true,
		maxRedirects: 0,
	}
}

// WithBaseURL overrides the API base URL. It must end with a slash because
// action names are appended to it verbatim.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		o.baseURL = baseURL
	}
}

// WithTimeout sets the total request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		o.userAgent = userAgent
	}
}

// WithKeepAlive toggles connection reuse between calls.
func WithKeepAlive(enabled bool) Option {
	return func(o *clientOptions) {
		o.keepAlive = enabled
	}
}

// WithMaxRedirects sets how many redirects are followed. The default is 0:
// a redirect response is reported as a RequestError.
func WithMaxRedirects(n int) Option {
	return func(o *clientOptions) {
		if n >= 0 {
			o.maxRedirects = n
		}
	}
}

// WithHTTPClient uses the given client as-is. Timeout, keep-alive and
// redirect options are ignored when a custom client is supplied.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// newHTTPClient builds the transport from the merged options.
func (o clientOptions) newHTTPClient() *http.Client {
	if o.httpClient != nil {
		return o.httpClient
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DisableKeepAlives = !o.keepAlive

	maxRedirects := o.maxRedirects
	return &http.Client{
		Timeout:   o.timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
}
