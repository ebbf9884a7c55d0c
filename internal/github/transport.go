package github

import (
	"net/http"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	"github.com/gregjones/httpcache"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

type clientOptions struct {
	requestsPerSecond float64
}

type ClientOption func(*clientOptions)

// WithRequestsPerSecond paces outgoing API requests. Zero or less disables pacing.
func WithRequestsPerSecond(rps float64) ClientOption {
	return func(o *clientOptions) {
		o.requestsPerSecond = rps
	}
}

// newHTTPClient builds the transport stack, outermost first:
//  1. go-github-ratelimit (sleeps through secondary rate limits)
//  2. oauth2 (token auth)
//  3. optional request pacing
//  4. httpcache (ETag conditional requests, which do not count against the rate limit)
func newHTTPClient(token string, o clientOptions) *http.Client {
	var base http.RoundTripper = httpcache.NewMemoryCacheTransport()
	if o.requestsPerSecond > 0 {
		base = &pacedTransport{
			base:    base,
			limiter: rate.NewLimiter(rate.Limit(o.requestsPerSecond), 1),
		}
	}
	base = &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
		Base:   base,
	}
	return github_ratelimit.NewClient(base)
}

// pacedTransport waits on a shared limiter before each request.
type pacedTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func (t *pacedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}
