package httpinfra

import (
	"net/http"
	"time"
)

// HeaderRoundTripper adds fixed headers to requests that do not set them.
type HeaderRoundTripper struct {
	base    http.RoundTripper
	headers map[string]string
}

// NewHeaderRoundTripper wraps base, http.DefaultTransport when nil.
func NewHeaderRoundTripper(base http.RoundTripper, headers map[string]string) *HeaderRoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &HeaderRoundTripper{base: base, headers: headers}
}

func (t *HeaderRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	newReq := req.Clone(req.Context())
	for k, v := range t.headers {
		if newReq.Header.Get(k) == "" {
			newReq.Header.Set(k, v)
		}
	}
	return t.base.RoundTrip(newReq)
}

// NewClient returns an http.Client sending headers on every request.
// A zero timeout leaves requests bounded by their context only.
func NewClient(timeout time.Duration, headers map[string]string) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: NewHeaderRoundTripper(nil, headers),
	}
}
