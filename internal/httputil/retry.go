// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP client plumbing shared by the search and
// embedding clients.
package httputil

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/pdiddy/research-companion/pkg/types"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 500 * time.Millisecond

// maxRetryAfter caps the wait honored from a Retry-After header.
const maxRetryAfter = 30 * time.Second

// NewClient returns an http.Client with the configured timeout whose
// requests carry the configured User-Agent. When maxRetries is positive,
// responses with HTTP 429 are retried with exponential backoff.
func NewClient(cfg types.HTTPConfig, maxRetries int) *http.Client {
	var rt http.RoundTripper = http.DefaultTransport
	if maxRetries > 0 {
		rt = &RetryTransport{Base: rt, MaxRetries: maxRetries}
	}
	if cfg.UserAgent != "" {
		rt = &userAgentTransport{base: rt, userAgent: cfg.UserAgent}
	}
	return &http.Client{Timeout: cfg.Timeout, Transport: rt}
}

type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.base.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(r)
}

// RetryTransport retries requests answered with HTTP 429 (Too Many Requests).
// The delay starts at RetryBaseDelay and doubles each attempt, unless the
// response carries a Retry-After header in seconds, which is honored up to
// 30 s. If the request context ends during a wait, RoundTrip returns the
// context error. After MaxRetries the last 429 response is returned so the
// caller can inspect it.
type RetryTransport struct {
	Base       http.RoundTripper
	MaxRetries int
}

// RoundTrip implements http.RoundTripper.
func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	ctx := req.Context()

	for attempt := 0; ; attempt++ {
		r := req
		if attempt > 0 {
			var err error
			if r, err = rewind(req); err != nil {
				return nil, err
			}
		}

		resp, err := base.RoundTrip(r)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt >= t.MaxRetries {
			return resp, nil
		}

		wait := backoff(attempt, resp.Header.Get("Retry-After"))

		// Drain and close the body before retrying.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// rewind clones req with a fresh body for another attempt.
func rewind(req *http.Request) (*http.Request, error) {
	r := req.Clone(req.Context())
	if req.Body == nil || req.Body == http.NoBody {
		return r, nil
	}
	if req.GetBody == nil {
		return nil, fmt.Errorf("retrying %s %s: request body cannot be replayed", req.Method, req.URL)
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, fmt.Errorf("replaying request body: %w", err)
	}
	r.Body = body
	return r, nil
}

func backoff(attempt int, retryAfter string) time.Duration {
	if secs, err := strconv.Atoi(retryAfter); err == nil && secs >= 0 {
		return min(time.Duration(secs)*time.Second, maxRetryAfter)
	}
	return time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
}
