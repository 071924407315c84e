package githost

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

const (
	defaultHTTPTimeout   = 30 * time.Second
	defaultRetryAttempts = 3
	defaultRetryInterval = 500 * time.Millisecond
)

// retryTransport retries idempotent requests on transient failures with
// exponential backoff. Non-idempotent methods pass through untouched so a
// write is never replayed.
type retryTransport struct {
	base     http.RoundTripper
	attempts uint64
	interval time.Duration
	logger   zerolog.Logger
}

// NewHTTPClient returns an http.Client whose transport retries GET, HEAD,
// and OPTIONS requests on 429/500/502/503/504 responses and network errors.
func NewHTTPClient(logger zerolog.Logger) *http.Client {
	return &http.Client{
		Timeout: defaultHTTPTimeout,
		Transport: &retryTransport{
			base:     http.DefaultTransport,
			attempts: defaultRetryAttempts,
			interval: defaultRetryInterval,
			logger:   logger,
		},
	}
}

// RoundTrip implements http.RoundTripper.
func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	switch req.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
	default:
		return t.base.RoundTrip(req)
	}

	var resp *http.Response
	operation := func() error {
		r, err := t.base.RoundTrip(req)
		if err != nil {
			return err
		}
		if retryableStatus(r.StatusCode) {
			// Drain so the connection can be reused for the retry.
			_, _ = io.Copy(io.Discard, r.Body)
			_ = r.Body.Close()
			return fmt.Errorf("retryable status %d from %s", r.StatusCode, req.URL.Host)
		}
		resp = r
		return nil
	}

	notify := func(err error, wait time.Duration) {
		t.logger.Warn().Err(err).Str("url", req.URL.String()).Dur("wait", wait).Msg("retrying request")
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = t.interval
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, t.attempts-1), req.Context())
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return nil, err
	}
	return resp, nil
}

// retryableStatus reports whether a status code indicates a transient
// condition worth retrying.
func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
