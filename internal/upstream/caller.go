// Package upstream issues outbound calls to the proxied third-party APIs
// and classifies their outcomes. Exactly one attempt per admitted request;
// retries are the caller's problem, modulated by the rate limiter.
package upstream

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ResultKind classifies the outcome of an upstream call.
type ResultKind string

const (
	// KindSuccess: transport succeeded and the upstream answered 2xx.
	KindSuccess ResultKind = "success"
	// KindUpstreamError: transport succeeded but the upstream answered
	// non-2xx. A normal, representable outcome, not an error value.
	KindUpstreamError ResultKind = "upstream_error"
	// KindTransportError: the call never produced an upstream response
	// (DNS, TLS, connect, timeout, body read failure).
	KindTransportError ResultKind = "transport_error"
)

// Request describes one outbound call.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Result is the classified outcome. StatusCode and Body are set for
// KindSuccess and KindUpstreamError; Err is set for KindTransportError.
type Result struct {
	Kind       ResultKind
	StatusCode int
	Body       []byte
	Err        error
}

// Caller wraps an http.Client with a bounded timeout.
type Caller struct {
	client *http.Client
	logger *slog.Logger
}

type Option func(*Caller)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Caller) {
		c.logger = logger
	}
}

// WithHTTPClient replaces the underlying client. Intended for tests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Caller) {
		c.client = client
	}
}

// NewCaller creates a Caller whose requests are bounded by timeout.
func NewCaller(timeout time.Duration, opts ...Option) *Caller {
	c := &Caller{
		client: &http.Client{Timeout: timeout},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do issues the call and classifies the outcome. It never returns a Go
// error for non-2xx statuses; those relay to the client verbatim.
func (c *Caller) Do(ctx context.Context, req Request) Result {
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return Result{Kind: KindTransportError, Err: err}
	}
	for k, vals := range req.Header {
		for _, v := range vals {
			httpReq.Header.Add(k, v)
		}
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.logger.Error("upstream call failed", "url", req.URL, "error", err)
		return Result{Kind: KindTransportError, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("reading upstream response failed", "url", req.URL, "error", err)
		return Result{Kind: KindTransportError, Err: err}
	}

	kind := KindSuccess
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		kind = KindUpstreamError
		c.logger.Warn("upstream returned error status", "url", req.URL, "status", resp.StatusCode)
	}

	return Result{Kind: kind, StatusCode: resp.StatusCode, Body: body}
}
