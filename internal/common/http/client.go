// internal/common/http/client.go
package http

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"scan-dashboard/internal/common/config"
	"scan-dashboard/internal/common/errors"
	"scan-dashboard/internal/common/logger"
	"scan-dashboard/internal/common/metrics"
	"scan-dashboard/internal/common/tokenstore"
)

const (
	DefaultTimeout     = 30 * time.Second
	DefaultRefreshPath = "/auth/refresh/"
)

// Client talks to the dashboard backend. Bearer tokens come from the token
// store; a 401 triggers at most one refresh and one retry.
type Client struct {
	baseURL     string
	refreshPath string
	timeout     time.Duration
	httpClient  *http.Client
	store       tokenstore.Store
	log         logger.Logger
	tracer      trace.Tracer
	now         func() time.Time

	// refreshes shares one in-flight refresh between concurrent 401s.
	refreshes singleflight.Group
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.httpClient = hc } }
func WithTimeout(d time.Duration) Option    { return func(c *Client) { c.timeout = d } }
func WithLogger(l logger.Logger) Option     { return func(c *Client) { c.log = l } }
func WithTracer(t trace.Tracer) Option      { return func(c *Client) { c.tracer = t } }
func WithRefreshPath(p string) Option       { return func(c *Client) { c.refreshPath = p } }

func NewClient(baseURL string, store tokenstore.Store, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		refreshPath: DefaultRefreshPath,
		timeout:     DefaultTimeout,
		httpClient:  &http.Client{},
		store:       store,
		log:         logger.NewNoOpLogger(),
		tracer:      otel.Tracer("scan-dashboard/http"),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.store == nil {
		c.store = tokenstore.NewMemoryStore()
	}
	return c
}

// NewFromConfig builds a client from the api section of the configuration.
func NewFromConfig(cfg config.APIConfig, store tokenstore.Store, log logger.Logger) *Client {
	opts := []Option{WithLogger(log)}
	if cfg.Timeout > 0 {
		opts = append(opts, WithTimeout(config.GetDuration(cfg.Timeout)))
	}
	if cfg.RefreshPath != "" {
		opts = append(opts, WithRefreshPath(cfg.RefreshPath))
	}
	return NewClient(cfg.BaseURL, store, opts...)
}

// Store exposes the token store the client authenticates from.
func (c *Client) Store() tokenstore.Store { return c.store }

// CloseIdleConnections releases pooled keep-alive connections.
func (c *Client) CloseIdleConnections() { c.httpClient.CloseIdleConnections() }

// RequestOptions describes one backend call.
type RequestOptions struct {
	Endpoint    string
	Method      string
	Body        interface{} // JSON-encoded for non-GET methods
	Query       url.Values
	IncludeAuth bool
	Timeout     time.Duration // zero uses the client default
}

// Request performs a call and normalizes the outcome into an envelope.
//
// Transport, timeout, server and parse failures are reported inside the
// envelope. The returned error is non-nil only when the request could not be
// built, or when a 401 could not be recovered by refreshing; the latter
// matches errors.ErrAuthenticationFailed and leaves the token store empty.
func (c *Client) Request(ctx context.Context, opts RequestOptions) (*APIResponse, error) {
	if opts.Method == "" {
		opts.Method = http.MethodGet
	}
	opts.Method = strings.ToUpper(opts.Method)
	if opts.Timeout <= 0 {
		opts.Timeout = c.timeout
	}

	ctx, span := c.tracer.Start(ctx, opts.Method+" "+opts.Endpoint, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	var token string
	if opts.IncludeAuth {
		token = c.accessToken(ctx)
	}

	resp, err := c.send(ctx, opts, token)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && opts.IncludeAuth {
		span.AddEvent("token refresh")
		fresh, err := c.refresh(ctx, token)
		if err != nil {
			metrics.APIRequestsTotal.WithLabelValues(opts.Method, opts.Endpoint, metrics.OutcomeAuthFailed).Inc()
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		// the retry is final whatever it returns
		resp, err = c.send(ctx, opts, fresh)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if !resp.Success {
		span.SetStatus(codes.Error, resp.Message)
	}
	return resp, nil
}

func (c *Client) Get(ctx context.Context, endpoint string, query url.Values) (*APIResponse, error) {
	return c.Request(ctx, RequestOptions{Endpoint: endpoint, Method: http.MethodGet, Query: query, IncludeAuth: true})
}

func (c *Client) Post(ctx context.Context, endpoint string, body interface{}) (*APIResponse, error) {
	return c.Request(ctx, RequestOptions{Endpoint: endpoint, Method: http.MethodPost, Body: body, IncludeAuth: true})
}

func (c *Client) Put(ctx context.Context, endpoint string, body interface{}) (*APIResponse, error) {
	return c.Request(ctx, RequestOptions{Endpoint: endpoint, Method: http.MethodPut, Body: body, IncludeAuth: true})
}

func (c *Client) Patch(ctx context.Context, endpoint string, body interface{}) (*APIResponse, error) {
	return c.Request(ctx, RequestOptions{Endpoint: endpoint, Method: http.MethodPatch, Body: body, IncludeAuth: true})
}

func (c *Client) Delete(ctx context.Context, endpoint string) (*APIResponse, error) {
	return c.Request(ctx, RequestOptions{Endpoint: endpoint, Method: http.MethodDelete, IncludeAuth: true})
}

// accessToken returns the stored bearer token, or "" when none is usable.
func (c *Client) accessToken(ctx context.Context) string {
	s, err := c.store.Get(ctx)
	if err != nil {
		if !stderrors.Is(err, errors.ErrSessionNotFound) {
			c.log.Warn("Token store unavailable, sending request without credentials", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return ""
	}
	return s.Tokens.AccessToken
}

func (c *Client) buildURL(endpoint string, query url.Values) string {
	u := c.baseURL + "/" + strings.TrimPrefix(endpoint, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// send performs exactly one HTTP exchange.
func (c *Client) send(ctx context.Context, opts RequestOptions, token string) (*APIResponse, error) {
	var body io.Reader
	if opts.Method != http.MethodGet && opts.Body != nil {
		data, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	reqCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, opts.Method, c.buildURL(opts.Endpoint, opts.Query), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log := c.log.WithFields(map[string]interface{}{
		"request_id": requestID,
		"method":     opts.Method,
		"endpoint":   opts.Endpoint,
	})

	start := c.now()
	defer func() {
		metrics.APIRequestDuration.WithLabelValues(opts.Method, opts.Endpoint).Observe(time.Since(start).Seconds())
	}()

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return c.transportFailure(log, opts, requestID, err), nil
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return c.transportFailure(log, opts, requestID, err), nil
	}

	resp := parseResponse(httpResp.StatusCode, httpResp.Header.Get("Content-Type"), data)
	resp.RequestID = requestID

	outcome := metrics.OutcomeSuccess
	switch {
	case resp.Kind == KindParse:
		outcome = metrics.OutcomeParseError
	case !resp.Success:
		outcome = metrics.OutcomeServerError
	}
	metrics.APIRequestsTotal.WithLabelValues(opts.Method, opts.Endpoint, outcome).Inc()

	log.Debug("API request completed", map[string]interface{}{
		"status":      httpResp.StatusCode,
		"success":     resp.Success,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return resp, nil
}

func (c *Client) transportFailure(log logger.Logger, opts RequestOptions, requestID string, err error) *APIResponse {
	se := errors.FromTransport(err, opts.Timeout)

	kind, outcome := KindNetwork, metrics.OutcomeNetwork
	if se.Code == errors.ErrCodeTimeout {
		kind, outcome = KindTimeout, metrics.OutcomeTimeout
	}
	metrics.APIRequestsTotal.WithLabelValues(opts.Method, opts.Endpoint, outcome).Inc()

	log.Warn("API request failed", map[string]interface{}{
		"kind":  string(kind),
		"error": err.Error(),
	})

	resp := Failure(kind, se.Message, nil)
	resp.RequestID = requestID
	return resp
}
