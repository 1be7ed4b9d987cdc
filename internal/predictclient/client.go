// Package predictclient talks to the CO2 prediction endpoint.
package predictclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"co2form/pkg/types"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 1 << 20

// Client submits prediction requests to a single endpoint. A Client is safe
// for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	log        zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds each call via its context. Zero leaves the transport
// defaults in charge.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger installs a structured logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New constructs a client for the endpoint rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Transport: tr},
		log:        zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the endpoint root.
func (c *Client) BaseURL() string { return c.baseURL }

// Predict POSTs req to /predict. There is no retry. Failures are either a
// *ServerError or a *NetworkError.
func (c *Client) Predict(ctx context.Context, req types.PredictionRequest) (types.PredictionResult, error) {
	var out types.PredictionResult
	body, err := json.Marshal(req)
	if err != nil {
		return out, fmt.Errorf("encode request: %w", err)
	}
	if err := c.do(ctx, http.MethodPost, "/predict", bytes.NewReader(body), &out); err != nil {
		return types.PredictionResult{}, err
	}
	return out, nil
}

// FuelTypes fetches the endpoint's fuel type catalogue (code -> info).
func (c *Client) FuelTypes(ctx context.Context) (map[string]types.FuelType, error) {
	out := map[string]types.FuelType{}
	if err := c.do(ctx, http.MethodGet, "/fuel-types", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &NetworkError{Err: err}
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(middleware.RequestIDHeader, requestID(ctx))

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.Error().Err(err).Str("path", path).Dur("dur", time.Since(start)).Msg("prediction endpoint unreachable")
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.log.Error().Err(err).Str("path", path).Msg("read response")
		return &NetworkError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := FallbackServerMessage
		var er types.ErrorResponse
		if json.Unmarshal(raw, &er) == nil && strings.TrimSpace(er.Error) != "" {
			msg = er.Error
		}
		c.log.Debug().Int("status", resp.StatusCode).Str("path", path).Str("error", msg).Msg("prediction endpoint rejected request")
		return &ServerError{Status: resp.StatusCode, Message: msg}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.log.Error().Err(err).Str("path", path).Msg("decode response")
		return &NetworkError{Err: fmt.Errorf("decode response: %w", err)}
	}
	c.log.Debug().Int("status", resp.StatusCode).Str("path", path).Dur("dur", time.Since(start)).Msg("prediction endpoint ok")
	return nil
}

// requestID propagates the inbound request id, or mints one.
func requestID(ctx context.Context) string {
	if rid := middleware.GetReqID(ctx); rid != "" {
		return rid
	}
	return uuid.NewString()
}
