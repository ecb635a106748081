// Package apiclient calls the remote property management API. Every operation
// is a single request: no retries, no batching, no caching.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"tenant-exit-portal/config"
)

const maxErrorBody = 1 << 20

// Client holds the HTTP transport and base URL shared by all sessions.
type Client struct {
	baseURL    *url.URL
	cookieName string
	http       *http.Client
	logger     *zap.Logger
}

// New creates a client for the configured upstream.
func New(cfg *config.UpstreamConfig, logger *zap.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid upstream base url %q: %w", cfg.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("upstream base url %q must be absolute", cfg.BaseURL)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.HTTPProxy != "" {
		proxyURL, err := url.Parse(cfg.HTTPProxy)
		if err != nil {
			logger.Warn("invalid proxy url, calling upstream directly",
				zap.String("proxy", cfg.HTTPProxy), zap.Error(err))
		} else {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	return &Client{
		baseURL:    base,
		cookieName: cfg.SessionCookie,
		http: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		logger: logger,
	}, nil
}

// Session returns a caller that carries the upstream session cookie.
// An empty value makes anonymous calls.
func (c *Client) Session(value string) *Session {
	return &Session{client: c, cookie: value}
}

// Session issues calls on behalf of one signed-in user.
type Session struct {
	client *Client
	cookie string
}

// request describes one upstream call.
type request struct {
	op          string
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
}

// endpoint joins the base URL with an already escaped path.
func (c *Client) endpoint(escapedPath string, query url.Values) string {
	u := *c.baseURL
	u.RawPath = c.baseURL.EscapedPath() + escapedPath
	if p, err := url.PathUnescape(u.RawPath); err == nil {
		u.Path = p
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do sends the request and returns the response when the status is 2xx.
// The caller must close the body.
func (s *Session) do(ctx context.Context, r request) (*http.Response, error) {
	c := s.client
	req, err := http.NewRequestWithContext(ctx, r.method, c.endpoint(r.path, r.query), r.body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", r.op, err)
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if s.cookie != "" && c.cookieName != "" {
		req.AddCookie(&http.Cookie{Name: c.cookieName, Value: s.cookie})
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	upstreamDuration.WithLabelValues(r.op).Observe(time.Since(start).Seconds())
	if err != nil {
		upstreamRequests.WithLabelValues(r.op, outcomeNetwork).Inc()
		c.logger.Warn("upstream request failed",
			zap.String("op", r.op), zap.String("method", r.method), zap.String("path", r.path), zap.Error(err))
		return nil, &NetworkError{Op: r.op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		upstreamRequests.WithLabelValues(r.op, outcomeHTTP).Inc()
		apiErr := &APIError{Op: r.op, StatusCode: resp.StatusCode, Detail: parseDetail(body)}
		c.logger.Info("upstream returned error status",
			zap.String("op", r.op), zap.Int("status", resp.StatusCode), zap.String("detail", apiErr.Detail))
		return nil, apiErr
	}

	upstreamRequests.WithLabelValues(r.op, outcomeOK).Inc()
	return resp, nil
}

// doJSON sends the request and decodes a 2xx JSON body into out. A nil out
// discards the body.
func (s *Session) doJSON(ctx context.Context, r request, out any) (*http.Response, error) {
	resp, err := s.do(ctx, r)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: r.op, Err: fmt.Errorf("failed to read response body: %w", err)}
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return resp, nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return nil, fmt.Errorf("%s: failed to unmarshal response: %w", r.op, err)
	}
	return resp, nil
}

func jsonBody(v any) (io.Reader, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}
	return bytes.NewReader(b), nil
}

func segment(s string) string {
	return "/" + url.PathEscape(s)
}

// Message is the common {message} acknowledgement.
type Message struct {
	Message string `json:"message"`
}
