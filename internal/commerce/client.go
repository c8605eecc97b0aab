// Package commerce is a client for the Shopify-shaped commerce admin REST API that stores
// customers, catalog, orders and the draft orders used as carts and favorites lists.
package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"shopfront/internal/domain"
)

const (
	accessTokenHeader = "X-Shopify-Access-Token"
	userAgent         = "shopfront/1.0"
	maxErrorBody      = 4 << 10
)

// Config holds connection settings for the commerce API.
type Config struct {
	BaseURL     string
	AccessToken string
	Timeout     time.Duration
	// MaxRetries bounds how many times a GET or PUT answered with 429 is retried.
	MaxRetries int
	// RetryDelay is used when the response carries no Retry-After header.
	RetryDelay time.Duration
	PageLimit  int
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client talks to the commerce API. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	maxRetries int
	retryDelay time.Duration
	pageLimit  int
	logger     *zap.Logger
	wait       func(ctx context.Context, d time.Duration) error
}

// New validates cfg and builds a Client.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("commerce base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, errors.Wrap(err, "parse commerce base URL")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = time.Second
	}
	pageLimit := cfg.PageLimit
	if pageLimit <= 0 || pageLimit > 250 {
		pageLimit = 50
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		token:      cfg.AccessToken,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		pageLimit:  pageLimit,
		logger:     logger.Named("commerce"),
		wait:       sleepCtx,
	}, nil
}

// StatusError describes a non-2xx answer from the commerce API.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// do sends one request and decodes the JSON answer into out. It returns the response headers
// so list calls can follow pagination links.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) (http.Header, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "marshal request")
		}
	}

	target := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		target = c.baseURL + path
	}
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	for attempt := 0; ; attempt++ {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, target, reader)
		if err != nil {
			return nil, errors.Wrap(err, "create request")
		}
		c.setHeaders(req)

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			c.logger.Warn("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
			return nil, domain.WrapKind(domain.KindNetwork, err, "commerce backend unreachable")
		}
		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		c.logger.Debug("request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.Int("attempt", attempt),
			zap.Duration("latency", time.Since(start)),
		)
		if readErr != nil {
			return nil, domain.WrapKind(domain.KindNetwork, readErr, "read commerce response")
		}

		if resp.StatusCode == http.StatusTooManyRequests && retryable(method) && attempt < c.maxRetries {
			delay := retryAfter(resp.Header, c.retryDelay)
			c.logger.Info("rate limited, retrying",
				zap.String("method", method), zap.String("path", path), zap.Duration("delay", delay))
			if err := c.wait(ctx, delay); err != nil {
				return nil, err
			}
			continue
		}

		if resp.StatusCode >= 400 {
			return nil, parseErrorResponse(method, path, resp.StatusCode, respBody)
		}

		if out != nil && len(respBody) > 0 {
			if err := json.Unmarshal(respBody, out); err != nil {
				return nil, errors.Wrapf(err, "decode %s %s", method, path)
			}
		}
		return resp.Header, nil
	}
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(accessTokenHeader, c.token)
	}
}

// retryable lists the methods whose repetition cannot create duplicates.
func retryable(method string) bool {
	return method == http.MethodGet || method == http.MethodPut
}

func retryAfter(h http.Header, def time.Duration) time.Duration {
	v := strings.TrimSpace(h.Get("Retry-After"))
	if v == "" {
		return def
	}
	if secs, err := strconv.ParseFloat(v, 64); err == nil && secs >= 0 {
		return time.Duration(secs * float64(time.Second))
	}
	return def
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type errorEnvelope struct {
	Errors json.RawMessage `json:"errors"`
}

func parseErrorResponse(method, path string, status int, body []byte) error {
	statusErr := &StatusError{Method: method, Path: path, StatusCode: status, Message: errorMessage(body)}
	switch {
	case status == http.StatusNotFound:
		return domain.WrapKind(domain.KindNotFound, statusErr, "resource not found")
	case status == http.StatusTooManyRequests:
		return domain.WrapKind(domain.KindRateLimited, statusErr, "too many requests")
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		msg := statusErr.Message
		if msg == "" {
			msg = "request rejected by commerce backend"
		}
		return &domain.Error{Kind: domain.KindValidation, Message: msg, Err: statusErr}
	case status == http.StatusPaymentRequired:
		return domain.WrapKind(domain.KindPayment, statusErr, "payment required")
	case status >= 500:
		return domain.WrapKind(domain.KindNetwork, statusErr, "commerce backend unavailable")
	default:
		return domain.WrapKind(domain.KindInternal, statusErr, "commerce request failed")
	}
}

// errorMessage flattens the backend's "errors" field, which is either a string, a list or a
// map of field to messages.
func errorMessage(body []byte) string {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil || len(env.Errors) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(env.Errors, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(env.Errors, &list); err == nil {
		return strings.Join(list, "; ")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(env.Errors, &fields); err == nil {
		parts := make([]string, 0, len(fields))
		for field, raw := range fields {
			var msgs []string
			if err := json.Unmarshal(raw, &msgs); err == nil {
				parts = append(parts, field+" "+strings.Join(msgs, ", "))
				continue
			}
			var msg string
			if err := json.Unmarshal(raw, &msg); err == nil {
				parts = append(parts, field+" "+msg)
			}
		}
		sort.Strings(parts)
		return strings.Join(parts, "; ")
	}
	return ""
}

// nextPageURL extracts the rel="next" target of a Link header.
func nextPageURL(h http.Header) string {
	for _, link := range strings.Split(h.Get("Link"), ",") {
		segments := strings.Split(link, ";")
		if len(segments) < 2 {
			continue
		}
		target := strings.Trim(strings.TrimSpace(segments[0]), "<>")
		for _, param := range segments[1:] {
			if strings.TrimSpace(param) == `rel="next"` {
				return target
			}
		}
	}
	return ""
}
