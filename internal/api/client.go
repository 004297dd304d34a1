package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultTimeout tolerates the slow LLM-backed endpoints (chat, task
// detection) without hanging forever.
const DefaultTimeout = 120 * time.Second

// Error is a non-2xx backend response. The body is kept verbatim so callers
// can surface whatever detail the backend provided.
type Error struct {
	StatusCode int
	Status     string
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Status)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Detail)
}

// Client is the single point of outbound HTTP configuration. Every resource
// service method goes through do; there are no retries, every call is
// at-most-once.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	log     *logrus.Logger
}

func NewClient(baseURL string, log *logrus.Logger) *Client {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: DefaultTimeout},
		log:     log,
	}
}

// do performs one request and decodes the JSON response into out (skipped when
// out is nil). Trailing slashes in path are significant: the backend
// distinguishes `/users/` from `/users/{id}`, so callers pass paths verbatim.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, out any) error {
	u := c.BaseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	c.log.WithFields(logrus.Fields{"method": method, "url": u}).Debug("api request")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.log.WithFields(logrus.Fields{"method": method, "url": u}).WithError(err).Error("api request failed")
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.WithFields(logrus.Fields{"method": method, "url": u}).WithError(err).Error("api response read failed")
		return fmt.Errorf("read response from %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Detail:     errorDetail(data),
		}
		c.log.WithFields(logrus.Fields{
			"method": method,
			"url":    u,
			"status": resp.StatusCode,
			"body":   string(data),
		}).Error("api response error")
		return apiErr
	}

	c.log.WithFields(logrus.Fields{"method": method, "url": u, "status": resp.StatusCode}).Debug("api response")

	if out == nil {
		return nil
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response from %s %s: %w", method, path, err)
	}
	return nil
}

// errorDetail pulls the backend's structured detail field when present,
// falling back to the raw body.
func errorDetail(body []byte) string {
	var wrapped struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Detail != "" {
		return wrapped.Detail
	}
	return strings.TrimSpace(string(body))
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, params, nil, out)
}

func (c *Client) post(ctx context.Context, path string, params url.Values, body, out any) error {
	return c.do(ctx, http.MethodPost, path, params, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
