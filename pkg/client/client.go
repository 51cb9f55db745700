package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/mandelsoft/admin/pkg/apierror"
	"github.com/mandelsoft/admin/pkg/envelope"
)

const HEADER_REQUEST_ID = "X-Request-ID"

// Client is the single access point to the admin REST API.
type Client struct {
	base    string
	creds   Credentials
	http    *http.Client
	timeout time.Duration
	limiter *rate.Limiter
}

func New(base string, creds Credentials, opts ...Option) *Client {
	c := &Client{
		base:  NormalizeURL(base),
		creds: creds,
		http:  http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// NormalizeURL adds a missing scheme and removes trailing slashes.
func NormalizeURL(a string) string {
	a = strings.TrimSpace(a)
	if !strings.HasPrefix(a, "http://") && !strings.HasPrefix(a, "https://") {
		a = "https://" + a
	}
	return strings.TrimRight(a, "/")
}

func (c *Client) BaseURL() string {
	return c.base
}

func (c *Client) URL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.base + path
}

// List fetches a list endpoint and unwraps the records
// from whatever envelope the endpoint uses.
func (c *Client) List(ctx context.Context, path string, keys ...string) ([]envelope.Record, error) {
	var raw any
	err := c.Do(ctx, http.MethodGet, path, nil, &raw)
	if err != nil {
		return nil, err
	}
	return envelope.Records(envelope.UnwrapWith(raw, keys...)), nil
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// Do executes a request. A non-nil body is sent as json.
// A successful response body is decoded into out, if given.
// Error responses are reported as *apierror.Error and transport
// failures as *apierror.NetworkError.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("cannot marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &apierror.NetworkError{Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL(path), reader)
	if err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	id := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HEADER_REQUEST_ID, id)
	authorize(req, c.creds)

	log.Debug("{{method}} {{url}}", "method", method, "url", req.URL, "request", id)
	resp, err := c.http.Do(req)
	if err != nil {
		log.Info("request failed", "method", method, "url", req.URL, "request", id, "error", err)
		return &apierror.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		aerr := apierror.FromResponse(resp)
		log.Info("request rejected", "method", method, "url", req.URL, "request", id, "status", resp.StatusCode, "message", aerr.Message)
		return aerr
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &apierror.NetworkError{Err: err}
	}
	log.Trace("response", "request", id, "status", resp.StatusCode, "size", len(data))
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	err = json.Unmarshal(data, out)
	if err != nil {
		return fmt.Errorf("cannot decode response of %s %s: %w", method, path, err)
	}
	return nil
}
