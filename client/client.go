// Package client is the HTTP wrapper around the IMS backend. Every call
// on the /api surface and the profile endpoint carries the bearer token
// of the current session; failures are returned, never retried.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// TokenSource yields the bearer token of the current session.
type TokenSource interface {
	Token() string
}

// Options configures New.
type Options struct {
	AuthURL    string
	APIURL     string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *log.Logger
}

type Client struct {
	authURL string
	apiURL  string
	http    *http.Client
	tokens  TokenSource
	logger  *log.Logger
}

func New(opts Options, tokens TokenSource) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		authURL: strings.TrimRight(opts.AuthURL, "/"),
		apiURL:  strings.TrimRight(opts.APIURL, "/"),
		http:    hc,
		tokens:  tokens,
		logger:  logger,
	}
}

// request describes one backend call.
type request struct {
	method string
	url    string
	auth   bool
	body   interface{}
	out    interface{}
}

func (c *Client) api(format string, args ...interface{}) string {
	return c.apiURL + fmt.Sprintf(format, args...)
}

func (c *Client) auth(path string) string {
	return c.authURL + path
}

func (c *Client) do(ctx context.Context, r request) error {
	var token string
	if r.auth {
		if c.tokens == nil {
			return ErrNoSession
		}
		if token = c.tokens.Token(); token == "" {
			return ErrNoSession
		}
	}

	var body io.Reader
	if r.body != nil {
		buf, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", r.method, r.url, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, r.url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		c.logger.Printf("client: %s %s: %v", r.method, r.url, err)
		return fmt.Errorf("%s %s: %w", r.method, r.url, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read %s %s: %w", r.method, r.url, err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &APIError{StatusCode: res.StatusCode, Message: extractMessage(data)}
	}
	return decode(data, r.out)
}

// decode fills out from a 2xx body. A *string accepts plain text as well
// as a JSON string; a *json.RawMessage takes the body as is.
func decode(data []byte, out interface{}) error {
	if out == nil {
		return nil
	}
	trimmed := bytes.TrimSpace(data)
	switch v := out.(type) {
	case *string:
		if len(trimmed) > 0 && trimmed[0] == '"' {
			return json.Unmarshal(trimmed, v)
		}
		*v = string(trimmed)
		return nil
	case *json.RawMessage:
		*v = append((*v)[:0], trimmed...)
		return nil
	}
	if len(trimmed) == 0 {
		return nil
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
