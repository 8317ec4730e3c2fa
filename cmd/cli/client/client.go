// Package client talks to the fintrack API and unwraps its
// {"success": ..., "message": ...} envelope.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/fintrack/fintrack/cmd/cli/config"
)

// Client is an API client bound to a base URL and an optional bearer token.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

// New returns an unauthenticated client for config.APIURL().
func New() *Client {
	return &Client{
		BaseURL: config.APIURL(),
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

// NewAuthenticated returns a client carrying the stored session token.
func NewAuthenticated() (*Client, error) {
	tok, err := config.LoadToken()
	if err != nil {
		return nil, err
	}
	c := New()
	c.Token = tok
	return c, nil
}

// APIError is a response whose envelope reported success=false.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if len(e.Fields) == 0 {
		return msg
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return msg + ": " + strings.Join(parts, "; ")
}

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}

// Do sends in (when non-nil) as JSON and decodes the response body into out
// (when non-nil). A response with success=false becomes an *APIError.
func (c *Client) Do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("status %d: unexpected response: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if !env.Success {
		return &APIError{Status: resp.StatusCode, Message: env.Message, Fields: env.Fields}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
