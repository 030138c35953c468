// Package client is a typed Go client for the task API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"taskboard-backend/internal/tasks"
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP error! status: %d: %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

type Client struct {
	baseURL string
	http    *http.Client
	token   string
	header  http.Header
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sends a bearer token on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHeader adds a fixed header, e.g. X-Platform.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.header.Set(key, value) }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		header:  make(http.Header),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) List(ctx context.Context) ([]tasks.Task, error) {
	var out []tasks.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &out); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if out == nil {
		out = []tasks.Task{}
	}
	return out, nil
}

func (c *Client) Create(ctx context.Context, title string, description *string) (tasks.Task, error) {
	body := struct {
		Title       string  `json:"title"`
		Description *string `json:"description,omitempty"`
	}{title, description}

	var out tasks.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", body, &out); err != nil {
		return tasks.Task{}, fmt.Errorf("create task: %w", err)
	}
	return out, nil
}

func (c *Client) Update(ctx context.Context, id int64, patch tasks.Patch) (tasks.Task, error) {
	var out tasks.Task
	if err := c.do(ctx, http.MethodPut, "/tasks/"+strconv.FormatInt(id, 10), patch, &out); err != nil {
		return tasks.Task{}, fmt.Errorf("update task %d: %w", id, err)
	}
	return out, nil
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, "/tasks/"+strconv.FormatInt(id, 10), nil, nil); err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return nil
}

// Stats fetches dashboard counts; days <= 0 uses the server default.
func (c *Client) Stats(ctx context.Context, days int) (tasks.Stats, error) {
	path := "/tasks/stats"
	if days > 0 {
		path += "?" + url.Values{"days": {strconv.Itoa(days)}}.Encode()
	}
	var out tasks.Stats
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return tasks.Stats{}, fmt.Errorf("task stats: %w", err)
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	for k, v := range c.header {
		req.Header[k] = v
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{StatusCode: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &payload) == nil {
			se.Message = payload.Error
		}
		return se
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
