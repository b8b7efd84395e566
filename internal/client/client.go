// Package client is a typed HTTP client for the todo API.
package client

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

	"todos/internal/models"
)

const maxResponseBodySize = 1 << 20 // 1MB

const (
	defaultMaxIdleConnsPerHost = 10
	defaultIdleConnTimeout     = 60 * time.Second
)

// APIError is returned when the server answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// NotFound reports whether the server rejected an unknown id.
func (e *APIError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Client talks to a todo server rooted at a base URL.
//
// No client-wide timeout is set; callers bound requests through the context.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client for baseURL, e.g. "http://localhost:5000".
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
				IdleConnTimeout:     defaultIdleConnTimeout,
			},
		},
	}
}

// ListTodos fetches every todo.
func (c *Client) ListTodos(ctx context.Context) ([]models.Todo, error) {
	var todos []models.Todo
	if err := c.do(ctx, http.MethodGet, "/todos", nil, &todos); err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []models.Todo{}
	}
	return todos, nil
}

// CreateTodo creates a todo and returns it as stored by the server.
func (c *Client) CreateTodo(ctx context.Context, task string) (*models.Todo, error) {
	var todo models.Todo
	if err := c.do(ctx, http.MethodPost, "/todos", models.CreateTodoRequest{Task: &task}, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

// UpdateTodo sends a new task for id and returns the server's copy.
func (c *Client) UpdateTodo(ctx context.Context, id, task string) (*models.Todo, error) {
	var todo models.Todo
	path := "/todos/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodPut, path, models.UpdateTodoRequest{Task: &task}, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

// DeleteTodo deletes the todo with id.
func (c *Client) DeleteTodo(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/todos/"+url.PathEscape(id), nil, nil)
}

// Close releases idle connections. The client stays usable.
func (c *Client) Close() {
	if c == nil || c.httpClient == nil {
		return
	}
	c.httpClient.CloseIdleConnections()
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &payload) == nil {
			apiErr.Message = payload.Error
		}
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
