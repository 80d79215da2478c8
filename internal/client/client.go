// Package client is a typed HTTP client for the task API.
package client

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

	"github.com/phrazzld/taskboard/internal/domain"
	"github.com/phrazzld/taskboard/internal/query"
	"github.com/phrazzld/taskboard/internal/store"
)

// DefaultClientTimeout is the default timeout for API requests.
const DefaultClientTimeout = 10 * time.Second

// DefaultBaseURL is where the server listens with the default configuration.
const DefaultBaseURL = "http://127.0.0.1:8080"

// TaskCreate is the body of a create request.
type TaskCreate struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Priority    string   `json:"priority"`
	Status      string   `json:"status,omitempty"`
	DueDate     string   `json:"dueDate,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// TaskUpdate is the body of an update request. Nil fields are not sent;
// a non-nil Tags pointing at an empty list clears the tags.
type TaskUpdate struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Priority    *string   `json:"priority,omitempty"`
	Status      *string   `json:"status,omitempty"`
	DueDate     *string   `json:"dueDate,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
}

// ListResult is a page of tasks with the server-reported total.
type ListResult struct {
	Tasks []domain.Task
	Total int
}

// Client wraps HTTP calls to the task API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultClientTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListTasks fetches the tasks matching the criteria.
func (c *Client) ListTasks(ctx context.Context, criteria query.Criteria) (ListResult, error) {
	params := url.Values{}
	setParam(params, "q", criteria.Text)
	setParam(params, "status", string(criteria.Status))
	setParam(params, "priority", string(criteria.Priority))
	setParam(params, "sort", string(criteria.Sort))
	setParam(params, "order", string(criteria.Order))

	path := "/api/tasks"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var tasks []domain.Task
	resp, err := c.do(ctx, http.MethodGet, path, nil, &tasks)
	if err != nil {
		return ListResult{}, err
	}

	total := len(tasks)
	if header := resp.Header.Get("X-Total-Count"); header != "" {
		n, err := strconv.Atoi(header)
		if err != nil {
			return ListResult{}, fmt.Errorf("invalid X-Total-Count header %q: %w", header, err)
		}
		total = n
	}
	return ListResult{Tasks: tasks, Total: total}, nil
}

// GetTask fetches a single task
func (c *Client) GetTask(ctx context.Context, id string) (domain.Task, error) {
	var task domain.Task
	_, err := c.do(ctx, http.MethodGet, taskPath(id), nil, &task)
	return task, err
}

// CreateTask creates a new task
func (c *Client) CreateTask(ctx context.Context, in TaskCreate) (domain.Task, error) {
	var task domain.Task
	_, err := c.do(ctx, http.MethodPost, "/api/tasks", in, &task)
	return task, err
}

// UpdateTask merges the set fields of in into the task.
func (c *Client) UpdateTask(ctx context.Context, id string, in TaskUpdate) (domain.Task, error) {
	var task domain.Task
	_, err := c.do(ctx, http.MethodPut, taskPath(id), in, &task)
	return task, err
}

// SetStatus changes the status of a task.
func (c *Client) SetStatus(ctx context.Context, id string, status domain.Status) (domain.Task, error) {
	var task domain.Task
	body := map[string]string{"status": string(status)}
	_, err := c.do(ctx, http.MethodPatch, taskPath(id)+"/status", body, &task)
	return task, err
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, taskPath(id), nil, nil)
	return err
}

// Stats fetches the task counts.
func (c *Client) Stats(ctx context.Context) (store.StatusCounts, error) {
	var counts store.StatusCounts
	_, err := c.do(ctx, http.MethodGet, "/api/tasks/stats", nil, &counts)
	return counts, err
}

// do sends a JSON request and decodes a JSON response into out, if non-nil.
// Non-2xx responses are returned as *APIError.
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) (*http.Response, error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, newAPIError(resp.StatusCode, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp, nil
}

func taskPath(id string) string {
	return "/api/tasks/" + url.PathEscape(id)
}

func setParam(params url.Values, key, value string) {
	if value != "" {
		params.Set(key, value)
	}
}
