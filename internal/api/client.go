package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/tgienger/todo/internal/logger"
	"github.com/tgienger/todo/internal/models"
)

// Client implements Service over HTTP.
type Client struct {
	base    string
	http    *fasthttp.Client
	timeout time.Duration
	logger  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds every request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithHTTPClient replaces the underlying fasthttp client (for testing).
func WithHTTPClient(hc *fasthttp.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New creates a client for the collection at baseURL, e.g. http://localhost:3000/todo.
func New(baseURL string, opts ...Option) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		base:   base,
		http:   &fasthttp.Client{Name: "todo-client"},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the collection URL the client talks to.
func (c *Client) BaseURL() string {
	return c.base
}

// ListTasks implements Service.
func (c *Client) ListTasks(ctx context.Context) ([]models.Task, error) {
	body, status, err := c.do(ctx, OpList, fasthttp.MethodGet, c.base, nil)
	if err != nil {
		return nil, err
	}
	tasks, err := decodeTasks(body)
	if err != nil {
		return nil, &Error{Op: OpList, Status: status, Err: err}
	}
	return tasks, nil
}

// CreateTask implements Service.
func (c *Client) CreateTask(ctx context.Context, task models.NewTask) (models.Task, error) {
	body, status, err := c.do(ctx, OpCreate, fasthttp.MethodPost, c.base, task)
	if err != nil {
		return models.Task{}, err
	}
	created, err := decodeTask(body)
	if err != nil {
		return models.Task{}, &Error{Op: OpCreate, Status: status, Err: err}
	}
	return created, nil
}

// UpdateTask implements Service.
func (c *Client) UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error) {
	body, status, err := c.do(ctx, OpUpdate, fasthttp.MethodPatch, c.taskURL(id), patch)
	if err != nil {
		return models.Task{}, err
	}
	updated, err := decodeTask(body)
	if err != nil {
		return models.Task{}, &Error{Op: OpUpdate, Status: status, Err: err}
	}
	return updated, nil
}

// DeleteTask implements Service.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	_, _, err := c.do(ctx, OpDelete, fasthttp.MethodDelete, c.taskURL(id), nil)
	return err
}

func (c *Client) taskURL(id string) string {
	return c.base + "/" + url.PathEscape(id)
}

// do performs one request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, op, method, uri string, payload interface{}) ([]byte, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, &Error{Op: op, Err: err}
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	requestID := logger.RequestID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	req.SetRequestURI(uri)
	req.Header.SetMethod(method)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, &Error{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		req.Header.SetContentType("application/json")
		req.SetBody(data)
	}

	log := c.logger.With(
		zap.String("op", op),
		zap.String("method", method),
		zap.String("url", uri),
		zap.String("request_id", requestID),
	)

	start := time.Now()
	var err error
	switch deadline, ok := ctx.Deadline(); {
	case ok:
		err = c.http.DoDeadline(req, resp, deadline)
	case c.timeout > 0:
		err = c.http.DoTimeout(req, resp, c.timeout)
	default:
		err = c.http.Do(req, resp)
	}
	elapsed := time.Since(start)

	if err != nil {
		log.Warn("request failed", zap.Duration("duration", elapsed), zap.Error(err))
		return nil, 0, &Error{Op: op, Err: err}
	}

	status := resp.StatusCode()
	body := append([]byte(nil), resp.Body()...)

	if status < 200 || status > 299 {
		log.Warn("unexpected status",
			zap.Int("status", status),
			zap.Duration("duration", elapsed),
			zap.ByteString("body", truncate(body, 256)),
		)
		return nil, status, &Error{Op: op, Status: status}
	}

	log.Debug("request completed", zap.Int("status", status), zap.Duration("duration", elapsed))
	return body, status, nil
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
