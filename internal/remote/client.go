// Package remote talks to the upstream school backend REST API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-portal/internal/resource"
)

const maxBodyBytes = 8 << 20

// CallObserver records the duration and outcome of each upstream call.
type CallObserver interface {
	ObserveUpstream(resource, op, outcome string, duration time.Duration)
}

// Config configures every resource client.
type Config struct {
	BaseURL    string
	Prefix     string
	Timeout    time.Duration
	Token      string
	HTTPClient *http.Client
	Logger     *zap.Logger
	Observer   CallObserver
}

// Client is the Remote Sync Adapter for one resource. Calls are never retried.
type Client[T resource.Entity[T]] struct {
	resource string
	endpoint string
	token    string
	http     *http.Client
	logger   *zap.Logger
	observer CallObserver
}

// NewClient builds a client for {BaseURL}{Prefix}/{name}.
func NewClient[T resource.Entity[T]](name string, cfg Config) *Client[T] {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "/api"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client[T]{
		resource: name,
		endpoint: strings.TrimRight(cfg.BaseURL, "/") + "/" + strings.Trim(prefix, "/") + "/" + name,
		token:    cfg.Token,
		http:     httpClient,
		logger:   logger,
		observer: cfg.Observer,
	}
}

// Endpoint returns the collection URL.
func (c *Client[T]) Endpoint() string { return c.endpoint }

// List fetches the whole collection.
func (c *Client[T]) List(ctx context.Context) ([]T, error) {
	body, err := c.do(ctx, "list", http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, err
	}
	items, err := decodeList[T](body)
	if err != nil {
		return nil, c.fail("list", 0, err)
	}
	return items, nil
}

// Create posts a new record and returns the backend's copy.
func (c *Client[T]) Create(ctx context.Context, record T) (T, error) {
	var zero T
	body, err := c.do(ctx, "create", http.MethodPost, c.endpoint, record)
	if err != nil {
		return zero, err
	}
	saved, found, err := decodeRecord[T](body)
	if err != nil {
		return zero, c.fail("create", 0, err)
	}
	if !found || saved.GetID() == "" {
		return zero, c.fail("create", 0, ErrMissingID)
	}
	return saved, nil
}

// Update replaces the record with the given id. An acknowledgement without a body
// yields the submitted record.
func (c *Client[T]) Update(ctx context.Context, id string, record T) (T, error) {
	var zero T
	body, err := c.do(ctx, "update", http.MethodPut, c.itemURL(id), record)
	if err != nil {
		return zero, err
	}
	saved, found, err := decodeRecord[T](body)
	if err != nil {
		return zero, c.fail("update", 0, err)
	}
	if !found {
		return record.WithID(id), nil
	}
	if saved.GetID() == "" {
		saved = saved.WithID(id)
	}
	return saved, nil
}

// Remove deletes the record with the given id.
func (c *Client[T]) Remove(ctx context.Context, id string) error {
	body, err := c.do(ctx, "remove", http.MethodDelete, c.itemURL(id), nil)
	if err != nil {
		return err
	}
	if s := classify(body); s.kind == failedShape {
		return c.fail("remove", 0, errors.New(s.message))
	}
	return nil
}

func (c *Client[T]) itemURL(id string) string {
	return c.endpoint + "/" + url.PathEscape(id)
}

func (c *Client[T]) do(ctx context.Context, op, method, target string, payload interface{}) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, c.fail(op, 0, fmt.Errorf("encode payload: %w", err))
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, c.fail(op, 0, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(op, "error", start)
		return nil, c.fail(op, 0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.observe(op, "error", start)
		return nil, c.fail(op, resp.StatusCode, fmt.Errorf("read body: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.observe(op, "error", start)
		reason := errorMessage(body)
		if reason == "" {
			reason = http.StatusText(resp.StatusCode)
		}
		return nil, c.fail(op, resp.StatusCode, errors.New(reason))
	}

	c.observe(op, "ok", start)
	c.logger.Debug("upstream call",
		zap.String("resource", c.resource),
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))
	return body, nil
}

func (c *Client[T]) observe(op, outcome string, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveUpstream(c.resource, op, outcome, time.Since(start))
	}
}

func (c *Client[T]) fail(op string, status int, err error) error {
	return &RemoteSyncError{Resource: c.resource, Op: op, Status: status, Err: err}
}
