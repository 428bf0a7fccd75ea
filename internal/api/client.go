// Package api is the REST client for the notification service. It covers
// the history load and the confirmation fallbacks; everything else the
// storefront API serves (catalog, orders, auth) is outside this client.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/RobertRaul/storefront-notify/internal/domain"
	"github.com/RobertRaul/storefront-notify/internal/logging"
	"github.com/RobertRaul/storefront-notify/internal/protocol"
)

// TokenFunc supplies the current credential. The client observes the
// credential; it never stores or mutates it.
type TokenFunc func() (string, error)

// Client talks to the notification REST endpoints.
type Client struct {
	baseURL string
	token   TokenFunc
	httpc   *http.Client
	log     logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client (tests).
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// WithLogger overrides the logger.
func WithLogger(log logging.Logger) Option {
	return func(c *Client) { c.log = log }
}

// NewClient creates a REST client for the given host. useTLS selects
// https; the host must not carry a scheme.
func NewClient(host string, useTLS bool, timeout time.Duration, token TokenFunc, opts ...Option) *Client {
	if token == nil {
		panic("api.NewClient: token func cannot be nil")
	}
	scheme := "http"
	if useTLS {
		scheme = "https"
	}
	c := &Client{
		baseURL: fmt.Sprintf("%s://%s", scheme, host),
		token:   token,
		httpc:   &http.Client{Timeout: timeout},
		log:     logging.GetGlobal(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// paginatedEnvelope is the DRF-style page wrapper the server may return
// instead of a bare array.
type paginatedEnvelope struct {
	Results []protocol.Notification `json:"results"`
}

// FetchHistory loads the historical notification set, newest first.
// Responses that are neither a bare array nor a results envelope come
// back as an empty slice, not an error; individual records that fail
// validation are skipped.
func (c *Client) FetchHistory(ctx context.Context) ([]domain.Notification, error) {
	body, err := c.get(ctx, "/notifications/")
	if err != nil {
		return nil, err
	}
	wire := normalizeHistory(body)
	notifications := make([]domain.Notification, 0, len(wire))
	for _, w := range wire {
		n, err := w.ToDomain()
		if err != nil {
			c.log.Debug("skipping invalid history record", "err", err)
			continue
		}
		notifications = append(notifications, n)
	}
	return domain.SortNewestFirst(notifications), nil
}

// normalizeHistory accepts a bare ordered sequence or a paginated
// envelope exposing results; anything else is an empty sequence.
func normalizeHistory(body []byte) []protocol.Notification {
	var bare []protocol.Notification
	if err := json.Unmarshal(body, &bare); err == nil {
		return bare
	}
	var page paginatedEnvelope
	if err := json.Unmarshal(body, &page); err == nil && page.Results != nil {
		return page.Results
	}
	return nil
}

// MarkAsRead confirms a single read mark with the server.
func (c *Client) MarkAsRead(ctx context.Context, id int64) error {
	return c.post(ctx, fmt.Sprintf("/notifications/%d/mark_as_read/", id), nil)
}

// MarkAllAsRead confirms a mark-all with the server.
func (c *Client) MarkAllAsRead(ctx context.Context) error {
	return c.post(ctx, "/notifications/mark_all_as_read/", nil)
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: unexpected status %d", path, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("POST %s: unexpected status %d", path, resp.StatusCode)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	u, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	token, err := c.token()
	if err != nil {
		return nil, fmt.Errorf("reading credential: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}
