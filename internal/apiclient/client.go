package apiclient

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

	"github.com/google/uuid"
)

const (
	defaultBaseURL   = "http://localhost:8000"
	userAgent        = "fatherhoodis-web/1.0"
	maxResponseBytes = 1 << 20
)

type httpDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client 负责把类型化请求翻译为对后端 API 的 HTTP 调用，并统一错误形态。
// 每个操作只尝试一次，不做重试；超时由调用方的 context 或底层传输决定。
type Client struct {
	http     httpDoer
	baseURL  string
	cache    PostCache
	cacheTTL time.Duration
}

// NewClient creates a Client talking to baseURL.
func NewClient(baseURL string) *Client {
	c := &Client{http: &http.Client{}}
	c.SetBaseURL(baseURL)
	return c
}

func (c *Client) SetHTTPClient(client httpDoer) {
	if client == nil {
		c.http = &http.Client{}
		return
	}
	c.http = client
}

func (c *Client) SetBaseURL(base string) {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		base = defaultBaseURL
	}
	c.baseURL = base
}

// SetPostCache enables caching of single post lookups. A nil cache or a
// non-positive ttl disables it.
func (c *Client) SetPostCache(cache PostCache, ttl time.Duration) {
	if cache == nil || ttl <= 0 {
		c.cache = nil
		c.cacheTTL = 0
		return
	}
	c.cache = cache
	c.cacheTTL = ttl
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type call struct {
	op       string
	method   string
	path     string
	query    url.Values
	body     any
	noCache  bool
	fallback string
}

func (c *Client) do(ctx context.Context, req call, out any) error {
	var payload io.Reader
	if req.body != nil {
		encoded, err := json.Marshal(req.body)
		if err != nil {
			return &Error{Op: req.op, Kind: KindRemote, Message: req.fallback, Err: fmt.Errorf("encode request: %w", err)}
		}
		payload = bytes.NewReader(encoded)
		logExchange(req.op, "request", string(encoded))
	}

	endpoint := c.baseURL + req.path
	if len(req.query) > 0 {
		endpoint += "?" + req.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint, payload)
	if err != nil {
		return &Error{Op: req.op, Kind: KindRemote, Message: req.fallback, Err: fmt.Errorf("build request: %w", err)}
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", userAgent)
	httpReq.Header.Set("X-Request-ID", requestID)
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.noCache {
		httpReq.Header.Set("Cache-Control", "no-cache, no-store")
		httpReq.Header.Set("Pragma", "no-cache")
	}

	client := c.http
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		logRequestFailure(req.op, requestID, err)
		return &Error{Op: req.op, Kind: KindRemote, Message: req.fallback, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		logRequestFailure(req.op, requestID, err)
		return &Error{Op: req.op, Kind: KindRemote, Status: resp.StatusCode, Message: req.fallback, Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		logStatus(req.op, requestID, resp.StatusCode, string(respBody))
		return newStatusError(req.op, resp.StatusCode, respBody, req.fallback)
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		logStatus(req.op, requestID, resp.StatusCode, string(respBody))
		return &Error{Op: req.op, Kind: KindRemote, Status: resp.StatusCode, Message: req.fallback, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
