package hypixel

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/ChickenIQ/GuildLink/internal/cache"
	"github.com/ChickenIQ/GuildLink/internal/fault"
)

const defaultBaseURL = "https://api.hypixel.net/v2"

// Fetcher is the HTTP capability the gateway depends on. Implementations
// decode the response body into out.
type Fetcher interface {
	FetchJSON(ctx context.Context, path string, out any) error
}

// Client fetches the stats API over fasthttp with an API-Key header. Every
// successful response body is cached by full request URL.
type Client struct {
	baseURL string
	apiKey  string
	http    *fasthttp.Client
	store   cache.Store
	ttl     time.Duration
	timeout time.Duration
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

func WithTTL(d time.Duration) Option {
	return func(c *Client) { c.ttl = d }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func NewClient(apiKey string, store cache.Store, opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		http:    &fasthttp.Client{ReadTimeout: 10 * time.Second, WriteTimeout: 10 * time.Second, MaxConnsPerHost: 16},
		store:   store,
		ttl:     30 * time.Minute,
		timeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) FetchJSON(ctx context.Context, path string, out any) error {
	url := c.baseURL + path

	if raw, ok, err := c.store.Get(ctx, url); err == nil && ok {
		if err := json.Unmarshal(raw, out); err == nil {
			return nil
		}
		// a stale or corrupt entry falls through to a fresh fetch
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(fasthttp.MethodGet)
	req.SetRequestURI(url)
	req.Header.Set("API-Key", c.apiKey)

	if err := c.http.DoDeadline(req, resp, c.computeDeadline(ctx)); err != nil {
		return fault.Upstream(err, "fetch %s", url)
	}

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		return fault.Upstream(nil, "fetch %s: status %d", url, status)
	}

	body := append([]byte(nil), resp.Body()...)
	if err := json.Unmarshal(body, out); err != nil {
		return fault.Upstream(err, "decode response from %s", url)
	}

	// Cache write failures only cost a future refetch.
	_ = c.store.Set(ctx, url, body, c.ttl)
	return nil
}

func (c *Client) computeDeadline(ctx context.Context) time.Time {
	clientDL := time.Now().Add(c.timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(clientDL) {
		return dl
	}
	return clientDL
}
