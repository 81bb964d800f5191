// Package mojang resolves player names to stable identifiers through the
// Mojang profile endpoint.
package mojang

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/ChickenIQ/GuildLink/internal/cache"
	"github.com/ChickenIQ/GuildLink/internal/domain"
	"github.com/ChickenIQ/GuildLink/internal/fault"
)

const defaultBaseURL = "https://api.mojang.com"

// Transport performs one GET and returns status plus body. Replaceable in
// tests to instrument call counts.
type Transport func(ctx context.Context, url string) (int, []byte, error)

type Resolver struct {
	baseURL string
	do      Transport
	store   cache.Store
	ttl     time.Duration
}

type Option func(*Resolver)

func WithBaseURL(u string) Option {
	return func(r *Resolver) { r.baseURL = u }
}

func WithTransport(t Transport) Option {
	return func(r *Resolver) { r.do = t }
}

func WithTTL(d time.Duration) Option {
	return func(r *Resolver) { r.ttl = d }
}

func NewResolver(store cache.Store, opts ...Option) *Resolver {
	r := &Resolver{
		baseURL: defaultBaseURL,
		store:   store,
		ttl:     30 * time.Minute,
	}
	r.do = fasthttpTransport(&fasthttp.Client{ReadTimeout: 10 * time.Second, WriteTimeout: 10 * time.Second})
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func fasthttpTransport(c *fasthttp.Client) Transport {
	return func(ctx context.Context, url string) (int, []byte, error) {
		req := fasthttp.AcquireRequest()
		resp := fasthttp.AcquireResponse()
		defer func() {
			fasthttp.ReleaseRequest(req)
			fasthttp.ReleaseResponse(resp)
		}()

		req.Header.SetMethod(fasthttp.MethodGet)
		req.SetRequestURI(url)

		deadline := time.Now().Add(10 * time.Second)
		if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
			deadline = dl
		}
		if err := c.DoDeadline(req, resp, deadline); err != nil {
			return 0, nil, err
		}
		return resp.StatusCode(), append([]byte(nil), resp.Body()...), nil
	}
}

type profileDoc struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Resolve maps a player name to its identity. The result is cached by the
// input name exactly as given; repeated calls inside the TTL window return
// the cached identity without an upstream call.
func (r *Resolver) Resolve(ctx context.Context, name string) (domain.PlayerIdentity, error) {
	key := "mojang:" + name
	if raw, ok, err := r.store.Get(ctx, key); err == nil && ok {
		var id domain.PlayerIdentity
		if err := json.Unmarshal(raw, &id); err == nil {
			return id, nil
		}
	}

	url := r.baseURL + "/users/profiles/minecraft/" + name
	status, body, err := r.do(ctx, url)
	if err != nil {
		return domain.PlayerIdentity{}, fault.Upstream(err, "resolve %s", name)
	}
	if status == fasthttp.StatusNotFound || status == fasthttp.StatusNoContent {
		return domain.PlayerIdentity{}, fault.NotFound("no player named %s", name)
	}
	if status < 200 || status >= 300 {
		return domain.PlayerIdentity{}, fault.Upstream(nil, "resolve %s: status %d", name, status)
	}

	var doc profileDoc
	if err := json.Unmarshal(body, &doc); err != nil {
		return domain.PlayerIdentity{}, fault.Upstream(err, "resolve %s: decode", name)
	}
	if doc.ID == "" {
		return domain.PlayerIdentity{}, fault.NotFound("no player named %s", name)
	}

	identity := domain.PlayerIdentity{DisplayName: doc.Name, PlayerID: doc.ID}
	if raw, err := json.Marshal(identity); err == nil {
		_ = r.store.Set(ctx, key, raw, r.ttl)
	}
	return identity, nil
}
