// Package pokeapi is a small client for the public PokéAPI REST service.
package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://pokeapi.co/api/v2"
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "pokedex-tui"

	maxPokemonBytes = 8 << 20
	maxSpriteBytes  = 1 << 20
)

// Client talks to PokéAPI.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	timeout    *time.Duration
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another PokéAPI-compatible server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient replaces the underlying HTTP client. The client is copied,
// so later options never modify the caller's value.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout. Zero disables it. It takes
// precedence over the timeout of a client given with WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = &d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithRateLimit caps outgoing requests per second. Zero or less disables it.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a client with sensible defaults.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	hc := http.Client{Timeout: DefaultTimeout}
	if c.httpClient != nil {
		hc = *c.httpClient
	}
	if c.timeout != nil {
		hc.Timeout = *c.timeout
	}
	c.httpClient = &hc

	return c
}

// Timeout returns the per-request timeout in effect.
func (c *Client) Timeout() time.Duration {
	return c.httpClient.Timeout
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetPokemon fetches /pokemon/{name}. The name is sent as given; callers
// normalize it.
func (c *Client) GetPokemon(ctx context.Context, name string) (*Pokemon, error) {
	endpoint := c.baseURL + "/pokemon/" + url.PathEscape(name)

	body, err := c.get(ctx, endpoint, name, "application/json", maxPokemonBytes)
	if err != nil {
		return nil, err
	}

	var p Pokemon
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, &Error{Kind: KindMalformed, Query: name, Err: fmt.Errorf("decoding pokemon: %w", err)}
	}

	return &p, nil
}

// GetSprite downloads a sprite image and returns its raw bytes.
func (c *Client) GetSprite(ctx context.Context, spriteURL string) ([]byte, error) {
	if spriteURL == "" {
		return nil, &Error{Kind: KindNotFound, Err: errors.New("empty sprite url")}
	}
	return c.get(ctx, spriteURL, spriteURL, "image/*", maxSpriteBytes)
}

func (c *Client) get(ctx context.Context, endpoint, query, accept string, limit int64) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, c.transportError(ctx, query, fmt.Errorf("waiting for rate limiter: %w", err))
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Query: query, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Accept", accept)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(ctx, query, fmt.Errorf("making request: %w", err))
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("url", endpoint).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("pokeapi request")

	if resp.StatusCode == http.StatusNotFound {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, &Error{Kind: KindNotFound, Status: resp.StatusCode, Query: query}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, &Error{Kind: KindStatus, Status: resp.StatusCode, Query: query}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, c.transportError(ctx, query, fmt.Errorf("reading response: %w", err))
	}
	if int64(len(body)) > limit {
		return nil, &Error{Kind: KindMalformed, Query: query, Err: fmt.Errorf("response larger than %d bytes", limit)}
	}

	return body, nil
}

func (c *Client) transportError(ctx context.Context, query string, err error) *Error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return &Error{Kind: KindCanceled, Query: query, Err: err}
	}
	return &Error{Kind: KindNetwork, Query: query, Err: err}
}
