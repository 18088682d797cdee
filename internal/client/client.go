// Package client talks to the lireddit GraphQL API through a chain of
// exchanges: cache, error mapping, then HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"lireddit/internal/client/cache"
)

// ErrNotAuthenticated is returned when the API rejects the request for lack
// of a session. Callers send the user to the login page.
var ErrNotAuthenticated = errors.New("not authenticated")

type Kind int

const (
	Query Kind = iota
	Mutation
)

// RequestPolicy decides whether a query may be answered from cache.
type RequestPolicy int

const (
	CacheFirst RequestPolicy = iota
	NetworkOnly
)

// Operation is one GraphQL request. Field names the single root field the
// document selects; results and cache entries are keyed by it.
type Operation struct {
	Kind      Kind
	Field     string
	Query     string
	Variables map[string]any
	Policy    RequestPolicy
}

type GraphQLError struct {
	Message string `json:"message"`
}

// Result carries the root field's value as decoded JSON.
type Result struct {
	Data      any
	Errors    []GraphQLError
	Partial   bool
	FromCache bool
}

// ResponseError wraps GraphQL errors that are not authentication failures.
type ResponseError struct {
	Errors []GraphQLError
}

func (e *ResponseError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, ge := range e.Errors {
		msgs[i] = ge.Message
	}
	return "graphql: " + strings.Join(msgs, "; ")
}

type ExchangeFunc func(ctx context.Context, op *Operation) (*Result, error)

// Exchange wraps the next step of the chain.
type Exchange func(next ExchangeFunc) ExchangeFunc

type Client struct {
	url   string
	http  *http.Client
	cache *cache.Cache
	run   ExchangeFunc
}

type Option func(*Client)

// WithHTTPClient replaces the default client. It should carry a cookie jar
// for sessions to work.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithCache(cc *cache.Cache) Option {
	return func(c *Client) { c.cache = cc }
}

// New returns a client for the API at url with its own cookie jar and a
// lireddit-configured cache.
func New(url string, opts ...Option) *Client {
	c := &Client{url: url}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		jar, _ := cookiejar.New(nil)
		c.http = &http.Client{Jar: jar, Timeout: 10 * time.Second}
	}
	if c.cache == nil {
		c.cache = cache.NewLireddit()
	}
	c.run = compose(c.fetchExchange, cacheExchange(c.cache), errorExchange)
	return c
}

// compose builds the chain so the first exchange listed sees the operation
// first.
func compose(fetch ExchangeFunc, exchanges ...Exchange) ExchangeFunc {
	next := fetch
	for i := len(exchanges) - 1; i >= 0; i-- {
		next = exchanges[i](next)
	}
	return next
}

// Cache exposes the normalized cache.
func (c *Client) Cache() *cache.Cache {
	return c.cache
}

// Execute runs op through the exchange chain.
func (c *Client) Execute(ctx context.Context, op *Operation) (*Result, error) {
	return c.run(ctx, op)
}

func cacheExchange(cc *cache.Cache) Exchange {
	return func(next ExchangeFunc) ExchangeFunc {
		return func(ctx context.Context, op *Operation) (*Result, error) {
			if op.Kind == Mutation {
				res, err := next(ctx, op)
				if err != nil {
					return res, err
				}
				cc.ApplyMutation(op.Field, op.Variables, res.Data)
				return res, nil
			}

			if op.Policy == CacheFirst {
				if data, partial, ok := cc.ReadQuery(op.Field, op.Variables); ok && !partial {
					return &Result{Data: data, FromCache: true}, nil
				}
			}

			res, err := next(ctx, op)
			if err != nil {
				return res, err
			}
			cc.WriteQuery(op.Field, op.Variables, res.Data)
			// read back so resolvers such as the feed merge apply
			if data, partial, ok := cc.ReadQuery(op.Field, op.Variables); ok {
				res.Data = data
				res.Partial = partial
			}
			return res, nil
		}
	}
}

func errorExchange(next ExchangeFunc) ExchangeFunc {
	return func(ctx context.Context, op *Operation) (*Result, error) {
		res, err := next(ctx, op)
		if err != nil {
			return res, err
		}
		if len(res.Errors) == 0 {
			return res, nil
		}
		for _, ge := range res.Errors {
			if strings.Contains(ge.Message, "not authenticated") {
				return res, ErrNotAuthenticated
			}
		}
		return res, &ResponseError{Errors: res.Errors}
	}
}

type wireRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type wireResponse struct {
	Data   map[string]any `json:"data"`
	Errors []GraphQLError `json:"errors"`
}

func (c *Client) fetchExchange(ctx context.Context, op *Operation) (*Result, error) {
	body, err := json.Marshal(wireRequest{Query: op.Query, Variables: op.Variables})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("graphql request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, err
	}
	var wire wireResponse
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("graphql response (status %d): %w", resp.StatusCode, err)
	}
	return &Result{Data: wire.Data[op.Field], Errors: wire.Errors}, nil
}

// decode converts a JSON-shaped value into v.
func decode(data any, v any) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}
