// Package pokeapi implements provider.Provider against the PokéAPI v2 REST API.
package pokeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/cory-johannsen/battlesim/internal/config"
	"github.com/cory-johannsen/battlesim/internal/provider"
)

const tracerName = "github.com/cory-johannsen/battlesim/internal/provider/pokeapi"

// DefaultMaxBodyBytes caps response bodies when the config leaves the limit unset.
const DefaultMaxBodyBytes = 8 << 20

// Client is a PokéAPI client. It holds no cache and no per-battle state, so
// one Client may serve concurrent battles.
type Client struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
	maxBody   int64
	http      *http.Client
	logger    *zap.Logger
	tracer    trace.Tracer
}

// NewClient builds a Client from cfg.
//
// Precondition: cfg has passed config validation; logger must be non-nil.
func NewClient(cfg config.ProviderConfig, logger *zap.Logger) *Client {
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		timeout:   cfg.Timeout,
		maxBody:   maxBody,
		http:      &http.Client{},
		logger:    logger,
		tracer:    otel.Tracer(tracerName),
	}
}

var _ provider.Provider = (*Client)(nil)

// Creature fetches /pokemon/{name}.
//
// Postcondition: Returns a Creature with a non-empty Name, or an error wrapping
// provider.ErrNotFound, provider.ErrUnavailable, or provider.ErrMalformed.
func (c *Client) Creature(ctx context.Context, name string) (provider.Creature, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return provider.Creature{}, fmt.Errorf("%w: creature name is empty", provider.ErrNotFound)
	}
	var p pokemonPayload
	if err := c.get(ctx, c.baseURL+"/pokemon/"+url.PathEscape(name), &p); err != nil {
		return provider.Creature{}, err
	}
	return p.toCreature()
}

// Move resolves a move reference, which is the move's absolute URL.
func (c *Client) Move(ctx context.Context, ref string) (provider.Move, error) {
	var m movePayload
	if err := c.get(ctx, ref, &m); err != nil {
		return provider.Move{}, err
	}
	return m.toMove()
}

// Species resolves a species reference.
func (c *Client) Species(ctx context.Context, ref string) (provider.Species, error) {
	var s speciesPayload
	if err := c.get(ctx, ref, &s); err != nil {
		return provider.Species{}, err
	}
	if s.Name == "" {
		return provider.Species{}, fmt.Errorf("%w: species at %s has no name", provider.ErrMalformed, ref)
	}
	return provider.Species{Name: s.Name, EvolutionChainRef: s.EvolutionChain.URL}, nil
}

// EvolutionChain resolves an evolution chain reference into a tree.
func (c *Client) EvolutionChain(ctx context.Context, ref string) (*provider.EvolutionNode, error) {
	var ch chainPayload
	if err := c.get(ctx, ref, &ch); err != nil {
		return nil, err
	}
	if ch.Chain == nil || ch.Chain.Species.Name == "" {
		return nil, fmt.Errorf("%w: evolution chain at %s has no root species", provider.ErrMalformed, ref)
	}
	return ch.Chain.toTree(), nil
}

// get performs one GET with the configured timeout and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, rawURL string, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, "pokeapi.get", trace.WithAttributes(attribute.String("url.full", rawURL)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if rawURL == "" {
		return fmt.Errorf("%w: empty reference", provider.ErrMalformed)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("%w: building request for %s: %w", provider.ErrMalformed, rawURL, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("provider request failed",
			zap.String("url", rawURL),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return fmt.Errorf("%w: GET %s: %w", provider.ErrUnavailable, rawURL, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	c.logger.Debug("provider request",
		zap.String("url", rawURL),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: GET %s", provider.ErrNotFound, rawURL)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%w: GET %s: status %d", provider.ErrUnavailable, rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return fmt.Errorf("%w: reading %s: %w", provider.ErrUnavailable, rawURL, err)
	}
	if int64(len(body)) > c.maxBody {
		return fmt.Errorf("%w: %s: body exceeds %d bytes", provider.ErrMalformed, rawURL, c.maxBody)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decoding %s: %w", provider.ErrMalformed, rawURL, err)
	}
	return nil
}
