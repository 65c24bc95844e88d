// Package marketfeed provides the client for the third-party commodity price API.
package marketfeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/eyaachaabene/agrimarket/internal/clientdata"
	"github.com/eyaachaabene/agrimarket/internal/modules/pricing"
)

// ErrUpstreamShape is returned when the feed response is neither a bare
// commodity array nor a {"data": [...]} wrapper.
var ErrUpstreamShape = errors.New("unexpected market feed response shape")

// cacheKey is the single snapshot key in the market_feed cache table.
const cacheKey = "latest"

// Config holds market feed client configuration.
type Config struct {
	BaseURL  string
	APIKey   string
	ClientID string
	Timeout  time.Duration
}

// Client fetches commodity reference prices.
// cacheRepo is optional - if nil, snapshot caching is disabled.
type Client struct {
	cfg       Config
	client    *http.Client
	log       zerolog.Logger
	cacheRepo *clientdata.Repository
}

// NewClient creates a new market feed client
func NewClient(cfg Config, cacheRepo *clientdata.Repository, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		cfg:       cfg,
		client:    &http.Client{Timeout: timeout},
		log:       log.With().Str("client", "marketfeed").Logger(),
		cacheRepo: cacheRepo,
	}
}

// Fetch retrieves the full commodity list from the feed. Any failure -
// transport, non-2xx status, unparseable body - is returned to the caller;
// the scheduled analysis run must see fresh data or abort.
// A successful fetch refreshes the cached snapshot.
func (c *Client) Fetch(ctx context.Context) ([]pricing.MarketCommodity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.cfg.APIKey)
	req.Header.Set("X-Client-Id", c.cfg.ClientID)

	c.log.Debug().Str("url", c.cfg.BaseURL).Msg("Fetching commodity prices")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed response: %w", err)
	}

	commodities, err := parseCommodities(body)
	if err != nil {
		return nil, err
	}

	// Cache the snapshot for on-demand comparisons.
	if c.cacheRepo != nil {
		if err := c.cacheRepo.Store("market_feed", cacheKey, commodities, clientdata.TTLMarketFeed); err != nil {
			c.log.Warn().Err(err).Msg("Failed to cache feed snapshot")
		}
	}

	c.log.Info().Int("commodities", len(commodities)).Msg("Fetched commodity prices")

	return commodities, nil
}

// FetchWithFallback tries a fresh fetch and falls back to the cached
// snapshot - stale included - when the feed is unavailable. Stale data is
// better than no data for an interactive comparison, but never acceptable
// for the batch analysis, which uses Fetch directly.
func (c *Client) FetchWithFallback(ctx context.Context) ([]pricing.MarketCommodity, error) {
	commodities, err := c.Fetch(ctx)
	if err == nil {
		return commodities, nil
	}

	if cached, ok := c.getFromCache(); ok {
		c.log.Warn().Err(err).Int("commodities", len(cached)).Msg("Feed unavailable, using cached snapshot")
		return cached, nil
	}

	return nil, err
}

// parseCommodities normalizes the two response shapes the feed is known to
// produce into a single list.
func parseCommodities(body []byte) ([]pricing.MarketCommodity, error) {
	// Bare array
	var list []pricing.MarketCommodity
	if err := json.Unmarshal(body, &list); err == nil {
		return list, nil
	}

	// {"data": [...]} wrapper
	var wrapped struct {
		Data []pricing.MarketCommodity `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Data != nil {
		return wrapped.Data, nil
	}

	return nil, ErrUpstreamShape
}

func (c *Client) getFromCache() ([]pricing.MarketCommodity, bool) {
	if c.cacheRepo == nil {
		return nil, false
	}

	data, err := c.cacheRepo.Get("market_feed", cacheKey)
	if err != nil || data == nil {
		return nil, false
	}

	var cached []pricing.MarketCommodity
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, false
	}

	return cached, true
}
