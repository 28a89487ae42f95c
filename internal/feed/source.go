// Package feed hosts the market-data connectors: a candle REST source with
// fallback, and live trade streams.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/clawdkrab/polymarket-signal-bot/internal/metrics"
)

// Candle is one closed kline reduced to the fields the scorers consume.
type Candle struct {
	Close  float64
	Volume float64
}

const (
	defaultPrimaryBaseURL  = "https://api.binance.com"
	defaultFallbackBaseURL = "https://api1.binance.com"
	defaultInterval        = "15m"
	defaultLimit           = 60
	defaultFetchTimeout    = 5 * time.Second
)

// KlineSource fetches recent closing prices at a fixed candle granularity.
// On transport failure or a non-success status it retries against a fallback
// endpoint with the same contract; if both fail it serves the previous
// cached result. Failure is never fatal to the caller: the worst case is an
// empty slice, which callers treat as insufficient data.
type KlineSource struct {
	client   *resty.Client
	primary  string
	fallback string
	interval string
	limit    int
	log      zerolog.Logger

	mu    sync.Mutex
	cache map[string][]Candle
}

// SourceOption configures KlineSource construction.
type SourceOption func(*KlineSource)

// WithBaseURLs overrides the primary and fallback endpoints.
func WithBaseURLs(primary, fallback string) SourceOption {
	return func(s *KlineSource) {
		if primary != "" {
			s.primary = strings.TrimSuffix(primary, "/")
		}
		if fallback != "" {
			s.fallback = strings.TrimSuffix(fallback, "/")
		}
	}
}

// WithInterval overrides the candle granularity (e.g. "15m").
func WithInterval(interval string) SourceOption {
	return func(s *KlineSource) {
		if interval != "" {
			s.interval = interval
		}
	}
}

// WithLimit overrides how many candles each fetch requests.
func WithLimit(limit int) SourceOption {
	return func(s *KlineSource) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

// WithTimeout bounds each HTTP attempt.
func WithTimeout(d time.Duration) SourceOption {
	return func(s *KlineSource) {
		if d > 0 {
			s.client.SetTimeout(d)
		}
	}
}

// NewKlineSource builds a candle source with bounded timeouts.
func NewKlineSource(log zerolog.Logger, opts ...SourceOption) *KlineSource {
	client := resty.New()
	client.SetTimeout(defaultFetchTimeout)

	s := &KlineSource{
		client:   client,
		primary:  defaultPrimaryBaseURL,
		fallback: defaultFallbackBaseURL,
		interval: defaultInterval,
		limit:    defaultLimit,
		log:      log,
		cache:    make(map[string][]Candle),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch returns the most recent closes for symbol, oldest first. Candles
// refresh on the venue's own cadence, so repeated calls inside one candle
// return the same tail; callers must not assume freshness beyond that.
func (s *KlineSource) Fetch(ctx context.Context, symbol string) []Candle {
	for _, base := range []string{s.primary, s.fallback} {
		candles, err := s.fetchFrom(ctx, base, symbol)
		if err != nil {
			metrics.FetchFailures.WithLabelValues(base).Inc()
			s.log.Warn().Err(err).Str("base", base).Str("symbol", symbol).Msg("kline fetch failed")
			continue
		}
		s.mu.Lock()
		s.cache[symbol] = candles
		s.mu.Unlock()
		return candles
	}

	// Both endpoints down: serve the stale cache rather than failing.
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache[symbol]
}

func (s *KlineSource) fetchFrom(ctx context.Context, base, symbol string) ([]Candle, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol":   symbol,
			"interval": s.interval,
			"limit":    strconv.Itoa(s.limit),
		}).
		Get(base + "/api/v3/klines")
	if err != nil {
		return nil, fmt.Errorf("klines request: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode())
	}

	// Kline rows are heterogenous arrays; close and volume are the string
	// columns at indexes 4 and 5.
	var rows [][]any
	if err := json.Unmarshal(resp.Body(), &rows); err != nil {
		return nil, fmt.Errorf("decode klines: %w", err)
	}

	candles := make([]Candle, 0, len(rows))
	for _, row := range rows {
		if len(row) < 6 {
			continue
		}
		closeStr, ok := row[4].(string)
		if !ok {
			continue
		}
		closePx, err := strconv.ParseFloat(closeStr, 64)
		if err != nil || closePx <= 0 {
			continue
		}
		var volume float64
		if volStr, ok := row[5].(string); ok {
			volume, _ = strconv.ParseFloat(volStr, 64)
		}
		candles = append(candles, Candle{Close: closePx, Volume: volume})
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("no candles returned")
	}
	return candles, nil
}
