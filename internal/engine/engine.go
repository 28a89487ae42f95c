// Package engine runs the scoring loop: it keeps per-asset price history
// warm, evaluates the active scorer on a fixed cadence, applies the risk
// gates, and hands emission batches to the publisher.
package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/clawdkrab/polymarket-signal-bot/internal/feed"
	"github.com/clawdkrab/polymarket-signal-bot/internal/metrics"
	"github.com/clawdkrab/polymarket-signal-bot/internal/publisher"
	"github.com/clawdkrab/polymarket-signal-bot/internal/risk"
	"github.com/clawdkrab/polymarket-signal-bot/internal/signal"
	"github.com/clawdkrab/polymarket-signal-bot/internal/strategy"
)

const bufferCapacity = 300

// CandleSource seeds and tops up price history over REST.
type CandleSource interface {
	Fetch(ctx context.Context, symbol string) []feed.Candle
}

// Options tunes loop cadences. Zero values pick production defaults.
type Options struct {
	EmitInterval time.Duration
	FinalizeLead time.Duration
	PollInterval time.Duration
}

func (o Options) withDefaults() Options {
	if o.EmitInterval <= 0 {
		o.EmitInterval = 30 * time.Second
	}
	if o.FinalizeLead <= 0 {
		o.FinalizeLead = 70 * time.Second
	}
	if o.PollInterval <= 0 {
		o.PollInterval = 5 * time.Second
	}
	return o
}

// Engine owns the per-asset buffers and the evaluate/gate/publish cycle.
type Engine struct {
	log     zerolog.Logger
	assets  []feed.Asset
	scorer  strategy.Scorer
	manager *risk.Manager
	state   *risk.State
	pub     *publisher.Publisher
	source  CandleSource
	buffers map[string]*signal.Buffer
	opts    Options
}

// New wires an engine. The candle source may be nil when running purely off
// the live stream.
func New(log zerolog.Logger, assets []feed.Asset, scorer strategy.Scorer, manager *risk.Manager, state *risk.State, pub *publisher.Publisher, source CandleSource, opts Options) *Engine {
	buffers := make(map[string]*signal.Buffer, len(assets))
	for _, a := range assets {
		buffers[a.Name] = signal.NewBuffer(bufferCapacity)
	}
	return &Engine{
		log:     log,
		assets:  assets,
		scorer:  scorer,
		manager: manager,
		state:   state,
		pub:     pub,
		source:  source,
		buffers: buffers,
		opts:    opts.withDefaults(),
	}
}

// Seed backfills every buffer from the candle source so scorers have enough
// history before the first live point arrives.
func (e *Engine) Seed(ctx context.Context) {
	if e.source == nil {
		return
	}
	for _, a := range e.assets {
		candles := e.source.Fetch(ctx, a.Symbol)
		if len(candles) == 0 {
			e.log.Warn().Str("asset", a.Name).Msg("no seed candles available")
			continue
		}
		// Candle rows carry no timestamps; synthesize a strictly increasing
		// sequence ending now so the buffer ordering rule holds.
		base := time.Now().UTC().Add(-time.Duration(len(candles)) * time.Minute)
		for i, c := range candles {
			e.buffers[a.Name].Append(signal.PricePoint{
				Asset:  a.Name,
				Price:  c.Close,
				Volume: c.Volume,
				Ts:     base.Add(time.Duration(i) * time.Minute),
			})
		}
		e.log.Info().Str("asset", a.Name).Int("candles", len(candles)).Msg("seeded price history")
	}
}

// Observe records one live price point.
func (e *Engine) Observe(p signal.PricePoint) {
	buf, ok := e.buffers[p.Asset]
	if !ok {
		return
	}
	buf.Append(p)
}

// Run drains the point channel and drives the emission cadences until the
// context is canceled.
func (e *Engine) Run(ctx context.Context, points <-chan signal.PricePoint) error {
	emit := time.NewTicker(e.opts.EmitInterval)
	defer emit.Stop()
	poll := time.NewTicker(e.opts.PollInterval)
	defer poll.Stop()
	// Finalize timing is checked every second so the lead offset is hit
	// within one tick.
	finalize := time.NewTicker(time.Second)
	defer finalize.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case p, ok := <-points:
			if !ok {
				return nil
			}
			e.Observe(p)
		case <-poll.C:
			e.topUp(ctx)
		case <-emit.C:
			e.emit(time.Now().UTC(), signal.KindRegular)
		case <-finalize.C:
			e.maybeFinalize(time.Now().UTC())
		}
	}
}

// topUp appends the latest candle close per asset so history keeps moving
// even when the stream is quiet.
func (e *Engine) topUp(ctx context.Context) {
	if e.source == nil {
		return
	}
	for _, a := range e.assets {
		candles := e.source.Fetch(ctx, a.Symbol)
		if len(candles) == 0 {
			continue
		}
		last := candles[len(candles)-1]
		e.buffers[a.Name].Append(signal.PricePoint{
			Asset:  a.Name,
			Price:  last.Close,
			Volume: last.Volume,
			Ts:     time.Now().UTC(),
		})
	}
}

// maybeFinalize emits the authoritative batch once per window, inside the
// lead interval before the next open.
func (e *Engine) maybeFinalize(now time.Time) {
	open := signal.NextWindowOpen(now)
	if open.Sub(now) > e.opts.FinalizeLead {
		return
	}
	if !e.pub.MarkFinalize(open) {
		return
	}
	e.emit(now, signal.KindFinalize)
	metrics.FinalizeTotal.Inc()
}

// emit evaluates every asset, applies the risk gates, and publishes the
// batch.
func (e *Engine) emit(now time.Time, kind signal.Kind) {
	batch := make(map[string]signal.Signal, len(e.assets))
	for _, a := range e.assets {
		sig := e.evaluate(a.Name, now, kind)
		batch[a.Name] = sig
		metrics.SignalsTotal.WithLabelValues(a.Name, string(sig.Direction)).Inc()
		metrics.ConfidenceGauge.WithLabelValues(a.Name).Set(float64(sig.Confidence))
		if kind == signal.KindFinalize {
			e.log.Info().
				Str("asset", a.Name).
				Str("direction", string(sig.Direction)).
				Int("confidence", sig.Confidence).
				Bool("ready", sig.Ready).
				Float64("size", sig.Size).
				Str("window", sig.EntryWindow).
				Msg("finalize signal")
		}
	}
	var err error
	if kind == signal.KindFinalize {
		err = e.pub.PublishFinalize(batch)
	} else {
		err = e.pub.Publish(batch)
	}
	if err != nil {
		e.log.Error().Err(err).Msg("failed to publish signals")
	}
}

// evaluate scores one asset and applies the risk gates to the verdict.
func (e *Engine) evaluate(asset string, now time.Time, kind signal.Kind) signal.Signal {
	buf := e.buffers[asset]
	verdict := e.scorer.Evaluate(buf.Prices(), buf.Volumes(), now)

	var price float64
	if last, ok := buf.Last(); ok {
		price = last.Price
	}
	open := signal.NextWindowOpen(now)

	out := signal.Signal{
		Asset:       asset,
		Direction:   verdict.Direction,
		Confidence:  verdict.Confidence,
		Price:       price,
		Ts:          now,
		EntryWindow: signal.EntryWindow(open),
		Kind:        kind,
		Reason:      verdict.Reason,
		Basis:       verdict.Basis,
	}
	if verdict.Direction == signal.NoTrade {
		return out
	}

	snap := e.state.Snapshot()
	e.manager.UpdatePeak(snap.Capital)
	ok, reason := e.manager.ShouldTrade(snap.Capital, verdict.Confidence, snap.DailyPnL)
	if !ok {
		out.Reason = reason
		return out
	}
	// Ready means actionable now: risk checks passed and the next open is
	// inside the lead interval. Regular emissions far from the boundary
	// carry the call but are not entry-ready.
	out.Ready = kind == signal.KindFinalize || open.Sub(now) <= e.opts.FinalizeLead
	out.Size = e.manager.PositionSize(snap.Capital, verdict.Confidence, snap.WinStreak, snap.LossStreak)
	// The scorer's tier hint is an upper bound, never an increase.
	if verdict.SizeHintPct > 0 {
		if hint := snap.Capital * verdict.SizeHintPct / 100; out.Size > hint {
			out.Size = hint
		}
	}
	return out
}
