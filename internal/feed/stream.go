package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/clawdkrab/polymarket-signal-bot/internal/metrics"
	"github.com/clawdkrab/polymarket-signal-bot/internal/signal"
)

const (
	// ProviderStub emits deterministic synthetic points (useful for tests/offline work).
	ProviderStub = "stub"
	// ProviderBinance streams live trades from Binance public websockets.
	ProviderBinance = "binance"

	binanceStreamURL = "wss://stream.binance.com:9443/stream?streams=%s"
)

// Asset pairs a logical asset name with its venue symbol.
type Asset struct {
	Name   string `yaml:"name"`
	Symbol string `yaml:"symbol"`
}

// Stream is a pluggable live market-data stream implementation.
type Stream struct {
	provider string
	assets   []Asset
	log      zerolog.Logger
}

// NewStream constructs a stream backed by the requested provider.
func NewStream(provider string, assets []Asset, log zerolog.Logger) *Stream {
	if provider == "" {
		provider = ProviderStub
	}
	return &Stream{
		provider: strings.ToLower(provider),
		assets:   assets,
		log:      log,
	}
}

// Run pushes price points onto the provided channel until the context is
// canceled.
func (s *Stream) Run(ctx context.Context, out chan<- signal.PricePoint) error {
	switch s.provider {
	case ProviderBinance:
		return s.runBinance(ctx, out)
	default:
		return s.runStub(ctx, out)
	}
}

func (s *Stream) runStub(ctx context.Context, out chan<- signal.PricePoint) error {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	px := 100.0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ts := <-ticker.C:
			px += 0.1
			for _, a := range s.assets {
				point := signal.PricePoint{Asset: a.Name, Price: px, Volume: 1, Ts: ts}
				select {
				case out <- point:
					metrics.PointsTotal.WithLabelValues(a.Name).Inc()
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
}

type binanceEnvelope struct {
	Stream string       `json:"stream"`
	Data   binanceTrade `json:"data"`
}

type binanceTrade struct {
	Price     string `json:"p"`
	Quantity  string `json:"q"`
	TradeTime int64  `json:"T"`
}

func (s *Stream) runBinance(ctx context.Context, out chan<- signal.PricePoint) error {
	if len(s.assets) == 0 {
		return fmt.Errorf("binance stream requires at least one asset")
	}

	streams := make([]string, len(s.assets))
	bySymbol := make(map[string]string, len(s.assets))
	for i, a := range s.assets {
		streams[i] = strings.ToLower(a.Symbol) + "@trade"
		bySymbol[strings.ToUpper(a.Symbol)] = a.Name
	}

	url := fmt.Sprintf(binanceStreamURL, strings.Join(streams, "/"))
	backoff := time.Second
	const maxBackoff = 30 * time.Second

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := s.consumeBinanceStream(ctx, url, bySymbol, out); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.log.Warn().Err(err).Msg("binance stream disconnected, retrying")
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
			backoff = time.Duration(math.Min(float64(maxBackoff), float64(backoff)*1.8))
			continue
		}
		return nil
	}
}

func (s *Stream) consumeBinanceStream(ctx context.Context, url string, bySymbol map[string]string, out chan<- signal.PricePoint) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	s.log.Info().Str("provider", ProviderBinance).Int("assets", len(s.assets)).Msg("connected market data stream")

	conn.SetReadLimit(1 << 20)
	conn.SetReadDeadline(time.Now().Add(30 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(30 * time.Second))
		return nil
	})

	pingCtx, pingCancel := context.WithCancel(ctx)
	defer pingCancel()
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					s.log.Warn().Err(err).Msg("binance ping failed")
					return
				}
			case <-pingCtx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var env binanceEnvelope
		if err := json.Unmarshal(message, &env); err != nil {
			s.log.Warn().Err(err).Msg("failed to decode binance message")
			continue
		}

		asset, ok := bySymbol[parseBinanceSymbol(env.Stream)]
		if !ok {
			continue
		}
		px, err := strconv.ParseFloat(env.Data.Price, 64)
		if err != nil || px <= 0 {
			s.log.Warn().Str("price", env.Data.Price).Msg("invalid price from binance")
			continue
		}
		qty, err := strconv.ParseFloat(env.Data.Quantity, 64)
		if err != nil {
			qty = 0
		}

		point := signal.PricePoint{
			Asset:  asset,
			Price:  px,
			Volume: qty,
			Ts:     time.UnixMilli(env.Data.TradeTime),
		}

		select {
		case out <- point:
			metrics.PointsTotal.WithLabelValues(asset).Inc()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func parseBinanceSymbol(stream string) string {
	parts := strings.Split(stream, "@")
	if len(parts) == 0 || parts[0] == "" {
		return strings.ToUpper(stream)
	}
	return strings.ToUpper(parts[0])
}
