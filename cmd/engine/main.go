package main

import (
	"context"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/clawdkrab/polymarket-signal-bot/internal/config"
	"github.com/clawdkrab/polymarket-signal-bot/internal/engine"
	"github.com/clawdkrab/polymarket-signal-bot/internal/feed"
	"github.com/clawdkrab/polymarket-signal-bot/internal/metrics"
	"github.com/clawdkrab/polymarket-signal-bot/internal/publisher"
	"github.com/clawdkrab/polymarket-signal-bot/internal/risk"
	sig "github.com/clawdkrab/polymarket-signal-bot/internal/signal"
	"github.com/clawdkrab/polymarket-signal-bot/internal/strategy"
	"github.com/clawdkrab/polymarket-signal-bot/internal/util"
)

func main() {
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "internal/config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		boot := util.NewLogger("info")
		boot.Fatal().Err(err).Str("path", configPath).Msg("load config")
	}
	log := util.NewLogger(cfg.App.LogLevel)

	_ = metrics.Serve(cfg.App.MetricsAddr)
	log.Info().Str("addr", cfg.App.MetricsAddr).Msg("metrics up")

	ctx, cancel := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	stores := []publisher.Store{}
	fileStore, err := publisher.NewFileStore(cfg.Publisher.LatestPath)
	if err != nil {
		log.Fatal().Err(err).Msg("open snapshot store")
	}
	stores = append(stores, fileStore)
	if cfg.Publisher.RedisAddr != "" {
		redisStore := publisher.NewRedisStore(cfg.Publisher.RedisAddr, cfg.Publisher.RedisKey)
		defer redisStore.Close()
		stores = append(stores, redisStore)
	}
	pub, err := publisher.New(cfg.Publisher.HistoryPath, stores...)
	if err != nil {
		log.Fatal().Err(err).Msg("open history log")
	}
	defer pub.Close()
	if cfg.Publisher.ReadinessPath != "" {
		if err := pub.SetReadinessLog(cfg.Publisher.ReadinessPath); err != nil {
			log.Fatal().Err(err).Msg("open readiness log")
		}
	}

	sourceOpts := []feed.SourceOption{}
	if len(cfg.Feed.BaseURLs) >= 2 {
		sourceOpts = append(sourceOpts, feed.WithBaseURLs(cfg.Feed.BaseURLs[0], cfg.Feed.BaseURLs[1]))
	}
	if cfg.Feed.Interval != "" {
		sourceOpts = append(sourceOpts, feed.WithInterval(cfg.Feed.Interval))
	}
	if cfg.Feed.SeedLimit > 0 {
		sourceOpts = append(sourceOpts, feed.WithLimit(cfg.Feed.SeedLimit))
	}
	source := feed.NewKlineSource(log, sourceOpts...)

	stream := feed.NewStream(cfg.Feed.Provider, cfg.Feed.Assets, log)
	points := make(chan sig.PricePoint, 1024)
	go func() {
		if err := stream.Run(ctx, points); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("stream stopped")
			cancel()
		}
	}()

	scorer := strategy.Build(cfg.Strategy.Mode, strategy.Params{
		MinHistory: cfg.Strategy.Params.MinHistory,
		Threshold:  cfg.Strategy.Params.Threshold,
	})
	manager := risk.NewManager(cfg.Risk.InitialCapital, cfg.Risk.Limits)
	state := risk.NewState(cfg.Risk.InitialCapital)

	eng := engine.New(log, cfg.Feed.Assets, scorer, manager, state, pub, source, engine.Options{
		EmitInterval: cfg.Publisher.EmitInterval(),
		FinalizeLead: cfg.Publisher.FinalizeLead(),
		PollInterval: time.Duration(cfg.Feed.PollIntervalMS) * time.Millisecond,
	})
	eng.Seed(ctx)

	log.Info().
		Str("mode", scorer.Name()).
		Int("assets", len(cfg.Feed.Assets)).
		Msg("signal engine started")

	if err := eng.Run(ctx, points); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("engine stopped")
	}
	log.Info().Msg("shutting down")
}
