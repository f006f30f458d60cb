package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Gabru-xD/geo-rescue-optimizer/internal/config"
	"github.com/Gabru-xD/geo-rescue-optimizer/internal/db"
	httpapi "github.com/Gabru-xD/geo-rescue-optimizer/internal/http"
	"github.com/Gabru-xD/geo-rescue-optimizer/internal/http/handlers"
	"github.com/Gabru-xD/geo-rescue-optimizer/internal/insights"
	"github.com/Gabru-xD/geo-rescue-optimizer/internal/notify"
	"github.com/Gabru-xD/geo-rescue-optimizer/internal/seed"
	"github.com/Gabru-xD/geo-rescue-optimizer/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "geo-rescue-optimizer").Logger()

	ctx := context.Background()

	// The persistence backend is optional: without DATABASE_URL (or when the
	// connection fails) the store runs on seed data alone.
	var backend db.Backend
	var pinger handlers.Pinger
	if cfg.DatabaseURL != "" {
		pg, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Warn().Err(err).Msg("database unavailable, running in-memory only")
		} else {
			defer pg.Close()
			if err := pg.EnsureSchema(ctx); err != nil {
				logger.Warn().Err(err).Msg("schema setup failed, running in-memory only")
			} else {
				backend = pg
				pinger = pg
				logger.Info().Msg("connected to postgres")
			}
		}
	}

	notifiers := notify.Multi{notify.LogNotifier{Logger: logger}}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, notifications stay log-only")
		} else {
			defer rdb.Close()
			notifiers = append(notifiers, &notify.RedisNotifier{Client: rdb, Logger: logger})
			logger.Info().Msg("connected to redis")
		}
	}

	st := store.New(backend, notifiers, logger)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	st.Load(ctx, seed.Incidents(rng, cfg.SeedIncidents), seed.Resources())

	var ins insights.Adapter = insights.HeuristicAdapter{ModelVersion: "heuristic-1"}
	if cfg.InsightsURL != "" {
		ins = insights.HTTPAdapter{BaseURL: cfg.InsightsURL}
		logger.Info().Str("url", cfg.InsightsURL).Msg("using remote insights service")
	}

	router := httpapi.Router(cfg, st, pinger, ins, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}
