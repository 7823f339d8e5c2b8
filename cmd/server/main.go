package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"roomboard/internal/api"
	"roomboard/internal/bot"
	"roomboard/internal/config"
	"roomboard/internal/events"
	"roomboard/internal/iisapi"
	"roomboard/internal/loader"
	"roomboard/internal/metrics"
	"roomboard/internal/store"
	"roomboard/internal/timetable"
)

func main() {
	// Initialize logger
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("ROOMBOARD_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	slots, err := timetable.ParseSlots(cfg.Institution.TimeSlots)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid time slots in config")
	}
	var dayNames timetable.DayNames
	copy(dayNames[:], cfg.Institution.DayNames)
	aggregator := timetable.NewAggregator(slots, dayNames, timetable.TypeCategories(cfg.Institution.TypeMap))

	db, err := store.New(cfg.Database.Path, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open snapshot store error")
	}
	defer db.Close()

	client := iisapi.New(cfg.IIS.BaseURL, cfg.IISTimeout())
	var rdb *redis.Client
	if cfg.Redis.Address != "" && cfg.CacheTTL() > 0 {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Address, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		client.UseRedisCache(rdb, cfg.CacheTTL())
	}

	metrics.Register()

	bus := events.NewBus()
	holder := loader.NewSnapshotHolder()
	ldr := loader.New(client, loader.Config{
		Workers:       cfg.Fetch.Workers,
		RatePerSecond: cfg.Fetch.RatePerSecond,
		Burst:         cfg.Fetch.Burst,
	}, bus, &logger)
	refresher := loader.NewRefresher(ldr, holder, db, &logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Serve the last persisted snapshot while the fresh fetch runs.
	if snap, err := db.LoadLatest(ctx); err == nil {
		holder.Set(snap)
		logger.Info().Str("snapshot_id", snap.ID).Time("fetched_at", snap.FetchedAt).
			Msg("restored persisted snapshot")
	} else if !errors.Is(err, store.ErrNoSnapshot) {
		logger.Warn().Err(err).Msg("restore persisted snapshot failed")
	}

	go func() {
		loadCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
		defer cancel()
		if err := refresher.RefreshNow(loadCtx); err != nil {
			logger.Error().Err(err).Msg("initial snapshot load failed")
			return
		}
		if err := db.Prune(ctx, cfg.Database.KeepSnapshots); err != nil {
			logger.Warn().Err(err).Msg("prune snapshots failed")
		}
	}()

	if err := refresher.Start(ctx, cfg.Fetch.RefreshCron); err != nil {
		logger.Fatal().Err(err).Msg("start refresher error")
	}

	go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, db, rdb, holder, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	if cfg.Telegram.Enabled {
		tgBot, err := bot.New(
			cfg.Telegram.BotToken,
			cfg.Telegram.Debug,
			holder,
			aggregator,
			dayNames,
			cfg.Institution.Rooms,
			cfg.Telegram.Managers,
			&logger,
		)
		if err != nil {
			logger.Fatal().Err(err).Msg("create bot error")
		}
		tgBot.SubscribeReloads(bus)
		go tgBot.Start(ctx)
	}

	server := api.NewServer(holder, aggregator, dayNames, cfg.Institution.Rooms, &logger)
	logger.Info().Msg("roomboard started")
	if err := server.Run(ctx, cfg.HTTP.Port); err != nil {
		logger.Fatal().Err(err).Msg("api server error")
	}
}

func startHealthServer(ctx context.Context, port int, db *store.Store, rdb *redis.Client, holder *loader.SnapshotHolder, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		ctxPing, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := db.PingContext(ctxPing); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		if rdb != nil {
			if err := rdb.Ping(ctxPing).Err(); err != nil {
				http.Error(w, "redis not ready", http.StatusServiceUnavailable)
				return
			}
		}
		if holder.Get() == nil {
			http.Error(w, "no schedule snapshot yet", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("health server error")
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
