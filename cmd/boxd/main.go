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

	"github.com/fjod/jazzys-box/internal/config"
	"github.com/fjod/jazzys-box/internal/engine"
	"github.com/fjod/jazzys-box/internal/events"
	h "github.com/fjod/jazzys-box/internal/http"
	"github.com/fjod/jazzys-box/internal/service"
	"github.com/fjod/jazzys-box/internal/store"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	ctx := context.Background()
	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("failed to open store")
	}
	defer closeStore()
	log.Info().Str("backend", cfg.StoreBackend).Msg("store ready")

	runCtx, stopRun := context.WithCancel(ctx)
	var observers []engine.Observer
	var publisher *events.Publisher
	publisherDone := make(chan struct{})
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewPublisher(events.NewKafkaWriter(cfg.EventsTopic, cfg.KafkaBrokers...), events.DefaultConfig())
		observers = append(observers, publisher)
		go func() {
			defer close(publisherDone)
			publisher.Run(runCtx)
		}()
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.EventsTopic).Msg("publishing box events")
	} else {
		close(publisherDone)
		log.Info().Msg("KAFKA_BROKERS not set, box events are not published")
	}

	svc, err := service.NewBoxService(st, cfg.EngineCacheSize, observers...)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create box service")
	}

	handler := h.NewBoxHandler(svc, cfg.RequestTimeout)
	router := h.NewRouter(handler, cfg.RequestTimeout, cfg.MaxRequestBodySize)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "boxd"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("boxd starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	stopRun()
	<-publisherDone
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close event writer")
		}
		if n := publisher.Dropped(); n > 0 {
			log.Warn().Int("dropped", n).Msg("box events dropped while buffer was full")
		}
	}

	log.Info().Msg("server exited")
}

// openStore connects the configured backend. The returned func releases it.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("redis connection failed: %w", err)
		}
		return store.NewRedisStore(client, cfg.KeyPrefix, cfg.BoxTTL), func() { client.Close() }, nil

	case config.BackendSQLite:
		s, err := store.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := s.RunMigrations(); err != nil {
			s.Close()
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil

	case config.BackendMongo:
		db, err := store.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			return nil, nil, err
		}
		s := store.NewMongoStore(db)
		if err := s.CreateIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to create mongo indexes")
		}
		return s, func() {
			if err := db.Client().Disconnect(context.Background()); err != nil {
				log.Error().Err(err).Msg("mongo disconnect failed")
			}
		}, nil

	case config.BackendMemory:
		return store.NewMemoryStore(cfg.KeyPrefix), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("%w: %s", store.ErrUnknownBackend, cfg.StoreBackend)
	}
}
