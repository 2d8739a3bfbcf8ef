// Command concierge-service serves synchronous bundle construction,
// maintains the connection registry, runs the watch evaluator loop, and
// consumes deal.events into the deal cache.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iaros/concierge/internal/bundleengine"
	"github.com/iaros/concierge/internal/bus"
	"github.com/iaros/concierge/internal/cache"
	"github.com/iaros/concierge/internal/config"
	"github.com/iaros/concierge/internal/dealcache"
	"github.com/iaros/concierge/internal/httpapi"
	"github.com/iaros/concierge/internal/intent"
	"github.com/iaros/concierge/internal/logging"
	"github.com/iaros/concierge/internal/models"
	"github.com/iaros/concierge/internal/registry"
	"github.com/iaros/concierge/internal/store"
	"github.com/iaros/concierge/internal/upstream"
	"github.com/iaros/concierge/internal/watch"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Service:     "concierge-service",
		Environment: cfg.Environment,
		Format:      cfg.Logging.Format,
	})
	logging.InitGlobal(logger)

	st, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer st.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("redis connection failed, degrading to in-memory cache")
		redisClient = nil
	}

	var hotCache cache.Cache
	if redisClient != nil {
		hotCache = cache.NewRedisCache(redisClient, logger)
	} else {
		hotCache = cache.NewMemoryCache()
	}

	flightsClient := upstream.NewClient(upstream.Flights, cfg.Upstreams.FlightsBaseURL, cfg.UpstreamRequestTimeout, logger)
	hotelsClient := upstream.NewClient(upstream.Hotels, cfg.Upstreams.HotelsBaseURL, cfg.UpstreamRequestTimeout, logger)
	carsClient := upstream.NewClient(upstream.Cars, cfg.Upstreams.CarsBaseURL, cfg.UpstreamRequestTimeout, logger)

	deals := dealcache.New(st, hotCache, logger)
	engine := bundleengine.New(flightsClient, hotelsClient, carsClient, deals, hotCache, st, cfg.BundleLimit, logger)
	reg := registry.New(logger)
	intentClient := intent.New(cfg.Intent.BaseURL, cfg.Intent.Model, cfg.UpstreamRequestTimeout)

	evaluator := watch.New(st, deals, reg, cfg.WatchPollInterval, logger)
	evalCtx, cancelEval := context.WithCancel(context.Background())
	go evaluator.Run(evalCtx)

	consumerCtx, cancelConsumer := context.WithCancel(context.Background())
	if err := bus.ConnectWithRetry(consumerCtx, cfg.Bus.BootstrapServers, logger); err != nil {
		logger.WithError(err).Warn("bus unreachable at startup, continuing without event ingress")
	} else {
		consumer := bus.NewConsumer(cfg.Bus.BootstrapServers, cfg.Bus.DealsTopic, cfg.Bus.ConsumerGroup, logger)
		go func() {
			defer consumer.Close()
			if err := consumer.Run(consumerCtx, func(event models.DealEvent) error {
				return deals.UpsertDealEvent(event.ToDeal())
			}); err != nil {
				logger.WithError(err).Warn("deal.events consumer stopped")
			}
		}()
	}

	server := httpapi.New(engine, deals, reg, intentClient, st, logger)
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      server.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info(fmt.Sprintf("starting concierge-service on %s", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down concierge-service")

	cancelEval()
	cancelConsumer()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("server forced to shutdown")
	}

	logger.Info("concierge-service stopped")
}
