package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dkhamitov/order-service/internal/cache"
	"github.com/dkhamitov/order-service/internal/config"
	"github.com/dkhamitov/order-service/internal/events"
	"github.com/dkhamitov/order-service/internal/httpapi"
	"github.com/dkhamitov/order-service/internal/observability"
	"github.com/dkhamitov/order-service/internal/service"
	"github.com/dkhamitov/order-service/internal/storage/postgres"
)

// ordersCache pairs the service-facing cache operations with the health
// probe, so main can treat both implementations uniformly.
type ordersCache interface {
	service.Cache
	httpapi.Pinger
}

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.Connect(ctx, cfg.DSN(), logger)
	if err != nil {
		logger.Fatal("database connect failed", zap.Error(err))
	}
	defer pool.Close()
	repo := postgres.NewOrderRepository(pool)

	var orders ordersCache = cache.NewMemory(cfg.CacheCap)
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			// Serve store-only rather than fail startup; the next deploy or
			// restart picks Redis up again.
			logger.Warn("redis not available, using in-process cache", zap.Error(err))
			_ = client.Close()
		} else {
			logger.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
			orders = cache.NewRedis(client, logger)
			defer client.Close()
		}
	}

	var publisher service.Publisher = events.Noop{}
	if len(cfg.Kafka.Brokers) > 0 {
		kp := events.NewKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kp.Close()
		publisher = kp
		logger.Info("kafka publisher enabled",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic),
		)
	}

	metrics := observability.NewInmem(1000)
	svc := service.New(orders, repo, publisher, logger, metrics)
	server := httpapi.New(svc, orders, logger, metrics)

	logger.Info("order service listening", zap.String("addr", cfg.HTTPAddr))
	if err := server.ListenAndServe(ctx, cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("server stopped")
}
