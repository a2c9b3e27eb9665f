package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dkhamitov/order-service/internal/cache"
	"github.com/dkhamitov/order-service/internal/domain"
	"github.com/dkhamitov/order-service/internal/observability"
)

//go:generate mockgen -source=service.go -destination=service_mock_test.go -package=service

// Cache is the best-effort order-list projection. Implementations absorb
// their own failures: Get misses, Set and Delete no-op.
type Cache interface {
	Get(ctx context.Context, key string) ([]domain.Order, bool)
	Set(ctx context.Context, key string, orders []domain.Order)
	Delete(ctx context.Context, key string)
}

type Storage interface {
	Create(ctx context.Context, userID int64, total decimal.Decimal, items []domain.NewItem) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	GetByID(ctx context.Context, orderID int64) (*domain.Order, []domain.OrderItem, error)
}

type Publisher interface {
	OrderCreated(ctx context.Context, order *domain.Order) error
}

type Service struct {
	cache     Cache
	storage   Storage
	publisher Publisher
	logger    *zap.Logger
	metrics   observability.Metrics
}

func New(cache Cache, storage Storage, publisher Publisher, logger *zap.Logger, metrics observability.Metrics) *Service {
	return &Service{
		cache:     cache,
		storage:   storage,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// CreateWithStats validates the cart, computes the total and persists the
// order atomically. The cache invalidation and the event publish run after
// commit and never fail the write.
func (s *Service) CreateWithStats(ctx context.Context, userID int64, items []domain.NewItem) (*domain.Order, CreateStats, error) {
	var st CreateStats

	if err := domain.ValidateItems(items); err != nil {
		return nil, st, err
	}

	total := domain.Total(items)

	t0 := time.Now()
	order, err := s.storage.Create(ctx, userID, total, items)
	if err != nil {
		s.logger.Error("order create failed",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return nil, st, fmt.Errorf("create order: %w", err)
	}
	st.DBWriteMs = convertToMs(t0)

	// The order is durable from here on. Stale cached lists are bounded by
	// the entry TTL even if this delete is lost.
	s.cache.Delete(ctx, cache.Key(userID))

	tPub := time.Now()
	if err := s.publisher.OrderCreated(ctx, order); err != nil {
		s.metrics.ObservePublish(convertToMs(tPub), false)
		s.logger.Warn("order-created publish failed",
			zap.Int64("order_id", order.ID),
			zap.Error(err),
		)
	} else {
		s.metrics.ObservePublish(convertToMs(tPub), true)
	}

	s.metrics.ObserveCreate(st.DBWriteMs)
	s.logger.Info("order created",
		zap.Int64("order_id", order.ID),
		zap.Int64("user_id", userID),
		zap.String("total_amount", order.TotalAmount.String()),
		zap.Int("items", len(items)),
		zap.Float64("db_write_ms", st.DBWriteMs),
	)

	return order, st, nil
}

func (s *Service) Create(ctx context.Context, userID int64, items []domain.NewItem) (*domain.Order, error) {
	order, _, err := s.CreateWithStats(ctx, userID, items)
	return order, err
}

// ListByUserWithStats serves the user's order history from the cache when a
// fresh entry exists, otherwise from the database. Empty results are not
// cached so a user's first order shows up immediately.
func (s *Service) ListByUserWithStats(ctx context.Context, userID int64) ([]domain.Order, ListStats, error) {
	var st ListStats
	key := cache.Key(userID)

	tCache := time.Now()
	if orders, ok := s.cache.Get(ctx, key); ok {
		st.Source = SourceCache
		st.CacheMs = convertToMs(tCache)
		s.metrics.IncCacheHit()
		s.metrics.ObserveList(string(st.Source), st.CacheMs, 0)

		s.logger.Info("orders listed from cache",
			zap.Int64("user_id", userID),
			zap.Int("count", len(orders)),
			zap.Float64("cache_ms", st.CacheMs),
		)
		return orders, st, nil
	}

	s.metrics.IncCacheMiss()
	st.CacheMs = convertToMs(tCache)

	tDB := time.Now()
	orders, err := s.storage.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("orders list failed",
			zap.Int64("user_id", userID),
			zap.Error(err),
			zap.Float64("cache_ms", st.CacheMs),
		)
		return nil, st, fmt.Errorf("list orders: %w", err)
	}

	st.Source = SourceDB
	st.DBMs = convertToMs(tDB)

	if len(orders) > 0 {
		s.cache.Set(ctx, key, orders)
	}

	s.metrics.ObserveList(string(st.Source), st.CacheMs, st.DBMs)
	s.logger.Info("orders listed from database",
		zap.Int64("user_id", userID),
		zap.Int("count", len(orders)),
		zap.Float64("cache_ms", st.CacheMs),
		zap.Float64("db_ms", st.DBMs),
	)

	return orders, st, nil
}

func (s *Service) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	orders, _, err := s.ListByUserWithStats(ctx, userID)
	return orders, err
}

// GetByID always reads the database; single-order lookups bypass the cache.
// A missing order is a normal outcome, not an error to log.
func (s *Service) GetByID(ctx context.Context, orderID int64) (*domain.Order, []domain.OrderItem, error) {
	return s.storage.GetByID(ctx, orderID)
}
