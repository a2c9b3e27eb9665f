package cache

import (
	"context"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/dkhamitov/order-service/internal/domain"
)

// Memory is the in-process fallback used when no shared cache is configured.
// The expirable LRU enforces the same TTL the Redis adapter would.
type Memory struct {
	lru *expirable.LRU[string, []domain.Order]
}

func NewMemory(size int) *Memory {
	return &Memory{
		lru: expirable.NewLRU[string, []domain.Order](size, nil, TTL),
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]domain.Order, bool) {
	return m.lru.Get(key)
}

func (m *Memory) Set(_ context.Context, key string, orders []domain.Order) {
	m.lru.Add(key, orders)
}

func (m *Memory) Delete(_ context.Context, key string) {
	m.lru.Remove(key)
}

func (m *Memory) Ping(_ context.Context) error {
	return nil
}
