package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ri4re/linebot/internal/domain"
	"github.com/ri4re/linebot/internal/repository"
)

type MockOrderRepository struct {
	mock.Mock
}

type MockJournalRepository struct {
	mock.Mock
}

type MockMessenger struct {
	mock.Mock
}

type MockPublisher struct {
	mock.Mock
}

type MockCacheStore struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindIDByShortID(ctx context.Context, shortID string) (string, error) {
	args := m.Called(ctx, shortID)
	return args.String(0), args.Error(1)
}

func (m *MockOrderRepository) Retrieve(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) Update(ctx context.Context, id string, patch domain.OrderPatch) (*domain.Order, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) Query(ctx context.Context, filter *repository.Filter) ([]domain.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockJournalRepository) Save(ctx context.Context, entry *domain.CommandLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalRepository) Recent(ctx context.Context, limit int) ([]domain.CommandLog, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CommandLog), args.Error(1)
}

func (m *MockMessenger) Reply(ctx context.Context, replyToken, text string) error {
	args := m.Called(ctx, replyToken, text)
	return args.Error(0)
}

func (m *MockMessenger) DisplayName(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, data any) error {
	args := m.Called(ctx, routingKey, data)
	return args.Error(0)
}

func (m *MockCacheStore) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockCacheStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}
