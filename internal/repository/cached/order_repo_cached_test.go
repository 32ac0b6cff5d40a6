package cached

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ri4re/linebot/internal/domain"
	"github.com/ri4re/linebot/internal/mocks"
)

const ttl = 10 * time.Minute

func TestOrderRepo_FindIDByShortID(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		shortID    string
		setupMocks func(inner *mocks.MockOrderRepository, store *mocks.MockCacheStore)
		want       string
		wantErr    bool
	}{
		{
			name:    "cache hit skips the store",
			shortID: "#7",
			setupMocks: func(inner *mocks.MockOrderRepository, store *mocks.MockCacheStore) {
				store.On("Get", ctx, "orders:shortid:7").Return("page-7", true, nil)
			},
			want: "page-7",
		},
		{
			name:    "miss fills the cache",
			shortID: "７",
			setupMocks: func(inner *mocks.MockOrderRepository, store *mocks.MockCacheStore) {
				store.On("Get", ctx, "orders:shortid:7").Return("", false, nil)
				inner.On("FindIDByShortID", ctx, "７").Return("page-7", nil)
				store.On("Set", ctx, "orders:shortid:7", "page-7", ttl).Return(nil)
			},
			want: "page-7",
		},
		{
			name:    "not found is not cached",
			shortID: "9",
			setupMocks: func(inner *mocks.MockOrderRepository, store *mocks.MockCacheStore) {
				store.On("Get", ctx, "orders:shortid:9").Return("", false, nil)
				inner.On("FindIDByShortID", ctx, "9").Return("", nil)
			},
			want: "",
		},
		{
			name:    "cache read error falls through",
			shortID: "3",
			setupMocks: func(inner *mocks.MockOrderRepository, store *mocks.MockCacheStore) {
				store.On("Get", ctx, "orders:shortid:3").Return("", false, errors.New("connection refused"))
				inner.On("FindIDByShortID", ctx, "3").Return("page-3", nil)
				store.On("Set", ctx, "orders:shortid:3", "page-3", ttl).Return(errors.New("connection refused"))
			},
			want: "page-3",
		},
		{
			name:    "store error propagates",
			shortID: "4",
			setupMocks: func(inner *mocks.MockOrderRepository, store *mocks.MockCacheStore) {
				store.On("Get", ctx, "orders:shortid:4").Return("", false, nil)
				inner.On("FindIDByShortID", ctx, "4").Return("", errors.New("boom"))
			},
			wantErr: true,
		},
		{
			name:    "no digits bypasses the cache",
			shortID: "abc",
			setupMocks: func(inner *mocks.MockOrderRepository, store *mocks.MockCacheStore) {
				inner.On("FindIDByShortID", ctx, "abc").Return("", nil)
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := new(mocks.MockOrderRepository)
			store := new(mocks.MockCacheStore)
			tt.setupMocks(inner, store)

			repo := NewOrderRepository(inner, store, ttl, nil)
			got, err := repo.FindIDByShortID(ctx, tt.shortID)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			inner.AssertExpectations(t)
			store.AssertExpectations(t)
		})
	}
}

func TestOrderRepo_CreatePrimesCache(t *testing.T) {
	ctx := context.Background()
	inner := new(mocks.MockOrderRepository)
	store := new(mocks.MockCacheStore)

	in := &domain.Order{Customer: "Alice"}
	inner.On("Create", ctx, in).Return(&domain.Order{ID: "page-12", ShortID: 12}, nil)
	store.On("Set", ctx, "orders:shortid:12", "page-12", ttl).Return(nil)

	repo := NewOrderRepository(inner, store, ttl, nil)
	got, err := repo.Create(ctx, in)

	assert.NoError(t, err)
	assert.Equal(t, "page-12", got.ID)
	inner.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestOrderRepo_DelegatesOtherCalls(t *testing.T) {
	ctx := context.Background()
	inner := new(mocks.MockOrderRepository)
	store := new(mocks.MockCacheStore)

	inner.On("Retrieve", ctx, "page-1").Return(&domain.Order{ID: "page-1"}, nil)
	inner.On("Query", ctx, mock.Anything).Return([]domain.Order{}, nil)

	repo := NewOrderRepository(inner, store, ttl, nil)
	_, err := repo.Retrieve(ctx, "page-1")
	assert.NoError(t, err)
	_, err = repo.Query(ctx, nil)
	assert.NoError(t, err)

	inner.AssertExpectations(t)
	store.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}
