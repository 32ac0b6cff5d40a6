package repository

import (
	"context"

	"github.com/ri4re/linebot/internal/domain"
)

// MaxQueryResults bounds how many orders a single query pages through.
const MaxQueryResults = 500

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	// FindIDByShortID returns "" and a nil error when no order carries the short id.
	FindIDByShortID(ctx context.Context, shortID string) (string, error)
	Retrieve(ctx context.Context, id string) (*domain.Order, error)
	Update(ctx context.Context, id string, patch domain.OrderPatch) (*domain.Order, error)
	// Query returns matches ordered by last edit, newest first.
	Query(ctx context.Context, filter *Filter) ([]domain.Order, error)
}

type JournalRepository interface {
	Save(ctx context.Context, entry *domain.CommandLog) error
	Recent(ctx context.Context, limit int) ([]domain.CommandLog, error)
}
