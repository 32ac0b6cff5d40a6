package mysql

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/ri4re/linebot/internal/domain"
	"github.com/ri4re/linebot/internal/repository"
)

const (
	defaultRecent = 20
	maxRecent     = 200
)

type journalRepo struct {
	db *gorm.DB
}

func NewJournalRepository(db *gorm.DB) repository.JournalRepository {
	return &journalRepo{db: db}
}

func (r *journalRepo) Save(ctx context.Context, entry *domain.CommandLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("journal: save: %w", err)
	}
	return nil
}

// Recent returns the newest entries first. limit is clamped to [1, 200]; zero or
// negative means the default of 20.
func (r *journalRepo) Recent(ctx context.Context, limit int) ([]domain.CommandLog, error) {
	switch {
	case limit <= 0:
		limit = defaultRecent
	case limit > maxRecent:
		limit = maxRecent
	}

	var out []domain.CommandLog
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("journal: recent: %w", err)
	}
	return out, nil
}
