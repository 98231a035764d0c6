// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate queries used for
// conditional responses (weak ETags) on user-owned collections.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-health-backend/internal/domain"
)

// CollectionStats is the fingerprint of one user's rows in one table.
type CollectionStats struct {
	Count        int64
	MaxUpdatedAt *time.Time
}

// userStats counts the user's rows in model's table and finds the latest
// updated_at. When the user has no rows the count is 0 and MaxUpdatedAt nil.
func userStats(ctx context.Context, db *gorm.DB, model any, userID uint) (CollectionStats, error) {
	var st CollectionStats
	q := db.WithContext(ctx).Model(model).Where("user_id = ?", userID)

	if err := q.Count(&st.Count).Error; err != nil {
		return CollectionStats{}, err
	}
	if st.Count == 0 {
		return st, nil
	}

	// Latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err := db.WithContext(ctx).Model(model).Where("user_id = ?", userID).
		Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return CollectionStats{}, err
	}
	st.MaxUpdatedAt = &row.UpdatedAt
	return st, nil
}

// DocumentsStats fingerprints the user's documents.
func DocumentsStats(ctx context.Context, db *gorm.DB, userID uint) (CollectionStats, error) {
	return userStats(ctx, db, &domain.Document{}, userID)
}

// GoalsStats fingerprints the user's goals.
func GoalsStats(ctx context.Context, db *gorm.DB, userID uint) (CollectionStats, error) {
	return userStats(ctx, db, &domain.Goal{}, userID)
}
