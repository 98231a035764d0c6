package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-health-backend/internal/domain"
)

// DefaultDocumentType is applied when a document is created without a type.
const DefaultDocumentType = "medical"

// CreateDocument inserts d. Documents are immutable after creation.
func CreateDocument(ctx context.Context, db *gorm.DB, d *domain.Document) error {
	if d.DocumentType == "" {
		d.DocumentType = DefaultDocumentType
	}
	return db.WithContext(ctx).Create(d).Error
}

// FindDocumentByID returns the user's document or nil.
func FindDocumentByID(ctx context.Context, db *gorm.DB, userID, id uint) (*domain.Document, error) {
	return findOne[domain.Document](db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID))
}

// FindDocumentsByUserID lists the user's documents newest first.
func FindDocumentsByUserID(ctx context.Context, db *gorm.DB, userID uint) ([]domain.Document, error) {
	out := []domain.Document{}
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").Order("id desc").
		Find(&out).Error
	return out, err
}
