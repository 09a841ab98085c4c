package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/patentvault/patentvault/models"
)

// EmailLogStore records outbound notification attempts.
type EmailLogStore struct{ DB *gorm.DB }

func NewEmailLogStore(db *gorm.DB) *EmailLogStore { return &EmailLogStore{DB: db} }

func (s *EmailLogStore) Append(ctx context.Context, entry models.EmailLog) error {
	if entry.ID == "" {
		entry.ID = models.NewID()
	}
	entry.CreatedAt = time.Now().UTC()
	return s.DB.WithContext(ctx).Create(&entry).Error
}

func (s *EmailLogStore) List(ctx context.Context, limit int) ([]models.EmailLog, error) {
	if limit <= 0 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}
	var entries []models.EmailLog
	err := s.DB.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&entries).Error
	return entries, err
}
