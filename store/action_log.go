package store

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/patentvault/patentvault/models"
)

// ActionLogStore appends and lists audit entries. Entries are append-only;
// there is deliberately no update or delete surface.
type ActionLogStore struct{ DB *gorm.DB }

func NewActionLogStore(db *gorm.DB) *ActionLogStore { return &ActionLogStore{DB: db} }

// Append inserts one entry, assigning id and server timestamp.
func (s *ActionLogStore) Append(ctx context.Context, entry models.ActionLogEntry) error {
	entry.ID = models.NewID()
	entry.CreatedAt = time.Now().UTC()
	if entry.Actor == "" {
		entry.Actor = "anonymous"
	}
	return s.DB.WithContext(ctx).Create(&entry).Error
}

// ActionLogFilter narrows List. Zero values mean no filtering.
type ActionLogFilter struct {
	Actor  string
	Action string
	Limit  int
}

// List returns entries newest first.
func (s *ActionLogStore) List(ctx context.Context, f ActionLogFilter) ([]models.ActionLogEntry, error) {
	q := s.DB.WithContext(ctx).Model(&models.ActionLogEntry{})
	if v := strings.TrimSpace(f.Actor); v != "" {
		q = q.Where("actor = ?", strings.ToLower(v))
	}
	if v := strings.TrimSpace(f.Action); v != "" {
		q = q.Where("action = ?", strings.ToUpper(v))
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}
	var entries []models.ActionLogEntry
	err := q.Order("created_at DESC").Limit(limit).Find(&entries).Error
	return entries, err
}
