package store

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/patentvault/patentvault/models"
)

// PatentStore is the thin persistence wrapper around the portfolio records.
// The access-control engine treats it as an opaque collaborator; it exists so
// the permission gates protect something real.
type PatentStore struct{ DB *gorm.DB }

func NewPatentStore(db *gorm.DB) *PatentStore { return &PatentStore{DB: db} }

func (s *PatentStore) ListPatents(ctx context.Context) ([]models.Patent, error) {
	var patents []models.Patent
	err := s.DB.WithContext(ctx).Order("created_at DESC").Find(&patents).Error
	return patents, err
}

func (s *PatentStore) GetPatent(ctx context.Context, id string) (*models.Patent, error) {
	var p models.Patent
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// UpsertPatent inserts or fully replaces a record by id, matching the
// upsert-by-conflict-key semantic of the record store contract.
func (s *PatentStore) UpsertPatent(ctx context.Context, p models.Patent) (*models.Patent, error) {
	now := time.Now().UTC()
	if strings.TrimSpace(p.ID) == "" {
		p.ID = models.NewID()
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// BulkUpsert imports a batch, replacing records whose ids collide.
func (s *PatentStore) BulkUpsert(ctx context.Context, patents []models.Patent) (int, error) {
	count := 0
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		for i := range patents {
			if strings.TrimSpace(patents[i].ID) == "" {
				patents[i].ID = models.NewID()
				patents[i].CreatedAt = now
			}
			patents[i].UpdatedAt = now
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).Create(&patents[i]).Error; err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *PatentStore) DeletePatent(ctx context.Context, id string) error {
	res := s.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Patent{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *PatentStore) CountPatents(ctx context.Context) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&models.Patent{}).Count(&n).Error
	return n, err
}
