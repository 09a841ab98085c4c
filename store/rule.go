package store

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/patentvault/patentvault/identity"
	"github.com/patentvault/patentvault/models"
)

// RuleStore persists access rules. Values are normalized before storage and
// alias-mirrored: creating or deleting a rule for one form of an aliased
// identity always creates or deletes the parallel rule for the other form.
type RuleStore struct {
	DB   *gorm.DB
	Norm *identity.Normalizer
}

func NewRuleStore(db *gorm.DB, norm *identity.Normalizer) *RuleStore {
	return &RuleStore{DB: db, Norm: norm}
}

// CreateRule inserts rule and, when its value has an alias form, the mirrored
// twin in the same transaction. Returns all inserted rules.
func (s *RuleStore) CreateRule(ctx context.Context, rule models.AccessRule) ([]models.AccessRule, error) {
	rule.Value = strings.ToLower(strings.TrimSpace(rule.Value))
	rule.Kind = strings.ToUpper(strings.TrimSpace(rule.Kind))
	rule.Role = strings.ToUpper(strings.TrimSpace(rule.Role))
	if rule.Value == "" || rule.Role == "" {
		return nil, gorm.ErrInvalidData
	}
	if rule.Kind != models.RuleKindEmail && rule.Kind != models.RuleKindDomain {
		return nil, gorm.ErrInvalidData
	}

	now := time.Now().UTC()
	rule.ID = models.NewID()
	rule.CreatedAt = now
	inserts := []models.AccessRule{rule}

	if alt, ok := s.mirrorValue(rule.Kind, rule.Value); ok {
		twin := rule
		twin.ID = models.NewID()
		twin.Value = alt
		inserts = append(inserts, twin)
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range inserts {
			if err := tx.Create(&inserts[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inserts, nil
}

// DeleteRule removes the rule with the given id together with its mirrored
// twin (same role and kind, alias value), in one transaction.
func (s *RuleStore) DeleteRule(ctx context.Context, id string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rule models.AccessRule
		if err := tx.Where("id = ?", id).First(&rule).Error; err != nil {
			return err
		}
		values := []string{rule.Value}
		if alt, ok := s.mirrorValue(rule.Kind, rule.Value); ok {
			values = append(values, alt)
		}
		return tx.Where("value IN ? AND kind = ? AND role = ?", values, rule.Kind, rule.Role).
			Delete(&models.AccessRule{}).Error
	})
}

// ListRules returns all rules, newest first.
func (s *RuleStore) ListRules(ctx context.Context) ([]models.AccessRule, error) {
	var rules []models.AccessRule
	err := s.DB.WithContext(ctx).Order("created_at DESC").Find(&rules).Error
	return rules, err
}

// FindEmailRule returns the newest EMAIL rule for the canonical value, or
// gorm.ErrRecordNotFound.
func (s *RuleStore) FindEmailRule(ctx context.Context, value string) (*models.AccessRule, error) {
	return s.findRule(ctx, models.RuleKindEmail, value)
}

// FindDomainRule returns the newest DOMAIN rule for the domain, or
// gorm.ErrRecordNotFound.
func (s *RuleStore) FindDomainRule(ctx context.Context, domain string) (*models.AccessRule, error) {
	return s.findRule(ctx, models.RuleKindDomain, domain)
}

func (s *RuleStore) findRule(ctx context.Context, kind, value string) (*models.AccessRule, error) {
	var rule models.AccessRule
	err := s.DB.WithContext(ctx).
		Where("kind = ? AND value = ?", kind, strings.ToLower(strings.TrimSpace(value))).
		Order("created_at DESC").
		First(&rule).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

// CountByRole reports how many rules still reference a role name.
func (s *RuleStore) CountByRole(ctx context.Context, role string) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&models.AccessRule{}).
		Where("role = ?", strings.ToUpper(strings.TrimSpace(role))).
		Count(&n).Error
	return n, err
}

// GroupedRules is the administrative view: rules grouped by value, with the
// role the login-time resolver would pick for that value marked as effective.
// A value carrying several rules means the identity holds several roles; the
// effective role for session purposes is always the newest rule's role.
func (s *RuleStore) GroupedRules(ctx context.Context) ([]models.RuleGroup, error) {
	rules, err := s.ListRules(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[string]int)
	var groups []models.RuleGroup
	for _, r := range rules {
		i, seen := index[r.Value]
		if !seen {
			index[r.Value] = len(groups)
			groups = append(groups, models.RuleGroup{
				Value:     r.Value,
				Kind:      r.Kind,
				Effective: r.Role, // list is newest-first
			})
			i = len(groups) - 1
		}
		groups[i].Rules = append(groups[i].Rules, r)
		groups[i].Roles = appendUnique(groups[i].Roles, r.Role)
	}
	return groups, nil
}

func (s *RuleStore) mirrorValue(kind, value string) (string, bool) {
	if s.Norm == nil {
		return "", false
	}
	if kind == models.RuleKindDomain {
		return s.Norm.MirrorDomain(value)
	}
	return s.Norm.Mirror(value)
}

func appendUnique(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}
