// Package seed provisions the data a fresh installation needs before the
// first login: the built-in roles, the bootstrap admin rule, and sample
// portfolio records when the patent table is empty.
package seed

import (
	"context"
	"errors"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/patentvault/patentvault/identity"
	"github.com/patentvault/patentvault/models"
	"github.com/patentvault/patentvault/permission"
	"github.com/patentvault/patentvault/store"
)

// Options configures seeding.
type Options struct {
	// BootstrapAdminEmail receives an EMAIL/ADMIN rule (mirrored across alias
	// domains) when no rule for it exists yet. Empty skips the rule.
	BootstrapAdminEmail string
	// SamplePatents inserts demo records when the patents table is empty.
	SamplePatents bool
}

// Run is idempotent: existing roles, rules and records are left untouched.
func Run(ctx context.Context, db *gorm.DB, norm *identity.Normalizer, opts Options) error {
	roles := store.NewRoleStore(db)
	rules := store.NewRuleStore(db, norm)
	patents := store.NewPatentStore(db)

	if err := ensureRole(ctx, roles, models.RoleAdmin, adminKeys(), "Full access to every feature"); err != nil {
		return err
	}
	if err := ensureRole(ctx, roles, models.RoleUser, userKeys(), "Read-only portfolio access"); err != nil {
		return err
	}

	if email := strings.TrimSpace(opts.BootstrapAdminEmail); email != "" {
		if err := ensureAdminRule(ctx, rules, norm, email); err != nil {
			return err
		}
	}

	if opts.SamplePatents {
		if err := ensureSamplePatents(ctx, patents); err != nil {
			return err
		}
	}
	return nil
}

func ensureRole(ctx context.Context, roles *store.RoleStore, name string, keys []string, desc string) error {
	_, err := roles.CreateRole(ctx, name, keys, desc)
	if errors.Is(err, store.ErrDuplicateRole) {
		return nil
	}
	return err
}

func ensureAdminRule(ctx context.Context, rules *store.RuleStore, norm *identity.Normalizer, email string) error {
	canonical := norm.Normalize(email)
	if _, err := rules.FindEmailRule(ctx, canonical); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	created, err := rules.CreateRule(ctx, models.AccessRule{
		Value:       canonical,
		Kind:        models.RuleKindEmail,
		Role:        models.RoleAdmin,
		Description: "bootstrap administrator",
	})
	if err != nil {
		return err
	}
	log.Printf("[seed] bootstrap admin rule created for %s (%d forms)", canonical, len(created))
	return nil
}

func ensureSamplePatents(ctx context.Context, patents *store.PatentStore) error {
	n, err := patents.CountPatents(ctx)
	if err != nil || n > 0 {
		return err
	}
	_, err = patents.BulkUpsert(ctx, samplePatents())
	if err == nil {
		log.Printf("[seed] sample patents inserted")
	}
	return err
}

func adminKeys() []string {
	keys := permission.AllKeys()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = string(k)
	}
	return out
}

func userKeys() []string {
	return []string{
		string(permission.ViewDashboard),
		string(permission.ViewList),
		string(permission.AIChat),
	}
}

func samplePatents() []models.Patent {
	return []models.Patent{
		{
			ID:          "sample-1",
			Name:        "High-efficiency solar cell structure",
			Patentee:    "Photon Innovations Inc.",
			Country:     "TW",
			Status:      models.PatentStatusActive,
			Type:        models.PatentTypeInvention,
			AppNumber:   "112100123",
			PubNumber:   "I1234567",
			AppDate:     "2023-01-15",
			PubDate:     "2023-08-20",
			Duration:    "2023-01-15 ~ 2043-01-15",
			AnnuityDate: "2024-01-15",
			AnnuityYear: 2,
			Inventor:    "M. Wang, D. Lee",
		},
		{
			ID:          "sample-2",
			Name:        "Foldable device hinge",
			Patentee:    "Future Tech Inc.",
			Country:     "US",
			Status:      models.PatentStatusActive,
			Type:        models.PatentTypeInvention,
			AppNumber:   "17/890,123",
			PubNumber:   "US-2023-0123456-A1",
			AppDate:     "2022-05-10",
			PubDate:     "2023-11-12",
			Duration:    "2022-05-10 ~ 2042-05-10",
			AnnuityDate: "2024-05-10",
			AnnuityYear: 3,
			Inventor:    "J. Smith, S. Johnson",
		},
		{
			ID:          "sample-3",
			Name:        "Beverage holder improvement",
			Patentee:    "Lifestyle Goods Ltd.",
			Country:     "JP",
			Status:      models.PatentStatusExpired,
			Type:        models.PatentTypeUtility,
			AppNumber:   "2018-001234",
			PubNumber:   "JP-3210987-U",
			AppDate:     "2018-03-20",
			PubDate:     "2018-09-15",
			Duration:    "2018-03-20 ~ 2028-03-20",
			AnnuityDate: "2023-03-20",
			AnnuityYear: 6,
			Inventor:    "T. Tanaka",
		},
	}
}
