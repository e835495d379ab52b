package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"

	"github.com/printhub-store/backend/internal/db"
	"github.com/printhub-store/backend/internal/repository"
)

// PricingConfigRepo reads the admin-maintained pricing configuration:
// delivery charge rule sets and the xerox option catalogs. Rule sets
// are validated on the admin surface; readers take them as-is.
type PricingConfigRepo struct {
	db db.DB
}

func NewPricingConfigRepo(db db.DB) *PricingConfigRepo {
	return &PricingConfigRepo{db: db}
}

func (r *PricingConfigRepo) GetDeliveryRules(ctx context.Context, ruleContext string) ([]*repository.DeliveryChargeRule, error) {
	var rules []*repository.DeliveryChargeRule
	err := r.db.Select(ctx, &rules,
		"SELECT * FROM delivery_charge_rules WHERE context = $1 ORDER BY from_amount ASC", ruleContext)
	if err != nil {
		return nil, fmt.Errorf("failed to get delivery rules for context %s: %w", ruleContext, err)
	}
	return rules, nil
}

func (r *PricingConfigRepo) GetPaperType(ctx context.Context, name string) (*repository.PaperType, error) {
	var paper repository.PaperType
	err := r.db.Get(ctx, &paper, "SELECT * FROM paper_types WHERE name = $1", name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &paper, nil
}

func (r *PricingConfigRepo) GetBindingOption(ctx context.Context, name string) (*repository.FinishingOption, error) {
	return r.getFinishingOption(ctx, "binding_options", name)
}

func (r *PricingConfigRepo) GetLaminationOption(ctx context.Context, name string) (*repository.FinishingOption, error) {
	return r.getFinishingOption(ctx, "lamination_options", name)
}

func (r *PricingConfigRepo) getFinishingOption(ctx context.Context, table, name string) (*repository.FinishingOption, error) {
	var option repository.FinishingOption
	err := r.db.Get(ctx, &option, fmt.Sprintf("SELECT * FROM %s WHERE name = $1", table), name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &option, nil
}
