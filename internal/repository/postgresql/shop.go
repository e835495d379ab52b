package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"github.com/printhub-store/backend/internal/db"
	"github.com/printhub-store/backend/internal/repository"
)

type ShopRepo struct {
	db db.DB
}

func NewShopRepo(db db.DB) *ShopRepo {
	return &ShopRepo{db: db}
}

func (r *ShopRepo) GetBySellerID(ctx context.Context, sellerID string) (*repository.Shop, error) {
	var shop repository.Shop
	err := r.db.Get(ctx, &shop, "SELECT * FROM shops WHERE seller_id = $1", sellerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &shop, nil
}

// GetMobileNumbersTx reads the shop contact numbers on the transition
// transaction so the notification row snapshot is consistent with it.
func (r *ShopRepo) GetMobileNumbersTx(ctx context.Context, tx db.Tx, sellerID string) ([]string, error) {
	var shop repository.Shop
	err := tx.Get(ctx, &shop, "SELECT * FROM shops WHERE seller_id = $1", sellerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// A missing shop record must not block the transition.
			return nil, nil
		}
		return nil, err
	}
	return shop.MobileNumbers, nil
}
