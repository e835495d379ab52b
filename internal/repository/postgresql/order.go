package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"

	"github.com/printhub-store/backend/internal/db"
	"github.com/printhub-store/backend/internal/repository"
)

type OrderRepo struct {
	db db.DB
}

func NewOrderRepo(db db.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

const orderColumns = `
        id, group_id, user_id, seller_id, category, product_name, product_image,
        quantity, price, delivery_charge, is_delivery_fee_paid,
        shipping_address, mobile, alt_mobiles, status,
        return_type, return_reason, cancellation_reason, rejection_reason, xerox_config,
        ordered_at, confirmed_at, packed_at, shipped_at, out_for_delivery_at, delivered_at,
        return_requested_at, return_approved_at, out_for_pickup_at, picked_up_at,
        return_completed_at, replacement_confirmed_at, replacement_completed_at, expected_delivery_at,
        created_at, updated_at`

func orderArgs(o *repository.Order) []interface{} {
	return []interface{}{
		o.ID, o.GroupID, o.UserID, o.SellerID, o.Category, o.ProductName, o.ProductImage,
		o.Quantity, o.Price, o.DeliveryCharge, o.IsDeliveryFeePaid,
		o.ShippingAddress, o.Mobile, o.AltMobiles, o.Status,
		o.ReturnType, o.ReturnReason, o.CancellationReason, o.RejectionReason, o.XeroxConfig,
		o.OrderedAt, o.ConfirmedAt, o.PackedAt, o.ShippedAt, o.OutForDeliveryAt, o.DeliveredAt,
		o.ReturnRequestedAt, o.ReturnApprovedAt, o.OutForPickupAt, o.PickedUpAt,
		o.ReturnCompletedAt, o.ReplacementConfirmedAt, o.ReplacementCompletedAt, o.ExpectedDeliveryAt,
		o.CreatedAt, o.UpdatedAt,
	}
}

func placeholders(n int) string {
	out := ""
	for i := 1; i <= n; i++ {
		if i > 1 {
			out += ", "
		}
		out += fmt.Sprintf("$%d", i)
	}
	return out
}

var insertOrderQuery = fmt.Sprintf(
	"INSERT INTO orders (%s) VALUES (%s)", orderColumns, placeholders(36))

func (r *OrderRepo) Create(ctx context.Context, order *repository.Order) error {
	_, err := r.db.Exec(ctx, insertOrderQuery, orderArgs(order)...)
	return err
}

func (r *OrderRepo) CreateTx(ctx context.Context, tx db.Tx, order *repository.Order) error {
	_, err := tx.Exec(ctx, insertOrderQuery, orderArgs(order)...)
	return err
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*repository.Order, error) {
	var order repository.Order
	err := r.db.Get(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &order, nil
}

// GetByIDTx locks the order row for the duration of the transaction.
// Status transitions must read through here so two actors cannot race
// each other past a guard.
func (r *OrderRepo) GetByIDTx(ctx context.Context, tx db.Tx, id string) (*repository.Order, error) {
	var order repository.Order
	err := tx.Get(ctx, &order, "SELECT * FROM orders WHERE id = $1 FOR UPDATE", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &order, nil
}

const updateOrderQuery = `
        UPDATE orders
        SET
            product_image = $1,
            is_delivery_fee_paid = $2,
            status = $3,
            return_type = $4,
            return_reason = $5,
            cancellation_reason = $6,
            rejection_reason = $7,
            confirmed_at = $8,
            packed_at = $9,
            shipped_at = $10,
            out_for_delivery_at = $11,
            delivered_at = $12,
            return_requested_at = $13,
            return_approved_at = $14,
            out_for_pickup_at = $15,
            picked_up_at = $16,
            return_completed_at = $17,
            replacement_confirmed_at = $18,
            replacement_completed_at = $19,
            expected_delivery_at = $20,
            updated_at = $21
        WHERE id = $22`

func updateOrderArgs(o *repository.Order) []interface{} {
	return []interface{}{
		o.ProductImage, o.IsDeliveryFeePaid, o.Status,
		o.ReturnType, o.ReturnReason, o.CancellationReason, o.RejectionReason,
		o.ConfirmedAt, o.PackedAt, o.ShippedAt, o.OutForDeliveryAt, o.DeliveredAt,
		o.ReturnRequestedAt, o.ReturnApprovedAt, o.OutForPickupAt, o.PickedUpAt,
		o.ReturnCompletedAt, o.ReplacementConfirmedAt, o.ReplacementCompletedAt, o.ExpectedDeliveryAt,
		o.UpdatedAt, o.ID,
	}
}

// Update writes only the mutable part of the row; identity, pricing and
// checkout snapshot columns are frozen at creation.
func (r *OrderRepo) Update(ctx context.Context, order *repository.Order) error {
	_, err := r.db.Exec(ctx, updateOrderQuery, updateOrderArgs(order)...)
	return err
}

func (r *OrderRepo) UpdateTx(ctx context.Context, tx db.Tx, order *repository.Order) error {
	_, err := tx.Exec(ctx, updateOrderQuery, updateOrderArgs(order)...)
	return err
}

func (r *OrderRepo) GetByGroupID(ctx context.Context, groupID string) ([]*repository.Order, error) {
	var orders []*repository.Order
	err := r.db.Select(ctx, &orders,
		"SELECT * FROM orders WHERE group_id = $1 ORDER BY created_at ASC, id ASC", groupID)
	return orders, err
}

func (r *OrderRepo) GetByUserID(ctx context.Context, userID string, limit int, activeOnly bool) ([]*repository.Order, error) {
	query := "SELECT * FROM orders WHERE user_id = $1"
	args := []interface{}{userID}

	if activeOnly {
		query += ` AND status NOT IN ('Cancelled', 'Rejected', 'Delivered',
                        'Return Rejected', 'Return Completed', 'Replacement Completed')`
	}

	query += " ORDER BY created_at DESC"

	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	var orders []*repository.Order
	err := r.db.Select(ctx, &orders, query, args...)
	return orders, err
}

func (r *OrderRepo) GetBySellerID(ctx context.Context, sellerID string) ([]*repository.Order, error) {
	var orders []*repository.Order
	err := r.db.Select(ctx, &orders,
		"SELECT * FROM orders WHERE seller_id = $1 ORDER BY created_at DESC", sellerID)
	return orders, err
}

// SettleDeliveryFeeTx marks the delivery fee of every line in the group
// as paid and reports how many rows the group has. Re-settling an
// already settled group touches the same rows again, which keeps the
// operation idempotent.
func (r *OrderRepo) SettleDeliveryFeeTx(ctx context.Context, tx db.Tx, groupID string) (int64, error) {
	tag, err := tx.Exec(ctx,
		"UPDATE orders SET is_delivery_fee_paid = TRUE, updated_at = NOW() WHERE group_id = $1", groupID)
	if err != nil {
		return 0, fmt.Errorf("failed to settle delivery fee for group %s: %w", groupID, err)
	}
	return tag.RowsAffected(), nil
}

func (r *OrderRepo) GetAllActiveOrders(ctx context.Context) ([]*repository.Order, error) {
	query := `
        SELECT * FROM orders
        WHERE status NOT IN ('Cancelled', 'Rejected', 'Delivered',
                'Return Rejected', 'Return Completed', 'Replacement Completed')
        ORDER BY created_at ASC`
	var orders []*repository.Order
	err := r.db.Select(ctx, &orders, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get all active orders: %w", err)
	}
	return orders, nil
}
