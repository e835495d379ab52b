package service

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/printhub-store/backend/internal/db"
	"github.com/printhub-store/backend/internal/metrics"
	"github.com/printhub-store/backend/internal/order"
	"github.com/printhub-store/backend/internal/repository"
)

// GroupView is the read-model for one checkout group. Totals are
// recomputed from the frozen per-line price and delivery charge on
// every read, never from live pricing rules.
type GroupView struct {
	GroupID       string        `json:"group_id"`
	Sellers       []SellerLines `json:"sellers"`
	Subtotal      float64       `json:"subtotal"`
	DeliveryTotal float64       `json:"delivery_total"`
	GrandTotal    float64       `json:"grand_total"`
}

type SellerLines struct {
	SellerID string         `json:"seller_id"`
	Orders   []*order.Order `json:"orders"`
	Subtotal float64        `json:"subtotal"`
}

func (s *OrderService) GetGroup(ctx context.Context, groupID string) (*GroupView, error) {
	rows, err := s.orders.GetByGroupID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get group %s: %w", groupID, err)
	}
	if len(rows) == 0 {
		return nil, repository.ErrObjectNotFound
	}

	orders, err := toDomainAll(rows)
	if err != nil {
		return nil, err
	}
	return buildGroupView(orders), nil
}

func buildGroupView(orders []*order.Order) *GroupView {
	view := &GroupView{GroupID: orders[0].GroupID}

	bySeller := map[string]*SellerLines{}
	for _, o := range orders {
		lines, ok := bySeller[o.SellerID]
		if !ok {
			lines = &SellerLines{SellerID: o.SellerID}
			bySeller[o.SellerID] = lines
		}
		lineTotal := o.Price * float64(o.Quantity)
		lines.Orders = append(lines.Orders, o)
		lines.Subtotal += lineTotal
		view.Subtotal += lineTotal
		view.DeliveryTotal += o.DeliveryCharge
	}

	sellerIDs := make([]string, 0, len(bySeller))
	for id := range bySeller {
		sellerIDs = append(sellerIDs, id)
	}
	sort.Strings(sellerIDs)
	for _, id := range sellerIDs {
		view.Sellers = append(view.Sellers, *bySeller[id])
	}

	view.GrandTotal = view.Subtotal + view.DeliveryTotal
	return view
}

// SettleDeliveryFee marks every line of the group as delivery-fee-paid
// in one batch. Settlement is independent of line status, and settling
// an already settled group is a no-op rather than an error.
func (s *OrderService) SettleDeliveryFee(ctx context.Context, groupID string) error {
	err := db.InTx(ctx, s.db, func(tx db.Tx) error {
		rows, err := s.orders.SettleDeliveryFeeTx(ctx, tx, groupID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return repository.ErrObjectNotFound
		}
		return nil
	})
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("settle").Inc()
		return err
	}

	// Settled lines may be cached; refresh lazily by dropping them.
	if rows, err := s.orders.GetByGroupID(ctx, groupID); err == nil {
		for _, row := range rows {
			s.cache.Delete(row.ID)
		}
	}

	metrics.DeliveryFeesSettledTotal.Inc()
	s.logger.Info("delivery fee settled", zap.String("group_id", groupID))
	return nil
}
