package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/printhub-store/backend/internal/db"
	"github.com/printhub-store/backend/internal/metrics"
	"github.com/printhub-store/backend/internal/order"
	"github.com/printhub-store/backend/internal/pricing"
)

// XeroxInput is the customer's print configuration for one xerox line.
type XeroxInput struct {
	PaperType    string `json:"paper_type"`
	Color        string `json:"color"`
	Format       string `json:"format"`
	Ratio        string `json:"ratio"`
	Binding      string `json:"binding"`
	Lamination   string `json:"lamination"`
	PageCount    int    `json:"page_count"`
	Instructions string `json:"instructions"`
	DocumentURL  string `json:"document_url"`
}

type CheckoutItem struct {
	SellerID     string         `json:"seller_id"`
	Category     order.Category `json:"category"`
	ProductName  string         `json:"product_name"`
	ProductImage *string        `json:"product_image"`
	Quantity     int            `json:"quantity"`
	UnitPrice    float64        `json:"unit_price"`
	Xerox        *XeroxInput    `json:"xerox,omitempty"`
}

type CheckoutInput struct {
	UserID          string         `json:"user_id"`
	ShippingAddress string         `json:"shipping_address"`
	Mobile          string         `json:"mobile"`
	AltMobiles      []string       `json:"alt_mobiles"`
	Items           []CheckoutItem `json:"items"`
}

func (in CheckoutInput) validate() error {
	if in.UserID == "" {
		return errors.New("user id is required")
	}
	if in.ShippingAddress == "" || in.Mobile == "" {
		return errors.New("shipping address and mobile are required")
	}
	if len(in.Items) == 0 {
		return errors.New("checkout requires at least one item")
	}
	for i, item := range in.Items {
		if item.SellerID == "" {
			return fmt.Errorf("item %d: seller id is required", i)
		}
		if !item.Category.Valid() {
			return fmt.Errorf("item %d: unknown category %q", i, item.Category)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("item %d: quantity must be positive", i)
		}
		if item.Category == order.CategoryXerox {
			if item.Xerox == nil {
				return fmt.Errorf("item %d: xerox configuration is required", i)
			}
			if item.Xerox.PageCount <= 0 {
				return fmt.Errorf("item %d: page count must be positive", i)
			}
		} else if item.Xerox != nil {
			return fmt.Errorf("item %d: xerox configuration only applies to xerox items", i)
		}
	}
	return nil
}

// Checkout freezes prices and delivery charges onto N new order lines
// sharing one group id and persists them in a single transaction.
// Delivery charges are evaluated per rule context (items vs xerox) on
// the context subtotal and apportioned across that context's lines
// proportionally, cent-rounded with the remainder on the last line.
func (s *OrderService) Checkout(ctx context.Context, in CheckoutInput) (*GroupView, error) {
	if err := in.validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", order.ErrValidationFailed, err)
	}

	now := s.now()
	groupID := s.newID()

	orders := make([]*order.Order, len(in.Items))
	for i, item := range in.Items {
		o := &order.Order{
			ID:              s.newID(),
			GroupID:         groupID,
			UserID:          in.UserID,
			SellerID:        item.SellerID,
			Category:        item.Category,
			ProductName:     item.ProductName,
			ProductImage:    item.ProductImage,
			Quantity:        item.Quantity,
			Price:           item.UnitPrice,
			ShippingAddress: in.ShippingAddress,
			Mobile:          in.Mobile,
			AltMobiles:      in.AltMobiles,
			Status:          order.StatusPendingConfirmation,
			Tracking:        order.Tracking{Ordered: &now},
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		if item.Category == order.CategoryXerox {
			quote, cfg, err := s.priceXerox(ctx, item.Xerox, item.Quantity)
			if err != nil {
				return nil, err
			}
			o.Price = quote.CopyPrice
			o.Xerox = cfg
		}

		orders[i] = o
	}

	if err := s.applyDeliveryCharges(ctx, orders); err != nil {
		return nil, err
	}

	err := db.InTx(ctx, s.db, func(tx db.Tx) error {
		for _, o := range orders {
			row, err := fromDomain(o)
			if err != nil {
				return err
			}
			if err := s.orders.CreateTx(ctx, tx, row); err != nil {
				return fmt.Errorf("failed to create order line %s: %w", o.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("checkout").Inc()
		return nil, err
	}

	for _, o := range orders {
		metrics.OrdersCreatedTotal.Inc()
		s.cache.Set(o)
	}
	s.logger.Info("checkout completed",
		zap.String("group_id", groupID),
		zap.String("user_id", in.UserID),
		zap.Int("lines", len(orders)),
	)

	return buildGroupView(orders), nil
}

// applyDeliveryCharges evaluates each rule context on its subtotal and
// spreads the charge across the context's lines by subtotal share.
func (s *OrderService) applyDeliveryCharges(ctx context.Context, orders []*order.Order) error {
	contexts := map[pricing.RuleContext][]*order.Order{}
	for _, o := range orders {
		ruleCtx := pricing.ContextItems
		if o.Category == order.CategoryXerox {
			ruleCtx = pricing.ContextXerox
		}
		contexts[ruleCtx] = append(contexts[ruleCtx], o)
	}

	for ruleCtx, lines := range contexts {
		rules, err := s.deliveryRules(ctx, ruleCtx)
		if err != nil {
			return err
		}

		subtotal := 0.0
		for _, o := range lines {
			subtotal += o.Price * float64(o.Quantity)
		}

		if len(rules) > 0 && !pricing.HasMatch(rules, subtotal) {
			s.logger.Warn("delivery rule set has no tier for subtotal, defaulting to free delivery",
				zap.String("context", string(ruleCtx)),
				zap.Float64("subtotal", subtotal),
			)
		}
		quote := pricing.Evaluate(rules, subtotal)
		apportion(lines, subtotal, quote.Charge)
	}

	return nil
}

func apportion(lines []*order.Order, subtotal, charge float64) {
	if charge == 0 || len(lines) == 0 {
		return
	}

	allocated := 0.0
	for i, o := range lines {
		if i == len(lines)-1 {
			o.DeliveryCharge = roundCents(charge - allocated)
			return
		}
		share := charge / float64(len(lines))
		if subtotal > 0 {
			share = charge * (o.Price * float64(o.Quantity)) / subtotal
		}
		o.DeliveryCharge = roundCents(share)
		allocated += o.DeliveryCharge
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
