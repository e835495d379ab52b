package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/printhub-store/backend/internal/cache"
	"github.com/printhub-store/backend/internal/db"
	"github.com/printhub-store/backend/internal/order"
	"github.com/printhub-store/backend/internal/repository"
)

type OrderRepository interface {
	CreateTx(ctx context.Context, tx db.Tx, order *repository.Order) error
	GetByID(ctx context.Context, id string) (*repository.Order, error)
	GetByIDTx(ctx context.Context, tx db.Tx, id string) (*repository.Order, error)
	UpdateTx(ctx context.Context, tx db.Tx, order *repository.Order) error
	GetByGroupID(ctx context.Context, groupID string) ([]*repository.Order, error)
	GetByUserID(ctx context.Context, userID string, limit int, activeOnly bool) ([]*repository.Order, error)
	GetBySellerID(ctx context.Context, sellerID string) ([]*repository.Order, error)
	SettleDeliveryFeeTx(ctx context.Context, tx db.Tx, groupID string) (int64, error)
	GetAllActiveOrders(ctx context.Context) ([]*repository.Order, error)
}

type NotificationRepository interface {
	CreateTx(ctx context.Context, tx db.Tx, n *repository.Notification) error
	GetByUserID(ctx context.Context, userID string, unreadOnly bool) ([]*repository.Notification, error)
	MarkRead(ctx context.Context, id string) error
}

type ShopRepository interface {
	GetMobileNumbersTx(ctx context.Context, tx db.Tx, sellerID string) ([]string, error)
}

type PricingConfigRepository interface {
	GetDeliveryRules(ctx context.Context, ruleContext string) ([]*repository.DeliveryChargeRule, error)
	GetPaperType(ctx context.Context, name string) (*repository.PaperType, error)
	GetBindingOption(ctx context.Context, name string) (*repository.FinishingOption, error)
	GetLaminationOption(ctx context.Context, name string) (*repository.FinishingOption, error)
}

type OutboxRepository interface {
	CreateTx(ctx context.Context, tx db.Tx, task *repository.OutboxTask) error
}

// TxBeginner is the slice of db.DB the service needs directly; all row
// access goes through the repositories.
type TxBeginner interface {
	BeginTx(ctx context.Context) (db.Tx, error)
}

type OrderService struct {
	db            TxBeginner
	orders        OrderRepository
	notifications NotificationRepository
	shops         ShopRepository
	pricingCfg    PricingConfigRepository
	outbox        OutboxRepository
	cache         *cache.OrderCache
	logger        *zap.Logger

	now   func() time.Time
	newID func() string
}

type Option func(*OrderService)

// WithClock fixes the service clock, used by tests to pin tracking
// timestamps and the return window.
func WithClock(now func() time.Time) Option {
	return func(s *OrderService) { s.now = now }
}

func New(
	database TxBeginner,
	orders OrderRepository,
	notifications NotificationRepository,
	shops ShopRepository,
	pricingCfg PricingConfigRepository,
	outbox OutboxRepository,
	logger *zap.Logger,
	opts ...Option,
) *OrderService {
	s := &OrderService{
		db:            database,
		orders:        orders,
		notifications: notifications,
		shops:         shops,
		pricingCfg:    pricingCfg,
		outbox:        outbox,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
		newID:         func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cache = cache.NewOrderCache(activeOrderLoader{s})
	return s
}

// WarmCache preloads all active orders. Called once at startup; a
// failure is not fatal, reads fall through to the database.
func (s *OrderService) WarmCache(ctx context.Context) error {
	return s.cache.LoadInitialData(ctx)
}

type activeOrderLoader struct {
	s *OrderService
}

func (l activeOrderLoader) LoadActiveOrders(ctx context.Context) ([]*order.Order, error) {
	rows, err := l.s.orders.GetAllActiveOrders(ctx)
	if err != nil {
		return nil, err
	}
	orders := make([]*order.Order, 0, len(rows))
	for _, row := range rows {
		o, err := toDomain(row)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*order.Order, error) {
	if o, found := s.cache.Get(orderID); found {
		return o, nil
	}

	row, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	o, err := toDomain(row)
	if err != nil {
		return nil, fmt.Errorf("failed to decode order %s: %w", orderID, err)
	}
	s.cache.Set(o)
	return o, nil
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID string, lastN int, activeOnly bool) ([]*order.Order, error) {
	rows, err := s.orders.GetByUserID(ctx, userID, lastN, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for user %s: %w", userID, err)
	}
	return toDomainAll(rows)
}

func (s *OrderService) ListSellerOrders(ctx context.Context, sellerID string) ([]*order.Order, error) {
	rows, err := s.orders.GetBySellerID(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for seller %s: %w", sellerID, err)
	}
	return toDomainAll(rows)
}

func (s *OrderService) ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]*repository.Notification, error) {
	return s.notifications.GetByUserID(ctx, userID, unreadOnly)
}

func (s *OrderService) MarkNotificationRead(ctx context.Context, id string) error {
	return s.notifications.MarkRead(ctx, id)
}
