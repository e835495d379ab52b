// Package memory is a mutex-guarded in-memory implementation of the
// persistence interfaces, used by service tests in place of PostgreSQL.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jackc/pgconn"

	"github.com/printhub-store/backend/internal/db"
	"github.com/printhub-store/backend/internal/order"
	"github.com/printhub-store/backend/internal/repository"
)

type Store struct {
	mu sync.RWMutex

	orders        map[string]*repository.Order
	notifications map[string]*repository.Notification
	shops         map[string]*repository.Shop
	deliveryRules []*repository.DeliveryChargeRule
	paperTypes    map[string]*repository.PaperType
	bindings      map[string]*repository.FinishingOption
	laminations   map[string]*repository.FinishingOption
	outboxTasks   []*repository.OutboxTask
}

func NewStore() *Store {
	return &Store{
		orders:        make(map[string]*repository.Order),
		notifications: make(map[string]*repository.Notification),
		shops:         make(map[string]*repository.Shop),
		paperTypes:    make(map[string]*repository.PaperType),
		bindings:      make(map[string]*repository.FinishingOption),
		laminations:   make(map[string]*repository.FinishingOption),
	}
}

// noopTx satisfies db.Tx; the store itself is the unit of atomicity.
type noopTx struct{}

func (noopTx) Commit(ctx context.Context) error   { return nil }
func (noopTx) Rollback(ctx context.Context) error { return nil }

func (noopTx) Exec(ctx context.Context, query string, args ...interface{}) (pgconn.CommandTag, error) {
	return nil, nil
}

func (noopTx) Get(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return nil
}

func (noopTx) Select(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return nil
}

func (s *Store) BeginTx(ctx context.Context) (db.Tx, error) {
	return noopTx{}, nil
}

func copyOrder(o *repository.Order) *repository.Order {
	cp := *o
	if o.AltMobiles != nil {
		cp.AltMobiles = append([]string(nil), o.AltMobiles...)
	}
	if o.XeroxConfig != nil {
		cp.XeroxConfig = append([]byte(nil), o.XeroxConfig...)
	}
	return &cp
}

func (s *Store) CreateTx(ctx context.Context, tx db.Tx, o *repository.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = copyOrder(o)
	return nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*repository.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, repository.ErrObjectNotFound
	}
	return copyOrder(o), nil
}

func (s *Store) GetByIDTx(ctx context.Context, tx db.Tx, id string) (*repository.Order, error) {
	return s.GetByID(ctx, id)
}

func (s *Store) UpdateTx(ctx context.Context, tx db.Tx, o *repository.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[o.ID]; !ok {
		return repository.ErrObjectNotFound
	}
	s.orders[o.ID] = copyOrder(o)
	return nil
}

func (s *Store) GetByGroupID(ctx context.Context, groupID string) ([]*repository.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*repository.Order
	for _, o := range s.orders {
		if o.GroupID == groupID {
			result = append(result, copyOrder(o))
		}
	}
	sortOrdersNewestFirst(result)
	return result, nil
}

func (s *Store) GetByUserID(ctx context.Context, userID string, limit int, activeOnly bool) ([]*repository.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*repository.Order
	for _, o := range s.orders {
		if o.UserID != userID {
			continue
		}
		if activeOnly && !order.Status(o.Status).Active() {
			continue
		}
		result = append(result, copyOrder(o))
	}
	sortOrdersNewestFirst(result)
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *Store) GetBySellerID(ctx context.Context, sellerID string) ([]*repository.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*repository.Order
	for _, o := range s.orders {
		if o.SellerID == sellerID {
			result = append(result, copyOrder(o))
		}
	}
	sortOrdersNewestFirst(result)
	return result, nil
}

func (s *Store) SettleDeliveryFeeTx(ctx context.Context, tx db.Tx, groupID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var affected int64
	for _, o := range s.orders {
		if o.GroupID == groupID {
			o.IsDeliveryFeePaid = true
			affected++
		}
	}
	return affected, nil
}

func (s *Store) GetAllActiveOrders(ctx context.Context) ([]*repository.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*repository.Order
	for _, o := range s.orders {
		if order.Status(o.Status).Active() {
			result = append(result, copyOrder(o))
		}
	}
	return result, nil
}

func (s *Store) CreateNotificationTx(ctx context.Context, tx db.Tx, n *repository.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *n
	s.notifications[n.ID] = &cp
	return nil
}

func (s *Store) GetNotificationsByUserID(ctx context.Context, userID string, unreadOnly bool) ([]*repository.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*repository.Notification
	for _, n := range s.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		cp := *n
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *Store) MarkNotificationRead(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok {
		return repository.ErrObjectNotFound
	}
	n.IsRead = true
	return nil
}

func (s *Store) AddShop(shop *repository.Shop) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *shop
	s.shops[shop.SellerID] = &cp
}

func (s *Store) GetMobileNumbersTx(ctx context.Context, tx db.Tx, sellerID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	shop, ok := s.shops[sellerID]
	if !ok {
		return nil, nil
	}
	return append([]string(nil), shop.MobileNumbers...), nil
}

func (s *Store) SetDeliveryRules(rules []*repository.DeliveryChargeRule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deliveryRules = rules
}

func (s *Store) GetDeliveryRules(ctx context.Context, ruleContext string) ([]*repository.DeliveryChargeRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*repository.DeliveryChargeRule
	for _, r := range s.deliveryRules {
		if r.Context == ruleContext {
			cp := *r
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (s *Store) AddPaperType(p *repository.PaperType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.paperTypes[p.Name] = &cp
}

func (s *Store) GetPaperType(ctx context.Context, name string) (*repository.PaperType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.paperTypes[name]
	if !ok {
		return nil, repository.ErrObjectNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *Store) AddBindingOption(f *repository.FinishingOption) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *f
	s.bindings[f.Name] = &cp
}

func (s *Store) AddLaminationOption(f *repository.FinishingOption) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *f
	s.laminations[f.Name] = &cp
}

func (s *Store) GetBindingOption(ctx context.Context, name string) (*repository.FinishingOption, error) {
	return s.getFinishing(s.bindings, name)
}

func (s *Store) GetLaminationOption(ctx context.Context, name string) (*repository.FinishingOption, error) {
	return s.getFinishing(s.laminations, name)
}

func (s *Store) getFinishing(options map[string]*repository.FinishingOption, name string) (*repository.FinishingOption, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := options[name]
	if !ok {
		return nil, repository.ErrObjectNotFound
	}
	cp := *f
	return &cp, nil
}

func (s *Store) CreateOutboxTaskTx(ctx context.Context, tx db.Tx, task *repository.OutboxTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *task
	cp.Payload = append([]byte(nil), task.Payload...)
	s.outboxTasks = append(s.outboxTasks, &cp)
	return nil
}

func (s *Store) OutboxTasks() []*repository.OutboxTask {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*repository.OutboxTask, len(s.outboxTasks))
	copy(result, s.outboxTasks)
	return result
}

func sortOrdersNewestFirst(orders []*repository.Order) {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}

// NotificationView exposes the store under the notification repository
// method set; the order methods on Store already claim CreateTx and
// GetByUserID.
type NotificationView struct{ s *Store }

func (s *Store) Notifications() NotificationView { return NotificationView{s} }

func (v NotificationView) CreateTx(ctx context.Context, tx db.Tx, n *repository.Notification) error {
	return v.s.CreateNotificationTx(ctx, tx, n)
}

func (v NotificationView) GetByUserID(ctx context.Context, userID string, unreadOnly bool) ([]*repository.Notification, error) {
	return v.s.GetNotificationsByUserID(ctx, userID, unreadOnly)
}

func (v NotificationView) MarkRead(ctx context.Context, id string) error {
	return v.s.MarkNotificationRead(ctx, id)
}

type OutboxView struct{ s *Store }

func (s *Store) Outbox() OutboxView { return OutboxView{s} }

func (v OutboxView) CreateTx(ctx context.Context, tx db.Tx, task *repository.OutboxTask) error {
	return v.s.CreateOutboxTaskTx(ctx, tx, task)
}
