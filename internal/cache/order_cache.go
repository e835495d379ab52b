package cache

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/printhub-store/backend/internal/metrics"
	"github.com/printhub-store/backend/internal/order"
)

// OrderCache keeps in-flight orders resident so read traffic (group
// views, order polling from the storefront) does not hit the database
// for every request. Terminal orders are evicted on write-through.
type OrderCache struct {
	mu     sync.RWMutex
	cache  map[string]*order.Order
	loader Loader
}

type Loader interface {
	LoadActiveOrders(ctx context.Context) ([]*order.Order, error)
}

func NewOrderCache(loader Loader) *OrderCache {
	return &OrderCache{
		cache:  make(map[string]*order.Order),
		loader: loader,
	}
}

func (c *OrderCache) LoadInitialData(ctx context.Context) error {
	orders, err := c.loader.LoadActiveOrders(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, o := range orders {
		cp := *o
		c.cache[o.ID] = &cp
	}
	metrics.OrderCacheItems.Set(float64(len(c.cache)))
	zap.L().Info("order cache warmed", zap.Int("orders", len(c.cache)))
	return nil
}

func (c *OrderCache) Get(orderID string) (*order.Order, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	o, found := c.cache[orderID]
	if !found {
		return nil, false
	}
	cp := *o
	return &cp, true
}

// Set stores a copy of the order, or evicts it if the order is no
// longer active.
func (c *OrderCache) Set(o *order.Order) {
	if !o.Status.Active() {
		c.Delete(o.ID)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *o
	c.cache[o.ID] = &cp
	metrics.OrderCacheItems.Set(float64(len(c.cache)))
}

func (c *OrderCache) Delete(orderID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, found := c.cache[orderID]; found {
		delete(c.cache, orderID)
		metrics.OrderCacheItems.Set(float64(len(c.cache)))
	}
}
