package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"storefront-orders/internal/model"
)

// memoryRepoImpl keeps the whole collection in a mutex-guarded map.
// Non-durable; used for tests and ephemeral deployments.
type memoryRepoImpl struct {
	mu     sync.RWMutex
	orders map[string]*model.Order
}

func NewMemoryRepository() OrdersRepository {
	return &memoryRepoImpl{
		orders: make(map[string]*model.Order),
	}
}

func (r *memoryRepoImpl) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	stored := prepare(order)

	r.mu.Lock()
	r.orders[stored.ID] = stored
	r.mu.Unlock()

	return stored.Clone(), nil
}

func (r *memoryRepoImpl) List(ctx context.Context, limit int) ([]*model.Order, error) {
	limit = clampLimit(limit)

	// Clone before releasing the lock: UpdateStatus mutates stored
	// orders in place under the write lock.
	r.mu.RLock()
	all := make([]*model.Order, 0, len(r.orders))
	for _, o := range r.orders {
		all = append(all, o.Clone())
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return moreRecent(all[i], all[j]) })
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *memoryRepoImpl) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	order.Status = status
	order.UpdatedAt = time.Now().UTC()
	return order.Clone(), nil
}

func (r *memoryRepoImpl) FindRecentCashOrderByPhone(ctx context.Context, phone string, since time.Time) (*model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var match *model.Order
	for _, o := range r.orders {
		if o.PaymentMethod != model.PaymentCashOnDelivery {
			continue
		}
		if o.Customer.Phone != phone || o.CreatedAt.Before(since) {
			continue
		}
		if match == nil || moreRecent(o, match) {
			match = o
		}
	}
	return match.Clone(), nil
}
