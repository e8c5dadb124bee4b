package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"storefront-orders/internal/model"
)

// DefaultListLimit is applied when a caller passes a non-positive limit.
const DefaultListLimit = 50

// MaxListLimit caps a single listing; backends clamp rather than error.
const MaxListLimit = 500

// OrdersRepository is the storage contract shared by every backend.
// Semantics are identical across implementations:
//
//   - Create assigns a fresh id when the order carries none and stamps
//     CreatedAt when it is zero. The returned order is detached from
//     repository state.
//   - List returns at most limit orders, most recent CreatedAt first.
//   - UpdateStatus returns (nil, nil) when the id is unknown.
//   - FindRecentCashOrderByPhone returns the most recent
//     cash-on-delivery order for the exact phone with CreatedAt at or
//     after since, or (nil, nil) when there is no match.
type OrdersRepository interface {
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
	List(ctx context.Context, limit int) ([]*model.Order, error)
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error)
	FindRecentCashOrderByPhone(ctx context.Context, phone string, since time.Time) (*model.Order, error)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

// prepare fills storage-owned defaults on a detached copy of the order.
func prepare(order *model.Order) *model.Order {
	stored := order.Clone()
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.Status == "" {
		stored.Status = model.StatusPending
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = stored.CreatedAt
	}
	return stored
}

// moreRecent orders a before b: CreatedAt descending, id descending on
// identical timestamps so listings are deterministic.
func moreRecent(a, b *model.Order) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}
