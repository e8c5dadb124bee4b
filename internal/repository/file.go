package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"storefront-orders/internal/model"
)

// fileRepoImpl persists the full order collection as one JSON document.
// Every write is a read-modify-write cycle serialized by mu, and the
// document is replaced atomically (temp file + rename) so a crash never
// leaves a half-written file behind.
type fileRepoImpl struct {
	mu   sync.Mutex
	path string
}

func NewFileRepository(path string) OrdersRepository {
	return &fileRepoImpl{path: path}
}

func (r *fileRepoImpl) load() ([]*model.Order, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read orders file: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var orders []*model.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, fmt.Errorf("decode orders file: %w", err)
	}
	return orders, nil
}

func (r *fileRepoImpl) save(orders []*model.Order) error {
	data, err := json.MarshalIndent(orders, "", "  ")
	if err != nil {
		return fmt.Errorf("encode orders file: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create orders dir: %w", err)
	}

	// Temp file in the same directory so the rename stays on one filesystem.
	tmp, err := os.CreateTemp(dir, ".orders-*.json")
	if err != nil {
		return fmt.Errorf("create temp orders file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp orders file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp orders file: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace orders file: %w", err)
	}
	return nil
}

func (r *fileRepoImpl) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	stored := prepare(order)

	r.mu.Lock()
	defer r.mu.Unlock()

	orders, err := r.load()
	if err != nil {
		return nil, err
	}
	orders = append(orders, stored)
	if err := r.save(orders); err != nil {
		return nil, err
	}
	return stored.Clone(), nil
}

func (r *fileRepoImpl) List(ctx context.Context, limit int) ([]*model.Order, error) {
	limit = clampLimit(limit)

	r.mu.Lock()
	orders, err := r.load()
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}

	sort.Slice(orders, func(i, j int) bool { return moreRecent(orders[i], orders[j]) })
	if len(orders) > limit {
		orders = orders[:limit]
	}
	return orders, nil
}

func (r *fileRepoImpl) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders, err := r.load()
	if err != nil {
		return nil, err
	}

	for _, o := range orders {
		if o.ID != id {
			continue
		}
		o.Status = status
		o.UpdatedAt = time.Now().UTC()
		if err := r.save(orders); err != nil {
			return nil, err
		}
		return o.Clone(), nil
	}
	return nil, nil
}

func (r *fileRepoImpl) FindRecentCashOrderByPhone(ctx context.Context, phone string, since time.Time) (*model.Order, error) {
	r.mu.Lock()
	orders, err := r.load()
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}

	var match *model.Order
	for _, o := range orders {
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
	return match, nil
}
