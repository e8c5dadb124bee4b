package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"storefront-orders/internal/metrics"
	"storefront-orders/internal/model"
	"storefront-orders/internal/notify"
	"storefront-orders/internal/repository"
)

// DefaultDuplicateWindow is the lookback used when no window is configured.
const DefaultDuplicateWindow = 10 * time.Minute

type CreateOrderInput struct {
	PaymentMethod model.PaymentMethod
	Customer      model.Customer
	Items         []model.LineItem
	Totals        model.Totals
}

type CreateOrderResult struct {
	// Stored is the full persisted order.
	Stored *model.Order
	// Clean is the caller-facing shape without internal-only fields.
	Clean *model.OrderView
}

type OrderService interface {
	CreateOrder(ctx context.Context, input *CreateOrderInput) (*CreateOrderResult, error)
	ListOrders(ctx context.Context, limit int) ([]*model.Order, error)
	UpdateStatus(ctx context.Context, id string, status string) (*model.Order, error)
}

type orderServiceImpl struct {
	repo     repository.OrdersRepository
	notifier notify.NotificationService
	window   time.Duration
	log      *slog.Logger
	met      *metrics.OrderMetrics

	// phoneLocks serializes check-then-create per phone so two concurrent
	// cash submissions cannot both pass the duplicate guard.
	phoneMu    sync.Mutex
	phoneLocks map[string]*phoneLock
}

type phoneLock struct {
	mu   sync.Mutex
	refs int
}

func NewOrderService(
	repo repository.OrdersRepository,
	notifier notify.NotificationService,
	window time.Duration,
	log *slog.Logger,
	met *metrics.OrderMetrics,
) OrderService {
	if window <= 0 {
		window = DefaultDuplicateWindow
	}
	if log == nil {
		log = slog.Default()
	}
	return &orderServiceImpl{
		repo:       repo,
		notifier:   notifier,
		window:     window,
		log:        log,
		met:        met,
		phoneLocks: make(map[string]*phoneLock),
	}
}

func (in *CreateOrderInput) validate() error {
	var violations []string

	if strings.TrimSpace(in.Customer.Name) == "" {
		violations = append(violations, "customer name is required")
	}
	if strings.TrimSpace(in.Customer.Phone) == "" {
		violations = append(violations, "customer phone is required")
	}
	if !in.PaymentMethod.Valid() {
		violations = append(violations, fmt.Sprintf("unknown payment method %q", in.PaymentMethod))
	}
	if len(in.Items) == 0 {
		violations = append(violations, "order must contain at least one item")
	}
	for i, item := range in.Items {
		if item.Quantity <= 0 {
			violations = append(violations, fmt.Sprintf("item %d: quantity must be positive", i))
		}
		if item.ProductID == "" && item.BundleID == "" {
			violations = append(violations, fmt.Sprintf("item %d: product or bundle reference is required", i))
		}
	}
	if in.Totals.Items <= 0 {
		violations = append(violations, "totals: item count must be positive")
	}
	if in.Totals.Subtotal < 0 {
		violations = append(violations, "totals: subtotal must not be negative")
	}
	if in.Totals.Shipping < 0 {
		violations = append(violations, "totals: shipping must not be negative")
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

// lockPhone acquires the per-phone creation lock and returns its release.
func (s *orderServiceImpl) lockPhone(phone string) func() {
	s.phoneMu.Lock()
	l := s.phoneLocks[phone]
	if l == nil {
		l = &phoneLock{}
		s.phoneLocks[phone] = l
	}
	l.refs++
	s.phoneMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.phoneMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.phoneLocks, phone)
		}
		s.phoneMu.Unlock()
	}
}

func (s *orderServiceImpl) CreateOrder(ctx context.Context, input *CreateOrderInput) (*CreateOrderResult, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	// The guard matches phones by exact string equality, so the trimmed
	// form is what gets stored, locked on and queried.
	phone := strings.TrimSpace(input.Customer.Phone)

	customer := input.Customer
	customer.Phone = phone

	order := &model.Order{
		PaymentMethod: input.PaymentMethod,
		Status:        model.StatusPending,
		Totals:        input.Totals,
		Customer:      customer,
		Items:         input.Items,
	}

	if input.PaymentMethod == model.PaymentCashOnDelivery && phone != "" {
		// Hold the lock across check and create: the guard stays closed
		// against concurrent submissions from the same phone.
		unlock := s.lockPhone(phone)
		defer unlock()

		since := time.Now().UTC().Add(-s.window)
		existing, err := s.repo.FindRecentCashOrderByPhone(ctx, phone, since)
		if err != nil {
			return nil, fmt.Errorf("duplicate guard lookup: %w", err)
		}
		if existing != nil {
			if s.met != nil {
				s.met.DuplicateRejected.Inc()
			}
			s.log.Warn("duplicate cash order rejected",
				"phone", phone, "existing_order_id", existing.ID)
			return nil, &DuplicateOrderError{Phone: phone, ExistingID: existing.ID}
		}
	}

	stored, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}
	if s.met != nil {
		s.met.Created.Inc()
	}
	s.log.Info("order created",
		"order_id", stored.ID,
		"payment_method", stored.PaymentMethod,
		"items", len(stored.Items))

	s.sendConfirmation(ctx, stored)

	return &CreateOrderResult{Stored: stored, Clean: stored.View()}, nil
}

// sendConfirmation dispatches the confirmation through the fan-out.
// Failure is logged and counted, never returned: the order is already
// persisted and must not appear failed to the caller.
func (s *orderServiceImpl) sendConfirmation(ctx context.Context, stored *model.Order) {
	if s.notifier == nil {
		return
	}

	message := fmt.Sprintf(
		"Thank you for your order, %s. Order %s has been received and is now %s.",
		stored.Customer.Name, stored.ID, stored.Status,
	)
	meta := map[string]string{
		"subject":  "Order Confirmation",
		"order_id": stored.ID,
	}
	if err := s.notifier.Notify(ctx, stored.Customer.Email, message, meta); err != nil {
		if s.met != nil {
			s.met.NotificationFailures.Inc()
		}
		s.log.Error("order confirmation dispatch failed",
			"order_id", stored.ID, "error", err)
	}
}

func (s *orderServiceImpl) ListOrders(ctx context.Context, limit int) ([]*model.Order, error) {
	return s.repo.List(ctx, limit)
}

func (s *orderServiceImpl) UpdateStatus(ctx context.Context, id string, status string) (*model.Order, error) {
	next := model.OrderStatus(status)
	if !next.Valid() {
		return nil, &ValidationError{
			Violations: []string{fmt.Sprintf("unknown order status %q", status)},
		}
	}
	return s.repo.UpdateStatus(ctx, id, next)
}
