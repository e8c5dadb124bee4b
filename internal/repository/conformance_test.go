package repository

import (
	"context"
	"testing"
	"time"

	"storefront-orders/internal/model"
)

// runConformanceSuite asserts the contract every backend must satisfy
// identically. Each backend test hands in a fresh-store factory.
func runConformanceSuite(t *testing.T, newRepo func(t *testing.T) OrdersRepository) {
	ctx := context.Background()

	// Mongo stores timestamps at millisecond precision; keeping test
	// times millisecond-aligned lets one suite cover every backend.
	base := time.Now().UTC().Truncate(time.Millisecond).Add(-time.Hour)

	sample := func(phone string, method model.PaymentMethod, createdAt time.Time) *model.Order {
		return &model.Order{
			PaymentMethod: method,
			Status:        model.StatusPending,
			Totals:        model.Totals{Items: 2, Subtotal: 49.90, Shipping: 5.00, Currency: "EUR"},
			Customer: model.Customer{
				Name:    "Maria Papadopoulou",
				Email:   "maria@example.com",
				Phone:   phone,
				Address: "12 Harbour St",
				City:    "Thessaloniki",
				Notes:   "ring the bell twice",
			},
			Items: []model.LineItem{
				{ProductID: "soap-lavender", Title: "Lavender Soap", Quantity: 1, UnitPrice: 19.90},
				{BundleID: "gift-basic", Title: "Gift Bundle", Quantity: 1, UnitPrice: 30.00},
			},
			CreatedAt: createdAt,
		}
	}

	t.Run("create assigns unique ids", func(t *testing.T) {
		repo := newRepo(t)

		first, err := repo.Create(ctx, sample("6900000001", model.PaymentCard, time.Time{}))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if first.ID == "" {
			t.Fatal("expected a generated id")
		}
		if first.CreatedAt.IsZero() {
			t.Fatal("expected CreatedAt to be stamped")
		}

		second, err := repo.Create(ctx, sample("6900000002", model.PaymentCard, time.Time{}))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if second.ID == first.ID {
			t.Fatalf("ids must be unique, got %q twice", first.ID)
		}
	})

	t.Run("list sorts by created_at descending", func(t *testing.T) {
		repo := newRepo(t)

		older, err := repo.Create(ctx, sample("6900000003", model.PaymentCard, base))
		if err != nil {
			t.Fatalf("create older: %v", err)
		}
		newer, err := repo.Create(ctx, sample("6900000004", model.PaymentCard, base.Add(time.Minute)))
		if err != nil {
			t.Fatalf("create newer: %v", err)
		}

		orders, err := repo.List(ctx, 10)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(orders) != 2 {
			t.Fatalf("got %d orders, want 2", len(orders))
		}
		if orders[0].ID != newer.ID || orders[1].ID != older.ID {
			t.Fatalf("got order [%s %s], want newest first [%s %s]",
				orders[0].ID, orders[1].ID, newer.ID, older.ID)
		}
	})

	t.Run("list(1) returns only the most recent", func(t *testing.T) {
		repo := newRepo(t)

		if _, err := repo.Create(ctx, sample("6900000005", model.PaymentCard, base)); err != nil {
			t.Fatalf("create: %v", err)
		}
		newest, err := repo.Create(ctx, sample("6900000006", model.PaymentCard, base.Add(time.Minute)))
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		orders, err := repo.List(ctx, 1)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(orders) != 1 || orders[0].ID != newest.ID {
			t.Fatalf("list(1) = %d orders, want exactly %q", len(orders), newest.ID)
		}
	})

	t.Run("list clamps out-of-range limits", func(t *testing.T) {
		repo := newRepo(t)

		if _, err := repo.Create(ctx, sample("6900000007", model.PaymentCard, base)); err != nil {
			t.Fatalf("create: %v", err)
		}

		for _, limit := range []int{0, -5} {
			orders, err := repo.List(ctx, limit)
			if err != nil {
				t.Fatalf("list(%d): %v", limit, err)
			}
			if len(orders) != 1 {
				t.Fatalf("list(%d) = %d orders, want clamped to 1", limit, len(orders))
			}
		}
	})

	t.Run("update status on unknown id returns nil", func(t *testing.T) {
		repo := newRepo(t)

		order, err := repo.UpdateStatus(ctx, "no-such-order", model.StatusCompleted)
		if err != nil {
			t.Fatalf("update status: %v", err)
		}
		if order != nil {
			t.Fatalf("got %+v, want nil for unknown id", order)
		}

		orders, err := repo.List(ctx, 10)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(orders) != 0 {
			t.Fatalf("update of unknown id must not create records, store has %d", len(orders))
		}
	})

	t.Run("update status refreshes updated_at", func(t *testing.T) {
		repo := newRepo(t)

		created, err := repo.Create(ctx, sample("6900000008", model.PaymentCard, base))
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		updated, err := repo.UpdateStatus(ctx, created.ID, model.StatusCompleted)
		if err != nil {
			t.Fatalf("update status: %v", err)
		}
		if updated == nil {
			t.Fatal("expected the updated order, got nil")
		}
		if updated.Status != model.StatusCompleted {
			t.Fatalf("status = %q, want %q", updated.Status, model.StatusCompleted)
		}
		if !updated.UpdatedAt.After(updated.CreatedAt) {
			t.Fatalf("UpdatedAt %v must be later than CreatedAt %v",
				updated.UpdatedAt, updated.CreatedAt)
		}
		if !updated.CreatedAt.Equal(created.CreatedAt) {
			t.Fatalf("CreatedAt changed from %v to %v", created.CreatedAt, updated.CreatedAt)
		}
	})

	t.Run("find recent cash order by phone", func(t *testing.T) {
		repo := newRepo(t)
		phone := "6900000009"

		// Too old, wrong method, wrong phone: none of these may match.
		if _, err := repo.Create(ctx, sample(phone, model.PaymentCashOnDelivery, base.Add(-2*time.Hour))); err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := repo.Create(ctx, sample(phone, model.PaymentCard, base.Add(time.Minute))); err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := repo.Create(ctx, sample("6911111111", model.PaymentCashOnDelivery, base.Add(time.Minute))); err != nil {
			t.Fatalf("create: %v", err)
		}

		match, err := repo.FindRecentCashOrderByPhone(ctx, phone, base)
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if match != nil {
			t.Fatalf("got %+v, want nil before a matching order exists", match)
		}

		want, err := repo.Create(ctx, sample(phone, model.PaymentCashOnDelivery, base.Add(2*time.Minute)))
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		match, err = repo.FindRecentCashOrderByPhone(ctx, phone, base)
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if match == nil || match.ID != want.ID {
			t.Fatalf("got %+v, want order %q", match, want.ID)
		}
	})

	t.Run("round trip preserves immutable fields", func(t *testing.T) {
		repo := newRepo(t)

		created, err := repo.Create(ctx, sample("6900000010", model.PaymentCashOnDelivery, base))
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		orders, err := repo.List(ctx, 10)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		var got *model.Order
		for _, o := range orders {
			if o.ID == created.ID {
				got = o
			}
		}
		if got == nil {
			t.Fatalf("order %q not found in listing", created.ID)
		}

		if got.PaymentMethod != created.PaymentMethod {
			t.Errorf("payment method = %q, want %q", got.PaymentMethod, created.PaymentMethod)
		}
		if !got.CreatedAt.Equal(created.CreatedAt) {
			t.Errorf("created_at = %v, want %v", got.CreatedAt, created.CreatedAt)
		}
		if got.Customer != created.Customer {
			t.Errorf("customer = %+v, want %+v", got.Customer, created.Customer)
		}
		if got.Totals != created.Totals {
			t.Errorf("totals = %+v, want %+v", got.Totals, created.Totals)
		}
		if len(got.Items) != len(created.Items) {
			t.Fatalf("items = %d, want %d", len(got.Items), len(created.Items))
		}
		for i := range got.Items {
			if got.Items[i] != created.Items[i] {
				t.Errorf("item %d = %+v, want %+v", i, got.Items[i], created.Items[i])
			}
		}
	})

	t.Run("returned orders are detached from storage", func(t *testing.T) {
		repo := newRepo(t)

		created, err := repo.Create(ctx, sample("6900000011", model.PaymentCard, base))
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		created.Status = model.StatusCancelled
		created.Customer.Phone = "mutated"

		orders, err := repo.List(ctx, 10)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if orders[0].Status != model.StatusPending || orders[0].Customer.Phone == "mutated" {
			t.Fatal("mutating a returned order must not affect stored state")
		}
	})
}
