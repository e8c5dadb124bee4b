package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"storefront-orders/internal/model"
)

type orderRow struct {
	ID              string `gorm:"primaryKey;size:64;not null"`
	PaymentMethod   string `gorm:"size:32;index:idx_orders_phone_method,priority:2;not null"`
	Status          string `gorm:"size:32;index;not null"`
	TotalItems      int    `gorm:"not null"`
	Subtotal        float64
	Shipping        float64
	Currency        string `gorm:"size:8"`
	CustomerName    string `gorm:"size:128"`
	CustomerEmail   string `gorm:"size:128"`
	CustomerPhone   string `gorm:"size:32;index:idx_orders_phone_method,priority:1"`
	CustomerAddress string
	CustomerCity    string `gorm:"size:64"`
	CustomerNotes   string
	CreatedAt       time.Time `gorm:"index"`
	UpdatedAt       time.Time
}

func (orderRow) TableName() string { return "orders" }

type orderItemRow struct {
	ID        uint   `gorm:"primaryKey"`
	OrderID   string `gorm:"size:64;index;not null"`
	Position  int    `gorm:"not null"`
	ProductID string `gorm:"size:64"`
	BundleID  string `gorm:"size:64"`
	Title     string
	Quantity  int
	UnitPrice float64
}

func (orderItemRow) TableName() string { return "order_items" }

// sqliteRepoImpl maps orders onto an orders table plus an order_items
// table keyed by order id and line position.
type sqliteRepoImpl struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) (OrdersRepository, error) {
	if err := db.AutoMigrate(&orderRow{}, &orderItemRow{}); err != nil {
		return nil, fmt.Errorf("migrate order tables: %w", err)
	}
	return &sqliteRepoImpl{db: db}, nil
}

func toRows(o *model.Order) (*orderRow, []*orderItemRow) {
	row := &orderRow{
		ID:              o.ID,
		PaymentMethod:   string(o.PaymentMethod),
		Status:          string(o.Status),
		TotalItems:      o.Totals.Items,
		Subtotal:        o.Totals.Subtotal,
		Shipping:        o.Totals.Shipping,
		Currency:        o.Totals.Currency,
		CustomerName:    o.Customer.Name,
		CustomerEmail:   o.Customer.Email,
		CustomerPhone:   o.Customer.Phone,
		CustomerAddress: o.Customer.Address,
		CustomerCity:    o.Customer.City,
		CustomerNotes:   o.Customer.Notes,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}

	items := make([]*orderItemRow, len(o.Items))
	for i, item := range o.Items {
		items[i] = &orderItemRow{
			OrderID:   o.ID,
			Position:  i,
			ProductID: item.ProductID,
			BundleID:  item.BundleID,
			Title:     item.Title,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}
	return row, items
}

func fromRows(row *orderRow, items []*orderItemRow) *model.Order {
	o := &model.Order{
		ID:            row.ID,
		PaymentMethod: model.PaymentMethod(row.PaymentMethod),
		Status:        model.OrderStatus(row.Status),
		Totals: model.Totals{
			Items:    row.TotalItems,
			Subtotal: row.Subtotal,
			Shipping: row.Shipping,
			Currency: row.Currency,
		},
		Customer: model.Customer{
			Name:    row.CustomerName,
			Email:   row.CustomerEmail,
			Phone:   row.CustomerPhone,
			Address: row.CustomerAddress,
			City:    row.CustomerCity,
			Notes:   row.CustomerNotes,
		},
		Items:     make([]model.LineItem, len(items)),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	for i, item := range items {
		o.Items[i] = model.LineItem{
			ProductID: item.ProductID,
			BundleID:  item.BundleID,
			Title:     item.Title,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}
	return o
}

func (r *sqliteRepoImpl) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	stored := prepare(order)
	row, items := toRows(stored)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(row).Error; err != nil {
			return fmt.Errorf("store order: %w", err)
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return fmt.Errorf("store order items: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored.Clone(), nil
}

func (r *sqliteRepoImpl) List(ctx context.Context, limit int) ([]*model.Order, error) {
	limit = clampLimit(limit)

	var rows []*orderRow
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}

	var itemRows []*orderItemRow
	err = r.db.WithContext(ctx).
		Where("order_id IN ?", ids).
		Order("order_id, position").
		Find(&itemRows).Error
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}

	itemsByOrder := make(map[string][]*orderItemRow, len(rows))
	for _, item := range itemRows {
		itemsByOrder[item.OrderID] = append(itemsByOrder[item.OrderID], item)
	}

	orders := make([]*model.Order, len(rows))
	for i, row := range rows {
		orders[i] = fromRows(row, itemsByOrder[row.ID])
	}
	return orders, nil
}

func (r *sqliteRepoImpl) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	var order *model.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&orderRow{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":     string(status),
				"updated_at": time.Now().UTC(),
			})
		if result.Error != nil {
			return fmt.Errorf("update order status: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		var err error
		order, err = r.getTx(tx, id)
		return err
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *sqliteRepoImpl) FindRecentCashOrderByPhone(ctx context.Context, phone string, since time.Time) (*model.Order, error) {
	var row orderRow
	err := r.db.WithContext(ctx).
		Where("payment_method = ? AND customer_phone = ? AND created_at >= ?",
			string(model.PaymentCashOnDelivery), phone, since).
		Order("created_at DESC, id DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find recent cash order: %w", err)
	}
	return r.get(ctx, row.ID)
}

func (r *sqliteRepoImpl) get(ctx context.Context, id string) (*model.Order, error) {
	return r.getTx(r.db.WithContext(ctx), id)
}

func (r *sqliteRepoImpl) getTx(tx *gorm.DB, id string) (*model.Order, error) {
	var row orderRow
	if err := tx.Where("id = ?", id).First(&row).Error; err != nil {
		return nil, fmt.Errorf("fetch order: %w", err)
	}

	var items []*orderItemRow
	err := tx.Where("order_id = ?", id).Order("position").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("fetch order items: %w", err)
	}
	return fromRows(&row, items), nil
}
