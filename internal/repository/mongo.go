package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront-orders/internal/model"
)

const ordersCollection = "orders"

// MongoRepository delegates persistence to a MongoDB collection. Listing
// and the duplicate-guard lookup run as indexed queries, not collection
// scans; EnsureIndexes declares what they rely on.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{col: db.Collection(ordersCollection)}
}

// EnsureIndexes declares the createdAt listing index and the compound
// index backing FindRecentCashOrderByPhone. Safe to call on every start.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{
			{Key: "customer.phone", Value: 1},
			{Key: "payment_method", Value: 1},
			{Key: "created_at", Value: -1},
		}},
	})
	if err != nil {
		return fmt.Errorf("ensure order indexes: %w", err)
	}
	return nil
}

func (r *MongoRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	stored := prepare(order)

	if _, err := r.col.InsertOne(ctx, stored); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	return stored.Clone(), nil
}

func (r *MongoRepository) List(ctx context.Context, limit int) ([]*model.Order, error) {
	limit = clampLimit(limit)

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer cur.Close(ctx)

	var orders []*model.Order
	if err := cur.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

func (r *MongoRepository) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}}

	var order model.Order
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	return &order, nil
}

func (r *MongoRepository) FindRecentCashOrderByPhone(ctx context.Context, phone string, since time.Time) (*model.Order, error) {
	filter := bson.M{
		"payment_method": model.PaymentCashOnDelivery,
		"customer.phone": phone,
		"created_at":     bson.M{"$gte": since},
	}
	opts := options.FindOne().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	var order model.Order
	err := r.col.FindOne(ctx, filter, opts).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find recent cash order: %w", err)
	}
	return &order, nil
}
