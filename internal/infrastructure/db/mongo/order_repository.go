package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/foodhub/ordering-api/internal/core/domain"
)

const collectionOrders = "orders"

type OrderRepository struct {
	col *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{col: db.Collection(collectionOrders)}
}

type mongoOrderItem struct {
	FoodID          primitive.ObjectID `bson:"food"`
	Name            string             `bson:"name"`
	Quantity        int                `bson:"quantity"`
	Price           float64            `bson:"price"`
	PreparationTime int                `bson:"preparation_time"`
}

type mongoOrder struct {
	ID                    primitive.ObjectID  `bson:"_id,omitempty"`
	UserID                primitive.ObjectID  `bson:"user"`
	Items                 []mongoOrderItem    `bson:"items"`
	TotalAmount           float64             `bson:"total_amount"`
	Status                string              `bson:"status"`
	SpecialInstructions   string              `bson:"special_instructions,omitempty"`
	DeliveryAddress       string              `bson:"delivery_address"`
	Phone                 string              `bson:"phone"`
	EstimatedDeliveryTime *time.Time          `bson:"estimated_delivery_time,omitempty"`
	ConfirmedBy           *primitive.ObjectID `bson:"confirmed_by,omitempty"`
	ConfirmedAt           *time.Time          `bson:"confirmed_at,omitempty"`
	CreatedAt             time.Time           `bson:"created_at"`
	UpdatedAt             time.Time           `bson:"updated_at"`
}

func newMongoOrder(o *domain.Order) (mongoOrder, error) {
	user, err := objectID(o.UserID)
	if err != nil {
		return mongoOrder{}, fmt.Errorf("order user %q: %w", o.UserID, err)
	}
	doc := mongoOrder{
		UserID:                user,
		Items:                 make([]mongoOrderItem, 0, len(o.Items)),
		TotalAmount:           o.TotalAmount,
		Status:                string(o.Status),
		SpecialInstructions:   o.SpecialInstructions,
		DeliveryAddress:       o.DeliveryAddress,
		Phone:                 o.Phone,
		EstimatedDeliveryTime: o.EstimatedDeliveryTime,
		ConfirmedAt:           o.ConfirmedAt,
		CreatedAt:             o.CreatedAt.UTC(),
		UpdatedAt:             o.UpdatedAt.UTC(),
	}
	for _, it := range o.Items {
		food, err := objectID(it.FoodID)
		if err != nil {
			return mongoOrder{}, fmt.Errorf("order item %q: %w", it.FoodID, err)
		}
		doc.Items = append(doc.Items, mongoOrderItem{
			FoodID:          food,
			Name:            it.Name,
			Quantity:        it.Quantity,
			Price:           it.Price,
			PreparationTime: it.PreparationTime,
		})
	}
	if o.ConfirmedBy != "" {
		admin, err := objectID(o.ConfirmedBy)
		if err != nil {
			return mongoOrder{}, fmt.Errorf("order confirmed_by %q: %w", o.ConfirmedBy, err)
		}
		doc.ConfirmedBy = &admin
	}
	return doc, nil
}

func (m *mongoOrder) toDomain() *domain.Order {
	o := &domain.Order{
		ID:                    m.ID.Hex(),
		UserID:                m.UserID.Hex(),
		Items:                 make([]domain.OrderItem, 0, len(m.Items)),
		TotalAmount:           m.TotalAmount,
		Status:                domain.OrderStatus(m.Status),
		SpecialInstructions:   m.SpecialInstructions,
		DeliveryAddress:       m.DeliveryAddress,
		Phone:                 m.Phone,
		EstimatedDeliveryTime: m.EstimatedDeliveryTime,
		ConfirmedAt:           m.ConfirmedAt,
		CreatedAt:             m.CreatedAt.UTC(),
		UpdatedAt:             m.UpdatedAt.UTC(),
	}
	for _, it := range m.Items {
		o.Items = append(o.Items, domain.OrderItem{
			FoodID:          it.FoodID.Hex(),
			Name:            it.Name,
			Quantity:        it.Quantity,
			Price:           it.Price,
			PreparationTime: it.PreparationTime,
		})
	}
	if m.ConfirmedBy != nil {
		o.ConfirmedBy = m.ConfirmedBy.Hex()
	}
	return o
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	doc, err := newMongoOrder(o)
	if err != nil {
		return nil, err
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, domain.ErrOrderNotFound
	}
	var doc mongoOrder
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	oid, err := objectID(userID)
	if err != nil {
		return []*domain.Order{}, nil
	}
	return r.find(ctx, bson.M{"user": oid}, options.Find().SetSort(newestFirst))
}

func (r *OrderRepository) List(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, int64, error) {
	q := bson.M{}
	if filter.Status != "" {
		q["status"] = filter.Status
	}

	total, err := r.col.CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	opts := options.Find().
		SetSort(newestFirst).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))
	orders, err := r.find(ctx, q, opts)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// Update persists the mutable lifecycle fields of an order.
func (r *OrderRepository) Update(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	oid, err := objectID(o.ID)
	if err != nil {
		return nil, domain.ErrOrderNotFound
	}
	set := bson.M{
		"status":     string(o.Status),
		"updated_at": o.UpdatedAt.UTC(),
	}
	if o.EstimatedDeliveryTime != nil {
		set["estimated_delivery_time"] = o.EstimatedDeliveryTime.UTC()
	}
	if o.ConfirmedAt != nil {
		set["confirmed_at"] = o.ConfirmedAt.UTC()
	}
	if o.ConfirmedBy != "" {
		admin, err := objectID(o.ConfirmedBy)
		if err != nil {
			return nil, fmt.Errorf("order confirmed_by %q: %w", o.ConfirmedBy, err)
		}
		set["confirmed_by"] = admin
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc mongoOrder
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("update order: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *OrderRepository) CountByStatus(ctx context.Context, status domain.OrderStatus) (int64, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"status": string(status)})
	if err != nil {
		return 0, fmt.Errorf("count orders by status: %w", err)
	}
	return n, nil
}

func (r *OrderRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.col.EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

func (r *OrderRepository) Revenue(ctx context.Context, statuses []domain.OrderStatus) (float64, error) {
	in := make(bson.A, 0, len(statuses))
	for _, s := range statuses {
		in = append(in, string(s))
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": bson.M{"$in": in}}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$total_amount"}}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("revenue aggregate: %w", err)
	}
	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("decode revenue: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

func (r *OrderRepository) Recent(ctx context.Context, limit int) ([]*domain.Order, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(newestFirst).SetLimit(int64(limit)))
}

// EnsureIndexes creates the order indexes.
func (r *OrderRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("order indexes: %w", err)
	}
	return nil
}

var newestFirst = bson.D{{Key: "created_at", Value: -1}}

func (r *OrderRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Order, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	var docs []mongoOrder
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	out := make([]*domain.Order, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}
