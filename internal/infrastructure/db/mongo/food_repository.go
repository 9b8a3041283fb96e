package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/foodhub/ordering-api/internal/core/domain"
)

const (
	collectionFoods = "foods"
	searchMaxTime   = 5 * time.Second
)

type FoodRepository struct {
	col *mongo.Collection
}

func NewFoodRepository(db *mongo.Database) *FoodRepository {
	return &FoodRepository{col: db.Collection(collectionFoods)}
}

type mongoFood struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Name            string             `bson:"name"`
	Description     string             `bson:"description"`
	Price           float64            `bson:"price"`
	Category        string             `bson:"category"`
	Image           string             `bson:"image"`
	Available       bool               `bson:"available"`
	PreparationTime int                `bson:"preparation_time"`
	CreatedAt       time.Time          `bson:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at"`
}

func newMongoFood(f *domain.Food) mongoFood {
	return mongoFood{
		Name:            f.Name,
		Description:     f.Description,
		Price:           f.Price,
		Category:        f.Category,
		Image:           f.Image,
		Available:       f.Available,
		PreparationTime: f.PreparationTime,
		CreatedAt:       f.CreatedAt.UTC(),
		UpdatedAt:       f.UpdatedAt.UTC(),
	}
}

func (m *mongoFood) toDomain() *domain.Food {
	return &domain.Food{
		ID:              m.ID.Hex(),
		Name:            m.Name,
		Description:     m.Description,
		Price:           m.Price,
		Category:        m.Category,
		Image:           m.Image,
		Available:       m.Available,
		PreparationTime: m.PreparationTime,
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
}

func (r *FoodRepository) Create(ctx context.Context, f *domain.Food) (*domain.Food, error) {
	doc := newMongoFood(f)
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert food: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

// FindByID reports ErrInvalidFoodID for ids that are not object ids.
func (r *FoodRepository) FindByID(ctx context.Context, id string) (*domain.Food, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, domain.ErrInvalidFoodID
	}
	var doc mongoFood
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrFoodNotFound
		}
		return nil, fmt.Errorf("find food: %w", err)
	}
	return doc.toDomain(), nil
}

// FindByIDs skips ids that are not valid object ids; callers treat them the
// same as unknown items.
func (r *FoodRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Food, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := objectID(id); err == nil {
			oids = append(oids, oid)
		}
	}
	out := make(map[string]*domain.Food, len(oids))
	if len(oids) == 0 {
		return out, nil
	}

	docs, err := r.find(ctx, bson.M{"_id": bson.M{"$in": oids}}, options.Find())
	if err != nil {
		return nil, err
	}
	for _, f := range docs {
		out[f.ID] = f
	}
	return out, nil
}

func (r *FoodRepository) List(ctx context.Context, filter domain.FoodFilter) ([]*domain.Food, error) {
	q := bson.M{}
	if filter.Category != "" {
		q["category"] = filter.Category
	}
	if filter.Available != nil {
		q["available"] = *filter.Available
	}
	return r.find(ctx, q, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}

// Search matches query literally and case-insensitively against name,
// description and category.
func (r *FoodRepository) Search(ctx context.Context, query string, limit int) ([]*domain.Food, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	q := bson.M{
		"$or": bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
			bson.M{"category": pattern},
		},
	}
	opts := options.Find().
		SetLimit(int64(limit)).
		SetMaxTime(searchMaxTime).
		SetSort(bson.D{{Key: "name", Value: 1}})
	return r.find(ctx, q, opts)
}

// Categories lists the distinct categories of available items.
func (r *FoodRepository) Categories(ctx context.Context) ([]string, error) {
	raw, err := r.col.Distinct(ctx, "category", bson.M{"available": true})
	if err != nil {
		return nil, fmt.Errorf("distinct categories: %w", err)
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *FoodRepository) Replace(ctx context.Context, f *domain.Food) (*domain.Food, error) {
	oid, err := objectID(f.ID)
	if err != nil {
		return nil, domain.ErrInvalidFoodID
	}
	doc := newMongoFood(f)
	doc.ID = oid
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return nil, fmt.Errorf("replace food: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrFoodNotFound
	}
	return doc.toDomain(), nil
}

func (r *FoodRepository) SetAvailability(ctx context.Context, id string, available bool) (*domain.Food, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, domain.ErrInvalidFoodID
	}
	update := bson.M{"$set": bson.M{"available": available, "updated_at": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc mongoFood
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrFoodNotFound
		}
		return nil, fmt.Errorf("update food availability: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *FoodRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return domain.ErrInvalidFoodID
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete food: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrFoodNotFound
	}
	return nil
}

// EnsureIndexes creates the catalog indexes.
func (r *FoodRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "available", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("food indexes: %w", err)
	}
	return nil
}

func (r *FoodRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Food, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find foods: %w", err)
	}
	var docs []mongoFood
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode foods: %w", err)
	}
	out := make([]*domain.Food, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}
