package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shareit-app/referral-service/internal/models"
	"github.com/shareit-app/referral-service/pkg/db"
)

// BusinessRepo reads the seeded catalog. The core never mutates businesses
// outside of the boot-time seed.
type BusinessRepo struct {
	col *mongo.Collection
}

func NewBusinessRepo(database *mongo.Database) *BusinessRepo {
	return &BusinessRepo{col: database.Collection(db.BusinessesCollection)}
}

func (r *BusinessRepo) Get(ctx context.Context, id string) (*models.Business, error) {
	var b models.Business
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&b)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("get business: %w", err)
	}
	return &b, nil
}

func (r *BusinessRepo) List(ctx context.Context) ([]models.Business, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}
	defer cur.Close(ctx)

	var out []models.Business
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("list businesses decode: %w", err)
	}
	return out, nil
}

func (r *BusinessRepo) Count(ctx context.Context) (int64, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count businesses: %w", err)
	}
	return n, nil
}

func (r *BusinessRepo) InsertMany(ctx context.Context, businesses []models.Business) error {
	docs := make([]interface{}, len(businesses))
	for i := range businesses {
		docs[i] = businesses[i]
	}
	if _, err := r.col.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert businesses: %w", err)
	}
	return nil
}
