package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shareit-app/referral-service/internal/models"
	"github.com/shareit-app/referral-service/internal/schema"
	"github.com/shareit-app/referral-service/pkg/db"
)

// RecommendationRepo reads recommendations as raw documents so the schema
// adapter can resolve historical field aliases. All writes use canonical
// field names only.
type RecommendationRepo struct {
	col *mongo.Collection
}

func NewRecommendationRepo(database *mongo.Database) *RecommendationRepo {
	return &RecommendationRepo{col: database.Collection(db.RecommendationsCollection)}
}

func (r *RecommendationRepo) Insert(ctx context.Context, rec *models.Recommendation) error {
	if _, err := r.col.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("insert recommendation: %w", err)
	}
	return nil
}

func (r *RecommendationRepo) GetRaw(ctx context.Context, id string) (bson.M, error) {
	var raw bson.M
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("get recommendation: %w", err)
	}
	return raw, nil
}

// FindRawBySubstring is the compatibility shim for legacy ids: an anchored
// substring match against _id. Exact-match lookups must be tried first.
func (r *RecommendationRepo) FindRawBySubstring(ctx context.Context, idFragment string) (bson.M, error) {
	pattern := regexp.QuoteMeta(idFragment)
	var raw bson.M
	err := r.col.FindOne(ctx, bson.M{"_id": bson.M{"$regex": pattern}}).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find recommendation by fragment: %w", err)
	}
	return raw, nil
}

// ListRawByOwner queries across every key the creator id was historically
// stored under. The canonical key is indexed; the alias keys only match
// legacy documents and are expected to be rare.
func (r *RecommendationRepo) ListRawByOwner(ctx context.Context, userID string) ([]bson.M, error) {
	or := make([]bson.M, 0, len(schema.CreatorAliases()))
	for _, key := range schema.CreatorAliases() {
		or = append(or, bson.M{key: userID})
	}
	cur, err := r.col.Find(ctx, bson.M{"$or": or})
	if err != nil {
		return nil, fmt.Errorf("list by owner: %w", err)
	}
	defer cur.Close(ctx)

	var out []bson.M
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("list by owner decode: %w", err)
	}
	return out, nil
}

func (r *RecommendationRepo) ListRawRecent(ctx context.Context, limit int64) ([]bson.M, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list recent: %w", err)
	}
	defer cur.Close(ctx)

	var out []bson.M
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("list recent decode: %w", err)
	}
	return out, nil
}

func (r *RecommendationRepo) UpdateRatings(ctx context.Context, id string, ratings map[string]int, mean float64) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"ratings": ratings, "mean_rating": mean},
	})
	if err != nil {
		return fmt.Errorf("update ratings: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: recommendation %s", models.ErrNotFound, id)
	}
	return nil
}

// IncSavedCount is best-effort display bookkeeping; the per-user dedup lives
// on saved offers, not here.
func (r *RecommendationRepo) IncSavedCount(ctx context.Context, id string) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"saved_count": 1}})
	if err != nil {
		return fmt.Errorf("inc saved count: %w", err)
	}
	return nil
}
