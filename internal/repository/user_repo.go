package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shareit-app/referral-service/internal/models"
	"github.com/shareit-app/referral-service/pkg/db"
)

type UserRepo struct {
	col *mongo.Collection
}

func NewUserRepo(database *mongo.Database) *UserRepo {
	return &UserRepo{col: database.Collection(db.UsersCollection)}
}

func (r *UserRepo) Get(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// Ensure upserts the profile fields on sign-in, creating the user with
// zeroed counters on first sight. Counters are never touched here.
func (r *UserRepo) Ensure(ctx context.Context, id, displayName, photoURL string) (*models.User, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"display_name": displayName,
			"photo_url":    photoURL,
			"updated_at":   now,
		},
		"$setOnInsert": bson.M{
			"coins":              int64(0),
			"referrals_count":    int64(0),
			"saved_offers_count": int64(0),
			"mean_rating":        float64(0),
			"created_at":         now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var u models.User
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&u); err != nil {
		return nil, fmt.Errorf("ensure user: %w", err)
	}
	return &u, nil
}

// Credit atomically adds to the user's coin balance and referral count.
// $inc is the store's atomic numeric increment, so concurrent credits to the
// same user cannot lose updates.
func (r *UserRepo) Credit(ctx context.Context, id string, coins, referrals int64) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"coins": coins, "referrals_count": referrals},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("credit user: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: user %s", models.ErrNotFound, id)
	}
	return nil
}

func (r *UserRepo) IncSavedOffers(ctx context.Context, id string, delta int64) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"saved_offers_count": delta},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("inc saved offers: %w", err)
	}
	return nil
}

func (r *UserRepo) SetMeanRating(ctx context.Context, id string, mean float64) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"mean_rating": mean, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("set mean rating: %w", err)
	}
	return nil
}
