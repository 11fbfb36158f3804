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

type SavedOfferRepo struct {
	col *mongo.Collection
}

func NewSavedOfferRepo(database *mongo.Database) *SavedOfferRepo {
	return &SavedOfferRepo{col: database.Collection(db.SavedOffersCollection)}
}

func (r *SavedOfferRepo) Get(ctx context.Context, id string) (*models.SavedOffer, error) {
	var s models.SavedOffer
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("get saved offer: %w", err)
	}
	return &s, nil
}

func (r *SavedOfferRepo) FindByViewerAndRecommendation(ctx context.Context, viewerID, recommendationID string) (*models.SavedOffer, error) {
	var s models.SavedOffer
	err := r.col.FindOne(ctx, bson.M{
		"saver_user_id":     viewerID,
		"recommendation_id": recommendationID,
	}).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find saved offer: %w", err)
	}
	return &s, nil
}

// Insert creates the saved offer. The unique (saver, recommendation) index
// turns a racing duplicate save into a duplicate-key error; callers treat
// that as "already saved" and re-read.
func (r *SavedOfferRepo) Insert(ctx context.Context, offer *models.SavedOffer) error {
	if _, err := r.col.InsertOne(ctx, offer); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateSave
		}
		return fmt.Errorf("insert saved offer: %w", err)
	}
	return nil
}

// ErrDuplicateSave signals a concurrent save beat this one to the unique index.
var ErrDuplicateSave = errors.New("saved offer already exists")

// MarkClaimed performs the saved -> claimed transition as a conditional
// update on claimed=false. Exactly one caller observes won=true no matter
// how many race; only that caller credits the referrer.
func (r *SavedOfferRepo) MarkClaimed(ctx context.Context, id string, at time.Time) (won bool, err error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "claimed": false},
		bson.M{"$set": bson.M{"claimed": true, "claimed_at": at}},
	)
	if err != nil {
		return false, fmt.Errorf("mark claimed: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

func (r *SavedOfferRepo) ListByViewer(ctx context.Context, viewerID string) ([]models.SavedOffer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "saved_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"saver_user_id": viewerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list saved offers: %w", err)
	}
	defer cur.Close(ctx)

	var out []models.SavedOffer
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("list saved offers decode: %w", err)
	}
	return out, nil
}
