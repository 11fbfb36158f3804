package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the secondary indexes the repositories query by.
// Safe to call on every boot.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	// creator lookups must not fall back to collection scans
	_, err := database.Collection(RecommendationsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "creator_user_id", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("recommendations indexes: %w", err)
	}

	// backs the at-most-one-saved-offer-per-(saver, recommendation) invariant
	_, err = database.Collection(SavedOffersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "saver_user_id", Value: 1}, {Key: "recommendation_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "saver_user_id", Value: 1}, {Key: "saved_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("saved_offers indexes: %w", err)
	}

	_, err = database.Collection(ConnectionsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "other_user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return fmt.Errorf("connections indexes: %w", err)
	}

	return nil
}
