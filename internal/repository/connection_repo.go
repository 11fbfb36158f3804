package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shareit-app/referral-service/internal/models"
	"github.com/shareit-app/referral-service/pkg/db"
)

type ConnectionRepo struct {
	col *mongo.Collection
}

func NewConnectionRepo(database *mongo.Database) *ConnectionRepo {
	return &ConnectionRepo{col: database.Collection(db.ConnectionsCollection)}
}

// Upsert writes one directed edge. Re-running after a partial failure is
// safe: the (user, other) pair is the identity of the edge.
func (r *ConnectionRepo) Upsert(ctx context.Context, userID, otherUserID string) error {
	filter := bson.M{"user_id": userID, "other_user_id": otherUserID}
	update := bson.M{"$setOnInsert": bson.M{
		"_id":        uuid.NewString(),
		"created_at": time.Now().UTC(),
	}}
	_, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert connection: %w", err)
	}
	return nil
}

func (r *ConnectionRepo) Exists(ctx context.Context, userID, otherUserID string) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"user_id": userID, "other_user_id": otherUserID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("connection exists: %w", err)
	}
	return n > 0, nil
}

func (r *ConnectionRepo) ListFor(ctx context.Context, userID string) ([]string, error) {
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}
	defer cur.Close(ctx)

	var edges []models.Connection
	if err := cur.All(ctx, &edges); err != nil {
		return nil, fmt.Errorf("list connections decode: %w", err)
	}
	out := make([]string, 0, len(edges))
	for _, e := range edges {
		out = append(out, e.OtherUserID)
	}
	return out, nil
}
