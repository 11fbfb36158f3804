package models

import "time"

// Connection is one direction of a symmetric edge. Connecting A and B writes
// two of these (A->B and B->A) so either user's connection list contains the
// other without a reverse lookup.
type Connection struct {
	ID          string    `bson:"_id" json:"id"`
	UserID      string    `bson:"user_id" json:"user_id"`
	OtherUserID string    `bson:"other_user_id" json:"other_user_id"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}
