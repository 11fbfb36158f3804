package models

import (
	"math"
	"time"
)

// MaxRecommendationText bounds the free-text field on create.
const MaxRecommendationText = 1000

// RecommendationTTL is how long a recommendation's discount stays valid.
const RecommendationTTL = 30 * 24 * time.Hour

type Recommendation struct {
	ID            string           `bson:"_id" json:"id"`
	BusinessID    string           `bson:"business_id" json:"business_id"`
	CreatorUserID string           `bson:"creator_user_id" json:"creator_user_id"`
	BusinessName  string           `bson:"business_name,omitempty" json:"business_name,omitempty"`
	BusinessImage string           `bson:"business_image,omitempty" json:"business_image,omitempty"`
	Text          string           `bson:"text" json:"text"`
	ImageURL      string           `bson:"image_url,omitempty" json:"image_url,omitempty"`
	Discount      string           `bson:"discount" json:"discount"`
	Ratings       map[string]int   `bson:"ratings" json:"ratings"`
	MeanRating    float64          `bson:"mean_rating" json:"mean_rating"`
	SavedCount    int64            `bson:"saved_count" json:"saved_count"`
	ValidUntil    time.Time        `bson:"valid_until" json:"valid_until"`
	CreatedAt     time.Time        `bson:"created_at" json:"created_at"`

	// Display-layer fields produced by the schema adapter; never persisted
	// and never used for aggregation.
	HasRatings          bool    `bson:"-" json:"has_ratings"`
	DisplayRating       float64 `bson:"-" json:"display_rating"`
	SavedCountEstimated bool    `bson:"-" json:"saved_count_estimated,omitempty"`
}

// ComputeMeanRating returns the arithmetic mean of all rating entries except
// any self-rating by the creator, rounded to one decimal. ok is false when
// no countable ratings exist; callers must not treat that as a zero mean.
func ComputeMeanRating(ratings map[string]int, creatorUserID string) (mean float64, ok bool) {
	sum, n := 0, 0
	for rater, score := range ratings {
		if rater == creatorUserID {
			continue
		}
		sum += score
		n++
	}
	if n == 0 {
		return 0, false
	}
	return math.Round(float64(sum)/float64(n)*10) / 10, true
}
