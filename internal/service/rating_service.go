package service

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/shareit-app/referral-service/internal/models"
)

// RatingStore is the write side the aggregator needs.
type RatingStore interface {
	UpdateRatings(ctx context.Context, id string, ratings map[string]int, mean float64) error
}

type RatedUserStore interface {
	SetMeanRating(ctx context.Context, id string, mean float64) error
}

// RatingDirectory extends lookup with the owner listing the creator-level
// recompute walks.
type RatingDirectory interface {
	Directory
	ListByOwner(ctx context.Context, userID string) ([]*models.Recommendation, error)
}

// RatingService records scores and keeps both means consistent: the
// recommendation's mean and the creator's overall mean across all their
// recommendations. The creator-level value is always a full recompute, never
// an incremental update, so partial failures cannot make it drift.
type RatingService struct {
	recs      RatingStore
	users     RatedUserStore
	directory RatingDirectory
	log       *zap.Logger
}

func NewRatingService(recs RatingStore, users RatedUserStore, directory RatingDirectory, log *zap.Logger) *RatingService {
	return &RatingService{recs: recs, users: users, directory: directory, log: log}
}

// Rate upserts the rater's score (re-rating is last-write-wins). Self-ratings
// are rejected before any write. O(creator's recommendation count) by design.
func (s *RatingService) Rate(ctx context.Context, recommendationID, raterUserID string, score int) error {
	if score < 1 || score > 5 {
		return fmt.Errorf("%w: score must be between 1 and 5", models.ErrValidation)
	}

	rec, err := s.directory.GetByID(ctx, recommendationID)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("%w: recommendation %s", models.ErrNotFound, recommendationID)
	}
	if rec.CreatorUserID == raterUserID {
		return fmt.Errorf("%w", models.ErrSelfRating)
	}

	ratings := make(map[string]int, len(rec.Ratings)+1)
	for k, v := range rec.Ratings {
		ratings[k] = v
	}
	ratings[raterUserID] = score

	mean, _ := models.ComputeMeanRating(ratings, rec.CreatorUserID)
	if err := s.recs.UpdateRatings(ctx, rec.ID, ratings, mean); err != nil {
		return err
	}

	return s.recomputeCreatorMean(ctx, rec.CreatorUserID, rec.ID, ratings)
}

// recomputeCreatorMean walks every recommendation the creator owns and
// averages all rating entries that are not the creator's own. justRated
// overrides the stored ratings for the recommendation that was updated in
// this call, since the listing may lag the write.
func (s *RatingService) recomputeCreatorMean(ctx context.Context, creatorUserID, justRatedID string, justRated map[string]int) error {
	recs, err := s.directory.ListByOwner(ctx, creatorUserID)
	if err != nil {
		return err
	}

	sum, n := 0, 0
	seen := false
	count := func(ratings map[string]int) {
		for rater, score := range ratings {
			if rater == creatorUserID {
				continue
			}
			sum += score
			n++
		}
	}
	for _, rec := range recs {
		if rec.ID == justRatedID {
			seen = true
			count(justRated)
			continue
		}
		count(rec.Ratings)
	}
	if !seen {
		count(justRated)
	}

	mean := 0.0
	if n > 0 {
		mean = math.Round(float64(sum)/float64(n)*10) / 10
	}
	if err := s.users.SetMeanRating(ctx, creatorUserID, mean); err != nil {
		return err
	}
	s.log.Debug("creator mean recomputed",
		zap.String("creator_user_id", creatorUserID),
		zap.Float64("mean", mean),
		zap.Int("ratings", n))
	return nil
}
