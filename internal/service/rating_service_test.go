package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/shareit-app/referral-service/internal/models"
)

type ratingFixture struct {
	users     *fakeUserStore
	recs      *fakeRecStore
	directory *DirectoryService
	svc       *RatingService
}

func newRatingFixture(t *testing.T, userIDs ...string) *ratingFixture {
	t.Helper()
	f := &ratingFixture{
		users: newFakeUserStore(userIDs...),
		recs:  newFakeRecStore(),
	}
	log := zap.NewNop()
	f.directory = NewDirectoryService(f.recs, log)
	f.svc = NewRatingService(f.recs, f.users, f.directory, log)
	return f
}

func (f *ratingFixture) addRec(t *testing.T, id, creator string) {
	t.Helper()
	err := f.recs.Insert(context.Background(), &models.Recommendation{
		ID:            id,
		CreatorUserID: creator,
		Text:          "t",
		Ratings:       map[string]int{},
		CreatedAt:     time.Now().UTC(),
		ValidUntil:    time.Now().UTC().Add(models.RecommendationTTL),
	})
	if err != nil {
		t.Fatalf("insert rec: %v", err)
	}
}

func (f *ratingFixture) mean(t *testing.T, recID string) (float64, bool) {
	t.Helper()
	rec, err := f.directory.GetByID(context.Background(), recID)
	if err != nil || rec == nil {
		t.Fatalf("get rec %s: %v", recID, err)
	}
	return rec.MeanRating, rec.HasRatings
}

func TestRateScoreBounds(t *testing.T) {
	f := newRatingFixture(t, "creator", "rater")
	f.addRec(t, "r1", "creator")

	for _, score := range []int{0, 6, -1} {
		if err := f.svc.Rate(context.Background(), "r1", "rater", score); !errors.Is(err, models.ErrValidation) {
			t.Errorf("score %d: got %v", score, err)
		}
	}
}

func TestRateSelfRejected(t *testing.T) {
	f := newRatingFixture(t, "creator")
	f.addRec(t, "r1", "creator")

	err := f.svc.Rate(context.Background(), "r1", "creator", 5)
	if !errors.Is(err, models.ErrSelfRating) {
		t.Fatalf("expected self-rating error, got %v", err)
	}
	if _, has := f.mean(t, "r1"); has {
		t.Error("rejected self-rating must leave ratings unchanged")
	}
}

func TestRateComputesMean(t *testing.T) {
	f := newRatingFixture(t, "creator", "x", "y")
	f.addRec(t, "r1", "creator")

	if err := f.svc.Rate(context.Background(), "r1", "x", 3); err != nil {
		t.Fatalf("rate x: %v", err)
	}
	if err := f.svc.Rate(context.Background(), "r1", "y", 5); err != nil {
		t.Fatalf("rate y: %v", err)
	}

	mean, has := f.mean(t, "r1")
	if !has || mean != 4.0 {
		t.Errorf("mean of {3,5}: got %v has=%v", mean, has)
	}
}

func TestRateRoundsToOneDecimal(t *testing.T) {
	f := newRatingFixture(t, "creator", "x", "y", "z")
	f.addRec(t, "r1", "creator")

	f.svc.Rate(context.Background(), "r1", "x", 5)
	f.svc.Rate(context.Background(), "r1", "y", 5)
	f.svc.Rate(context.Background(), "r1", "z", 4)

	mean, _ := f.mean(t, "r1")
	if mean != 4.7 { // 14/3 = 4.666...
		t.Errorf("rounding: got %v", mean)
	}
}

func TestReRateLastWriteWins(t *testing.T) {
	f := newRatingFixture(t, "creator", "x")
	f.addRec(t, "r1", "creator")

	f.svc.Rate(context.Background(), "r1", "x", 2)
	if err := f.svc.Rate(context.Background(), "r1", "x", 4); err != nil {
		t.Fatalf("re-rate: %v", err)
	}

	mean, _ := f.mean(t, "r1")
	if mean != 4.0 {
		t.Errorf("re-rate must replace, not append: mean=%v", mean)
	}
}

func TestLegacySelfRatingDoesNotMoveMean(t *testing.T) {
	f := newRatingFixture(t, "creator", "x", "y")
	// legacy record that already contains a creator self-rating
	f.recs.addRaw(map[string]interface{}{
		"_id":             "legacy",
		"creator_user_id": "creator",
		"ratings":         map[string]interface{}{"x": 3, "creator": 1},
	})

	if err := f.svc.Rate(context.Background(), "legacy", "y", 5); err != nil {
		t.Fatalf("rate: %v", err)
	}
	mean, _ := f.mean(t, "legacy")
	if mean != 4.0 {
		t.Errorf("self-rating entry must be excluded: mean=%v", mean)
	}
}

func TestRateRecomputesCreatorOverallMean(t *testing.T) {
	f := newRatingFixture(t, "creator", "x", "y")
	f.addRec(t, "r1", "creator")
	f.addRec(t, "r2", "creator")

	f.svc.Rate(context.Background(), "r1", "x", 2)
	f.svc.Rate(context.Background(), "r1", "y", 4)
	if err := f.svc.Rate(context.Background(), "r2", "x", 5); err != nil {
		t.Fatalf("rate r2: %v", err)
	}

	// full recompute across both recommendations: (2+4+5)/3 = 3.7
	u, _ := f.users.Get(context.Background(), "creator")
	if u.MeanRating != 3.7 {
		t.Errorf("creator overall mean: got %v", u.MeanRating)
	}
}

func TestRateUnknownRecommendation(t *testing.T) {
	f := newRatingFixture(t, "x")
	if err := f.svc.Rate(context.Background(), "missing", "x", 3); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
