package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/shareit-app/referral-service/internal/models"
	"github.com/shareit-app/referral-service/internal/repository"
)

// In-memory stand-ins for the Mongo repositories. They store raw documents
// the same way the real collections do so the schema adapter is exercised.

type fakeRecStore struct {
	mu   sync.Mutex
	docs map[string]bson.M
}

func newFakeRecStore() *fakeRecStore {
	return &fakeRecStore{docs: map[string]bson.M{}}
}

func ratingsToBSON(ratings map[string]int) bson.M {
	out := bson.M{}
	for k, v := range ratings {
		out[k] = v
	}
	return out
}

func (f *fakeRecStore) Insert(ctx context.Context, rec *models.Recommendation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[rec.ID] = bson.M{
		"_id":             rec.ID,
		"business_id":     rec.BusinessID,
		"business_name":   rec.BusinessName,
		"business_image":  rec.BusinessImage,
		"creator_user_id": rec.CreatorUserID,
		"text":            rec.Text,
		"image_url":       rec.ImageURL,
		"discount":        rec.Discount,
		"ratings":         ratingsToBSON(rec.Ratings),
		"saved_count":     rec.SavedCount,
		"valid_until":     rec.ValidUntil,
		"created_at":      rec.CreatedAt,
	}
	return nil
}

// addRaw seeds a document verbatim, for legacy-shaped records.
func (f *fakeRecStore) addRaw(doc bson.M) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, _ := doc["_id"].(string)
	if id == "" {
		id, _ = doc["id"].(string)
	}
	f.docs[id] = doc
}

func (f *fakeRecStore) GetRaw(ctx context.Context, id string) (bson.M, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[id]
	if !ok {
		return nil, nil
	}
	return doc, nil
}

func (f *fakeRecStore) FindRawBySubstring(ctx context.Context, idFragment string) (bson.M, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, doc := range f.docs {
		if strings.Contains(id, idFragment) {
			return doc, nil
		}
	}
	return nil, nil
}

var fakeCreatorKeys = []string{"creator_user_id", "userId", "recommenderId", "creatorId"}

func (f *fakeRecStore) ListRawByOwner(ctx context.Context, userID string) ([]bson.M, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []bson.M
	for _, doc := range f.docs {
		for _, key := range fakeCreatorKeys {
			if doc[key] == userID {
				out = append(out, doc)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeRecStore) ListRawRecent(ctx context.Context, limit int64) ([]bson.M, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []bson.M
	for _, doc := range f.docs {
		out = append(out, doc)
	}
	sort.Slice(out, func(i, j int) bool {
		ti, _ := out[i]["created_at"].(time.Time)
		tj, _ := out[j]["created_at"].(time.Time)
		return ti.After(tj)
	})
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRecStore) UpdateRatings(ctx context.Context, id string, ratings map[string]int, mean float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[id]
	if !ok {
		return models.ErrNotFound
	}
	doc["ratings"] = ratingsToBSON(ratings)
	doc["mean_rating"] = mean
	return nil
}

func (f *fakeRecStore) IncSavedCount(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[id]
	if !ok {
		return models.ErrNotFound
	}
	n, _ := doc["saved_count"].(int64)
	doc["saved_count"] = n + 1
	return nil
}

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserStore(ids ...string) *fakeUserStore {
	f := &fakeUserStore{users: map[string]*models.User{}}
	for _, id := range ids {
		f.users[id] = &models.User{ID: id, DisplayName: id}
	}
	return f
}

func (f *fakeUserStore) Get(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) Credit(ctx context.Context, id string, coins, referrals int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return models.ErrNotFound
	}
	u.Coins += coins
	u.ReferralsCount += referrals
	return nil
}

func (f *fakeUserStore) IncSavedOffers(ctx context.Context, id string, delta int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return models.ErrNotFound
	}
	u.SavedOffersCount += delta
	return nil
}

func (f *fakeUserStore) SetMeanRating(ctx context.Context, id string, mean float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return models.ErrNotFound
	}
	u.MeanRating = mean
	return nil
}

type fakeOfferStore struct {
	mu     sync.Mutex
	offers map[string]*models.SavedOffer
}

func newFakeOfferStore() *fakeOfferStore {
	return &fakeOfferStore{offers: map[string]*models.SavedOffer{}}
}

func (f *fakeOfferStore) Get(ctx context.Context, id string) (*models.SavedOffer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.offers[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOfferStore) FindByViewerAndRecommendation(ctx context.Context, viewerID, recommendationID string) (*models.SavedOffer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.offers {
		if o.SaverUserID == viewerID && o.RecommendationID == recommendationID {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeOfferStore) Insert(ctx context.Context, offer *models.SavedOffer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.offers {
		if o.SaverUserID == offer.SaverUserID && o.RecommendationID == offer.RecommendationID {
			return repository.ErrDuplicateSave
		}
	}
	cp := *offer
	f.offers[offer.ID] = &cp
	return nil
}

func (f *fakeOfferStore) MarkClaimed(ctx context.Context, id string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.offers[id]
	if !ok || o.Claimed {
		return false, nil
	}
	o.Claimed = true
	o.ClaimedAt = &at
	return true, nil
}

func (f *fakeOfferStore) ListByViewer(ctx context.Context, viewerID string) ([]models.SavedOffer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.SavedOffer
	for _, o := range f.offers {
		if o.SaverUserID == viewerID {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SavedAt.After(out[j].SavedAt) })
	return out, nil
}

func (f *fakeOfferStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.offers)
}

type fakeEdgeStore struct {
	mu    sync.Mutex
	edges map[string]map[string]bool
}

func newFakeEdgeStore() *fakeEdgeStore {
	return &fakeEdgeStore{edges: map[string]map[string]bool{}}
}

func (f *fakeEdgeStore) Upsert(ctx context.Context, userID, otherUserID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.edges[userID] == nil {
		f.edges[userID] = map[string]bool{}
	}
	f.edges[userID][otherUserID] = true
	return nil
}

func (f *fakeEdgeStore) Exists(ctx context.Context, userID, otherUserID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.edges[userID][otherUserID], nil
}

func (f *fakeEdgeStore) ListFor(ctx context.Context, userID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for other := range f.edges[userID] {
		out = append(out, other)
	}
	sort.Strings(out)
	return out, nil
}

type fakeBusinessSource struct {
	businesses map[string]*models.Business
}

func (f *fakeBusinessSource) Get(ctx context.Context, id string) (*models.Business, error) {
	return f.businesses[id], nil
}

type fakeBlobStore struct {
	fail    bool
	uploads int
}

func (f *fakeBlobStore) Upload(ctx context.Context, data []byte, path string) (string, error) {
	if f.fail {
		return "", errors.New("upload failed")
	}
	f.uploads++
	return "https://blobs.example/" + path, nil
}
