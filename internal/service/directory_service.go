package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/shareit-app/referral-service/internal/models"
	"github.com/shareit-app/referral-service/internal/schema"
)

// minOwnerIDLen guards ListByOwner against garbage ids; anything shorter
// cannot be a real user id and returns an empty list instead of an error.
const minOwnerIDLen = 4

const defaultRecentLimit = 50

// RecommendationSource is the raw-document read side of the recommendations
// collection. Raw maps let the schema adapter resolve historical aliases.
type RecommendationSource interface {
	GetRaw(ctx context.Context, id string) (bson.M, error)
	FindRawBySubstring(ctx context.Context, idFragment string) (bson.M, error)
	ListRawByOwner(ctx context.Context, userID string) ([]bson.M, error)
	ListRawRecent(ctx context.Context, limit int64) ([]bson.M, error)
}

// DirectoryService is the lookup/listing surface over recommendations. Every
// document it returns has passed through the schema adapter.
type DirectoryService struct {
	recs RecommendationSource
	log  *zap.Logger
	now  func() time.Time
}

func NewDirectoryService(recs RecommendationSource, log *zap.Logger) *DirectoryService {
	return &DirectoryService{recs: recs, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// GetByID returns the recommendation or nil when absent. Exact match first;
// the substring fallback is a compatibility shim for legacy ids and is not a
// search feature.
func (s *DirectoryService) GetByID(ctx context.Context, id string) (*models.Recommendation, error) {
	if id == "" {
		return nil, nil
	}
	raw, err := s.recs.GetRaw(ctx, id)
	if err != nil {
		// reads are idempotent; retry once before giving up
		raw, err = s.recs.GetRaw(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	if raw == nil {
		raw, err = s.recs.FindRawBySubstring(ctx, id)
		if err != nil || raw == nil {
			return nil, err
		}
		s.log.Warn("recommendation resolved via legacy id fragment", zap.String("fragment", id))
	}
	return s.normalize(raw)
}

func (s *DirectoryService) ListByOwner(ctx context.Context, userID string) ([]*models.Recommendation, error) {
	if len(userID) < minOwnerIDLen {
		return []*models.Recommendation{}, nil
	}
	raws, err := s.recs.ListRawByOwner(ctx, userID)
	if err != nil {
		raws, err = s.recs.ListRawByOwner(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	return s.normalizeAll(raws), nil
}

func (s *DirectoryService) ListRecent(ctx context.Context, limit int) ([]*models.Recommendation, error) {
	if limit <= 0 || limit > defaultRecentLimit {
		limit = defaultRecentLimit
	}
	raws, err := s.recs.ListRawRecent(ctx, int64(limit))
	if err != nil {
		raws, err = s.recs.ListRawRecent(ctx, int64(limit))
	}
	if err != nil {
		return nil, err
	}
	return s.normalizeAll(raws), nil
}

func (s *DirectoryService) normalize(raw bson.M) (*models.Recommendation, error) {
	rec, err := schema.Normalize(raw, s.now())
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// normalizeAll drops records the adapter cannot salvage rather than failing
// the whole listing.
func (s *DirectoryService) normalizeAll(raws []bson.M) []*models.Recommendation {
	out := make([]*models.Recommendation, 0, len(raws))
	for _, raw := range raws {
		rec, err := schema.Normalize(raw, s.now())
		if err != nil {
			s.log.Warn("skipping unreadable recommendation record", zap.Error(err))
			continue
		}
		out = append(out, rec)
	}
	return out
}
