package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/shareit-app/referral-service/internal/models"
)

type ConnectionStore interface {
	Upsert(ctx context.Context, userID, otherUserID string) error
	Exists(ctx context.Context, userID, otherUserID string) (bool, error)
	ListFor(ctx context.Context, userID string) ([]string, error)
}

// GraphService manages symmetric is-connected-to edges. The store holds two
// directed records per connection; the writer owns the symmetry invariant
// since the store cannot span both in one transaction.
type GraphService struct {
	edges ConnectionStore
	log   *zap.Logger
}

func NewGraphService(edges ConnectionStore, log *zap.Logger) *GraphService {
	return &GraphService{edges: edges, log: log}
}

// Connect links two users, immediately and mutually. Idempotent: both writes
// are upserts keyed on the pair, so a retry after a partial failure simply
// fills in the missing direction.
func (s *GraphService) Connect(ctx context.Context, userA, userB string) error {
	if userA == "" || userB == "" {
		return fmt.Errorf("%w: both user ids are required", models.ErrValidation)
	}
	if userA == userB {
		return fmt.Errorf("%w: cannot connect a user to themselves", models.ErrValidation)
	}

	if err := s.edges.Upsert(ctx, userA, userB); err != nil {
		return err
	}
	if err := s.edges.Upsert(ctx, userB, userA); err != nil {
		return err
	}
	return nil
}

// AreConnected checks both directions. A one-sided edge still counts as
// connected (historical data predates the symmetric writer) but is logged as
// a consistency warning.
func (s *GraphService) AreConnected(ctx context.Context, userA, userB string) (bool, error) {
	ab, err := s.edges.Exists(ctx, userA, userB)
	if err != nil {
		return false, err
	}
	ba, err := s.edges.Exists(ctx, userB, userA)
	if err != nil {
		return false, err
	}
	if ab != ba {
		s.log.Warn("asymmetric connection edge",
			zap.String("user_a", userA),
			zap.String("user_b", userB),
			zap.Bool("a_to_b", ab),
			zap.Bool("b_to_a", ba))
	}
	return ab || ba, nil
}

func (s *GraphService) ListConnections(ctx context.Context, userID string) ([]string, error) {
	return s.edges.ListFor(ctx, userID)
}
