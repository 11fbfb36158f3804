package models

import "time"

// OfferState is the lifecycle of a (recommendation, viewer) pair. Transitions
// only move forward: none -> saved -> claimed.
type OfferState string

const (
	OfferStateNone    OfferState = "none"
	OfferStateSaved   OfferState = "saved"
	OfferStateClaimed OfferState = "claimed"
)

// SavedOffer is a viewer's claim-ticket derived from a recommendation.
// OriginalReferrerUserID is frozen at save time; the claim reward always goes
// to this user, never to whoever owns the recommendation later.
type SavedOffer struct {
	ID                     string     `bson:"_id" json:"id"`
	SaverUserID            string     `bson:"saver_user_id" json:"saver_user_id"`
	RecommendationID       string     `bson:"recommendation_id" json:"recommendation_id"`
	OriginalReferrerUserID string     `bson:"original_referrer_user_id" json:"original_referrer_user_id"`
	Saved                  bool       `bson:"saved" json:"saved"`
	Claimed                bool       `bson:"claimed" json:"claimed"`
	SavedAt                time.Time  `bson:"saved_at" json:"saved_at"`
	ClaimedAt              *time.Time `bson:"claimed_at,omitempty" json:"claimed_at,omitempty"`
	ValidUntil             time.Time  `bson:"valid_until" json:"valid_until"`
}

func (s *SavedOffer) State() OfferState {
	switch {
	case s == nil || !s.Saved:
		return OfferStateNone
	case s.Claimed:
		return OfferStateClaimed
	default:
		return OfferStateSaved
	}
}

// CanClaim reports whether the saved -> claimed transition is legal.
func (s *SavedOffer) CanClaim() bool {
	return s.State() == OfferStateSaved
}
