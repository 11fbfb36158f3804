package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shareit-app/referral-service/internal/concurrency"
	"github.com/shareit-app/referral-service/internal/models"
	"github.com/shareit-app/referral-service/internal/repository"
	"github.com/shareit-app/referral-service/pkg/blob"
)

// Claim reward, fixed: the original referrer earns these when a saved offer
// is redeemed.
const (
	ClaimRewardCoins     = 5
	ClaimRewardReferrals = 1
)

const walletJoinWorkers = 4

// Stores required by the offer lifecycle (interfaces so tests can fake them).
type UserStore interface {
	Get(ctx context.Context, id string) (*models.User, error)
	Credit(ctx context.Context, id string, coins, referrals int64) error
	IncSavedOffers(ctx context.Context, id string, delta int64) error
}

type SavedOfferStore interface {
	Get(ctx context.Context, id string) (*models.SavedOffer, error)
	FindByViewerAndRecommendation(ctx context.Context, viewerID, recommendationID string) (*models.SavedOffer, error)
	Insert(ctx context.Context, offer *models.SavedOffer) error
	MarkClaimed(ctx context.Context, id string, at time.Time) (bool, error)
	ListByViewer(ctx context.Context, viewerID string) ([]models.SavedOffer, error)
}

type RecommendationWriter interface {
	Insert(ctx context.Context, rec *models.Recommendation) error
	IncSavedCount(ctx context.Context, id string) error
}

type BusinessSource interface {
	Get(ctx context.Context, id string) (*models.Business, error)
}

type Directory interface {
	GetByID(ctx context.Context, id string) (*models.Recommendation, error)
}

// OfferService governs the recommendation lifecycle: create, save into a
// viewer's wallet, claim. State machine per (recommendation, viewer):
// none -> saved -> claimed, no transition backwards.
type OfferService struct {
	users      UserStore
	offers     SavedOfferStore
	recs       RecommendationWriter
	businesses BusinessSource
	directory  Directory
	blobs      blob.Store
	log        *zap.Logger
	now        func() time.Time
}

func NewOfferService(users UserStore, offers SavedOfferStore, recs RecommendationWriter, businesses BusinessSource, directory Directory, blobs blob.Store, log *zap.Logger) *OfferService {
	return &OfferService{
		users:      users,
		offers:     offers,
		recs:       recs,
		businesses: businesses,
		directory:  directory,
		blobs:      blobs,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// CreateRecommendation validates input, copies the business discount at
// creation time and persists the record. photo, when present, is uploaded to
// the blob store and its URL wins over imageURL.
func (s *OfferService) CreateRecommendation(ctx context.Context, creatorUserID, businessID, text, imageURL string, photo []byte) (*models.Recommendation, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: text is required", models.ErrValidation)
	}
	if len(text) > models.MaxRecommendationText {
		return nil, fmt.Errorf("%w: text exceeds %d characters", models.ErrValidation, models.MaxRecommendationText)
	}

	business, err := s.businesses.Get(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, fmt.Errorf("%w: business %s", models.ErrNotFound, businessID)
	}

	id := uuid.NewString()

	if len(photo) > 0 {
		url, err := s.blobs.Upload(ctx, photo, "recommendations/"+id)
		if err != nil {
			return nil, fmt.Errorf("%w: photo upload failed", models.ErrValidation)
		}
		imageURL = url
	}

	now := s.now()
	rec := &models.Recommendation{
		ID:            id,
		BusinessID:    business.ID,
		BusinessName:  business.Name,
		CreatorUserID: creatorUserID,
		Text:          text,
		ImageURL:      imageURL,
		Discount:      business.Discount, // frozen copy, not a live reference
		Ratings:       map[string]int{},
		SavedCount:    0,
		ValidUntil:    now.Add(models.RecommendationTTL),
		CreatedAt:     now,
	}
	if len(business.Images) > 0 {
		rec.BusinessImage = business.Images[0]
	}

	if err := s.recs.Insert(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Save puts a recommendation into the viewer's wallet. Idempotent per
// (viewer, recommendation): a retry returns the existing record and never
// double-counts the viewer's savedOffersCount.
func (s *OfferService) Save(ctx context.Context, viewerUserID, recommendationID string) (*models.SavedOffer, bool, error) {
	rec, err := s.directory.GetByID(ctx, recommendationID)
	if err != nil {
		return nil, false, err
	}
	if rec == nil {
		return nil, false, fmt.Errorf("%w: recommendation %s", models.ErrNotFound, recommendationID)
	}
	if rec.CreatorUserID == viewerUserID {
		return nil, false, fmt.Errorf("%w", models.ErrSelfReference)
	}

	existing, err := s.offers.FindByViewerAndRecommendation(ctx, viewerUserID, rec.ID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	offer := &models.SavedOffer{
		ID:                     uuid.NewString(),
		SaverUserID:            viewerUserID,
		RecommendationID:       rec.ID,
		OriginalReferrerUserID: rec.CreatorUserID, // frozen at save time
		Saved:                  true,
		Claimed:                false,
		SavedAt:                s.now(),
		ValidUntil:             rec.ValidUntil,
	}
	if err := s.offers.Insert(ctx, offer); err != nil {
		if errors.Is(err, repository.ErrDuplicateSave) {
			// a concurrent save won; return its record
			existing, ferr := s.offers.FindByViewerAndRecommendation(ctx, viewerUserID, rec.ID)
			if ferr != nil {
				return nil, false, ferr
			}
			return existing, false, nil
		}
		return nil, false, err
	}

	if err := s.users.IncSavedOffers(ctx, viewerUserID, 1); err != nil {
		// the offer record exists; a retry of Save is a no-op, so surface
		// the error and let the caller retry the counter path
		return nil, false, err
	}
	if err := s.recs.IncSavedCount(ctx, rec.ID); err != nil {
		// display-only counter, eventual consistency is fine
		s.log.Warn("saved count bump failed", zap.String("recommendation_id", rec.ID), zap.Error(err))
	}
	return offer, true, nil
}

// Claim redeems a saved offer. The conditional claimed=false -> true update
// decides a single winner under concurrent claims; only the winner credits
// the referrer, and the credit itself is an atomic increment. The reward
// always goes to the referrer frozen at save time.
func (s *OfferService) Claim(ctx context.Context, viewerUserID, savedOfferID string) error {
	offer, err := s.offers.Get(ctx, savedOfferID)
	if err != nil {
		return err
	}
	if offer == nil {
		return fmt.Errorf("%w: saved offer %s", models.ErrNotFound, savedOfferID)
	}
	if offer.SaverUserID != viewerUserID {
		return fmt.Errorf("%w: saved offer %s", models.ErrNotFound, savedOfferID)
	}
	if !offer.CanClaim() {
		return models.ErrAlreadyClaimed
	}

	won, err := s.offers.MarkClaimed(ctx, offer.ID, s.now())
	if err != nil {
		return err
	}
	if !won {
		return models.ErrAlreadyClaimed
	}

	if err := s.users.Credit(ctx, offer.OriginalReferrerUserID, ClaimRewardCoins, ClaimRewardReferrals); err != nil {
		// claimed flag is set but the credit failed; log loudly, the caller
		// sees the error and ops can reconcile from the claimed_at audit trail
		s.log.Error("referrer credit failed after claim",
			zap.String("saved_offer_id", offer.ID),
			zap.String("referrer_user_id", offer.OriginalReferrerUserID),
			zap.Error(err))
		return err
	}
	return nil
}

// WalletEntry joins a saved offer with its recommendation. Degraded entries
// carry a placeholder recommendation so the wallet never silently loses an
// item whose recommendation vanished upstream.
type WalletEntry struct {
	SavedOffer     models.SavedOffer      `json:"saved_offer"`
	Recommendation *models.Recommendation `json:"recommendation"`
	Degraded       bool                   `json:"degraded,omitempty"`
}

func (s *OfferService) ListSavedOffers(ctx context.Context, viewerUserID string) ([]WalletEntry, error) {
	offers, err := s.offers.ListByViewer(ctx, viewerUserID)
	if err != nil {
		return nil, err
	}

	entries := make([]WalletEntry, len(offers))
	concurrency.ForEach(ctx, walletJoinWorkers, len(offers), func(ctx context.Context, i int) {
		offer := offers[i]
		rec, err := s.directory.GetByID(ctx, offer.RecommendationID)
		if err != nil || rec == nil {
			if err != nil {
				s.log.Warn("wallet join lookup failed", zap.String("recommendation_id", offer.RecommendationID), zap.Error(err))
			}
			entries[i] = WalletEntry{
				SavedOffer:     offer,
				Recommendation: placeholderRecommendation(offer),
				Degraded:       true,
			}
			return
		}
		entries[i] = WalletEntry{SavedOffer: offer, Recommendation: rec}
	})
	return entries, nil
}

func placeholderRecommendation(offer models.SavedOffer) *models.Recommendation {
	return &models.Recommendation{
		ID:            offer.RecommendationID,
		CreatorUserID: offer.OriginalReferrerUserID,
		Text:          "This recommendation is no longer available",
		ValidUntil:    offer.ValidUntil,
	}
}
