package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/shareit-app/referral-service/internal/api/middleware"
	"github.com/shareit-app/referral-service/internal/models"
	"github.com/shareit-app/referral-service/internal/service"
)

// maxPhotoBytes bounds multipart photo uploads.
const maxPhotoBytes = 5 << 20

type OfferAPI interface {
	CreateRecommendation(ctx context.Context, creatorUserID, businessID, text, imageURL string, photo []byte) (*models.Recommendation, error)
	Save(ctx context.Context, viewerUserID, recommendationID string) (*models.SavedOffer, bool, error)
	Claim(ctx context.Context, viewerUserID, savedOfferID string) error
	ListSavedOffers(ctx context.Context, viewerUserID string) ([]service.WalletEntry, error)
}

type OfferHandler struct {
	offers OfferAPI
	log    *zap.Logger
}

func NewOfferHandler(offers OfferAPI, log *zap.Logger) *OfferHandler {
	return &OfferHandler{offers: offers, log: log}
}

type createRecommendationRequest struct {
	BusinessID string `json:"business_id"`
	Text       string `json:"text"`
	ImageURL   string `json:"image_url,omitempty"`
}

// Create handles POST /recommendations. Accepts JSON, or multipart form with
// a "photo" part when the client uploads an image.
func (h *OfferHandler) Create(w http.ResponseWriter, r *http.Request) {
	ident, _ := middleware.IdentityFrom(r.Context())

	var req createRecommendationRequest
	var photo []byte

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "validation_error", Message: "invalid multipart form"})
			return
		}
		req.BusinessID = r.FormValue("business_id")
		req.Text = r.FormValue("text")
		req.ImageURL = r.FormValue("image_url")
		if file, _, err := r.FormFile("photo"); err == nil {
			defer file.Close()
			data, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes))
			if err != nil {
				writeJSON(w, http.StatusBadRequest, errorBody{Error: "validation_error", Message: "could not read photo"})
				return
			}
			photo = data
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "validation_error", Message: "invalid request body"})
			return
		}
	}

	rec, err := h.offers.CreateRecommendation(r.Context(), ident.ID, req.BusinessID, req.Text, req.ImageURL, photo)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// Save handles POST /recommendations/{id}/save. Idempotent: a repeat returns
// the existing saved offer with 200 instead of 201.
func (h *OfferHandler) Save(w http.ResponseWriter, r *http.Request) {
	ident, _ := middleware.IdentityFrom(r.Context())
	recommendationID := chi.URLParam(r, "id")

	offer, created, err := h.offers.Save(r.Context(), ident.ID, recommendationID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	writeJSON(w, code, offer)
}

// Claim handles POST /saved-offers/{id}/claim.
func (h *OfferHandler) Claim(w http.ResponseWriter, r *http.Request) {
	ident, _ := middleware.IdentityFrom(r.Context())
	savedOfferID := chi.URLParam(r, "id")

	if err := h.offers.Claim(r.Context(), ident.ID, savedOfferID); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Wallet handles GET /users/me/saved-offers.
func (h *OfferHandler) Wallet(w http.ResponseWriter, r *http.Request) {
	ident, _ := middleware.IdentityFrom(r.Context())

	entries, err := h.offers.ListSavedOffers(r.Context(), ident.ID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"saved_offers": entries})
}
