package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/shareit-app/referral-service/internal/api/middleware"
)

type RatingAPI interface {
	Rate(ctx context.Context, recommendationID, raterUserID string, score int) error
}

type RatingHandler struct {
	ratings RatingAPI
	log     *zap.Logger
}

func NewRatingHandler(ratings RatingAPI, log *zap.Logger) *RatingHandler {
	return &RatingHandler{ratings: ratings, log: log}
}

type rateRequest struct {
	Score int `json:"score"`
}

// Rate handles POST /recommendations/{id}/ratings.
func (h *RatingHandler) Rate(w http.ResponseWriter, r *http.Request) {
	ident, _ := middleware.IdentityFrom(r.Context())
	recommendationID := chi.URLParam(r, "id")

	var req rateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "validation_error", Message: "invalid request body"})
		return
	}

	if err := h.ratings.Rate(r.Context(), recommendationID, ident.ID, req.Score); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
