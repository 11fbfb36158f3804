package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/shareit-app/referral-service/internal/models"
)

type BusinessAPI interface {
	Get(ctx context.Context, id string) (*models.Business, error)
	List(ctx context.Context) ([]models.Business, error)
}

type BusinessHandler struct {
	businesses BusinessAPI
	log        *zap.Logger
}

func NewBusinessHandler(businesses BusinessAPI, log *zap.Logger) *BusinessHandler {
	return &BusinessHandler{businesses: businesses, log: log}
}

// List handles GET /businesses.
func (h *BusinessHandler) List(w http.ResponseWriter, r *http.Request) {
	bs, err := h.businesses.List(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if bs == nil {
		bs = []models.Business{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"businesses": bs})
}

// Get handles GET /businesses/{id}.
func (h *BusinessHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	b, err := h.businesses.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if b == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not_found", Message: "The requested item could not be found."})
		return
	}
	writeJSON(w, http.StatusOK, b)
}
