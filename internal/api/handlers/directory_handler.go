package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/shareit-app/referral-service/internal/models"
)

type DirectoryAPI interface {
	GetByID(ctx context.Context, id string) (*models.Recommendation, error)
	ListByOwner(ctx context.Context, userID string) ([]*models.Recommendation, error)
	ListRecent(ctx context.Context, limit int) ([]*models.Recommendation, error)
}

type DirectoryHandler struct {
	directory    DirectoryAPI
	shareBaseURL string
	log          *zap.Logger
}

func NewDirectoryHandler(directory DirectoryAPI, shareBaseURL string, log *zap.Logger) *DirectoryHandler {
	return &DirectoryHandler{directory: directory, shareBaseURL: shareBaseURL, log: log}
}

// Get handles GET /recommendations/{id}.
func (h *DirectoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.directory.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if rec == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not_found", Message: "The requested item could not be found."})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// List handles GET /recommendations. With ?owner= it lists that user's
// recommendations; otherwise the most recent ones (?limit=).
func (h *DirectoryHandler) List(w http.ResponseWriter, r *http.Request) {
	var recs []*models.Recommendation
	var err error

	if owner := r.URL.Query().Get("owner"); owner != "" {
		recs, err = h.directory.ListByOwner(r.Context(), owner)
	} else {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		recs, err = h.directory.ListRecent(r.Context(), limit)
	}
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"recommendations": recs})
}

// ShareQR handles GET /recommendations/{id}/qr: a PNG QR code of the share
// link for the recommendation.
func (h *DirectoryHandler) ShareQR(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.directory.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if rec == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not_found", Message: "The requested item could not be found."})
		return
	}

	png, err := qrcode.Encode(h.shareBaseURL+"/"+rec.ID, qrcode.Medium, 256)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
