package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/shareit-app/referral-service/internal/api/middleware"
	"github.com/shareit-app/referral-service/internal/models"
)

type UserAPI interface {
	Ensure(ctx context.Context, id, displayName, photoURL string) (*models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
}

type UserHandler struct {
	users UserAPI
	log   *zap.Logger
}

func NewUserHandler(users UserAPI, log *zap.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

// SyncMe handles POST /users/me: upserts the caller's profile from the
// identity token. First call creates the user with zeroed counters.
func (h *UserHandler) SyncMe(w http.ResponseWriter, r *http.Request) {
	ident, _ := middleware.IdentityFrom(r.Context())

	u, err := h.users.Ensure(r.Context(), ident.ID, ident.DisplayName, ident.PhotoURL)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// Get handles GET /users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	u, err := h.users.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if u == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not_found", Message: "The requested item could not be found."})
		return
	}
	writeJSON(w, http.StatusOK, u)
}
