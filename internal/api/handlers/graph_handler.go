package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/shareit-app/referral-service/internal/api/middleware"
)

type GraphAPI interface {
	Connect(ctx context.Context, userA, userB string) error
	AreConnected(ctx context.Context, userA, userB string) (bool, error)
	ListConnections(ctx context.Context, userID string) ([]string, error)
}

type GraphHandler struct {
	graph GraphAPI
	log   *zap.Logger
}

func NewGraphHandler(graph GraphAPI, log *zap.Logger) *GraphHandler {
	return &GraphHandler{graph: graph, log: log}
}

type connectRequest struct {
	UserID string `json:"user_id"`
}

// Connect handles POST /connections.
func (h *GraphHandler) Connect(w http.ResponseWriter, r *http.Request) {
	ident, _ := middleware.IdentityFrom(r.Context())

	var req connectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "validation_error", Message: "invalid request body"})
		return
	}

	if err := h.graph.Connect(r.Context(), ident.ID, req.UserID); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /connections.
func (h *GraphHandler) List(w http.ResponseWriter, r *http.Request) {
	ident, _ := middleware.IdentityFrom(r.Context())

	ids, err := h.graph.ListConnections(r.Context(), ident.ID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"connections": ids})
}

// Check handles GET /connections/{otherId}.
func (h *GraphHandler) Check(w http.ResponseWriter, r *http.Request) {
	ident, _ := middleware.IdentityFrom(r.Context())
	other := chi.URLParam(r, "otherId")

	connected, err := h.graph.AreConnected(r.Context(), ident.ID, other)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"connected": connected})
}
