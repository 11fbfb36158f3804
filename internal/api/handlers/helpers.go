package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/shareit-app/referral-service/internal/models"
)

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeError maps the error taxonomy to HTTP responses. Taxonomy errors get
// specific, actionable messages; anything else is a generic try-again so
// internals never leak to the client.
func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "validation_error", Message: err.Error()})
	case errors.Is(err, models.ErrSelfReference):
		writeJSON(w, http.StatusForbidden, errorBody{Error: "self_reference", Message: "You cannot save your own recommendation."})
	case errors.Is(err, models.ErrSelfRating):
		writeJSON(w, http.StatusForbidden, errorBody{Error: "self_rating", Message: "You cannot rate your own recommendation."})
	case errors.Is(err, models.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not_found", Message: "The requested item could not be found."})
	case errors.Is(err, models.ErrAlreadyClaimed):
		writeJSON(w, http.StatusConflict, errorBody{Error: "already_claimed", Message: "This offer has already been claimed."})
	default:
		log.Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal_error", Message: "Something went wrong, please try again."})
	}
}
