package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/yourorg/roomreserve/internal/domain"
)

// errorBody is the wire shape for every error response.
type errorBody struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func writeErrorMessage(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorBody{Detail: detail})
}

// writeError maps service errors onto HTTP statuses in one place so every
// handler reports failures the same way. Internal errors never leak their
// message to the client.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeErrorMessage(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		writeErrorMessage(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeErrorMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeErrorMessage(w, http.StatusUnauthorized, "incorrect email or password")
	case errors.Is(err, domain.ErrForbidden):
		writeErrorMessage(w, http.StatusForbidden, "not enough permissions")
	case errors.Is(err, domain.ErrConflict):
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
	default:
		if logger != nil {
			logger.Error("request failed", slog.String("error", err.Error()))
		}
		writeErrorMessage(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON parses a request body. Unknown fields are ignored so older
// clients keep working.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.Validationf("invalid request body: %v", err)
	}
	return nil
}
