package api

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"

	"garagy/internal/auth"
	apperrors "garagy/internal/errors"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError answers with the coded error body. Authentication errors
// also carry the login hint.
func respondError(w http.ResponseWriter, logger *log.Logger, err error) {
	e := apperrors.ToHTTP(err)
	if e.Code == apperrors.CodeUnauthorized {
		auth.Unauthorized(w, e.Message)
		return
	}
	if e.Status >= http.StatusInternalServerError {
		logger.Error("request failed", "code", e.Code, "err", err)
	}
	respondJSON(w, e.Status, e)
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidInput, err, "invalid request body")
	}
	return nil
}

// garageID reads the caller's garage from the identity set by the auth
// middleware.
func garageID(r *http.Request) (string, error) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok || id.GarageID == "" {
		return "", apperrors.New(apperrors.CodeUnauthorized, "not signed in")
	}
	return id.GarageID, nil
}
