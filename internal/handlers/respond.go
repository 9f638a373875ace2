package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"satinsights-backend/internal/models"
	"satinsights-backend/internal/observability"
	"satinsights-backend/internal/repository"
	"satinsights-backend/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

// handleServiceError maps service errors onto the API error envelope. Both
// interaction flows share it, so a failed model call looks the same
// whether it came from chat or from summarization.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var callErr *services.RemoteCallError

	switch {
	case errors.Is(err, services.ErrEmptyInput):
		w.WriteHeader(http.StatusNoContent)
	case errors.As(err, &callErr):
		writeJSON(w, http.StatusBadGateway, errorResp("AI_ERROR", "An error occurred: "+callErr.Error(), r))
	case errors.Is(err, repository.ErrSessionNotFound):
		writeJSON(w, http.StatusUnauthorized, errorResp("SESSION_EXPIRED", "Session has ended", r))
	case errors.Is(err, services.ErrUnknownSuggestion):
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Suggested question not found", r))
	case errors.Is(err, services.ErrUnsupportedFormat):
		writeJSON(w, http.StatusUnsupportedMediaType, errorResp("UNSUPPORTED_FORMAT", "Upload a CSV or JSON file", r))
	case errors.Is(err, services.ErrInvalidEncoding):
		writeJSON(w, http.StatusBadRequest, errorResp("INVALID_ENCODING", "File must be UTF-8 text", r))
	default:
		observability.LoggerFromContext(r.Context()).Error("unhandled service error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Something went wrong", r))
	}
}
