package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/schema"

	"satinsights-backend/internal/middleware"
	"satinsights-backend/internal/models"
	"satinsights-backend/internal/services"
)

type ChatHandler struct {
	sessions sessionRepository
	insights *services.InsightsService
	decoder  *schema.Decoder
}

func NewChatHandler(sessions sessionRepository, insights *services.InsightsService) *ChatHandler {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	return &ChatHandler{
		sessions: sessions,
		insights: insights,
		decoder:  decoder,
	}
}

func (h *ChatHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	suggestions := make([]models.Suggestion, len(services.SuggestedQuestions))
	for i, q := range services.SuggestedQuestions {
		suggestions[i] = models.Suggestion{Index: i, Question: q}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": suggestions,
	})
}

func (h *ChatHandler) AskSuggestion(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid suggestion index", r))
		return
	}

	sess, err := h.sessions.Get(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	reply, err := h.insights.AskSuggestion(r.Context(), sess, index)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{Reply: reply, Messages: sess.Messages})
}

// Ask handles a free-text submission. An empty submission is not an
// error; it simply does nothing (204).
func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeChatRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if req.UserInput == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	sess, err := h.sessions.Get(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	reply, err := h.insights.Ask(r.Context(), sess, req.UserInput)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{Reply: reply, Messages: sess.Messages})
}

func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Get(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"messages": sess.Messages,
	})
}

func (h *ChatHandler) decodeChatRequest(r *http.Request) (models.ChatRequest, error) {
	var req models.ChatRequest

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(1 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return req, err
		}
		err := h.decoder.Decode(&req, r.Form)
		return req, err
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return req, err
	}
	return req, nil
}
