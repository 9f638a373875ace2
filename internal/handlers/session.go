package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"satinsights-backend/internal/middleware"
	"satinsights-backend/internal/models"
)

type sessionRepository interface {
	Create(ctx context.Context) (*models.Session, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type busyChecker interface {
	Busy(ctx context.Context, sessionID uuid.UUID) bool
}

type sessionCloser interface {
	CloseSession(sessionID uuid.UUID)
}

type SessionHandler struct {
	sessions sessionRepository
	auth     *middleware.SessionAuth
	guard    busyChecker
	closer   sessionCloser
}

func NewSessionHandler(sessions sessionRepository, auth *middleware.SessionAuth, guard busyChecker, closer sessionCloser) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		auth:     auth,
		guard:    guard,
		closer:   closer,
	}
}

func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Create(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	token, err := h.auth.IssueToken(sess.ID, sess.ExpiresAt)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to issue session token", r))
		return
	}

	writeJSON(w, http.StatusCreated, models.StartSessionResponse{
		SessionID: sess.ID,
		Token:     token,
		ExpiresAt: sess.ExpiresAt,
	})
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Get(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	state := models.SessionIdle
	if h.guard != nil && h.guard.Busy(r.Context(), sess.ID) {
		state = models.SessionAwaitingReply
	}

	writeJSON(w, http.StatusOK, models.SessionInfo{
		SessionID:    sess.ID,
		State:        state,
		MessageCount: len(sess.Messages),
		CreatedAt:    sess.CreatedAt,
		ExpiresAt:    sess.ExpiresAt,
	})
}

// End tears the session down; its transcript is gone afterwards.
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	if err := h.sessions.Delete(r.Context(), sessionID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	if h.closer != nil {
		h.closer.CloseSession(sessionID)
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Session ended"})
}
