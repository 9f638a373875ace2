package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"satinsights-backend/internal/models"
	"satinsights-backend/internal/observability"
)

const (
	FlowChat      = "chat"
	FlowSummarize = "summarize"
)

var (
	ErrEmptyInput        = errors.New("empty input")
	ErrUnknownSuggestion = errors.New("unknown suggested question")
)

// SuggestedQuestions are the preset questions offered next to the free-text box.
var SuggestedQuestions = []string{
	"What is the Artemis mission?",
	"Tell me about the Hubble Space Telescope.",
	"What are the moons of Jupiter?",
	"Who was the first person to walk on the Moon?",
	"Explain the significance of the Voyager missions.",
}

// SessionStore keeps session transcripts for their lifetime.
type SessionStore interface {
	Create(ctx context.Context) (*models.Session, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Session, error)
	Save(ctx context.Context, s *models.Session) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// StatusPublisher delivers progress events to whoever watches a session.
type StatusPublisher interface {
	Publish(ctx context.Context, sessionID uuid.UUID, msg models.WSMessage)
}

// InsightsService runs the two interactions: space chat and satellite
// data summarization. Each call issues exactly one model request.
type InsightsService struct {
	client    ModelClient
	sessions  SessionStore
	publisher StatusPublisher
	maxTokens int
}

func NewInsightsService(client ModelClient, sessions SessionStore, publisher StatusPublisher, maxTokens int) *InsightsService {
	return &InsightsService{
		client:    client,
		sessions:  sessions,
		publisher: publisher,
		maxTokens: maxTokens,
	}
}

// Ask answers a space question. Only an empty string counts as no input;
// whitespace is a question like any other. On success the user turn and the
// assistant turn are appended to the session transcript, in that order,
// and the session is saved. On failure the transcript is left as it was.
func (s *InsightsService) Ask(ctx context.Context, sess *models.Session, question string) (string, error) {
	if question == "" {
		return "", ErrEmptyInput
	}

	log := observability.LoggerFromContext(ctx).With("session_id", sess.ID, "flow", FlowChat)

	s.publishStatus(ctx, sess.ID, FlowChat, "Generating response...")

	reply, err := s.client.Send(ctx, BuildSpaceChatbotPrompt(question), s.maxTokens)
	if err != nil {
		log.Error("model call failed", "error", err)
		s.publishError(ctx, sess.ID, FlowChat, err)
		return "", err
	}

	n := len(sess.Messages)
	sess.Messages = append(sess.Messages,
		models.ChatMessage{Role: models.RoleUser, Content: question},
		models.ChatMessage{Role: models.RoleAssistant, Content: reply},
	)

	if err := s.sessions.Save(ctx, sess); err != nil {
		sess.Messages = sess.Messages[:n]
		log.Error("failed to save transcript", "error", err)
		s.publishError(ctx, sess.ID, FlowChat, err)
		return "", fmt.Errorf("failed to save session: %w", err)
	}

	s.publishCompleted(ctx, sess.ID, FlowChat)
	log.Info("chat interaction completed", "message_count", len(sess.Messages))

	return reply, nil
}

// AskSuggestion runs the chat flow with the preset question at index.
func (s *InsightsService) AskSuggestion(ctx context.Context, sess *models.Session, index int) (string, error) {
	if index < 0 || index >= len(SuggestedQuestions) {
		return "", ErrUnknownSuggestion
	}
	return s.Ask(ctx, sess, SuggestedQuestions[index])
}

// Summarize asks the model for a lay summary of an uploaded dataset. The
// dataset text may be empty; it is embedded in the prompt unmodified.
func (s *InsightsService) Summarize(ctx context.Context, sessionID uuid.UUID, dataset *Dataset) (string, error) {
	log := observability.LoggerFromContext(ctx).With("session_id", sessionID, "flow", FlowSummarize)

	s.publishStatus(ctx, sessionID, FlowSummarize, "Summarizing...")

	summary, err := s.client.Send(ctx, BuildSatelliteSummaryPrompt(dataset.Text), s.maxTokens)
	if err != nil {
		log.Error("model call failed", "error", err, "filename", dataset.Filename)
		s.publishError(ctx, sessionID, FlowSummarize, err)
		return "", err
	}

	s.publishCompleted(ctx, sessionID, FlowSummarize)
	log.Info("summary completed", "filename", dataset.Filename, "dataset_bytes", len(dataset.Text))

	return summary, nil
}

func (s *InsightsService) publishStatus(ctx context.Context, sessionID uuid.UUID, flow, step string) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(ctx, sessionID, models.WSMessage{
		Type: models.EventStatusUpdate,
		Payload: models.StatusUpdate{
			SessionID: sessionID,
			Flow:      flow,
			State:     models.SessionAwaitingReply,
			StepName:  step,
		},
	})
}

func (s *InsightsService) publishCompleted(ctx context.Context, sessionID uuid.UUID, flow string) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(ctx, sessionID, models.WSMessage{
		Type:    models.EventCompleted,
		Payload: models.CompletedEvent{SessionID: sessionID, Flow: flow},
	})
}

func (s *InsightsService) publishError(ctx context.Context, sessionID uuid.UUID, flow string, err error) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(ctx, sessionID, models.WSMessage{
		Type: models.EventError,
		Payload: models.ErrorEvent{
			SessionID:    sessionID,
			Flow:         flow,
			ErrorCode:    "AI_ERROR",
			ErrorMessage: "An error occurred: " + err.Error(),
		},
	})
}
