package services

import (
	"context"
	"fmt"

	"satinsights-backend/internal/config"
)

// ModelClient sends one fully formatted prompt to a chat-completion
// endpoint and waits for the whole reply.
type ModelClient interface {
	Send(ctx context.Context, prompt string, maxOutputTokens int) (string, error)
}

// RemoteCallError is returned by every ModelClient when the remote call
// fails: transport errors, rejected credentials, non-success statuses and
// replies that carry no text.
type RemoteCallError struct {
	Provider   string
	StatusCode int // 0 when no HTTP response was received
	Err        error
}

func (e *RemoteCallError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s call failed with status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s call failed: %v", e.Provider, e.Err)
}

func (e *RemoteCallError) Unwrap() error {
	return e.Err
}

// NewModelClient builds the client selected by cfg.ModelProvider.
func NewModelClient(ctx context.Context, cfg *config.Config) (ModelClient, error) {
	switch cfg.ModelProvider {
	case "openai":
		return NewOpenAIClient(cfg.APIKey, cfg.ModelBaseURL, cfg.ModelName, cfg.RequestTimeout), nil
	case "gemini":
		return NewGeminiClient(ctx, cfg.APIKey, cfg.ModelName, cfg.RequestTimeout)
	default:
		return nil, fmt.Errorf("unsupported model provider %q", cfg.ModelProvider)
	}
}
