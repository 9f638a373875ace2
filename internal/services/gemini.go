package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// generateFunc performs one GenerateContent round trip.
type generateFunc func(ctx context.Context, model string, maxOutputTokens int, prompt string) (*genai.GenerateContentResponse, error)

// GeminiClient serves the same contract as OpenAIClient through the
// Gemini API.
type GeminiClient struct {
	client   *genai.Client
	generate generateFunc
	model    string
	timeout  time.Duration
}

func NewGeminiClient(ctx context.Context, apiKey, model string, timeout time.Duration) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c := &GeminiClient{
		client:  client,
		model:   model,
		timeout: timeout,
	}
	c.generate = c.generateContent
	return c, nil
}

func (c *GeminiClient) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *GeminiClient) generateContent(ctx context.Context, model string, maxOutputTokens int, prompt string) (*genai.GenerateContentResponse, error) {
	// GenerativeModel carries mutable settings, so each call gets its own.
	m := c.client.GenerativeModel(model)
	m.SetMaxOutputTokens(int32(maxOutputTokens))

	return m.GenerateContent(ctx, genai.Text(prompt))
}

func (c *GeminiClient) Send(ctx context.Context, prompt string, maxOutputTokens int) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.generate(ctx, c.model, maxOutputTokens, prompt)
	if err != nil {
		return "", &RemoteCallError{Provider: "gemini", Err: err}
	}

	for i, cand := range resp.Candidates {
		if cand.FinishReason != genai.FinishReasonStop {
			slog.Warn("gemini candidate did not finish cleanly", "candidate", i, "finish_reason", cand.FinishReason.String())
		}
	}

	text := extractText(resp)
	if text == "" {
		return "", &RemoteCallError{Provider: "gemini", Err: fmt.Errorf("response contained no text")}
	}

	return text, nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
