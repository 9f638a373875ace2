package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIClient talks to any OpenAI-compatible chat-completions API.
type OpenAIClient struct {
	client  openai.Client
	model   string
	timeout time.Duration
}

func NewOpenAIClient(apiKey, baseURL, model string, timeout time.Duration, opts ...option.RequestOption) *OpenAIClient {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	base := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		// A failed call surfaces to the caller immediately.
		option.WithMaxRetries(0),
	}

	return &OpenAIClient{
		client:  openai.NewClient(append(base, opts...)...),
		model:   model,
		timeout: timeout,
	}
}

func (c *OpenAIClient) Send(ctx context.Context, prompt string, maxOutputTokens int) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	res, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxTokens: openai.Int(int64(maxOutputTokens)),
	})
	if err != nil {
		callErr := &RemoteCallError{Provider: "openai", Err: err}
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			callErr.StatusCode = apiErr.StatusCode
		}
		return "", callErr
	}

	if len(res.Choices) == 0 {
		return "", &RemoteCallError{Provider: "openai", Err: fmt.Errorf("response contained no choices")}
	}

	return res.Choices[0].Message.Content, nil
}
