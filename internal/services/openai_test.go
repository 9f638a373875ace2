package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Path          string
	Authorization string
	Body          map[string]interface{}
}

func newCompletionServer(t *testing.T, status int, respBody string, calls *int32, last *recordedRequest) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		last.Path = r.URL.Path
		last.Authorization = r.Header.Get("Authorization")
		last.Body = map[string]interface{}{}
		require.NoError(t, json.Unmarshal(raw, &last.Body))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(respBody))
	}))
	t.Cleanup(srv.Close)
	return srv
}

const completionJSON = `{
	"id": "chatcmpl-1",
	"object": "chat.completion",
	"created": 1700000000,
	"model": "o1-mini",
	"choices": [{
		"index": 0,
		"finish_reason": "stop",
		"message": {"role": "assistant", "content": "  **Artemis** returns humans to the Moon.\n"}
	}],
	"usage": {"prompt_tokens": 10, "completion_tokens": 8, "total_tokens": 18}
}`

func TestOpenAIClient_SendBuildsRequestAndReturnsReplyUnchanged(t *testing.T) {
	var calls int32
	var last recordedRequest
	srv := newCompletionServer(t, http.StatusOK, completionJSON, &calls, &last)

	client := NewOpenAIClient("secret-key", srv.URL+"/v1", "o1-mini", 0)

	reply, err := client.Send(context.Background(), "PROMPT TEXT", 2000)
	require.NoError(t, err)

	assert.Equal(t, "  **Artemis** returns humans to the Moon.\n", reply)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, "/v1/chat/completions", last.Path)
	assert.Equal(t, "Bearer secret-key", last.Authorization)
	assert.Equal(t, "o1-mini", last.Body["model"])
	assert.Equal(t, float64(2000), last.Body["max_tokens"])

	messages, ok := last.Body["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, messages, 1)
	msg := messages[0].(map[string]interface{})
	assert.Equal(t, "user", msg["role"])
	assert.Equal(t, "PROMPT TEXT", msg["content"])
}

func TestOpenAIClient_NonSuccessStatusIsRemoteCallErrorWithoutRetry(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"invalid credential", http.StatusUnauthorized},
		{"quota", http.StatusTooManyRequests},
		{"server error", http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var calls int32
			var last recordedRequest
			srv := newCompletionServer(t, tc.status, `{"error":{"message":"nope","type":"invalid_request_error"}}`, &calls, &last)

			client := NewOpenAIClient("bad-key", srv.URL, "o1-mini", 0)
			_, err := client.Send(context.Background(), "hi", 2000)

			var callErr *RemoteCallError
			require.True(t, errors.As(err, &callErr), "expected RemoteCallError, got %v", err)
			assert.Equal(t, tc.status, callErr.StatusCode)
			assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "failed calls must not be retried")
		})
	}
}

func TestOpenAIClient_NoChoicesIsRemoteCallError(t *testing.T) {
	var calls int32
	var last recordedRequest
	srv := newCompletionServer(t, http.StatusOK, `{"id":"x","object":"chat.completion","created":1,"model":"o1-mini","choices":[]}`, &calls, &last)

	client := NewOpenAIClient("k", srv.URL, "o1-mini", 0)
	_, err := client.Send(context.Background(), "hi", 2000)

	var callErr *RemoteCallError
	require.True(t, errors.As(err, &callErr))
	assert.Equal(t, 0, callErr.StatusCode)
}

func TestOpenAIClient_UnreachableEndpointIsRemoteCallError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewOpenAIClient("k", url, "o1-mini", 0)
	_, err := client.Send(context.Background(), "hi", 2000)

	var callErr *RemoteCallError
	require.True(t, errors.As(err, &callErr))
	assert.Equal(t, "openai", callErr.Provider)
}
