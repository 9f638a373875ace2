package models

// Role of a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage represents a single message in a session transcript.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the free-text submission from the chat panel. It is
// accepted either as JSON or as a form post.
type ChatRequest struct {
	UserInput string `json:"user_input" schema:"user_input"`
}

// ChatResponse is the reply to one chat interaction.
type ChatResponse struct {
	Reply    string        `json:"reply"`
	Messages []ChatMessage `json:"messages"`
}

type Suggestion struct {
	Index    int    `json:"index"`
	Question string `json:"question"`
}
