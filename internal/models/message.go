package models

// Turn is one prompt/response pair of the conversation.
type Turn struct {
	Prompt   string
	Response string
}

// Entry is one element of the conversation payload sent to the remote endpoint.
type Entry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
