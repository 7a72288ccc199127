package client

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/Rorical/RoriTutor/internal/models"
)

// OpenAIClient sends the same conversation payload straight to an
// OpenAI-compatible chat completion endpoint.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIClient(apiKey, baseURL, model string) *OpenAIClient {
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}
}

func (c *OpenAIClient) Ask(ctx context.Context, conversations []models.Entry) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(conversations))
	for _, entry := range conversations {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    entry.Role,
			Content: entry.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrRequestFailed)
	}

	return resp.Choices[0].Message.Content, nil
}
