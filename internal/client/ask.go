package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/Rorical/RoriTutor/internal/models"
)

const askPath = "/ask"

type askRequest struct {
	Conversations []models.Entry `json:"conversations"`
}

type askResponse struct {
	Message string `json:"message"`
}

// AskClient posts conversations to <baseURL>/ask.
type AskClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAskClient returns a client for baseURL. A nil httpClient means a client
// without timeout; the request lives until the transport or ctx ends it.
func NewAskClient(baseURL string, httpClient *http.Client) *AskClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &AskClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *AskClient) Ask(ctx context.Context, conversations []models.Entry) (string, error) {
	body, err := json.Marshal(askRequest{Conversations: conversations})
	if err != nil {
		return "", fmt.Errorf("failed to encode conversations: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+askPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
	}

	var answer askResponse
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return answer.Message, nil
}
