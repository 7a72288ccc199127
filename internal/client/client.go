// Package client talks to the remote model endpoint.
package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rorical/RoriTutor/internal/config"
	"github.com/Rorical/RoriTutor/internal/models"
)

// ErrRequestFailed is returned when the endpoint answers with a non-success status.
var ErrRequestFailed = errors.New("something went wrong")

// Asker sends a conversation payload and returns the model's message.
type Asker interface {
	Ask(ctx context.Context, conversations []models.Entry) (string, error)
}

// New builds the Asker for the active profile.
func New(cfg *config.Config) (Asker, error) {
	switch provider := cfg.GetProvider(); provider {
	case config.ProviderAsk:
		return NewAskClient(cfg.GetBaseURL(), nil), nil
	case config.ProviderOpenAI:
		return NewOpenAIClient(cfg.GetAPIKey(), cfg.GetBaseURL(), cfg.GetModel()), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", provider)
	}
}
