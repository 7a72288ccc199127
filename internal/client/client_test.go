package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/RoriTutor/internal/config"
	"github.com/Rorical/RoriTutor/internal/models"
)

func TestAskClientPostsConversations(t *testing.T) {
	var got askRequest
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/ask", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"4"}`))
	}))
	defer server.Close()

	c := NewAskClient(server.URL+"/", server.Client())
	conversations := []models.Entry{
		{Role: models.RoleUser, Content: "hi"},
		{Role: models.RoleAssistant, Content: "What is 2+2?"},
	}

	message, err := c.Ask(context.Background(), conversations)
	require.NoError(t, err)
	assert.Equal(t, "4", message)
	assert.Equal(t, 1, requests)
	assert.Equal(t, conversations, got.Conversations)
}

func TestAskClientNonSuccessStatus(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"message":"ignored"}`))
		}))

		_, err := NewAskClient(server.URL, nil).Ask(context.Background(), nil)
		assert.ErrorIs(t, err, ErrRequestFailed, "status %d", status)
		server.Close()
	}
}

func TestAskClientBadBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := NewAskClient(server.URL, nil).Ask(context.Background(), nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRequestFailed)
}

func TestAskClientTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewAskClient(url, nil).Ask(context.Background(), nil)
	assert.Error(t, err)
}

func TestAskClientEmptyConversationsEncodesArray(t *testing.T) {
	var raw map[string]json.RawMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, _ = w.Write([]byte(`{"message":""}`))
	}))
	defer server.Close()

	_, err := NewAskClient(server.URL, nil).Ask(context.Background(), []models.Entry{})
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw["conversations"]))
}

func TestOpenAIClientAsk(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4", req.Model)
		if assert.Len(t, req.Messages, 1) {
			assert.Equal(t, "assistant", req.Messages[0].Role)
			assert.Equal(t, "What is 2+2?", req.Messages[0].Content)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "test-id",
			"model": "gpt-4",
			"choices": [{
				"index": 0,
				"message": {"role": "assistant", "content": "4"},
				"finish_reason": "stop"
			}]
		}`))
	}))
	defer server.Close()

	c := NewOpenAIClient("sk-test", server.URL+"/v1", "gpt-4")
	message, err := c.Ask(context.Background(), []models.Entry{{Role: models.RoleAssistant, Content: "What is 2+2?"}})
	require.NoError(t, err)
	assert.Equal(t, "4", message)
}

func TestOpenAIClientFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewOpenAIClient("sk-test", server.URL+"/v1", "gpt-4").Ask(context.Background(), nil)
	assert.ErrorIs(t, err, ErrRequestFailed)
}

func TestNewPicksProvider(t *testing.T) {
	t.Setenv("RORITUTOR_BASE_URL", "")
	t.Setenv("RORITUTOR_API_KEY", "")
	cfg, err := config.LoadConfigFrom(t.TempDir() + "/config.json")
	require.NoError(t, err)

	asker, err := New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &AskClient{}, asker)

	cfg.Profiles["direct"] = config.Profile{Provider: config.ProviderOpenAI, APIKey: "sk-test"}
	require.NoError(t, cfg.UseProfile("direct"))
	asker, err = New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, asker)

	cfg.Profiles["odd"] = config.Profile{Provider: "carrier-pigeon"}
	require.NoError(t, cfg.UseProfile("odd"))
	_, err = New(cfg)
	assert.Error(t, err)
}
