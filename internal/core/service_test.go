package core

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/RoriTutor/internal/client"
	"github.com/Rorical/RoriTutor/internal/eventbus"
	"github.com/Rorical/RoriTutor/internal/models"
)

type fakeAsker struct {
	mu      sync.Mutex
	calls   [][]models.Entry
	reply   string
	err     error
	started chan struct{}
	release chan struct{}
}

func (f *fakeAsker) Ask(ctx context.Context, conversations []models.Entry) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, conversations)
	f.mu.Unlock()

	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.reply, f.err
}

func (f *fakeAsker) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func drain(eb *eventbus.EventBus) []eventbus.StateUpdateEvent {
	var events []eventbus.StateUpdateEvent
	for {
		select {
		case e := <-eb.CoreToUI():
			events = append(events, e.(eventbus.StateUpdateEvent))
		default:
			return events
		}
	}
}

func waitFor(t *testing.T, eb *eventbus.EventBus, reason eventbus.UpdateReason) eventbus.StateUpdateEvent {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case e := <-eb.CoreToUI():
			if update := e.(eventbus.StateUpdateEvent); update.Reason == reason {
				return update
			}
		case <-timeout:
			t.Fatalf("no update with reason %d", reason)
		}
	}
}

func TestSubmitAppendsTurn(t *testing.T) {
	eb := eventbus.NewEventBus()
	defer eb.Close()
	asker := &fakeAsker{reply: "4"}
	cs := NewChatService(asker, eb, zerolog.Nop())

	require.NoError(t, cs.submit("What is 2+2?"))

	assert.Equal(t, []models.Turn{{Prompt: "What is 2+2?", Response: "4"}}, cs.State().Conversation())
	assert.False(t, cs.State().IsLoading())
	require.Equal(t, 1, asker.callCount())
	assert.Equal(t, []models.Entry{{Role: "assistant", Content: "What is 2+2?"}}, asker.calls[0])

	events := drain(eb)
	require.Len(t, events, 2)
	assert.Equal(t, eventbus.UpdateStarted, events[0].Reason)
	assert.True(t, events[0].Loading)
	assert.Empty(t, events[0].Conversation)
	assert.Equal(t, eventbus.UpdateAnswered, events[1].Reason)
	assert.False(t, events[1].Loading)
	assert.Len(t, events[1].Conversation, 1)
}

func TestSubmitSendsHistory(t *testing.T) {
	asker := &fakeAsker{reply: "ok"}
	cs := NewChatService(asker, nil, zerolog.Nop())

	require.NoError(t, cs.submit("first"))
	require.NoError(t, cs.submit("second"))

	assert.Len(t, cs.State().Conversation(), 2)
	assert.Equal(t, []models.Entry{
		{Role: "user", Content: "first"},
		{Role: "assistant", Content: "second"},
	}, asker.calls[1])
}

func TestSubmitEmptyPrompt(t *testing.T) {
	for _, prompt := range []string{"", "  ", "\t\n"} {
		asker := &fakeAsker{reply: "never"}
		cs := NewChatService(asker, nil, zerolog.Nop())

		assert.ErrorIs(t, cs.submit(prompt), ErrEmptyPrompt)
		assert.Equal(t, 0, asker.callCount())
		assert.Empty(t, cs.State().Conversation())
		assert.False(t, cs.State().IsLoading())
	}
}

func TestSubmitServerErrorLeavesConversation(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	var logs bytes.Buffer
	eb := eventbus.NewEventBus()
	defer eb.Close()
	cs := NewChatService(client.NewAskClient(server.URL, nil), eb, zerolog.New(&logs).Level(zerolog.InfoLevel))

	err := cs.submit("What is 2+2?")
	assert.ErrorIs(t, err, client.ErrRequestFailed)

	assert.Equal(t, 1, requests)
	assert.Empty(t, cs.State().Conversation())
	assert.False(t, cs.State().IsLoading())
	assert.ErrorIs(t, cs.State().LastError(), client.ErrRequestFailed)

	lines := strings.Split(strings.TrimSpace(logs.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"level":"error"`)

	events := drain(eb)
	require.Len(t, events, 2)
	assert.Equal(t, eventbus.UpdateFailed, events[1].Reason)
	assert.False(t, events[1].Loading)
	assert.Error(t, events[1].Err)
}

func TestSubmitAfterFailureClearsError(t *testing.T) {
	asker := &fakeAsker{err: client.ErrRequestFailed}
	cs := NewChatService(asker, nil, zerolog.Nop())

	require.Error(t, cs.submit("one"))
	asker.err = nil
	asker.reply = "fine"
	require.NoError(t, cs.submit("one"))

	assert.NoError(t, cs.State().LastError())
	assert.Equal(t, []models.Turn{{Prompt: "one", Response: "fine"}}, cs.State().Conversation())
}

func TestDispatchRejectsWhileOutstanding(t *testing.T) {
	eb := eventbus.NewEventBus()
	defer eb.Close()
	asker := &fakeAsker{
		reply:   "done",
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	cs := NewChatService(asker, eb, zerolog.Nop())

	require.NoError(t, cs.Dispatch("first"))
	<-asker.started

	assert.ErrorIs(t, cs.Dispatch("second"), ErrBusy)
	assert.ErrorIs(t, cs.submit("third"), ErrBusy)
	assert.True(t, cs.State().IsLoading())

	close(asker.release)
	update := waitFor(t, eb, eventbus.UpdateAnswered)
	assert.Equal(t, []models.Turn{{Prompt: "first", Response: "done"}}, update.Conversation)
	assert.Equal(t, 1, asker.callCount())

	cs.Stop()
}

func TestEventLoopHandlesPrompt(t *testing.T) {
	eb := eventbus.NewEventBus()
	defer eb.Close()
	cs := NewChatService(&fakeAsker{reply: "4"}, eb, zerolog.Nop())
	cs.Start()
	defer cs.Stop()

	snapshot := waitFor(t, eb, eventbus.UpdateSnapshot)
	assert.Empty(t, snapshot.Conversation)

	require.NoError(t, eb.SendToCore(eventbus.SendPromptEvent{Prompt: "What is 2+2?"}))
	update := waitFor(t, eb, eventbus.UpdateAnswered)
	assert.Equal(t, []models.Turn{{Prompt: "What is 2+2?", Response: "4"}}, update.Conversation)
}

func TestStopCancelsOutstandingRequest(t *testing.T) {
	eb := eventbus.NewEventBus()
	defer eb.Close()
	asker := &fakeAsker{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	cs := NewChatService(asker, eb, zerolog.Nop())

	require.NoError(t, cs.Dispatch("slow"))
	<-asker.started
	cs.Stop()

	assert.Empty(t, cs.State().Conversation())
	assert.False(t, cs.State().IsLoading())
	assert.ErrorIs(t, cs.State().LastError(), context.Canceled)
}
