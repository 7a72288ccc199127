package core

import (
	"sync"

	"github.com/Rorical/RoriTutor/internal/models"
)

// ChatState owns the conversation. The conversation only grows, and loading
// is true exactly while a request is outstanding.
type ChatState struct {
	mu           sync.RWMutex
	conversation []models.Turn
	loading      bool
	lastError    error
}

func NewChatState() *ChatState {
	return &ChatState{
		conversation: make([]models.Turn, 0),
	}
}

func (cs *ChatState) Conversation() []models.Turn {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	result := make([]models.Turn, len(cs.conversation))
	copy(result, cs.conversation)
	return result
}

func (cs *ChatState) IsLoading() bool {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.loading
}

func (cs *ChatState) LastError() error {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.lastError
}

// TryStartProcessing claims the single request slot. It returns the
// conversation as it stood at that moment, or false if the slot is taken.
func (cs *ChatState) TryStartProcessing() ([]models.Turn, bool) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.loading {
		return nil, false
	}
	cs.loading = true
	cs.lastError = nil

	history := make([]models.Turn, len(cs.conversation))
	copy(history, cs.conversation)
	return history, true
}

func (cs *ChatState) FinishProcessingWithTurn(turn models.Turn) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.loading = false
	cs.lastError = nil
	cs.conversation = append(cs.conversation, turn)
}

func (cs *ChatState) FinishProcessingWithError(err error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.loading = false
	cs.lastError = err
}
