package core

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Rorical/RoriTutor/internal/client"
	"github.com/Rorical/RoriTutor/internal/eventbus"
	"github.com/Rorical/RoriTutor/internal/models"
)

var (
	ErrBusy        = errors.New("a request is already outstanding")
	ErrEmptyPrompt = errors.New("prompt is empty")
)

// ChatService runs the submit cycle: one request in flight at a time,
// results appended to ChatState and pushed to the UI.
type ChatService struct {
	asker    client.Asker
	state    *ChatState
	eventBus *eventbus.EventBus
	logger   zerolog.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

func NewChatService(asker client.Asker, eb *eventbus.EventBus, logger zerolog.Logger) *ChatService {
	ctx, cancel := context.WithCancel(context.Background())

	return &ChatService{
		asker:    asker,
		state:    NewChatState(),
		eventBus: eb,
		logger:   logger.With().Str("component", "core").Logger(),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start runs the core logic in a goroutine
func (cs *ChatService) Start() {
	cs.pushState(eventbus.UpdateSnapshot)

	cs.wg.Add(1)
	go func() {
		defer cs.wg.Done()
		cs.eventLoop()
	}()
}

// Stop cancels any outstanding request and waits for the goroutines to exit.
func (cs *ChatService) Stop() {
	cs.cancel()
	cs.wg.Wait()
}

func (cs *ChatService) State() *ChatState {
	return cs.state
}

func (cs *ChatService) eventLoop() {
	for {
		select {
		case <-cs.ctx.Done():
			return
		case event, ok := <-cs.eventBus.UIToCore():
			if !ok {
				return
			}
			cs.handleUIEvent(event)
		}
	}
}

func (cs *ChatService) handleUIEvent(event eventbus.UIEvent) {
	switch e := event.(type) {
	case eventbus.SendPromptEvent:
		if err := cs.Dispatch(e.Prompt); err != nil {
			cs.logger.Warn().Err(err).Msg("prompt rejected")
		}
	}
}

// Dispatch starts a request for prompt in the background. It fails fast with
// ErrBusy while another request is outstanding.
func (cs *ChatService) Dispatch(prompt string) error {
	conversations, err := cs.begin(prompt)
	if err != nil {
		return err
	}

	cs.wg.Add(1)
	go func() {
		defer cs.wg.Done()
		_ = cs.complete(prompt, conversations)
	}()
	return nil
}

// submit runs a full request cycle for prompt on the calling goroutine.
func (cs *ChatService) submit(prompt string) error {
	conversations, err := cs.begin(prompt)
	if err != nil {
		return err
	}
	return cs.complete(prompt, conversations)
}

func (cs *ChatService) begin(prompt string) ([]models.Entry, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	history, ok := cs.state.TryStartProcessing()
	if !ok {
		cs.pushState(eventbus.UpdateRejected)
		return nil, ErrBusy
	}
	cs.pushState(eventbus.UpdateStarted)

	cs.logger.Debug().Int("history", len(history)).Msg("dispatching prompt")
	return BuildConversations(history, prompt), nil
}

func (cs *ChatService) complete(prompt string, conversations []models.Entry) error {
	message, err := cs.asker.Ask(cs.ctx, conversations)
	if err != nil {
		cs.logger.Error().Err(err).Msg("ask failed")
		cs.state.FinishProcessingWithError(err)
		cs.pushState(eventbus.UpdateFailed)
		return err
	}

	cs.state.FinishProcessingWithTurn(models.Turn{Prompt: prompt, Response: message})
	cs.pushState(eventbus.UpdateAnswered)
	return nil
}

func (cs *ChatService) pushState(reason eventbus.UpdateReason) {
	if cs.eventBus == nil {
		return
	}

	event := eventbus.StateUpdateEvent{
		Conversation: cs.state.Conversation(),
		Loading:      cs.state.IsLoading(),
		Reason:       reason,
		Err:          cs.state.LastError(),
	}
	if reason == eventbus.UpdateRejected {
		event.Err = ErrBusy
	}

	if err := cs.eventBus.SendToUI(event); err != nil {
		cs.logger.Warn().Err(err).Msg("failed to push state to UI")
	}
}
