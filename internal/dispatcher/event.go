package dispatcher

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/RoriTutor/internal/eventbus"
)

// CoreEventMsg wraps core events for Bubble Tea
type CoreEventMsg struct {
	Event eventbus.CoreEvent
}

// EventDispatcher handles routing events between core and UI
type EventDispatcher struct {
	eventBus *eventbus.EventBus
}

func NewEventDispatcher(eventBus *eventbus.EventBus) *EventDispatcher {
	return &EventDispatcher{eventBus: eventBus}
}

// ListenForCoreEvents waits for the next core event. It must be re-armed
// after every delivered CoreEventMsg. A closed bus yields a nil message,
// which Bubble Tea drops.
func (ed *EventDispatcher) ListenForCoreEvents() tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ed.eventBus.CoreToUI()
		if !ok {
			return nil
		}
		return CoreEventMsg{Event: event}
	}
}

func (ed *EventDispatcher) GetEventBus() *eventbus.EventBus {
	return ed.eventBus
}
