package dispatcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/RoriTutor/internal/eventbus"
)

func TestListenForCoreEvents(t *testing.T) {
	eb := eventbus.NewEventBus()
	ed := NewEventDispatcher(eb)

	event := eventbus.StateUpdateEvent{Loading: true, Reason: eventbus.UpdateStarted}
	require.NoError(t, eb.SendToUI(event))

	msg := ed.ListenForCoreEvents()()
	assert.Equal(t, CoreEventMsg{Event: event}, msg)

	eb.Close()
	assert.Nil(t, ed.ListenForCoreEvents()())
}
