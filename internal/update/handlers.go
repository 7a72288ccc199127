package update

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/RoriTutor/internal/dispatcher"
	"github.com/Rorical/RoriTutor/internal/eventbus"
	"github.com/Rorical/RoriTutor/internal/models"
)

// Sender delivers UI events to the core.
type Sender interface {
	SendToCore(event eventbus.UIEvent) error
}

// HandleKeyMsg handles keyboard input. The input is frozen while a request
// is outstanding; selection and copy keep working.
func HandleKeyMsg(appModel *models.AppModel, keyMsg tea.KeyMsg, sender Sender, clip ClipboardWriter) (tea.Cmd, error) {
	switch {
	case key.Matches(keyMsg, Keys.Quit):
		return tea.Quit, nil
	case key.Matches(keyMsg, Keys.Submit):
		SubmitPrompt(appModel, sender)
		return nil, nil
	case key.Matches(keyMsg, Keys.Send):
		// Same as pressing enter, unless a request is outstanding.
		if !appModel.Loading {
			return HandleKeyMsg(appModel, tea.KeyMsg{Type: tea.KeyEnter}, sender, clip)
		}
		return nil, nil
	case key.Matches(keyMsg, Keys.Copy):
		return HandleCopy(appModel, clip)
	case key.Matches(keyMsg, Keys.Up):
		MoveSelection(appModel, -1)
		return nil, nil
	case key.Matches(keyMsg, Keys.Down):
		MoveSelection(appModel, 1)
		return nil, nil
	}

	if appModel.Loading {
		return nil, nil
	}

	switch keyMsg.Type {
	case tea.KeyBackspace:
		if runes := []rune(appModel.Input); len(runes) > 0 {
			appModel.Input = string(runes[:len(runes)-1])
		}
	case tea.KeySpace:
		appModel.Input += " "
	case tea.KeyRunes:
		appModel.Input += string(keyMsg.Runes)
	}
	return nil, nil
}

// SubmitPrompt hands the pending prompt to the core. Blank prompts and
// prompts typed while loading are ignored. The input is cleared only once
// the core reports an answer.
func SubmitPrompt(appModel *models.AppModel, sender Sender) {
	if appModel.Loading || strings.TrimSpace(appModel.Input) == "" {
		return
	}

	if err := sender.SendToCore(eventbus.SendPromptEvent{Prompt: appModel.Input}); err != nil {
		appModel.Status = "Error sending prompt: " + err.Error()
		return
	}

	appModel.Loading = true
	appModel.Status = "Thinking"
}

// HandleCoreEvent processes events from the core
func HandleCoreEvent(appModel *models.AppModel, coreEventMsg dispatcher.CoreEventMsg) {
	switch event := coreEventMsg.Event.(type) {
	case eventbus.StateUpdateEvent:
		appModel.Conversation = event.Conversation
		// A snapshot can be older than a prompt the UI already submitted.
		if event.Reason != eventbus.UpdateSnapshot || !appModel.Loading {
			appModel.Loading = event.Loading
		}

		switch event.Reason {
		case eventbus.UpdateAnswered:
			appModel.Input = ""
			appModel.Selected = 0
			appModel.Status = "Ready"
		case eventbus.UpdateFailed:
			appModel.Status = "Request failed"
		case eventbus.UpdateStarted:
			appModel.Status = "Thinking"
		case eventbus.UpdateSnapshot:
			if !appModel.Loading {
				appModel.Status = "Ready"
			}
		}

		clampSelection(appModel)
	}
}

// MoveSelection moves the highlighted turn by delta in display order.
func MoveSelection(appModel *models.AppModel, delta int) {
	appModel.Selected += delta
	clampSelection(appModel)
}

func clampSelection(appModel *models.AppModel) {
	if appModel.Selected >= len(appModel.Conversation) {
		appModel.Selected = len(appModel.Conversation) - 1
	}
	if appModel.Selected < 0 {
		appModel.Selected = 0
	}
}

func HandleWindowSizeMsg(appModel *models.AppModel, sizeMsg tea.WindowSizeMsg) {
	appModel.Width = sizeMsg.Width
	appModel.Height = sizeMsg.Height
}
