package update

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/RoriTutor/internal/models"
)

// CopyResetDelay is how long a response stays marked as copied.
const CopyResetDelay = time.Second

// ClipboardWriter writes text to the system clipboard.
type ClipboardWriter func(text string) error

// CopyResetMsg clears the copied marker if no newer copy happened since.
type CopyResetMsg struct {
	Seq int
}

// TurnAtDisplayIndex maps a display index (newest first) to its turn.
func TurnAtDisplayIndex(conversation []models.Turn, index int) (models.Turn, bool) {
	if index < 0 || index >= len(conversation) {
		return models.Turn{}, false
	}
	return conversation[len(conversation)-1-index], true
}

// HandleCopy copies the selected response to the clipboard, marks it as
// copied and schedules the marker reset. A later copy supersedes the reset.
// A clipboard error is returned but the marker is still set.
func HandleCopy(appModel *models.AppModel, clip ClipboardWriter) (tea.Cmd, error) {
	turn, ok := TurnAtDisplayIndex(appModel.Conversation, appModel.Selected)
	if !ok {
		return nil, nil
	}

	var err error
	if writeErr := clip(turn.Response); writeErr != nil {
		err = fmt.Errorf("failed to copy response: %w", writeErr)
		appModel.Status = "Copy failed"
	}

	appModel.CopiedIndex = appModel.Selected
	appModel.CopySeq++
	return CopyResetCmd(appModel.CopySeq), err
}

func CopyResetCmd(seq int) tea.Cmd {
	return tea.Tick(CopyResetDelay, func(time.Time) tea.Msg {
		return CopyResetMsg{Seq: seq}
	})
}

func HandleCopyReset(appModel *models.AppModel, msg CopyResetMsg) {
	if msg.Seq == appModel.CopySeq {
		appModel.CopiedIndex = models.NoCopy
	}
}
