package models

// NoCopy marks that no response is currently acknowledged as copied.
const NoCopy = -1

// AppModel represents the UI state - only local UI concerns
type AppModel struct {
	Conversation []Turn // Mirror of the core conversation, chronological
	Input        string // Pending prompt
	Status       string // Status bar text
	Loading      bool   // A request is outstanding
	Selected     int    // Display index of the highlighted turn
	CopiedIndex  int    // Display index of the copied response, NoCopy if none
	CopySeq      int    // Bumped on every copy, stale resets are ignored
	Width        int    // Terminal width
	Height       int    // Terminal height
	Markdown     bool   // Render responses as markdown
	Title        string // Header title
	Subtitle     string // Header subtitle, names the model
}

// NewAppModel returns the initial UI state with the prompt pre-filled.
func NewAppModel(question string) AppModel {
	return AppModel{
		Conversation: make([]Turn, 0),
		Input:        question,
		Status:       "Ready",
		CopiedIndex:  NoCopy,
		Title:        "Welcome to TutorGPT",
		Subtitle:     "Powered by GPT-4",
	}
}
