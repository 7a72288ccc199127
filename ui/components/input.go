package components

import (
	"github.com/Rorical/RoriTutor/internal/utils"
	"github.com/Rorical/RoriTutor/ui/styles"
)

const Placeholder = "Ask TutorGPT..."

// RenderInput echoes the pending prompt with any markup stripped. The box is
// dimmed while a request is outstanding.
func RenderInput(input string, loading bool, width int) string {
	inputStyle := styles.InputStyle(width)
	if loading {
		inputStyle = styles.DisabledInputStyle(width)
	}

	text := utils.StripTags(input)
	if text == "" {
		return inputStyle.Render(styles.PlaceholderStyle().Render(Placeholder))
	}
	return inputStyle.Render(text)
}
