package components

import (
	"github.com/Rorical/RoriTutor/ui/styles"
)

func RenderStatus(status string, loading bool, spinner string, width int) string {
	statusContent := status
	if loading {
		statusContent = spinner + " " + status
	}

	return styles.StatusStyle(width).Render(statusContent)
}
