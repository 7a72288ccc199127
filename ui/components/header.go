package components

import (
	"github.com/Rorical/RoriTutor/ui/styles"
)

func RenderHeader(title, subtitle string, width int) string {
	return styles.TitleStyle(width).Render(title) + "\n" +
		styles.SubtitleStyle(width).Render(subtitle)
}
