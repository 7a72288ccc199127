package components

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/Rorical/RoriTutor/internal/models"
	"github.com/Rorical/RoriTutor/internal/utils"
	"github.com/Rorical/RoriTutor/ui/styles"
)

const (
	UserAvatar      = "🎓"
	AssistantAvatar = "🤖"
	CopyMarker      = "[copy]"
	CopiedMarker    = "[✓ copied]"
)

// ConversationView carries the UI flags the conversation is drawn with.
type ConversationView struct {
	Loading     bool
	Spinner     string // Current spinner frame
	Selected    int
	CopiedIndex int
	Width       int
	Markdown    bool
	Responses   *ResponseCache // Optional, responses are rendered on every call when nil
}

// RenderConversation draws the newest turn first. While loading, the
// response of the turn at display index 0 is replaced by the spinner.
func RenderConversation(conversation []models.Turn, view ConversationView) string {
	var b strings.Builder

	userStyle := styles.UserStyle()

	for index := 0; index < len(conversation); index++ {
		turn := conversation[len(conversation)-1-index]

		b.WriteString(userStyle.Render(UserAvatar+" "+utils.StripTags(turn.Prompt)) + "\n")

		assistantStyle := styles.AssistantStyle()
		if index == view.Selected {
			assistantStyle = styles.SelectedStyle()
		}

		var response string
		switch {
		case index == 0 && view.Loading:
			response = styles.SpinnerStyle().Render(view.Spinner)
		case view.Responses != nil:
			response = view.Responses.Render(len(conversation)-1-index, turn.Response, view.Markdown, view.Width)
		default:
			response = RenderResponse(turn.Response, view.Markdown, view.Width)
		}
		b.WriteString(assistantStyle.Render(AssistantAvatar+" "+response) + "\n")

		if index == view.CopiedIndex {
			b.WriteString(styles.CopiedStyle().Render(CopiedMarker) + "\n\n")
		} else {
			b.WriteString(styles.CopyStyle().Render(CopyMarker) + "\n\n")
		}
	}

	return b.String()
}

// RenderResponse returns the response text, rendered as markdown when asked.
// Markdown rendering errors fall back to the raw text.
func RenderResponse(text string, markdown bool, width int) string {
	if !markdown || text == "" {
		return text
	}

	renderer, err := newMarkdownRenderer(width)
	if err != nil {
		return text
	}
	return renderMarkdown(renderer, text)
}

func newMarkdownRenderer(width int) (*glamour.TermRenderer, error) {
	options := []glamour.TermRendererOption{glamour.WithStandardStyle("dark")}
	if width > 10 {
		options = append(options, glamour.WithWordWrap(width-10))
	}
	return glamour.NewTermRenderer(options...)
}

func renderMarkdown(renderer *glamour.TermRenderer, text string) string {
	rendered, err := renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimSpace(rendered)
}

type responseKey struct {
	turn     int
	width    int
	markdown bool
}

// ResponseCache keeps rendered responses by chronological turn index and
// width. Turns never change once appended, so entries stay valid for the
// session. One markdown renderer is kept per width.
type ResponseCache struct {
	renderers map[int]*glamour.TermRenderer
	responses map[responseKey]string
}

func NewResponseCache() *ResponseCache {
	return &ResponseCache{
		renderers: make(map[int]*glamour.TermRenderer),
		responses: make(map[responseKey]string),
	}
}

// Render returns the rendered response of the turn at chronological index
// turn, rendering it only on the first request for that width.
func (c *ResponseCache) Render(turn int, text string, markdown bool, width int) string {
	if !markdown || text == "" {
		return text
	}

	k := responseKey{turn: turn, width: width, markdown: markdown}
	if rendered, ok := c.responses[k]; ok {
		return rendered
	}

	renderer, ok := c.renderers[width]
	if !ok {
		var err error
		if renderer, err = newMarkdownRenderer(width); err != nil {
			return text
		}
		c.renderers[width] = renderer
	}

	rendered := renderMarkdown(renderer, text)
	c.responses[k] = rendered
	return rendered
}

// Len reports the number of cached responses.
func (c *ResponseCache) Len() int {
	return len(c.responses)
}
