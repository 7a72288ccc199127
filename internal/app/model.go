package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/Rorical/RoriTutor/internal/dispatcher"
	"github.com/Rorical/RoriTutor/internal/models"
	"github.com/Rorical/RoriTutor/internal/update"
	"github.com/Rorical/RoriTutor/ui/components"
	"github.com/Rorical/RoriTutor/ui/styles"
)

// Rows taken by the header, input box and status bar.
const chromeHeight = 7

// renderKey holds everything the conversation view depends on. The spinner
// frame only counts while loading.
type renderKey struct {
	turns    int
	selected int
	copied   int
	width    int
	loading  bool
	markdown bool
	frame    string
}

type AppModel struct {
	appModel   models.AppModel
	dispatcher *dispatcher.EventDispatcher
	spinner    spinner.Model
	ticking    bool // A spinner tick is scheduled
	viewport   viewport.Model
	responses  *components.ResponseCache
	rendered   *renderKey // Key of the current viewport content, nil before the first render
	clipboard  update.ClipboardWriter
	logger     zerolog.Logger
}

func NewAppModel(appModel models.AppModel, disp *dispatcher.EventDispatcher, clip update.ClipboardWriter, logger zerolog.Logger) *AppModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SpinnerStyle()

	return &AppModel{
		appModel:   appModel,
		dispatcher: disp,
		spinner:    s,
		viewport:   viewport.New(0, 0),
		responses:  components.NewResponseCache(),
		clipboard:  clip,
		logger:     logger.With().Str("component", "ui").Logger(),
	}
}

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(
		m.startSpinner(),
		m.dispatcher.ListenForCoreEvents(),
	)
}

// startSpinner schedules a tick when loading and none is pending. Ticks stop
// once loading ends.
func (m *AppModel) startSpinner() tea.Cmd {
	if !m.appModel.Loading || m.ticking {
		return nil
	}
	m.ticking = true
	return m.spinner.Tick
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case dispatcher.CoreEventMsg:
		update.HandleCoreEvent(&m.appModel, msg)
		cmds = append(cmds, m.dispatcher.ListenForCoreEvents())
	case tea.KeyMsg:
		if key.Matches(msg, update.Keys.PageUp, update.Keys.PageDown) {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		cmd, err := update.HandleKeyMsg(&m.appModel, msg, m.dispatcher.GetEventBus(), m.clipboard)
		if err != nil {
			m.logger.Error().Err(err).Msg("copy failed")
		}
		cmds = append(cmds, cmd)
	case update.CopyResetMsg:
		update.HandleCopyReset(&m.appModel, msg)
	case tea.WindowSizeMsg:
		update.HandleWindowSizeMsg(&m.appModel, msg)
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chromeHeight, 1)
	case spinner.TickMsg:
		if !m.appModel.Loading {
			m.ticking = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.ticking = cmd != nil
		cmds = append(cmds, cmd)
	}

	cmds = append(cmds, m.startSpinner())
	m.refreshViewport()
	return m, tea.Batch(cmds...)
}

// refreshViewport redraws the conversation when something it shows changed.
func (m *AppModel) refreshViewport() {
	k := renderKey{
		turns:    len(m.appModel.Conversation),
		selected: m.appModel.Selected,
		copied:   m.appModel.CopiedIndex,
		width:    m.appModel.Width,
		loading:  m.appModel.Loading,
		markdown: m.appModel.Markdown,
	}
	if k.loading {
		k.frame = m.spinner.View()
	}
	if m.rendered != nil && *m.rendered == k {
		return
	}
	m.rendered = &k

	m.logger.Debug().Int("turns", k.turns).Int("width", k.width).Bool("loading", k.loading).Msg("render conversation")
	m.viewport.SetContent(m.renderConversation())
}

func (m *AppModel) renderConversation() string {
	return components.RenderConversation(m.appModel.Conversation, components.ConversationView{
		Loading:     m.appModel.Loading,
		Spinner:     m.spinner.View(),
		Selected:    m.appModel.Selected,
		CopiedIndex: m.appModel.CopiedIndex,
		Width:       m.appModel.Width,
		Markdown:    m.appModel.Markdown,
		Responses:   m.responses,
	})
}

func (m *AppModel) View() string {
	var b strings.Builder

	b.WriteString(components.RenderHeader(m.appModel.Title, m.appModel.Subtitle, m.appModel.Width))
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(components.RenderInput(m.appModel.Input, m.appModel.Loading, m.appModel.Width))
	b.WriteString("\n")
	b.WriteString(components.RenderStatus(m.appModel.Status, m.appModel.Loading, m.spinner.View(), m.appModel.Width))

	return b.String()
}
