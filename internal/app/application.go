package app

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/Rorical/RoriTutor/internal/client"
	"github.com/Rorical/RoriTutor/internal/config"
	"github.com/Rorical/RoriTutor/internal/core"
	"github.com/Rorical/RoriTutor/internal/dispatcher"
	"github.com/Rorical/RoriTutor/internal/eventbus"
	"github.com/Rorical/RoriTutor/internal/logging"
	"github.com/Rorical/RoriTutor/internal/models"
)

// Options are the start-up inputs of the chat application.
type Options struct {
	Question string // Pre-filled prompt
	Profile  string // Profile to use instead of the active one
	Debug    bool
}

// Application manages the complete application lifecycle
type Application struct {
	config     *config.Config
	eventBus   *eventbus.EventBus
	dispatcher *dispatcher.EventDispatcher
	service    *core.ChatService
	model      *AppModel
	logger     zerolog.Logger
	logCloser  io.Closer
}

func NewApplication(opts Options) (*Application, error) {
	if err := config.LoadEnv(); err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if opts.Profile != "" {
		if err := cfg.UseProfile(opts.Profile); err != nil {
			return nil, err
		}
	}

	dir, err := config.Dir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}
	logger, logCloser, err := logging.New(filepath.Join(dir, logging.FileName), opts.Debug)
	if err != nil {
		return nil, err
	}

	asker, err := client.New(cfg)
	if err != nil {
		logCloser.Close()
		return nil, err
	}

	eb := eventbus.NewEventBus()
	eb.SetErrorCallback(logEventBusError(eb, logger))

	disp := dispatcher.NewEventDispatcher(eb)
	chatService := core.NewChatService(asker, eb, logger)

	logger.Info().
		Str("profile", cfg.ActiveProfile).
		Str("provider", cfg.GetProvider()).
		Bool("valid", cfg.IsValid()).
		Msg("starting")

	return &Application{
		config:     cfg,
		eventBus:   eb,
		dispatcher: disp,
		service:    chatService,
		model:      NewAppModel(createInitialAppModel(cfg, opts.Question), disp, clipboard.WriteAll, logger),
		logger:     logger,
		logCloser:  logCloser,
	}, nil
}

func (app *Application) Start() error {
	app.service.Start()

	p := tea.NewProgram(app.model, tea.WithAltScreen())
	_, err := p.Run()

	return err
}

func (app *Application) Stop() {
	app.service.Stop()
	app.eventBus.Close()
	app.logger.Info().Msg("stopped")
	app.logCloser.Close()
}

// logEventBusError reports bus failures together with the breaker state they
// left behind.
func logEventBusError(eb *eventbus.EventBus, logger zerolog.Logger) func(eventbus.EventBusError) {
	logger = logger.With().Str("component", "eventbus").Logger()
	return func(e eventbus.EventBusError) {
		logger.Warn().
			Str("operation", e.Operation).
			Stringer("circuit", eb.GetCircuitBreakerState()).
			Err(e.Err).
			Msg("event bus error")
	}
}

func createInitialAppModel(cfg *config.Config, question string) models.AppModel {
	appModel := models.NewAppModel(question)
	appModel.Markdown = cfg.RenderMarkdown()
	if cfg.GetProvider() == config.ProviderOpenAI {
		appModel.Subtitle = "Powered by " + cfg.GetModel()
	}
	if !cfg.IsValid() {
		appModel.Status = fmt.Sprintf("Profile %q is not configured", cfg.ActiveProfile)
	}
	return appModel
}
