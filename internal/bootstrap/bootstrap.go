package bootstrap

import (
	"fmt"
	"io"
	"net/http"

	tea "github.com/charmbracelet/bubbletea"
	hclog "github.com/hashicorp/go-hclog"

	adviceinadapter "brewlog/internal/modules/advice/adapter/in"
	adviceoutadapter "brewlog/internal/modules/advice/adapter/out"
	adviceout "brewlog/internal/modules/advice/port/out"
	adviceservice "brewlog/internal/modules/advice/service"
	adviceusecase "brewlog/internal/modules/advice/usecase"
	brewinadapter "brewlog/internal/modules/brew/adapter/in"
	brewoutadapter "brewlog/internal/modules/brew/adapter/out"
	brewout "brewlog/internal/modules/brew/port/out"
	brewservice "brewlog/internal/modules/brew/service"
	brewusecase "brewlog/internal/modules/brew/usecase"
	timerinadapter "brewlog/internal/modules/timer/adapter/in"
	timerservice "brewlog/internal/modules/timer/service"
	timerusecase "brewlog/internal/modules/timer/usecase"
	"brewlog/internal/platform/clock"
	"brewlog/internal/platform/config"
	"brewlog/internal/platform/id"
	"brewlog/internal/platform/logging"
	"brewlog/internal/platform/tx"
	uiapp "brewlog/internal/ui/app"
)

type App struct {
	Config    config.Config
	Logger    hclog.Logger
	BrewCLI   brewinadapter.CLIHandler
	BrewTUI   brewinadapter.TUIHandler
	TimerCLI  timerinadapter.CLIHandler
	AdviceCLI adviceinadapter.CLIHandler

	closers []io.Closer
}

func New(cfg config.Config) (*App, error) {
	logger, logCloser, err := logging.New(cfg)
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, Logger: logger, closers: []io.Closer{logCloser}}

	clk := clock.SystemClock{}
	ids := id.UUID{}

	store, err := app.newKeyValueStore(cfg)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	repo := brewoutadapter.NewCollectionRepository(
		store,
		tx.NewFileLockManager(cfg.LockPath, cfg.StoreLockTimeout),
		clk,
		logger,
	)

	brewUC := brewusecase.NewInteractor(brewservice.NewBrewService(
		clk,
		ids,
		repo,
		brewoutadapter.NewMarkdownJournalExporter(cfg.Dir),
		logger,
	))
	timerUC := timerusecase.NewInteractor(timerservice.NewTimerService(
		clk,
		repo,
		cfg.Timer.DefaultMinutes,
		cfg.Timer.TickInterval,
		logger,
	))
	adviceUC := adviceusecase.NewInteractor(
		adviceservice.NewAdviceService(newAdvisor(cfg, logger), cfg.Advisor.Timeout, logger),
		brewUC,
	)

	app.BrewCLI = brewinadapter.NewCLIHandler(brewUC)
	app.BrewTUI = brewinadapter.NewTUIHandler(brewUC)
	app.TimerCLI = timerinadapter.NewCLIHandler(timerUC)
	app.AdviceCLI = adviceinadapter.NewCLIHandler(adviceUC)
	logger.Debug("app ready", "dir", cfg.Dir, "store", cfg.Store, "advisor", cfg.Advisor.Provider)
	return app, nil
}

func (a *App) newKeyValueStore(cfg config.Config) (brewout.KeyValueStore, error) {
	switch cfg.Store {
	case config.StoreFile:
		return brewoutadapter.NewFileKVStore(cfg.DataDir), nil
	default:
		store, err := brewoutadapter.NewSQLiteKVStore(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("new session store: %w", err)
		}
		a.closers = append(a.closers, store)
		return store, nil
	}
}

func newAdvisor(cfg config.Config, logger hclog.Logger) adviceout.Advisor {
	switch cfg.Advisor.Provider {
	case config.AdvisorPlugin:
		return adviceoutadapter.NewPluginAdvisor(adviceoutadapter.NewFileManifestStore(cfg.Advisor.PluginManifest), logger)
	case config.AdvisorGemini:
		return adviceoutadapter.NewGeminiAdvisor(adviceoutadapter.GeminiConfig{
			Endpoint:    cfg.Advisor.Endpoint,
			Model:       cfg.Advisor.Model,
			APIKey:      cfg.APIKey(),
			Temperature: cfg.Advisor.Temperature,
		}, &http.Client{Timeout: cfg.Advisor.Timeout})
	default:
		return adviceoutadapter.NewNoneAdvisor()
	}
}

// Close releases the store and log file in reverse order of opening.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.BrewTUI, app.TimerCLI, app.AdviceCLI, app.Config.Timer.TickInterval)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
