package bootstrap

import (
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hashicorp/go-hclog"

	backgroundinadapter "typetrack/internal/modules/background/adapter/in"
	backgroundoutadapter "typetrack/internal/modules/background/adapter/out"
	backgroundservice "typetrack/internal/modules/background/service"
	backgroundusecase "typetrack/internal/modules/background/usecase"
	practiceinadapter "typetrack/internal/modules/practice/adapter/in"
	practiceoutadapter "typetrack/internal/modules/practice/adapter/out"
	practiceout "typetrack/internal/modules/practice/port/out"
	practiceservice "typetrack/internal/modules/practice/service"
	practiceusecase "typetrack/internal/modules/practice/usecase"
	storageoutadapter "typetrack/internal/modules/storage/adapter/out"
	storageout "typetrack/internal/modules/storage/port/out"
	storageusecase "typetrack/internal/modules/storage/usecase"
	themeinadapter "typetrack/internal/modules/theme/adapter/in"
	themeoutadapter "typetrack/internal/modules/theme/adapter/out"
	themeservice "typetrack/internal/modules/theme/service"
	themeusecase "typetrack/internal/modules/theme/usecase"
	typingoutadapter "typetrack/internal/modules/typing/adapter/out"
	typingin "typetrack/internal/modules/typing/port/in"
	typingservice "typetrack/internal/modules/typing/service"
	typingusecase "typetrack/internal/modules/typing/usecase"
	"typetrack/internal/platform/clock"
	"typetrack/internal/platform/config"
	"typetrack/internal/platform/id"
	"typetrack/internal/platform/logging"
	"typetrack/internal/platform/tx"
	popupview "typetrack/internal/ui/views/popup"
	practiceview "typetrack/internal/ui/views/practice"
)

// Options select how one process of the binary is wired.
type Options struct {
	// Component names the root logger: daemon, practice, popup or cli.
	Component string
	// Tee also writes log lines to stderr.
	Tee bool
	// Ephemeral keeps all storage in memory.
	Ephemeral bool
	// TabID identifies this practice surface to the daemon.
	TabID int
}

type App struct {
	Config        config.Config
	Logger        hclog.Logger
	PracticeCLI   practiceinadapter.CLIHandler
	ThemeCLI      themeinadapter.CLIHandler
	BackgroundCLI backgroundinadapter.CLIHandler
	Typing        typingin.Usecase

	closers []io.Closer
}

func New(cfg config.Config, opts Options) (*App, error) {
	if opts.Component == "" {
		opts.Component = "cli"
	}
	logger, logFile, err := logging.OpenFile(opts.Component, cfg.LogLevel, cfg.LogPath, opts.Tee)
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, Logger: logger, closers: []io.Closer{logFile}}

	clk := clock.SystemClock{}
	var backend storageout.Backend
	if opts.Ephemeral {
		backend = storageoutadapter.NewMemoryBackend()
	} else {
		backend, err = storageoutadapter.NewSQLiteBackend(cfg.DBPath, clk)
		if err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("new storage backend: %w", err)
		}
	}
	app.closers = append(app.closers, backend)
	storageUC := storageusecase.NewInteractor(backend)
	txm := tx.NewSerialManager()

	themeUC := themeusecase.NewInteractor(themeservice.NewThemeService(
		themeoutadapter.NewKVMappingStore(storageUC),
		themeoutadapter.NewSVGIconRenderer(cfg.IconDir),
		txm,
		logger.Named("theme"),
	))

	var notifier practiceout.Notifier
	if cfg.Notifier.Plugin != "" {
		pluginNotifier := practiceoutadapter.NewPluginNotifier(cfg.Notifier.Plugin, cfg.Notifier.SHA256, logger.Named("notifier"))
		app.closers = append(app.closers, pluginNotifier)
		notifier = pluginNotifier
	} else {
		notifier = practiceoutadapter.NewLogNotifier(logger)
	}
	practiceUC := practiceusecase.NewInteractor(
		practiceservice.NewPracticeService(
			clk,
			id.UUID{},
			practiceoutadapter.NewKVRecordStore(storageUC),
			notifier,
			txm,
			logger.Named("rollover"),
		),
		practiceoutadapter.NewEChartsRenderer(),
		practiceoutadapter.BrowserOpener{},
		logger.Named("practice"),
	)

	daemonStore := backgroundoutadapter.NewFileDaemonStore(cfg.PIDPath, cfg.SocketPath, cfg.LogPath)
	ipcClient := backgroundoutadapter.NewJSONRPCClient()
	messenger := backgroundusecase.NewMessenger(ipcClient, daemonStore)
	daemon := backgroundservice.NewDaemonService(
		cfg.DataDir,
		daemonStore,
		backgroundoutadapter.NewJSONRPCServer(),
		ipcClient,
		backgroundusecase.NewDispatcher(themeUC, practiceUC, logger.Named("dispatch")),
		storageUC,
		practiceUC,
		clk,
		logger,
	)

	app.PracticeCLI = practiceinadapter.NewCLIHandler(practiceUC)
	app.ThemeCLI = themeinadapter.NewCLIHandler(themeUC)
	app.BackgroundCLI = backgroundinadapter.NewCLIHandler(daemon, messenger)
	app.Typing = typingusecase.NewInteractor(typingservice.NewTypingService(
		opts.TabID,
		clk,
		typingoutadapter.NewMessengerSender(messenger),
		logger.Named("typing"),
	))
	return app, nil
}

// Close releases the notifier plugin, the storage backend and the log file, in that order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func RunPractice(app *App) error {
	model := practiceview.New(app.Typing, practiceview.Options{
		FlushInterval:     app.Config.FlushInterval,
		ThemePollInterval: app.Config.ThemePollInterval,
		Logger:            app.Logger.Named("practice"),
	})
	defer model.Close()
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithReportFocus())
	_, err := program.Run()
	return err
}

func RunPopup(app *App) error {
	model := popupview.New(app.PracticeCLI, app.ThemeCLI, popupview.Options{Shortcut: app.Config.PopupShortcut})
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
