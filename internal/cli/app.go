package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/bbsdemo"
	"github.com/aretw0/bbsdemo/internal/config"
	"github.com/aretw0/bbsdemo/internal/presentation/tui"
	httpAdapter "github.com/aretw0/bbsdemo/pkg/adapters/http"
	"github.com/aretw0/bbsdemo/pkg/domain"
	"github.com/aretw0/bbsdemo/pkg/observability"
	"github.com/aretw0/bbsdemo/pkg/wheel"
)

// Options carries the persistent command-line flags. Empty fields keep the
// configured value.
type Options struct {
	ConfigPath  string
	ServerURL   string
	Storage     string
	LogLevel    string
	LogFormat   string
	MetricsAddr string
}

// App is one wired process: configuration, logger, metrics and client.
type App struct {
	Config  config.Config
	Client  *bbsdemo.Client
	Logger  *slog.Logger
	Metrics *observability.Metrics
	Theme   *tui.Theme

	out     io.Writer
	styled  bool
	width   int
	closers []func() error
	stop    context.CancelFunc
	served  chan error
}

// Setup loads the configuration, applies opts and wires the client.
// stdout is where command output goes; styling and the OSC 52 clipboard
// are only enabled when it is a terminal.
func Setup(ctx context.Context, opts Options, stdout *os.File) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	applyFlags(&cfg, opts)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := createLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewMetrics(),
		Theme:   tui.NewTheme(),
		out:     stdout,
		styled:  IsTerminal(stdout),
		width:   terminalWidth(stdout),
	}

	kv, closeStore, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, closeStore)

	clientOpts := []bbsdemo.Option{
		bbsdemo.WithLogger(logger),
		bbsdemo.WithStore(kv),
		bbsdemo.WithMetrics(app.Metrics),
		bbsdemo.WithLifecycleHooks(debugHooks(logger)),
		bbsdemo.WithParams(cfg.DomainParams()),
		bbsdemo.WithThemeApplier(app.Theme),
		bbsdemo.WithHTTPOptions(httpAdapter.WithTimeout(cfg.Server.Timeout)),
		bbsdemo.WithWheelOptions(
			wheel.WithSlots(cfg.Wheel.Slots),
			wheel.WithBalance(cfg.Wheel.Balance),
			wheel.WithBet(cfg.Wheel.Bet),
		),
	}
	if app.styled {
		clientOpts = append(clientOpts,
			bbsdemo.WithDarkPreference(tui.PrefersDark),
			bbsdemo.WithClipboard(tui.NewClipboard(stdout)),
		)
	}

	client, err := bbsdemo.New(ctx, cfg.Server.URL, clientOpts...)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.Client = client

	if cfg.MetricsAddr != "" {
		mctx, cancel := context.WithCancel(ctx)
		app.stop = cancel
		app.served = make(chan error, 1)
		go func() {
			app.served <- ServeMetrics(mctx, cfg.MetricsAddr, observability.NewHandler(app.Metrics.Registry()), logger)
		}()
	}
	return app, nil
}

func applyFlags(cfg *config.Config, opts Options) {
	if opts.ServerURL != "" {
		cfg.Server.URL = opts.ServerURL
	}
	if opts.Storage != "" {
		cfg.Storage.Backend = opts.Storage
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if opts.LogFormat != "" {
		cfg.Log.Format = opts.LogFormat
	}
	if opts.MetricsAddr != "" {
		cfg.MetricsAddr = opts.MetricsAddr
	}
}

// Out is where command output is written.
func (a *App) Out() io.Writer { return a.out }

// Close stops the client timers, the metrics listener and the store.
func (a *App) Close() error {
	var errs []error
	if a.Client != nil {
		a.Client.Close()
	}
	if a.stop != nil {
		a.stop()
		if err := <-a.served; err != nil {
			errs = append(errs, fmt.Errorf("metrics listener: %w", err))
		}
	}
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// clipboardNote tells the user whether a result was copied.
func (a *App) clipboardNote() string {
	if a.styled && a.Client.Settings.Get().AutoCopy {
		return " (copied to clipboard)"
	}
	return ""
}

func debugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRequestStart: func(ctx context.Context, e *domain.RequestEvent) {
			logger.Debug("Request started", "workflow", e.Workflow, "request_id", e.RequestID)
		},
		OnRequestEnd: func(ctx context.Context, e *domain.RequestEvent) {
			if e.Err != nil {
				logger.Debug("Request ended", "workflow", e.Workflow, "request_id", e.RequestID,
					"outcome", e.Outcome, "duration", e.Duration, "err", e.Err)
				return
			}
			logger.Debug("Request ended", "workflow", e.Workflow, "request_id", e.RequestID,
				"outcome", e.Outcome, "duration", e.Duration)
		},
	}
}
