// Package app wires configuration, storage, the backend client and the
// state store into one value that commands and the browser share.
package app

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/felixgeelhaar/shopfront/internal/api"
	"github.com/felixgeelhaar/shopfront/internal/config"
	"github.com/felixgeelhaar/shopfront/internal/contract"
	"github.com/felixgeelhaar/shopfront/internal/log"
	"github.com/felixgeelhaar/shopfront/internal/metrics"
	"github.com/felixgeelhaar/shopfront/internal/session"
	"github.com/felixgeelhaar/shopfront/internal/state"
	"github.com/felixgeelhaar/shopfront/internal/storage"
	"github.com/felixgeelhaar/shopfront/internal/telemetry"
	"github.com/felixgeelhaar/shopfront/internal/version"
)

// App is the composed client.
type App struct {
	Config    *config.Config
	Logger    *log.Logger
	Storage   storage.Storage
	Tokens    *state.TokenGate
	Client    *api.Client
	Contract  *contract.Contract
	Store     *state.Store
	Bootstrap *state.Bootstrapper
	Metrics   *metrics.Metrics
	Registry  *prometheus.Registry
	Telemetry *telemetry.Provider
}

type options struct {
	logger  *log.Logger
	storage storage.Storage
	tracing *telemetry.Provider
}

// Option overrides a component New would otherwise build from config.
type Option func(*options)

// WithLogger uses l instead of a logger built from the log section.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithStorage uses s instead of opening the configured driver. App.Close
// still closes it.
func WithStorage(s storage.Storage) Option {
	return func(o *options) { o.storage = s }
}

// WithTelemetry uses p instead of a provider built from the tracing section.
func WithTelemetry(p *telemetry.Provider) Option {
	return func(o *options) { o.tracing = p }
}

// NewLogger builds the logger described by cfg.Log.
func NewLogger(cfg *config.Config) *log.Logger {
	lc := log.DefaultConfig()
	lc.Level = log.ParseLevel(cfg.Log.Level)
	lc.Format = log.ParseFormat(cfg.Log.Format)
	return log.New(lc)
}

// New builds an App from cfg.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{Config: cfg, Logger: o.logger}
	if a.Logger == nil {
		a.Logger = NewLogger(cfg)
	}

	a.Storage = o.storage
	if a.Storage == nil {
		s, err := storage.Open(ctx, cfg.StorageOptions())
		if err != nil {
			return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Driver, err)
		}
		a.Storage = s
	}

	a.Telemetry = o.tracing
	if a.Telemetry == nil {
		tc := telemetry.DefaultConfig()
		tc.ServiceVersion = version.Version
		tc.Enabled = cfg.Tracing.Enabled
		tc.Endpoint = cfg.Tracing.Endpoint
		tc.Insecure = cfg.Tracing.Insecure
		tc.SampleRate = cfg.Tracing.SampleRate
		p, err := telemetry.NewProvider(ctx, tc)
		if err != nil {
			_ = a.Storage.Close()
			return nil, fmt.Errorf("failed to start tracing: %w", err)
		}
		a.Telemetry = p
	}
	a.Telemetry.InstallGlobal()

	a.Registry, a.Metrics = metrics.NewProcessRegistry()

	c, err := contract.Load(ctx, cfg.API.BaseURL)
	if err != nil {
		_ = a.close(ctx)
		return nil, fmt.Errorf("failed to load API contract: %w", err)
	}
	a.Contract = c

	a.Tokens = state.NewTokenGate(session.NewTokenCache(a.Storage))
	if err := a.Tokens.Err(); err != nil {
		a.Logger.WithError(err).Warn("stored session could not be read")
	}

	a.Client = api.NewClient(cfg.API.BaseURL, a.Tokens,
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetry(cfg.API.RetryMax, cfg.API.RetryWaitMin, cfg.API.RetryWaitMax),
		api.WithTranslator(api.NewTranslator(cfg.Locale)),
		api.WithTracerProvider(a.Telemetry.TracerProvider()),
		api.WithObserver(a.Metrics),
		api.WithValidator(a.Contract, cfg.API.StrictContract),
		api.WithUserAgent(version.GetInfo().UserAgent()),
		api.WithLogger(a.Logger),
	)

	a.Store = state.New(ctx, state.Options{
		API:            a.Client,
		Tokens:         a.Tokens,
		Storage:        a.Storage,
		Logger:         a.Logger,
		Metrics:        a.Metrics,
		TracerProvider: a.Telemetry.TracerProvider(),
		DefaultTheme:   DefaultTheme(),
	})
	a.Bootstrap = state.NewBootstrapper(a.Store)

	a.Logger.Debug("client ready",
		"base_url", cfg.API.BaseURL,
		"storage", cfg.Storage.Driver,
		"locale", cfg.Locale,
		"config_file", cfg.File)
	return a, nil
}

// DefaultTheme follows the terminal background.
func DefaultTheme() state.Theme {
	if lipgloss.HasDarkBackground() {
		return state.ThemeDark
	}
	return state.ThemeLight
}

// Close flushes metrics and traces and releases storage.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if path := a.Config.Metrics.Textfile; path != "" && a.Registry != nil {
		if err := metrics.WriteTextfile(path, a.Registry); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.close(ctx); err != nil {
		errs = append(errs, err)
	}
	return stderrors.Join(errs...)
}

func (a *App) close(ctx context.Context) error {
	var errs []error
	if a.Telemetry != nil {
		if err := a.Telemetry.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to flush traces: %w", err))
		}
	}
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close storage: %w", err))
		}
	}
	return stderrors.Join(errs...)
}
