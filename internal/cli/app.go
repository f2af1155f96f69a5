package cli

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/dyike/QuantFlow/config"
	"github.com/dyike/QuantFlow/internal/advisor"
	"github.com/dyike/QuantFlow/internal/dashboard"
	"github.com/dyike/QuantFlow/internal/debug"
	"github.com/dyike/QuantFlow/internal/logging"
	"github.com/dyike/QuantFlow/internal/metrics"
	"github.com/dyike/QuantFlow/internal/notifications"
)

// App wires configuration into a running dashboard.
type App struct {
	Config    *config.Config
	Dashboard *dashboard.Dashboard
	Recorder  *metrics.Recorder
	Debugger  *debug.EinoDebugger

	notifier *notifications.Notifier
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logging.Setup(cfg.LogLevel, cfg.Debug, nil)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cfg.HasCredential() {
		log.Warn("API_KEY not set, AI insight will use fallback text")
	}

	app := &App{
		Config:   cfg,
		Recorder: metrics.NewRecorder(),
		Debugger: debug.NewEinoDebugger(cfg),
	}
	if err := app.Debugger.Initialize(ctx); err != nil {
		log.WithError(err).Warn("eino debug disabled")
	}

	opts := dashboard.Options{
		ConnectDelay: cfg.BrokerConnectDelay,
		Settings:     cfg.Settings(),
		Recorder:     app.Recorder,
	}
	if adv := newAdvisor(ctx, cfg, app.Recorder); adv != nil {
		opts.Advisor = adv
	}
	if cfg.SeedFile != "" {
		seed, err := dashboard.LoadSeed(cfg.SeedFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load seed: %w", err)
		}
		opts.Algorithms = seed.Algorithms
		opts.Broker = seed.Broker
	}
	app.Dashboard = dashboard.New(opts)

	sender := notifications.NewSender(cfg.WebhookURL, cfg.BotName)
	if sender.Enabled() {
		app.notifier = notifications.NewNotifier(sender, notifications.FilterFrom(opts.Settings), 0)
		app.Dashboard.Feed().Subscribe(app.notifier.Enqueue)
	}
	return app, nil
}

// newAdvisor returns nil when no chat model can be built; the dashboard then
// serves fallback texts.
func newAdvisor(ctx context.Context, cfg *config.Config, rec *metrics.Recorder) *advisor.Advisor {
	chatModel, err := advisor.NewChatModel(ctx, cfg)
	if err != nil {
		log.WithError(err).Warn("text generation unavailable")
		return nil
	}
	adv, err := advisor.New(ctx, chatModel, rec)
	if err != nil {
		log.WithError(err).Warn("text generation unavailable")
		return nil
	}
	return adv
}

// Start launches background workers and writes the boot entries.
func (a *App) Start(ctx context.Context) {
	if a.notifier != nil {
		go a.notifier.Run(ctx)
	}
	a.Dashboard.Start(ctx)
}
