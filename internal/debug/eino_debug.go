// Package debug starts the eino visual debug server for the advisor chains.
package debug

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cloudwego/eino-ext/devops"
	log "github.com/sirupsen/logrus"

	"github.com/dyike/QuantFlow/config"
)

const defaultDebugPort = 52538

type EinoDebugger struct {
	config  *config.Config
	started bool
}

func NewEinoDebugger(cfg *config.Config) *EinoDebugger {
	return &EinoDebugger{config: cfg}
}

// Initialize registers the devops server. It must run before the advisor
// chains are compiled so they show up in the debug UI.
func (d *EinoDebugger) Initialize(ctx context.Context) error {
	if !d.IsEnabled() || d.started {
		return nil
	}

	log.WithField("port", d.port()).Debug("initializing eino debug plugin")
	if err := devops.Init(ctx, devops.WithDevServerPort(strconv.Itoa(d.port()))); err != nil {
		return fmt.Errorf("failed to initialize eino debug plugin: %w", err)
	}
	d.started = true

	log.WithField("url", d.DebugURL()).Info("eino debug server ready")
	return nil
}

func (d *EinoDebugger) IsEnabled() bool {
	return d.config != nil && d.config.EinoDebugEnabled
}

func (d *EinoDebugger) DebugURL() string {
	if !d.IsEnabled() {
		return ""
	}
	return fmt.Sprintf("http://localhost:%d", d.port())
}

// port is the dev server port; unset falls back to the devops default.
func (d *EinoDebugger) port() int {
	if d.config == nil || d.config.EinoDebugPort <= 0 {
		return defaultDebugPort
	}
	return d.config.EinoDebugPort
}
