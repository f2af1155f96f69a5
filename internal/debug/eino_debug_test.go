package debug

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dyike/QuantFlow/config"
)

func TestDisabledDebuggerIsNoop(t *testing.T) {
	cfg := &config.Config{EinoDebugPort: 52538}
	d := NewEinoDebugger(cfg)

	assert.False(t, d.IsEnabled())
	assert.Empty(t, d.DebugURL())
	assert.NoError(t, d.Initialize(context.Background()))
	assert.False(t, d.started)
}

func TestDebugURL(t *testing.T) {
	d := NewEinoDebugger(&config.Config{EinoDebugEnabled: true, EinoDebugPort: 6000})
	assert.Equal(t, "http://localhost:6000", d.DebugURL())
	assert.False(t, NewEinoDebugger(nil).IsEnabled())
}

func TestDebugPortFallsBackToDefault(t *testing.T) {
	d := NewEinoDebugger(&config.Config{EinoDebugEnabled: true})
	assert.Equal(t, defaultDebugPort, d.port())
	assert.Equal(t, "http://localhost:52538", d.DebugURL())

	custom := NewEinoDebugger(&config.Config{EinoDebugEnabled: true, EinoDebugPort: 6100})
	assert.Equal(t, 6100, custom.port())
	assert.Equal(t, "http://localhost:6100", custom.DebugURL())
}
