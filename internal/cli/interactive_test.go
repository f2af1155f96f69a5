package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyike/QuantFlow/consts"
	"github.com/dyike/QuantFlow/internal/advisor"
	"github.com/dyike/QuantFlow/internal/dashboard"
	"github.com/dyike/QuantFlow/internal/models"
)

type scriptedPrompter struct {
	algorithm string
	indicator string
	confirm   bool
	asked     []string
}

func (p *scriptedPrompter) SelectAlgorithm([]models.TradingAlgorithm) (string, error) {
	p.asked = append(p.asked, "algorithm")
	return p.algorithm, nil
}

func (p *scriptedPrompter) SelectIndicator(models.StrategyConfig) (string, error) {
	p.asked = append(p.asked, "indicator")
	return p.indicator, nil
}

func (p *scriptedPrompter) ConfirmKillSwitch(int) (bool, error) {
	p.asked = append(p.asked, "kill")
	return p.confirm, nil
}

func runScript(t *testing.T, d *dashboard.Dashboard, p Prompter, script string) string {
	t.Helper()
	var out bytes.Buffer
	app := &App{Dashboard: d}
	s := NewInteractiveSession(context.Background(), app, strings.NewReader(script), &out, p)
	require.NoError(t, s.runMainLoop())
	return out.String()
}

func TestSessionToggleAndConfigure(t *testing.T) {
	d := dashboard.New(dashboard.Options{})
	out := runScript(t, d, &scriptedPrompter{}, "toggle 1\nselect 4\nset leverage 3\nindicator RSI\nexit\n")

	assert.Contains(t, out, "Alpha Arbitrage is now STOPPED")
	alg, err := d.Algorithm("4")
	require.NoError(t, err)
	assert.Equal(t, 3.0, alg.Config.Leverage)
	assert.Equal(t, []string{"ATR", "RSI"}, alg.Config.Indicators)
	assert.Contains(t, out, "Goodbye.")
}

func TestSessionPromptsWhenArgumentsMissing(t *testing.T) {
	d := dashboard.New(dashboard.Options{})
	p := &scriptedPrompter{algorithm: "2", indicator: "MACD"}
	runScript(t, d, p, "select\nindicator\n")

	assert.Equal(t, []string{"algorithm", "indicator"}, p.asked)
	alg, err := d.Algorithm("2")
	require.NoError(t, err)
	assert.Equal(t, []string{"EMA20"}, alg.Config.Indicators)
}

func TestSessionToggleRefusedWhileDisconnected(t *testing.T) {
	d := dashboard.New(dashboard.Options{})
	out := runScript(t, d, &scriptedPrompter{}, "disconnect\ntoggle 2\nlogs error\n")

	assert.Contains(t, out, "status unchanged")
	assert.Contains(t, out, "Cannot toggle bot")
	assert.Equal(t, 3, d.ActiveCount())
}

func TestSessionKillSwitchNeedsConfirmation(t *testing.T) {
	d := dashboard.New(dashboard.Options{})
	runScript(t, d, &scriptedPrompter{confirm: false}, "kill\n")
	assert.Equal(t, 3, d.ActiveCount())

	out := runScript(t, d, &scriptedPrompter{confirm: true}, "kill\n")
	assert.Equal(t, 0, d.ActiveCount())
	assert.Contains(t, out, "3 bots halted")
}

func TestSessionErrors(t *testing.T) {
	d := dashboard.New(dashboard.Options{})
	out := runScript(t, d, &scriptedPrompter{}, "set leverage lots\nset colour 1\nselect 99\nfrobnicate")

	assert.Contains(t, out, `invalid number "lots"`)
	assert.Contains(t, out, "unknown config field")
	assert.Contains(t, out, "algorithm not found")
	assert.Contains(t, out, "unknown command: frobnicate")
}

func TestSessionInsightUsesFallback(t *testing.T) {
	d := dashboard.New(dashboard.Options{})
	out := runScript(t, d, &scriptedPrompter{}, "insight\nadvise 3\n")
	assert.Contains(t, out, "Unable to retrieve AI analysis at this time.")
	assert.Contains(t, out, "Check algorithm logs for technical details.")
}

type blockingAdvisor struct {
	started chan struct{}
	release chan struct{}
}

func (a *blockingAdvisor) MarketInsight(ctx context.Context, _ []models.PortfolioPoint, _ advisor.PortfolioSummary) string {
	close(a.started)
	<-a.release
	return "Volatility is easing."
}

func (a *blockingAdvisor) StrategyAdvice(context.Context, string, advisor.StrategyPerformance) string {
	return ""
}

func TestSessionRendersBeforeFirstInsight(t *testing.T) {
	adv := &blockingAdvisor{started: make(chan struct{}), release: make(chan struct{})}
	d := dashboard.New(dashboard.Options{Advisor: adv})
	app := &App{Dashboard: d}

	var out bytes.Buffer
	require.NoError(t, runSession(context.Background(), app, strings.NewReader("exit\n"), &out, &scriptedPrompter{}))
	assert.Contains(t, out.String(), consts.InsightInitializing)
	assert.Contains(t, out.String(), "Goodbye.")

	select {
	case <-adv.started:
	case <-time.After(2 * time.Second):
		t.Fatal("insight refresh was not started")
	}
	text, refreshing := d.Insight()
	assert.Equal(t, consts.InsightAnalyzing, text)
	assert.True(t, refreshing)

	close(adv.release)
	assert.Eventually(t, func() bool {
		text, refreshing := d.Insight()
		return text == "Volatility is easing." && !refreshing
	}, 2*time.Second, 5*time.Millisecond)
}
