package display

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/dyike/QuantFlow/internal/dashboard"
	"github.com/dyike/QuantFlow/internal/models"
	"github.com/dyike/QuantFlow/internal/samples"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$53,100.00", Money(dec("53100")))
	assert.Equal(t, "-$1,234.50", Money(dec("-1234.5")))
}

func TestPercent(t *testing.T) {
	assert.Contains(t, Percent(dec("38.2")), "+38.2%")
	assert.Contains(t, Percent(dec("-1.2")), "-1.2%")
	assert.Equal(t, "0.0%", Percent(decimal.Zero))
}

func TestSparkline(t *testing.T) {
	assert.Equal(t, "", Sparkline(nil))
	assert.Equal(t, "▁█", Sparkline([]decimal.Decimal{dec("1"), dec("2")}))
	assert.Equal(t, "▁▁▁", Sparkline([]decimal.Decimal{dec("5"), dec("5"), dec("5")}))

	values := make([]decimal.Decimal, 0, 8)
	for _, p := range samples.PortfolioHistory() {
		values = append(values, p.Balance)
	}
	line := []rune(Sparkline(values))
	assert.Len(t, line, 8)
	assert.Equal(t, '▁', line[0])
	assert.Equal(t, '█', line[7])
}

func TestDashboardView(t *testing.T) {
	d := dashboard.New(dashboard.Options{})
	_, err := d.Select("2")
	assert.NoError(t, err)
	_, _, err = d.ToggleAlgorithm("3")
	assert.NoError(t, err)

	out := Dashboard(d, 10)
	for _, want := range []string{"Korea Investment", "CONNECTED", "$53,100.00", "Momentum Scalper", "▶", "SET_STATUS", "Initializing"} {
		assert.Contains(t, out, want)
	}
}

func TestLogsPanel(t *testing.T) {
	assert.Contains(t, Logs(nil, 10), "No logs match")

	entries := make([]models.LogEntry, 0, 20)
	for i := 0; i < 20; i++ {
		entries = append(entries, models.LogEntry{Category: models.LogInfo, Message: "tick"})
	}
	assert.Equal(t, 10, strings.Count(Logs(entries, 10), "tick"))
}

func TestConfigPanel(t *testing.T) {
	out := Config(samples.Algorithms()[0])
	assert.Contains(t, out, "Alpha Arbitrage")
	assert.Contains(t, out, "[RSI]")
	assert.Contains(t, out, "[VWAP]")
	assert.NotContains(t, out, "[MACD]")
}

func TestStaticPanels(t *testing.T) {
	assert.Contains(t, Analytics(samples.Analytics()), "619")
	assert.Contains(t, Analytics(samples.Analytics()), "$7,500.00")
	assert.Contains(t, Settings(models.Settings{MaxDailyTrades: 1500, NotifyTrades: true}), "1,500")
	assert.Contains(t, Market(samples.MarketData()), "2,011")
	assert.Contains(t, Performance(), "90%")
	assert.Contains(t, Insight("text", true), "refreshing")
}

func TestWrapText(t *testing.T) {
	assert.Equal(t, "", wrapText("   ", 10))
	assert.Equal(t, "one two\nthree", wrapText("one two three", 8))
}
