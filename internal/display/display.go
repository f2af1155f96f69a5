// Package display renders dashboard panels for the terminal.
package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/dyike/QuantFlow/internal/dashboard"
	"github.com/dyike/QuantFlow/internal/models"
	"github.com/dyike/QuantFlow/internal/samples"
)

const panelWidth = 80

var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED")).
		Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#3B82F6")).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#3B82F6")).
		Padding(0, 2).
		Width(panelWidth)

	panelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#374151")).
		Padding(0, 2).
		Width(panelWidth)

	selectedStyle = panelStyle.
		BorderForeground(lipgloss.Color("#7C3AED"))

	insightStyle = panelStyle.
		BorderForeground(lipgloss.Color("#6366F1"))

	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	profitStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	lossStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	apiStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6"))
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// Header shows the connection badge, balance and aggregate counters.
func Header(snap dashboard.Snapshot) string {
	broker := snap.Broker
	badge := statusStyle(broker.Status).Render(string(broker.Status))
	line1 := fmt.Sprintf("QuantFlow | %s %s | latency %s", broker.Name, badge, broker.LastPing)
	line2 := fmt.Sprintf("Balance %s | P/L %s | Active bots %d/%d",
		Money(snap.Balance), Percent(snap.TotalProfit), snap.ActiveCount, len(snap.Algorithms))
	return headerStyle.Render(line1 + "\n" + line2)
}

// Portfolio draws the balance series as a sparkline with its range.
func Portfolio(history []models.PortfolioPoint) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Portfolio Value") + "\n")
	if len(history) == 0 {
		b.WriteString(mutedStyle.Render("No data"))
		return panelStyle.Render(b.String())
	}

	values := make([]decimal.Decimal, len(history))
	for i, p := range history {
		values[i] = p.Balance
	}
	b.WriteString(Sparkline(values) + "\n")
	first, last := history[0], history[len(history)-1]
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%s %s  →  %s %s",
		first.Time, Money(first.Balance), last.Time, Money(last.Balance))))
	return panelStyle.Render(b.String())
}

// Market lists the price tape.
func Market(points []models.MarketDataPoint) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Market") + "\n")
	values := make([]decimal.Decimal, len(points))
	for i, p := range points {
		values[i] = p.Price
	}
	b.WriteString(Sparkline(values))
	if n := len(points); n > 0 {
		last := points[n-1]
		b.WriteString(fmt.Sprintf("\n%s last %s vol %s", last.Time, Money(last.Price), humanize.Comma(last.Volume)))
	}
	return panelStyle.Render(b.String())
}

// Sparkline maps values onto eight block heights.
func Sparkline(values []decimal.Decimal) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = decimal.Min(lo, v)
		hi = decimal.Max(hi, v)
	}
	span := hi.Sub(lo)
	top := decimal.NewFromInt(int64(len(sparkBlocks) - 1))

	out := make([]rune, len(values))
	for i, v := range values {
		idx := 0
		if span.IsPositive() {
			idx = int(v.Sub(lo).Mul(top).Div(span).Round(0).IntPart())
		}
		out[i] = sparkBlocks[idx]
	}
	return string(out)
}

// Algorithms renders one card per algorithm; the selected one is highlighted.
func Algorithms(algs []models.TradingAlgorithm, selectedID string) string {
	cards := make([]string, 0, len(algs))
	for _, alg := range algs {
		style := panelStyle
		marker := " "
		if alg.ID == selectedID {
			style = selectedStyle
			marker = "▶"
		}
		body := fmt.Sprintf("%s %s  %s  [%s]\n  P/L %s | Win %.0f%% | Trades %d | %s",
			marker, lipgloss.NewStyle().Bold(true).Render(alg.Name), mutedStyle.Render(alg.StrategyType),
			algorithmStyle(alg.Status).Render(string(alg.Status)),
			Percent(alg.Profit), alg.WinRate, alg.TradesCount, mutedStyle.Render(alg.LastExecution))
		cards = append(cards, style.Render(body))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

// Performance draws the recent 7-day distribution bars.
func Performance() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Recent Performance (7d)") + "\n")
	for i, h := range samples.RecentPerformance {
		bar := strings.Repeat("█", h/5)
		b.WriteString(fmt.Sprintf("D%d %s %d%%\n", i+1, profitStyle.Render(bar), h))
	}
	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// Logs renders at most max entries, newest first.
func Logs(entries []models.LogEntry, max int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Live Execution Logs") + "\n")
	if len(entries) == 0 {
		b.WriteString(mutedStyle.Render("No logs match the current filter."))
		return panelStyle.Render(b.String())
	}
	if max > 0 && len(entries) > max {
		entries = entries[:max]
	}
	for _, e := range entries {
		tag := logStyle(e.Category).Render(fmt.Sprintf("%-7s", e.Category))
		b.WriteString(fmt.Sprintf("%s %s %s\n", mutedStyle.Render(e.Clock()), tag, truncate(e.Message, 56)))
	}
	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// Insight shows the advisor panel.
func Insight(text string, refreshing bool) string {
	title := "AI Insight"
	if refreshing {
		title += " (refreshing...)"
	}
	return insightStyle.Render(titleStyle.Render(title) + "\n" + wrapText(text, panelWidth-6))
}

// Config shows the parameters of the selected algorithm.
func Config(alg models.TradingAlgorithm) string {
	c := alg.Config
	var b strings.Builder
	b.WriteString(titleStyle.Render("Configuration: "+alg.Name) + "\n")
	b.WriteString(fmt.Sprintf("Risk tolerance  %3.0f / 100\n", c.RiskTolerance))
	b.WriteString(fmt.Sprintf("Leverage        %gx\n", c.Leverage))
	b.WriteString(fmt.Sprintf("Max drawdown    %g%%\n", c.MaxDrawdown))
	b.WriteString(fmt.Sprintf("Stop loss       %g%%\n", c.StopLoss))
	b.WriteString(fmt.Sprintf("Take profit     %g%%\n", c.TakeProfit))

	labels := make([]string, 0, len(samples.AvailableIndicators))
	for _, ind := range samples.AvailableIndicators {
		if c.HasIndicator(ind) {
			labels = append(labels, profitStyle.Render("["+ind+"]"))
		} else {
			labels = append(labels, mutedStyle.Render(ind))
		}
	}
	b.WriteString("Indicators      " + strings.Join(labels, " "))
	return selectedStyle.Render(b.String())
}

// Analytics shows the summary cards and monthly profit bars.
func Analytics(a models.AnalyticsSummary) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Performance Analytics") + "\n")
	b.WriteString(fmt.Sprintf("Total trades   %s  %s\n", humanize.Comma(int64(a.TotalTrades)), mutedStyle.Render(a.TotalTradesDelta)))
	b.WriteString(fmt.Sprintf("Win rate       %.1f%%  %s\n", a.WinRate, mutedStyle.Render(a.WinRateDelta)))
	b.WriteString(fmt.Sprintf("Profit factor  %.2f  %s\n", a.ProfitFactor, mutedStyle.Render(a.ProfitFactorDelta)))
	b.WriteString(fmt.Sprintf("Max drawdown   %.1f%%  %s\n", a.MaxDrawdown, mutedStyle.Render(a.MaxDrawdownNote)))

	peak := decimal.Zero
	for _, m := range a.Monthly {
		peak = decimal.Max(peak, m.Profit)
	}
	for _, m := range a.Monthly {
		width := 0
		if peak.IsPositive() {
			width = int(m.Profit.Mul(decimal.NewFromInt(40)).Div(peak).IntPart())
		}
		b.WriteString(fmt.Sprintf("\n%-3s %s %s", m.Month, profitStyle.Render(strings.Repeat("█", width)), Money(m.Profit)))
	}
	return panelStyle.Render(b.String())
}

// Settings shows the global risk bounds and alert switches.
func Settings(s models.Settings) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("System Settings") + "\n")
	b.WriteString(fmt.Sprintf("Global stop loss   %g%%\n", s.GlobalStopLoss))
	b.WriteString(fmt.Sprintf("Max daily trades   %s\n", humanize.Comma(int64(s.MaxDailyTrades))))
	b.WriteString(fmt.Sprintf("Trade alerts       %s\n", onOff(s.NotifyTrades)))
	b.WriteString(fmt.Sprintf("Error alerts       %s\n", onOff(s.NotifyErrors)))
	b.WriteString(fmt.Sprintf("Daily summary      %s\n", onOff(s.NotifySummary)))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("Engine %s | maintenance %s", s.EngineVersion, s.MaintenanceWindow)))
	return panelStyle.Render(b.String())
}

// Dashboard renders the main view.
func Dashboard(d *dashboard.Dashboard, maxLogs int) string {
	snap := d.Snapshot()
	parts := []string{
		Header(snap),
		Portfolio(d.PortfolioHistory()),
		Algorithms(snap.Algorithms, snap.SelectedID),
		Insight(snap.Insight, snap.Refreshing),
		Logs(d.Logs("", ""), maxLogs),
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Money formats an amount as dollars with thousands separators.
func Money(v decimal.Decimal) string {
	f, _ := v.Round(2).Float64()
	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}
	return sign + "$" + humanize.FormatFloat("#,###.##", f)
}

// Percent formats a signed percentage, colored by sign.
func Percent(v decimal.Decimal) string {
	text := v.StringFixed(1) + "%"
	switch {
	case v.IsPositive():
		return profitStyle.Render("+" + text)
	case v.IsNegative():
		return lossStyle.Render(text)
	}
	return text
}

func statusStyle(s models.BrokerStatus) lipgloss.Style {
	switch s {
	case models.BrokerConnected:
		return profitStyle
	case models.BrokerConnecting:
		return warningStyle
	}
	return lossStyle
}

func algorithmStyle(s models.AlgorithmStatus) lipgloss.Style {
	switch s {
	case models.AlgorithmRunning:
		return profitStyle
	case models.AlgorithmPaused:
		return warningStyle
	case models.AlgorithmError:
		return lossStyle
	}
	return mutedStyle
}

func logStyle(c models.LogCategory) lipgloss.Style {
	switch c {
	case models.LogSuccess:
		return profitStyle
	case models.LogError:
		return lossStyle
	case models.LogWarning:
		return warningStyle
	case models.LogAPI:
		return apiStyle
	}
	return mutedStyle
}

func onOff(v bool) string {
	if v {
		return profitStyle.Render("ON")
	}
	return mutedStyle.Render("OFF")
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

func wrapText(text string, maxWidth int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > maxWidth {
			lines = append(lines, line)
			line = w
		} else {
			line += " " + w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
