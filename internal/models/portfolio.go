package models

import "github.com/shopspring/decimal"

// PortfolioPoint is one sample of account balance history.
type PortfolioPoint struct {
	Time    string          `json:"time"`
	Balance decimal.Decimal `json:"balance"`
}

type MarketDataPoint struct {
	Time   string          `json:"time"`
	Price  decimal.Decimal `json:"price"`
	Volume int64           `json:"volume"`
}

type MonthlyProfit struct {
	Month  string          `json:"name"`
	Profit decimal.Decimal `json:"profit"`
}

// AnalyticsSummary backs the analytics panel. Figures are sample values and
// are not derived from the algorithm registry.
type AnalyticsSummary struct {
	TotalTrades       int             `json:"total_trades"`
	TotalTradesDelta  string          `json:"total_trades_delta"`
	WinRate           float64         `json:"win_rate"`
	WinRateDelta      string          `json:"win_rate_delta"`
	ProfitFactor      float64         `json:"profit_factor"`
	ProfitFactorDelta string          `json:"profit_factor_delta"`
	MaxDrawdown       float64         `json:"max_drawdown"`
	MaxDrawdownNote   string          `json:"max_drawdown_note"`
	Monthly           []MonthlyProfit `json:"monthly"`
}

// Settings are the global risk bounds and alert switches.
type Settings struct {
	GlobalStopLoss    float64 `json:"global_stop_loss"`
	MaxDailyTrades    int     `json:"max_daily_trades"`
	NotifyTrades      bool    `json:"notify_trades"`
	NotifyErrors      bool    `json:"notify_errors"`
	NotifySummary     bool    `json:"notify_summary"`
	EngineVersion     string  `json:"engine_version"`
	MaintenanceWindow string  `json:"maintenance_window"`
}
