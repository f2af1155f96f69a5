// Package samples holds the built-in demo data: the initial algorithm set,
// the broker record and the static chart series. Series are never mutated at
// runtime; every accessor returns a fresh copy.
package samples

import (
	"github.com/shopspring/decimal"

	"github.com/dyike/QuantFlow/internal/models"
)

// AvailableIndicators are the labels offered by the indicator picker.
var AvailableIndicators = []string{
	"RSI", "MACD", "VWAP", "EMA20", "EMA50", "SMA200",
	"Bollinger Bands", "ATR", "Ichimoku", "Stochastic",
}

// RecentPerformance is the 7-day profit distribution (bar heights in %).
var RecentPerformance = []int{60, 40, 70, 90, 50, 80, 45}

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func Algorithms() []models.TradingAlgorithm {
	return []models.TradingAlgorithm{
		{
			ID: "1", Name: "Alpha Arbitrage", StrategyType: "Arbitrage", Status: models.AlgorithmRunning,
			Profit: d("12.5"), WinRate: 72, TradesCount: 142, LastExecution: "2 mins ago",
			Config: models.StrategyConfig{RiskTolerance: 30, Leverage: 1, StopLoss: 2, TakeProfit: 5, Indicators: []string{"RSI", "VWAP"}, MaxDrawdown: 10},
		},
		{
			ID: "2", Name: "Momentum Scalper", StrategyType: "Scalping", Status: models.AlgorithmRunning,
			Profit: d("4.8"), WinRate: 64, TradesCount: 89, LastExecution: "1 min ago",
			Config: models.StrategyConfig{RiskTolerance: 80, Leverage: 5, StopLoss: 0.5, TakeProfit: 1.5, Indicators: []string{"EMA20", "MACD"}, MaxDrawdown: 15},
		},
		{
			ID: "3", Name: "RSI Reversion", StrategyType: "Mean Reversion", Status: models.AlgorithmStopped,
			Profit: d("-1.2"), WinRate: 48, TradesCount: 56, LastExecution: "2 days ago",
			Config: models.StrategyConfig{RiskTolerance: 50, Leverage: 2, StopLoss: 3, TakeProfit: 10, Indicators: []string{"RSI", "Bollinger"}, MaxDrawdown: 12},
		},
		{
			ID: "4", Name: "Grid Bot BTC", StrategyType: "Grid", Status: models.AlgorithmRunning,
			Profit: d("22.1"), WinRate: 81, TradesCount: 312, LastExecution: "Just now",
			Config: models.StrategyConfig{RiskTolerance: 20, Leverage: 1, StopLoss: 5, TakeProfit: 20, Indicators: []string{"ATR"}, MaxDrawdown: 25},
		},
	}
}

func Broker() models.BrokerConnection {
	return models.BrokerConnection{
		ID:            "kis-01",
		Name:          "Korea Investment",
		Status:        models.BrokerConnected,
		APIKey:        "••••••••••••••••",
		APISecret:     "••••••••••••••••",
		AccountNumber: "50012345-01",
		LastPing:      "34ms",
	}
}

func PortfolioHistory() []models.PortfolioPoint {
	rows := []struct {
		t, balance string
	}{
		{"09:00", "50000"},
		{"10:00", "50400"},
		{"11:00", "50200"},
		{"12:00", "51200"},
		{"13:00", "51800"},
		{"14:00", "51500"},
		{"15:00", "52400"},
		{"16:00", "53100"},
	}
	out := make([]models.PortfolioPoint, len(rows))
	for i, r := range rows {
		out[i] = models.PortfolioPoint{Time: r.t, Balance: d(r.balance)}
	}
	return out
}

// MarketData is a BTC-style hourly tape aligned with the portfolio series.
func MarketData() []models.MarketDataPoint {
	rows := []struct {
		t, price string
		volume   int64
	}{
		{"09:00", "64210.5", 1240},
		{"10:00", "64580.0", 1385},
		{"11:00", "64395.2", 990},
		{"12:00", "65120.8", 1710},
		{"13:00", "65540.1", 1622},
		{"14:00", "65310.4", 1105},
		{"15:00", "65980.9", 1893},
		{"16:00", "66420.3", 2011},
	}
	out := make([]models.MarketDataPoint, len(rows))
	for i, r := range rows {
		out[i] = models.MarketDataPoint{Time: r.t, Price: d(r.price), Volume: r.volume}
	}
	return out
}

func Analytics() models.AnalyticsSummary {
	return models.AnalyticsSummary{
		TotalTrades:       619,
		TotalTradesDelta:  "+12% vs last month",
		WinRate:           68.4,
		WinRateDelta:      "+2.1% vs last month",
		ProfitFactor:      1.82,
		ProfitFactorDelta: "+0.15 vs last month",
		MaxDrawdown:       12.5,
		MaxDrawdownNote:   "Optimal range",
		Monthly: []models.MonthlyProfit{
			{Month: "Jan", Profit: d("4000")},
			{Month: "Feb", Profit: d("3000")},
			{Month: "Mar", Profit: d("5500")},
			{Month: "Apr", Profit: d("4500")},
			{Month: "May", Profit: d("6000")},
			{Month: "Jun", Profit: d("7500")},
		},
	}
}
