package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AlgorithmStatus is the lifecycle state of a trading algorithm.
type AlgorithmStatus string

const (
	AlgorithmRunning AlgorithmStatus = "RUNNING"
	AlgorithmStopped AlgorithmStatus = "STOPPED"
	AlgorithmPaused  AlgorithmStatus = "PAUSED"
	AlgorithmError   AlgorithmStatus = "ERROR"
)

func (s AlgorithmStatus) Valid() bool {
	switch s {
	case AlgorithmRunning, AlgorithmStopped, AlgorithmPaused, AlgorithmError:
		return true
	}
	return false
}

func (s AlgorithmStatus) String() string {
	return string(s)
}

// ParseAlgorithmStatus accepts any letter case.
func ParseAlgorithmStatus(v string) (AlgorithmStatus, error) {
	s := AlgorithmStatus(strings.ToUpper(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown algorithm status %q", v)
	}
	return s, nil
}

// StrategyConfig holds the tunable parameters of an algorithm. Values are
// stored as given; no field is checked against another.
type StrategyConfig struct {
	RiskTolerance float64  `json:"risk_tolerance" yaml:"risk_tolerance"` // 1-100
	Leverage      float64  `json:"leverage" yaml:"leverage"`
	StopLoss      float64  `json:"stop_loss" yaml:"stop_loss"`     // percentage
	TakeProfit    float64  `json:"take_profit" yaml:"take_profit"` // percentage
	Indicators    []string `json:"indicators" yaml:"indicators"`
	MaxDrawdown   float64  `json:"max_drawdown" yaml:"max_drawdown"`
}

// HasIndicator reports whether label is in the indicator set.
func (c StrategyConfig) HasIndicator(label string) bool {
	for _, ind := range c.Indicators {
		if ind == label {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slice memory with c.
func (c StrategyConfig) Clone() StrategyConfig {
	out := c
	out.Indicators = append([]string(nil), c.Indicators...)
	return out
}

type TradingAlgorithm struct {
	ID            string          `json:"id" yaml:"id"`
	Name          string          `json:"name" yaml:"name"`
	StrategyType  string          `json:"strategy_type" yaml:"strategy_type"`
	Status        AlgorithmStatus `json:"status" yaml:"status"`
	Profit        decimal.Decimal `json:"profit" yaml:"-"`
	WinRate       float64         `json:"win_rate" yaml:"win_rate"`
	TradesCount   int             `json:"trades_count" yaml:"trades_count"`
	LastExecution string          `json:"last_execution" yaml:"last_execution"`
	Config        StrategyConfig  `json:"config" yaml:"config"`
}

func (a TradingAlgorithm) Running() bool {
	return a.Status == AlgorithmRunning
}

func (a TradingAlgorithm) Clone() TradingAlgorithm {
	out := a
	out.Config = a.Config.Clone()
	return out
}
