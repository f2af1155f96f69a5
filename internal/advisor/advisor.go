// Package advisor wraps the single outbound text-generation call used for
// market insight and strategy advice. Every failure is masked by a fixed
// fallback text; nothing is retried.
package advisor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/dyike/QuantFlow/consts"
	"github.com/dyike/QuantFlow/internal/metrics"
	"github.com/dyike/QuantFlow/internal/models"
)

const (
	KindMarket   = "market"
	KindStrategy = "strategy"
)

const marketTpl = `Analyze current market data and portfolio state:
    Market: {market}
    Portfolio: {portfolio}
    Provide a professional, concise summary of market sentiment, potential risks, and optimization suggestions for the trading bots.`

const strategyTpl = `Review the performance of strategy "{strategy}":
    Performance Data: {performance}
    Suggest one specific technical improvement or parameter adjustment to increase the win rate.`

// PortfolioSummary is the aggregate state embedded in the market prompt.
type PortfolioSummary struct {
	Algorithms   []models.TradingAlgorithm `json:"algorithms"`
	TotalProfit  decimal.Decimal           `json:"totalProfit"`
	BrokerStatus models.BrokerStatus       `json:"brokerStatus"`
}

// StrategyPerformance is the per-algorithm data embedded in the advice prompt.
type StrategyPerformance struct {
	StrategyType string                 `json:"strategyType"`
	Status       models.AlgorithmStatus `json:"status"`
	Profit       decimal.Decimal        `json:"profit"`
	WinRate      float64                `json:"winRate"`
	TradesCount  int                    `json:"tradesCount"`
	Config       models.StrategyConfig  `json:"config"`
}

func PerformanceOf(alg models.TradingAlgorithm) StrategyPerformance {
	return StrategyPerformance{
		StrategyType: alg.StrategyType,
		Status:       alg.Status,
		Profit:       alg.Profit,
		WinRate:      alg.WinRate,
		TradesCount:  alg.TradesCount,
		Config:       alg.Config,
	}
}

type Advisor struct {
	market   compose.Runnable[map[string]any, *schema.Message]
	strategy compose.Runnable[map[string]any, *schema.Message]
	recorder *metrics.Recorder
}

// New compiles the market and strategy chains (template -> chat model).
func New(ctx context.Context, chatModel model.BaseChatModel, recorder *metrics.Recorder) (*Advisor, error) {
	market, err := buildChain(ctx, chatModel, consts.MarketAnalystInstruction, marketTpl)
	if err != nil {
		return nil, fmt.Errorf("compile market chain: %w", err)
	}
	strategy, err := buildChain(ctx, chatModel, consts.StrategyAdvisorInstruction, strategyTpl)
	if err != nil {
		return nil, fmt.Errorf("compile strategy chain: %w", err)
	}
	return &Advisor{market: market, strategy: strategy, recorder: recorder}, nil
}

func buildChain(ctx context.Context, chatModel model.BaseChatModel, instruction, userTpl string) (compose.Runnable[map[string]any, *schema.Message], error) {
	tpl := prompt.FromMessages(schema.FString,
		schema.SystemMessage(instruction),
		schema.UserMessage(userTpl),
	)
	return compose.NewChain[map[string]any, *schema.Message]().
		AppendChatTemplate(tpl).
		AppendChatModel(chatModel).
		Compile(ctx)
}

// MarketInsight asks for a market summary over the trailing portfolio points
// and the aggregate state. The response text is returned verbatim.
func (a *Advisor) MarketInsight(ctx context.Context, history []models.PortfolioPoint, summary PortfolioSummary) string {
	if len(history) > consts.MarketPromptWindow {
		history = history[len(history)-consts.MarketPromptWindow:]
	}
	vars, err := promptVars(map[string]any{"market": history, "portfolio": summary})
	if err != nil {
		return a.fallback(KindMarket, err, consts.MarketAnalysisFallback)
	}
	return a.invoke(ctx, KindMarket, a.market, vars, consts.MarketAnalysisTemperature, consts.MarketAnalysisFallback)
}

// StrategyAdvice asks for one concrete improvement for a named strategy.
func (a *Advisor) StrategyAdvice(ctx context.Context, name string, perf StrategyPerformance) string {
	vars, err := promptVars(map[string]any{"performance": perf})
	if err != nil {
		return a.fallback(KindStrategy, err, consts.StrategyAdviceFallback)
	}
	vars["strategy"] = name
	return a.invoke(ctx, KindStrategy, a.strategy, vars, consts.StrategyAdviceTemperature, consts.StrategyAdviceFallback)
}

func (a *Advisor) invoke(ctx context.Context, kind string, chain compose.Runnable[map[string]any, *schema.Message],
	vars map[string]any, temperature float32, fallbackText string) string {
	msg, err := chain.Invoke(ctx, vars,
		compose.WithChatModelOption(model.WithTemperature(temperature)),
		compose.WithCallbacks(&traceCallback{kind: kind}),
	)
	if err != nil {
		return a.fallback(kind, err, fallbackText)
	}
	if msg == nil {
		return a.fallback(kind, fmt.Errorf("empty response"), fallbackText)
	}
	a.recorder.AdvisorRequest(kind, false)
	return msg.Content
}

func (a *Advisor) fallback(kind string, err error, text string) string {
	log.WithError(err).WithField("kind", kind).Error("text generation request failed")
	a.recorder.AdvisorRequest(kind, true)
	return text
}

// promptVars renders every value as compact JSON.
func promptVars(in map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(in))
	for k, v := range in {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", k, err)
		}
		out[k] = string(b)
	}
	return out, nil
}
