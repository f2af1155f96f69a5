package advisor

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/prometheus/client_golang/prometheus/testutil"
	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyike/QuantFlow/consts"
	"github.com/dyike/QuantFlow/internal/metrics"
	"github.com/dyike/QuantFlow/internal/models"
	"github.com/dyike/QuantFlow/internal/registry"
	"github.com/dyike/QuantFlow/internal/samples"
)

type fakeChatModel struct {
	mu          sync.Mutex
	reply       string
	err         error
	inputs      [][]*schema.Message
	temperature []float32
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, input)
	if o := model.GetCommonOptions(&model.Options{}, opts...); o.Temperature != nil {
		f.temperature = append(f.temperature, *o.Temperature)
	}
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := f.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func summary() PortfolioSummary {
	r := registry.New(samples.Algorithms())
	return PortfolioSummary{
		Algorithms:   r.List(),
		TotalProfit:  r.TotalProfit(),
		BrokerStatus: models.BrokerConnected,
	}
}

func TestMarketInsightReturnsTextVerbatim(t *testing.T) {
	fake := &fakeChatModel{reply: "  Momentum is strong; trim leverage on scalpers.\n"}
	rec := metrics.NewRecorder()
	a, err := New(context.Background(), fake, rec)
	require.NoError(t, err)

	got := a.MarketInsight(context.Background(), samples.PortfolioHistory(), summary())
	assert.Equal(t, "  Momentum is strong; trim leverage on scalpers.\n", got)

	require.Len(t, fake.inputs, 1)
	msgs := fake.inputs[0]
	require.Len(t, msgs, 2)
	assert.Equal(t, schema.System, msgs[0].Role)
	assert.Equal(t, consts.MarketAnalystInstruction, msgs[0].Content)
	assert.Equal(t, schema.User, msgs[1].Role)

	user := msgs[1].Content
	assert.Contains(t, user, "Analyze current market data and portfolio state:")
	assert.Contains(t, user, `"time":"12:00"`)
	assert.Contains(t, user, `"time":"16:00"`)
	assert.NotContains(t, user, `"time":"11:00"`, "only the trailing window is embedded")
	assert.Contains(t, user, `"brokerStatus":"CONNECTED"`)
	assert.Contains(t, user, `"totalProfit":"38.2"`)
	assert.Contains(t, user, "Alpha Arbitrage")

	require.Len(t, fake.temperature, 1)
	assert.Equal(t, consts.MarketAnalysisTemperature, fake.temperature[0])
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.AdvisorRequests.WithLabelValues(KindMarket, "ok")))
}

func TestMarketInsightFallsBackOnFailure(t *testing.T) {
	fake := &fakeChatModel{err: errors.New("dial tcp: connection refused")}
	rec := metrics.NewRecorder()
	a, err := New(context.Background(), fake, rec)
	require.NoError(t, err)

	got := a.MarketInsight(context.Background(), samples.PortfolioHistory(), summary())
	assert.Equal(t, consts.MarketAnalysisFallback, got)
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.AdvisorRequests.WithLabelValues(KindMarket, "fallback")))

	// no retry
	assert.Len(t, fake.inputs, 1)
}

func TestStrategyAdvice(t *testing.T) {
	fake := &fakeChatModel{reply: "Widen the stop loss to 1%."}
	a, err := New(context.Background(), fake, nil)
	require.NoError(t, err)

	alg := samples.Algorithms()[1]
	got := a.StrategyAdvice(context.Background(), alg.Name, PerformanceOf(alg))
	assert.Equal(t, "Widen the stop loss to 1%.", got)

	msgs := fake.inputs[0]
	assert.Equal(t, consts.StrategyAdvisorInstruction, msgs[0].Content)
	assert.Contains(t, msgs[1].Content, `Review the performance of strategy "Momentum Scalper"`)
	assert.Contains(t, msgs[1].Content, `"winRate":64`)
	assert.Equal(t, consts.StrategyAdviceTemperature, fake.temperature[0])
}

func TestStrategyAdviceFallback(t *testing.T) {
	fake := &fakeChatModel{err: errors.New("quota exceeded")}
	a, err := New(context.Background(), fake, nil)
	require.NoError(t, err)

	alg := samples.Algorithms()[0]
	assert.Equal(t, consts.StrategyAdviceFallback, a.StrategyAdvice(context.Background(), alg.Name, PerformanceOf(alg)))
}

func TestChainStepsAreTraced(t *testing.T) {
	hook := logtest.NewGlobal()
	level := log.GetLevel()
	log.SetLevel(log.DebugLevel)
	defer func() {
		log.SetLevel(level)
		hook.Reset()
	}()

	a, err := New(context.Background(), &fakeChatModel{reply: "ok"}, nil)
	require.NoError(t, err)
	a.StrategyAdvice(context.Background(), "Grid Bot", PerformanceOf(samples.Algorithms()[2]))

	var finished int
	for _, e := range hook.AllEntries() {
		if e.Message == "advisor step finished" {
			assert.Equal(t, KindStrategy, e.Data["kind"])
			finished++
		}
	}
	assert.Positive(t, finished)
}
