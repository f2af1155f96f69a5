// Package dashboard owns the transient view state: the algorithm registry,
// the simulated broker session, the activity feed, the current selection and
// the advisor text. Every user action goes through it.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dyike/QuantFlow/consts"
	"github.com/dyike/QuantFlow/internal/advisor"
	"github.com/dyike/QuantFlow/internal/broker"
	"github.com/dyike/QuantFlow/internal/logfeed"
	"github.com/dyike/QuantFlow/internal/metrics"
	"github.com/dyike/QuantFlow/internal/models"
	"github.com/dyike/QuantFlow/internal/registry"
	"github.com/dyike/QuantFlow/internal/samples"
)

var ErrNoSelection = errors.New("no algorithm selected")

// Advisor produces the free-text panels. Implementations never fail; they
// return a fallback text instead.
type Advisor interface {
	MarketInsight(ctx context.Context, history []models.PortfolioPoint, summary advisor.PortfolioSummary) string
	StrategyAdvice(ctx context.Context, name string, perf advisor.StrategyPerformance) string
}

type Options struct {
	Algorithms   []models.TradingAlgorithm
	Broker       *models.BrokerConnection
	ConnectDelay time.Duration
	Settings     models.Settings
	Advisor      Advisor
	Recorder     *metrics.Recorder
	LogCapacity  int
}

type Dashboard struct {
	mu sync.Mutex

	registry *registry.Registry
	broker   *broker.Simulator
	feed     *logfeed.Feed
	advisor  Advisor
	recorder *metrics.Recorder

	settings  models.Settings
	history   []models.PortfolioPoint
	market    []models.MarketDataPoint
	analytics models.AnalyticsSummary

	selectedID string
	insight    string
	inFlight   int
}

// Snapshot is the header and card data of the dashboard at one instant.
// Aggregates are computed when the snapshot is taken.
type Snapshot struct {
	Algorithms  []models.TradingAlgorithm `json:"algorithms"`
	SelectedID  string                    `json:"selected_id,omitempty"`
	Broker      models.BrokerConnection   `json:"broker"`
	TotalProfit decimal.Decimal           `json:"total_profit"`
	ActiveCount int                       `json:"active_count"`
	Balance     decimal.Decimal           `json:"balance"`
	Insight     string                    `json:"insight"`
	Refreshing  bool                      `json:"refreshing"`
}

func New(opts Options) *Dashboard {
	algs := opts.Algorithms
	if algs == nil {
		algs = samples.Algorithms()
	}
	conn := samples.Broker()
	if opts.Broker != nil {
		conn = *opts.Broker
	}
	capacity := opts.LogCapacity
	if capacity <= 0 {
		capacity = consts.LogCapacity
	}
	adv := opts.Advisor
	if adv == nil {
		adv = offlineAdvisor{}
	}

	feed := logfeed.New(capacity)
	if opts.Recorder != nil {
		feed.Subscribe(opts.Recorder.LogEntry)
	}

	d := &Dashboard{
		registry:  registry.New(algs),
		broker:    broker.NewSimulator(conn, opts.ConnectDelay, feed),
		feed:      feed,
		advisor:   adv,
		recorder:  opts.Recorder,
		settings:  opts.Settings,
		history:   samples.PortfolioHistory(),
		market:    samples.MarketData(),
		analytics: samples.Analytics(),
		insight:   consts.InsightInitializing,
	}
	if list := d.registry.List(); len(list) > 0 {
		d.selectedID = list[0].ID
	}
	d.syncGauges()
	return d
}

// Feed exposes the activity feed for subscribers. Subscribers run while the
// dashboard lock may be held and must not call back into the Dashboard.
func (d *Dashboard) Feed() *logfeed.Feed {
	return d.feed
}

// Start writes the boot entries and requests the first insight.
func (d *Dashboard) Start(ctx context.Context) string {
	conn := d.broker.Snapshot()
	d.feed.Add(models.LogInfo, "System started. All modules loaded.")
	d.feed.Add(models.LogAPI, fmt.Sprintf("Connected to Brokerage API: %s (%s)", conn.Name, conn.AccountNumber))
	return d.RefreshInsight(ctx)
}

// ToggleAlgorithm flips an algorithm between RUNNING and STOPPED through the
// simulated broker. When the broker is not connected the request is refused:
// one ERROR entry is logged and applied is false. That refusal is not an
// error.
func (d *Dashboard) ToggleAlgorithm(id string) (alg models.TradingAlgorithm, applied bool, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	current, err := d.registry.Get(id)
	if err != nil {
		return models.TradingAlgorithm{}, false, err
	}
	if !d.broker.Connected() {
		d.feed.AddFor(id, models.LogError, "Cannot toggle bot: Broker API disconnected")
		d.recorder.Toggle(false)
		return current, false, nil
	}

	alg, err = d.registry.ToggleStatus(id)
	if err != nil {
		return models.TradingAlgorithm{}, false, err
	}

	brokerName := d.broker.Snapshot().Name
	d.feed.AddFor(alg.ID, models.LogAPI,
		fmt.Sprintf("Sent API Request to %s: SET_STATUS %s for %s", brokerName, alg.Status, alg.Name))
	result := models.LogWarning
	if alg.Running() {
		result = models.LogSuccess
	}
	d.feed.AddFor(alg.ID, result, fmt.Sprintf("%s status updated via Broker API", alg.Name))

	d.recorder.Toggle(true)
	d.syncGauges()
	return alg, true, nil
}

// KillSwitch stops every running algorithm regardless of broker state.
func (d *Dashboard) KillSwitch() []models.TradingAlgorithm {
	d.mu.Lock()
	defer d.mu.Unlock()

	stopped := d.registry.StopAll()
	brokerName := d.broker.Snapshot().Name
	for _, alg := range stopped {
		d.feed.AddFor(alg.ID, models.LogAPI,
			fmt.Sprintf("Sent API Request to %s: SET_STATUS %s for %s", brokerName, alg.Status, alg.Name))
	}
	d.feed.Add(models.LogWarning, fmt.Sprintf("Emergency kill switch engaged: %d bots halted", len(stopped)))
	d.syncGauges()
	return stopped
}

func (d *Dashboard) Select(id string) (models.TradingAlgorithm, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	alg, err := d.registry.Get(id)
	if err != nil {
		return models.TradingAlgorithm{}, err
	}
	d.selectedID = alg.ID
	return alg, nil
}

func (d *Dashboard) Selected() (models.TradingAlgorithm, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.selectedID == "" {
		return models.TradingAlgorithm{}, false
	}
	alg, err := d.registry.Get(d.selectedID)
	return alg, err == nil
}

// UpdateConfig sets one field of the selected algorithm's config. Values are
// not range checked.
func (d *Dashboard) UpdateConfig(field string, value any) (models.TradingAlgorithm, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.selectedID == "" {
		return models.TradingAlgorithm{}, ErrNoSelection
	}
	alg, err := d.registry.UpdateConfig(d.selectedID, field, value)
	if err != nil {
		return models.TradingAlgorithm{}, err
	}
	d.logConfigUpdate(field, alg)
	return alg, nil
}

// ToggleIndicator adds or removes one indicator on the selected algorithm.
func (d *Dashboard) ToggleIndicator(label string) (models.TradingAlgorithm, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.selectedID == "" {
		return models.TradingAlgorithm{}, ErrNoSelection
	}
	alg, err := d.registry.ToggleIndicator(d.selectedID, label)
	if err != nil {
		return models.TradingAlgorithm{}, err
	}
	d.logConfigUpdate(consts.FieldIndicators, alg)
	return alg, nil
}

func (d *Dashboard) logConfigUpdate(field string, alg models.TradingAlgorithm) {
	d.feed.AddFor(alg.ID, models.LogInfo, fmt.Sprintf("Updated %s for %s", field, alg.Name))
	d.recorder.ConfigUpdate(field)
}

// ConnectBroker starts the simulated handshake; the channel closes once the
// session is CONNECTED.
func (d *Dashboard) ConnectBroker() <-chan struct{} {
	done := d.broker.Connect()
	d.lockedSyncGauges()
	go func() {
		<-done
		d.lockedSyncGauges()
	}()
	return done
}

func (d *Dashboard) DisconnectBroker() {
	d.broker.Disconnect()
	d.lockedSyncGauges()
}

func (d *Dashboard) Broker() models.BrokerConnection {
	return d.broker.Snapshot()
}

// RefreshInsight requests a new market insight and stores it. The remote
// call runs without the lock; overlapping refreshes are independent requests
// and the last one to finish wins.
func (d *Dashboard) RefreshInsight(ctx context.Context) string {
	d.mu.Lock()
	d.insight = consts.InsightAnalyzing
	d.inFlight++
	history := append([]models.PortfolioPoint(nil), d.history...)
	summary := advisor.PortfolioSummary{
		Algorithms:   d.registry.List(),
		TotalProfit:  d.registry.TotalProfit(),
		BrokerStatus: d.broker.Status(),
	}
	d.mu.Unlock()

	text := d.advisor.MarketInsight(ctx, history, summary)
	if text == "" {
		text = consts.InsightEmpty
	}

	d.mu.Lock()
	d.insight = text
	d.inFlight--
	d.mu.Unlock()
	return text
}

// Insight returns the advisor text and whether a refresh is in flight.
func (d *Dashboard) Insight() (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.insight, d.inFlight > 0
}

// StrategyAdvice asks the advisor about one algorithm.
func (d *Dashboard) StrategyAdvice(ctx context.Context, id string) (string, error) {
	d.mu.Lock()
	alg, err := d.registry.Get(id)
	d.mu.Unlock()
	if err != nil {
		return "", err
	}
	return d.advisor.StrategyAdvice(ctx, alg.Name, advisor.PerformanceOf(alg)), nil
}

func (d *Dashboard) Algorithms() []models.TradingAlgorithm {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.registry.List()
}

func (d *Dashboard) Algorithm(id string) (models.TradingAlgorithm, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.registry.Get(id)
}

func (d *Dashboard) TotalProfit() decimal.Decimal {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.registry.TotalProfit()
}

func (d *Dashboard) ActiveCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.registry.ActiveCount()
}

func (d *Dashboard) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	snap := Snapshot{
		Algorithms:  d.registry.List(),
		SelectedID:  d.selectedID,
		Broker:      d.broker.Snapshot(),
		TotalProfit: d.registry.TotalProfit(),
		ActiveCount: d.registry.ActiveCount(),
		Insight:     d.insight,
		Refreshing:  d.inFlight > 0,
	}
	if n := len(d.history); n > 0 {
		snap.Balance = d.history[n-1].Balance
	}
	return snap
}

// Logs filters the feed; an empty category matches every entry.
func (d *Dashboard) Logs(category models.LogCategory, search string) []models.LogEntry {
	return d.feed.Filter(category, search)
}

func (d *Dashboard) PortfolioHistory() []models.PortfolioPoint {
	return append([]models.PortfolioPoint(nil), d.history...)
}

func (d *Dashboard) MarketData() []models.MarketDataPoint {
	return append([]models.MarketDataPoint(nil), d.market...)
}

func (d *Dashboard) Analytics() models.AnalyticsSummary {
	out := d.analytics
	out.Monthly = append([]models.MonthlyProfit(nil), d.analytics.Monthly...)
	return out
}

func (d *Dashboard) Settings() models.Settings {
	return d.settings
}

func (d *Dashboard) lockedSyncGauges() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.syncGauges()
}

// syncGauges requires d.mu and must not be called with broker.mu held.
func (d *Dashboard) syncGauges() {
	if d.recorder == nil {
		return
	}
	d.recorder.Aggregates(d.registry.ActiveCount(), d.registry.TotalProfit(), d.broker.Status())
}

type offlineAdvisor struct{}

func (offlineAdvisor) MarketInsight(context.Context, []models.PortfolioPoint, advisor.PortfolioSummary) string {
	return consts.MarketAnalysisFallback
}

func (offlineAdvisor) StrategyAdvice(context.Context, string, advisor.StrategyPerformance) string {
	return consts.StrategyAdviceFallback
}
