// Package registry holds the set of trading algorithms and the aggregates
// derived from them. It does no locking of its own; callers serialize access.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dyike/QuantFlow/consts"
	"github.com/dyike/QuantFlow/internal/models"
)

var (
	ErrAlgorithmNotFound = errors.New("algorithm not found")
	ErrUnknownField      = errors.New("unknown config field")
	ErrInvalidValue      = errors.New("invalid config value")
)

type Registry struct {
	algorithms []models.TradingAlgorithm
}

// New copies algs, so later changes to the caller's slice are not seen.
func New(algs []models.TradingAlgorithm) *Registry {
	r := &Registry{algorithms: make([]models.TradingAlgorithm, 0, len(algs))}
	for _, a := range algs {
		r.algorithms = append(r.algorithms, a.Clone())
	}
	return r
}

func (r *Registry) Len() int {
	return len(r.algorithms)
}

// List returns copies in registration order.
func (r *Registry) List() []models.TradingAlgorithm {
	out := make([]models.TradingAlgorithm, len(r.algorithms))
	for i, a := range r.algorithms {
		out[i] = a.Clone()
	}
	return out
}

func (r *Registry) Get(id string) (models.TradingAlgorithm, error) {
	i, err := r.index(id)
	if err != nil {
		return models.TradingAlgorithm{}, err
	}
	return r.algorithms[i].Clone(), nil
}

// ToggleStatus flips RUNNING to STOPPED and any other status to RUNNING.
func (r *Registry) ToggleStatus(id string) (models.TradingAlgorithm, error) {
	i, err := r.index(id)
	if err != nil {
		return models.TradingAlgorithm{}, err
	}
	alg := &r.algorithms[i]
	if alg.Status == models.AlgorithmRunning {
		alg.Status = models.AlgorithmStopped
	} else {
		alg.Status = models.AlgorithmRunning
	}
	return alg.Clone(), nil
}

// StopAll stops every running algorithm and returns the ones it stopped.
func (r *Registry) StopAll() []models.TradingAlgorithm {
	var stopped []models.TradingAlgorithm
	for i := range r.algorithms {
		if r.algorithms[i].Status != models.AlgorithmRunning {
			continue
		}
		r.algorithms[i].Status = models.AlgorithmStopped
		stopped = append(stopped, r.algorithms[i].Clone())
	}
	return stopped
}

// UpdateConfig sets one StrategyConfig field by key. The value is stored as
// given: only its kind is checked, never its range.
func (r *Registry) UpdateConfig(id, field string, value any) (models.TradingAlgorithm, error) {
	i, err := r.index(id)
	if err != nil {
		return models.TradingAlgorithm{}, err
	}
	cfg := &r.algorithms[i].Config

	if field == consts.FieldIndicators {
		labels, err := toStrings(value)
		if err != nil {
			return models.TradingAlgorithm{}, err
		}
		cfg.Indicators = labels
		return r.algorithms[i].Clone(), nil
	}

	target := numericField(cfg, field)
	if target == nil {
		return models.TradingAlgorithm{}, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	n, err := toFloat(value)
	if err != nil {
		return models.TradingAlgorithm{}, fmt.Errorf("%s: %w", field, err)
	}
	*target = n
	return r.algorithms[i].Clone(), nil
}

// ToggleIndicator removes label from the indicator set if present and
// appends it otherwise.
func (r *Registry) ToggleIndicator(id, label string) (models.TradingAlgorithm, error) {
	alg, err := r.Get(id)
	if err != nil {
		return models.TradingAlgorithm{}, err
	}
	current := alg.Config.Indicators
	next := make([]string, 0, len(current)+1)
	for _, ind := range current {
		if ind != label {
			next = append(next, ind)
		}
	}
	if len(next) == len(current) {
		next = append(next, label)
	}
	return r.UpdateConfig(id, consts.FieldIndicators, next)
}

// TotalProfit is recomputed from the records on every call.
func (r *Registry) TotalProfit() decimal.Decimal {
	total := decimal.Zero
	for _, a := range r.algorithms {
		total = total.Add(a.Profit)
	}
	return total
}

func (r *Registry) ActiveCount() int {
	n := 0
	for _, a := range r.algorithms {
		if a.Status == models.AlgorithmRunning {
			n++
		}
	}
	return n
}

func (r *Registry) index(id string) (int, error) {
	for i := range r.algorithms {
		if r.algorithms[i].ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrAlgorithmNotFound, id)
}

func numericField(cfg *models.StrategyConfig, field string) *float64 {
	switch field {
	case consts.FieldRiskTolerance:
		return &cfg.RiskTolerance
	case consts.FieldLeverage:
		return &cfg.Leverage
	case consts.FieldStopLoss:
		return &cfg.StopLoss
	case consts.FieldTakeProfit:
		return &cfg.TakeProfit
	case consts.FieldMaxDrawdown:
		return &cfg.MaxDrawdown
	}
	return nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		return f, nil
	case decimal.Decimal:
		f, _ := n.Float64()
		return f, nil
	}
	return 0, fmt.Errorf("%w: expected a number, got %T", ErrInvalidValue, v)
}

func toStrings(v any) ([]string, error) {
	switch s := v.(type) {
	case []string:
		return append([]string(nil), s...), nil
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: indicator labels must be strings, got %T", ErrInvalidValue, item)
			}
			out = append(out, str)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: expected a list of indicator labels, got %T", ErrInvalidValue, v)
}
