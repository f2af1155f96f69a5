package dashboard

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/dyike/QuantFlow/internal/models"
)

// Seed replaces the built-in algorithm set and broker record.
type Seed struct {
	Algorithms []models.TradingAlgorithm
	Broker     *models.BrokerConnection
}

type seedFile struct {
	Algorithms []seedAlgorithm `yaml:"algorithms"`
	Broker     *seedBroker     `yaml:"broker"`
}

type seedAlgorithm struct {
	models.TradingAlgorithm `yaml:",inline"`
	Profit                  float64 `yaml:"profit"`
}

type seedBroker struct {
	ID            string `yaml:"id"`
	Name          string `yaml:"name"`
	Status        string `yaml:"status"`
	APIKey        string `yaml:"api_key"`
	APISecret     string `yaml:"api_secret"`
	AccountNumber string `yaml:"account_number"`
	LastPing      string `yaml:"last_ping"`
}

// LoadSeed reads a YAML seed file.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeed(data)
}

func ParseSeed(data []byte) (*Seed, error) {
	var raw seedFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	seed := &Seed{}
	seen := make(map[string]bool, len(raw.Algorithms))
	for i, sa := range raw.Algorithms {
		alg := sa.TradingAlgorithm
		if alg.ID == "" {
			return nil, fmt.Errorf("algorithm #%d: id is required", i+1)
		}
		if seen[alg.ID] {
			return nil, fmt.Errorf("algorithm %s: duplicate id", alg.ID)
		}
		seen[alg.ID] = true
		if alg.Status == "" {
			alg.Status = models.AlgorithmStopped
		}
		status, err := models.ParseAlgorithmStatus(string(alg.Status))
		if err != nil {
			return nil, fmt.Errorf("algorithm %s: %w", alg.ID, err)
		}
		alg.Status = status
		alg.Profit = decimal.NewFromFloat(sa.Profit)
		seed.Algorithms = append(seed.Algorithms, alg)
	}

	if b := raw.Broker; b != nil {
		status := models.BrokerConnected
		if b.Status != "" {
			parsed, err := models.ParseBrokerStatus(b.Status)
			if err != nil {
				return nil, fmt.Errorf("broker: %w", err)
			}
			status = parsed
		}
		seed.Broker = &models.BrokerConnection{
			ID:            b.ID,
			Name:          b.Name,
			Status:        status,
			APIKey:        b.APIKey,
			APISecret:     b.APISecret,
			AccountNumber: b.AccountNumber,
			LastPing:      b.LastPing,
		}
	}
	return seed, nil
}
