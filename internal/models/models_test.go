package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAlgorithmStatus(t *testing.T) {
	s, err := ParseAlgorithmStatus(" running ")
	require.NoError(t, err)
	assert.Equal(t, AlgorithmRunning, s)

	_, err = ParseAlgorithmStatus("sleeping")
	assert.Error(t, err)
}

func TestParseBrokerStatus(t *testing.T) {
	s, err := ParseBrokerStatus("Connecting")
	require.NoError(t, err)
	assert.Equal(t, BrokerConnecting, s)

	_, err = ParseBrokerStatus("")
	assert.Error(t, err)
}

func TestParseLogCategory(t *testing.T) {
	for _, v := range []string{"", "all", "ALL"} {
		c, err := ParseLogCategory(v)
		require.NoError(t, err, v)
		assert.Empty(t, c)
	}

	c, err := ParseLogCategory("api")
	require.NoError(t, err)
	assert.Equal(t, LogAPI, c)

	_, err = ParseLogCategory("DEBUG")
	assert.Error(t, err)
}

func TestCloneDoesNotShareIndicators(t *testing.T) {
	alg := TradingAlgorithm{ID: "1", Config: StrategyConfig{Indicators: []string{"RSI"}}}
	cp := alg.Clone()
	cp.Config.Indicators[0] = "MACD"

	assert.Equal(t, "RSI", alg.Config.Indicators[0])
	assert.True(t, alg.Config.HasIndicator("RSI"))
	assert.False(t, alg.Config.HasIndicator("MACD"))
}
