package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigUsesPlaceholderCredential(t *testing.T) {
	t.Setenv("API_KEY", "")
	cfg := DefaultConfig()

	assert.Equal(t, APIKeyPlaceholder, cfg.APIKey)
	assert.False(t, cfg.HasCredential())
	require.NoError(t, cfg.Validate())
}

func TestDefaultConfigEnvOverrides(t *testing.T) {
	t.Setenv("API_KEY", "sk-test")
	t.Setenv("QUANTFLOW_LLM_PROVIDER", "DeepSeek")
	t.Setenv("QUANTFLOW_LLM_MODEL", "deepseek-chat")
	t.Setenv("QUANTFLOW_HTTP_ADDR", "127.0.0.1:8088")
	t.Setenv("QUANTFLOW_BROKER_CONNECT_DELAY", "150ms")
	t.Setenv("QUANTFLOW_NOTIFY_ERRORS", "false")
	t.Setenv("QUANTFLOW_MAX_DAILY_TRADES", "42")
	t.Setenv("QUANTFLOW_RATE_LIMIT_RPS", "not-a-number")

	cfg := DefaultConfig()

	assert.True(t, cfg.HasCredential())
	assert.Equal(t, "deepseek", cfg.LLMProvider)
	assert.Equal(t, "deepseek-chat", cfg.LLMModel)
	assert.Equal(t, "127.0.0.1:8088", cfg.HTTPAddr)
	assert.Equal(t, 150*time.Millisecond, cfg.BrokerConnectDelay)
	assert.False(t, cfg.NotifyErrors)
	assert.Equal(t, 42, cfg.MaxDailyTrades)
	assert.Equal(t, 20.0, cfg.RateLimitRPS, "unparseable values keep the default")
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LLMProvider = "gemini"
	cfg.LLMModel = " "
	cfg.BrokerConnectDelay = -time.Second

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "QUANTFLOW_LLM_PROVIDER")
	assert.Contains(t, err.Error(), "QUANTFLOW_LLM_MODEL")
	assert.Contains(t, err.Error(), "QUANTFLOW_BROKER_CONNECT_DELAY")
}

func TestSettings(t *testing.T) {
	cfg := DefaultConfig()
	s := cfg.Settings()

	assert.Equal(t, cfg.GlobalStopLoss, s.GlobalStopLoss)
	assert.Equal(t, cfg.MaxDailyTrades, s.MaxDailyTrades)
	assert.Equal(t, EngineVersion, s.EngineVersion)
}
