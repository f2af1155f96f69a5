package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/dyike/QuantFlow/internal/models"
)

// APIKeyPlaceholder stands in for a missing text-generation credential so
// startup never fails on it; requests made with it simply fall back.
const APIKeyPlaceholder = "DUMMY_API_KEY_FOR_DEMO"

const EngineVersion = "v2.4.1"

type Config struct {
	// Text generation
	LLMProvider string `json:"llm_provider"`
	LLMModel    string `json:"llm_model"`
	LLMBaseURL  string `json:"llm_base_url"`
	APIKey      string `json:"-"`

	// HTTP API
	HTTPAddr        string  `json:"http_addr"`
	CORSAllowOrigin string  `json:"cors_allow_origin"`
	RateLimitRPS    float64 `json:"rate_limit_rps"`
	RateLimitBurst  int     `json:"rate_limit_burst"`

	// Simulation
	BrokerConnectDelay time.Duration `json:"broker_connect_delay"`
	SeedFile           string        `json:"seed_file"`

	// Notifications
	WebhookURL    string `json:"webhook_url"`
	BotName       string `json:"bot_name"`
	NotifyTrades  bool   `json:"notify_trades"`
	NotifyErrors  bool   `json:"notify_errors"`
	NotifySummary bool   `json:"notify_summary"`

	// Global risk bounds
	GlobalStopLoss float64 `json:"global_stop_loss"`
	MaxDailyTrades int     `json:"max_daily_trades"`

	LogLevel string `json:"log_level"`
	Debug    bool   `json:"debug"`

	// Eino Debug configuration
	EinoDebugEnabled bool `json:"eino_debug_enabled"`
	EinoDebugPort    int  `json:"eino_debug_port"`
}

func DefaultConfig() *Config {
	cfg := &Config{
		LLMProvider: "openai",
		LLMModel:    "gemini-3-flash-preview",
		LLMBaseURL:  "https://generativelanguage.googleapis.com/v1beta/openai/",
		APIKey:      APIKeyPlaceholder,

		HTTPAddr:        ":3001",
		CORSAllowOrigin: "*",
		RateLimitRPS:    20,
		RateLimitBurst:  40,

		BrokerConnectDelay: 2 * time.Second,

		BotName:      "QuantFlow",
		NotifyTrades: true,
		NotifyErrors: true,

		GlobalStopLoss: 15,
		MaxDailyTrades: 500,

		LogLevel: "info",

		EinoDebugEnabled: false,
		EinoDebugPort:    52538,
	}

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg.loadFromEnv()

	return cfg
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("API_KEY"); val != "" {
		c.APIKey = val
	}
	if val := os.Getenv("QUANTFLOW_LLM_PROVIDER"); val != "" {
		c.LLMProvider = strings.ToLower(val)
	}
	if val := os.Getenv("QUANTFLOW_LLM_MODEL"); val != "" {
		c.LLMModel = val
	}
	if val := os.Getenv("QUANTFLOW_LLM_BASE_URL"); val != "" {
		c.LLMBaseURL = val
	}

	if val := os.Getenv("QUANTFLOW_HTTP_ADDR"); val != "" {
		c.HTTPAddr = val
	}
	if val := os.Getenv("QUANTFLOW_CORS_ORIGIN"); val != "" {
		c.CORSAllowOrigin = val
	}
	if val := os.Getenv("QUANTFLOW_RATE_LIMIT_RPS"); val != "" {
		if v, err := strconv.ParseFloat(val, 64); err == nil {
			c.RateLimitRPS = v
		}
	}
	if val := os.Getenv("QUANTFLOW_RATE_LIMIT_BURST"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.RateLimitBurst = v
		}
	}

	if val := os.Getenv("QUANTFLOW_BROKER_CONNECT_DELAY"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			c.BrokerConnectDelay = d
		}
	}
	if val := os.Getenv("QUANTFLOW_SEED_FILE"); val != "" {
		c.SeedFile = val
	}

	if val := os.Getenv("QUANTFLOW_WEBHOOK_URL"); val != "" {
		c.WebhookURL = val
	}
	if val := os.Getenv("QUANTFLOW_BOT_NAME"); val != "" {
		c.BotName = val
	}
	if val := os.Getenv("QUANTFLOW_NOTIFY_TRADES"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.NotifyTrades = enabled
		}
	}
	if val := os.Getenv("QUANTFLOW_NOTIFY_ERRORS"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.NotifyErrors = enabled
		}
	}
	if val := os.Getenv("QUANTFLOW_NOTIFY_SUMMARY"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.NotifySummary = enabled
		}
	}

	if val := os.Getenv("QUANTFLOW_GLOBAL_STOP_LOSS"); val != "" {
		if v, err := strconv.ParseFloat(val, 64); err == nil {
			c.GlobalStopLoss = v
		}
	}
	if val := os.Getenv("QUANTFLOW_MAX_DAILY_TRADES"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.MaxDailyTrades = v
		}
	}

	if val := os.Getenv("QUANTFLOW_LOG_LEVEL"); val != "" {
		c.LogLevel = val
	}
	if val := os.Getenv("QUANTFLOW_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}

	if val := os.Getenv("EINO_DEBUG_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.EinoDebugEnabled = enabled
		}
	}
	if val := os.Getenv("EINO_DEBUG_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			c.EinoDebugPort = port
		}
	}
}

// HasCredential reports whether a real text-generation key was supplied.
func (c *Config) HasCredential() bool {
	return c.APIKey != "" && c.APIKey != APIKeyPlaceholder
}

// Validate rejects values that would make the process unusable. Missing
// credentials are not an error.
func (c *Config) Validate() error {
	var errs []string

	switch c.LLMProvider {
	case "openai", "deepseek":
	default:
		errs = append(errs, fmt.Sprintf("QUANTFLOW_LLM_PROVIDER %q is not supported (openai, deepseek)", c.LLMProvider))
	}
	if strings.TrimSpace(c.LLMModel) == "" {
		errs = append(errs, "QUANTFLOW_LLM_MODEL must not be empty")
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		errs = append(errs, "rate limit values must not be negative")
	}
	if c.BrokerConnectDelay < 0 {
		errs = append(errs, "QUANTFLOW_BROKER_CONNECT_DELAY must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// Settings returns the global risk bounds and alert switches.
func (c *Config) Settings() models.Settings {
	return models.Settings{
		GlobalStopLoss:    c.GlobalStopLoss,
		MaxDailyTrades:    c.MaxDailyTrades,
		NotifyTrades:      c.NotifyTrades,
		NotifyErrors:      c.NotifyErrors,
		NotifySummary:     c.NotifySummary,
		EngineVersion:     EngineVersion,
		MaintenanceWindow: "Sunday 02:00 UTC",
	}
}
