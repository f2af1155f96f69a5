package models

import (
	"fmt"
	"strings"
	"time"
)

type LogCategory string

const (
	LogInfo    LogCategory = "INFO"
	LogSuccess LogCategory = "SUCCESS"
	LogWarning LogCategory = "WARNING"
	LogError   LogCategory = "ERROR"
	LogAPI     LogCategory = "API"
)

// LogCategories lists every category in filter order.
var LogCategories = []LogCategory{LogInfo, LogAPI, LogSuccess, LogError, LogWarning}

func (c LogCategory) Valid() bool {
	switch c {
	case LogInfo, LogSuccess, LogWarning, LogError, LogAPI:
		return true
	}
	return false
}

func (c LogCategory) String() string {
	return string(c)
}

// ParseLogCategory maps "" and "ALL" to the empty category, which matches
// every entry when filtering.
func ParseLogCategory(v string) (LogCategory, error) {
	v = strings.ToUpper(strings.TrimSpace(v))
	if v == "" || v == "ALL" {
		return "", nil
	}
	c := LogCategory(v)
	if !c.Valid() {
		return "", fmt.Errorf("unknown log category %q", v)
	}
	return c, nil
}

type LogEntry struct {
	ID          string      `json:"id"`
	Timestamp   time.Time   `json:"timestamp"`
	Category    LogCategory `json:"type"`
	Message     string      `json:"message"`
	AlgorithmID string      `json:"alg_id,omitempty"`
}

// Clock returns the wall-clock label shown in the feed.
func (e LogEntry) Clock() string {
	return e.Timestamp.Format("15:04:05")
}
