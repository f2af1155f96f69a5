package notifications

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyike/QuantFlow/internal/models"
)

type capture struct {
	mu       sync.Mutex
	payloads []map[string]string
}

func (c *capture) handler(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var p map[string]string
		_ = json.Unmarshal(body, &p)
		c.mu.Lock()
		c.payloads = append(c.payloads, p)
		c.mu.Unlock()
		w.WriteHeader(status)
	}
}

func (c *capture) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.payloads)
}

func TestSendNoWebhook(t *testing.T) {
	s := NewSender("", "")
	assert.False(t, s.Enabled())
	assert.Equal(t, defaultBotName, s.botName)
	assert.NoError(t, s.Send(context.Background(), "console only"))
}

func TestSendSlackFormat(t *testing.T) {
	c := &capture{}
	srv := httptest.NewServer(c.handler(http.StatusOK))
	defer srv.Close()

	s := NewSender(srv.URL, "TestBot")
	require.NoError(t, s.Send(context.Background(), "grid recalculated"))

	require.Equal(t, 1, c.count())
	assert.Equal(t, "TestBot", c.payloads[0]["username"])
	assert.Equal(t, "`[TestBot] grid recalculated`", c.payloads[0]["text"])
}

func TestSendDiscordFormat(t *testing.T) {
	c := &capture{}
	srv := httptest.NewServer(c.handler(http.StatusNoContent))
	defer srv.Close()

	s := NewSender(srv.URL+"/discord/webhook", "QuantBot")
	require.NoError(t, s.Send(context.Background(), "Alpha Arbitrage status updated"))

	require.Equal(t, 1, c.count())
	assert.Equal(t, "[QuantBot] Alpha Arbitrage status updated", c.payloads[0]["content"])
	_, hasText := c.payloads[0]["text"]
	assert.False(t, hasText)
}

func TestSendServerErrorIsNotRetried(t *testing.T) {
	c := &capture{}
	srv := httptest.NewServer(c.handler(http.StatusBadGateway))
	defer srv.Close()

	err := NewSender(srv.URL, "").Send(context.Background(), "rejected")
	require.Error(t, err)
	assert.Equal(t, 1, c.count())
}

func TestFilterMatch(t *testing.T) {
	trade := models.LogEntry{Category: models.LogSuccess, AlgorithmID: "1"}
	system := models.LogEntry{Category: models.LogWarning}
	failure := models.LogEntry{Category: models.LogError}
	info := models.LogEntry{Category: models.LogInfo, AlgorithmID: "1"}

	all := Filter{Trades: true, Errors: true}
	assert.True(t, all.Match(trade))
	assert.False(t, all.Match(system))
	assert.True(t, all.Match(failure))
	assert.False(t, all.Match(info))

	assert.False(t, Filter{Errors: true}.Match(trade))
	assert.False(t, Filter{Trades: true}.Match(failure))

	f := FilterFrom(models.Settings{NotifyTrades: true})
	assert.True(t, f.Trades)
	assert.False(t, f.Errors)
}

func TestNotifierForwardsMatchingEntries(t *testing.T) {
	c := &capture{}
	srv := httptest.NewServer(c.handler(http.StatusOK))
	defer srv.Close()

	n := NewNotifier(NewSender(srv.URL, "TestBot"), Filter{Errors: true}, 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go n.Run(ctx)

	n.Enqueue(models.LogEntry{Category: models.LogInfo, Message: "ignored"})
	n.Enqueue(models.LogEntry{
		Category:  models.LogError,
		Message:   "Cannot toggle bot: Broker API disconnected",
		Timestamp: time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC),
	})

	require.Eventually(t, func() bool { return c.count() == 1 }, 2*time.Second, 10*time.Millisecond)
	c.mu.Lock()
	defer c.mu.Unlock()
	assert.Contains(t, c.payloads[0]["text"], "[ERROR] Cannot toggle bot: Broker API disconnected")
}

func TestNotifierDropsWhenFull(t *testing.T) {
	n := NewNotifier(NewSender("", ""), Filter{Errors: true}, 1)
	n.Enqueue(models.LogEntry{Category: models.LogError, Message: "first"})
	n.Enqueue(models.LogEntry{Category: models.LogError, Message: "second"})
	assert.Len(t, n.queue, 1)
}
