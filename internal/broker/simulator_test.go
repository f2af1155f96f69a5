package broker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyike/QuantFlow/internal/logfeed"
	"github.com/dyike/QuantFlow/internal/models"
	"github.com/dyike/QuantFlow/internal/samples"
)

func TestConnectTransitions(t *testing.T) {
	feed := logfeed.New(50)
	conn := samples.Broker()
	conn.Status = models.BrokerDisconnected
	sim := NewSimulator(conn, 20*time.Millisecond, feed)

	done := sim.Connect()
	assert.Equal(t, models.BrokerConnecting, sim.Status())
	require.Equal(t, 1, feed.Len())
	assert.Equal(t, models.LogAPI, feed.Entries()[0].Category)
	assert.Equal(t, "Initiating OAuth2 handshake with Korea Investment API...", feed.Entries()[0].Message)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handshake never completed")
	}

	snap := sim.Snapshot()
	assert.Equal(t, models.BrokerConnected, snap.Status)
	assert.Equal(t, "28ms", snap.LastPing)
	assert.True(t, sim.Connected())

	entries := feed.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, models.LogSuccess, entries[0].Category)
	assert.Equal(t, "Korea Investment API connection re-established successfully.", entries[0].Message)
}

func TestDisconnect(t *testing.T) {
	feed := logfeed.New(50)
	sim := NewSimulator(samples.Broker(), 0, feed)
	require.True(t, sim.Connected())

	sim.Disconnect()
	assert.Equal(t, models.BrokerDisconnected, sim.Status())
	require.Equal(t, 1, feed.Len())
	assert.Equal(t, models.LogWarning, feed.Entries()[0].Category)
}
