// Package broker simulates the brokerage API session. Nothing here touches
// the network.
package broker

import (
	"fmt"
	"sync"
	"time"

	"github.com/dyike/QuantFlow/internal/logfeed"
	"github.com/dyike/QuantFlow/internal/models"
)

const (
	DefaultConnectDelay = 2 * time.Second
	reconnectLatency    = "28ms"
)

type Simulator struct {
	mu    sync.RWMutex
	conn  models.BrokerConnection
	delay time.Duration
	feed  *logfeed.Feed
}

func NewSimulator(conn models.BrokerConnection, delay time.Duration, feed *logfeed.Feed) *Simulator {
	if delay < 0 {
		delay = 0
	}
	return &Simulator{conn: conn, delay: delay, feed: feed}
}

func (s *Simulator) Snapshot() models.BrokerConnection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conn
}

func (s *Simulator) Status() models.BrokerStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conn.Status
}

func (s *Simulator) Connected() bool {
	return s.Status() == models.BrokerConnected
}

// Connect starts the simulated handshake. The session becomes CONNECTED after
// the configured delay; the returned channel is closed at that point. There
// is no way to cancel a pending handshake, and calling Connect again while
// one is pending starts another timer.
func (s *Simulator) Connect() <-chan struct{} {
	s.mu.Lock()
	s.conn.Status = models.BrokerConnecting
	name := s.conn.Name
	s.mu.Unlock()

	s.feed.Add(models.LogAPI, fmt.Sprintf("Initiating OAuth2 handshake with %s API...", name))

	done := make(chan struct{})
	time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		s.conn.Status = models.BrokerConnected
		s.conn.LastPing = reconnectLatency
		s.mu.Unlock()

		s.feed.Add(models.LogSuccess, fmt.Sprintf("%s API connection re-established successfully.", name))
		close(done)
	})
	return done
}

func (s *Simulator) Disconnect() {
	s.mu.Lock()
	s.conn.Status = models.BrokerDisconnected
	name := s.conn.Name
	s.mu.Unlock()

	s.feed.Add(models.LogWarning, fmt.Sprintf("%s API session closed by operator.", name))
}
