// Package notifications forwards selected activity feed entries to a chat
// webhook (Slack or Discord).
package notifications

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"

	"github.com/dyike/QuantFlow/internal/models"
)

const defaultBotName = "QuantFlow"

// Sender posts one message per call to a webhook.
type Sender struct {
	webhookURL string
	botName    string
	client     *resty.Client
}

func NewSender(webhookURL, botName string) *Sender {
	if botName == "" {
		botName = defaultBotName
	}
	client := resty.New()
	client.SetTimeout(10 * time.Second)

	return &Sender{
		webhookURL: webhookURL,
		botName:    botName,
		client:     client,
	}
}

func (s *Sender) Enabled() bool {
	return s.webhookURL != ""
}

// Send delivers msg once. Without a webhook URL it only logs.
func (s *Sender) Send(ctx context.Context, msg string) error {
	formatted := fmt.Sprintf("[%s] %s", s.botName, msg)
	log.WithField("webhook", s.Enabled()).Debug(formatted)

	if !s.Enabled() {
		return nil
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(s.formatPayload(formatted)).
		Post(s.webhookURL)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook returned %s", resp.Status())
	}
	return nil
}

func (s *Sender) formatPayload(msg string) map[string]string {
	if strings.Contains(s.webhookURL, "discord") {
		return map[string]string{
			"content":  msg,
			"username": s.botName,
		}
	}
	return map[string]string{
		"text":     fmt.Sprintf("`%s`", msg),
		"username": s.botName,
	}
}

// Filter decides which feed entries are forwarded.
type Filter struct {
	Trades bool
	Errors bool
}

func FilterFrom(s models.Settings) Filter {
	return Filter{Trades: s.NotifyTrades, Errors: s.NotifyErrors}
}

// Match reports whether e should be sent. Trade entries are the outcome
// entries of a status change (SUCCESS or WARNING tied to an algorithm).
func (f Filter) Match(e models.LogEntry) bool {
	switch e.Category {
	case models.LogError:
		return f.Errors
	case models.LogSuccess, models.LogWarning:
		return f.Trades && e.AlgorithmID != ""
	}
	return false
}

// Notifier queues matching entries and sends them from its own goroutine, so
// feed writers never wait on the network.
type Notifier struct {
	sender *Sender
	filter Filter
	queue  chan models.LogEntry
}

func NewNotifier(sender *Sender, filter Filter, buffer int) *Notifier {
	if buffer <= 0 {
		buffer = 64
	}
	return &Notifier{
		sender: sender,
		filter: filter,
		queue:  make(chan models.LogEntry, buffer),
	}
}

// Enqueue is a logfeed subscriber. Entries are dropped when the queue is full.
func (n *Notifier) Enqueue(e models.LogEntry) {
	if !n.filter.Match(e) {
		return
	}
	select {
	case n.queue <- e:
	default:
		log.WithField("entry", e.ID).Warn("notification queue full, dropping entry")
	}
}

// Run drains the queue until ctx is done.
func (n *Notifier) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-n.queue:
			msg := fmt.Sprintf("%s [%s] %s", e.Clock(), e.Category, e.Message)
			if err := n.sender.Send(ctx, msg); err != nil {
				log.WithError(err).Warn("failed to deliver notification")
			}
		}
	}
}
