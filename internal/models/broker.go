package models

import (
	"fmt"
	"strings"
)

// BrokerStatus is the state of the simulated brokerage session.
type BrokerStatus string

const (
	BrokerConnected    BrokerStatus = "CONNECTED"
	BrokerDisconnected BrokerStatus = "DISCONNECTED"
	BrokerConnecting   BrokerStatus = "CONNECTING"
	BrokerError        BrokerStatus = "ERROR"
)

func (s BrokerStatus) Valid() bool {
	switch s {
	case BrokerConnected, BrokerDisconnected, BrokerConnecting, BrokerError:
		return true
	}
	return false
}

func (s BrokerStatus) String() string {
	return string(s)
}

func ParseBrokerStatus(v string) (BrokerStatus, error) {
	s := BrokerStatus(strings.ToUpper(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown broker status %q", v)
	}
	return s, nil
}

// BrokerConnection describes the simulated API session. Credentials are
// display values only and are never sent anywhere.
type BrokerConnection struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Status        BrokerStatus `json:"status"`
	APIKey        string       `json:"api_key"`
	APISecret     string       `json:"api_secret"`
	AccountNumber string       `json:"account_number"`
	LastPing      string       `json:"last_ping"`
}
