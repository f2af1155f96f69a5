package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/dyike/QuantFlow/internal/dashboard"
	"github.com/dyike/QuantFlow/internal/models"
	"github.com/dyike/QuantFlow/internal/registry"
)

type healthResponse struct {
	Status    string              `json:"status"`
	Timestamp string              `json:"timestamp"`
	Broker    models.BrokerStatus `json:"broker"`
	Streams   int                 `json:"streams"`
}

type toggleResponse struct {
	Algorithm models.TradingAlgorithm `json:"algorithm"`
	Applied   bool                    `json:"applied"`
}

type configUpdateRequest struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

type textResponse struct {
	Text       string `json:"text"`
	Refreshing bool   `json:"refreshing"`
}

type portfolioResponse struct {
	History []models.PortfolioPoint  `json:"history"`
	Market  []models.MarketDataPoint `json:"market"`
}

type killSwitchResponse struct {
	Stopped []models.TradingAlgorithm `json:"stopped"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Broker:    s.dash.Broker().Status,
		Streams:   s.hub.Clients(),
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dash.Snapshot())
}

func (s *Server) handleAlgorithms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dash.Algorithms())
}

func (s *Server) handleAlgorithm(w http.ResponseWriter, r *http.Request) {
	alg, err := s.dash.Algorithm(mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, alg)
}

// handleToggle answers 200 even when the broker refuses the change; applied
// tells the caller whether the status moved.
func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	alg, applied, err := s.dash.ToggleAlgorithm(mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toggleResponse{Algorithm: alg, Applied: applied})
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	alg, err := s.dash.Select(mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, alg)
}

func (s *Server) handleAdvice(w http.ResponseWriter, r *http.Request) {
	text, err := s.dash.StrategyAdvice(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, textResponse{Text: text})
}

func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req configUpdateRequest
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Field == "" {
		writeError(w, http.StatusBadRequest, "field is required")
		return
	}

	alg, err := s.dash.UpdateConfig(req.Field, req.Value)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, alg)
}

func (s *Server) handleToggleIndicator(w http.ResponseWriter, r *http.Request) {
	alg, err := s.dash.ToggleIndicator(mux.Vars(r)["indicator"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, alg)
}

func (s *Server) handleBroker(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dash.Broker())
}

func (s *Server) handleBrokerConnect(w http.ResponseWriter, r *http.Request) {
	s.dash.ConnectBroker()
	writeJSON(w, http.StatusAccepted, s.dash.Broker())
}

func (s *Server) handleBrokerDisconnect(w http.ResponseWriter, r *http.Request) {
	s.dash.DisconnectBroker()
	writeJSON(w, http.StatusOK, s.dash.Broker())
}

func (s *Server) handleInsight(w http.ResponseWriter, r *http.Request) {
	text, refreshing := s.dash.Insight()
	writeJSON(w, http.StatusOK, textResponse{Text: text, Refreshing: refreshing})
}

func (s *Server) handleInsightRefresh(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, textResponse{Text: s.dash.RefreshInsight(r.Context())})
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category, err := models.ParseLogCategory(q.Get("category"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.dash.Logs(category, q.Get("q")))
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, portfolioResponse{
		History: s.dash.PortfolioHistory(),
		Market:  s.dash.MarketData(),
	})
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dash.Analytics())
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dash.Settings())
}

func (s *Server) handleKillSwitch(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, killSwitchResponse{Stopped: s.dash.KillSwitch()})
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registry.ErrAlgorithmNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, registry.ErrUnknownField), errors.Is(err, registry.ErrInvalidValue):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, dashboard.ErrNoSelection):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
