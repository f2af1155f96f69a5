// Package api exposes the dashboard over HTTP and streams the activity feed
// over a websocket.
package api

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/dyike/QuantFlow/internal/dashboard"
	"github.com/dyike/QuantFlow/internal/metrics"
)

type ctxKey string

const requestIDKey ctxKey = "request_id"

type Options struct {
	Addr            string
	CORSAllowOrigin string
	RateLimitRPS    float64
	RateLimitBurst  int
}

type Server struct {
	dash       *dashboard.Dashboard
	recorder   *metrics.Recorder
	hub        *Hub
	router     *mux.Router
	handler    http.Handler
	limiter    *rate.Limiter
	corsOrigin string
	httpServer *http.Server
}

func NewServer(dash *dashboard.Dashboard, recorder *metrics.Recorder, opts Options) *Server {
	s := &Server{
		dash:       dash,
		recorder:   recorder,
		hub:        NewHub(),
		router:     mux.NewRouter(),
		corsOrigin: opts.CORSAllowOrigin,
	}
	if s.corsOrigin == "" {
		s.corsOrigin = "*"
	}
	if opts.RateLimitRPS > 0 {
		burst := opts.RateLimitBurst
		if burst <= 0 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimitRPS), burst)
	}

	dash.Feed().Subscribe(s.hub.Publish)
	s.setupRoutes()
	// CORS wraps the router so preflight requests never reach method matching.
	s.handler = s.corsMiddleware(s.router)

	s.httpServer = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.requestLoggingMiddleware)
	s.router.Use(s.rateLimitMiddleware)

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	if s.recorder != nil {
		s.router.Handle("/metrics", s.recorder.Handler()).Methods(http.MethodGet)
	}
	s.router.HandleFunc("/v1/logs/stream", s.handleLogStream).Methods(http.MethodGet)

	s.router.HandleFunc("/v1/dashboard", s.handleDashboard).Methods(http.MethodGet)

	s.router.HandleFunc("/v1/algorithms", s.handleAlgorithms).Methods(http.MethodGet)
	s.router.HandleFunc("/v1/algorithms/{id}", s.handleAlgorithm).Methods(http.MethodGet)
	s.router.HandleFunc("/v1/algorithms/{id}/toggle", s.handleToggle).Methods(http.MethodPost)
	s.router.HandleFunc("/v1/algorithms/{id}/select", s.handleSelect).Methods(http.MethodPost)
	s.router.HandleFunc("/v1/algorithms/{id}/advice", s.handleAdvice).Methods(http.MethodGet)

	s.router.HandleFunc("/v1/selection/config", s.handleUpdateConfig).Methods(http.MethodPatch)
	s.router.HandleFunc("/v1/selection/indicators/{indicator}", s.handleToggleIndicator).Methods(http.MethodPost)

	s.router.HandleFunc("/v1/broker", s.handleBroker).Methods(http.MethodGet)
	s.router.HandleFunc("/v1/broker/connect", s.handleBrokerConnect).Methods(http.MethodPost)
	s.router.HandleFunc("/v1/broker/disconnect", s.handleBrokerDisconnect).Methods(http.MethodPost)

	s.router.HandleFunc("/v1/insight", s.handleInsight).Methods(http.MethodGet)
	s.router.HandleFunc("/v1/insight/refresh", s.handleInsightRefresh).Methods(http.MethodPost)

	s.router.HandleFunc("/v1/logs", s.handleLogs).Methods(http.MethodGet)
	s.router.HandleFunc("/v1/portfolio", s.handlePortfolio).Methods(http.MethodGet)
	s.router.HandleFunc("/v1/analytics", s.handleAnalytics).Methods(http.MethodGet)
	s.router.HandleFunc("/v1/settings", s.handleSettings).Methods(http.MethodGet)
	s.router.HandleFunc("/v1/killswitch", s.handleKillSwitch).Methods(http.MethodPost)

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
}

// Handler returns the routed handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start runs the websocket hub and serves until Shutdown.
func (s *Server) Start(ctx context.Context) error {
	go s.hub.Run(ctx)
	log.WithField("addr", s.httpServer.Addr).Info("HTTP API listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Info("Shutting down HTTP API...")
	s.hub.CloseAll()
	return s.httpServer.Shutdown(ctx)
}

// --- middleware ---

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()[:8]
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requestLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		log.WithFields(log.Fields{
			"request_id": r.Context().Value(requestIDKey),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     wrapper.statusCode,
			"duration":   time.Since(start),
		}).Debug("request")
	})
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && r.URL.Path != "/health" && !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack lets the websocket upgrade pass through the logging middleware.
func (rw *responseWrapper) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	rw.statusCode = http.StatusSwitchingProtocols
	return h.Hijack()
}

// --- response helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
