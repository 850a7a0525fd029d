// Package control serves a small local HTTP API over the connection manager:
// health, current relay states, and toggle requests.
package control

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/time/rate"

	"github.com/rickgao/relay-panel/internal/connection"
	"github.com/rickgao/relay-panel/internal/model"
)

// Panel is the part of connection.Manager the control API uses.
type Panel interface {
	Toggle(relay int) bool
	States() model.DeviceState
	State() connection.State
	Stats() connection.ManagerStats
}

// Config configures the control server.
type Config struct {
	Addr        string
	ToggleRate  float64 // toggles per second across all callers
	ToggleBurst int
}

// Server is the control HTTP server.
type Server struct {
	cfg     Config
	panel   Panel
	labels  []string
	limiter *rate.Limiter
	logger  *slog.Logger
	router  *httprouter.Router
}

// NewServer creates a control server for panel with one relay per label.
func NewServer(cfg Config, panel Panel, labels []string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:     cfg,
		panel:   panel,
		labels:  labels,
		limiter: rate.NewLimiter(rate.Limit(cfg.ToggleRate), cfg.ToggleBurst),
		logger:  logger,
		router:  httprouter.New(),
	}

	s.router.GET("/health", s.handleHealth)
	s.router.GET("/relays", s.handleRelays)
	s.router.POST("/relays/:relay/toggle", s.handleToggle)

	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting control server", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("control server stopped")
	return nil
}

type healthResponse struct {
	Status     string                  `json:"status"`
	Connection connection.ManagerStats `json:"connection"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	health := healthResponse{
		Status:     "healthy",
		Connection: s.panel.Stats(),
	}

	code := http.StatusOK
	if s.panel.State() != connection.StateOpen {
		health.Status = "unhealthy"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, health)
}

type relayResponse struct {
	Index int    `json:"index"`
	Label string `json:"label"`
	On    bool   `json:"on"`
}

type relaysResponse struct {
	Connection string          `json:"connection"`
	Known      bool            `json:"known"` // false until the first snapshot
	Relays     []relayResponse `json:"relays"`
}

func (s *Server) handleRelays(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	states := s.panel.States()

	resp := relaysResponse{
		Connection: s.panel.State().String(),
		Known:      states != nil,
		Relays:     make([]relayResponse, len(s.labels)),
	}
	for i, label := range s.labels {
		resp.Relays[i] = relayResponse{Index: i, Label: label, On: states.On(i)}
	}
	writeJSON(w, http.StatusOK, resp)
}

type toggleResponse struct {
	Relay int  `json:"relay"`
	Sent  bool `json:"sent"`
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	relay, err := strconv.Atoi(ps.ByName("relay"))
	if err != nil || relay < 0 || relay >= len(s.labels) {
		writeError(w, http.StatusBadRequest, "invalid relay index")
		return
	}

	if !s.limiter.Allow() {
		writeError(w, http.StatusTooManyRequests, "toggle rate exceeded")
		return
	}

	// The request is accepted either way; the relay only changes once the
	// controller sends a new snapshot.
	sent := s.panel.Toggle(relay)
	s.logger.Debug("control toggle", "relay", relay, "sent", sent, "remote", r.RemoteAddr)

	writeJSON(w, http.StatusAccepted, toggleResponse{Relay: relay, Sent: sent})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
