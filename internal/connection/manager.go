package connection

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"code.cloudfoundry.org/clock"
	"github.com/google/uuid"

	"github.com/rickgao/relay-panel/internal/model"
	"github.com/rickgao/relay-panel/internal/panel"
)

// Manager supervises the connection to the relay controller for one panel
// session.
type Manager interface {
	// Start begins connecting. The manager reconnects until Stop.
	Start(ctx context.Context) error

	// Stop closes the connection and cancels any pending reconnect. The view
	// is left showing Disconnected.
	Stop(ctx context.Context) error

	// Toggle asks the server to flip a relay. It reports whether the request
	// was sent; requests made while not connected are dropped.
	Toggle(relay int) bool

	// States returns a copy of the last snapshot received from the server.
	States() model.DeviceState

	// State returns the current connection state.
	State() State

	// Stats returns current session statistics.
	Stats() ManagerStats
}

// Option configures a Manager.
type Option func(*manager)

// WithClock sets the clock used for the reconnect timer.
func WithClock(c clock.Clock) Option {
	return func(m *manager) {
		m.clock = c
	}
}

// WithClientFactory sets how clients are created for each attempt.
func WithClientFactory(f ClientFactory) Option {
	return func(m *manager) {
		m.newClient = f
	}
}

// manager implements the Manager interface.
type manager struct {
	cfg       ManagerConfig
	view      panel.View
	logger    *slog.Logger
	clock     clock.Clock
	newClient ClientFactory
	sessionID string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu         sync.RWMutex
	started    bool
	client     Client // non-nil only while open
	state      State
	stateSince time.Time
	states     model.DeviceState
	attempts   int
	opens      int
	lastErr    error
}

// NewManager creates a Connection Manager driving view.
func NewManager(cfg ManagerConfig, view panel.View, logger *slog.Logger, opts ...Option) Manager {
	if logger == nil {
		logger = slog.Default()
	}

	m := &manager{
		cfg:       cfg,
		view:      view,
		clock:     clock.NewClock(),
		newClient: NewClient,
		sessionID: uuid.NewString(),
		state:     StateConnecting,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = logger.With("session_id", m.sessionID)
	m.stateSince = m.clock.Now()

	return m
}

// Start begins the connect loop.
func (m *manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return ErrAlreadyStarted
	}
	m.started = true
	m.ctx, m.cancel = context.WithCancel(ctx)
	m.mu.Unlock()

	m.wg.Add(1)
	go m.run()

	m.logger.Info("connection manager started",
		"url", m.cfg.URL,
		"reconnect_delay", m.cfg.ReconnectDelay,
	)

	return nil
}

// Stop gracefully shuts down.
func (m *manager) Stop(ctx context.Context) error {
	m.mu.RLock()
	cancel := m.cancel
	m.mu.RUnlock()

	if cancel == nil {
		return nil
	}

	m.logger.Info("stopping connection manager")
	cancel()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		m.logger.Warn("shutdown timeout, forcing close")
		m.mu.RLock()
		client := m.client
		m.mu.RUnlock()
		if client != nil {
			client.Close()
		}
		return ctx.Err()
	}

	m.logger.Info("connection manager stopped")
	return nil
}

// Toggle sends a toggle command if the connection is open.
func (m *manager) Toggle(relay int) bool {
	m.mu.RLock()
	client := m.client
	m.mu.RUnlock()

	if client == nil || !client.IsConnected() {
		m.logger.Debug("toggle dropped, not connected", "relay", relay)
		return false
	}

	data, err := model.NewToggleCommand(relay).Encode()
	if err != nil {
		m.logger.Error("encode toggle", "relay", relay, "error", err)
		return false
	}

	if err := client.Send(data); err != nil {
		m.logger.Debug("toggle dropped, send failed", "relay", relay, "error", err)
		return false
	}

	m.logger.Debug("toggle sent", "relay", relay)
	return true
}

// States returns a copy of the last snapshot.
func (m *manager) States() model.DeviceState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.states.Clone()
}

// State returns the connection state.
func (m *manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Stats returns current statistics.
func (m *manager) Stats() ManagerStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := ManagerStats{
		SessionID:       m.sessionID,
		State:           m.state.String(),
		ConnectAttempts: m.attempts,
		Opens:           m.opens,
		StateSince:      m.stateSince,
	}
	if m.lastErr != nil {
		stats.LastError = m.lastErr.Error()
	}
	return stats
}

// run is the session event loop. Open, message, and close handling all
// happen on this goroutine, one event at a time.
func (m *manager) run() {
	defer m.wg.Done()

	for {
		client, err := m.connect()
		if err == nil {
			err = m.serve(client)
			m.detach(client)
		}

		if m.ctx.Err() != nil {
			m.view.SetStatus(panel.StatusDisconnected)
			return
		}

		m.onClose(err)

		if !m.waitReconnect() {
			return
		}
	}
}

// connect makes one connection attempt and fires onOpen on success.
func (m *manager) connect() (Client, error) {
	connID := uuid.NewString()

	m.mu.Lock()
	m.setStateLocked(StateConnecting)
	m.attempts++
	attempt := m.attempts
	m.mu.Unlock()

	cfg := m.cfg.Client
	cfg.URL = m.cfg.URL
	logger := m.logger.With("conn_id", connID)

	logger.Debug("connecting", "url", cfg.URL, "attempt", attempt)

	client := m.newClient(cfg, logger)
	if err := client.Connect(m.ctx); err != nil {
		client.Close()
		if m.ctx.Err() == nil {
			logger.Warn("connect failed", "url", cfg.URL, "attempt", attempt, "error", err)
		}
		return nil, err
	}

	m.mu.Lock()
	m.client = client
	m.setStateLocked(StateOpen)
	m.opens++
	m.mu.Unlock()

	m.onOpen()
	logger.Info("connected", "url", cfg.URL, "attempt", attempt)

	return client, nil
}

// serve dispatches messages until the connection ends or the manager stops.
func (m *manager) serve(client Client) error {
	for {
		select {
		case <-m.ctx.Done():
			return m.ctx.Err()

		case err := <-client.Errors():
			// Deliver whatever was read before the connection dropped.
			m.drain(client)
			return err

		case msg := <-client.Messages():
			m.onMessage(msg.Data)
		}
	}
}

// drain handles messages still buffered in client.
func (m *manager) drain(client Client) {
	for {
		select {
		case msg := <-client.Messages():
			m.onMessage(msg.Data)
		default:
			return
		}
	}
}

// detach forgets client and closes it.
func (m *manager) detach(client Client) {
	m.mu.Lock()
	if m.client == client {
		m.client = nil
	}
	m.setStateLocked(StateClosed)
	m.mu.Unlock()

	client.Close()
}

// waitReconnect blocks for the reconnect delay. It returns false if the
// manager was stopped first.
func (m *manager) waitReconnect() bool {
	timer := m.clock.NewTimer(m.cfg.ReconnectDelay)
	defer timer.Stop()

	select {
	case <-m.ctx.Done():
		return false
	case <-timer.C():
		return true
	}
}

func (m *manager) onOpen() {
	m.view.SetStatus(panel.StatusConnected)
}

func (m *manager) onClose(err error) {
	m.mu.Lock()
	m.setStateLocked(StateClosed)
	m.lastErr = err
	m.mu.Unlock()

	m.view.SetStatus(panel.StatusDisconnected)

	m.logger.Info("connection closed, reconnect scheduled",
		"error", err,
		"delay", m.cfg.ReconnectDelay,
	)
}

// onMessage handles one raw server message. Malformed messages are dropped
// without affecting the connection; unknown types are ignored silently.
func (m *manager) onMessage(data []byte) {
	msg, err := model.DecodeIncoming(data)
	if err != nil {
		m.logger.Debug("dropping malformed message", "error", err, "size", len(data))
		return
	}

	if msg.Type == model.TypeStates {
		m.applyStates(msg.States)
	}
}

// applyStates replaces the stored snapshot and mirrors it onto the view.
func (m *manager) applyStates(states model.DeviceState) {
	m.mu.Lock()
	m.states = states.Clone()
	m.mu.Unlock()

	if m.cfg.RelayCount > 0 && len(states) != m.cfg.RelayCount {
		m.logger.Warn("snapshot length mismatch",
			"got", len(states),
			"want", m.cfg.RelayCount,
		)
	}

	for i, on := range states {
		ctrl, ok := m.view.Control(i)
		if !ok {
			m.logger.Warn("no control for relay, skipping", "relay", i)
			continue
		}
		ctrl.SetActive(on)
	}

	if f, ok := m.view.(panel.Flusher); ok {
		f.Flush()
	}

	m.logger.Debug("states applied", "relays", len(states), "active", states.ActiveCount())
}

func (m *manager) setStateLocked(s State) {
	if m.state == s {
		return
	}
	m.state = s
	m.stateSince = m.clock.Now()
}
