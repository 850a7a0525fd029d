package connection

import (
	"errors"
	"time"
)

// Errors
var (
	ErrNotConnected    = errors.New("not connected")
	ErrStaleConnection = errors.New("connection stale (no traffic)")
	ErrAlreadyClosed   = errors.New("already closed")
	ErrAlreadyStarted  = errors.New("manager already started")
)

// TimestampedMessage wraps raw message data with receive timestamp.
type TimestampedMessage struct {
	Data       []byte    // Raw message bytes from WebSocket
	ReceivedAt time.Time // Local timestamp when ReadMessage() returned
}

// ClientConfig configures a WebSocket client.
type ClientConfig struct {
	URL              string        // WebSocket URL (e.g., ws://192.168.1.50/ws)
	HandshakeTimeout time.Duration // Dial + upgrade deadline
	PingInterval     time.Duration // Keepalive ping period (0 = no heartbeat)
	PingTimeout      time.Duration // Max silence (any frame, ping or pong) before the connection is stale
	WriteTimeout     time.Duration // Write deadline for sends
	BufferSize       int           // Message channel buffer size
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		HandshakeTimeout: 10 * time.Second,
		PingInterval:     30 * time.Second,
		PingTimeout:      90 * time.Second,
		WriteTimeout:     5 * time.Second,
		BufferSize:       64, // snapshots are tiny and infrequent
	}
}

// ManagerConfig configures the Connection Manager.
type ManagerConfig struct {
	URL            string        // Controller endpoint, see model.EndpointURL
	ReconnectDelay time.Duration // Fixed wait between a close and the next attempt
	RelayCount     int           // Expected snapshot length (0 = don't check)
	Client         ClientConfig  // URL is filled from the manager's URL
}

// DefaultManagerConfig returns sensible defaults.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		ReconnectDelay: 2 * time.Second,
		RelayCount:     4,
		Client:         DefaultClientConfig(),
	}
}

// State is the connection lifecycle state.
type State int32

const (
	StateConnecting State = iota
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// ManagerStats provides statistics about the connection manager.
type ManagerStats struct {
	SessionID       string    `json:"session_id"`
	State           string    `json:"state"`
	ConnectAttempts int       `json:"connect_attempts"`
	Opens           int       `json:"opens"`
	LastError       string    `json:"last_error,omitempty"`
	StateSince      time.Time `json:"state_since"`
}
