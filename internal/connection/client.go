package connection

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rickgao/relay-panel/internal/version"
)

// Client represents a single WebSocket connection to the relay controller.
type Client interface {
	// Connect establishes the WebSocket connection.
	Connect(ctx context.Context) error

	// Close gracefully closes the connection.
	Close() error

	// Send writes one text frame to the connection.
	Send(data []byte) error

	// Messages returns a channel of raw messages.
	// Each message includes a local timestamp for when it was received.
	Messages() <-chan TimestampedMessage

	// Errors returns a channel carrying the error that ended the connection.
	Errors() <-chan error

	// IsConnected returns current connection state.
	IsConnected() bool
}

// ClientFactory builds a fresh Client for each connection attempt.
type ClientFactory func(cfg ClientConfig, logger *slog.Logger) Client

// maxMessageSize bounds a single server frame. Snapshots are a few bytes
// per relay.
const maxMessageSize = 64 << 10

// client implements the Client interface.
type client struct {
	cfg    ClientConfig
	logger *slog.Logger

	messages chan TimestampedMessage
	errors   chan error
	done     chan struct{}

	writeMu sync.Mutex // one data writer at a time

	mu        sync.RWMutex
	conn      *websocket.Conn
	connected bool
	closed    bool
}

// NewClient creates a new WebSocket client.
func NewClient(cfg ClientConfig, logger *slog.Logger) Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BufferSize < 1 {
		cfg.BufferSize = 1
	}

	return &client{
		cfg:      cfg,
		logger:   logger,
		messages: make(chan TimestampedMessage, cfg.BufferSize),
		errors:   make(chan error, 1),
		done:     make(chan struct{}),
	}
}

// Connect dials the controller and starts the reader, plus the pinger when
// the heartbeat is enabled.
func (c *client) Connect(ctx context.Context) error {
	c.mu.RLock()
	closed := c.closed
	c.mu.RUnlock()
	if closed {
		return ErrAlreadyClosed
	}

	header := http.Header{}
	header.Set("Accept", "application/json")
	header.Set("User-Agent", version.UserAgent())

	dialer := websocket.Dialer{HandshakeTimeout: c.cfg.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, c.cfg.URL, header)
	if err != nil {
		return err
	}
	conn.SetReadLimit(maxMessageSize)

	if c.heartbeat() {
		c.touch(conn)
		conn.SetPongHandler(func(string) error {
			c.touch(conn)
			return nil
		})
		conn.SetPingHandler(func(data string) error {
			c.touch(conn)
			err := conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(time.Second))
			if errors.Is(err, websocket.ErrCloseSent) {
				return nil
			}
			return err
		})
	}

	c.mu.Lock()
	if c.closed {
		// Close raced with the dial.
		c.mu.Unlock()
		conn.Close()
		return ErrAlreadyClosed
	}
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	go c.readLoop(conn)
	if c.heartbeat() {
		go c.pingLoop(conn)
	}

	c.logger.Debug("websocket connected", "url", c.cfg.URL, "heartbeat", c.heartbeat())
	return nil
}

// Close sends a normal close frame and tears the connection down.
func (c *client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.connected = false
	conn := c.conn
	c.mu.Unlock()

	close(c.done)

	if conn == nil {
		return nil
	}
	// WriteControl may run concurrently with Send.
	conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	return conn.Close()
}

// Send writes one text frame to the connection.
func (c *client) Send(data []byte) error {
	c.mu.RLock()
	conn, connected := c.conn, c.connected
	c.mu.RUnlock()
	if !connected {
		return ErrNotConnected
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	return conn.WriteMessage(websocket.TextMessage, data)
}

// Messages returns the messages channel.
func (c *client) Messages() <-chan TimestampedMessage {
	return c.messages
}

// Errors returns the errors channel.
func (c *client) Errors() <-chan error {
	return c.errors
}

// IsConnected returns the current connection state.
func (c *client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

func (c *client) heartbeat() bool {
	return c.cfg.PingInterval > 0 && c.cfg.PingTimeout > 0
}

// touch pushes the read deadline out by PingTimeout. Any frame from the
// server counts as liveness; only called from the reading goroutine or
// before it starts.
func (c *client) touch(conn *websocket.Conn) {
	if c.heartbeat() {
		conn.SetReadDeadline(time.Now().Add(c.cfg.PingTimeout))
	}
}

// readLoop forwards text frames until the connection fails or is closed.
func (c *client) readLoop(conn *websocket.Conn) {
	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			c.readFailed(err)
			return
		}
		c.touch(conn)

		if kind != websocket.TextMessage {
			c.logger.Debug("ignoring non-text frame", "kind", kind, "size", len(data))
			continue
		}
		c.publish(TimestampedMessage{Data: data, ReceivedAt: time.Now()})
	}
}

// readFailed classifies a read error and publishes it unless the client was
// closed locally.
func (c *client) readFailed(err error) {
	select {
	case <-c.done:
		return
	default:
	}

	var netErr net.Error
	switch {
	case errors.As(err, &netErr) && netErr.Timeout():
		c.logger.Warn("no traffic from server, connection stale", "timeout", c.cfg.PingTimeout)
		err = ErrStaleConnection
	case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
		c.logger.Info("server closed connection", "error", err)
	default:
		c.logger.Debug("read failed", "error", err)
	}
	c.fail(err)
}

// publish queues msg for the manager. A full buffer sheds its oldest entry
// because every snapshot supersedes the ones before it.
func (c *client) publish(msg TimestampedMessage) {
	for {
		select {
		case c.messages <- msg:
			return
		case <-c.done:
			return
		default:
		}

		select {
		case old := <-c.messages:
			c.logger.Warn("message buffer full, dropping oldest", "received_at", old.ReceivedAt)
		default:
		}
	}
}

// pingLoop sends keepalive pings. Staleness itself is detected by the read
// deadline in readLoop.
func (c *client) pingLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.cfg.WriteTimeout))
			if err != nil {
				c.logger.Debug("ping failed", "error", err)
			}
		}
	}
}

// fail marks the client down and publishes the first error that ended it.
func (c *client) fail(err error) {
	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()

	select {
	case c.errors <- err:
	default:
	}
}
