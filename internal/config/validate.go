package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// Validate checks that all required fields are set and values are valid.
func (c *PanelConfig) Validate() error {
	if c.Server.Host == "" {
		return errors.New("server.host is required")
	}
	if strings.Contains(c.Server.Host, "/") {
		return fmt.Errorf("server.host must be a host or host:port, got %q", c.Server.Host)
	}

	if c.Connection.ReconnectDelay <= 0 {
		return errors.New("connection.reconnect_delay must be > 0")
	}
	if c.Connection.HandshakeTimeout <= 0 {
		return errors.New("connection.handshake_timeout must be > 0")
	}
	if c.Connection.WriteTimeout <= 0 {
		return errors.New("connection.write_timeout must be > 0")
	}
	if c.Connection.PingInterval > 0 && c.Connection.PingTimeout < c.Connection.PingInterval {
		return fmt.Errorf("connection.ping_timeout (%s) must be >= ping_interval (%s)",
			c.Connection.PingTimeout, c.Connection.PingInterval)
	}
	if c.Connection.BufferSize < 1 {
		return errors.New("connection.buffer_size must be >= 1")
	}

	if len(c.Relays) == 0 {
		return errors.New("relays must list at least one relay")
	}

	if c.Control.Enabled {
		if _, _, err := net.SplitHostPort(c.Control.Addr); err != nil {
			return fmt.Errorf("control.addr: %w", err)
		}
		if c.Control.ToggleRate <= 0 {
			return errors.New("control.toggle_rate must be > 0")
		}
		if c.Control.ToggleBurst < 1 {
			return errors.New("control.toggle_burst must be >= 1")
		}
	}

	switch strings.ToUpper(c.Logging.Level) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		return fmt.Errorf("logging.level must be DEBUG, INFO, WARN or ERROR, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Output {
	case "stderr", "stdout", "none":
	default:
		return fmt.Errorf("logging.output must be stderr, stdout or none, got %q", c.Logging.Output)
	}

	return nil
}
