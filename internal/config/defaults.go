package config

import (
	"time"

	"github.com/rickgao/relay-panel/internal/panel"
)

// Default values for optional configuration fields.
const (
	DefaultHost             = "192.168.4.1"
	DefaultRelayCount       = 4
	DefaultReconnectDelay   = 2 * time.Second
	DefaultHandshakeTimeout = 10 * time.Second
	DefaultWriteTimeout     = 5 * time.Second
	DefaultPingInterval     = 30 * time.Second
	DefaultPingTimeout      = 90 * time.Second
	DefaultBufferSize       = 64
	DefaultControlAddr      = "127.0.0.1:8080"
	DefaultToggleRate       = 5.0
	DefaultToggleBurst      = 5
	DefaultLogLevel         = "INFO"
	DefaultLogFormat        = "text"
	DefaultLogOutput        = "stderr"
	DefaultLogMaxSizeMB     = 10
	DefaultLogMaxBackups    = 3
	DefaultLogMaxAgeDays    = 28
)

func (c *PanelConfig) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}

	// Connection defaults
	if c.Connection.ReconnectDelay == 0 {
		c.Connection.ReconnectDelay = DefaultReconnectDelay
	}
	if c.Connection.HandshakeTimeout == 0 {
		c.Connection.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if c.Connection.WriteTimeout == 0 {
		c.Connection.WriteTimeout = DefaultWriteTimeout
	}
	if c.Connection.PingInterval == 0 {
		c.Connection.PingInterval = DefaultPingInterval
	}
	if c.Connection.PingTimeout == 0 {
		c.Connection.PingTimeout = DefaultPingTimeout
	}
	if c.Connection.BufferSize == 0 {
		c.Connection.BufferSize = DefaultBufferSize
	}

	// Relay defaults: the four-relay board, and a label for any unnamed relay
	if len(c.Relays) == 0 {
		c.Relays = make([]RelayConfig, DefaultRelayCount)
	}
	for i := range c.Relays {
		if c.Relays[i].Label == "" {
			c.Relays[i].Label = panel.DefaultLabel(i)
		}
	}

	// Control surface defaults
	if c.Control.Addr == "" {
		c.Control.Addr = DefaultControlAddr
	}
	if c.Control.ToggleRate == 0 {
		c.Control.ToggleRate = DefaultToggleRate
	}
	if c.Control.ToggleBurst == 0 {
		c.Control.ToggleBurst = DefaultToggleBurst
	}

	// Logging defaults
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
	if c.Logging.Output == "" {
		c.Logging.Output = DefaultLogOutput
	}
	if c.Logging.MaxSizeMB == 0 {
		c.Logging.MaxSizeMB = DefaultLogMaxSizeMB
	}
	if c.Logging.MaxBackups == 0 {
		c.Logging.MaxBackups = DefaultLogMaxBackups
	}
	if c.Logging.MaxAgeDays == 0 {
		c.Logging.MaxAgeDays = DefaultLogMaxAgeDays
	}
}
