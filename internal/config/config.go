package config

import "time"

// PanelConfig is the root configuration for the relay panel client.
type PanelConfig struct {
	Server     ServerConfig     `yaml:"server"`
	Connection ConnectionConfig `yaml:"connection"`
	Relays     []RelayConfig    `yaml:"relays"`
	Panel      DisplayConfig    `yaml:"panel"`
	Control    ControlConfig    `yaml:"control"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig locates the relay controller. The endpoint is always
// ws://<host>/ws; Host may include a port.
type ServerConfig struct {
	Host string `yaml:"host"`
}

// ConnectionConfig holds WebSocket supervision settings.
type ConnectionConfig struct {
	ReconnectDelay   time.Duration `yaml:"reconnect_delay"`
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	PingInterval     time.Duration `yaml:"ping_interval"` // 0 = default, negative = disabled
	PingTimeout      time.Duration `yaml:"ping_timeout"`
	BufferSize       int           `yaml:"buffer_size"`
}

// RelayConfig describes one relay control. Order defines the relay index.
type RelayConfig struct {
	Label string `yaml:"label"`
}

// DisplayConfig holds terminal rendering settings.
type DisplayConfig struct {
	Color   bool `yaml:"color"`
	Console bool `yaml:"console"` // read commands from stdin
}

// ControlConfig holds the local HTTP control surface settings.
type ControlConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Addr        string  `yaml:"addr"`
	ToggleRate  float64 `yaml:"toggle_rate"` // toggles per second
	ToggleBurst int     `yaml:"toggle_burst"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`  // DEBUG, INFO, WARN, ERROR
	Format     string `yaml:"format"` // text or json
	Output     string `yaml:"output"` // stderr, stdout, or none
	File       string `yaml:"file"`   // optional rotated log file
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Labels returns the relay labels in index order.
func (c *PanelConfig) Labels() []string {
	labels := make([]string, len(c.Relays))
	for i, r := range c.Relays {
		labels[i] = r.Label
	}
	return labels
}
