// Package config handles configuration loading and saving.
package config

import (
	"strings"
	"time"
)

const (
	configFileName = "config.yaml"
	configDirName  = ".higenie"

	// ConfigDirEnv overrides the config directory when set.
	ConfigDirEnv = "HIGENIE_CONFIG_DIR"
)

var configDirOverride string

// SetConfigDir overrides the config directory for the current process.
// Empty value clears the override.
func SetConfigDir(dir string) {
	configDirOverride = strings.TrimSpace(dir)
}

// Config is the root configuration structure.
type Config struct {
	Bridge  BridgeConfig  `json:"bridge" yaml:"bridge"`
	UI      UIConfig      `json:"ui" yaml:"ui"`
	Greeter GreeterConfig `json:"greeter,omitempty" yaml:"greeter,omitempty"`
	Logging LoggingConfig `json:"logging,omitempty" yaml:"logging,omitempty"`
}

// BridgeConfig selects how the form reaches its command handlers.
type BridgeConfig struct {
	Transport string `json:"transport" yaml:"transport"`                 // local, socket, ws
	Socket    string `json:"socket,omitempty" yaml:"socket,omitempty"`   // unix socket path
	WebAddr   string `json:"webAddr,omitempty" yaml:"webAddr,omitempty"` // websocket listen/dial address
	Timeout   int    `json:"timeout,omitempty" yaml:"timeout,omitempty"` // seconds, 0 = no timeout
}

// UIConfig contains presentation settings for the form.
type UIConfig struct {
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Prompt      string `json:"prompt,omitempty" yaml:"prompt,omitempty"`
	Placeholder string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Info        string `json:"info,omitempty" yaml:"info,omitempty"`         // markdown shown in the "More info" panel
	Ordering    string `json:"ordering,omitempty" yaml:"ordering,omitempty"` // latest-issued, last-resolved
}

// GreeterConfig tunes the built-in greet handler.
type GreeterConfig struct {
	DelayMs int `json:"delayMs,omitempty" yaml:"delayMs,omitempty"` // artificial handler latency
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Enabled    *bool  `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Level      string `json:"level,omitempty" yaml:"level,omitempty"`   // debug, info, warn, error
	Stdout     bool   `json:"stdout,omitempty" yaml:"stdout,omitempty"` // log to stdout
	File       string `json:"file,omitempty" yaml:"file,omitempty"`     // log file path
	MaxSizeMB  int    `json:"maxSizeMB,omitempty" yaml:"maxSizeMB,omitempty"`
	MaxBackups int    `json:"maxBackups,omitempty" yaml:"maxBackups,omitempty"`
	MaxAgeDays int    `json:"maxAgeDays,omitempty" yaml:"maxAgeDays,omitempty"`
	Compress   bool   `json:"compress,omitempty" yaml:"compress,omitempty"`
}

// BridgeTimeout returns the per-call timeout, zero when calls never time out.
func (c *Config) BridgeTimeout() time.Duration {
	if c.Bridge.Timeout <= 0 {
		return 0
	}
	return time.Duration(c.Bridge.Timeout) * time.Second
}

// GreeterDelay returns the artificial greet latency.
func (c *Config) GreeterDelay() time.Duration {
	if c.Greeter.DelayMs <= 0 {
		return 0
	}
	return time.Duration(c.Greeter.DelayMs) * time.Millisecond
}
