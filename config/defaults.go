package config

import "strings"

const (
	TransportLocal  = "local"
	TransportSocket = "socket"
	TransportWS     = "ws"

	OrderingLatestIssued = "latest-issued"
	OrderingLastResolved = "last-resolved"

	defaultTransport   = TransportLocal
	defaultSocket      = "/tmp/higenie-bridge.sock"
	defaultWebAddr     = "127.0.0.1:8080"
	defaultTitle       = "Hi Genie!"
	defaultPrompt      = "name> "
	defaultPlaceholder = "Enter a name..."
	defaultOrdering    = OrderingLatestIssued
	defaultInfo        = "Some more info…\n\nType a name and press **enter** to get greeted."
)

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Bridge: BridgeConfig{
			Transport: defaultTransport,
			Socket:    defaultSocket,
			WebAddr:   defaultWebAddr,
		},
		UI: UIConfig{
			Title:       defaultTitle,
			Prompt:      defaultPrompt,
			Placeholder: defaultPlaceholder,
			Info:        defaultInfo,
			Ordering:    defaultOrdering,
		},
		Logging: defaultLoggingConfig(),
	}
}

func defaultLoggingConfig() LoggingConfig {
	enabled := true
	return LoggingConfig{
		Enabled:    &enabled,
		Level:      "info",
		Stdout:     true,
		File:       "logs/higenie.log",
		MaxSizeMB:  10,
		MaxBackups: 5,
		MaxAgeDays: 30,
	}
}

func (c *Config) applyDefaults() {
	c.Bridge.Transport = strings.ToLower(strings.TrimSpace(c.Bridge.Transport))
	switch c.Bridge.Transport {
	case TransportLocal, TransportSocket, TransportWS:
	default:
		c.Bridge.Transport = defaultTransport
	}
	if c.Bridge.Socket == "" {
		c.Bridge.Socket = defaultSocket
	}
	if c.Bridge.WebAddr == "" {
		c.Bridge.WebAddr = defaultWebAddr
	}
	if c.Bridge.Timeout < 0 {
		c.Bridge.Timeout = 0
	}

	if c.UI.Title == "" {
		c.UI.Title = defaultTitle
	}
	if c.UI.Prompt == "" {
		c.UI.Prompt = defaultPrompt
	}
	if c.UI.Placeholder == "" {
		c.UI.Placeholder = defaultPlaceholder
	}
	if c.UI.Info == "" {
		c.UI.Info = defaultInfo
	}
	switch c.UI.Ordering {
	case OrderingLatestIssued, OrderingLastResolved:
	default:
		c.UI.Ordering = defaultOrdering
	}

	if c.Greeter.DelayMs < 0 {
		c.Greeter.DelayMs = 0
	}

	def := defaultLoggingConfig()
	if c.Logging == (LoggingConfig{}) {
		c.Logging = def
		return
	}

	hasAny := c.Logging.Level != "" || c.Logging.File != "" || c.Logging.Stdout
	if c.Logging.Enabled == nil && hasAny {
		enabled := true
		c.Logging.Enabled = &enabled
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Level
	}
	if c.Logging.File == "" {
		c.Logging.File = def.File
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = def.MaxSizeMB
	}
	if c.Logging.MaxBackups <= 0 {
		c.Logging.MaxBackups = def.MaxBackups
	}
	if c.Logging.MaxAgeDays <= 0 {
		c.Logging.MaxAgeDays = def.MaxAgeDays
	}
	if c.Logging.Enabled == nil {
		c.Logging.Enabled = def.Enabled
	}
}
