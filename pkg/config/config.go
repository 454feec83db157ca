package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
)

const (
	defaultPointsToWin      = 5
	defaultLivenessInterval = 30 * time.Second
	defaultMaxMessageSize   = 64 * 1024
	defaultSendQueueSize    = 64
	defaultBufferSize       = 40960
	defaultMaxPlayers       = 64
	defaultServerName       = "simple-relay-server-go"
	defaultGameType         = "duel"
	defaultQueryType        = "sqp"
)

var (
	ErrInvalidPointsToWin      = errors.New("field PointsToWin must not be negative")
	ErrInvalidLivenessInterval = errors.New("field LivenessInterval must not be negative")
	ErrInvalidMaxMessageSize   = errors.New("field MaxMessageSize must not be negative")
	ErrUnsupportedQueryType    = errors.New("field QueryType must be one of sqp, a2s")
)

type (
	// Config represents the relay server configuration.
	Config struct {
		// PointsToWin is reported to clients in every score-state message.
		// It does not gate any server-side logic.
		PointsToWin int `env:"RELAY_POINTS_TO_WIN"`

		// LivenessInterval is the period between two liveness sweeps, e.g. "30s".
		LivenessInterval Duration `env:"RELAY_LIVENESS_INTERVAL"`

		// MaxMessageSize is the largest inbound frame accepted from a client, in bytes.
		MaxMessageSize int64 `env:"RELAY_MAX_MESSAGE_SIZE"`

		// SendQueueSize is the number of outbound messages buffered per connection
		// before sends to it start being dropped.
		SendQueueSize int `env:"RELAY_SEND_QUEUE_SIZE"`

		// ReadBuffer is the size of the UDP query connection read buffer
		ReadBuffer int

		// WriteBuffer is the size of the UDP query connection write buffer
		WriteBuffer int

		// MaxPlayers is the value to report for max players on the query port.
		MaxPlayers uint32

		// ServerName is the value to report for the server name.
		ServerName string

		// GameType is the value to report for gametype.
		GameType string

		// QueryType determines the protocol used for query responses
		QueryType string `env:"RELAY_QUERY_TYPE"`

		// SDKDaemonURL is the host:port of the hosting SDK daemon. Hosting
		// lifecycle events are ignored when empty.
		SDKDaemonURL string `env:"RELAY_SDK_DAEMON_URL"`

		// ServerID identifies this server to the SDK daemon.
		ServerID int64 `env:"RELAY_SERVER_ID"`
	}

	// Duration is a time.Duration which is read from its string form, e.g. "1m30s".
	Duration time.Duration
)

// NewConfigFromFile loads configuration from the specified file, applies
// environment overrides and defaults, and validates its contents.
func NewConfigFromFile(configFile string) (*Config, error) {
	var cfg *Config

	f, err := os.Open(configFile)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}

	defer f.Close()

	if err = json.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding json: %w", err)
	}

	if cfg == nil {
		cfg = &Config{}
	}

	return cfg, cfg.finish()
}

// NewDefaultConfig returns a configuration built only from environment
// overrides and defaults.
func NewDefaultConfig() (*Config, error) {
	cfg := &Config{}

	return cfg, cfg.finish()
}

// Interval returns the liveness interval as a time.Duration.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.LivenessInterval)
}

func (c *Config) finish() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("error parsing environment: %w", err)
	}

	c.applyDefaults()

	return c.validate()
}

func (c *Config) applyDefaults() {
	if c.PointsToWin == 0 {
		c.PointsToWin = defaultPointsToWin
	}

	if c.LivenessInterval == 0 {
		c.LivenessInterval = Duration(defaultLivenessInterval)
	}

	if c.MaxMessageSize == 0 {
		c.MaxMessageSize = defaultMaxMessageSize
	}

	if c.SendQueueSize <= 0 {
		c.SendQueueSize = defaultSendQueueSize
	}

	if c.ReadBuffer == 0 {
		c.ReadBuffer = defaultBufferSize
	}

	if c.WriteBuffer == 0 {
		c.WriteBuffer = defaultBufferSize
	}

	if c.MaxPlayers == 0 {
		c.MaxPlayers = defaultMaxPlayers
	}

	if c.ServerName == "" {
		c.ServerName = defaultServerName
	}

	if c.GameType == "" {
		c.GameType = defaultGameType
	}

	if c.QueryType == "" {
		c.QueryType = defaultQueryType
	}
}

func (c *Config) validate() error {
	switch {
	case c.PointsToWin < 0:
		return ErrInvalidPointsToWin
	case c.LivenessInterval < 0:
		return ErrInvalidLivenessInterval
	case c.MaxMessageSize < 0:
		return ErrInvalidMaxMessageSize
	case c.QueryType != "sqp" && c.QueryType != "a2s":
		return ErrUnsupportedQueryType
	}

	return nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(b), err)
	}

	*d = Duration(v)

	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}
