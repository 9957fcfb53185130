package config

import (
	"fmt"
	"time"
)

// Probe modes.
const (
	ProbeHTTP = "http"
	ProbeGRPC = "grpc"
)

// Config holds runtime settings for the Relief client.
//
// Fields:
//   - StorageDriver / StorageDSN: durable store ("sqlite" file or "postgres" DSN).
//   - ProbeMode / ProbeURL / ProbeTarget: how connectivity is checked.
//   - OnlineCheckInterval: how often connectivity is probed.
//   - Offline: start with a manual offline signal and never probe.
//   - Language: initial UI language; empty means detect from the environment.
//   - AuthLatency / UpdateLatency: simulated round-trip of account calls.
//   - ResetTokenTTL / ResetTokenSecret: password-reset tickets.
//   - EmailJS*, Gemini*, S3*: outbound integrations, disabled when unset.
type Config struct {
	StorageDriver string
	StorageDSN    string

	ProbeMode           string
	ProbeURL            string
	ProbeTarget         string
	OnlineCheckInterval time.Duration
	Offline             bool

	Language string
	LogLevel string

	AuthLatency      time.Duration
	UpdateLatency    time.Duration
	ResetTokenTTL    time.Duration
	ResetTokenSecret string

	EmailJSEndpoint   string
	EmailJSServiceID  string
	EmailJSTemplateID string
	EmailJSPublicKey  string
	EmailJSPrivateKey string

	GeminiBaseURL string
	GeminiModel   string
	GeminiAPIKey  string

	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.StorageDriver = "sqlite"
	c.StorageDSN = "relief.db"
	c.ProbeMode = ProbeHTTP
	c.ProbeURL = "https://clients3.google.com/generate_204"
	c.OnlineCheckInterval = 3 * time.Second
	c.LogLevel = "info"
	c.AuthLatency = time.Second
	c.UpdateLatency = 500 * time.Millisecond
	c.ResetTokenTTL = 15 * time.Minute
	c.GeminiModel = "gemini-2.5-flash"
	c.S3Region = "us-east-1"
}

// Validate rejects settings the client cannot start with.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported storage driver %q", c.StorageDriver)
	}
	if c.StorageDSN == "" {
		return fmt.Errorf("storage dsn is empty")
	}
	switch c.ProbeMode {
	case ProbeHTTP, ProbeGRPC:
	default:
		return fmt.Errorf("unsupported probe mode %q", c.ProbeMode)
	}
	if c.ProbeMode == ProbeGRPC && !c.Offline && c.ProbeTarget == "" {
		return fmt.Errorf("grpc connectivity check requires a target")
	}
	if c.OnlineCheckInterval <= 0 {
		return fmt.Errorf("online check interval must be positive")
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags from args. Later sources take
// precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
