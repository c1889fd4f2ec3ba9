package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v2"
)

// Environment overrides applied after the file is parsed.
const (
	EnvRPCURL    = "NODEWATCH_RPC_URL"
	EnvHealthURL = "NODEWATCH_HEALTH_URL"
)

// Defaults.
const (
	DefaultNodeName     = "local"
	DefaultRPCURL       = "http://localhost:8545"
	DefaultTimeout      = 10 * time.Second
	DefaultInterval     = 10 * time.Second
	DefaultScanInterval = 10 * time.Second
	DefaultPort         = 9100
	DefaultSpecPath     = "discovery-provider/chain/spec.json"
	DefaultEnvPath      = "discovery-provider/override.env"
	DefaultSignerKey    = "audius_delegate_owner_wallet"
)

// Load reads configuration from a YAML or TOML file. A missing file is not an
// error; defaults and environment overrides still apply.
func Load(path string) (*AppConfig, error) {
	var cfg AppConfig

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		// Expand environment variables in the file content
		expanded := os.ExpandEnv(string(data))
		if strings.EqualFold(filepath.Ext(path), ".toml") {
			if _, err := toml.Decode(expanded, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		} else if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if v := os.Getenv(EnvRPCURL); v != "" {
		cfg.Node.RPCURL = v
	}
	if v := os.Getenv(EnvHealthURL); v != "" {
		cfg.Node.HealthURL = v
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Node.Name == "" {
		cfg.Node.Name = DefaultNodeName
	}
	if cfg.Node.RPCURL == "" {
		cfg.Node.RPCURL = DefaultRPCURL
	}
	if cfg.Node.HealthURL == "" {
		cfg.Node.HealthURL = strings.TrimRight(cfg.Node.RPCURL, "/") + "/health"
	}
	if cfg.Node.Timeout == 0 {
		cfg.Node.Timeout = DefaultTimeout
	}
	if cfg.Poll.Interval == 0 {
		cfg.Poll.Interval = DefaultInterval
	}
	if cfg.Poll.ScanInterval == 0 {
		cfg.Poll.ScanInterval = DefaultScanInterval
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Chainspec.SpecPath == "" {
		cfg.Chainspec.SpecPath = DefaultSpecPath
	}
	if cfg.Chainspec.EnvPath == "" {
		cfg.Chainspec.EnvPath = DefaultEnvPath
	}
	if cfg.Chainspec.SignerKey == "" {
		cfg.Chainspec.SignerKey = DefaultSignerKey
	}
}

// Validate checks the configuration after defaults are applied.
func (c *AppConfig) Validate() error {
	if err := validateURL("node.rpc_url", c.Node.RPCURL); err != nil {
		return err
	}
	if err := validateURL("node.health_url", c.Node.HealthURL); err != nil {
		return err
	}
	if c.Node.Timeout < 0 {
		return fmt.Errorf("node.timeout must be positive, got %s", c.Node.Timeout)
	}
	if c.Poll.Interval < 0 || c.Poll.ScanInterval < 0 {
		return fmt.Errorf("poll intervals must be positive")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	return nil
}

func validateURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s: unsupported scheme %q", field, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%s: missing host", field)
	}
	return nil
}
