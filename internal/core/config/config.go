package config

import (
	"time"

	redisclient "github.com/vietddude/nodewatch/internal/infra/redis"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Node      NodeConfig         `yaml:"node"      toml:"node"`
	Poll      PollConfig         `yaml:"poll"      toml:"poll"`
	Server    ServerConfig       `yaml:"server"    toml:"server"`
	Redis     redisclient.Config `yaml:"redis"     toml:"redis"`
	Logging   LoggingConfig      `yaml:"logging"   toml:"logging"`
	Chainspec ChainspecConfig    `yaml:"chainspec" toml:"chainspec"`
}

// NodeConfig holds the endpoints of the monitored chain client.
type NodeConfig struct {
	Name      string        `yaml:"name"       toml:"name"`
	RPCURL    string        `yaml:"rpc_url"    toml:"rpc_url"`
	HealthURL string        `yaml:"health_url" toml:"health_url"` // default <rpc_url>/health
	Timeout   time.Duration `yaml:"timeout"    toml:"timeout"`
}

// PollConfig holds loop intervals.
type PollConfig struct {
	Interval     time.Duration `yaml:"interval"      toml:"interval"`
	ScanInterval time.Duration `yaml:"scan_interval" toml:"scan_interval"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port" toml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level" toml:"level"` // debug, info, warn, error
}

// ChainspecConfig locates the files edited by set-genesis.
type ChainspecConfig struct {
	SpecPath  string `yaml:"spec_path"  toml:"spec_path"`
	EnvPath   string `yaml:"env_path"   toml:"env_path"`
	SignerKey string `yaml:"signer_key" toml:"signer_key"`
}
