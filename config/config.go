// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package config holds the process-wide settings of the tx-anatomy tools.
// Values come from DefaultConfig, then an optional TOML file, then the
// environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/blinklabs-io/tx-anatomy/network"
)

// Provider kinds
const (
	ProviderNone       = "none"
	ProviderBlockfrost = "blockfrost"
	ProviderNode       = "node"
	ProviderMemory     = "memory"
)

// Environment overrides
const (
	EnvMainnetProjectId = "MAINNET_PROJECT_ID"
	EnvPreprodProjectId = "PREPROD_PROJECT_ID"
	EnvPreviewProjectId = "PREVIEW_PROJECT_ID"
	EnvNodeSocket       = "TX_ANATOMY_NODE_SOCKET"
)

// projectIdEnv maps network names to the variable carrying their project ID
var projectIdEnv = map[string]string{
	network.Mainnet.Name: EnvMainnetProjectId,
	network.Preprod.Name: EnvPreprodProjectId,
	network.Preview.Name: EnvPreviewProjectId,
}

type Config struct {
	Network    string           `toml:"network"`
	Era        string           `toml:"era"`
	Provider   ProviderConfig   `toml:"provider"`
	Blockfrost BlockfrostConfig `toml:"blockfrost"`
	Node       NodeConfig       `toml:"node"`
	Resolver   ResolverConfig   `toml:"resolver"`
	Logging    LoggingConfig    `toml:"logging"`
}

type ProviderConfig struct {
	Kind string `toml:"kind"`
	// Snapshot is the JSON file served by the memory provider
	Snapshot string `toml:"snapshot"`
}

type BlockfrostConfig struct {
	// ProjectIds and BaseURLs are keyed by network name
	ProjectIds map[string]string `toml:"project_ids"`
	BaseURLs   map[string]string `toml:"base_urls"`
	Timeout    Duration          `toml:"timeout"`
}

type NodeConfig struct {
	SocketPath string `toml:"socket_path"`
}

type ResolverConfig struct {
	Concurrency int `toml:"concurrency"`
	// BlockWorkers is the number of transactions of a block decoded and
	// validated at once
	BlockWorkers int `toml:"block_workers"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Duration is a wrapper around time.Duration for TOML unmarshaling
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	*d = Duration(duration)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// DefaultConfig returns the settings used when nothing else is given
func DefaultConfig() *Config {
	return &Config{
		Network: network.Default.Name,
		Era:     "Babbage",
		Provider: ProviderConfig{
			Kind: ProviderNone,
		},
		Blockfrost: BlockfrostConfig{
			ProjectIds: map[string]string{},
			BaseURLs:   map[string]string{},
			Timeout:    Duration(10 * time.Second),
		},
		Resolver: ResolverConfig{
			Concurrency:  1,
			BlockWorkers: 2,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration from the TOML file at path, when path isn't
// empty, and the environment. The result is validated.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides values from the environment as seen through lookup.
// A project ID or node socket given this way selects the matching provider
// when none was configured.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if c.Blockfrost.ProjectIds == nil {
		c.Blockfrost.ProjectIds = map[string]string{}
	}
	for name, env := range projectIdEnv {
		if v, ok := lookup(env); ok && v != "" {
			c.Blockfrost.ProjectIds[name] = v
		}
	}
	if v, ok := lookup(EnvNodeSocket); ok && v != "" {
		c.Node.SocketPath = v
	}
	if c.Provider.Kind != "" && c.Provider.Kind != ProviderNone {
		return
	}
	switch {
	case c.Node.SocketPath != "":
		c.Provider.Kind = ProviderNode
	case len(c.Blockfrost.ProjectIds) > 0:
		c.Provider.Kind = ProviderBlockfrost
	}
}

// Validation errors
var (
	ErrUnknownNetwork          = errors.New("network must be one of: mainnet, preprod, preview, sanchonet, testnet")
	ErrInvalidProviderKind     = errors.New("provider kind must be one of: none, blockfrost, node, memory")
	ErrEmptySnapshot           = errors.New("provider snapshot cannot be empty for the memory provider")
	ErrEmptySocketPath         = errors.New("node socket_path cannot be empty for the node provider")
	ErrNoProjectIds            = errors.New("blockfrost needs at least one project ID")
	ErrInvalidTimeout          = errors.New("blockfrost timeout must be positive")
	ErrInvalidConcurrency      = errors.New("resolver concurrency must be positive")
	ErrInvalidBlockWorkers     = errors.New("resolver block_workers must be positive")
	ErrInvalidLogLevel         = errors.New("log level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat        = errors.New("log format must be 'text' or 'json'")
	ErrUnknownProjectIdNetwork = errors.New("blockfrost project ID given for an unknown network")
)

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if _, ok := network.Lookup(c.Network); !ok {
		return fmt.Errorf("config: %w", ErrUnknownNetwork)
	}
	if err := c.validateProvider(); err != nil {
		return fmt.Errorf("provider config: %w", err)
	}
	if c.Resolver.Concurrency <= 0 {
		return fmt.Errorf("resolver config: %w", ErrInvalidConcurrency)
	}
	if c.Resolver.BlockWorkers <= 0 {
		return fmt.Errorf("resolver config: %w", ErrInvalidBlockWorkers)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}
	return nil
}

func (c *Config) validateProvider() error {
	switch c.Provider.Kind {
	case ProviderNone:
	case ProviderMemory:
		if c.Provider.Snapshot == "" {
			return ErrEmptySnapshot
		}
	case ProviderNode:
		if c.Node.SocketPath == "" {
			return ErrEmptySocketPath
		}
	case ProviderBlockfrost:
		if len(c.Blockfrost.ProjectIds) == 0 {
			return ErrNoProjectIds
		}
		for name := range c.Blockfrost.ProjectIds {
			if _, ok := network.Lookup(name); !ok {
				return fmt.Errorf("%w: %s", ErrUnknownProjectIdNetwork, name)
			}
		}
		if c.Blockfrost.Timeout <= 0 {
			return ErrInvalidTimeout
		}
	default:
		return ErrInvalidProviderKind
	}
	return nil
}

func (c *LoggingConfig) Validate() error {
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	switch c.Format {
	case "text", "json":
	default:
		return ErrInvalidLogFormat
	}
	return nil
}

// SlogLevel maps the configured level name to a slog level
func (c *LoggingConfig) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, ErrInvalidLogLevel
}
