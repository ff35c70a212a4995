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


package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/tx-anatomy/config"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	require.NotNil(t, cfg)
	assert.Equal(t, "mainnet", cfg.Network)
	assert.Equal(t, "Babbage", cfg.Era)
	assert.Equal(t, config.ProviderNone, cfg.Provider.Kind)
	assert.Equal(t, 10*time.Second, cfg.Blockfrost.Timeout.Duration())
	assert.Equal(t, 1, cfg.Resolver.Concurrency)
	assert.Equal(t, 2, cfg.Resolver.BlockWorkers)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Setenv(config.EnvMainnetProjectId, "")
	t.Setenv(config.EnvPreprodProjectId, "")
	t.Setenv(config.EnvPreviewProjectId, "")
	t.Setenv(config.EnvNodeSocket, "")
	path := writeConfig(t, `
network = "preview"

[provider]
kind = "blockfrost"

[blockfrost]
timeout = "3s"

[blockfrost.project_ids]
preview = "previewabc"

[resolver]
concurrency = 4
block_workers = 8

[logging]
level = "debug"
format = "json"
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "preview", cfg.Network)
	assert.Equal(t, config.ProviderBlockfrost, cfg.Provider.Kind)
	assert.Equal(t, "previewabc", cfg.Blockfrost.ProjectIds["preview"])
	assert.Equal(t, 3*time.Second, cfg.Blockfrost.Timeout.Duration())
	assert.Equal(t, 4, cfg.Resolver.Concurrency)
	assert.Equal(t, 8, cfg.Resolver.BlockWorkers)
	level, err := cfg.Logging.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
	// untouched defaults survive
	assert.Equal(t, "Babbage", cfg.Era)
}

func TestLoadErrors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	_, err = config.Load(writeConfig(t, "network = [\n"))
	require.Error(t, err)
	_, err = config.Load(writeConfig(t, `network = "atlantis"`))
	require.ErrorIs(t, err, config.ErrUnknownNetwork)
	_, err = config.Load(writeConfig(t, "[blockfrost]\ntimeout = \"soon\"\n"))
	require.Error(t, err)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv(config.EnvMainnetProjectId, "mainnetabc")
	t.Setenv(config.EnvPreprodProjectId, "")
	t.Setenv(config.EnvPreviewProjectId, "")
	t.Setenv(config.EnvNodeSocket, "")
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.ProviderBlockfrost, cfg.Provider.Kind)
	assert.Equal(t, "mainnetabc", cfg.Blockfrost.ProjectIds["mainnet"])
}

func TestApplyEnv(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ApplyEnv(envMap(map[string]string{
		config.EnvPreprodProjectId: "preprodabc",
		config.EnvNodeSocket:       "/run/node.socket",
	}))
	assert.Equal(t, "preprodabc", cfg.Blockfrost.ProjectIds["preprod"])
	assert.Equal(t, "/run/node.socket", cfg.Node.SocketPath)
	// the node socket wins when both are present
	assert.Equal(t, config.ProviderNode, cfg.Provider.Kind)
	require.NoError(t, cfg.Validate())

	// an explicit kind is kept
	cfg = config.DefaultConfig()
	cfg.Provider.Kind = config.ProviderMemory
	cfg.Provider.Snapshot = "utxos.json"
	cfg.ApplyEnv(envMap(map[string]string{config.EnvNodeSocket: "/run/node.socket"}))
	assert.Equal(t, config.ProviderMemory, cfg.Provider.Kind)
}

func TestValidate(t *testing.T) {
	testDefs := []struct {
		name   string
		modify func(*config.Config)
		err    error
	}{
		{
			name:   "unknown provider",
			modify: func(c *config.Config) { c.Provider.Kind = "carrier-pigeon" },
			err:    config.ErrInvalidProviderKind,
		},
		{
			name:   "memory without snapshot",
			modify: func(c *config.Config) { c.Provider.Kind = config.ProviderMemory },
			err:    config.ErrEmptySnapshot,
		},
		{
			name:   "node without socket",
			modify: func(c *config.Config) { c.Provider.Kind = config.ProviderNode },
			err:    config.ErrEmptySocketPath,
		},
		{
			name:   "blockfrost without project IDs",
			modify: func(c *config.Config) { c.Provider.Kind = config.ProviderBlockfrost },
			err:    config.ErrNoProjectIds,
		},
		{
			name: "blockfrost project ID for unknown network",
			modify: func(c *config.Config) {
				c.Provider.Kind = config.ProviderBlockfrost
				c.Blockfrost.ProjectIds["atlantis"] = "abc"
			},
			err: config.ErrUnknownProjectIdNetwork,
		},
		{
			name: "blockfrost without timeout",
			modify: func(c *config.Config) {
				c.Provider.Kind = config.ProviderBlockfrost
				c.Blockfrost.ProjectIds["preview"] = "abc"
				c.Blockfrost.Timeout = 0
			},
			err: config.ErrInvalidTimeout,
		},
		{
			name:   "zero concurrency",
			modify: func(c *config.Config) { c.Resolver.Concurrency = 0 },
			err:    config.ErrInvalidConcurrency,
		},
		{
			name:   "zero block workers",
			modify: func(c *config.Config) { c.Resolver.BlockWorkers = 0 },
			err:    config.ErrInvalidBlockWorkers,
		},
		{
			name:   "bad log level",
			modify: func(c *config.Config) { c.Logging.Level = "loud" },
			err:    config.ErrInvalidLogLevel,
		},
		{
			name:   "bad log format",
			modify: func(c *config.Config) { c.Logging.Format = "xml" },
			err:    config.ErrInvalidLogFormat,
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			testDef.modify(cfg)
			assert.ErrorIs(t, cfg.Validate(), testDef.err)
		})
	}
}
