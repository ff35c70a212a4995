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


package main

import (
	"fmt"
	"log/slog"

	"github.com/blinklabs-io/tx-anatomy/config"
	"github.com/blinklabs-io/tx-anatomy/network"
	"github.com/blinklabs-io/tx-anatomy/provider"
	"github.com/blinklabs-io/tx-anatomy/provider/blockfrost"
	"github.com/blinklabs-io/tx-anatomy/provider/memory"
	"github.com/blinklabs-io/tx-anatomy/provider/node"
)

// newProvider builds the configured provider. It returns nil for the none
// kind.
func newProvider(cfg *config.Config, logger *slog.Logger) (provider.Provider, error) {
	switch cfg.Provider.Kind {
	case config.ProviderBlockfrost:
		opts := []blockfrost.ProviderOptionFunc{
			blockfrost.WithLogger(logger),
			blockfrost.WithTimeout(cfg.Blockfrost.Timeout.Duration()),
		}
		for name, projectId := range cfg.Blockfrost.ProjectIds {
			opts = append(opts, blockfrost.WithProjectId(name, projectId))
		}
		for name, baseURL := range cfg.Blockfrost.BaseURLs {
			opts = append(opts, blockfrost.WithBaseURL(name, baseURL))
		}
		return blockfrost.New(opts...), nil
	case config.ProviderNode:
		n, ok := network.Lookup(cfg.Network)
		if !ok {
			return nil, fmt.Errorf("unknown network: %s", cfg.Network)
		}
		return node.New(cfg.Node.SocketPath, n, node.WithLogger(logger)), nil
	case config.ProviderMemory:
		p, err := memory.LoadFile(cfg.Provider.Snapshot)
		if err != nil {
			return nil, fmt.Errorf("loading snapshot: %w", err)
		}
		return p, nil
	}
	return nil, nil
}
