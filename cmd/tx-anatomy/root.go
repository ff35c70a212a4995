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
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	anatomy "github.com/blinklabs-io/tx-anatomy"
	"github.com/blinklabs-io/tx-anatomy/config"
)

var (
	// Version information (set at build time)
	Version   = "dev"
	GitCommit = "unknown"
)

// app is the state shared by the subcommands of one invocation
type app struct {
	cfgFile   string
	network   string
	logLevel  string
	cfg       *config.Config
	logger    *slog.Logger
	inspector *anatomy.Inspector
}

func newRootCommand() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "tx-anatomy",
		Short: "Inspect and validate Cardano transactions",
		Long: `tx-anatomy decodes Cardano transactions, blocks and addresses into
diagnostic trees and checks transactions against the ledger rules of their era.

Inputs are hex strings given as the first argument, or read from stdin when
the argument is missing or "-". Output is JSON.`,
		Version:           fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	rootCmd.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringVarP(&a.network, "network", "n", "", "network name (overrides the config file)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (overrides the config file)")

	rootCmd.AddCommand(
		newTxCommand(a),
		newValidateCommand(a),
		newBlockCommand(a),
		newParamsCommand(a),
		newAddressCommand(a),
	)
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if a.network != "" {
		cfg.Network = a.network
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = createLogger(cmd.ErrOrStderr(), cfg.Logging)
	p, err := newProvider(cfg, a.logger)
	if err != nil {
		return err
	}
	opts := []anatomy.InspectorOptionFunc{
		anatomy.WithLogger(a.logger),
		anatomy.WithResolverConcurrency(cfg.Resolver.Concurrency),
		anatomy.WithBlockWorkers(cfg.Resolver.BlockWorkers),
	}
	if p != nil {
		opts = append(opts, anatomy.WithProvider(p))
	}
	a.inspector = anatomy.New(opts...)
	return nil
}

func createLogger(w io.Writer, cfg config.LoggingConfig) *slog.Logger {
	// the level was checked by config validation
	level, _ := cfg.SlogLevel()
	opts := &slog.HandlerOptions{
		Level: level,
	}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
