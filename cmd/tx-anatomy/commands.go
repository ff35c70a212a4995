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
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	anatomy "github.com/blinklabs-io/tx-anatomy"
	"github.com/blinklabs-io/tx-anatomy/diagnostic"
	"github.com/blinklabs-io/tx-anatomy/pparams"
	"github.com/blinklabs-io/tx-anatomy/validation"
)

var errValidationFailed = errors.New("transaction failed validation")

func newTxCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tx [hex]",
		Short: "Decode a transaction of any era",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), a.inspector.DecodeAndRenderTransaction(input))
		},
	}
}

// blockValidateResult is the output of block --validate
type blockValidateResult struct {
	Tree         *diagnostic.Section          `json:"tree"`
	Transactions []anatomy.BlockTxValidations `json:"transactions"`
}

func newBlockCommand(a *app) *cobra.Command {
	var (
		validate   bool
		slot       uint64
		paramsFile string
	)
	cmd := &cobra.Command{
		Use:   "block [hex]",
		Short: "Decode an era-tagged block",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			if !validate {
				return writeJSON(cmd.OutOrStdout(), a.inspector.DecodeAndRenderBlock(input))
			}
			params, err := a.params(cmd, paramsFile)
			if err != nil {
				return err
			}
			tree, txs := a.inspector.ValidateBlock(
				cmd.Context(),
				input,
				anatomy.ValidationContext{
					ProtocolParams: params,
					Network:        a.cfg.Network,
					BlockSlot:      slot,
				},
			)
			return writeJSON(cmd.OutOrStdout(), blockValidateResult{Tree: tree, Transactions: txs})
		},
	}
	cmd.Flags().BoolVar(&validate, "validate", false, "check every transaction against the rules of the block era")
	cmd.Flags().Uint64Var(&slot, "slot", 0, "slot to validate at (defaults to the block slot)")
	cmd.Flags().StringVar(&paramsFile, "params", "", "JSON file with protocol parameters")
	return cmd
}

func newAddressCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "address [address]",
		Short: "Describe a bech32, base58 or hex address",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), a.inspector.ParseAddress(input))
		},
	}
}

func newParamsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "params",
		Short: "Fetch the latest protocol parameters of the network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := a.inspector.FetchLatestProtocolParameters(cmd.Context(), a.cfg.Network)
			return writeJSON(cmd.OutOrStdout(), params)
		},
	}
}

// validateResult is the output of the validate subcommand
type validateResult struct {
	Tree        *diagnostic.Section    `json:"tree"`
	Validations validation.Validations `json:"validations"`
}

func newValidateCommand(a *app) *cobra.Command {
	var (
		era        string
		slot       uint64
		paramsFile string
		strict     bool
	)
	cmd := &cobra.Command{
		Use:   "validate [hex]",
		Short: "Check a transaction against the ledger rules of an era",
		Long: `Check a transaction against the ledger rules of an era.

Protocol parameters are read from --params when given, and fetched from the
configured provider otherwise.

Example:
  tx-anatomy validate --network preview --era Babbage --slot 4000000 84a400...`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			if era == "" {
				era = a.cfg.Era
			}
			params, err := a.params(cmd, paramsFile)
			if err != nil {
				return err
			}
			tree, res := a.inspector.ValidateTransaction(
				cmd.Context(),
				input,
				anatomy.ValidationContext{
					ProtocolParams: params,
					Network:        a.cfg.Network,
					Era:            era,
					BlockSlot:      slot,
				},
			)
			if err := writeJSON(cmd.OutOrStdout(), validateResult{Tree: tree, Validations: res}); err != nil {
				return err
			}
			if strict && (tree.Error != nil || !res.Passed()) {
				return errValidationFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&era, "era", "", "era whose rules apply (defaults to the configured era)")
	cmd.Flags().Uint64Var(&slot, "slot", 0, "slot of the block the transaction would be included in")
	cmd.Flags().StringVar(&paramsFile, "params", "", "JSON file with protocol parameters")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit with an error when any check fails")
	return cmd
}

// params reads protocol parameters from a file when one is named, and
// fetches them from the configured provider otherwise
func (a *app) params(cmd *cobra.Command, paramsFile string) (pparams.ProtocolParams, error) {
	if paramsFile != "" {
		return loadParams(paramsFile)
	}
	return a.inspector.FetchLatestProtocolParameters(cmd.Context(), a.cfg.Network), nil
}

func loadParams(path string) (pparams.ProtocolParams, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pparams.ProtocolParams{}, fmt.Errorf("reading protocol parameters: %w", err)
	}
	var ret pparams.ProtocolParams
	if err := json.Unmarshal(data, &ret); err != nil {
		return pparams.ProtocolParams{}, fmt.Errorf("parsing protocol parameters: %w", err)
	}
	return ret, nil
}
