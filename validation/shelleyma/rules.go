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

// Package shelleyma holds the validation battery shared by the Shelley,
// Allegra and Mary eras. The era of the decoded transaction selects the
// sub-era variants of the individual rules.
package shelleyma

import (
	"github.com/blinklabs-io/tx-anatomy/pparams"
	"github.com/blinklabs-io/tx-anatomy/txview"
	"github.com/blinklabs-io/tx-anatomy/validation"
)

const EraName = "Shelley Mary Allegra"

// MaxValueSize is the largest encoded output value accepted before
// protocol parameters carried a limit
const MaxValueSize = 4000

// constant part of a UTxO entry, in words
const utxoEntrySizeWithoutVal = 27

type Env struct {
	validation.Context
	Params pparams.ShelleyMAParams
}

var Checks = []validation.Check[*Env]{
	{
		Name:      "Non empty inputs",
		Success:   "The set of transaction inputs is not empty.",
		Predicate: ValidateInputsNotEmpty,
	},
	{
		Name:      "Auxiliary data",
		Success:   "The metadata of the transaction is valid.",
		Predicate: ValidateAuxiliaryData,
	},
	{
		Name:      "Minting policy",
		Success:   "Each minted / burned asset is paired with an appropriate native script",
		Predicate: ValidateMinting,
	},
	{
		Name:      "Transaction size",
		Success:   "The size of the transaction does not exceed the maximum allowed.",
		Predicate: ValidateTxSize,
	},
	{
		Name:      "Minimum lovelace",
		Success:   "All transaction outputs contain at least the minimum lovelace.",
		Predicate: ValidateMinLovelace,
	},
	{
		Name:      "Output value size",
		Success:   "The size of the value in each of the outputs is not greater than the maximum allowed.",
		Predicate: ValidateOutputValueSize,
	},
	{
		Name:      "Network id",
		Success:   "The network ID of each output and withdrawal matches the global network ID.",
		Predicate: ValidateNetworkId,
	},
	{
		Name:      "Validity interval",
		Success:   "The block slot is contained in the transaction validity interval.",
		Predicate: ValidateValidityInterval,
	},
	{
		Name:      "All inputs in UTxOs",
		Success:   "All transaction inputs are in the UTxO",
		Predicate: ValidateAllInputsInUTxOs,
	},
	{
		Name:      "Preservation of value",
		Success:   "The preservation of value property holds.",
		Predicate: ValidatePreservationOfValue,
	},
	{
		Name:      "Fee",
		Success:   "The fee of the transaction is valid.",
		Predicate: ValidateFee,
	},
	{
		Name:      "Witness set",
		Success:   "The witness set of the transaction is valid.",
		Predicate: ValidateWitnesses,
	},
}

// Validate runs the Shelley/Allegra/Mary battery
func Validate(ctx validation.Context, params pparams.ShelleyMAParams) validation.Validations {
	return validation.Run(EraName, Checks, &Env{Context: ctx, Params: params})
}

func ValidateInputsNotEmpty(env *Env) error {
	return validation.InputsNotEmpty(env.Tx)
}

func ValidateAuxiliaryData(env *Env) error {
	return validation.AuxiliaryData(env.Tx)
}

func ValidateMinting(env *Env) error {
	if env.Tx.Era != txview.EraMary && len(env.Tx.Mint) > 0 {
		return MintBeforeMaryError{Era: env.Tx.Era}
	}
	return validation.MintingPolicies(env.Context)
}

func ValidateTxSize(env *Env) error {
	return validation.TxSizeAtMost(env.Tx, uint64(env.Params.MaxTxSize))
}

// MinCoin returns the minimum lovelace for out. Shelley and Allegra outputs
// need the flat minimum; Mary scales it with the size of the value.
func MinCoin(era txview.Era, out txview.TxOut, minUtxoValue uint64) uint64 {
	if era != txview.EraMary || !out.Value.HasAssets() {
		return minUtxoValue
	}
	scaled := validation.MulSaturating(
		minUtxoValue/utxoEntrySizeWithoutVal,
		utxoEntrySizeWithoutVal+validation.ValueSizeWords(out.Value),
	)
	return max(minUtxoValue, scaled)
}

func ValidateMinLovelace(env *Env) error {
	return validation.OutputsMinCoin(
		env.Tx,
		func(out txview.TxOut) uint64 {
			return MinCoin(env.Tx.Era, out, env.Params.MinUtxoValue)
		},
	)
}

func ValidateOutputValueSize(env *Env) error {
	return validation.OutputValueSizes(env.Tx, MaxValueSize)
}

func ValidateNetworkId(env *Env) error {
	if err := validation.OutputsNetwork(env.Tx, env.Network.Id); err != nil {
		return err
	}
	return validation.WithdrawalsNetwork(env.Tx, env.Network.Id)
}

// ValidateValidityInterval requires a TTL in Shelley. Allegra replaced the
// TTL with an optional upper bound and added an optional lower bound.
func ValidateValidityInterval(env *Env) error {
	return validation.ValidityInterval(env.Tx, env.Slot, env.Tx.Era == txview.EraShelley)
}

func ValidateAllInputsInUTxOs(env *Env) error {
	return validation.AllInputsInUTxOs(env.Context, validation.SpentRefs(env.Tx))
}

func ValidatePreservationOfValue(env *Env) error {
	return validation.ValuePreserved(
		env.Context,
		validation.Deposits{
			KeyDeposit:  env.Params.KeyDeposit,
			PoolDeposit: env.Params.PoolDeposit,
		},
	)
}

func ValidateFee(env *Env) error {
	return validation.FeeAtLeast(
		env.Tx,
		validation.MinFee(env.Tx, env.Params.MinFeeA, env.Params.MinFeeB, nil),
	)
}

func ValidateWitnesses(env *Env) error {
	return validation.WitnessSet(env.Context)
}
