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

package alonzo

import (
	"github.com/blinklabs-io/tx-anatomy/pparams"
	"github.com/blinklabs-io/tx-anatomy/txview"
	"github.com/blinklabs-io/tx-anatomy/validation"
)

const EraName = "Alonzo"

// Sizes in words used by the minimum coin rule
const (
	utxoEntrySizeWithoutVal = 27
	dataHashSize            = 10
)

// Languages lists the Plutus versions accepted in Alonzo
var Languages = []txview.ScriptLanguage{txview.ScriptPlutusV1}

type Env struct {
	validation.Context
	Params pparams.AlonzoParams
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
		Success:   "Each minted / burned asset is paired with an appropriate native script or Plutus script",
		Predicate: ValidateMinting,
	},
	{
		Name:      "Transaction size",
		Success:   "The size of the transaction does not exceed the maximum allowed.",
		Predicate: ValidateTxSize,
	},
	{
		Name:      "Minimum lovelace",
		Success:   "All transaction outputs contains at least the minimum lovelace.",
		Predicate: ValidateMinLovelace,
	},
	{
		Name:      "Output value size",
		Success:   "The size of the value in each of the outputs is not greater than the maximum allowed.",
		Predicate: ValidateOutputValueSize,
	},
	{
		Name:      "Transaction execution units",
		Success:   "The number of execution units of the transaction does not exceed the maximum allowed.",
		Predicate: ValidateExUnits,
	},
	{
		Name:      "Languages",
		Success:   "The Plutus scripts and native scripts of the transaction are valid.",
		Predicate: ValidateLanguages,
	},
	{
		Name:      "Network id",
		Success:   "The network ID of each regular output as well as that of the withdrawals match the global network ID.",
		Predicate: ValidateNetworkId,
	},
	{
		Name:      "Validity interval",
		Success:   "The block slot is contained in the transaction validity interval.",
		Predicate: ValidateValidityInterval,
	},
	{
		Name:      "All inputs in UTxOs",
		Success:   "All transaction inputs and collateral inputs are in the UTxO",
		Predicate: ValidateAllInputsInUTxOs,
	},
	{
		Name:      "Collateral",
		Success:   "The collateral inputs of the transaction are valid.",
		Predicate: ValidateCollateral,
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
		Name:      "Script data hash",
		Success:   "The Plutus scripts and native scripts of the transaction are valid.",
		Predicate: ValidateScriptDataHash,
	},
	{
		Name:      "Witness set",
		Success:   "The witness set of the transaction is valid.",
		Predicate: ValidateWitnesses,
	},
}

// Validate runs the Alonzo battery
func Validate(ctx validation.Context, params pparams.AlonzoParams) validation.Validations {
	return validation.Run(EraName, Checks, &Env{Context: ctx, Params: params})
}

func ValidateInputsNotEmpty(env *Env) error {
	return validation.InputsNotEmpty(env.Tx)
}

func ValidateAuxiliaryData(env *Env) error {
	return validation.AuxiliaryData(env.Tx)
}

func ValidateMinting(env *Env) error {
	return validation.MintingPolicies(env.Context)
}

func ValidateTxSize(env *Env) error {
	return validation.TxSizeAtMost(env.Tx, uint64(env.Params.MaxTxSize))
}

// MinCoin returns coinsPerUtxoWord * (27 + size(value) + 10 if the output
// carries a datum hash)
func MinCoin(out txview.TxOut, coinsPerUtxoWord uint64) uint64 {
	words := utxoEntrySizeWithoutVal + validation.ValueSizeWords(out.Value)
	if out.DatumHash != nil {
		words += dataHashSize
	}
	return validation.MulSaturating(coinsPerUtxoWord, words)
}

func ValidateMinLovelace(env *Env) error {
	return validation.OutputsMinCoin(
		env.Tx,
		func(out txview.TxOut) uint64 {
			return MinCoin(out, env.Params.AdaPerUtxoWord)
		},
	)
}

func ValidateOutputValueSize(env *Env) error {
	return validation.OutputValueSizes(env.Tx, uint64(env.Params.MaxValueSize))
}

func ValidateExUnits(env *Env) error {
	return validation.ExUnitsWithin(
		env.Tx,
		env.Params.MaxTxExUnits.Memory,
		env.Params.MaxTxExUnits.Steps,
	)
}

func ValidateLanguages(env *Env) error {
	return validation.Languages(env.Context, Languages)
}

func ValidateNetworkId(env *Env) error {
	if err := validation.OutputsNetwork(env.Tx, env.Network.Id); err != nil {
		return err
	}
	if err := validation.WithdrawalsNetwork(env.Tx, env.Network.Id); err != nil {
		return err
	}
	return validation.TxNetworkId(env.Tx, env.Network.Id)
}

func ValidateValidityInterval(env *Env) error {
	if err := validation.ValidityInterval(env.Tx, env.Slot, false); err != nil {
		return err
	}
	return validation.UpperBoundTranslatable(env.Tx, env.Slot, env.Network.StabilityWindow)
}

func ValidateAllInputsInUTxOs(env *Env) error {
	refs := validation.SpentRefs(env.Tx)
	for _, in := range env.Tx.Collateral {
		refs = append(refs, in.OutputRef)
	}
	return validation.AllInputsInUTxOs(env.Context, refs)
}

// ValidateIsValidFlag rejects transactions marked as failing phase two
// when there is no script to fail
func ValidateIsValidFlag(tx *txview.Tx) error {
	if !tx.IsValid && len(tx.Witnesses.Redeemers) == 0 {
		return InvalidWithoutRedeemersError{}
	}
	return nil
}

func ValidateCollateral(env *Env) error {
	if err := ValidateIsValidFlag(env.Tx); err != nil {
		return err
	}
	return validation.Collateral(
		env.Context,
		validation.CollateralParams{
			Percent:   uint64(env.Params.CollateralPercentage),
			MaxInputs: uint64(env.Params.MaxCollateralInputs),
		},
	)
}

func ValidatePreservationOfValue(env *Env) error {
	if !env.Tx.IsValid {
		// a failing script forfeits the collateral instead
		return nil
	}
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
		validation.MinFee(
			env.Tx,
			env.Params.MinFeeA,
			env.Params.MinFeeB,
			&env.Params.ExecutionCosts,
		),
	)
}

func ValidateScriptDataHash(env *Env) error {
	return validation.ScriptDataHash(env.Tx)
}

func ValidateWitnesses(env *Env) error {
	return validation.WitnessSet(env.Context)
}
