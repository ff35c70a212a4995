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

package babbage

import (
	"math/big"

	"github.com/fxamacker/cbor/v2"

	"github.com/blinklabs-io/tx-anatomy/pparams"
	"github.com/blinklabs-io/tx-anatomy/txview"
	"github.com/blinklabs-io/tx-anatomy/validation"
	"github.com/blinklabs-io/tx-anatomy/validation/alonzo"
)

const EraName = "Babbage"

// bytes of UTxO entry overhead charged on top of the serialized output
const utxoEntryOverhead = 160

// Languages lists the Plutus versions accepted in Babbage
var Languages = []txview.ScriptLanguage{txview.ScriptPlutusV1, txview.ScriptPlutusV2}

type Env struct {
	validation.Context
	Params pparams.BabbageParams
}

const scriptsValid = "The Plutus scripts and native scripts of the transaction are valid."

var Checks = []validation.Check[*Env]{
	{
		Name:      "Non empty inputs",
		Success:   "The set of transaction inputs is not empty.",
		Predicate: ValidateInputsNotEmpty,
	},
	{
		Name:      "Minting policy",
		Success:   "Each minted / burned asset is paired with an appropriate native script or Plutus script",
		Predicate: ValidateMinting,
	},
	{
		Name:      "Well formedness",
		Success:   "The transaction is well-formed",
		Predicate: ValidateWellFormed,
	},
	{
		Name:      "Auxiliary data",
		Success:   "The metadata of the transaction is valid.",
		Predicate: ValidateAuxiliaryData,
	},
	{
		Name:      "Minimum lovelace",
		Success:   "All transaction outputs (regular outputs and collateral outputs) contains at least the minimum lovelace.",
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
		Name:      "Transaction size",
		Success:   "The size of the transaction does not exceed the maximum allowed.",
		Predicate: ValidateTxSize,
	},
	{
		Name:      "Validity interval",
		Success:   "The block slot is contained in the transaction validity interval.",
		Predicate: ValidateValidityInterval,
	},
	{
		Name:      "Network id",
		Success:   "The network ID of each regular output as well as that of the collateral output match the global network ID.",
		Predicate: ValidateNetworkId,
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
	{
		Name:      "All inputs in UTxOs",
		Success:   "All transaction inputs, collateral inputs and reference inputs are in the UTxO",
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
		Name:      "Reference scripts",
		Success:   "The reference scripts of the transaction are valid.",
		Predicate: ValidateReferenceScripts,
	},
	{
		Name:      "Languages",
		Success:   scriptsValid,
		Predicate: ValidateLanguages,
	},
	{
		Name:      "Script data hash",
		Success:   scriptsValid,
		Predicate: ValidateScriptDataHash,
	},
}

// Validate runs the Babbage battery
func Validate(ctx validation.Context, params pparams.BabbageParams) validation.Validations {
	return validation.Run(EraName, Checks, &Env{Context: ctx, Params: params})
}

func ValidateInputsNotEmpty(env *Env) error {
	return validation.InputsNotEmpty(env.Tx)
}

func ValidateMinting(env *Env) error {
	return validation.MintingPolicies(env.Context)
}

func ValidateWellFormed(env *Env) error {
	return validation.WellFormedPlutusData(env.Tx)
}

func ValidateAuxiliaryData(env *Env) error {
	return validation.AuxiliaryData(env.Tx)
}

// OutputSize returns the serialized size of out. Outputs that did not come
// from CBOR are measured in their map encoding.
func OutputSize(out txview.TxOut) (int, error) {
	if out.Raw != nil {
		return len(out.Raw), nil
	}
	value, err := out.Value.MarshalCBOR()
	if err != nil {
		return 0, err
	}
	data, err := cbor.Marshal(
		map[uint64]any{0: out.Address.Bytes, 1: cbor.RawMessage(value)},
	)
	if err != nil {
		return 0, err
	}
	return len(data), nil
}

// MinCoin returns coinsPerUtxoByte * (160 + serialized output size)
func MinCoin(out txview.TxOut, coinsPerUtxoByte uint64) (uint64, error) {
	size, err := OutputSize(out)
	if err != nil {
		return 0, err
	}
	return validation.MulSaturating(coinsPerUtxoByte, utxoEntryOverhead+uint64(size)), nil
}

func ValidateMinLovelace(env *Env) error {
	for idx, out := range validation.AllOutputs(env.Tx) {
		required, err := MinCoin(out, env.Params.AdaPerUtxoByte)
		if err != nil {
			return OutputSizeError{Index: idx, Err: err}
		}
		if out.Value.CoinOrZero().Cmp(new(big.Int).SetUint64(required)) < 0 {
			return validation.OutputTooSmallError{
				Index: idx,
				Coin:  out.Value.CoinOrZero(),
				Min:   required,
			}
		}
	}
	return nil
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

func ValidateTxSize(env *Env) error {
	if len(env.Tx.Raw) == 0 {
		return TxSizeUnavailableError{}
	}
	return validation.TxSizeAtMost(env.Tx, uint64(env.Params.MaxTxSize))
}

func ValidateValidityInterval(env *Env) error {
	if err := validation.ValidityInterval(env.Tx, env.Slot, false); err != nil {
		return err
	}
	return validation.UpperBoundTranslatable(env.Tx, env.Slot, env.Network.StabilityWindow)
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

func ValidateFee(env *Env) error {
	if len(env.Tx.Raw) == 0 {
		return TxSizeUnavailableError{}
	}
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

func ValidateWitnesses(env *Env) error {
	return validation.WitnessSet(env.Context)
}

func ValidateAllInputsInUTxOs(env *Env) error {
	return validation.AllInputsInUTxOs(env.Context, env.Tx.AllRefs())
}

func ValidateCollateral(env *Env) error {
	if err := alonzo.ValidateIsValidFlag(env.Tx); err != nil {
		return err
	}
	return validation.Collateral(
		env.Context,
		validation.CollateralParams{
			Percent:    uint64(env.Params.CollateralPercentage),
			MaxInputs:  uint64(env.Params.MaxCollateralInputs),
			WithReturn: true,
		},
	)
}

func ValidatePreservationOfValue(env *Env) error {
	if !env.Tx.IsValid {
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

func ValidateReferenceScripts(env *Env) error {
	return validation.ReferenceScriptsValid(env.Context, Languages)
}

func ValidateLanguages(env *Env) error {
	return validation.Languages(env.Context, Languages)
}

func ValidateScriptDataHash(env *Env) error {
	return validation.ScriptDataHashIn(env.Context)
}
