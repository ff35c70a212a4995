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

// Package byron holds the Byron validation battery. Byron parameters are
// fixed historical constants and are not read from the caller's record.
package byron

import (
	"math/big"

	"github.com/blinklabs-io/tx-anatomy/pparams"
	"github.com/blinklabs-io/tx-anatomy/txview"
	"github.com/blinklabs-io/tx-anatomy/validation"
)

const EraName = "Byron"

// Witness key sizes: extended public keys for regular witnesses, plain
// ed25519 keys for redeem witnesses
const (
	xpubSize      = 64
	redeemKeySize = 32
)

type Env struct {
	validation.Context
}

var Checks = []validation.Check[*Env]{
	{
		Name:      "Non empty inputs",
		Success:   "The set of transaction inputs is not empty.",
		Predicate: ValidateInputsNotEmpty,
	},
	{
		Name:      "Non empty outputs",
		Success:   "The list of transaction outputs is not empty.",
		Predicate: ValidateOutputsNotEmpty,
	},
	{
		Name:      "Outputs have value",
		Success:   "All transaction outputs contain a non-zero amount of lovelace.",
		Predicate: ValidateOutputsHaveValue,
	},
	{
		Name:      "Transaction size",
		Success:   "The size of the transaction does not exceed the maximum allowed.",
		Predicate: ValidateTxSize,
	},
	{
		Name:      "All inputs in UTxOs",
		Success:   "All transaction inputs are in the UTxO",
		Predicate: ValidateAllInputsInUTxOs,
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

// Validate runs the Byron battery
func Validate(ctx validation.Context) validation.Validations {
	return validation.Run(EraName, Checks, &Env{Context: ctx})
}

func ValidateInputsNotEmpty(env *Env) error {
	return validation.InputsNotEmpty(env.Tx)
}

func ValidateOutputsNotEmpty(env *Env) error {
	if len(env.Tx.Outputs) == 0 {
		return OutputSetEmptyError{}
	}
	return nil
}

func ValidateOutputsHaveValue(env *Env) error {
	for idx, out := range env.Tx.Outputs {
		if out.Value.CoinOrZero().Sign() <= 0 {
			return OutputWithoutValueError{Index: idx}
		}
	}
	return nil
}

func ValidateTxSize(env *Env) error {
	return validation.TxSizeAtMost(env.Tx, pparams.ByronMaxTxSize)
}

func ValidateAllInputsInUTxOs(env *Env) error {
	return validation.AllInputsInUTxOs(env.Context, validation.SpentRefs(env.Tx))
}

// MinFee returns the Byron minimum fee for tx
func MinFee(tx *txview.Tx) uint64 {
	fee := new(big.Rat).Mul(
		pparams.ByronFeeCoefficient.Rat(),
		new(big.Rat).SetInt64(int64(tx.Size())),
	)
	fee.Add(fee, new(big.Rat).SetInt64(pparams.ByronFeeSummand))
	// round up
	q, m := new(big.Int).QuoRem(fee.Num(), fee.Denom(), new(big.Int))
	if m.Sign() > 0 {
		q.Add(q, big.NewInt(1))
	}
	return q.Uint64()
}

// ValidateFee checks the implicit fee, which is whatever the inputs carry
// beyond the outputs
func ValidateFee(env *Env) error {
	inputs := new(big.Int)
	for _, in := range env.Tx.Inputs {
		out, err := env.Output(in.OutputRef)
		if err != nil {
			return err
		}
		inputs.Add(inputs, out.Value.CoinOrZero())
	}
	outputs := new(big.Int)
	for _, out := range env.Tx.Outputs {
		outputs.Add(outputs, out.Value.CoinOrZero())
	}
	if outputs.Cmp(inputs) > 0 {
		return OutputsExceedInputsError{Inputs: inputs, Outputs: outputs}
	}
	fee := new(big.Int).Sub(inputs, outputs)
	minFee := MinFee(env.Tx)
	if fee.Cmp(new(big.Int).SetUint64(minFee)) < 0 {
		return validation.FeeTooSmallError{Provided: fee.Uint64(), Min: minFee}
	}
	return nil
}

// ValidateWitnesses checks that there is one witness per input and that
// every witness signs the transaction for the network's protocol magic
func ValidateWitnesses(env *Env) error {
	wits := env.Tx.Witnesses.Bootstrap
	if len(wits) != len(env.Tx.Inputs) {
		return WitnessCountError{Inputs: len(env.Tx.Inputs), Witnesses: len(wits)}
	}
	signed := txview.ByronSignedData(env.Tx.BodyHash(), env.Network.NetworkMagic)
	for idx, wit := range wits {
		switch len(wit.VKey) {
		case xpubSize:
			// the chain code is not part of the signing key
			if err := validation.VerifyKeyWitness(wit.VKey[:32], wit.Signature, signed); err != nil {
				return err
			}
		case redeemKeySize:
			redeem := append([]byte{0x02}, signed[1:]...)
			if err := validation.VerifyKeyWitness(wit.VKey, wit.Signature, redeem); err != nil {
				return err
			}
		default:
			return InvalidWitnessKeyError{Index: idx, Size: len(wit.VKey)}
		}
	}
	return nil
}
