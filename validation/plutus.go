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

package validation

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"
	"slices"

	"github.com/blinklabs-io/plutigo/data"

	"github.com/blinklabs-io/tx-anatomy/txview"
)

// Encoded empty collections used when hashing script data
var (
	emptyRedeemers     = []byte{0x80}
	emptyLanguageViews = []byte{0xa0}
)

// TotalExUnits sums the execution budgets of all redeemers
func TotalExUnits(tx *txview.Tx) (uint64, uint64) {
	var mem, steps uint64
	for _, r := range tx.Witnesses.Redeemers {
		mem += r.Mem
		steps += r.Steps
	}
	return mem, steps
}

// ExUnitsWithin checks the total execution budget against the limits
func ExUnitsWithin(tx *txview.Tx, maxMem uint64, maxSteps uint64) error {
	mem, steps := TotalExUnits(tx)
	if mem > maxMem || steps > maxSteps {
		return ExUnitsTooBigError{
			Mem:      mem,
			Steps:    steps,
			MaxMem:   maxMem,
			MaxSteps: maxSteps,
		}
	}
	return nil
}

// CollateralParams are the protocol parameters that govern collateral
type CollateralParams struct {
	Percent   uint64
	MaxInputs uint64
	// WithReturn enables collateral return outputs and the total collateral
	// field
	WithReturn bool
}

// Collateral checks the collateral inputs of a transaction that runs
// Plutus scripts. Transactions without redeemers need no collateral.
func Collateral(c Context, params CollateralParams) error {
	tx := c.Tx
	if len(tx.Witnesses.Redeemers) == 0 {
		return nil
	}
	if len(tx.Collateral) == 0 {
		return NoCollateralInputsError{}
	}
	if params.MaxInputs > 0 && uint64(len(tx.Collateral)) > params.MaxInputs {
		return TooManyCollateralInputsError{
			Provided: uint64(len(tx.Collateral)),
			Max:      params.MaxInputs,
		}
	}
	balance := txview.Zero()
	for _, in := range tx.Collateral {
		out, err := c.Output(in.OutputRef)
		if err != nil {
			return err
		}
		if _, isScript, ok := out.Address.PaymentCredential(); ok && isScript {
			return CollateralNotVKeyLockedError{Ref: in.OutputRef}
		}
		if !params.WithReturn && out.Value.HasAssets() {
			ref := in.OutputRef
			return CollateralContainsNonAdaError{Ref: &ref}
		}
		balance = balance.Add(out.Value)
	}
	if params.WithReturn && tx.CollateralReturn != nil {
		ret := tx.CollateralReturn.Value
		balance = txview.Value{
			Coin:   new(big.Int).Sub(balance.CoinOrZero(), ret.CoinOrZero()),
			Assets: balance.Assets.Sub(ret.Assets),
		}
	}
	if len(balance.Assets) > 0 {
		return CollateralContainsNonAdaError{}
	}
	// balance * 100 >= fee * percent
	provided := new(big.Int).Mul(balance.CoinOrZero(), big.NewInt(100))
	required := new(big.Int).Mul(tx.FeeOrZero(), new(big.Int).SetUint64(params.Percent))
	if provided.Cmp(required) < 0 {
		return InsufficientCollateralError{
			Provided: balance.CoinOrZero(),
			Required: ceilRat(new(big.Rat).SetFrac(required, big.NewInt(100))),
		}
	}
	if params.WithReturn && tx.TotalCollateral != nil &&
		new(big.Int).SetUint64(*tx.TotalCollateral).Cmp(balance.CoinOrZero()) != 0 {
		return IncorrectTotalCollateralError{
			Declared: *tx.TotalCollateral,
			Balance:  balance.CoinOrZero(),
		}
	}
	return nil
}

// ComputeScriptDataHash hashes the redeemers, the datums and the language
// views of the transaction. Language views are encoded as an empty map
// since no cost models are carried by the protocol parameters.
func ComputeScriptDataHash(tx *txview.Tx) []byte {
	redeemers := tx.Witnesses.RedeemersRaw
	if len(redeemers) == 0 {
		redeemers = emptyRedeemers
	}
	tmp := make([]byte, 0, len(redeemers)+len(tx.Witnesses.PlutusDataRaw)+len(emptyLanguageViews))
	tmp = append(tmp, redeemers...)
	tmp = append(tmp, tx.Witnesses.PlutusDataRaw...)
	tmp = append(tmp, emptyLanguageViews...)
	return txview.Blake2b256Hash(tmp)
}

// ScriptDataHash checks the declared script data hash
func ScriptDataHash(tx *txview.Tx) error {
	needed := len(tx.Witnesses.Redeemers) > 0 || len(tx.Witnesses.PlutusData) > 0
	switch {
	case !needed && tx.ScriptDataHash == nil:
		return nil
	case !needed:
		return UnexpectedScriptDataHashError{}
	case tx.ScriptDataHash == nil:
		return MissingScriptDataHashError{}
	}
	computed := ComputeScriptDataHash(tx)
	if !bytes.Equal(computed, tx.ScriptDataHash) {
		return ScriptDataHashMismatchError{Declared: tx.ScriptDataHash, Computed: computed}
	}
	return nil
}

// ScriptDataHashIn checks the declared script data hash against the scripts
// available to the transaction on a network. The language views come from
// the network's cost models and cover reference scripts as well, so the
// network must be known and every input and reference input resolved.
func ScriptDataHashIn(c Context) error {
	if len(c.Tx.Witnesses.Redeemers) > 0 || len(c.Tx.Witnesses.PlutusData) > 0 {
		if !c.Network.IsKnown() {
			return UnknownNetworkError{Network: c.Network.Name}
		}
		if _, err := AvailableScripts(c); err != nil {
			return err
		}
	}
	return ScriptDataHash(c.Tx)
}

// Languages checks that every script the transaction carries or creates is
// in a language the era supports. Native scripts are always allowed.
func Languages(c Context, allowed []txview.ScriptLanguage) error {
	check := func(s txview.Script) error {
		if s.Language == txview.ScriptNative || slices.Contains(allowed, s.Language) {
			return nil
		}
		return UnsupportedLanguageError{Language: s.Language, Era: c.Tx.Era}
	}
	scripts := slices.Clone(c.Tx.Witnesses.Scripts)
	if c.Tx.AuxData != nil {
		scripts = append(scripts, c.Tx.AuxData.Scripts...)
	}
	for _, out := range AllOutputs(c.Tx) {
		if out.ScriptRef != nil {
			scripts = append(scripts, *out.ScriptRef)
		}
	}
	refScripts, err := ReferenceScripts(c)
	if err != nil {
		return err
	}
	scripts = append(scripts, refScripts...)
	for _, s := range scripts {
		if err := check(s); err != nil {
			return err
		}
	}
	return nil
}

// WellFormedPlutusData checks that witness datums, redeemer arguments and
// inline datums all decode as Plutus data
func WellFormedPlutusData(tx *txview.Tx) error {
	for idx, datum := range tx.Witnesses.PlutusData {
		if _, err := data.Decode(datum); err != nil {
			return MalformedPlutusDataError{Location: fmt.Sprintf("witness datum %d", idx), Err: err}
		}
	}
	for idx, r := range tx.Witnesses.Redeemers {
		if _, err := data.Decode(r.Data); err != nil {
			return MalformedPlutusDataError{Location: fmt.Sprintf("redeemer %d", idx), Err: err}
		}
	}
	for idx, out := range AllOutputs(tx) {
		if out.InlineDatum == nil {
			continue
		}
		if _, err := data.Decode(out.InlineDatum); err != nil {
			return MalformedPlutusDataError{Location: fmt.Sprintf("output %d inline datum", idx), Err: err}
		}
	}
	return nil
}

// ReferenceScriptsValid checks the scripts attached to outputs and to the
// outputs referenced by the transaction: each must be non-empty and in a
// language the era supports
func ReferenceScriptsValid(c Context, allowed []txview.ScriptLanguage) error {
	var scripts []txview.Script
	for _, out := range AllOutputs(c.Tx) {
		if out.ScriptRef != nil {
			scripts = append(scripts, *out.ScriptRef)
		}
	}
	refScripts, err := ReferenceScripts(c)
	if err != nil {
		return err
	}
	scripts = append(scripts, refScripts...)
	for _, s := range scripts {
		if len(s.Bytes) == 0 {
			return errors.New("empty reference script")
		}
		if s.Language != txview.ScriptNative && !slices.Contains(allowed, s.Language) {
			return UnsupportedLanguageError{Language: s.Language, Era: c.Tx.Era}
		}
	}
	return nil
}
