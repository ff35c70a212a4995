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
	"unicode/utf8"

	"github.com/blinklabs-io/gouroboros/ledger/shelley"
	"github.com/fxamacker/cbor/v2"

	"github.com/blinklabs-io/tx-anatomy/pparams"
	"github.com/blinklabs-io/tx-anatomy/txview"
)

// Shared predicates. The era packages pick the ones that apply to them and
// supply the era parameters.

// maximum length of a metadata text or byte string
const maxMetadatumStringLength = 64

// InputsNotEmpty checks that the transaction spends at least one input
func InputsNotEmpty(tx *txview.Tx) error {
	if tx.Ledger != nil {
		return fromCodecError(codecRule(shelley.UtxoValidateInputSetEmptyUtxo, tx.Ledger, 0), 0)
	}
	if len(tx.Inputs) == 0 {
		return InputSetEmptyError{}
	}
	return nil
}

// AllInputsInUTxOs checks that every ref resolved to an output
func AllInputsInUTxOs(c Context, refs []txview.OutputRef) error {
	missing := c.Unresolved(refs)
	if len(missing) == 0 {
		return nil
	}
	if len(missing) == 1 {
		_, err := c.Output(missing[0])
		return err
	}
	return UnresolvedInputsError{Refs: missing}
}

// SpentRefs returns the regular inputs of tx
func SpentRefs(tx *txview.Tx) []txview.OutputRef {
	return refsOf(tx.Inputs)
}

// TxSizeAtMost checks the serialized size of the transaction
func TxSizeAtMost(tx *txview.Tx, maxTxSize uint64) error {
	size := uint64(tx.Size())
	if size > maxTxSize {
		return MaxTxSizeError{TxSize: size, MaxTxSize: maxTxSize}
	}
	return nil
}

// MinFee returns minFeeA * size + minFeeB, plus the script execution cost
// when prices are given
func MinFee(
	tx *txview.Tx,
	minFeeA uint64,
	minFeeB uint64,
	prices *pparams.ExUnitPrices,
) uint64 {
	ret := new(big.Int).SetUint64(minFeeA)
	ret.Mul(ret, big.NewInt(int64(tx.Size())))
	ret.Add(ret, new(big.Int).SetUint64(minFeeB))
	if prices != nil {
		mem, steps := TotalExUnits(tx)
		cost := new(big.Rat).Mul(prices.MemPrice.Rat(), new(big.Rat).SetInt(new(big.Int).SetUint64(mem)))
		cost.Add(cost, new(big.Rat).Mul(prices.StepPrice.Rat(), new(big.Rat).SetInt(new(big.Int).SetUint64(steps))))
		ret.Add(ret, ceilRat(cost))
	}
	if !ret.IsUint64() {
		return ^uint64(0)
	}
	return ret.Uint64()
}

func ceilRat(r *big.Rat) *big.Int {
	q, m := new(big.Int).QuoRem(r.Num(), r.Denom(), new(big.Int))
	if m.Sign() > 0 {
		q.Add(q, big.NewInt(1))
	}
	return q
}

// FeeAtLeast checks the declared fee against a minimum
func FeeAtLeast(tx *txview.Tx, minFee uint64) error {
	if tx.Fee == nil {
		return MissingFeeError{}
	}
	if *tx.Fee < minFee {
		return FeeTooSmallError{Provided: *tx.Fee, Min: minFee}
	}
	return nil
}

// AllOutputs returns the regular outputs followed by the collateral return
// output, if any
func AllOutputs(tx *txview.Tx) []txview.TxOut {
	ret := append([]txview.TxOut(nil), tx.Outputs...)
	if tx.CollateralReturn != nil {
		ret = append(ret, *tx.CollateralReturn)
	}
	return ret
}

// OutputsNetwork checks the network of every output address. Decoded
// transactions go through the codec's rule, which also reads the network
// attribute of Byron addresses. The collateral return and hand-built views
// are checked on the network nibble.
func OutputsNetwork(tx *txview.Tx, netId uint8) error {
	outputs := AllOutputs(tx)
	if tx.Ledger != nil {
		if err := codecRule(shelley.UtxoValidateWrongNetwork, tx.Ledger, netId); err != nil {
			return fromCodecError(err, netId)
		}
		outputs = outputs[len(tx.Outputs):]
	}
	var bad []string
	for _, out := range outputs {
		id, ok := out.Address.NetworkID()
		if ok && id != netId {
			bad = append(bad, out.Address.String())
		}
	}
	if len(bad) > 0 {
		return WrongNetworkError{NetId: netId, Addrs: bad}
	}
	return nil
}

// WithdrawalsNetwork checks the network nibble of every reward address
func WithdrawalsNetwork(tx *txview.Tx, netId uint8) error {
	if tx.Ledger != nil {
		return fromCodecError(codecRule(shelley.UtxoValidateWrongNetworkWithdrawal, tx.Ledger, netId), netId)
	}
	var bad []string
	for _, w := range tx.Withdrawals {
		id, ok := w.Address.NetworkID()
		if ok && id != netId {
			bad = append(bad, w.Address.String())
		}
	}
	if len(bad) > 0 {
		return WrongNetworkWithdrawalError{NetId: netId, Addrs: bad}
	}
	return nil
}

// TxNetworkId checks the optional network id field of the body
func TxNetworkId(tx *txview.Tx, netId uint8) error {
	if tx.NetworkID != nil && *tx.NetworkID != uint64(netId) {
		return WrongTxNetworkIdError{TxNetId: *tx.NetworkID, NetId: netId}
	}
	return nil
}

// ValidityInterval checks that slot falls in [start, ttl). Shelley requires
// a TTL; later eras treat both bounds as optional.
func ValidityInterval(tx *txview.Tx, slot uint64, requireTtl bool) error {
	err := OutsideValidityIntervalError{
		ValidityStart: tx.ValidityStart,
		Ttl:           tx.TTL,
		Slot:          slot,
	}
	if tx.TTL == nil && requireTtl {
		return err
	}
	if tx.ValidityStart != nil && slot < *tx.ValidityStart {
		return err
	}
	if tx.TTL != nil && slot >= *tx.TTL {
		return err
	}
	return nil
}

// UpperBoundTranslatable checks that the TTL of a transaction running
// scripts can be converted to POSIX time, which holds only within the
// stability window of slot. A zero window means the horizon is unknown.
func UpperBoundTranslatable(tx *txview.Tx, slot uint64, stabilityWindow uint64) error {
	if tx.TTL == nil || len(tx.Witnesses.Redeemers) == 0 || stabilityWindow == 0 {
		return nil
	}
	horizon := slot + stabilityWindow
	if horizon < slot {
		return nil
	}
	if *tx.TTL > horizon {
		return UntranslatableUpperBoundError{Ttl: *tx.TTL, Slot: slot, Horizon: horizon}
	}
	return nil
}

// AuxiliaryData checks that the auxiliary data hash and the auxiliary data
// appear together and agree, and that metadata strings are within bounds
func AuxiliaryData(tx *txview.Tx) error {
	switch {
	case tx.AuxData == nil && tx.AuxDataHash == nil:
		return nil
	case tx.AuxData == nil:
		return MissingAuxDataError{Hash: tx.AuxDataHash}
	case tx.AuxDataHash == nil:
		return MissingAuxDataHashError{}
	}
	computed := txview.Blake2b256Hash(tx.AuxData.Raw)
	if !bytes.Equal(computed, tx.AuxDataHash) {
		return ConflictingAuxDataHashError{Declared: tx.AuxDataHash, Computed: computed}
	}
	for _, md := range tx.AuxData.Metadata {
		if err := checkMetadatum(md.Value, 0); err != nil {
			return InvalidMetadataError{Label: md.Label, Err: err}
		}
	}
	return nil
}

const maxMetadatumDepth = 64

func checkMetadatum(data []byte, depth int) error {
	if depth > maxMetadatumDepth {
		return errors.New("metadata nested too deeply")
	}
	switch txview.MajorType(data) {
	case txview.MajorTypeUint, txview.MajorTypeNint:
		return nil
	case txview.MajorTypeBytes, txview.MajorTypeText:
		content, err := stringContent(data)
		if err != nil {
			return err
		}
		if len(content) > maxMetadatumStringLength {
			return fmt.Errorf("string of %d bytes exceeds %d", len(content), maxMetadatumStringLength)
		}
		if txview.MajorType(data) == txview.MajorTypeText && !utf8.Valid(content) {
			return errors.New("text is not valid UTF-8")
		}
		return nil
	case txview.MajorTypeArray:
		items, err := txview.ArrayItems(data)
		if err != nil {
			return err
		}
		for _, item := range items {
			if err := checkMetadatum(item, depth+1); err != nil {
				return err
			}
		}
		return nil
	case txview.MajorTypeMap:
		entries, err := txview.MapEntries(data)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if err := checkMetadatum(entry.Key, depth+1); err != nil {
				return err
			}
			if err := checkMetadatum(entry.Value, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("unexpected metadatum (major type %d)", txview.MajorType(data))
}

// stringContent returns the payload of a definite or chunked byte or text
// string
func stringContent(data []byte) ([]byte, error) {
	if txview.MajorType(data) == txview.MajorTypeText {
		var tmp string
		if err := cbor.Unmarshal(data, &tmp); err != nil {
			return nil, err
		}
		return []byte(tmp), nil
	}
	var tmp []byte
	if err := cbor.Unmarshal(data, &tmp); err != nil {
		return nil, err
	}
	return tmp, nil
}

// OutputValueSizes checks the encoded size of each output value
func OutputValueSizes(tx *txview.Tx, maxValueSize uint64) error {
	for idx, out := range AllOutputs(tx) {
		size, err := out.EncodedValueSize()
		if err != nil {
			return fmt.Errorf("output %d value: %w", idx, err)
		}
		if uint64(size) > maxValueSize {
			return OutputTooBigError{Index: idx, Size: uint64(size), MaxSize: maxValueSize}
		}
	}
	return nil
}

// OutputsMinCoin checks every output against a per-output minimum
func OutputsMinCoin(tx *txview.Tx, minCoin func(txview.TxOut) uint64) error {
	for idx, out := range AllOutputs(tx) {
		required := minCoin(out)
		if out.Value.CoinOrZero().Cmp(new(big.Int).SetUint64(required)) < 0 {
			return OutputTooSmallError{Index: idx, Coin: out.Value.CoinOrZero(), Min: required}
		}
	}
	return nil
}

// MintingPolicies checks that every minted or burned policy has a script
// among the available scripts
func MintingPolicies(c Context) error {
	if len(c.Tx.Mint) == 0 {
		return nil
	}
	scripts, err := AvailableScripts(c)
	if err != nil {
		return err
	}
	for _, policy := range c.Tx.Mint {
		if !scripts.Has(policy.Policy) {
			return MissingMintingScriptError{Policy: policy.Policy}
		}
	}
	return nil
}
