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
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/blinklabs-io/tx-anatomy/txview"
)

// ErrUnresolvedInput matches UnresolvedInputError and UnresolvedInputsError
var ErrUnresolvedInput = errors.New("unresolved input")

type UnresolvedInputError struct {
	Ref txview.OutputRef
	Err error
}

func (e UnresolvedInputError) Error() string {
	if e.Err == nil {
		return "unresolved input: " + e.Ref.String()
	}
	return fmt.Sprintf("unresolved input: %s: %s", e.Ref.String(), e.Err)
}

func (e UnresolvedInputError) Unwrap() error {
	return e.Err
}

func (UnresolvedInputError) Is(target error) bool {
	return target == ErrUnresolvedInput
}

type UnresolvedInputsError struct {
	Refs []txview.OutputRef
}

func (e UnresolvedInputsError) Error() string {
	return "unresolved input(s): " + joinRefs(e.Refs)
}

func (UnresolvedInputsError) Is(target error) bool {
	return target == ErrUnresolvedInput
}

func joinRefs(refs []txview.OutputRef) string {
	tmp := make([]string, len(refs))
	for idx, ref := range refs {
		tmp[idx] = ref.String()
	}
	return strings.Join(tmp, ", ")
}

type InputSetEmptyError struct{}

func (InputSetEmptyError) Error() string {
	return "input set empty"
}

type MaxTxSizeError struct {
	TxSize    uint64
	MaxTxSize uint64
}

func (e MaxTxSizeError) Error() string {
	return fmt.Sprintf(
		"transaction size too large: size %d, max %d",
		e.TxSize,
		e.MaxTxSize,
	)
}

type FeeTooSmallError struct {
	Provided uint64
	Min      uint64
}

func (e FeeTooSmallError) Error() string {
	return fmt.Sprintf(
		"fee too small: provided %d, minimum %d",
		e.Provided,
		e.Min,
	)
}

type MissingFeeError struct{}

func (MissingFeeError) Error() string {
	return "transaction body has no fee"
}

type OutputTooSmallError struct {
	Index int
	Coin  *big.Int
	Min   uint64
}

func (e OutputTooSmallError) Error() string {
	return fmt.Sprintf(
		"output %d too small: %s lovelace, minimum %d",
		e.Index,
		e.Coin.String(),
		e.Min,
	)
}

type OutputTooBigError struct {
	Index   int
	Size    uint64
	MaxSize uint64
}

func (e OutputTooBigError) Error() string {
	return fmt.Sprintf(
		"output %d value too big: size %d, max %d",
		e.Index,
		e.Size,
		e.MaxSize,
	)
}

type UnknownNetworkError struct {
	Network string
}

func (e UnknownNetworkError) Error() string {
	return "no language views for network " + e.Network
}

type WrongNetworkError struct {
	NetId uint8
	Addrs []string
}

func (e WrongNetworkError) Error() string {
	return fmt.Sprintf(
		"wrong network (expected id %d): %s",
		e.NetId,
		strings.Join(e.Addrs, ", "),
	)
}

type WrongNetworkWithdrawalError struct {
	NetId uint8
	Addrs []string
}

func (e WrongNetworkWithdrawalError) Error() string {
	return fmt.Sprintf(
		"wrong network withdrawals (expected id %d): %s",
		e.NetId,
		strings.Join(e.Addrs, ", "),
	)
}

type WrongTxNetworkIdError struct {
	TxNetId uint64
	NetId   uint8
}

func (e WrongTxNetworkIdError) Error() string {
	return fmt.Sprintf(
		"wrong transaction network id: provided %d, expected %d",
		e.TxNetId,
		e.NetId,
	)
}

type UntranslatableUpperBoundError struct {
	Ttl     uint64
	Slot    uint64
	Horizon uint64
}

func (e UntranslatableUpperBoundError) Error() string {
	return fmt.Sprintf(
		"TTL %d cannot be translated to time: beyond slot %d (stability window of slot %d)",
		e.Ttl,
		e.Horizon,
		e.Slot,
	)
}

type OutsideValidityIntervalError struct {
	ValidityStart *uint64
	Ttl           *uint64
	Slot          uint64
}

func (e OutsideValidityIntervalError) Error() string {
	return fmt.Sprintf(
		"outside validity interval: start %s, TTL %s, slot %d",
		optUint(e.ValidityStart),
		optUint(e.Ttl),
		e.Slot,
	)
}

func optUint(v *uint64) string {
	if v == nil {
		return "none"
	}
	return fmt.Sprintf("%d", *v)
}

type ValueNotConservedError struct {
	Consumed txview.Value
	Produced txview.Value
}

func (e ValueNotConservedError) Error() string {
	return fmt.Sprintf(
		"value not conserved: consumed %s, produced %s",
		e.Consumed.String(),
		e.Produced.String(),
	)
}

type MissingAuxDataError struct {
	Hash []byte
}

func (e MissingAuxDataError) Error() string {
	return fmt.Sprintf("auxiliary data hash %x present without auxiliary data", e.Hash)
}

type MissingAuxDataHashError struct{}

func (MissingAuxDataHashError) Error() string {
	return "auxiliary data present without auxiliary data hash"
}

type ConflictingAuxDataHashError struct {
	Declared []byte
	Computed []byte
}

func (e ConflictingAuxDataHashError) Error() string {
	return fmt.Sprintf(
		"auxiliary data hash mismatch: declared %x, computed %x",
		e.Declared,
		e.Computed,
	)
}

type InvalidMetadataError struct {
	Label uint64
	Err   error
}

func (e InvalidMetadataError) Error() string {
	return fmt.Sprintf("invalid metadata under label %d: %s", e.Label, e.Err)
}

func (e InvalidMetadataError) Unwrap() error {
	return e.Err
}

type MissingMintingScriptError struct {
	Policy []byte
}

func (e MissingMintingScriptError) Error() string {
	return fmt.Sprintf("no script witness for minting policy %x", e.Policy)
}

type MissingVKeyWitnessError struct {
	KeyHash []byte
}

func (e MissingVKeyWitnessError) Error() string {
	return fmt.Sprintf("missing vkey witness for key hash %x", e.KeyHash)
}

type InvalidVKeyError struct {
	VKey []byte
}

func (e InvalidVKeyError) Error() string {
	return fmt.Sprintf("invalid verification key %x", e.VKey)
}

type InvalidSignatureError struct {
	VKey []byte
}

func (e InvalidSignatureError) Error() string {
	return fmt.Sprintf("invalid signature for verification key %x", e.VKey)
}

type MissingScriptWitnessError struct {
	ScriptHash []byte
}

func (e MissingScriptWitnessError) Error() string {
	return fmt.Sprintf("missing script witness for script hash %x", e.ScriptHash)
}

type ExUnitsTooBigError struct {
	Mem      uint64
	Steps    uint64
	MaxMem   uint64
	MaxSteps uint64
}

func (e ExUnitsTooBigError) Error() string {
	return fmt.Sprintf(
		"execution units too big: mem %d (max %d), steps %d (max %d)",
		e.Mem,
		e.MaxMem,
		e.Steps,
		e.MaxSteps,
	)
}

type NoCollateralInputsError struct{}

func (NoCollateralInputsError) Error() string {
	return "no collateral inputs"
}

type TooManyCollateralInputsError struct {
	Provided uint64
	Max      uint64
}

func (e TooManyCollateralInputsError) Error() string {
	return fmt.Sprintf(
		"too many collateral inputs: provided %d, maximum %d",
		e.Provided,
		e.Max,
	)
}

type InsufficientCollateralError struct {
	Provided *big.Int
	Required *big.Int
}

func (e InsufficientCollateralError) Error() string {
	return fmt.Sprintf(
		"insufficient collateral: provided %s, required %s",
		e.Provided.String(),
		e.Required.String(),
	)
}

type CollateralContainsNonAdaError struct {
	Ref *txview.OutputRef
}

func (e CollateralContainsNonAdaError) Error() string {
	if e.Ref == nil {
		return "collateral balance contains non-ADA assets"
	}
	return "collateral contains non-ADA assets: " + e.Ref.String()
}

type CollateralNotVKeyLockedError struct {
	Ref txview.OutputRef
}

func (e CollateralNotVKeyLockedError) Error() string {
	return "collateral input is not locked by a verification key: " + e.Ref.String()
}

type IncorrectTotalCollateralError struct {
	Declared uint64
	Balance  *big.Int
}

func (e IncorrectTotalCollateralError) Error() string {
	return fmt.Sprintf(
		"incorrect total collateral field: declared %d, collateral balance %s",
		e.Declared,
		e.Balance.String(),
	)
}

type ScriptDataHashMismatchError struct {
	Declared []byte
	Computed []byte
}

func (e ScriptDataHashMismatchError) Error() string {
	return fmt.Sprintf(
		"script data hash mismatch: declared %x, computed %x",
		e.Declared,
		e.Computed,
	)
}

type MissingScriptDataHashError struct{}

func (MissingScriptDataHashError) Error() string {
	return "redeemers or datums present without script data hash"
}

type UnexpectedScriptDataHashError struct{}

func (UnexpectedScriptDataHashError) Error() string {
	return "script data hash present without redeemers or datums"
}

type UnsupportedLanguageError struct {
	Language txview.ScriptLanguage
	Era      txview.Era
}

func (e UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("%s scripts are not supported in the %s era", e.Language, e.Era)
}

type MalformedPlutusDataError struct {
	Location string
	Err      error
}

func (e MalformedPlutusDataError) Error() string {
	return fmt.Sprintf("malformed Plutus data in %s: %s", e.Location, e.Err)
}

func (e MalformedPlutusDataError) Unwrap() error {
	return e.Err
}
