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

// Package pparams holds the era-independent protocol parameter record that
// callers supply, and the adapters that turn it into the parameter shape
// each era's rules read.
package pparams

import (
	"fmt"
	"math/big"
)

// Rational is a numerator/denominator pair. It is never reduced.
type Rational struct {
	Numerator   int64 `json:"numerator"   toml:"numerator"`
	Denominator int64 `json:"denominator" toml:"denominator"`
}

func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Numerator, r.Denominator)
}

// ProtocolParams is the flat, caller-facing parameter record. Integer fields
// are signed because callers may hand over anything; the era adapters
// coerce them.
type ProtocolParams struct {
	Epoch                 int64    `json:"epoch"`
	MinFeeA               int64    `json:"minFeeA"`
	MinFeeB               int64    `json:"minFeeB"`
	MaxBlockSize          int64    `json:"maxBlockSize"          copier:"MaxBlockBodySize"`
	MaxTxSize             int64    `json:"maxTxSize"`
	MaxBlockHeaderSize    int64    `json:"maxBlockHeaderSize"`
	KeyDeposit            int64    `json:"keyDeposit"`
	PoolDeposit           int64    `json:"poolDeposit"`
	EMax                  int64    `json:"eMax"                  copier:"MaxEpoch"`
	NOpt                  int64    `json:"nOpt"`
	A0                    Rational `json:"a0"`
	Rho                   Rational `json:"rho"`
	Tau                   Rational `json:"tau"`
	DecentralisationParam Rational `json:"decentralisationParam" copier:"Decentralization"`
	ExtraEntropy          Rational `json:"extraEntropy"`
	ProtocolMajorVer      int64    `json:"protocolMajorVer"      copier:"ProtocolMajor"`
	ProtocolMinorVer      int64    `json:"protocolMinorVer"      copier:"ProtocolMinor"`
	MinUtxo               int64    `json:"minUtxo"               copier:"MinUtxoValue"`
	MinPoolCost           int64    `json:"minPoolCost"`
	PriceMem              Rational `json:"priceMem"`
	PriceStep             Rational `json:"priceStep"`
	MaxTxExMem            int64    `json:"maxTxExMem"`
	MaxTxExSteps          int64    `json:"maxTxExSteps"`
	MaxBlockExMem         int64    `json:"maxBlockExMem"`
	MaxBlockExSteps       int64    `json:"maxBlockExSteps"`
	MaxValSize            int64    `json:"maxValSize"            copier:"MaxValueSize"`
	CollateralPercent     int64    `json:"collateralPercent"     copier:"CollateralPercentage"`
	MaxCollateralInputs   int64    `json:"maxCollateralInputs"`
	CoinsPerUtxoSize      int64    `json:"coinsPerUtxoSize"      copier:"AdaPerUtxoByte"`
	CoinsPerUtxoWord      int64    `json:"coinsPerUtxoWord"      copier:"AdaPerUtxoWord"`
}

// Default returns the record used when no parameters could be obtained.
// Every field is zero, including the epoch.
func Default() ProtocolParams {
	return ProtocolParams{}
}

// RationalNumber is the unsigned rational carried by era parameters
type RationalNumber struct {
	Numerator   uint64
	Denominator uint64
}

// Rat returns the value as a big.Rat for arithmetic. A zero denominator
// yields zero.
func (r RationalNumber) Rat() *big.Rat {
	if r.Denominator == 0 {
		return new(big.Rat)
	}
	return new(big.Rat).SetFrac(
		new(big.Int).SetUint64(r.Numerator),
		new(big.Int).SetUint64(r.Denominator),
	)
}

func (r RationalNumber) String() string {
	return fmt.Sprintf("%d/%d", r.Numerator, r.Denominator)
}

// ExUnits is a memory/steps budget
type ExUnits struct {
	Memory uint64
	Steps  uint64
}

// ExUnitPrices are the lovelace prices of one unit of memory and one step
type ExUnitPrices struct {
	MemPrice  RationalNumber
	StepPrice RationalNumber
}

// ShelleyMAParams are the parameters read by the Shelley, Allegra and Mary
// rules
type ShelleyMAParams struct {
	MinFeeA            uint64
	MinFeeB            uint64
	MaxBlockBodySize   uint32
	MaxTxSize          uint32
	MaxBlockHeaderSize uint32
	KeyDeposit         uint64
	PoolDeposit        uint64
	MaxEpoch           uint64
	NOpt               uint32
	A0                 RationalNumber
	Rho                RationalNumber
	Tau                RationalNumber
	Decentralization   RationalNumber
	ExtraEntropy       RationalNumber
	ProtocolMajor      uint64
	ProtocolMinor      uint64
	MinUtxoValue       uint64
	MinPoolCost        uint64
}

// AlonzoParams are the parameters read by the Alonzo rules
type AlonzoParams struct {
	MinFeeA              uint64
	MinFeeB              uint64
	MaxBlockBodySize     uint32
	MaxTxSize            uint32
	MaxBlockHeaderSize   uint32
	KeyDeposit           uint64
	PoolDeposit          uint64
	MaxEpoch             uint64
	NOpt                 uint32
	A0                   RationalNumber
	Rho                  RationalNumber
	Tau                  RationalNumber
	Decentralization     RationalNumber
	ExtraEntropy         RationalNumber
	ProtocolMajor        uint64
	ProtocolMinor        uint64
	MinPoolCost          uint64
	AdaPerUtxoWord       uint64
	ExecutionCosts       ExUnitPrices
	MaxTxExUnits         ExUnits
	MaxBlockExUnits      ExUnits
	MaxValueSize         uint32
	CollateralPercentage uint32
	MaxCollateralInputs  uint32
}

// BabbageParams are the parameters read by the Babbage rules
type BabbageParams struct {
	MinFeeA              uint64
	MinFeeB              uint64
	MaxBlockBodySize     uint32
	MaxTxSize            uint32
	MaxBlockHeaderSize   uint32
	KeyDeposit           uint64
	PoolDeposit          uint64
	MaxEpoch             uint64
	NOpt                 uint32
	A0                   RationalNumber
	Rho                  RationalNumber
	Tau                  RationalNumber
	ProtocolMajor        uint64
	ProtocolMinor        uint64
	MinPoolCost          uint64
	AdaPerUtxoByte       uint64
	ExecutionCosts       ExUnitPrices
	MaxTxExUnits         ExUnits
	MaxBlockExUnits      ExUnits
	MaxValueSize         uint32
	CollateralPercentage uint32
	MaxCollateralInputs  uint32
}
