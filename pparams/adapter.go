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

package pparams

import (
	"fmt"
	"math"

	"github.com/jinzhu/copier"
)

// Negative or out-of-range values in the generic record become zero in the
// era shapes. Rationals keep their exact numerator and denominator.
var copyOption = copier.Option{
	IgnoreEmpty: false,
	DeepCopy:    true,
	Converters: []copier.TypeConverter{
		{
			SrcType: int64(0),
			DstType: uint64(0),
			Fn: func(src any) (any, error) {
				return toUint64(src.(int64)), nil
			},
		},
		{
			SrcType: int64(0),
			DstType: uint32(0),
			Fn: func(src any) (any, error) {
				return toUint32(src.(int64)), nil
			},
		},
		{
			SrcType: Rational{},
			DstType: RationalNumber{},
			Fn: func(src any) (any, error) {
				return toRationalNumber(src.(Rational)), nil
			},
		},
	},
}

func toUint64(v int64) uint64 {
	if v < 0 {
		return 0
	}
	return uint64(v)
}

func toUint32(v int64) uint32 {
	if v < 0 || v > math.MaxUint32 {
		return 0
	}
	return uint32(v)
}

func toRationalNumber(r Rational) RationalNumber {
	return RationalNumber{
		Numerator:   toUint64(r.Numerator),
		Denominator: toUint64(r.Denominator),
	}
}

func exUnitPrices(p ProtocolParams) ExUnitPrices {
	return ExUnitPrices{
		MemPrice:  toRationalNumber(p.PriceMem),
		StepPrice: toRationalNumber(p.PriceStep),
	}
}

// ToShelleyMA maps p into the Shelley/Allegra/Mary parameter shape
func ToShelleyMA(p ProtocolParams) (ShelleyMAParams, error) {
	var ret ShelleyMAParams
	if err := copier.CopyWithOption(&ret, &p, copyOption); err != nil {
		return ShelleyMAParams{}, fmt.Errorf("shelley-ma protocol parameters: %w", err)
	}
	return ret, nil
}

// ToAlonzo maps p into the Alonzo parameter shape
func ToAlonzo(p ProtocolParams) (AlonzoParams, error) {
	var ret AlonzoParams
	if err := copier.CopyWithOption(&ret, &p, copyOption); err != nil {
		return AlonzoParams{}, fmt.Errorf("alonzo protocol parameters: %w", err)
	}
	ret.ExecutionCosts = exUnitPrices(p)
	ret.MaxTxExUnits = ExUnits{
		Memory: toUint64(p.MaxTxExMem),
		Steps:  toUint64(p.MaxTxExSteps),
	}
	ret.MaxBlockExUnits = ExUnits{
		Memory: toUint64(p.MaxBlockExMem),
		Steps:  toUint64(p.MaxBlockExSteps),
	}
	return ret, nil
}

// ToBabbage maps p into the Babbage parameter shape
func ToBabbage(p ProtocolParams) (BabbageParams, error) {
	var ret BabbageParams
	if err := copier.CopyWithOption(&ret, &p, copyOption); err != nil {
		return BabbageParams{}, fmt.Errorf("babbage protocol parameters: %w", err)
	}
	ret.ExecutionCosts = exUnitPrices(p)
	ret.MaxTxExUnits = ExUnits{
		Memory: toUint64(p.MaxTxExMem),
		Steps:  toUint64(p.MaxTxExSteps),
	}
	ret.MaxBlockExUnits = ExUnits{
		Memory: toUint64(p.MaxBlockExMem),
		Steps:  toUint64(p.MaxBlockExSteps),
	}
	return ret, nil
}

// Byron parameters are fixed historical constants
const (
	ByronMaxTxSize = 4096
	// minimum fee is ByronFeeSummand + ByronFeeCoefficient * size
	ByronFeeSummand = 155381
)

// ByronFeeCoefficient is 43.946 lovelace per byte
var ByronFeeCoefficient = RationalNumber{Numerator: 43946, Denominator: 1000}
