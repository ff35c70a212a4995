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

package node

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math"

	gcbor "github.com/blinklabs-io/gouroboros/cbor"
	"github.com/blinklabs-io/gouroboros/protocol/localstatequery"
	"github.com/jinzhu/copier"

	"github.com/blinklabs-io/tx-anatomy/pparams"
	"github.com/blinklabs-io/tx-anatomy/txview"
)

// OutputsOf converts a UTxO query result into output views keyed by
// reference
func OutputsOf(result *localstatequery.UTxOsResult) (map[txview.OutputRef]txview.TxOut, error) {
	if result == nil {
		return nil, errors.New("utxo result: empty")
	}
	ret := make(map[txview.OutputRef]txview.TxOut, len(result.Results))
	for id, out := range result.Results {
		ref := txview.OutputRef{
			TxHash: hex.EncodeToString(id.Hash.Bytes()),
			Index:  uint32(id.Idx), // #nosec G115
		}
		raw := out.Cbor()
		if len(raw) == 0 {
			var err error
			if raw, err = gcbor.Encode(&out); err != nil {
				return nil, fmt.Errorf("utxo result %s: %w", ref.String(), err)
			}
		}
		view, err := txview.DecodeOutput(raw)
		if err != nil {
			return nil, fmt.Errorf("utxo result %s: %w", ref.String(), err)
		}
		ret[ref] = view
	}
	return ret, nil
}

type exUnitsMirror struct {
	Memory uint64
	Steps  uint64
}

type exUnitPricesMirror struct {
	MemPrice  pparams.Rational
	StepPrice pparams.Rational
}

// paramsMirror collects the fields shared by the codec's per-era protocol
// parameter types. Fields an era lacks stay zero.
type paramsMirror struct {
	MinFeeA              uint64
	MinFeeB              uint64
	MaxBlockBodySize     uint64
	MaxTxSize            uint64
	MaxBlockHeaderSize   uint64
	KeyDeposit           uint64
	PoolDeposit          uint64
	MaxEpoch             uint64
	NOpt                 uint64
	A0                   pparams.Rational
	Rho                  pparams.Rational
	Tau                  pparams.Rational
	Decentralization     pparams.Rational
	ProtocolMajor        uint64
	ProtocolMinor        uint64
	MinUtxoValue         uint64
	MinPoolCost          uint64
	AdaPerUtxoByte       uint64
	AdaPerUtxoWord       uint64
	ExecutionCosts       exUnitPricesMirror
	MaxTxExUnits         exUnitsMirror
	MaxBlockExUnits      exUnitsMirror
	MaxValueSize         uint64
	CollateralPercentage uint64
	MaxCollateralInputs  uint64
}

var mirrorOption = copier.Option{
	DeepCopy: true,
	Converters: []copier.TypeConverter{
		{
			SrcType: &gcbor.Rat{},
			DstType: pparams.Rational{},
			Fn: func(src any) (any, error) {
				return ratToRational(src.(*gcbor.Rat)), nil
			},
		},
		{
			SrcType: int64(0),
			DstType: uint64(0),
			Fn: func(src any) (any, error) {
				if v := src.(int64); v > 0 {
					return uint64(v), nil
				}
				return uint64(0), nil
			},
		},
	},
}

// ratToRational keeps rationals that fit in int64 and maps the rest to zero.
// The codec has already normalized the fraction.
func ratToRational(r *gcbor.Rat) pparams.Rational {
	if r == nil || r.Rat == nil {
		return pparams.Rational{}
	}
	num, den := r.Num(), r.Denom()
	if !num.IsInt64() || !den.IsInt64() {
		return pparams.Rational{}
	}
	return pparams.Rational{Numerator: num.Int64(), Denominator: den.Int64()}
}

func toInt64(v uint64) int64 {
	if v > math.MaxInt64 {
		return 0
	}
	return int64(v)
}

// ConvertProtocolParams maps the codec's protocol parameters for any era
// into the generic record
func ConvertProtocolParams(src any) (pparams.ProtocolParams, error) {
	if src == nil {
		return pparams.ProtocolParams{}, errors.New("no protocol parameters")
	}
	var m paramsMirror
	if err := copier.CopyWithOption(&m, src, mirrorOption); err != nil {
		return pparams.ProtocolParams{}, fmt.Errorf("protocol parameters: %w", err)
	}
	return pparams.ProtocolParams{
		MinFeeA:               toInt64(m.MinFeeA),
		MinFeeB:               toInt64(m.MinFeeB),
		MaxBlockSize:          toInt64(m.MaxBlockBodySize),
		MaxTxSize:             toInt64(m.MaxTxSize),
		MaxBlockHeaderSize:    toInt64(m.MaxBlockHeaderSize),
		KeyDeposit:            toInt64(m.KeyDeposit),
		PoolDeposit:           toInt64(m.PoolDeposit),
		EMax:                  toInt64(m.MaxEpoch),
		NOpt:                  toInt64(m.NOpt),
		A0:                    m.A0,
		Rho:                   m.Rho,
		Tau:                   m.Tau,
		DecentralisationParam: m.Decentralization,
		ProtocolMajorVer:      toInt64(m.ProtocolMajor),
		ProtocolMinorVer:      toInt64(m.ProtocolMinor),
		MinUtxo:               toInt64(m.MinUtxoValue),
		MinPoolCost:           toInt64(m.MinPoolCost),
		PriceMem:              m.ExecutionCosts.MemPrice,
		PriceStep:             m.ExecutionCosts.StepPrice,
		MaxTxExMem:            toInt64(m.MaxTxExUnits.Memory),
		MaxTxExSteps:          toInt64(m.MaxTxExUnits.Steps),
		MaxBlockExMem:         toInt64(m.MaxBlockExUnits.Memory),
		MaxBlockExSteps:       toInt64(m.MaxBlockExUnits.Steps),
		MaxValSize:            toInt64(m.MaxValueSize),
		CollateralPercent:     toInt64(m.CollateralPercentage),
		MaxCollateralInputs:   toInt64(m.MaxCollateralInputs),
		CoinsPerUtxoSize:      toInt64(m.AdaPerUtxoByte),
		CoinsPerUtxoWord:      toInt64(m.AdaPerUtxoWord),
	}, nil
}
