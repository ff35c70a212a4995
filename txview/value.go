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

package txview

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math/big"
	"slices"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// Asset is a quantity of a single native asset under a policy
type Asset struct {
	Name     []byte
	Quantity *big.Int
}

// PolicyAssets groups the assets minted under one policy
type PolicyAssets struct {
	Policy []byte
	Assets []Asset
}

// MultiAsset is a list of policies in bytewise order. Quantities are signed so
// that the same type serves mint fields.
type MultiAsset []PolicyAssets

// NumAssets returns the number of distinct assets
func (m MultiAsset) NumAssets() int {
	ret := 0
	for _, p := range m {
		ret += len(p.Assets)
	}
	return ret
}

// SumAssetNameLengths returns the total length of all asset names
func (m MultiAsset) SumAssetNameLengths() int {
	ret := 0
	for _, p := range m {
		for _, a := range p.Assets {
			ret += len(a.Name)
		}
	}
	return ret
}

// Quantity returns the quantity of the asset, or zero if not present
func (m MultiAsset) Quantity(policy []byte, name []byte) *big.Int {
	ret := new(big.Int)
	for _, p := range m {
		if !bytes.Equal(p.Policy, policy) {
			continue
		}
		for _, a := range p.Assets {
			if bytes.Equal(a.Name, name) {
				ret.Add(ret, a.Quantity)
			}
		}
	}
	return ret
}

// Add returns the sum of m and other. Policy and asset order follows first
// appearance and zero quantities are dropped.
func (m MultiAsset) Add(other MultiAsset) MultiAsset {
	return combine(m, other, 1)
}

// Sub returns m minus other
func (m MultiAsset) Sub(other MultiAsset) MultiAsset {
	return combine(m, other, -1)
}

// Positive returns the assets with a quantity above zero
func (m MultiAsset) Positive() MultiAsset {
	return m.filter(func(q *big.Int) bool { return q.Sign() > 0 })
}

// Negative returns the negated assets with a quantity below zero
func (m MultiAsset) Negative() MultiAsset {
	var ret MultiAsset
	for _, p := range m.filter(func(q *big.Int) bool { return q.Sign() < 0 }) {
		for i := range p.Assets {
			p.Assets[i].Quantity = new(big.Int).Neg(p.Assets[i].Quantity)
		}
		ret = append(ret, p)
	}
	return ret
}

// Equal compares two bundles ignoring order and zero quantities
func (m MultiAsset) Equal(other MultiAsset) bool {
	return len(m.Sub(other)) == 0
}

// String renders the bundle as policy.name:quantity pairs
func (m MultiAsset) String() string {
	var parts []string
	for _, p := range m {
		for _, a := range p.Assets {
			parts = append(
				parts,
				fmt.Sprintf(
					"%s.%s:%s",
					hex.EncodeToString(p.Policy),
					hex.EncodeToString(a.Name),
					a.Quantity.String(),
				),
			)
		}
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func (m MultiAsset) filter(keep func(*big.Int) bool) MultiAsset {
	var ret MultiAsset
	for _, p := range m {
		var assets []Asset
		for _, a := range p.Assets {
			if a.Quantity != nil && keep(a.Quantity) {
				assets = append(
					assets,
					Asset{
						Name:     slices.Clone(a.Name),
						Quantity: new(big.Int).Set(a.Quantity),
					},
				)
			}
		}
		if len(assets) > 0 {
			ret = append(ret, PolicyAssets{Policy: slices.Clone(p.Policy), Assets: assets})
		}
	}
	return ret
}

func combine(a MultiAsset, b MultiAsset, sign int64) MultiAsset {
	type key struct {
		policy string
		name   string
	}
	totals := make(map[key]*big.Int)
	var policyOrder []string
	nameOrder := make(map[string][]string)
	add := func(m MultiAsset, factor int64) {
		for _, p := range m {
			policy := string(p.Policy)
			if _, ok := nameOrder[policy]; !ok {
				policyOrder = append(policyOrder, policy)
				nameOrder[policy] = nil
			}
			for _, asset := range p.Assets {
				k := key{policy: policy, name: string(asset.Name)}
				total, ok := totals[k]
				if !ok {
					total = new(big.Int)
					totals[k] = total
					nameOrder[policy] = append(nameOrder[policy], k.name)
				}
				if asset.Quantity == nil {
					continue
				}
				total.Add(total, new(big.Int).Mul(asset.Quantity, big.NewInt(factor)))
			}
		}
	}
	add(a, 1)
	add(b, sign)
	var ret MultiAsset
	for _, policy := range policyOrder {
		var assets []Asset
		for _, name := range nameOrder[policy] {
			total := totals[key{policy: policy, name: name}]
			if total.Sign() == 0 {
				continue
			}
			assets = append(assets, Asset{Name: []byte(name), Quantity: total})
		}
		if len(assets) > 0 {
			ret = append(ret, PolicyAssets{Policy: []byte(policy), Assets: assets})
		}
	}
	return ret
}

// Value is an amount of lovelace plus native assets
type Value struct {
	Coin   *big.Int
	Assets MultiAsset
}

// NewValue returns a lovelace-only value
func NewValue(coin uint64) Value {
	return Value{Coin: new(big.Int).SetUint64(coin)}
}

// Zero returns an empty value
func Zero() Value {
	return Value{Coin: new(big.Int)}
}

// CoinOrZero returns the lovelace amount, treating nil as zero
func (v Value) CoinOrZero() *big.Int {
	if v.Coin == nil {
		return new(big.Int)
	}
	return v.Coin
}

// Add returns v plus other
func (v Value) Add(other Value) Value {
	return Value{
		Coin:   new(big.Int).Add(v.CoinOrZero(), other.CoinOrZero()),
		Assets: v.Assets.Add(other.Assets),
	}
}

// AddCoin returns v plus an amount of lovelace
func (v Value) AddCoin(coin *big.Int) Value {
	return Value{
		Coin:   new(big.Int).Add(v.CoinOrZero(), coin),
		Assets: v.Assets.Add(nil),
	}
}

// Equal compares both lovelace and native assets
func (v Value) Equal(other Value) bool {
	return v.CoinOrZero().Cmp(other.CoinOrZero()) == 0 &&
		v.Assets.Equal(other.Assets)
}

// HasAssets reports whether v carries native assets
func (v Value) HasAssets() bool {
	return len(v.Assets.Positive()) > 0
}

func (v Value) String() string {
	if len(v.Assets) == 0 {
		return v.CoinOrZero().String()
	}
	return fmt.Sprintf("%s + %s", v.CoinOrZero().String(), v.Assets.String())
}

// MarshalCBOR encodes v the way outputs carry it: a bare coin, or a
// [coin, multiasset] pair when assets are present
func (v Value) MarshalCBOR() ([]byte, error) {
	coin := v.CoinOrZero()
	if !coin.IsUint64() {
		return nil, fmt.Errorf("coin out of range: %s", coin.String())
	}
	if len(v.Assets) == 0 {
		return cbor.Marshal(coin.Uint64())
	}
	assets := make(map[cbor.ByteString]map[cbor.ByteString]uint64, len(v.Assets))
	for _, p := range v.Assets {
		names, ok := assets[cbor.ByteString(p.Policy)]
		if !ok {
			names = make(map[cbor.ByteString]uint64)
			assets[cbor.ByteString(p.Policy)] = names
		}
		for _, a := range p.Assets {
			if a.Quantity == nil || !a.Quantity.IsUint64() {
				return nil, fmt.Errorf("asset quantity out of range: %v", a.Quantity)
			}
			names[cbor.ByteString(a.Name)] = a.Quantity.Uint64()
		}
	}
	return cbor.Marshal([]any{coin.Uint64(), assets})
}
