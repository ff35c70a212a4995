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

package blockfrost

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/blinklabs-io/tx-anatomy/pparams"
	"github.com/blinklabs-io/tx-anatomy/txview"
	"github.com/fxamacker/cbor/v2"
)

const unitLovelace = "lovelace"

// number accepts both JSON numbers and numeric strings, which the API mixes
// freely. An absent or null value is the empty string.
type number string

func (n *number) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if text == "null" {
		*n = ""
		return nil
	}
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = number(strings.TrimSpace(s))
		return nil
	}
	*n = number(text)
	return nil
}

func (n number) int64() (int64, error) {
	if n == "" {
		return 0, nil
	}
	return strconv.ParseInt(string(n), 10, 64)
}

func (n number) rational() (pparams.Rational, error) {
	if n == "" {
		return pparams.Rational{}, nil
	}
	return ParseRational(string(n))
}

// ParseRational converts a decimal string into a numerator/denominator pair
// without reducing it: "0.0577" becomes 577/10000 and "7.21e-05" becomes
// 721/10000000.
func ParseRational(s string) (pparams.Rational, error) {
	orig := s
	s = strings.TrimSpace(s)
	if s == "" {
		return pparams.Rational{}, errors.New("empty decimal")
	}
	exp := 0
	if idx := strings.IndexAny(s, "eE"); idx >= 0 {
		e, err := strconv.Atoi(s[idx+1:])
		if err != nil {
			return pparams.Rational{}, fmt.Errorf("invalid decimal %q: %w", orig, err)
		}
		exp = e
		s = s[:idx]
	}
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")
	digits := intPart + fracPart
	if digits == "" || strings.Trim(digits, "0123456789") != "" {
		return pparams.Rational{}, fmt.Errorf("invalid decimal %q", orig)
	}
	num, _ := new(big.Int).SetString(digits, 10)
	den := big.NewInt(1)
	scale := exp - len(fracPart)
	pow := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(abs(scale))), nil)
	if scale >= 0 {
		num.Mul(num, pow)
	} else {
		den = pow
	}
	if neg {
		num.Neg(num)
	}
	if !num.IsInt64() || !den.IsInt64() {
		return pparams.Rational{}, fmt.Errorf("decimal %q out of range", orig)
	}
	return pparams.Rational{Numerator: num.Int64(), Denominator: den.Int64()}, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

type txUtxosResponse struct {
	Hash    string           `json:"hash"`
	Outputs []outputResponse `json:"outputs"`
}

type amountResponse struct {
	Unit     string `json:"unit"`
	Quantity number `json:"quantity"`
}

type outputResponse struct {
	Address             string           `json:"address"`
	Amount              []amountResponse `json:"amount"`
	OutputIndex         uint32           `json:"output_index"`
	DataHash            *string          `json:"data_hash"`
	InlineDatum         *string          `json:"inline_datum"`
	Collateral          bool             `json:"collateral"`
	ReferenceScriptHash *string          `json:"reference_script_hash"`
}

func (o outputResponse) toOutput() (txview.TxOut, error) {
	addr, err := txview.ParseAddress(o.Address)
	if err != nil {
		return txview.TxOut{}, err
	}
	ret := txview.TxOut{
		Address: addr,
		Value:   txview.Zero(),
	}
	for _, amount := range o.Amount {
		qty, ok := new(big.Int).SetString(string(amount.Quantity), 10)
		if !ok {
			return txview.TxOut{}, fmt.Errorf("invalid quantity %q for %s", amount.Quantity, amount.Unit)
		}
		if amount.Unit == unitLovelace {
			ret.Value.Coin = qty
			continue
		}
		unit, err := hex.DecodeString(amount.Unit)
		if err != nil || len(unit) < txview.Blake2b224Size {
			return txview.TxOut{}, fmt.Errorf("invalid asset unit %q", amount.Unit)
		}
		ret.Value.Assets = ret.Value.Assets.Add(
			txview.MultiAsset{
				{
					Policy: unit[:txview.Blake2b224Size],
					Assets: []txview.Asset{
						{Name: unit[txview.Blake2b224Size:], Quantity: qty},
					},
				},
			},
		)
	}
	if o.DataHash != nil && o.InlineDatum == nil {
		if ret.DatumHash, err = hex.DecodeString(*o.DataHash); err != nil {
			return txview.TxOut{}, fmt.Errorf("data hash: %w", err)
		}
	}
	if o.InlineDatum != nil {
		if ret.InlineDatum, err = hex.DecodeString(*o.InlineDatum); err != nil {
			return txview.TxOut{}, fmt.Errorf("inline datum: %w", err)
		}
	}
	return ret, nil
}

type scriptResponse struct {
	ScriptHash string `json:"script_hash"`
	Type       string `json:"type"`
}

func (s scriptResponse) language() (txview.ScriptLanguage, error) {
	switch s.Type {
	case "timelock":
		return txview.ScriptNative, nil
	case "plutusV1":
		return txview.ScriptPlutusV1, nil
	case "plutusV2":
		return txview.ScriptPlutusV2, nil
	case "plutusV3":
		return txview.ScriptPlutusV3, nil
	}
	return 0, fmt.Errorf("unknown script type %q", s.Type)
}

type scriptCborResponse struct {
	Cbor *string `json:"cbor"`
}

// toScript returns the Plutus script under hash. The API serves the script
// either as the witness set carries it or wrapped in one more CBOR byte
// string; the hash decides which.
func (s scriptCborResponse) toScript(lang txview.ScriptLanguage, hash string) (*txview.Script, error) {
	if s.Cbor == nil {
		return nil, errors.New("no script CBOR")
	}
	data, err := hex.DecodeString(*s.Cbor)
	if err != nil {
		return nil, fmt.Errorf("script CBOR: %w", err)
	}
	script := &txview.Script{Language: lang, Bytes: data}
	if hex.EncodeToString(script.Hash()) == hash {
		return script, nil
	}
	var inner []byte
	if err := cbor.Unmarshal(data, &inner); err == nil {
		script.Bytes = inner
	}
	return script, nil
}

type scriptJSONResponse struct {
	Json *nativeScriptJSON `json:"json"`
}

func (s scriptJSONResponse) toScript() (*txview.Script, error) {
	if s.Json == nil {
		return nil, errors.New("no script JSON")
	}
	tmp, err := s.Json.toCbor()
	if err != nil {
		return nil, err
	}
	data, err := cbor.Marshal(tmp)
	if err != nil {
		return nil, err
	}
	return &txview.Script{Language: txview.ScriptNative, Bytes: data}, nil
}

// nativeScriptJSON is the JSON form of a native script
type nativeScriptJSON struct {
	Type     string             `json:"type"`
	KeyHash  string             `json:"keyHash"`
	Required number             `json:"required"`
	Slot     number             `json:"slot"`
	Scripts  []nativeScriptJSON `json:"scripts"`
}

// toCbor returns the native script as the values of its CBOR array form
func (n nativeScriptJSON) toCbor() ([]any, error) {
	subScripts := func() ([]any, error) {
		ret := make([]any, 0, len(n.Scripts))
		for _, sub := range n.Scripts {
			tmp, err := sub.toCbor()
			if err != nil {
				return nil, err
			}
			ret = append(ret, tmp)
		}
		return ret, nil
	}
	uintOf := func(v number) (uint64, error) {
		return strconv.ParseUint(string(v), 10, 64)
	}
	switch n.Type {
	case "sig":
		keyHash, err := hex.DecodeString(n.KeyHash)
		if err != nil {
			return nil, fmt.Errorf("native script key hash: %w", err)
		}
		return []any{uint64(0), keyHash}, nil
	case "all", "any":
		subs, err := subScripts()
		if err != nil {
			return nil, err
		}
		if n.Type == "all" {
			return []any{uint64(1), subs}, nil
		}
		return []any{uint64(2), subs}, nil
	case "atLeast":
		required, err := uintOf(n.Required)
		if err != nil {
			return nil, fmt.Errorf("native script required count: %w", err)
		}
		subs, err := subScripts()
		if err != nil {
			return nil, err
		}
		return []any{uint64(3), required, subs}, nil
	case "after", "before":
		slot, err := uintOf(n.Slot)
		if err != nil {
			return nil, fmt.Errorf("native script slot: %w", err)
		}
		if n.Type == "after" {
			return []any{uint64(4), slot}, nil
		}
		return []any{uint64(5), slot}, nil
	}
	return nil, fmt.Errorf("unknown native script type %q", n.Type)
}

type epochParamsResponse struct {
	Epoch                 number `json:"epoch"`
	MinFeeA               number `json:"min_fee_a"`
	MinFeeB               number `json:"min_fee_b"`
	MaxBlockSize          number `json:"max_block_size"`
	MaxTxSize             number `json:"max_tx_size"`
	MaxBlockHeaderSize    number `json:"max_block_header_size"`
	KeyDeposit            number `json:"key_deposit"`
	PoolDeposit           number `json:"pool_deposit"`
	EMax                  number `json:"e_max"`
	NOpt                  number `json:"n_opt"`
	A0                    number `json:"a0"`
	Rho                   number `json:"rho"`
	Tau                   number `json:"tau"`
	DecentralisationParam number `json:"decentralisation_param"`
	ProtocolMajorVer      number `json:"protocol_major_ver"`
	ProtocolMinorVer      number `json:"protocol_minor_ver"`
	MinUtxo               number `json:"min_utxo"`
	MinPoolCost           number `json:"min_pool_cost"`
	PriceMem              number `json:"price_mem"`
	PriceStep             number `json:"price_step"`
	MaxTxExMem            number `json:"max_tx_ex_mem"`
	MaxTxExSteps          number `json:"max_tx_ex_steps"`
	MaxBlockExMem         number `json:"max_block_ex_mem"`
	MaxBlockExSteps       number `json:"max_block_ex_steps"`
	MaxValSize            number `json:"max_val_size"`
	CollateralPercent     number `json:"collateral_percent"`
	MaxCollateralInputs   number `json:"max_collateral_inputs"`
	CoinsPerUtxoSize      number `json:"coins_per_utxo_size"`
	CoinsPerUtxoWord      number `json:"coins_per_utxo_word"`
}

func (r epochParamsResponse) toProtocolParams() (pparams.ProtocolParams, error) {
	var ret pparams.ProtocolParams
	ints := []struct {
		name string
		src  number
		dst  *int64
	}{
		{"epoch", r.Epoch, &ret.Epoch},
		{"min_fee_a", r.MinFeeA, &ret.MinFeeA},
		{"min_fee_b", r.MinFeeB, &ret.MinFeeB},
		{"max_block_size", r.MaxBlockSize, &ret.MaxBlockSize},
		{"max_tx_size", r.MaxTxSize, &ret.MaxTxSize},
		{"max_block_header_size", r.MaxBlockHeaderSize, &ret.MaxBlockHeaderSize},
		{"key_deposit", r.KeyDeposit, &ret.KeyDeposit},
		{"pool_deposit", r.PoolDeposit, &ret.PoolDeposit},
		{"e_max", r.EMax, &ret.EMax},
		{"n_opt", r.NOpt, &ret.NOpt},
		{"protocol_major_ver", r.ProtocolMajorVer, &ret.ProtocolMajorVer},
		{"protocol_minor_ver", r.ProtocolMinorVer, &ret.ProtocolMinorVer},
		{"min_utxo", r.MinUtxo, &ret.MinUtxo},
		{"min_pool_cost", r.MinPoolCost, &ret.MinPoolCost},
		{"max_tx_ex_mem", r.MaxTxExMem, &ret.MaxTxExMem},
		{"max_tx_ex_steps", r.MaxTxExSteps, &ret.MaxTxExSteps},
		{"max_block_ex_mem", r.MaxBlockExMem, &ret.MaxBlockExMem},
		{"max_block_ex_steps", r.MaxBlockExSteps, &ret.MaxBlockExSteps},
		{"max_val_size", r.MaxValSize, &ret.MaxValSize},
		{"collateral_percent", r.CollateralPercent, &ret.CollateralPercent},
		{"max_collateral_inputs", r.MaxCollateralInputs, &ret.MaxCollateralInputs},
		{"coins_per_utxo_size", r.CoinsPerUtxoSize, &ret.CoinsPerUtxoSize},
		{"coins_per_utxo_word", r.CoinsPerUtxoWord, &ret.CoinsPerUtxoWord},
	}
	for _, field := range ints {
		v, err := field.src.int64()
		if err != nil {
			return pparams.ProtocolParams{}, fmt.Errorf("%s: %w", field.name, err)
		}
		*field.dst = v
	}
	rats := []struct {
		name string
		src  number
		dst  *pparams.Rational
	}{
		{"a0", r.A0, &ret.A0},
		{"rho", r.Rho, &ret.Rho},
		{"tau", r.Tau, &ret.Tau},
		{"decentralisation_param", r.DecentralisationParam, &ret.DecentralisationParam},
		{"price_mem", r.PriceMem, &ret.PriceMem},
		{"price_step", r.PriceStep, &ret.PriceStep},
	}
	for _, field := range rats {
		v, err := field.src.rational()
		if err != nil {
			return pparams.ProtocolParams{}, fmt.Errorf("%s: %w", field.name, err)
		}
		*field.dst = v
	}
	return ret, nil
}
