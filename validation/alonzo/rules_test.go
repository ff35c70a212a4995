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

package alonzo_test

import (
	"crypto/ed25519"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/tx-anatomy/internal/test"
	"github.com/blinklabs-io/tx-anatomy/network"
	"github.com/blinklabs-io/tx-anatomy/pparams"
	"github.com/blinklabs-io/tx-anatomy/txview"
	"github.com/blinklabs-io/tx-anatomy/utxo"
	"github.com/blinklabs-io/tx-anatomy/validation"
	"github.com/blinklabs-io/tx-anatomy/validation/alonzo"
)

var (
	scriptRef     = test.InputRef(test.TxHash(0x41), 0)
	collateralRef = test.InputRef(test.TxHash(0x42), 1)
	script        = txview.Script{Language: txview.ScriptPlutusV1, Bytes: []byte{0x4d, 0x01, 0x00, 0x00}}
	params        = pparams.AlonzoParams{
		MinFeeA:        44,
		MinFeeB:        155381,
		MaxTxSize:      16384,
		KeyDeposit:     2_000_000,
		PoolDeposit:    500_000_000,
		AdaPerUtxoWord: 34482,
		ExecutionCosts: pparams.ExUnitPrices{
			MemPrice:  pparams.RationalNumber{Numerator: 577, Denominator: 10000},
			StepPrice: pparams.RationalNumber{Numerator: 721, Denominator: 10000000},
		},
		MaxTxExUnits:         pparams.ExUnits{Memory: 10_000_000, Steps: 10_000_000_000},
		MaxValueSize:         5000,
		CollateralPercentage: 150,
		MaxCollateralInputs:  3,
	}
)

type fixture struct {
	tx    *txview.Tx
	utxos utxo.Set
}

// newFixture spends a Plutus V1 locked output, with a key-locked collateral
// input signed by the fixture key
func newFixture() fixture {
	key := test.NewKey(3)
	hash := test.TxHash(0xcd)
	fee := uint64(2_000_000)
	redeemer := []any{0, 0, 42, []any{1000, 2000}}
	tx := &txview.Tx{
		Era:        txview.EraAlonzo,
		Hash:       hex.EncodeToString(hash),
		Raw:        make([]byte, 300),
		Inputs:     []txview.TxIn{{OutputRef: scriptRef}},
		Collateral: []txview.TxIn{{OutputRef: collateralRef}},
		Outputs: []txview.TxOut{
			{
				Address: txview.Address{Bytes: test.EnterpriseAddress(0, test.KeyHash(0x55))},
				Value:   txview.NewValue(3_000_000),
			},
		},
		Fee:     &fee,
		IsValid: true,
		Witnesses: txview.Witnesses{
			VKeys: []txview.VKeyWitness{
				{VKey: key.Pub, Signature: ed25519.Sign(key.Priv, hash)},
			},
			Scripts: []txview.Script{script},
			Redeemers: []txview.Redeemer{
				{Tag: txview.RedeemerTagSpend, Index: 0, Data: test.Encode(42), Mem: 1000, Steps: 2000},
			},
			RedeemersRaw: test.Encode([]any{redeemer}),
		},
	}
	tx.ScriptDataHash = validation.ComputeScriptDataHash(tx)
	utxos := utxo.NewSet(
		utxo.Entry{
			Ref: scriptRef,
			Output: txview.TxOut{
				Address:   txview.Address{Bytes: test.ScriptEnterpriseAddress(0, script.Hash())},
				Value:     txview.NewValue(5_000_000),
				DatumHash: test.TxHash(0x99),
			},
			Resolved: true,
		},
		utxo.Entry{
			Ref: collateralRef,
			Output: txview.TxOut{
				Address: txview.Address{Bytes: test.EnterpriseAddress(0, key.Hash())},
				Value:   txview.NewValue(5_000_000),
			},
			Resolved: true,
		},
	)
	return fixture{tx: tx, utxos: utxos}
}

func (f fixture) validate() validation.Validations {
	return alonzo.Validate(
		validation.Context{Tx: f.tx, UTxOs: f.utxos, Network: network.Preprod, Slot: 100},
		params,
	)
}

func get(t *testing.T, res validation.Validations, name string) validation.Validation {
	t.Helper()
	v, ok := res.Get(name)
	require.True(t, ok, name)
	return v
}

func TestFixturePasses(t *testing.T) {
	res := newFixture().validate()
	assert.Equal(t, alonzo.EraName, res.Era)
	assert.True(t, res.Passed(), "%+v", res.Validations)
}

func TestBatteryOrder(t *testing.T) {
	expected := []string{
		"Non empty inputs",
		"Auxiliary data",
		"Minting policy",
		"Transaction size",
		"Minimum lovelace",
		"Output value size",
		"Transaction execution units",
		"Languages",
		"Network id",
		"Validity interval",
		"All inputs in UTxOs",
		"Collateral",
		"Preservation of value",
		"Fee",
		"Script data hash",
		"Witness set",
	}
	assert.Equal(t, expected, validation.Names(alonzo.Checks))
	f := newFixture()
	f.tx.Inputs = nil
	res := f.validate()
	require.Len(t, res.Validations, len(expected))
	assert.False(t, get(t, res, "Non empty inputs").Value)
}

func TestScriptDataHash(t *testing.T) {
	f := newFixture()
	f.tx.ScriptDataHash = test.TxHash(0x01)
	v := get(t, f.validate(), "Script data hash")
	assert.False(t, v.Value)
	assert.Contains(t, v.Description, "script data hash mismatch")

	f.tx.ScriptDataHash = nil
	assert.False(t, get(t, f.validate(), "Script data hash").Value)
}

func TestCollateral(t *testing.T) {
	f := newFixture()
	f.tx.Collateral = nil
	v := get(t, f.validate(), "Collateral")
	assert.False(t, v.Value)
	assert.Equal(t, "Error: no collateral inputs", v.Description)

	f = newFixture()
	fee := uint64(4_000_000)
	f.tx.Fee = &fee
	v = get(t, f.validate(), "Collateral")
	assert.False(t, v.Value)
	assert.Contains(t, v.Description, "insufficient collateral")

	f = newFixture()
	entry, _ := f.utxos.Lookup(collateralRef)
	entry.Output.Value = txview.Value{
		Coin: big.NewInt(5_000_000),
		Assets: txview.MultiAsset{
			{Policy: test.KeyHash(1), Assets: []txview.Asset{{Name: []byte("a"), Quantity: big.NewInt(1)}}},
		},
	}
	scriptEntry, _ := f.utxos.Lookup(scriptRef)
	f.utxos = utxo.NewSet(scriptEntry, entry)
	v = get(t, f.validate(), "Collateral")
	assert.False(t, v.Value)
	assert.Contains(t, v.Description, "non-ADA")
}

func TestLanguages(t *testing.T) {
	f := newFixture()
	f.tx.Witnesses.Scripts = append(
		f.tx.Witnesses.Scripts,
		txview.Script{Language: txview.ScriptPlutusV2, Bytes: []byte{0x01}},
	)
	v := get(t, f.validate(), "Languages")
	assert.False(t, v.Value)
	assert.Equal(t, "Error: plutus_v2 scripts are not supported in the Alonzo era", v.Description)
}

func TestExUnits(t *testing.T) {
	f := newFixture()
	f.tx.Witnesses.Redeemers[0].Mem = 20_000_000
	v := get(t, f.validate(), "Transaction execution units")
	assert.False(t, v.Value)
	assert.Contains(t, v.Description, "execution units too big")
}

func TestIsValidFlag(t *testing.T) {
	f := newFixture()
	f.tx.IsValid = false
	f.tx.Witnesses.Redeemers = nil
	assert.False(t, get(t, f.validate(), "Collateral").Value)
}

func TestMissingScriptWitness(t *testing.T) {
	f := newFixture()
	f.tx.Witnesses.Scripts = nil
	v := get(t, f.validate(), "Witness set")
	assert.False(t, v.Value)
	assert.Contains(t, v.Description, "missing script witness")
}

func TestTxNetworkId(t *testing.T) {
	f := newFixture()
	netId := uint64(1)
	f.tx.NetworkID = &netId
	v := get(t, f.validate(), "Network id")
	assert.False(t, v.Value)
	assert.Contains(t, v.Description, "wrong transaction network id")
}

func TestMinCoin(t *testing.T) {
	out := txview.TxOut{Value: txview.NewValue(1)}
	assert.Equal(t, uint64(34482*29), alonzo.MinCoin(out, 34482))
	out.DatumHash = test.TxHash(1)
	assert.Equal(t, uint64(34482*39), alonzo.MinCoin(out, 34482))
	assert.Equal(t, ^uint64(0), alonzo.MinCoin(out, 1<<60))
}

func TestUpperBoundTranslatable(t *testing.T) {
	f := newFixture()
	ttl := 100 + network.Preprod.StabilityWindow
	f.tx.TTL = &ttl
	assert.True(t, get(t, f.validate(), "Validity interval").Value)

	ttl = 100 + 10*network.Preprod.StabilityWindow
	v := get(t, f.validate(), "Validity interval")
	assert.False(t, v.Value)
	assert.Contains(t, v.Description, "cannot be translated to time")

	// without scripts to run the TTL needs no translation
	f.tx.Witnesses.Redeemers = nil
	assert.True(t, get(t, f.validate(), "Validity interval").Value)
}
