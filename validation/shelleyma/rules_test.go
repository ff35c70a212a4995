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

package shelleyma_test

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
	"github.com/blinklabs-io/tx-anatomy/validation/shelleyma"
)

var (
	inputRef = test.InputRef(test.TxHash(0x31), 1)
	params   = pparams.ShelleyMAParams{
		MinFeeA:      44,
		MinFeeB:      155381,
		MaxTxSize:    16384,
		KeyDeposit:   2_000_000,
		PoolDeposit:  500_000_000,
		MinUtxoValue: 1_000_000,
	}
)

type fixture struct {
	key   test.Key
	tx    *txview.Tx
	utxos utxo.Set
}

// newFixture returns a balanced, signed transaction spending one input of
// 5 ADA into a 3 ADA output with a 2 ADA fee
func newFixture(era txview.Era) fixture {
	key := test.NewKey(7)
	hash := test.TxHash(0xab)
	fee := uint64(2_000_000)
	ttl := uint64(1000)
	tx := &txview.Tx{
		Era:    era,
		Hash:   hex.EncodeToString(hash),
		Raw:    make([]byte, 300),
		Inputs: []txview.TxIn{{OutputRef: inputRef}},
		Outputs: []txview.TxOut{
			{
				Address: txview.Address{Bytes: test.EnterpriseAddress(0, test.KeyHash(0x55))},
				Value:   txview.NewValue(3_000_000),
			},
		},
		Fee:     &fee,
		TTL:     &ttl,
		IsValid: true,
		Witnesses: txview.Witnesses{
			VKeys: []txview.VKeyWitness{
				{VKey: key.Pub, Signature: ed25519.Sign(key.Priv, hash)},
			},
		},
	}
	utxos := utxo.NewSet(
		utxo.Entry{
			Ref: inputRef,
			Output: txview.TxOut{
				Address: txview.Address{Bytes: test.EnterpriseAddress(0, key.Hash())},
				Value:   txview.NewValue(5_000_000),
			},
			Resolved: true,
		},
	)
	return fixture{key: key, tx: tx, utxos: utxos}
}

func (f fixture) validate() validation.Validations {
	return shelleyma.Validate(
		validation.Context{Tx: f.tx, UTxOs: f.utxos, Network: network.Preview, Slot: 500},
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
	for _, era := range []txview.Era{txview.EraShelley, txview.EraAllegra, txview.EraMary} {
		res := newFixture(era).validate()
		assert.Equal(t, shelleyma.EraName, res.Era)
		assert.True(t, res.Passed(), "%s: %+v", era, res.Validations)
	}
}

func TestBatteryOrder(t *testing.T) {
	expected := []string{
		"Non empty inputs",
		"Auxiliary data",
		"Minting policy",
		"Transaction size",
		"Minimum lovelace",
		"Output value size",
		"Network id",
		"Validity interval",
		"All inputs in UTxOs",
		"Preservation of value",
		"Fee",
		"Witness set",
	}
	assert.Equal(t, expected, validation.Names(shelleyma.Checks))
	f := newFixture(txview.EraMary)
	first := f.validate()
	second := f.validate()
	assert.Equal(t, first, second)
	require.Len(t, first.Validations, len(expected))
	for idx, v := range first.Validations {
		assert.Equal(t, expected[idx], v.Name)
	}
}

func TestPreservationOfValue(t *testing.T) {
	f := newFixture(txview.EraMary)
	assert.True(t, get(t, f.validate(), "Preservation of value").Value)

	f.tx.Outputs[0].Value = txview.NewValue(3_000_001)
	v := get(t, f.validate(), "Preservation of value")
	assert.False(t, v.Value)
	assert.Contains(t, v.Description, "value not conserved")
}

func TestPreservationWithDeposit(t *testing.T) {
	f := newFixture(txview.EraShelley)
	f.tx.Outputs[0].Value = txview.NewValue(1_000_000)
	f.tx.Certificates = []txview.Certificate{
		{
			Kind: txview.CertStakeRegistration,
			Raw:  test.Encode([]any{0, []any{0, test.KeyHash(0x66)}}),
		},
	}
	assert.True(t, get(t, f.validate(), "Preservation of value").Value)
}

func TestEmptyInputs(t *testing.T) {
	f := newFixture(txview.EraShelley)
	f.tx.Inputs = nil
	res := f.validate()
	assert.Len(t, res.Validations, len(shelleyma.Checks))
	v := get(t, res, "Non empty inputs")
	assert.False(t, v.Value)
	assert.Equal(t, "Error: input set empty", v.Description)
}

func TestUnresolvedInput(t *testing.T) {
	f := newFixture(txview.EraShelley)
	f.utxos = utxo.NewSet(utxo.Entry{Ref: inputRef, Output: txview.TxOut{Value: txview.Zero()}})
	res := f.validate()
	v := get(t, res, "All inputs in UTxOs")
	assert.False(t, v.Value)
	assert.Contains(t, v.Description, "unresolved input")
	assert.False(t, get(t, res, "Preservation of value").Value)
}

func TestValidityInterval(t *testing.T) {
	f := newFixture(txview.EraShelley)
	f.tx.TTL = nil
	assert.False(t, get(t, f.validate(), "Validity interval").Value)

	f = newFixture(txview.EraAllegra)
	f.tx.TTL = nil
	assert.True(t, get(t, f.validate(), "Validity interval").Value)

	start := uint64(600)
	f.tx.ValidityStart = &start
	v := get(t, f.validate(), "Validity interval")
	assert.False(t, v.Value)
	assert.Contains(t, v.Description, "outside validity interval")
}

func TestNetworkId(t *testing.T) {
	f := newFixture(txview.EraMary)
	f.tx.Outputs[0].Address = txview.Address{Bytes: test.EnterpriseAddress(1, test.KeyHash(0x55))}
	v := get(t, f.validate(), "Network id")
	assert.False(t, v.Value)
	assert.Contains(t, v.Description, "wrong network")
}

func TestFeeTooSmall(t *testing.T) {
	f := newFixture(txview.EraMary)
	fee := uint64(1000)
	f.tx.Fee = &fee
	v := get(t, f.validate(), "Fee")
	assert.False(t, v.Value)
	assert.Equal(t, "Error: fee too small: provided 1000, minimum 168581", v.Description)
}

func TestWitnesses(t *testing.T) {
	f := newFixture(txview.EraMary)
	f.tx.Witnesses.VKeys = nil
	v := get(t, f.validate(), "Witness set")
	assert.False(t, v.Value)
	assert.Contains(t, v.Description, "missing vkey witness")

	f = newFixture(txview.EraMary)
	f.tx.Witnesses.VKeys[0].Signature = test.Bytes(64, 1)
	v = get(t, f.validate(), "Witness set")
	assert.False(t, v.Value)
	assert.Contains(t, v.Description, "invalid signature")
}

func TestMinting(t *testing.T) {
	policy := test.KeyHash(0x77)
	mint := txview.MultiAsset{
		{Policy: policy, Assets: []txview.Asset{{Name: []byte("tok"), Quantity: big.NewInt(5)}}},
	}
	f := newFixture(txview.EraAllegra)
	f.tx.Mint = mint
	assert.False(t, get(t, f.validate(), "Minting policy").Value)

	f = newFixture(txview.EraMary)
	f.tx.Mint = mint
	v := get(t, f.validate(), "Minting policy")
	assert.False(t, v.Value)
	assert.Contains(t, v.Description, hex.EncodeToString(policy))
}

func TestMinCoin(t *testing.T) {
	out := txview.TxOut{
		Value: txview.Value{
			Coin: big.NewInt(1),
			Assets: txview.MultiAsset{
				{
					Policy: test.KeyHash(9),
					Assets: []txview.Asset{{Name: []byte("tok"), Quantity: big.NewInt(1)}},
				},
			},
		},
	}
	assert.Equal(t, uint64(1_000_000), shelleyma.MinCoin(txview.EraShelley, out, 1_000_000))
	// (1000000 / 27) * (27 + 12)
	assert.Equal(t, uint64(1_444_443), shelleyma.MinCoin(txview.EraMary, out, 1_000_000))
	assert.Equal(
		t,
		uint64(1_000_000),
		shelleyma.MinCoin(txview.EraMary, txview.TxOut{Value: txview.NewValue(1)}, 1_000_000),
	)
}
