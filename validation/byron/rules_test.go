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

package byron_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/tx-anatomy/internal/test"
	"github.com/blinklabs-io/tx-anatomy/network"
	"github.com/blinklabs-io/tx-anatomy/txview"
	"github.com/blinklabs-io/tx-anatomy/utxo"
	"github.com/blinklabs-io/tx-anatomy/validation"
	"github.com/blinklabs-io/tx-anatomy/validation/byron"
)

var byronInput = test.InputRef(test.TxHash(0x21), 0)

func byronFixture(t *testing.T, keys []test.Key, amount uint64) *txview.Tx {
	t.Helper()
	raw := test.BuildByronTx(
		[]txview.OutputRef{byronInput},
		[]test.ByronOutput{
			{Address: test.ByronAddress(test.KeyHash(0x44)), Amount: amount},
		},
		keys,
		network.Preview.NetworkMagic,
	)
	tx, err := txview.Decode(txview.EraByron, raw)
	require.NoError(t, err)
	return tx
}

func resolvedSet(coin uint64) utxo.Set {
	return utxo.NewSet(
		utxo.Entry{
			Ref: byronInput,
			Output: txview.TxOut{
				Address: txview.Address{Bytes: test.ByronAddress(test.KeyHash(0x45))},
				Value:   txview.NewValue(coin),
			},
			Resolved: true,
		},
	)
}

func TestByronFixture(t *testing.T) {
	tx := byronFixture(t, []test.Key{test.NewKey(1)}, 1_000_000)
	res := byron.Validate(
		validation.Context{Tx: tx, UTxOs: resolvedSet(2_000_000), Network: network.Preview},
	)
	assert.Equal(t, byron.EraName, res.Era)
	assert.Equal(t, validation.Names(byron.Checks), names(res))
	for _, name := range []string{"Transaction size", "Non empty inputs", "Outputs have value"} {
		v, ok := res.Get(name)
		require.True(t, ok, name)
		assert.True(t, v.Value, name)
	}
	assert.True(t, res.Passed(), "%+v", res.Validations)
}

func TestByronUnresolvedInput(t *testing.T) {
	tx := byronFixture(t, []test.Key{test.NewKey(1)}, 1_000_000)
	res := byron.Validate(validation.Context{Tx: tx, Network: network.Preview})
	v, ok := res.Get("All inputs in UTxOs")
	require.True(t, ok)
	assert.False(t, v.Value)
	assert.Contains(t, v.Description, "unresolved input")
	assert.Len(t, res.Validations, len(byron.Checks))
}

func TestByronFeeTooSmall(t *testing.T) {
	tx := byronFixture(t, []test.Key{test.NewKey(1)}, 1_000_000)
	res := byron.Validate(
		validation.Context{Tx: tx, UTxOs: resolvedSet(1_000_001), Network: network.Preview},
	)
	v, _ := res.Get("Fee")
	assert.False(t, v.Value)
	assert.Contains(t, v.Description, "fee too small")
}

func TestByronWitnesses(t *testing.T) {
	// no witness for the input
	tx := byronFixture(t, nil, 1_000_000)
	res := byron.Validate(
		validation.Context{Tx: tx, UTxOs: resolvedSet(2_000_000), Network: network.Preview},
	)
	v, _ := res.Get("Witness set")
	assert.False(t, v.Value)
	// signed for a different protocol magic
	tx = byronFixture(t, []test.Key{test.NewKey(1)}, 1_000_000)
	res = byron.Validate(
		validation.Context{Tx: tx, UTxOs: resolvedSet(2_000_000), Network: network.Mainnet},
	)
	v, _ = res.Get("Witness set")
	assert.False(t, v.Value)
	assert.Contains(t, v.Description, "invalid signature")
}

func TestByronStructuralChecks(t *testing.T) {
	tx := &txview.Tx{
		Era:     txview.EraByron,
		Outputs: []txview.TxOut{{Value: txview.NewValue(0)}},
	}
	res := byron.Validate(validation.Context{Tx: tx, Network: network.Mainnet})
	require.Len(t, res.Validations, len(byron.Checks))
	v, _ := res.Get("Non empty inputs")
	assert.False(t, v.Value)
	assert.Equal(t, "Error: input set empty", v.Description)
	v, _ = res.Get("Outputs have value")
	assert.False(t, v.Value)
	v, _ = res.Get("Non empty outputs")
	assert.True(t, v.Value)
}

func TestByronMinFee(t *testing.T) {
	tx := &txview.Tx{Raw: make([]byte, 1000)}
	// 155381 + 43946 exactly
	assert.Equal(t, uint64(199327), byron.MinFee(tx))
	tx = &txview.Tx{Raw: make([]byte, 1)}
	// 155381 + 43.946 rounds up
	assert.Equal(t, uint64(155425), byron.MinFee(tx))
}

func names(res validation.Validations) []string {
	ret := make([]string, 0, len(res.Validations))
	for _, v := range res.Validations {
		ret = append(ret, v.Name)
	}
	return ret
}
