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

package txview_test

import (
	"math/big"
	"testing"

	"github.com/blinklabs-io/tx-anatomy/txview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asset(policy byte, name string, qty int64) txview.MultiAsset {
	return txview.MultiAsset{
		{
			Policy: []byte{policy},
			Assets: []txview.Asset{{Name: []byte(name), Quantity: big.NewInt(qty)}},
		},
	}
}

func TestMultiAssetAddMerges(t *testing.T) {
	sum := asset(1, "a", 5).Add(asset(1, "a", 3)).Add(asset(2, "b", 1))
	require.Len(t, sum, 2)
	assert.Equal(t, int64(8), sum.Quantity([]byte{1}, []byte("a")).Int64())
	assert.Equal(t, int64(1), sum.Quantity([]byte{2}, []byte("b")).Int64())
	assert.Equal(t, 2, sum.NumAssets())
}

func TestMultiAssetSubDropsZero(t *testing.T) {
	diff := asset(1, "a", 5).Sub(asset(1, "a", 5))
	assert.Empty(t, diff)
	assert.True(t, asset(1, "a", 5).Equal(asset(1, "a", 5)))
	assert.False(t, asset(1, "a", 5).Equal(asset(1, "a", 4)))
}

func TestMultiAssetPositiveNegative(t *testing.T) {
	mint := asset(1, "a", 5).Add(asset(2, "b", -3))
	assert.Equal(t, int64(5), mint.Positive().Quantity([]byte{1}, []byte("a")).Int64())
	assert.Equal(t, int64(3), mint.Negative().Quantity([]byte{2}, []byte("b")).Int64())
	assert.Equal(t, 0, mint.Positive().Quantity([]byte{2}, []byte("b")).Sign())
	// the receiver is left untouched
	assert.Equal(t, int64(-3), mint.Quantity([]byte{2}, []byte("b")).Int64())
}

func TestValueEqual(t *testing.T) {
	a := txview.NewValue(10).Add(txview.Value{Coin: big.NewInt(0), Assets: asset(1, "x", 2)})
	b := txview.Value{Coin: big.NewInt(10), Assets: asset(1, "x", 2)}
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(txview.NewValue(10)))
	assert.False(t, a.Equal(b.AddCoin(big.NewInt(1))))
}

func TestValueMarshalCBOR(t *testing.T) {
	data, err := txview.NewValue(1_000_000).MarshalCBOR()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1a, 0x00, 0x0f, 0x42, 0x40}, data)

	v := txview.Value{Coin: big.NewInt(1), Assets: asset(1, "a", 1)}
	data, err = v.MarshalCBOR()
	require.NoError(t, err)
	// [1, {h'01': {h'61': 1}}]
	assert.Equal(t, []byte{0x82, 0x01, 0xa1, 0x41, 0x01, 0xa1, 0x41, 0x61, 0x01}, data)
}
