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


package memory_test

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/tx-anatomy/internal/test"
	"github.com/blinklabs-io/tx-anatomy/provider"
	"github.com/blinklabs-io/tx-anatomy/provider/memory"
)

func writeSnapshot(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	addr := hex.EncodeToString(test.EnterpriseAddress(0, test.KeyHash(0x11)))
	txHash := hex.EncodeToString(test.TxHash(0xaa))
	path := writeSnapshot(t, fmt.Sprintf(`{
  "network": "Preview",
  "protocolParams": {"epoch": 42, "minFeeA": 44},
  "utxos": [
    {
      "txHash": %q,
      "index": 1,
      "address": %q,
      "coin": 18446744073709551616,
      "assets": [{"policy": "%s", "name": "74657374", "quantity": "5"}],
      "datumHash": "%s"
    }
  ]
}`, txHash, addr, hex.EncodeToString(test.KeyHash(0x33)), hex.EncodeToString(test.TxHash(0x44))))
	p, err := memory.LoadFile(path)
	require.NoError(t, err)
	ctx := context.Background()
	params, err := p.LatestProtocolParameters(ctx, "preview")
	require.NoError(t, err)
	assert.Equal(t, int64(42), params.Epoch)
	assert.Equal(t, int64(44), params.MinFeeA)
	outs, err := p.TransactionOutputs(ctx, txHash, "preview")
	require.NoError(t, err)
	require.Len(t, outs, 1)
	assert.Equal(t, uint32(1), outs[0].Index)
	// coin beyond uint64 survives
	assert.Equal(t, "18446744073709551616", outs[0].Output.Value.Coin.String())
	require.Len(t, outs[0].Output.Value.Assets, 1)
	assert.Equal(t, test.TxHash(0x44), outs[0].Output.DatumHash)
	assert.Equal(t, 1, p.Lookups())
}

func TestLoadFileErrors(t *testing.T) {
	_, err := memory.LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	_, err = memory.LoadFile(writeSnapshot(t, `{"utxos": [`))
	require.Error(t, err)
	_, err = memory.LoadFile(writeSnapshot(t, `{"utxos": [{"txHash": "aa", "address": "!!", "coin": 1}]}`))
	require.Error(t, err)
	addr := hex.EncodeToString(test.EnterpriseAddress(0, test.KeyHash(0x11)))
	_, err = memory.LoadFile(writeSnapshot(t, fmt.Sprintf(`{"utxos": [{"txHash": "aa", "address": %q, "coin": -1}]}`, addr)))
	require.Error(t, err)
}

func TestNotFound(t *testing.T) {
	p := memory.New()
	ctx := context.Background()
	_, err := p.TransactionOutputs(ctx, "aa", "mainnet")
	assert.ErrorIs(t, err, provider.ErrNotFound)
	_, err = p.LatestProtocolParameters(ctx, "mainnet")
	assert.ErrorIs(t, err, provider.ErrNotFound)
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = p.TransactionOutputs(cancelled, "aa", "mainnet")
	assert.ErrorIs(t, err, context.Canceled)
}
