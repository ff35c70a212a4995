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

package blockfrost_test

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blinklabs-io/tx-anatomy/internal/test"
	"github.com/blinklabs-io/tx-anatomy/pparams"
	"github.com/blinklabs-io/tx-anatomy/provider"
	"github.com/blinklabs-io/tx-anatomy/provider/blockfrost"
	"github.com/blinklabs-io/tx-anatomy/txview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTxHash = "6c732139de33e916342707de2aebef2252c781640326ff37b86ec99d97f1ba8d"

func newServer(t *testing.T, projectId string) *httptest.Server {
	t.Helper()
	policy := hex.EncodeToString(test.KeyHash(0xaa))
	addr := txview.Address{Bytes: test.EnterpriseAddress(0, test.KeyHash(1))}.String()
	mux := http.NewServeMux()
	mux.HandleFunc("/txs/"+testTxHash+"/utxos", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("project_id") != projectId {
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"status_code":403,"error":"Forbidden","message":"Invalid project token."}`)
			return
		}
		fmt.Fprintf(w, `{
			"hash": %q,
			"inputs": [],
			"outputs": [
				{
					"address": %q,
					"amount": [{"unit": "lovelace", "quantity": "42000000"}],
					"output_index": 0,
					"data_hash": null,
					"inline_datum": null,
					"collateral": false,
					"reference_script_hash": null
				},
				{
					"address": %q,
					"amount": [
						{"unit": "lovelace", "quantity": "1500000"},
						{"unit": "%s746f6b656e", "quantity": "12"}
					],
					"output_index": 1,
					"data_hash": "923918e403bf43c34b4ef6b48eb2ee04babed17320d8d1b9ff9ad086e86f44ec",
					"inline_datum": "d87980",
					"collateral": false,
					"reference_script_hash": null
				}
			]
		}`, testTxHash, addr, addr, policy)
	})
	mux.HandleFunc("/epochs/latest/parameters", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"epoch": 500,
			"min_fee_a": 44,
			"min_fee_b": 155381,
			"max_block_size": 90112,
			"max_tx_size": 16384,
			"max_block_header_size": 1100,
			"key_deposit": "2000000",
			"pool_deposit": "500000000",
			"e_max": 18,
			"n_opt": 500,
			"a0": 0.3,
			"rho": 0.003,
			"tau": 0.2,
			"decentralisation_param": 0,
			"extra_entropy": null,
			"protocol_major_ver": 9,
			"protocol_minor_ver": 0,
			"min_utxo": "4310",
			"min_pool_cost": "170000000",
			"price_mem": 0.0577,
			"price_step": 7.21e-05,
			"max_tx_ex_mem": "14000000",
			"max_tx_ex_steps": "10000000000",
			"max_block_ex_mem": "62000000",
			"max_block_ex_steps": "20000000000",
			"max_val_size": "5000",
			"collateral_percent": 150,
			"max_collateral_inputs": 3,
			"coins_per_utxo_size": "4310",
			"coins_per_utxo_word": "4310"
		}`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestTransactionOutputs(t *testing.T) {
	server := newServer(t, "preview-key")
	p := blockfrost.New(
		blockfrost.WithBaseURL("Preview", server.URL),
		blockfrost.WithProjectId("Preview", "preview-key"),
	)
	outputs, err := p.TransactionOutputs(context.Background(), testTxHash, "preview")
	require.NoError(t, err)
	require.Len(t, outputs, 2)
	assert.Equal(t, uint32(1), outputs[1].Index)
	assert.Equal(t, "42000000", outputs[0].Output.Value.Coin.String())
	out := outputs[1].Output
	assert.Equal(t, "1500000", out.Value.Coin.String())
	assert.Equal(
		t,
		"12",
		out.Value.Assets.Quantity(test.KeyHash(0xaa), []byte("token")).String(),
	)
	assert.Nil(t, out.DatumHash)
	assert.Equal(t, []byte{0xd8, 0x79, 0x80}, out.InlineDatum)

	resolved, err := provider.ResolveOutput(
		context.Background(),
		p,
		txview.OutputRef{TxHash: testTxHash, Index: 1},
		"Preview",
	)
	require.NoError(t, err)
	assert.Equal(t, "1500000", resolved.Value.Coin.String())
}

func TestProjectIdIsSent(t *testing.T) {
	server := newServer(t, "right")
	p := blockfrost.New(
		blockfrost.WithBaseURL("preview", server.URL),
		blockfrost.WithProjectId("preview", "wrong"),
	)
	_, err := p.TransactionOutputs(context.Background(), testTxHash, "preview")
	var apiErr *blockfrost.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "Invalid project token.", apiErr.Message)
}

func TestNotFound(t *testing.T) {
	server := newServer(t, "key")
	p := blockfrost.New(
		blockfrost.WithBaseURL("preview", server.URL),
		blockfrost.WithProjectId("preview", "key"),
	)
	_, err := p.TransactionOutputs(context.Background(), "00", "preview")
	assert.ErrorIs(t, err, provider.ErrNotFound)
}

func TestMissingProjectId(t *testing.T) {
	p := blockfrost.New()
	_, err := p.LatestProtocolParameters(context.Background(), "mainnet")
	assert.ErrorIs(t, err, blockfrost.ErrNoProjectId)
	_, err = p.LatestProtocolParameters(context.Background(), "sanchonet")
	assert.ErrorIs(t, err, provider.ErrNotImplemented)
}

func TestLatestProtocolParameters(t *testing.T) {
	server := newServer(t, "key")
	p := blockfrost.New(
		blockfrost.WithBaseURL("mainnet", server.URL),
		blockfrost.WithProjectId("mainnet", "key"),
	)
	params, err := p.LatestProtocolParameters(context.Background(), "Mainnet")
	require.NoError(t, err)
	assert.Equal(t, int64(500), params.Epoch)
	assert.Equal(t, int64(44), params.MinFeeA)
	assert.Equal(t, int64(2000000), params.KeyDeposit)
	assert.Equal(t, int64(10000000000), params.MaxTxExSteps)
	assert.Equal(t, int64(4310), params.CoinsPerUtxoSize)
	assert.Equal(t, pparams.Rational{Numerator: 3, Denominator: 10}, params.A0)
	assert.Equal(t, pparams.Rational{Numerator: 577, Denominator: 10000}, params.PriceMem)
	assert.Equal(t, pparams.Rational{Numerator: 721, Denominator: 10000000}, params.PriceStep)
	assert.Equal(t, pparams.Rational{Numerator: 0, Denominator: 1}, params.DecentralisationParam)
}

func TestParseRational(t *testing.T) {
	testDefs := []struct {
		input    string
		expected pparams.Rational
	}{
		{"0.0577", pparams.Rational{Numerator: 577, Denominator: 10000}},
		{"7.21e-05", pparams.Rational{Numerator: 721, Denominator: 10000000}},
		{"0.30", pparams.Rational{Numerator: 30, Denominator: 100}},
		{"2", pparams.Rational{Numerator: 2, Denominator: 1}},
		{"1.5E2", pparams.Rational{Numerator: 150, Denominator: 1}},
		{"-0.5", pparams.Rational{Numerator: -5, Denominator: 10}},
	}
	for _, testDef := range testDefs {
		r, err := blockfrost.ParseRational(testDef.input)
		require.NoError(t, err, testDef.input)
		assert.Equal(t, testDef.expected, r, testDef.input)
	}
	for _, bad := range []string{"", "abc", "1.2.3", "1e"} {
		_, err := blockfrost.ParseRational(bad)
		assert.Error(t, err, bad)
	}
}

func TestReferenceScripts(t *testing.T) {
	plutus := txview.Script{Language: txview.ScriptPlutusV2, Bytes: []byte{0x4d, 0x01, 0x00, 0x00}}
	native := txview.Script{
		Language: txview.ScriptNative,
		Bytes:    test.Encode([]any{1, []any{[]any{0, test.KeyHash(0x05)}, []any{5, 9000}}}),
	}
	plutusHash := hex.EncodeToString(plutus.Hash())
	nativeHash := hex.EncodeToString(native.Hash())
	badHash := hex.EncodeToString(test.KeyHash(0xee))
	addr := txview.Address{Bytes: test.EnterpriseAddress(0, test.KeyHash(1))}.String()
	output := func(idx int, scriptHash string) string {
		return fmt.Sprintf(`{
			"address": %q,
			"amount": [{"unit": "lovelace", "quantity": "2000000"}],
			"output_index": %d,
			"reference_script_hash": %q
		}`, addr, idx, scriptHash)
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/txs/"+testTxHash+"/utxos", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"outputs": [%s, %s]}`, output(0, plutusHash), output(1, nativeHash))
	})
	mux.HandleFunc("/txs/00/utxos", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"outputs": [%s]}`, output(0, badHash))
	})
	mux.HandleFunc("/scripts/"+plutusHash, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"script_hash": %q, "type": "plutusV2"}`, plutusHash)
	})
	mux.HandleFunc("/scripts/"+plutusHash+"/cbor", func(w http.ResponseWriter, r *http.Request) {
		// served wrapped in one more byte string
		fmt.Fprintf(w, `{"cbor": %q}`, hex.EncodeToString(test.Encode(plutus.Bytes)))
	})
	mux.HandleFunc("/scripts/"+nativeHash, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"script_hash": %q, "type": "timelock"}`, nativeHash)
	})
	mux.HandleFunc("/scripts/"+nativeHash+"/json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"json": {"type": "all", "scripts": [
			{"type": "sig", "keyHash": %q},
			{"type": "before", "slot": 9000}
		]}}`, hex.EncodeToString(test.KeyHash(0x05)))
	})
	mux.HandleFunc("/scripts/"+badHash, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"script_hash": %q, "type": "plutusV1"}`, badHash)
	})
	mux.HandleFunc("/scripts/"+badHash+"/cbor", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"cbor": "4401020304"}`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	p := blockfrost.New(
		blockfrost.WithBaseURL("preview", server.URL),
		blockfrost.WithProjectId("preview", "key"),
	)

	outputs, err := p.TransactionOutputs(context.Background(), testTxHash, "preview")
	require.NoError(t, err)
	require.Len(t, outputs, 2)
	require.NotNil(t, outputs[0].Output.ScriptRef)
	assert.Equal(t, plutus, *outputs[0].Output.ScriptRef)
	require.NotNil(t, outputs[1].Output.ScriptRef)
	assert.Equal(t, native, *outputs[1].Output.ScriptRef)

	_, err = p.TransactionOutputs(context.Background(), "00", "preview")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content hashes to")
}
