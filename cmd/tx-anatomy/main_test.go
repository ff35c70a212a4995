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


package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/tx-anatomy/config"
	"github.com/blinklabs-io/tx-anatomy/diagnostic"
	"github.com/blinklabs-io/tx-anatomy/internal/test"
	"github.com/blinklabs-io/tx-anatomy/pparams"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	for _, env := range []string{
		config.EnvMainnetProjectId,
		config.EnvPreprodProjectId,
		config.EnvPreviewProjectId,
		config.EnvNodeSocket,
	} {
		t.Setenv(env, "")
	}
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestTxCommand(t *testing.T) {
	out, err := run(t, "", "tx", test.BabbageTxHex)
	require.NoError(t, err)
	var root diagnostic.Section
	require.NoError(t, json.Unmarshal([]byte(out), &root))
	v, ok := root.Child("tx").Attr("tx_hash")
	require.True(t, ok)
	assert.Equal(t, test.BabbageTxHash, *v)
}

func TestAddressCommandStdin(t *testing.T) {
	addr := hex.EncodeToString(test.EnterpriseAddress(0, test.KeyHash(0x22)))
	out, err := run(t, addr+"\n", "address")
	require.NoError(t, err)
	var s diagnostic.Section
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	v, ok := s.Attr("network")
	require.True(t, ok)
	assert.Equal(t, "testnet", *v)
}

func TestBlockCommand(t *testing.T) {
	out, err := run(t, "", "block", test.ByronMainBlockEnvelopeHex())
	require.NoError(t, err)
	assert.Contains(t, out, test.ByronMainBlockHash)
}

func TestBlockCommandValidate(t *testing.T) {
	out, err := run(t, "", "block", "--validate", test.ByronMainBlockEnvelopeHex())
	require.NoError(t, err)
	var res blockValidateResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Transactions, 2)
	for _, tx := range res.Transactions {
		assert.Len(t, tx.TxHash, 64)
		assert.Equal(t, "Byron", tx.Validations.Era)
	}
}

func TestParamsCommandWithoutProvider(t *testing.T) {
	out, err := run(t, "", "params", "--network", "preview")
	require.NoError(t, err)
	var params pparams.ProtocolParams
	require.NoError(t, json.Unmarshal([]byte(out), &params))
	assert.Equal(t, pparams.Default(), params)
}

func TestValidateCommand(t *testing.T) {
	paramsFile := filepath.Join(t.TempDir(), "params.json")
	require.NoError(t, os.WriteFile(paramsFile, []byte(`{"minFeeA": 44, "minFeeB": 155381, "maxTxSize": 16384}`), 0o600))
	out, err := run(t, "", "validate", "--era", "Babbage", "--params", paramsFile, test.BabbageTxHex)
	require.NoError(t, err)
	var res validateResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "Babbage", res.Validations.Era)
	assert.NotEmpty(t, res.Validations.Validations)
	// no provider, so the inputs stay unresolved
	v, ok := res.Validations.Get("All inputs in UTxOs")
	require.True(t, ok)
	assert.False(t, v.Value)

	_, err = run(t, "", "validate", "--strict", "--params", paramsFile, test.BabbageTxHex)
	assert.ErrorIs(t, err, errValidationFailed)
}

func TestValidateCommandMalformed(t *testing.T) {
	out, err := run(t, "", "validate", "--era", "Alonzo", "zz")
	require.NoError(t, err)
	var res validateResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.NotNil(t, res.Tree.Error)
	assert.Equal(t, "Alonzo", res.Validations.Era)
	assert.Empty(t, res.Validations.Validations)
}

func TestInvalidFlags(t *testing.T) {
	_, err := run(t, "", "tx", "--log-level", "loud", "00")
	assert.ErrorIs(t, err, config.ErrInvalidLogLevel)
	_, err = run(t, "", "params", "--network", "atlantis")
	assert.ErrorIs(t, err, config.ErrUnknownNetwork)
}
