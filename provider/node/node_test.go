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

package node_test

import (
	"context"
	"encoding/hex"
	"math/big"
	"net"
	"testing"

	gcbor "github.com/blinklabs-io/gouroboros/cbor"
	"github.com/blinklabs-io/gouroboros/ledger"
	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
	"github.com/blinklabs-io/gouroboros/protocol"
	"github.com/blinklabs-io/gouroboros/protocol/localstatequery"
	ouroboros_mock "github.com/blinklabs-io/ouroboros-mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/tx-anatomy/internal/test"
	"github.com/blinklabs-io/tx-anatomy/network"
	"github.com/blinklabs-io/tx-anatomy/pparams"
	"github.com/blinklabs-io/tx-anatomy/provider"
	"github.com/blinklabs-io/tx-anatomy/provider/node"
	"github.com/blinklabs-io/tx-anatomy/txview"
)

func testUTxOResult(t *testing.T, addr []byte, coin uint64) localstatequery.UTxOsResult {
	t.Helper()
	address, err := lcommon.NewAddressFromBytes(addr)
	require.NoError(t, err)
	id := localstatequery.UtxoId{
		Hash: ledger.NewBlake2b256(test.TxHash(0x11)),
		Idx:  4,
	}
	return localstatequery.UTxOsResult{
		Results: map[localstatequery.UtxoId]ledger.BabbageTransactionOutput{
			id: {
				OutputAddress: address,
				OutputAmount: ledger.MaryTransactionOutputValue{
					Amount: coin,
				},
			},
		},
	}
}

func TestOutputsOf(t *testing.T) {
	addr := test.EnterpriseAddress(0, test.KeyHash(2))
	result := testUTxOResult(t, addr, 3_000_000)

	utxos, err := node.OutputsOf(&result)
	require.NoError(t, err)
	require.Len(t, utxos, 1)
	out, ok := utxos[txview.OutputRef{TxHash: hex.EncodeToString(test.TxHash(0x11)), Index: 4}]
	require.True(t, ok)
	assert.Equal(t, "3000000", out.Value.Coin.String())
	assert.Equal(t, addr, out.Address.Bytes)

	utxos, err = node.OutputsOf(&localstatequery.UTxOsResult{})
	require.NoError(t, err)
	assert.Empty(t, utxos)

	_, err = node.OutputsOf(nil)
	assert.Error(t, err)
}

var conversationHandshakeAcquire = []ouroboros_mock.ConversationEntry{
	ouroboros_mock.ConversationEntryHandshakeRequestGeneric,
	ouroboros_mock.ConversationEntryHandshakeNtCResponse,
	ouroboros_mock.ConversationEntryInput{
		ProtocolId:  localstatequery.ProtocolId,
		MessageType: localstatequery.MessageTypeAcquireVolatileTip,
	},
	ouroboros_mock.ConversationEntryOutput{
		ProtocolId: localstatequery.ProtocolId,
		IsResponse: true,
		Messages: []protocol.Message{
			localstatequery.NewMsgAcquired(),
		},
	},
}

// queryResults extends the handshake and acquire exchange with one query
// and result per entry
func queryResults(results ...[]byte) []ouroboros_mock.ConversationEntry {
	conversation := append([]ouroboros_mock.ConversationEntry{}, conversationHandshakeAcquire...)
	for _, result := range results {
		conversation = append(
			conversation,
			ouroboros_mock.ConversationEntryInput{
				ProtocolId:  localstatequery.ProtocolId,
				MessageType: localstatequery.MessageTypeQuery,
			},
			ouroboros_mock.ConversationEntryOutput{
				ProtocolId: localstatequery.ProtocolId,
				IsResponse: true,
				Messages: []protocol.Message{
					localstatequery.NewMsgResult(result),
				},
			},
		)
	}
	return conversation
}

// babbageEra is the current-era query result
var babbageEra = []byte{0x5}

func mockProvider(conversation []ouroboros_mock.ConversationEntry) *node.Provider {
	mockConn := ouroboros_mock.NewConnection(
		ouroboros_mock.ProtocolRoleClient,
		conversation,
	)
	go func() {
		<-mockConn.(*ouroboros_mock.Connection).ErrorChan()
	}()
	return node.New(
		"",
		network.Preview,
		node.WithDialer(func(context.Context) (net.Conn, error) {
			return mockConn, nil
		}),
	)
}

func TestLatestProtocolParameters(t *testing.T) {
	params := ledger.BabbageProtocolParameters{
		MinFeeA:          44,
		MinFeeB:          155381,
		MaxBlockBodySize: 90112,
		MaxTxSize:        16384,
		KeyDeposit:       2000000,
		PoolDeposit:      500000000,
		MaxEpoch:         18,
		NOpt:             500,
		A0:               &gcbor.Rat{Rat: big.NewRat(3, 10)},
		Rho:              &gcbor.Rat{Rat: big.NewRat(3, 1000)},
		Tau:              &gcbor.Rat{Rat: big.NewRat(2, 10)},
		ProtocolMajor:    9,
		MinPoolCost:      170000000,
		AdaPerUtxoByte:   4310,
		ExecutionCosts: lcommon.ExUnitPrice{
			MemPrice:  &gcbor.Rat{Rat: big.NewRat(577, 10000)},
			StepPrice: &gcbor.Rat{Rat: big.NewRat(721, 10000000)},
		},
		MaxTxExUnits: lcommon.ExUnits{
			Memory: 14000000,
			Steps:  10000000000,
		},
		MaxValueSize:         5000,
		CollateralPercentage: 150,
		MaxCollateralInputs:  3,
	}
	paramsCbor, err := gcbor.Encode([]ledger.BabbageProtocolParameters{params})
	require.NoError(t, err)
	p := mockProvider(queryResults(
		babbageEra,
		// [123456]
		test.DecodeHexString("811a0001e240"),
		babbageEra,
		paramsCbor,
	))

	ret, err := p.LatestProtocolParameters(context.Background(), "preview")
	require.NoError(t, err)
	assert.Equal(t, int64(123456), ret.Epoch)
	assert.Equal(t, int64(44), ret.MinFeeA)
	assert.Equal(t, int64(155381), ret.MinFeeB)
	assert.Equal(t, int64(2000000), ret.KeyDeposit)
	assert.Equal(t, int64(4310), ret.CoinsPerUtxoSize)
	assert.Equal(t, int64(150), ret.CollateralPercent)
	assert.Equal(t, int64(14000000), ret.MaxTxExMem)
	assert.Equal(t, int64(10000000000), ret.MaxTxExSteps)
	assert.Equal(t, pparams.Rational{Numerator: 3, Denominator: 1000}, ret.Rho)
	assert.Equal(t, pparams.Rational{Numerator: 577, Denominator: 10000}, ret.PriceMem)
}

func TestResolveOutput(t *testing.T) {
	addr := test.EnterpriseAddress(0, test.KeyHash(2))
	result := testUTxOResult(t, addr, 3_000_000)
	resultCbor, err := gcbor.Encode(result)
	require.NoError(t, err)

	p := mockProvider(queryResults(babbageEra, resultCbor))
	out, err := p.ResolveOutput(
		context.Background(),
		txview.OutputRef{TxHash: hex.EncodeToString(test.TxHash(0x11)), Index: 4},
		"preview",
	)
	require.NoError(t, err)
	assert.Equal(t, "3000000", out.Value.Coin.String())
	assert.Equal(t, addr, out.Address.Bytes)

	p = mockProvider(queryResults(babbageEra, resultCbor))
	_, err = p.ResolveOutput(
		context.Background(),
		txview.OutputRef{TxHash: hex.EncodeToString(test.TxHash(0x11)), Index: 5},
		"preview",
	)
	assert.ErrorIs(t, err, provider.ErrNotFound)
}

type fakeExUnits struct {
	Memory int64
	Steps  int64
}

type fakePrices struct {
	MemPrice  *gcbor.Rat
	StepPrice *gcbor.Rat
}

type fakeParams struct {
	MinFeeA              uint
	MinFeeB              uint
	MaxBlockBodySize     uint
	MaxTxSize            uint
	MaxEpoch             uint
	A0                   *gcbor.Rat
	Rho                  *gcbor.Rat
	ProtocolMajor        uint
	AdaPerUtxoByte       uint64
	CostModels           map[uint][]int64
	ExecutionCosts       fakePrices
	MaxTxExUnits         fakeExUnits
	MaxValueSize         uint
	CollateralPercentage uint
}

func TestConvertProtocolParams(t *testing.T) {
	src := &fakeParams{
		MinFeeA:          44,
		MinFeeB:          155381,
		MaxBlockBodySize: 90112,
		MaxTxSize:        16384,
		MaxEpoch:         18,
		A0:               &gcbor.Rat{Rat: big.NewRat(3, 10)},
		ProtocolMajor:    9,
		AdaPerUtxoByte:   4310,
		ExecutionCosts: fakePrices{
			MemPrice:  &gcbor.Rat{Rat: big.NewRat(577, 10000)},
			StepPrice: &gcbor.Rat{Rat: big.NewRat(721, 10000000)},
		},
		MaxTxExUnits:         fakeExUnits{Memory: 14000000, Steps: -1},
		MaxValueSize:         5000,
		CollateralPercentage: 150,
	}
	params, err := node.ConvertProtocolParams(src)
	require.NoError(t, err)
	assert.Equal(t, int64(44), params.MinFeeA)
	assert.Equal(t, int64(90112), params.MaxBlockSize)
	assert.Equal(t, int64(18), params.EMax)
	assert.Equal(t, int64(9), params.ProtocolMajorVer)
	assert.Equal(t, int64(4310), params.CoinsPerUtxoSize)
	assert.Equal(t, int64(5000), params.MaxValSize)
	assert.Equal(t, int64(150), params.CollateralPercent)
	assert.Equal(t, int64(14000000), params.MaxTxExMem)
	assert.Equal(t, int64(0), params.MaxTxExSteps)
	assert.Equal(t, pparams.Rational{Numerator: 3, Denominator: 10}, params.A0)
	// absent rationals stay zero
	assert.Equal(t, pparams.Rational{}, params.Rho)
	assert.Equal(t, pparams.Rational{Numerator: 577, Denominator: 10000}, params.PriceMem)

	_, err = node.ConvertProtocolParams(nil)
	assert.Error(t, err)
}

func TestWrongNetworkIsRejected(t *testing.T) {
	p := node.New("/nonexistent/node.socket", network.Preview)
	_, err := p.LatestProtocolParameters(context.Background(), "mainnet")
	assert.ErrorIs(t, err, node.ErrWrongNetwork)
	assert.ErrorContains(t, err, "node is on preview")
	// a custom network with a known magic is reported by its well-known name
	custom := node.New("/nonexistent/node.socket", network.Network{Name: "local", NetworkMagic: 1})
	_, err = custom.LatestProtocolParameters(context.Background(), "preview")
	assert.ErrorContains(t, err, "node is on preprod")
	_, err = node.New("/nonexistent/node.socket", network.Network{}).
		LatestProtocolParameters(context.Background(), "preview")
	assert.ErrorContains(t, err, "no network magic")
	_, err = p.TransactionOutputs(context.Background(), "00", "preview")
	assert.ErrorIs(t, err, provider.ErrNotImplemented)
	_, err = p.ResolveOutput(
		context.Background(),
		txview.OutputRef{TxHash: "zz", Index: 0},
		"preview",
	)
	assert.Error(t, err)
}

func TestDialFailure(t *testing.T) {
	p := node.New("/nonexistent/node.socket", network.Preview)
	_, err := p.ResolveOutput(
		context.Background(),
		txview.OutputRef{TxHash: hex.EncodeToString(test.TxHash(1)), Index: 0},
		"Preview",
	)
	assert.ErrorContains(t, err, "connect to node")
}
