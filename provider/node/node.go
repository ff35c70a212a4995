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

// Package node implements the chain-data provider against a local
// cardano-node using the node-to-client local-state-query mini-protocol
package node

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net"

	ouroboros "github.com/blinklabs-io/gouroboros"
	"github.com/blinklabs-io/gouroboros/protocol/localstatequery"

	"github.com/blinklabs-io/tx-anatomy/network"
	"github.com/blinklabs-io/tx-anatomy/pparams"
	"github.com/blinklabs-io/tx-anatomy/provider"
	"github.com/blinklabs-io/tx-anatomy/txview"
)

// Compile-time checks
var (
	_ provider.Provider       = (*Provider)(nil)
	_ provider.OutputResolver = (*Provider)(nil)
)

// ErrWrongNetwork is returned when a query names a network other than the
// one the node runs on
var ErrWrongNetwork = errors.New("node is on a different network")

// Provider queries a local node over its UNIX socket. A connection is
// opened for each query and closed afterwards.
type Provider struct {
	socketPath string
	network    network.Network
	logger     *slog.Logger
	dialer     DialFunc
}

// DialFunc opens the connection to the node
type DialFunc func(ctx context.Context) (net.Conn, error)

// ProviderOptionFunc is a type that represents functions that modify the
// Provider config
type ProviderOptionFunc func(*Provider)

// New returns a provider for the node listening on socketPath
func New(socketPath string, n network.Network, opts ...ProviderOptionFunc) *Provider {
	p := &Provider{
		socketPath: socketPath,
		network:    n,
		logger:     slog.Default(),
	}
	p.dialer = p.dialSocket
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WithDialer replaces the UNIX socket dialer, for nodes reached over a
// forwarded TCP port
func WithDialer(dialer DialFunc) ProviderOptionFunc {
	return func(p *Provider) {
		if dialer != nil {
			p.dialer = dialer
		}
	}
}

func (p *Provider) dialSocket(ctx context.Context) (net.Conn, error) {
	var dialer net.Dialer
	return dialer.DialContext(ctx, "unix", p.socketPath)
}

// WithLogger specifies the logger to use
func WithLogger(logger *slog.Logger) ProviderOptionFunc {
	return func(p *Provider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// TransactionOutputs is not supported: the ledger state is keyed by output
// reference, not by transaction
func (p *Provider) TransactionOutputs(
	ctx context.Context,
	txHash string,
	networkName string,
) ([]provider.IndexedOutput, error) {
	return nil, fmt.Errorf("node provider: listing outputs by transaction: %w", provider.ErrNotImplemented)
}

// ResolveOutput looks up a single unspent output. The by-input query result
// is keyed by [txid, index] arrays, which the client cannot decode into its
// untyped result, so the typed whole-UTxO query is filtered instead. On
// mainnet that result is large and the Blockfrost provider is the better
// fit.
func (p *Provider) ResolveOutput(
	ctx context.Context,
	ref txview.OutputRef,
	networkName string,
) (txview.TxOut, error) {
	if txHash, err := hex.DecodeString(ref.TxHash); err != nil || len(txHash) != txview.Blake2b256Size {
		return txview.TxOut{}, fmt.Errorf("invalid transaction hash: %q", ref.TxHash)
	}
	var ret txview.TxOut
	err := p.withClient(ctx, networkName, func(client *localstatequery.Client) error {
		result, err := client.GetUTxOWhole()
		if err != nil {
			return fmt.Errorf("query utxo: %w", err)
		}
		utxos, err := OutputsOf(result)
		if err != nil {
			return err
		}
		out, ok := utxos[ref]
		if !ok {
			return fmt.Errorf("output %s: %w", ref.String(), provider.ErrNotFound)
		}
		ret = out
		return nil
	})
	if err != nil {
		return txview.TxOut{}, err
	}
	return ret, nil
}

func (p *Provider) LatestProtocolParameters(
	ctx context.Context,
	networkName string,
) (pparams.ProtocolParams, error) {
	var ret pparams.ProtocolParams
	err := p.withClient(ctx, networkName, func(client *localstatequery.Client) error {
		epoch, err := client.GetEpochNo()
		if err != nil {
			return fmt.Errorf("query epoch: %w", err)
		}
		params, err := client.GetCurrentProtocolParams()
		if err != nil {
			return fmt.Errorf("query protocol parameters: %w", err)
		}
		ret, err = ConvertProtocolParams(params)
		if err != nil {
			return err
		}
		ret.Epoch = int64(epoch)
		return nil
	})
	if err != nil {
		return pparams.ProtocolParams{}, err
	}
	return ret, nil
}

func (p *Provider) withClient(
	ctx context.Context,
	networkName string,
	fn func(*localstatequery.Client) error,
) error {
	if !p.network.IsKnown() {
		return errors.New("node provider: no network magic configured")
	}
	if n, ok := network.Lookup(networkName); !ok || n.NetworkMagic != p.network.NetworkMagic {
		onNode := p.network.Name
		if known, ok := network.ByNetworkMagic(p.network.NetworkMagic); ok {
			onNode = known.Name
		}
		return fmt.Errorf("%q (node is on %s): %w", networkName, onNode, ErrWrongNetwork)
	}
	netConn, err := p.dialer(ctx)
	if err != nil {
		return fmt.Errorf("connect to node: %w", err)
	}
	errorChan := make(chan error, 1)
	conn, err := ouroboros.NewConnection(
		ouroboros.WithConnection(netConn),
		ouroboros.WithNetworkMagic(p.network.NetworkMagic),
		ouroboros.WithErrorChan(errorChan),
		ouroboros.WithNodeToNode(false),
		ouroboros.WithKeepAlive(false),
		ouroboros.WithLocalStateQueryConfig(localstatequery.NewConfig()),
	)
	if err != nil {
		netConn.Close()
		return fmt.Errorf("connect to node: %w", err)
	}
	defer conn.Close()
	p.logger.Debug(
		"connected to node",
		"component", "provider",
		"network", p.network.Name,
		"socket", p.socketPath,
	)
	done := make(chan error, 1)
	go func() {
		done <- fn(conn.LocalStateQuery().Client)
	}()
	select {
	case err := <-done:
		return err
	case err := <-errorChan:
		return fmt.Errorf("node connection: %w", err)
	case <-ctx.Done():
		return ctx.Err()
	}
}
