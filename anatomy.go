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


// Package anatomy decodes Cardano transactions and blocks into diagnostic
// trees and runs the ledger rule battery of the transaction's era against
// them.
//
// An Inspector holds no per-call state. Inputs are resolved through the
// configured provider once per validation call.
package anatomy

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"

	"github.com/blinklabs-io/tx-anatomy/diagnostic"
	"github.com/blinklabs-io/tx-anatomy/network"
	"github.com/blinklabs-io/tx-anatomy/pparams"
	"github.com/blinklabs-io/tx-anatomy/provider"
	"github.com/blinklabs-io/tx-anatomy/render"
	"github.com/blinklabs-io/tx-anatomy/txview"
	"github.com/blinklabs-io/tx-anatomy/utxo"
	"github.com/blinklabs-io/tx-anatomy/validation"
)

// DefaultEra is used when a validation request names an era we don't know
const DefaultEra = txview.EraBabbage

// ValidationContext carries the caller-supplied environment of a validation
// request
type ValidationContext struct {
	ProtocolParams pparams.ProtocolParams `json:"protocolParams"`
	Network        string                 `json:"network"`
	Era            string                 `json:"era"`
	BlockSlot      uint64                 `json:"blockSlot"`
}

type Inspector struct {
	provider            provider.Provider
	logger              *slog.Logger
	resolverConcurrency int
	blockWorkers        int
}

// New returns an Inspector. Without a provider, every input is reported as
// unresolved and parameter fetches return the defaults.
func New(opts ...InspectorOptionFunc) *Inspector {
	i := &Inspector{
		logger:       slog.Default(),
		blockWorkers: 1,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func decodeHex(rawHex string) ([]byte, error) {
	ret, err := hex.DecodeString(strings.TrimSpace(rawHex))
	if err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	return ret, nil
}

// DecodeAndRenderTransaction renders a hex-encoded transaction of any era.
// Failures are reported on the returned section and never returned.
func (i *Inspector) DecodeAndRenderTransaction(rawHex string) *diagnostic.Section {
	raw, err := decodeHex(rawHex)
	if err != nil {
		return diagnostic.ErrorSection(err)
	}
	tx, err := txview.DecodeAny(raw)
	if err != nil {
		return diagnostic.ErrorSection(err)
	}
	return render.Transaction(tx)
}

// DecodeAndRenderBlock renders a hex-encoded, era-tagged block
func (i *Inspector) DecodeAndRenderBlock(rawHex string) *diagnostic.Section {
	raw, err := decodeHex(rawHex)
	if err != nil {
		return diagnostic.New().WithTopic(render.RootTopic).WithError(err)
	}
	return render.Block(raw)
}

// ParseAddress describes a bech32, base58 or hex address
func (i *Inspector) ParseAddress(raw string) *diagnostic.Section {
	return render.Address(raw)
}

// ValidateTransaction decodes a transaction with the codec of the requested
// era, resolves its inputs and runs that era's checks. A transaction that
// fails to decode yields an error-only section and an empty report.
func (i *Inspector) ValidateTransaction(
	ctx context.Context,
	rawHex string,
	vctx ValidationContext,
) (*diagnostic.Section, validation.Validations) {
	era, ok := txview.EraByName(vctx.Era)
	if !ok {
		i.logger.Warn(
			"unknown era, using default",
			"component", "anatomy",
			"era", vctx.Era,
			"default", DefaultEra.String(),
		)
		era = DefaultEra
	}
	raw, err := decodeHex(rawHex)
	if err != nil {
		return diagnostic.ErrorSection(err), validation.Empty(eraTag(era))
	}
	tx, err := txview.Decode(era, raw)
	if err != nil {
		return diagnostic.ErrorSection(err), validation.Empty(eraTag(era))
	}
	net := i.resolveNetwork(vctx.Network)
	valCtx := validation.Context{
		Tx:      tx,
		Network: net,
		Slot:    vctx.BlockSlot,
	}
	// Conway has no checks to feed
	if tx.Era != txview.EraConway {
		valCtx.UTxOs = i.resolve(ctx, tx, net)
	}
	return render.Transaction(tx), i.runBattery(valCtx, vctx.ProtocolParams)
}

// resolveNetwork looks up a network by name and logs the fallback to the
// default network
func (i *Inspector) resolveNetwork(name string) network.Network {
	net, fellBack := network.Resolve(name)
	if fellBack {
		i.logger.Warn(
			"unknown network, using default",
			"component", "anatomy",
			"network", name,
			"default", net.Name,
		)
	}
	return net
}

func (i *Inspector) resolve(ctx context.Context, tx *txview.Tx, net network.Network) utxo.Set {
	if i.provider == nil {
		i.logger.Debug(
			"no provider configured, inputs stay unresolved",
			"component", "anatomy",
			"tx_hash", tx.Hash,
		)
		return utxo.NewSet()
	}
	resolver := utxo.NewResolver(
		i.provider,
		utxo.WithLogger(i.logger),
		utxo.WithConcurrency(i.resolverConcurrency),
	)
	return resolver.Resolve(ctx, tx, net.Name)
}

// FetchLatestProtocolParameters asks the provider for the parameters of the
// current epoch. Failures are logged and yield pparams.Default.
func (i *Inspector) FetchLatestProtocolParameters(
	ctx context.Context,
	networkName string,
) pparams.ProtocolParams {
	net := i.resolveNetwork(networkName)
	if i.provider == nil {
		i.logger.Warn(
			"no provider configured, using default protocol parameters",
			"component", "anatomy",
			"network", net.Name,
		)
		return pparams.Default()
	}
	params, err := i.provider.LatestProtocolParameters(ctx, net.Name)
	if err != nil {
		i.logger.Error(
			"failed to fetch protocol parameters",
			"component", "anatomy",
			"network", net.Name,
			"error", err,
		)
		return pparams.Default()
	}
	return params
}
