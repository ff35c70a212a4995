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

// Package memory provides an in-memory chain-data provider, used by tests
// and by the CLI when working from a snapshot file
package memory

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"strings"
	"sync"

	"github.com/blinklabs-io/tx-anatomy/pparams"
	"github.com/blinklabs-io/tx-anatomy/provider"
	"github.com/blinklabs-io/tx-anatomy/txview"
)

// Compile-time check
var _ provider.Provider = (*Provider)(nil)

// Provider serves outputs and parameters from memory. It is safe for
// concurrent use.
type Provider struct {
	mu      sync.Mutex
	outputs map[string]map[string][]provider.IndexedOutput
	params  map[string]pparams.ProtocolParams
	lookups int
	// LookupFunc, when set, runs before every output lookup and can fail it
	LookupFunc func(ctx context.Context, txHash string) error
}

// New returns an empty provider
func New() *Provider {
	return &Provider{
		outputs: make(map[string]map[string][]provider.IndexedOutput),
		params:  make(map[string]pparams.ProtocolParams),
	}
}

func networkKey(network string) string {
	return strings.ToLower(strings.TrimSpace(network))
}

// AddOutput registers an output under network
func (p *Provider) AddOutput(network string, ref txview.OutputRef, out txview.TxOut) {
	p.mu.Lock()
	defer p.mu.Unlock()
	key := networkKey(network)
	if p.outputs[key] == nil {
		p.outputs[key] = make(map[string][]provider.IndexedOutput)
	}
	txHash := strings.ToLower(ref.TxHash)
	p.outputs[key][txHash] = append(
		p.outputs[key][txHash],
		provider.IndexedOutput{Index: ref.Index, Output: out},
	)
}

// SetProtocolParameters registers the latest parameters for network
func (p *Provider) SetProtocolParameters(network string, params pparams.ProtocolParams) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.params[networkKey(network)] = params
}

// Lookups returns the number of output lookups served so far
func (p *Provider) Lookups() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lookups
}

func (p *Provider) TransactionOutputs(
	ctx context.Context,
	txHash string,
	network string,
) ([]provider.IndexedOutput, error) {
	p.mu.Lock()
	p.lookups++
	lookupFunc := p.LookupFunc
	p.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if lookupFunc != nil {
		if err := lookupFunc(ctx, txHash); err != nil {
			return nil, err
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	outputs, ok := p.outputs[networkKey(network)][strings.ToLower(txHash)]
	if !ok {
		return nil, fmt.Errorf("transaction %s: %w", txHash, provider.ErrNotFound)
	}
	return append([]provider.IndexedOutput(nil), outputs...), nil
}

func (p *Provider) LatestProtocolParameters(
	ctx context.Context,
	network string,
) (pparams.ProtocolParams, error) {
	if err := ctx.Err(); err != nil {
		return pparams.ProtocolParams{}, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	params, ok := p.params[networkKey(network)]
	if !ok {
		return pparams.ProtocolParams{}, fmt.Errorf(
			"protocol parameters for %s: %w",
			network,
			provider.ErrNotFound,
		)
	}
	return params, nil
}

// Snapshot is the on-disk form loaded by LoadFile
type Snapshot struct {
	Network        string                  `json:"network"`
	ProtocolParams *pparams.ProtocolParams `json:"protocolParams"`
	Utxos          []SnapshotUtxo          `json:"utxos"`
}

// SnapshotUtxo is one output in a snapshot file
type SnapshotUtxo struct {
	TxHash      string          `json:"txHash"`
	Index       uint32          `json:"index"`
	Address     string          `json:"address"`
	Coin        json.Number     `json:"coin"`
	Assets      []SnapshotAsset `json:"assets"`
	DatumHash   string          `json:"datumHash"`
	InlineDatum string          `json:"inlineDatum"`
}

// SnapshotAsset is a native asset in a snapshot file
type SnapshotAsset struct {
	Policy   string      `json:"policy"`
	Name     string      `json:"name"`
	Quantity json.Number `json:"quantity"`
}

// LoadFile reads a JSON snapshot into a new provider
func LoadFile(path string) (*Provider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", path, err)
	}
	p := New()
	if snap.ProtocolParams != nil {
		p.SetProtocolParameters(snap.Network, *snap.ProtocolParams)
	}
	for idx, utxo := range snap.Utxos {
		out, err := utxo.toOutput()
		if err != nil {
			return nil, fmt.Errorf("snapshot %s: utxo %d: %w", path, idx, err)
		}
		p.AddOutput(
			snap.Network,
			txview.OutputRef{TxHash: utxo.TxHash, Index: utxo.Index},
			out,
		)
	}
	return p, nil
}

func (u SnapshotUtxo) toOutput() (txview.TxOut, error) {
	addr, err := txview.ParseAddress(u.Address)
	if err != nil {
		return txview.TxOut{}, err
	}
	coin, ok := new(big.Int).SetString(u.Coin.String(), 10)
	if !ok || coin.Sign() < 0 {
		return txview.TxOut{}, fmt.Errorf("invalid coin: %q", u.Coin)
	}
	out := txview.TxOut{
		Address: addr,
		Value:   txview.Value{Coin: coin},
	}
	for _, asset := range u.Assets {
		policy, err := hex.DecodeString(asset.Policy)
		if err != nil {
			return txview.TxOut{}, fmt.Errorf("asset policy: %w", err)
		}
		name, err := hex.DecodeString(asset.Name)
		if err != nil {
			return txview.TxOut{}, fmt.Errorf("asset name: %w", err)
		}
		qty, ok := new(big.Int).SetString(asset.Quantity.String(), 10)
		if !ok {
			return txview.TxOut{}, fmt.Errorf("invalid asset quantity: %q", asset.Quantity)
		}
		out.Value.Assets = out.Value.Assets.Add(
			txview.MultiAsset{
				{Policy: policy, Assets: []txview.Asset{{Name: name, Quantity: qty}}},
			},
		)
	}
	if u.DatumHash != "" {
		if out.DatumHash, err = hex.DecodeString(u.DatumHash); err != nil {
			return txview.TxOut{}, fmt.Errorf("datum hash: %w", err)
		}
	}
	if u.InlineDatum != "" {
		if out.InlineDatum, err = hex.DecodeString(u.InlineDatum); err != nil {
			return txview.TxOut{}, fmt.Errorf("inline datum: %w", err)
		}
	}
	return out, nil
}
