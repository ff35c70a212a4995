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

// Package provider defines the chain-data capability used to resolve spent
// outputs and to fetch current protocol parameters.
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/blinklabs-io/tx-anatomy/pparams"
	"github.com/blinklabs-io/tx-anatomy/txview"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrNotImplemented = errors.New("not implemented")
)

// IndexedOutput is an output of a transaction together with its index
type IndexedOutput struct {
	Index  uint32
	Output txview.TxOut
}

// Provider answers chain queries for a named network. Every method may fail.
type Provider interface {
	// TransactionOutputs returns all outputs of the transaction
	TransactionOutputs(ctx context.Context, txHash string, network string) ([]IndexedOutput, error)
	// LatestProtocolParameters returns the parameters of the current epoch
	LatestProtocolParameters(ctx context.Context, network string) (pparams.ProtocolParams, error)
}

// OutputResolver is implemented by providers that can look up a single
// output directly
type OutputResolver interface {
	ResolveOutput(ctx context.Context, ref txview.OutputRef, network string) (txview.TxOut, error)
}

// ResolveOutput looks up a single output, using OutputResolver when p
// implements it
func ResolveOutput(
	ctx context.Context,
	p Provider,
	ref txview.OutputRef,
	network string,
) (txview.TxOut, error) {
	if p == nil {
		return txview.TxOut{}, errors.New("no chain-data provider configured")
	}
	if r, ok := p.(OutputResolver); ok {
		return r.ResolveOutput(ctx, ref, network)
	}
	outputs, err := p.TransactionOutputs(ctx, ref.TxHash, network)
	if err != nil {
		return txview.TxOut{}, err
	}
	for _, out := range outputs {
		if out.Index == ref.Index {
			return out.Output, nil
		}
	}
	return txview.TxOut{}, fmt.Errorf("output %s: %w", ref.String(), ErrNotFound)
}
