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

// Package utxo resolves the outputs a transaction refers to into a
// transient UTxO set for validation
package utxo

import (
	"context"
	"log/slog"
	"sync"

	"github.com/blinklabs-io/tx-anatomy/provider"
	"github.com/blinklabs-io/tx-anatomy/txview"
)

// Entry is the resolution result for one output reference. A failed lookup
// leaves a zero-value placeholder with Resolved false.
type Entry struct {
	Ref      txview.OutputRef
	Output   txview.TxOut
	Resolved bool
	Err      error
}

// Set is the UTxO view used during a single validation call
type Set struct {
	entries map[txview.OutputRef]Entry
	order   []txview.OutputRef
}

// NewSet builds a set from resolved entries. A later entry for the same
// reference replaces an earlier one.
func NewSet(entries ...Entry) Set {
	s := Set{entries: make(map[txview.OutputRef]Entry, len(entries))}
	for _, e := range entries {
		if _, ok := s.entries[e.Ref]; !ok {
			s.order = append(s.order, e.Ref)
		}
		s.entries[e.Ref] = e
	}
	return s
}

// Lookup returns the entry for ref. The boolean is false when the
// reference was never looked up.
func (s Set) Lookup(ref txview.OutputRef) (Entry, bool) {
	e, ok := s.entries[ref]
	return e, ok
}

// Output returns the resolved output for ref
func (s Set) Output(ref txview.OutputRef) (txview.TxOut, bool) {
	e, ok := s.entries[ref]
	if !ok || !e.Resolved {
		return txview.TxOut{}, false
	}
	return e.Output, true
}

// Entries returns the entries in first-lookup order
func (s Set) Entries() []Entry {
	ret := make([]Entry, 0, len(s.order))
	for _, ref := range s.order {
		ret = append(ret, s.entries[ref])
	}
	return ret
}

// Len returns the number of distinct references in the set
func (s Set) Len() int {
	return len(s.entries)
}

// Resolver looks up the outputs referenced by a transaction
type Resolver struct {
	provider    provider.Provider
	logger      *slog.Logger
	concurrency int
}

// ResolverOptionFunc is a type that represents functions that modify the
// Resolver config
type ResolverOptionFunc func(*Resolver)

// NewResolver returns a Resolver backed by p
func NewResolver(p provider.Provider, opts ...ResolverOptionFunc) *Resolver {
	r := &Resolver{
		provider:    p,
		logger:      slog.Default(),
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithLogger specifies the logger to use
func WithLogger(logger *slog.Logger) ResolverOptionFunc {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithConcurrency bounds the number of lookups in flight. The default of 1
// performs lookups one after another in reference order.
func WithConcurrency(n int) ResolverOptionFunc {
	return func(r *Resolver) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// Resolve looks up every input, collateral input and reference input of tx.
// Repeated references are looked up again and failures are neither retried
// nor returned; they yield placeholder entries.
func (r *Resolver) Resolve(ctx context.Context, tx *txview.Tx, network string) Set {
	return r.ResolveRefs(ctx, tx.AllRefs(), network)
}

// ResolveRefs looks up the given references
func (r *Resolver) ResolveRefs(ctx context.Context, refs []txview.OutputRef, network string) Set {
	results := make([]Entry, len(refs))
	if r.concurrency <= 1 || len(refs) <= 1 {
		for idx, ref := range refs {
			results[idx] = r.resolveOne(ctx, ref, network)
		}
		return NewSet(results...)
	}
	// results are written by index so the merge order does not depend on
	// goroutine scheduling
	sem := make(chan struct{}, r.concurrency)
	var wg sync.WaitGroup
	for idx, ref := range refs {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, ref txview.OutputRef) {
			defer func() {
				<-sem
				wg.Done()
			}()
			results[idx] = r.resolveOne(ctx, ref, network)
		}(idx, ref)
	}
	wg.Wait()
	return NewSet(results...)
}

func (r *Resolver) resolveOne(ctx context.Context, ref txview.OutputRef, network string) Entry {
	out, err := provider.ResolveOutput(ctx, r.provider, ref, network)
	if err != nil {
		r.logger.Warn(
			"failed to resolve output",
			"component", "utxo",
			"ref", ref.String(),
			"network", network,
			"error", err,
		)
		return Entry{Ref: ref, Output: placeholder(), Err: err}
	}
	return Entry{Ref: ref, Output: out, Resolved: true}
}

func placeholder() txview.TxOut {
	return txview.TxOut{Value: txview.Zero()}
}
