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

package validation

import (
	"github.com/blinklabs-io/tx-anatomy/network"
	"github.com/blinklabs-io/tx-anatomy/txview"
	"github.com/blinklabs-io/tx-anatomy/utxo"
)

// Context is the era-independent part of a check environment. It is built
// for a single validation call and discarded afterwards.
type Context struct {
	Tx      *txview.Tx
	UTxOs   utxo.Set
	Network network.Network
	Slot    uint64
}

// Output returns the resolved output for ref, or an UnresolvedInputError
func (c Context) Output(ref txview.OutputRef) (txview.TxOut, error) {
	entry, ok := c.UTxOs.Lookup(ref)
	if !ok {
		return txview.TxOut{}, UnresolvedInputError{Ref: ref}
	}
	if !entry.Resolved {
		return txview.TxOut{}, UnresolvedInputError{Ref: ref, Err: entry.Err}
	}
	return entry.Output, nil
}

// Unresolved returns the refs that have no resolved output, in order
func (c Context) Unresolved(refs []txview.OutputRef) []txview.OutputRef {
	var ret []txview.OutputRef
	for _, ref := range refs {
		if _, err := c.Output(ref); err != nil {
			ret = append(ret, ref)
		}
	}
	return ret
}

func refsOf(ins []txview.TxIn) []txview.OutputRef {
	ret := make([]txview.OutputRef, len(ins))
	for idx, in := range ins {
		ret[idx] = in.OutputRef
	}
	return ret
}
