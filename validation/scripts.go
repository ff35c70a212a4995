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
	"encoding/hex"
	"slices"

	"github.com/blinklabs-io/tx-anatomy/txview"
)

// ScriptSet indexes scripts by hash
type ScriptSet map[string]txview.Script

// NewScriptSet builds a set from scripts
func NewScriptSet(scripts ...txview.Script) ScriptSet {
	ret := make(ScriptSet, len(scripts))
	for _, s := range scripts {
		ret.Add(s)
	}
	return ret
}

// Add inserts s under its hash
func (s ScriptSet) Add(script txview.Script) {
	s[hex.EncodeToString(script.Hash())] = script
}

// Has reports whether a script with the given hash is present
func (s ScriptSet) Has(hash []byte) bool {
	_, ok := s[hex.EncodeToString(hash)]
	return ok
}

// Languages returns the distinct languages in the set, sorted
func (s ScriptSet) Languages() []txview.ScriptLanguage {
	var ret []txview.ScriptLanguage
	for _, script := range s {
		if !slices.Contains(ret, script.Language) {
			ret = append(ret, script.Language)
		}
	}
	slices.Sort(ret)
	return ret
}

// AvailableScripts returns the witness scripts of the transaction plus any
// reference scripts carried by its inputs and reference inputs
func AvailableScripts(c Context) (ScriptSet, error) {
	refScripts, err := ReferenceScripts(c)
	if err != nil {
		return nil, err
	}
	ret := NewScriptSet(c.Tx.Witnesses.Scripts...)
	for _, script := range refScripts {
		ret.Add(script)
	}
	return ret, nil
}

// ReferenceScripts returns the scripts attached to the outputs spent or
// referenced by the transaction. An unresolved ref may hide a script, so it
// fails the lookup.
func ReferenceScripts(c Context) ([]txview.Script, error) {
	refs := append(refsOf(c.Tx.Inputs), refsOf(c.Tx.ReferenceInputs)...)
	if err := AllInputsInUTxOs(c, refs); err != nil {
		return nil, err
	}
	var ret []txview.Script
	for _, ref := range refs {
		out, _ := c.Output(ref)
		if out.ScriptRef != nil {
			ret = append(ret, *out.ScriptRef)
		}
	}
	return ret, nil
}
