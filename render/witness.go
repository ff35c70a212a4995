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

package render

import (
	"encoding/hex"
	"fmt"

	"github.com/blinklabs-io/tx-anatomy/diagnostic"
	"github.com/blinklabs-io/tx-anatomy/txview"
)

// Witnesses renders a witness set. Children are grouped by kind: key
// witnesses, bootstrap witnesses, native scripts, datums, redeemers, then
// Plutus scripts by version.
func Witnesses(w txview.Witnesses) *diagnostic.Section {
	var children []*diagnostic.Section
	for _, wit := range w.VKeys {
		children = append(children, keyWitnessSection("vkey_witness", wit))
	}
	for _, wit := range w.Bootstrap {
		children = append(children, keyWitnessSection("bootstrap_witness", wit))
	}
	for _, script := range w.ScriptsOf(txview.ScriptNative) {
		children = append(children, scriptSection("native_script", script))
	}
	for _, datum := range w.PlutusData {
		children = append(children, Datum(datum))
	}
	for _, redeemer := range w.Redeemers {
		children = append(children, redeemerSection(redeemer))
	}
	for _, lang := range []txview.ScriptLanguage{
		txview.ScriptPlutusV1,
		txview.ScriptPlutusV2,
		txview.ScriptPlutusV3,
	} {
		for _, script := range w.ScriptsOf(lang) {
			children = append(children, scriptSection(plutusScriptTopic(lang), script))
		}
	}
	return diagnostic.New().
		WithTopic("tx_witnesses").
		AppendChildren(children)
}

func plutusScriptTopic(lang txview.ScriptLanguage) string {
	return fmt.Sprintf("plutus_v%d_script", uint8(lang))
}

func keyWitnessSection(topic string, wit txview.VKeyWitness) *diagnostic.Section {
	key := wit.VKey
	// extended Byron keys hash over the public key part only
	if len(key) > 32 {
		key = key[:32]
	}
	return diagnostic.New().
		WithTopic(topic).
		WithAttr("vkey_witness_key", hex.EncodeToString(wit.VKey)).
		WithAttr("vkey_witness_key_hash", hex.EncodeToString(txview.Blake2b224Hash(key))).
		WithAttr("vkey_witness_signature", hex.EncodeToString(wit.Signature))
}

func scriptSection(topic string, script txview.Script) *diagnostic.Section {
	return diagnostic.New().
		WithTopic(topic).
		WithBytes(script.Bytes).
		WithAttr("script_language", script.Language).
		WithAttr("script_hash", hex.EncodeToString(script.Hash()))
}

func redeemerSection(r txview.Redeemer) *diagnostic.Section {
	ret := diagnostic.New().
		WithTopic("tx_redeemer").
		WithAttr("tx_redeemer_tag", r.Tag).
		WithAttr("tx_redeemer_index", r.Index)
	tmp, err := PlutusDataJSON(r.Data)
	if err != nil {
		ret.WithError(err)
	} else {
		ret.WithAttr("tx_redeemer_data_json", tmp)
	}
	return ret.WithAttr(
		"tx_redeemer_ex_units",
		fmt.Sprintf("mem: %d, steps: %d", r.Mem, r.Steps),
	)
}
