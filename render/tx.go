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

// Package render turns decoded transactions, blocks and addresses into
// diagnostic Section trees. Topic and attribute names are stable and are
// what display layers key on.
package render

import (
	"github.com/blinklabs-io/tx-anatomy/diagnostic"
	"github.com/blinklabs-io/tx-anatomy/txview"
)

// RootTopic is the topic of every top-level section
const RootTopic = "cbor_parse"

// Transaction renders tx under a cbor_parse root
func Transaction(tx *txview.Tx) *diagnostic.Section {
	return diagnostic.New().
		WithTopic(RootTopic).
		BuildChild(func() *diagnostic.Section {
			return transactionSection(tx)
		})
}

func transactionSection(tx *txview.Tx) *diagnostic.Section {
	return diagnostic.New().
		WithTopic("tx").
		WithAttr("era", tx.Era).
		WithAttr("tx_hash", tx.Hash).
		WithMaybeAttr("fee", diagnostic.Maybe(tx.Fee)).
		WithMaybeAttr("start", diagnostic.Maybe(tx.ValidityStart)).
		WithMaybeAttr("ttl", diagnostic.Maybe(tx.TTL)).
		BuildChild(func() *diagnostic.Section { return inputsSection(tx) }).
		BuildChild(func() *diagnostic.Section { return collateralSection(tx) }).
		BuildChild(func() *diagnostic.Section { return outputsSection(tx) }).
		BuildChild(func() *diagnostic.Section { return referenceInputsSection(tx) }).
		BuildChild(func() *diagnostic.Section { return mintsSection(tx) }).
		BuildChild(func() *diagnostic.Section { return metadataSection(tx) }).
		BuildChild(func() *diagnostic.Section { return Witnesses(tx.Witnesses) })
}

func inputSection(topic string, in txview.TxIn) *diagnostic.Section {
	return diagnostic.New().
		WithTopic(topic).
		WithAttr("tx_input_hash", in.TxHash).
		WithAttr("tx_input_index", in.Index)
}

func inputSections(topic string, ins []txview.TxIn) []*diagnostic.Section {
	ret := make([]*diagnostic.Section, 0, len(ins))
	for _, in := range ins {
		ret = append(ret, inputSection(topic, in))
	}
	return ret
}

func inputsSection(tx *txview.Tx) *diagnostic.Section {
	return diagnostic.New().
		WithTopic("tx_inputs").
		CollectChildren(inputSections("input", tx.Inputs))
}

func collateralSection(tx *txview.Tx) *diagnostic.Section {
	ret := diagnostic.New().
		WithTopic("tx_collateral").
		WithMaybeAttr("tx_total_collateral", diagnostic.Maybe(tx.TotalCollateral))
	if tx.CollateralReturn != nil {
		ret.PushChild(Output(*tx.CollateralReturn))
	}
	return ret.AppendChildren(inputSections("collateral", tx.Collateral))
}

func outputsSection(tx *txview.Tx) *diagnostic.Section {
	children := make([]*diagnostic.Section, 0, len(tx.Outputs))
	for _, out := range tx.Outputs {
		children = append(children, Output(out))
	}
	return diagnostic.New().
		WithTopic("tx_outputs").
		CollectChildren(children)
}

func referenceInputsSection(tx *txview.Tx) *diagnostic.Section {
	return diagnostic.New().
		WithTopic("tx_reference_inputs").
		CollectChildren(inputSections("tx_reference_input", tx.ReferenceInputs))
}

func mintsSection(tx *txview.Tx) *diagnostic.Section {
	return diagnostic.New().
		WithTopic("tx_mints").
		CollectChildren(
			policySections(
				tx.Mint,
				"tx_mint_policy",
				"tx_mint_policy_id",
				"tx_mint_policy_assets",
				"tx_mint_policy_asset",
			),
		)
}
