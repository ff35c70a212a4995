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
	"math/big"

	"github.com/blinklabs-io/tx-anatomy/diagnostic"
	"github.com/blinklabs-io/tx-anatomy/txview"
)

// Output renders a transaction output or a resolved UTxO
func Output(out txview.TxOut) *diagnostic.Section {
	ret := diagnostic.New().WithTopic("output")
	if out.Raw != nil {
		ret.WithBytes(out.Raw)
	}
	ret.WithAttr("tx_output_address", out.Address.String()).
		WithAttr("tx_output_lovelace", out.Value.CoinOrZero())
	switch {
	case out.InlineDatum != nil:
		ret.PushChild(Datum(out.InlineDatum))
	case out.DatumHash != nil:
		ret.PushChild(
			diagnostic.New().
				WithTopic("tx_output_datum").
				WithAttr("tx_output_datum_hash", hex.EncodeToString(out.DatumHash)),
		)
	}
	if out.ScriptRef != nil {
		ret.PushChild(
			scriptSection("tx_output_script_ref", *out.ScriptRef),
		)
	}
	return ret.BuildChild(func() *diagnostic.Section {
		return diagnostic.New().
			WithTopic("tx_output_assets").
			CollectChildren(
				policySections(
					out.Value.Assets,
					"tx_output_asset_policy",
					"tx_output_asset_policy_id",
					"tx_output_asset_policy_assets",
					"tx_output_asset_policy_asset",
				),
			)
	})
}

// Datum renders raw Plutus data with its hash and JSON projection. Data
// that does not decode is still shown, with the error on the section.
func Datum(raw []byte) *diagnostic.Section {
	ret := diagnostic.New().
		WithTopic("tx_datum").
		WithBytes(raw).
		WithAttr("tx_datum_hash", hex.EncodeToString(txview.Blake2b256Hash(raw)))
	tmp, err := PlutusDataJSON(raw)
	if err != nil {
		return ret.WithError(err)
	}
	return ret.WithAttr("tx_datum_json", tmp)
}

// policySections renders assets grouped by policy. Mints and output
// values share the layout and differ only in topic names.
func policySections(
	assets txview.MultiAsset,
	policyTopic string,
	policyIdTopic string,
	listTopic string,
	assetTopic string,
) []*diagnostic.Section {
	ret := make([]*diagnostic.Section, 0, len(assets))
	for _, policy := range assets {
		children := make([]*diagnostic.Section, 0, len(policy.Assets))
		for _, asset := range policy.Assets {
			children = append(
				children,
				diagnostic.New().
					WithTopic(assetTopic).
					WithAttr("tx_mint_policy_asset_name", hex.EncodeToString(asset.Name)).
					WithMaybeAttr("tx_mint_policy_asset_name_ascii", asciiName(asset.Name)).
					WithMaybeAttr("tx_mint_policy_asset_coint", quantity(asset.Quantity)),
			)
		}
		ret = append(
			ret,
			diagnostic.New().
				WithTopic(policyTopic).
				WithAttr(policyIdTopic, hex.EncodeToString(policy.Policy)).
				PushChild(diagnostic.New().WithTopic(listTopic).CollectChildren(children)),
		)
	}
	return ret
}

// asciiName returns the asset name as text when every byte is printable
// ASCII
func asciiName(name []byte) *string {
	if len(name) == 0 {
		return nil
	}
	for _, b := range name {
		if b < 0x20 || b > 0x7e {
			return nil
		}
	}
	tmp := string(name)
	return &tmp
}

func quantity(v *big.Int) *string {
	if v == nil {
		return nil
	}
	tmp := v.String()
	return &tmp
}
