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
	"math/big"

	"github.com/fxamacker/cbor/v2"

	"github.com/blinklabs-io/tx-anatomy/diagnostic"
	"github.com/blinklabs-io/tx-anatomy/txview"
)

func metadataSection(tx *txview.Tx) *diagnostic.Section {
	ret := diagnostic.New().WithTopic("tx_metadata")
	if tx.AuxData == nil {
		return ret
	}
	children := make([]*diagnostic.Section, 0, len(tx.AuxData.Metadata))
	for _, md := range tx.AuxData.Metadata {
		child := diagnostic.New().
			WithTopic("tx_metadatum").
			WithAttr("tx_metadata_label", md.Label)
		value, err := MetadatumString(md.Value)
		if err != nil {
			child.WithError(err)
		} else {
			child.WithAttr("tx_metadatum_value", value)
		}
		children = append(children, child)
	}
	return ret.CollectChildren(children)
}

// MetadatumString renders a scalar metadatum as text. Collections are
// summarized as [Array] or [Map].
func MetadatumString(raw []byte) (string, error) {
	switch txview.MajorType(raw) {
	case txview.MajorTypeUint, txview.MajorTypeNint:
		var tmp big.Int
		if err := cbor.Unmarshal(raw, &tmp); err != nil {
			return "", fmt.Errorf("metadatum integer: %w", err)
		}
		return tmp.String(), nil
	case txview.MajorTypeBytes:
		var tmp []byte
		if err := cbor.Unmarshal(raw, &tmp); err != nil {
			return "", fmt.Errorf("metadatum bytes: %w", err)
		}
		return hex.EncodeToString(tmp), nil
	case txview.MajorTypeText:
		var tmp string
		if err := cbor.Unmarshal(raw, &tmp); err != nil {
			return "", fmt.Errorf("metadatum text: %w", err)
		}
		return tmp, nil
	case txview.MajorTypeArray:
		return "[Array]", nil
	case txview.MajorTypeMap:
		return "[Map]", nil
	}
	return "", fmt.Errorf("unexpected metadatum of CBOR major type %d", txview.MajorType(raw))
}
