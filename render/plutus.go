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
	"encoding/json"
	"fmt"

	"github.com/blinklabs-io/plutigo/data"
)

type plutusMapEntry struct {
	K any `json:"k"`
	V any `json:"v"`
}

// PlutusDataJSON decodes raw Plutus data and returns it in the detailed
// JSON schema used by cardano-cli
func PlutusDataJSON(raw []byte) (string, error) {
	pd, err := data.Decode(raw)
	if err != nil {
		return "", fmt.Errorf("decode plutus data: %w", err)
	}
	tmp, err := plutusJSONValue(pd)
	if err != nil {
		return "", err
	}
	ret, err := json.Marshal(tmp)
	if err != nil {
		return "", err
	}
	return string(ret), nil
}

func plutusJSONValue(pd data.PlutusData) (any, error) {
	switch v := pd.(type) {
	case *data.Constr:
		fields, err := plutusJSONList(v.Fields)
		if err != nil {
			return nil, err
		}
		return map[string]any{"constructor": v.Tag, "fields": fields}, nil
	case *data.Map:
		entries := make([]plutusMapEntry, 0, len(v.Pairs))
		for _, pair := range v.Pairs {
			k, err := plutusJSONValue(pair[0])
			if err != nil {
				return nil, err
			}
			val, err := plutusJSONValue(pair[1])
			if err != nil {
				return nil, err
			}
			entries = append(entries, plutusMapEntry{K: k, V: val})
		}
		return map[string]any{"map": entries}, nil
	case *data.Integer:
		// json.Number keeps integers of any size exact
		return map[string]any{"int": json.Number(v.Inner.String())}, nil
	case *data.ByteString:
		return map[string]any{"bytes": hex.EncodeToString(v.Inner)}, nil
	case *data.List:
		items, err := plutusJSONList(v.Items)
		if err != nil {
			return nil, err
		}
		return map[string]any{"list": items}, nil
	}
	return nil, fmt.Errorf("unsupported plutus data type: %T", pd)
}

func plutusJSONList(items []data.PlutusData) ([]any, error) {
	ret := make([]any, 0, len(items))
	for _, item := range items {
		tmp, err := plutusJSONValue(item)
		if err != nil {
			return nil, err
		}
		ret = append(ret, tmp)
	}
	return ret, nil
}
