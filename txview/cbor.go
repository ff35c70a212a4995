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

package txview

import (
	"bytes"
	"errors"
	"slices"

	"github.com/fxamacker/cbor/v2"
)

// CBOR major types
const (
	MajorTypeUint   = 0
	MajorTypeNint   = 1
	MajorTypeBytes  = 2
	MajorTypeText   = 3
	MajorTypeArray  = 4
	MajorTypeMap    = 5
	MajorTypeTag    = 6
	MajorTypeSimple = 7
	cborNull        = 0xf6
	cborUndefined   = 0xf7
)

// MajorType returns the CBOR major type of the first item in data, or -1
// when data is empty
func MajorType(data []byte) int {
	if len(data) == 0 {
		return -1
	}
	return int(data[0] >> 5)
}

// IsNull reports whether data holds a CBOR null or undefined value
func IsNull(data []byte) bool {
	return len(data) == 0 || data[0] == cborNull || data[0] == cborUndefined
}

// Untag strips any number of CBOR tags wrapping data. Conway encodes sets
// with tag 258, so every set field goes through here.
func Untag(data []byte) []byte {
	for MajorType(data) == MajorTypeTag {
		var tag cbor.RawTag
		if err := cbor.Unmarshal(data, &tag); err != nil {
			return data
		}
		data = tag.Content
	}
	return data
}

// MapEntry is a key/value pair from a CBOR map
type MapEntry struct {
	Key   cbor.RawMessage
	Value cbor.RawMessage
}

// mapKey holds an encoded map key so that keys which are not comparable Go
// values (arrays, maps) can still index a Go map
type mapKey struct {
	data string
}

func (k *mapKey) UnmarshalCBOR(data []byte) error {
	k.data = string(data)
	return nil
}

// MapEntries splits a CBOR map into its entries, ordered by encoded key
func MapEntries(data []byte) ([]MapEntry, error) {
	data = Untag(data)
	if MajorType(data) != MajorTypeMap {
		return nil, errors.New("expected CBOR map")
	}
	tmp := map[mapKey]cbor.RawMessage{}
	if err := cbor.Unmarshal(data, &tmp); err != nil {
		return nil, err
	}
	ret := make([]MapEntry, 0, len(tmp))
	for key, value := range tmp {
		ret = append(ret, MapEntry{Key: cbor.RawMessage(key.data), Value: value})
	}
	slices.SortFunc(ret, func(a, b MapEntry) int {
		return bytes.Compare(a.Key, b.Key)
	})
	return ret, nil
}

// fieldMap decodes a map keyed by small integers, the shape of transaction
// bodies, witness sets and outputs
func fieldMap(data []byte) (map[uint64]cbor.RawMessage, error) {
	data = Untag(data)
	if MajorType(data) != MajorTypeMap {
		return nil, errors.New("expected CBOR map")
	}
	ret := map[uint64]cbor.RawMessage{}
	if err := cbor.Unmarshal(data, &ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// ArrayItems splits a CBOR array (or tagged set) into its raw items
func ArrayItems(data []byte) ([]cbor.RawMessage, error) {
	data = Untag(data)
	if MajorType(data) != MajorTypeArray {
		return nil, errors.New("expected CBOR array")
	}
	var ret []cbor.RawMessage
	if err := cbor.Unmarshal(data, &ret); err != nil {
		return nil, err
	}
	return ret, nil
}

func decodeUint(data []byte) (uint64, error) {
	var ret uint64
	if err := cbor.Unmarshal(data, &ret); err != nil {
		return 0, err
	}
	return ret, nil
}

func decodeBytes(data []byte) ([]byte, error) {
	var ret []byte
	if err := cbor.Unmarshal(data, &ret); err != nil {
		return nil, err
	}
	return ret, nil
}
