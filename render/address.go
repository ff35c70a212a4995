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

// Address kinds
const (
	AddressKindByron   = "Byron"
	AddressKindShelley = "Shelley"
	AddressKindStake   = "Stake"
)

// Address parses a bech32, base58 or hex address and describes its parts
func Address(raw string) *diagnostic.Section {
	addr, err := txview.ParseAddress(raw)
	if err != nil {
		return diagnostic.ErrorSection(err)
	}
	ret := diagnostic.New().
		WithTopic("address").
		WithBytes(addr.Bytes).
		WithAttr("address", addr.String())
	switch {
	case addr.IsByron():
		ret.WithAttr("kind", AddressKindByron)
		payload, err := addr.ByronPayload()
		if err != nil {
			return ret.WithError(err)
		}
		byronType, err := addr.ByronType()
		if err != nil {
			return ret.WithError(err)
		}
		return ret.WithAttr("byron_cbor", hex.EncodeToString(payload)).
			WithAttr("byron_type", byronType)
	case addr.IsStake():
		ret.WithAttr("kind", AddressKindStake).
			WithAttr("network", networkName(addr))
		hash, isScript, _ := addr.StakeCredential()
		return ret.PushChild(partSection("delegation_part", isScript, hash, nil))
	}
	ret.WithAttr("kind", AddressKindShelley).
		WithAttr("network", networkName(addr))
	hash, isScript, _ := addr.PaymentCredential()
	ret.PushChild(partSection("payment_part", isScript, hash, nil))
	switch addr.Type() {
	case txview.AddressTypeKeyPointer, txview.AddressTypeScriptPointer:
		ptr, err := addr.StakePointer()
		if err != nil {
			return ret.WithError(err)
		}
		tmp := ptr.String()
		return ret.PushChild(partSection("delegation_part", false, nil, &tmp))
	}
	hash, isScript, _ = addr.StakeCredential()
	return ret.PushChild(partSection("delegation_part", isScript, hash, nil))
}

func partSection(topic string, isScript bool, hash []byte, pointer *string) *diagnostic.Section {
	return diagnostic.New().
		WithTopic(topic).
		WithAttr("is_script", isScript).
		WithMaybeAttr("hash", diagnostic.MaybeHex(hash)).
		WithMaybeAttr("pointer", pointer)
}

func networkName(addr txview.Address) string {
	id, _ := addr.NetworkID()
	switch id {
	case 0:
		return "testnet"
	case 1:
		return "mainnet"
	}
	return fmt.Sprintf("other(%d)", id)
}
