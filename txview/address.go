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
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/blinklabs-io/gouroboros/ledger/common"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/bech32"
)

// Address header types
const (
	AddressTypeKeyKey        = common.AddressTypeKeyKey
	AddressTypeScriptKey     = common.AddressTypeScriptKey
	AddressTypeKeyScript     = common.AddressTypeKeyScript
	AddressTypeScriptScript  = common.AddressTypeScriptScript
	AddressTypeKeyPointer    = common.AddressTypeKeyPointer
	AddressTypeScriptPointer = common.AddressTypeScriptPointer
	AddressTypeKeyNone       = common.AddressTypeKeyNone
	AddressTypeScriptNone    = common.AddressTypeScriptNone
	AddressTypeByron         = common.AddressTypeByron
	AddressTypeNoneKey       = common.AddressTypeNoneKey
	AddressTypeNoneScript    = common.AddressTypeNoneScript
)

// Address keeps the binary form of an address as it appeared on the wire.
// Its parts are read through the ledger codec, which re-encodes addresses
// from their parsed fields, so the original bytes are the ones rendered.
type Address struct {
	Bytes []byte
}

// ParseAddress accepts bech32 (Shelley), base58 (Byron) or hex encodings
func ParseAddress(addr string) (Address, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return Address{}, errors.New("empty address")
	}
	if strings.Contains(addr, "1") {
		if _, data, err := bech32.DecodeNoLimit(addr); err == nil {
			decoded, err := bech32.ConvertBits(data, 5, 8, false)
			if err != nil {
				return Address{}, fmt.Errorf("bech32 address: %w", err)
			}
			return AddressFromBytes(decoded)
		}
	}
	if decoded, err := hex.DecodeString(addr); err == nil {
		return AddressFromBytes(decoded)
	}
	// base58 returns an empty slice on invalid input
	if decoded := base58.Decode(addr); len(decoded) > 0 {
		return AddressFromBytes(decoded)
	}
	return Address{}, fmt.Errorf("unrecognized address encoding: %s", addr)
}

// AddressFromBytes checks data with the ledger codec. The codec keeps
// trailing bytes as extra data; only pointer addresses may carry them here.
func AddressFromBytes(data []byte) (Address, error) {
	a := Address{Bytes: data}
	parsed, err := a.ledger()
	if err != nil {
		return Address{}, err
	}
	if parsed.Type() == AddressTypeByron {
		return a, nil
	}
	want := 1 + common.AddressHashSize
	switch parsed.Type() {
	case AddressTypeKeyKey, AddressTypeScriptKey, AddressTypeKeyScript, AddressTypeScriptScript:
		want += common.AddressHashSize
	case AddressTypeKeyPointer, AddressTypeScriptPointer:
		return a, nil
	case AddressTypeKeyNone, AddressTypeScriptNone, AddressTypeNoneKey, AddressTypeNoneScript:
	default:
		return Address{}, fmt.Errorf("unknown address type: %d", parsed.Type())
	}
	if len(data) != want {
		return Address{}, fmt.Errorf(
			"invalid address length for type %d: got %d, expected %d",
			parsed.Type(),
			len(data),
			want,
		)
	}
	return a, nil
}

func (a Address) ledger() (common.Address, error) {
	if len(a.Bytes) == 0 {
		return common.Address{}, errors.New("empty address")
	}
	ret, err := common.NewAddressFromBytes(a.Bytes)
	if err != nil {
		return common.Address{}, fmt.Errorf("invalid address: %w", err)
	}
	return ret, nil
}

// Type returns the header type nibble
func (a Address) Type() uint8 {
	if len(a.Bytes) == 0 {
		return 0
	}
	return a.Bytes[0] >> 4
}

// IsByron reports whether this is a bootstrap-era address. The CBOR array
// header of a Byron address yields the Byron type nibble.
func (a Address) IsByron() bool {
	return a.Type() == AddressTypeByron
}

// IsStake reports whether this is a reward address
func (a Address) IsStake() bool {
	t := a.Type()
	return t == AddressTypeNoneKey || t == AddressTypeNoneScript
}

// NetworkID returns the network nibble. Byron addresses carry no network
// nibble and report false.
func (a Address) NetworkID() (uint8, bool) {
	if a.IsByron() {
		return 0, false
	}
	parsed, err := a.ledger()
	if err != nil {
		return 0, false
	}
	// #nosec G115
	return uint8(parsed.NetworkId()), true
}

// PaymentCredential returns the payment part of a Shelley address and
// whether it is a script hash
func (a Address) PaymentCredential() ([]byte, bool, bool) {
	if a.IsByron() || a.IsStake() {
		return nil, false, false
	}
	parsed, err := a.ledger()
	if err != nil {
		return nil, false, false
	}
	return credentialOf(parsed.PayloadPayload())
}

// StakeCredential returns the delegation part of base addresses and the
// credential of reward addresses, and whether it is a script hash
func (a Address) StakeCredential() ([]byte, bool, bool) {
	if a.IsByron() {
		return nil, false, false
	}
	parsed, err := a.ledger()
	if err != nil {
		return nil, false, false
	}
	return credentialOf(parsed.StakingPayload())
}

func credentialOf(payload common.AddressPayload) ([]byte, bool, bool) {
	switch p := payload.(type) {
	case common.AddressPayloadKeyHash:
		return p.Hash.Bytes(), false, true
	case common.AddressPayloadScriptHash:
		return p.Hash.Bytes(), true, true
	}
	return nil, false, false
}

// Hrp returns the bech32 human readable prefix for the address
func (a Address) Hrp() string {
	prefix := "addr"
	if a.IsStake() {
		prefix = "stake"
	}
	if id, ok := a.NetworkID(); ok && id == common.AddressNetworkTestnet {
		prefix += "_test"
	}
	return prefix
}

// String returns the bech32 form, or base58 for Byron addresses. Both are
// computed over the original bytes.
func (a Address) String() string {
	if len(a.Bytes) == 0 {
		return ""
	}
	if a.IsByron() {
		return base58.Encode(a.Bytes)
	}
	conv, err := bech32.ConvertBits(a.Bytes, 8, 5, true)
	if err != nil {
		return hex.EncodeToString(a.Bytes)
	}
	ret, err := bech32.Encode(a.Hrp(), conv)
	if err != nil {
		return hex.EncodeToString(a.Bytes)
	}
	return ret
}

// ByronPayload returns the CBOR payload wrapped by a Byron address
func (a Address) ByronPayload() ([]byte, error) {
	if !a.IsByron() {
		return nil, errors.New("not a Byron address")
	}
	if _, err := a.ledger(); err != nil {
		return nil, err
	}
	items, err := ArrayItems(a.Bytes)
	if err != nil {
		return nil, fmt.Errorf("byron address: %w", err)
	}
	return decodeBytes(Untag(items[0]))
}

// ByronType returns the Byron spending kind: 0 for public keys, 1 for
// scripts and 2 for redeem keys
func (a Address) ByronType() (uint64, error) {
	if !a.IsByron() {
		return 0, errors.New("not a Byron address")
	}
	parsed, err := a.ledger()
	if err != nil {
		return 0, err
	}
	return parsed.ByronType(), nil
}

// StakePointer locates a stake registration certificate on chain
type StakePointer struct {
	Slot      uint64
	TxIndex   uint64
	CertIndex uint64
}

func (p StakePointer) String() string {
	return fmt.Sprintf("slot: %d, tx: %d, cert: %d", p.Slot, p.TxIndex, p.CertIndex)
}

// StakePointer returns the pointer of a pointer address
func (a Address) StakePointer() (StakePointer, error) {
	switch a.Type() {
	case AddressTypeKeyPointer, AddressTypeScriptPointer:
	default:
		return StakePointer{}, errors.New("not a pointer address")
	}
	parsed, err := a.ledger()
	if err != nil {
		return StakePointer{}, err
	}
	ptr, ok := parsed.StakingPayload().(common.AddressPayloadPointer)
	if !ok {
		return StakePointer{}, errors.New("not a pointer address")
	}
	return StakePointer{Slot: ptr.Slot, TxIndex: ptr.TxIndex, CertIndex: ptr.CertIndex}, nil
}
