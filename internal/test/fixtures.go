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

package test

import (
	"crypto/ed25519"
	"encoding/hex"
	"hash/crc32"
	"maps"

	"github.com/blinklabs-io/tx-anatomy/txview"
	"github.com/fxamacker/cbor/v2"
)

// Key is a signing key used to witness test transactions
type Key struct {
	Priv ed25519.PrivateKey
	Pub  ed25519.PublicKey
}

// NewKey derives a deterministic key from seed
func NewKey(seed byte) Key {
	priv := ed25519.NewKeyFromSeed(Bytes(ed25519.SeedSize, seed))
	return Key{
		Priv: priv,
		Pub:  priv.Public().(ed25519.PublicKey),
	}
}

// Hash returns the key hash used in payment credentials
func (k Key) Hash() []byte {
	return txview.Blake2b224Hash(k.Pub)
}

// Input returns a transaction input ready for encoding
func Input(txId []byte, index uint32) []any {
	return []any{txId, index}
}

// InputRef returns the OutputRef matching Input(txId, index)
func InputRef(txId []byte, index uint32) txview.OutputRef {
	return txview.OutputRef{TxHash: hex.EncodeToString(txId), Index: index}
}

// EnterpriseAddress returns a key-hash enterprise address
func EnterpriseAddress(networkId uint8, keyHash []byte) []byte {
	return append([]byte{0x60 | networkId}, keyHash...)
}

// ScriptEnterpriseAddress returns a script-hash enterprise address
func ScriptEnterpriseAddress(networkId uint8, scriptHash []byte) []byte {
	return append([]byte{0x70 | networkId}, scriptHash...)
}

// BaseAddress returns a key/key base address
func BaseAddress(networkId uint8, paymentHash []byte, stakeHash []byte) []byte {
	ret := append([]byte{0x00 | networkId}, paymentHash...)
	return append(ret, stakeHash...)
}

// RewardAddress returns a key-hash reward address
func RewardAddress(networkId uint8, keyHash []byte) []byte {
	return append([]byte{0xe0 | networkId}, keyHash...)
}

// Output returns a post-Alonzo map output
func Output(addr []byte, value any) map[uint64]any {
	return map[uint64]any{0: addr, 1: value}
}

// LegacyOutput returns an array-form output
func LegacyOutput(addr []byte, value any) []any {
	return []any{addr, value}
}

// InlineDatumOutput returns a map output carrying an inline datum
func InlineDatumOutput(addr []byte, value any, datum []byte) map[uint64]any {
	ret := Output(addr, value)
	ret[2] = []any{1, cbor.Tag{Number: 24, Content: datum}}
	return ret
}

// AssetValue returns [coin, {policy: {name: qty}}]
func AssetValue(coin uint64, policy []byte, name []byte, qty uint64) []any {
	return []any{
		coin,
		map[cbor.ByteString]map[cbor.ByteString]uint64{
			cbor.ByteString(policy): {cbor.ByteString(name): qty},
		},
	}
}

// TxBuilder assembles Shelley-family transactions for tests
type TxBuilder struct {
	Body      map[uint64]any
	Witnesses map[uint64]any
	AuxData   any
	Signers   []Key
	// Legacy selects the three-item Shelley/Allegra/Mary envelope
	Legacy  bool
	Invalid bool
}

// NewTxBuilder returns a builder with an empty body and witness set
func NewTxBuilder() *TxBuilder {
	return &TxBuilder{
		Body:      map[uint64]any{},
		Witnesses: map[uint64]any{},
	}
}

// BodyBytes returns the encoded body
func (b *TxBuilder) BodyBytes() []byte {
	return Encode(b.Body)
}

// Build encodes the transaction and signs the body hash with each signer
func (b *TxBuilder) Build() []byte {
	body := b.BodyBytes()
	wits := maps.Clone(b.Witnesses)
	if len(b.Signers) > 0 {
		hash := txview.Blake2b256Hash(body)
		var vkeys []any
		for _, key := range b.Signers {
			vkeys = append(
				vkeys,
				[]any{[]byte(key.Pub), ed25519.Sign(key.Priv, hash)},
			)
		}
		wits[0] = vkeys
	}
	if b.Legacy {
		return Encode([]any{cbor.RawMessage(body), wits, b.AuxData})
	}
	return Encode([]any{cbor.RawMessage(body), wits, !b.Invalid, b.AuxData})
}

// ByronAddress returns the CBOR form of a Byron address with the given root
func ByronAddress(root []byte) []byte {
	payload := Encode([]any{root, map[uint64]any{}, uint64(0)})
	tagged := Encode(cbor.Tag{Number: 24, Content: payload})
	return Encode([]any{cbor.RawMessage(tagged), crc32.ChecksumIEEE(tagged)})
}

// ByronOutput is a Byron output for BuildByronTx
type ByronOutput struct {
	Address []byte // CBOR form
	Amount  uint64
}

// BuildByronTx assembles a signed Byron transaction
func BuildByronTx(
	inputs []txview.OutputRef,
	outputs []ByronOutput,
	keys []Key,
	protocolMagic uint32,
) []byte {
	ins := []any{}
	for _, in := range inputs {
		txId, _ := hex.DecodeString(in.TxHash)
		ins = append(
			ins,
			[]any{0, cbor.Tag{Number: 24, Content: Encode([]any{txId, in.Index})}},
		)
	}
	outs := []any{}
	for _, out := range outputs {
		outs = append(outs, []any{cbor.RawMessage(out.Address), out.Amount})
	}
	body := Encode([]any{ins, outs, map[uint64]any{}})
	signed := txview.ByronSignedData(txview.Blake2b256Hash(body), protocolMagic)
	wits := []any{}
	for _, key := range keys {
		xpub := append([]byte(key.Pub), Bytes(32, 0xcc)...)
		wits = append(
			wits,
			[]any{
				0,
				cbor.Tag{
					Number:  24,
					Content: Encode([]any{xpub, ed25519.Sign(key.Priv, signed)}),
				},
			},
		)
	}
	return Encode([]any{cbor.RawMessage(body), wits})
}
