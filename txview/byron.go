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
	"errors"
	"fmt"

	"github.com/blinklabs-io/gouroboros/ledger"
	"github.com/fxamacker/cbor/v2"
)

// Byron witness kinds
const (
	byronWitnessPubKey = 0
	byronWitnessRedeem = 2
)

// decodeByron decodes a signed Byron transaction: [tx, witnesses] where
// tx is [inputs, outputs, attributes]. A bare tx is accepted too and has
// no witnesses. The codec decodes the tx alone, so the witnesses are read
// from the encoded pair.
func decodeByron(raw []byte) (*Tx, error) {
	items, err := ArrayItems(raw)
	if err != nil {
		return nil, fmt.Errorf("byron transaction: %w", err)
	}
	var txRaw, witsRaw []byte
	switch len(items) {
	case 2:
		txRaw, witsRaw = items[0], items[1]
	case 3:
		txRaw = raw
	default:
		return nil, fmt.Errorf("byron transaction has %d items", len(items))
	}
	ltx, err := ledger.NewTransactionFromCbor(EraByron.TxType(), txRaw)
	if err != nil {
		return nil, fmt.Errorf("decode Byron transaction: %w", err)
	}
	tx := &Tx{
		Era:     EraByron,
		Raw:     raw,
		Body:    txRaw,
		Ledger:  ltx,
		Hash:    fmt.Sprint(ltx.Hash()),
		IsValid: true,
		Inputs:  inputsOf(ltx.Inputs()),
	}
	body, err := ArrayItems(txRaw)
	if err != nil || len(body) != 3 {
		return nil, errors.New("byron transaction body: malformed")
	}
	rawOutputs, err := ArrayItems(body[1])
	if err != nil {
		return nil, fmt.Errorf("byron outputs: %w", err)
	}
	outputs := ltx.Outputs()
	if len(outputs) != len(rawOutputs) {
		return nil, fmt.Errorf("codec returned %d of %d byron outputs", len(outputs), len(rawOutputs))
	}
	for idx, out := range outputs {
		projected, err := outputOf(out, rawOutputs[idx])
		if err != nil {
			return nil, fmt.Errorf("byron output %d: %w", idx, err)
		}
		tx.Outputs = append(tx.Outputs, projected)
	}
	if witsRaw == nil {
		return tx, nil
	}
	wits, err := ArrayItems(witsRaw)
	if err != nil {
		return nil, fmt.Errorf("byron witnesses: %w", err)
	}
	tx.Witnesses.Raw = witsRaw
	for idx, item := range wits {
		kind, err := byronTaggedKind(item)
		if err != nil {
			return nil, fmt.Errorf("byron witness %d: %w", idx, err)
		}
		if kind != byronWitnessPubKey && kind != byronWitnessRedeem {
			continue
		}
		payload, err := byronTaggedPayload(item)
		if err != nil {
			return nil, fmt.Errorf("byron witness %d: %w", idx, err)
		}
		wit, err := decodeKeyWitnesses(append([]byte{0x81}, payload...))
		if err != nil || len(wit) != 1 {
			return nil, fmt.Errorf("byron witness %d: malformed", idx)
		}
		tx.Witnesses.Bootstrap = append(tx.Witnesses.Bootstrap, wit[0])
	}
	return tx, nil
}

func byronTaggedKind(data []byte) (uint64, error) {
	items, err := ArrayItems(data)
	if err != nil {
		return 0, err
	}
	if len(items) != 2 {
		return 0, fmt.Errorf("expected 2 items, got %d", len(items))
	}
	return decodeUint(items[0])
}

// byronTaggedPayload unwraps [kind, #6.24(bytes)] into the embedded CBOR
func byronTaggedPayload(data []byte) ([]byte, error) {
	items, err := ArrayItems(data)
	if err != nil {
		return nil, err
	}
	if len(items) != 2 {
		return nil, fmt.Errorf("expected 2 items, got %d", len(items))
	}
	return decodeBytes(Untag(items[1]))
}

// ByronSignedData returns the bytes a Byron key witness signs for the
// given protocol magic
func ByronSignedData(txHash []byte, protocolMagic uint32) []byte {
	magic, _ := cbor.Marshal(protocolMagic)
	ret := make([]byte, 0, 1+len(magic)+2+len(txHash))
	ret = append(ret, 0x01)
	ret = append(ret, magic...)
	ret = append(ret, 0x58, byte(len(txHash)))
	ret = append(ret, txHash...)
	return ret
}

func decodeKeyWitnesses(data []byte) ([]VKeyWitness, error) {
	items, err := ArrayItems(data)
	if err != nil {
		return nil, err
	}
	ret := make([]VKeyWitness, 0, len(items))
	for _, item := range items {
		fields, err := ArrayItems(item)
		if err != nil {
			return nil, err
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("key witness has %d items", len(fields))
		}
		vkey, err := decodeBytes(fields[0])
		if err != nil {
			return nil, err
		}
		sig, err := decodeBytes(fields[1])
		if err != nil {
			return nil, err
		}
		ret = append(ret, VKeyWitness{VKey: vkey, Signature: sig})
	}
	return ret, nil
}
