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

// Block type IDs used in the [type, block] envelope
const (
	BlockTypeByronEbb  = 0
	BlockTypeByronMain = 1
	BlockTypeShelley   = 2
	BlockTypeAlonzo    = 5
	BlockTypeConway    = 7
)

// Block is an era-tagged block with its transactions in wire form
type Block struct {
	Type   uint
	Era    string
	Slot   uint64
	Hash   string
	Raw    []byte
	TxsRaw [][]byte
	// TxHashes holds the codec's hash of each transaction, in block order
	TxHashes []string
}

// DecodeBlock decodes a [type, block] envelope. The ledger codec validates
// the block and provides the header fields and transaction hashes. Codec
// transactions carry no encoded form of their own, so the transactions are
// cut out of the raw block and reassembled from their parts.
func DecodeBlock(raw []byte) (*Block, error) {
	items, err := ArrayItems(raw)
	if err != nil {
		return nil, fmt.Errorf("block envelope: %w", err)
	}
	if len(items) != 2 {
		return nil, fmt.Errorf("block envelope has %d items", len(items))
	}
	blockType, err := decodeUint(items[0])
	if err != nil {
		return nil, fmt.Errorf("block type: %w", err)
	}
	if blockType > BlockTypeConway {
		return nil, fmt.Errorf("unknown block type: %d", blockType)
	}
	blk, err := ledger.NewBlockFromCbor(uint(blockType), items[1])
	if err != nil {
		return nil, fmt.Errorf("decode block: %w", err)
	}
	ret := &Block{
		Type: uint(blockType),
		Era:  blk.Era().Name,
		Slot: blk.SlotNumber(),
		Hash: fmt.Sprint(blk.Hash()),
		Raw:  items[1],
	}
	switch {
	case blockType == BlockTypeByronEbb:
	case blockType == BlockTypeByronMain:
		ret.TxsRaw, err = byronBlockTxs(items[1])
	default:
		ret.TxsRaw, err = shelleyBlockTxs(items[1], blockType >= BlockTypeAlonzo)
	}
	if err != nil {
		return nil, err
	}
	txs := blk.Transactions()
	if len(txs) != len(ret.TxsRaw) {
		return nil, fmt.Errorf(
			"block has %d transactions but codec decoded %d",
			len(ret.TxsRaw),
			len(txs),
		)
	}
	for _, tx := range txs {
		ret.TxHashes = append(ret.TxHashes, fmt.Sprint(tx.Hash()))
	}
	return ret, nil
}

// byronBlockTxs returns the [tx, witnesses] pairs of the transaction payload
func byronBlockTxs(data []byte) ([][]byte, error) {
	items, err := ArrayItems(data)
	if err != nil || len(items) < 2 {
		return nil, errors.New("byron block: malformed")
	}
	body, err := ArrayItems(items[1])
	if err != nil || len(body) == 0 {
		return nil, errors.New("byron block body: malformed")
	}
	txs, err := ArrayItems(body[0])
	if err != nil {
		return nil, fmt.Errorf("byron block transactions: %w", err)
	}
	ret := make([][]byte, 0, len(txs))
	for _, tx := range txs {
		ret = append(ret, tx)
	}
	return ret, nil
}

// shelleyBlockTxs reassembles each transaction from the parallel body,
// witness set and auxiliary data collections of the block
func shelleyBlockTxs(data []byte, withValidity bool) ([][]byte, error) {
	items, err := ArrayItems(data)
	if err != nil || len(items) < 4 {
		return nil, errors.New("block: malformed")
	}
	bodies, err := ArrayItems(items[1])
	if err != nil {
		return nil, fmt.Errorf("block transaction bodies: %w", err)
	}
	wits, err := ArrayItems(items[2])
	if err != nil {
		return nil, fmt.Errorf("block witness sets: %w", err)
	}
	if len(bodies) != len(wits) {
		return nil, fmt.Errorf(
			"block has %d transaction bodies but %d witness sets",
			len(bodies),
			len(wits),
		)
	}
	auxEntries, err := MapEntries(items[3])
	if err != nil {
		return nil, fmt.Errorf("block auxiliary data: %w", err)
	}
	aux := make(map[uint64]cbor.RawMessage, len(auxEntries))
	for _, entry := range auxEntries {
		idx, err := decodeUint(entry.Key)
		if err != nil {
			return nil, fmt.Errorf("block auxiliary data index: %w", err)
		}
		aux[idx] = entry.Value
	}
	invalid := map[uint64]bool{}
	if withValidity && len(items) > 4 {
		var tmp []uint64
		if err := cbor.Unmarshal(Untag(items[4]), &tmp); err != nil {
			return nil, fmt.Errorf("block invalid transactions: %w", err)
		}
		for _, idx := range tmp {
			invalid[idx] = true
		}
	}
	ret := make([][]byte, 0, len(bodies))
	for idx := range bodies {
		var auxData any
		if tmp, ok := aux[uint64(idx)]; ok {
			auxData = tmp
		}
		parts := []any{bodies[idx], wits[idx]}
		if withValidity {
			parts = append(parts, !invalid[uint64(idx)])
		}
		parts = append(parts, auxData)
		tx, err := cbor.Marshal(parts)
		if err != nil {
			return nil, fmt.Errorf("block transaction %d: %w", idx, err)
		}
		ret = append(ret, tx)
	}
	return ret, nil
}
