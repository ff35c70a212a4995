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
	"fmt"

	"github.com/blinklabs-io/tx-anatomy/diagnostic"
	"github.com/blinklabs-io/tx-anatomy/txview"
)

// Block renders an era-tagged block. A block that fails to decode yields
// a cbor_parse root carrying only the error.
func Block(raw []byte) *diagnostic.Section {
	return diagnostic.New().
		WithTopic(RootTopic).
		TryBuildChild(func() (*diagnostic.Section, error) {
			blk, err := txview.DecodeBlock(raw)
			if err != nil {
				return nil, err
			}
			return blockSection(blk)
		})
}

func blockSection(blk *txview.Block) (*diagnostic.Section, error) {
	txs := make([]*diagnostic.Section, 0, len(blk.TxsRaw))
	if len(blk.TxHashes) != len(blk.TxsRaw) {
		return nil, fmt.Errorf(
			"block has %d transactions but %d hashes",
			len(blk.TxsRaw),
			len(blk.TxHashes),
		)
	}
	for idx, tx := range blk.TxsRaw {
		txs = append(
			txs,
			diagnostic.New().
				WithTopic("block_tx").
				WithBytes(tx).
				WithAttr("tx_hash", blk.TxHashes[idx]),
		)
	}
	return diagnostic.New().
		WithTopic("block").
		BuildChild(func() *diagnostic.Section {
			return diagnostic.New().
				WithTopic("block_header").
				WithAttr("era", blk.Era).
				WithAttr("slot", blk.Slot).
				WithAttr("hash", blk.Hash)
		}).
		BuildChild(func() *diagnostic.Section {
			return diagnostic.New().
				WithTopic("block_body").
				CollectChildren(txs)
		}), nil
}
