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


package anatomy

import (
	"context"

	"github.com/blinklabs-io/tx-anatomy/diagnostic"
	"github.com/blinklabs-io/tx-anatomy/pipeline"
	"github.com/blinklabs-io/tx-anatomy/render"
	"github.com/blinklabs-io/tx-anatomy/txview"
	"github.com/blinklabs-io/tx-anatomy/validation"
)

// BlockTxValidations is the report for one transaction of a block
type BlockTxValidations struct {
	Index       int                    `json:"index"`
	TxHash      string                 `json:"txHash"`
	Error       *string                `json:"error"`
	Validations validation.Validations `json:"validations"`
}

// ValidateBlock renders a hex-encoded, era-tagged block and validates each
// of its transactions with the rules of the block's era. The era named in
// vctx is ignored. A zero BlockSlot is replaced with the block's own slot.
func (i *Inspector) ValidateBlock(
	ctx context.Context,
	rawHex string,
	vctx ValidationContext,
) (*diagnostic.Section, []BlockTxValidations) {
	raw, err := decodeHex(rawHex)
	if err != nil {
		return diagnostic.New().WithTopic(render.RootTopic).WithError(err), []BlockTxValidations{}
	}
	tree := render.Block(raw)
	blk, err := txview.DecodeBlock(raw)
	if err != nil || blk.Type == txview.BlockTypeByronEbb {
		return tree, []BlockTxValidations{}
	}
	era := txview.Era(blk.Type - 1)
	net := i.resolveNetwork(vctx.Network)
	slot := vctx.BlockSlot
	if slot == 0 {
		slot = blk.Slot
	}
	items := make([]*pipeline.TxItem, len(blk.TxsRaw))
	for idx, txRaw := range blk.TxsRaw {
		items[idx] = pipeline.NewTxItem(idx, era, txRaw)
	}
	p := pipeline.New(
		pipeline.WithDecodeWorkers(i.blockWorkers),
		pipeline.WithValidateWorkers(i.blockWorkers),
		pipeline.WithLogger(i.logger),
		pipeline.WithValidateFunc(func(ctx context.Context, tx *txview.Tx) validation.Validations {
			valCtx := validation.Context{
				Tx:      tx,
				Network: net,
				Slot:    slot,
			}
			if tx.Era != txview.EraConway {
				valCtx.UTxOs = i.resolve(ctx, tx, net)
			}
			return i.runBattery(valCtx, vctx.ProtocolParams)
		}),
	)
	if err := p.Run(ctx, items); err != nil {
		i.logger.Error(
			"block validation interrupted",
			"component", "anatomy",
			"block_hash", blk.Hash,
			"error", err,
		)
	}
	ret := make([]BlockTxValidations, 0, len(items))
	for _, item := range items {
		entry := BlockTxValidations{
			Index:       item.Index(),
			Validations: validation.Empty(eraTag(era)),
		}
		if idx := item.Index(); idx < len(blk.TxHashes) {
			entry.TxHash = blk.TxHashes[idx]
		}
		if err := item.DecodeError(); err != nil {
			msg := err.Error()
			entry.Error = &msg
		}
		if res, ok := item.Validations(); ok {
			entry.Validations = res
		}
		ret = append(ret, entry)
	}
	stats := p.Stats()
	i.logger.Debug(
		"validated block",
		"component", "anatomy",
		"block_hash", blk.Hash,
		"txs", stats.TxsSubmitted,
		"passed", stats.TxsPassed,
		"failed", stats.TxsFailed,
		"decode_errors", stats.DecodeErrors,
	)
	return tree, ret
}
