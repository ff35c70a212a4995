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


package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/blinklabs-io/tx-anatomy/txview"
)

// ErrNilStage is the panic value of NewWorkerPool without a stage
var ErrNilStage = errors.New("pipeline: nil stage")

// DecodeStage decodes raw transaction CBOR with the codec of the item's era
type DecodeStage struct{}

func NewDecodeStage() *DecodeStage {
	return &DecodeStage{}
}

func (s *DecodeStage) Name() string {
	return "decode"
}

// Process stores either the decoded view or the decode error on item
func (s *DecodeStage) Process(ctx context.Context, item *TxItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	tx, err := txview.Decode(item.Era(), item.Raw())
	duration := time.Since(start)

	if err != nil {
		item.SetDecodeError(err, duration)
		return err
	}

	item.SetTx(tx, duration)
	return nil
}
