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
	"sync"
	"time"

	"github.com/blinklabs-io/tx-anatomy/txview"
	"github.com/blinklabs-io/tx-anatomy/validation"
)

// TxItem represents a transaction as it moves through the pipeline.
// It is safe for concurrent use.
type TxItem struct {
	// set at construction
	index int
	era   txview.Era
	raw   []byte

	mu sync.RWMutex

	tx             *txview.Tx
	decodeError    error
	decodeDuration time.Duration

	validated        bool
	validations      validation.Validations
	validateDuration time.Duration
}

// NewTxItem creates a new TxItem. The raw slice is copied.
func NewTxItem(index int, era txview.Era, raw []byte) *TxItem {
	tmp := make([]byte, len(raw))
	copy(tmp, raw)
	return &TxItem{
		index: index,
		era:   era,
		raw:   tmp,
	}
}

// Index returns the position of the transaction in its block
func (t *TxItem) Index() int {
	return t.index
}

func (t *TxItem) Era() txview.Era {
	return t.era
}

// Raw returns the transaction CBOR. The returned slice should not be modified.
func (t *TxItem) Raw() []byte {
	return t.raw
}

// Tx returns the decoded transaction, or nil if not yet decoded or decode failed.
func (t *TxItem) Tx() *txview.Tx {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.tx
}

// SetTx sets the decoded transaction and clears any decode error
func (t *TxItem) SetTx(tx *txview.Tx, duration time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tx = tx
	t.decodeError = nil
	t.decodeDuration = duration
}

func (t *TxItem) DecodeError() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.decodeError
}

// SetDecodeError sets the decode error and clears any decoded transaction
func (t *TxItem) SetDecodeError(err error, duration time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tx = nil
	t.decodeError = err
	t.decodeDuration = duration
}

func (t *TxItem) DecodeDuration() time.Duration {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.decodeDuration
}

// IsDecoded returns true if the transaction has been successfully decoded.
func (t *TxItem) IsDecoded() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.tx != nil
}

func (t *TxItem) SetValidations(v validation.Validations, duration time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.validated = true
	t.validations = v
	t.validateDuration = duration
}

// Validations returns the report of the validate stage. The boolean is
// false when the stage hasn't run for this item.
func (t *TxItem) Validations() (validation.Validations, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.validations, t.validated
}

func (t *TxItem) ValidateDuration() time.Duration {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.validateDuration
}
