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
	"fmt"
)

// Pipeline decodes and optionally validates batches of transactions
type Pipeline struct {
	config  Config
	metrics *Metrics
}

// New creates a new Pipeline using functional options.
//
// Example:
//
//	p := New(
//	    WithValidateWorkers(4),
//	    WithValidateFunc(myValidateFunc),
//	)
func New(opts ...Option) *Pipeline {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return &Pipeline{
		config:  config,
		metrics: NewMetrics(),
	}
}

// Run passes every item through the stages and returns once all of them
// are done or ctx is. Results are stored on the items themselves, which
// stay in the caller's order. Items that fail to decode skip validation.
func (p *Pipeline) Run(ctx context.Context, items []*TxItem) error {
	validationEnabled := p.config.ValidateWorkers > 0
	if validationEnabled && p.config.ValidateFunc == nil {
		return ErrMissingValidateFunc
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	bufSize := p.config.BufferSize
	submitChan := make(chan *TxItem, bufSize)
	decodedChan := make(chan *TxItem, bufSize)

	decodePool := NewWorkerPool(PoolConfig{
		Stage:   NewDecodeStage(),
		Workers: p.config.DecodeWorkers,
		Record:  decodeRecorder(p.metrics),
	})
	decodePool.Start(ctx, submitChan, decodedChan)

	var results <-chan *TxItem = decodedChan
	if validationEnabled {
		validatedChan := make(chan *TxItem, bufSize)
		validatePool := NewWorkerPool(PoolConfig{
			Stage:   NewValidateStage(p.config.ValidateFunc),
			Workers: p.config.ValidateWorkers,
			Record:  validateRecorder(p.metrics),
		})
		validatePool.Start(ctx, decodedChan, validatedChan)
		results = validatedChan
	}

	go func() {
		defer close(submitChan)
		for _, item := range items {
			p.metrics.RecordSubmit()
			select {
			case submitChan <- item:
			case <-ctx.Done():
				return
			}
		}
	}()

	done := 0
	for item := range results {
		done++
		if err := item.DecodeError(); err != nil {
			p.config.Logger.Warn(
				"failed to decode transaction",
				"component", "pipeline",
				"index", item.Index(),
				"era", item.Era().String(),
				"error", err,
			)
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if done != len(items) {
		return fmt.Errorf("pipeline: %d of %d transactions processed", done, len(items))
	}
	return nil
}

// Stats returns the metrics accumulated over every run
func (p *Pipeline) Stats() Stats {
	return p.metrics.Stats()
}
