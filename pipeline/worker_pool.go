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
	"sync"
)

// PoolConfig describes a WorkerPool
type PoolConfig struct {
	// Stage is required
	Stage Stage
	// Workers defaults to 1
	Workers int
	// Record is called once per processed item, unless processing was cut
	// short by cancellation
	Record func(item *TxItem, err error)
	// Failed receives stage errors and may be nil
	Failed chan<- error
}

// WorkerPool runs one stage on a fixed number of goroutines. Every item
// read from the input is forwarded to the output, failed or not.
type WorkerPool struct {
	cfg   PoolConfig
	once  sync.Once
	wg    sync.WaitGroup
	doneC chan struct{}
}

// NewWorkerPool panics with ErrNilStage when cfg has no stage
func NewWorkerPool(cfg PoolConfig) *WorkerPool {
	if cfg.Stage == nil {
		panic(ErrNilStage)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &WorkerPool{
		cfg:   cfg,
		doneC: make(chan struct{}),
	}
}

// Start launches the workers. out is closed after the last worker exits,
// which happens once in is drained and closed or ctx is done. Only the
// first call has any effect.
func (p *WorkerPool) Start(ctx context.Context, in <-chan *TxItem, out chan<- *TxItem) {
	p.once.Do(func() {
		p.wg.Add(p.cfg.Workers)
		for range p.cfg.Workers {
			go p.work(ctx, in, out)
		}
		go func() {
			p.wg.Wait()
			close(out)
			close(p.doneC)
		}()
	})
}

// Wait blocks until the pool has shut down. It must follow Start.
func (p *WorkerPool) Wait() {
	<-p.doneC
}

func (p *WorkerPool) work(ctx context.Context, in <-chan *TxItem, out chan<- *TxItem) {
	defer p.wg.Done()
	for {
		var item *TxItem
		select {
		case <-ctx.Done():
			return
		case tmp, ok := <-in:
			if !ok {
				return
			}
			item = tmp
		}
		if !p.handle(ctx, item, out) {
			return
		}
	}
}

// handle processes one item and reports whether the worker should go on
func (p *WorkerPool) handle(ctx context.Context, item *TxItem, out chan<- *TxItem) bool {
	err := p.cfg.Stage.Process(ctx, item)
	cancelled := errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
	if p.cfg.Record != nil && !cancelled {
		p.cfg.Record(item, err)
	}
	if err != nil && p.cfg.Failed != nil {
		select {
		case p.cfg.Failed <- err:
		case <-ctx.Done():
			return false
		}
	}
	select {
	case out <- item:
		return true
	case <-ctx.Done():
		return false
	}
}

func decodeRecorder(m *Metrics) func(*TxItem, error) {
	return func(item *TxItem, err error) {
		m.RecordDecode(item.DecodeDuration(), err)
	}
}

// validateRecorder ignores items the validate stage passed through
// undecoded
func validateRecorder(m *Metrics) func(*TxItem, error) {
	return func(item *TxItem, _ error) {
		res, ok := item.Validations()
		if !ok {
			return
		}
		m.RecordValidate(item.ValidateDuration(), res.Passed())
	}
}
