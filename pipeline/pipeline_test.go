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


package pipeline_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/blinklabs-io/tx-anatomy/internal/test"
	"github.com/blinklabs-io/tx-anatomy/pipeline"
	"github.com/blinklabs-io/tx-anatomy/txview"
	"github.com/blinklabs-io/tx-anatomy/validation"
)

func buildTx(fee uint64) []byte {
	b := test.NewTxBuilder()
	b.Body[0] = []any{test.Input(test.TxHash(0xaa), 0)}
	b.Body[1] = []any{
		test.Output(test.EnterpriseAddress(0, test.KeyHash(0x22)), uint64(1_000_000)),
	}
	b.Body[2] = fee
	return b.Build()
}

// feeCheck passes transactions with a fee of at least 200000
func feeCheck(ctx context.Context, tx *txview.Tx) validation.Validations {
	return validation.Validations{
		Era: tx.Era.String(),
		Validations: []validation.Validation{
			{Name: "Fee", Value: tx.Fee != nil && *tx.Fee >= 200_000},
		},
	}
}

func newItems() []*pipeline.TxItem {
	raws := [][]byte{
		buildTx(100_000),
		buildTx(200_000),
		{0x00},
		buildTx(300_000),
		buildTx(400_000),
		buildTx(150_000),
	}
	items := make([]*pipeline.TxItem, len(raws))
	for idx, raw := range raws {
		items[idx] = pipeline.NewTxItem(idx, txview.EraBabbage, raw)
	}
	return items
}

func TestRunDecodesAndValidates(t *testing.T) {
	defer goleak.VerifyNone(t)
	p := pipeline.New(
		pipeline.WithDecodeWorkers(3),
		pipeline.WithValidateWorkers(2),
		pipeline.WithBufferSize(1),
		pipeline.WithValidateFunc(feeCheck),
	)
	items := newItems()
	require.NoError(t, p.Run(context.Background(), items))
	expected := []bool{false, true, false, true, true, false}
	for idx, item := range items {
		assert.Equal(t, idx, item.Index())
		if idx == 2 {
			assert.Error(t, item.DecodeError())
			assert.False(t, item.IsDecoded())
			_, ok := item.Validations()
			assert.False(t, ok)
			continue
		}
		require.NoError(t, item.DecodeError())
		res, ok := item.Validations()
		require.True(t, ok, idx)
		assert.Equal(t, "Babbage", res.Era)
		assert.Equal(t, expected[idx], res.Passed(), idx)
	}
	stats := p.Stats()
	assert.Equal(t, uint64(6), stats.TxsSubmitted)
	assert.Equal(t, uint64(5), stats.TxsDecoded)
	assert.Equal(t, uint64(1), stats.DecodeErrors)
	assert.Equal(t, uint64(3), stats.TxsPassed)
	assert.Equal(t, uint64(2), stats.TxsFailed)
}

func TestRunWithoutValidation(t *testing.T) {
	defer goleak.VerifyNone(t)
	p := pipeline.New()
	items := newItems()
	require.NoError(t, p.Run(context.Background(), items))
	for _, item := range items {
		_, ok := item.Validations()
		assert.False(t, ok)
	}
	assert.Equal(t, uint64(5), p.Stats().TxsDecoded)
}

func TestRunEmpty(t *testing.T) {
	defer goleak.VerifyNone(t)
	p := pipeline.New(pipeline.WithValidateWorkers(1), pipeline.WithValidateFunc(feeCheck))
	require.NoError(t, p.Run(context.Background(), nil))
}

func TestMissingValidateFunc(t *testing.T) {
	p := pipeline.New(pipeline.WithValidateWorkers(1))
	assert.ErrorIs(t, p.Run(context.Background(), newItems()), pipeline.ErrMissingValidateFunc)
}

func TestRunCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := pipeline.New(pipeline.WithValidateWorkers(2), pipeline.WithValidateFunc(feeCheck))
	assert.ErrorIs(t, p.Run(ctx, newItems()), context.Canceled)
}

func TestNilStagePanics(t *testing.T) {
	assert.PanicsWithValue(t, pipeline.ErrNilStage, func() {
		pipeline.NewWorkerPool(pipeline.PoolConfig{})
	})
}

func TestStageFunc(t *testing.T) {
	defer goleak.VerifyNone(t)
	input := make(chan *pipeline.TxItem, 2)
	output := make(chan *pipeline.TxItem, 2)
	errs := make(chan error, 2)
	seen := 0
	stage := pipeline.NewStageFunc("count", func(ctx context.Context, item *pipeline.TxItem) error {
		seen++
		if item.Index() == 1 {
			return assert.AnError
		}
		return nil
	})
	assert.Equal(t, "count", stage.Name())
	recorded := 0
	pool := pipeline.NewWorkerPool(pipeline.PoolConfig{
		Stage:  stage,
		Failed: errs,
		Record: func(*pipeline.TxItem, error) { recorded++ },
	})
	ctx := context.Background()
	pool.Start(ctx, input, output)
	// later starts are ignored
	pool.Start(ctx, input, output)
	input <- pipeline.NewTxItem(0, txview.EraBabbage, nil)
	input <- pipeline.NewTxItem(1, txview.EraBabbage, nil)
	close(input)
	pool.Wait()
	assert.Equal(t, 2, recorded)
	assert.Equal(t, 2, seen)
	assert.Len(t, output, 2)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, <-errs, assert.AnError)
}
