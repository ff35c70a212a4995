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
	"github.com/blinklabs-io/tx-anatomy/validation"
)

// ErrMissingValidateFunc is returned when validation is enabled without a ValidateFunc
var ErrMissingValidateFunc = errors.New("pipeline: validation enabled but ValidateFunc not configured")

// ValidateFunc runs the checks of an era against a decoded transaction.
// It is called from several goroutines at once.
type ValidateFunc func(ctx context.Context, tx *txview.Tx) validation.Validations

// ValidateStage runs a ValidateFunc over decoded transactions. Items that
// failed to decode pass through untouched.
type ValidateStage struct {
	validate ValidateFunc
}

func NewValidateStage(validate ValidateFunc) *ValidateStage {
	return &ValidateStage{
		validate: validate,
	}
}

func (s *ValidateStage) Name() string {
	return "validate"
}

// Process never fails on its own. Failing checks are part of the report.
func (s *ValidateStage) Process(ctx context.Context, item *TxItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := item.Tx()
	if tx == nil {
		return nil
	}
	start := time.Now()
	res := s.validate(ctx, tx)
	item.SetValidations(res, time.Since(start))
	return nil
}
