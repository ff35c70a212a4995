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


// Package pipeline runs the transactions of a block through concurrent
// decode and validate stages. Results come back in block order.
package pipeline

import (
	"context"
)

// Stage is one step a transaction goes through. Process records its
// outcome on the item and also returns any failure.
type Stage interface {
	Name() string
	Process(ctx context.Context, item *TxItem) error
}

// StageFunc turns a named function into a Stage
type StageFunc struct {
	name string
	fn   func(ctx context.Context, item *TxItem) error
}

func NewStageFunc(name string, fn func(ctx context.Context, item *TxItem) error) *StageFunc {
	return &StageFunc{
		name: name,
		fn:   fn,
	}
}

func (s *StageFunc) Name() string {
	return s.name
}

func (s *StageFunc) Process(ctx context.Context, item *TxItem) error {
	return s.fn(ctx, item)
}
