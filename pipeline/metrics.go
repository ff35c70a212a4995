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
	"sync/atomic"
	"time"
)

// Stats is a snapshot of pipeline metrics
type Stats struct {
	TxsSubmitted uint64 `json:"txsSubmitted"`
	TxsDecoded   uint64 `json:"txsDecoded"`
	DecodeErrors uint64 `json:"decodeErrors"`
	// TxsPassed and TxsFailed count transactions by the outcome of their
	// checks
	TxsPassed      uint64        `json:"txsPassed"`
	TxsFailed      uint64        `json:"txsFailed"`
	DecodeTime     time.Duration `json:"decodeTime"`
	ValidationTime time.Duration `json:"validationTime"`
	StartTime      time.Time     `json:"startTime"`
}

// Metrics tracks counters for a pipeline run. It is safe for concurrent use.
type Metrics struct {
	txsSubmitted atomic.Uint64
	txsDecoded   atomic.Uint64
	decodeErrors atomic.Uint64
	txsPassed    atomic.Uint64
	txsFailed    atomic.Uint64

	mu             sync.Mutex
	decodeTime     time.Duration
	validationTime time.Duration
	startTime      time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{
		startTime: time.Now(),
	}
}

func (m *Metrics) RecordSubmit() {
	m.txsSubmitted.Add(1)
}

func (m *Metrics) RecordDecode(duration time.Duration, err error) {
	if err != nil {
		m.decodeErrors.Add(1)
	} else {
		m.txsDecoded.Add(1)
	}
	m.mu.Lock()
	m.decodeTime += duration
	m.mu.Unlock()
}

func (m *Metrics) RecordValidate(duration time.Duration, passed bool) {
	if passed {
		m.txsPassed.Add(1)
	} else {
		m.txsFailed.Add(1)
	}
	m.mu.Lock()
	m.validationTime += duration
	m.mu.Unlock()
}

// Stats returns a snapshot of the current metrics.
func (m *Metrics) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Stats{
		TxsSubmitted:   m.txsSubmitted.Load(),
		TxsDecoded:     m.txsDecoded.Load(),
		DecodeErrors:   m.decodeErrors.Load(),
		TxsPassed:      m.txsPassed.Load(),
		TxsFailed:      m.txsFailed.Load(),
		DecodeTime:     m.decodeTime,
		ValidationTime: m.validationTime,
		StartTime:      m.startTime,
	}
}
