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
	"log/slog"
	"runtime"
)

// Config holds configuration for a Pipeline.
type Config struct {
	// DecodeWorkers is the number of parallel decode workers.
	DecodeWorkers int
	// ValidateWorkers is the number of parallel validate workers. Zero
	// disables the validate stage.
	ValidateWorkers int
	// BufferSize is the buffer size for inter-stage channels.
	BufferSize int
	// ValidateFunc is required when ValidateWorkers is positive
	ValidateFunc ValidateFunc
	Logger       *slog.Logger
}

// DefaultConfig returns a Config with decode workers scaled to the CPU
// count. Validation is opt-in.
func DefaultConfig() Config {
	decodeWorkers := runtime.NumCPU() / 4
	if decodeWorkers < 2 {
		decodeWorkers = 2
	}
	return Config{
		DecodeWorkers: decodeWorkers,
		BufferSize:    64,
		Logger:        slog.Default(),
	}
}

// Option is a functional option for configuring a Pipeline.
type Option func(*Config)

// WithDecodeWorkers sets the number of decode workers.
func WithDecodeWorkers(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.DecodeWorkers = n
		}
	}
}

// WithValidateWorkers sets the number of validate workers.
func WithValidateWorkers(n int) Option {
	return func(c *Config) {
		if n >= 0 {
			c.ValidateWorkers = n
		}
	}
}

// WithBufferSize sets the buffer size for inter-stage channels.
func WithBufferSize(size int) Option {
	return func(c *Config) {
		if size > 0 {
			c.BufferSize = size
		}
	}
}

// WithValidateFunc sets the function run by the validate stage
func WithValidateFunc(fn ValidateFunc) Option {
	return func(c *Config) {
		c.ValidateFunc = fn
	}
}

// WithLogger specifies the logger to use
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}
