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
	"log/slog"

	"github.com/blinklabs-io/tx-anatomy/provider"
)

// InspectorOptionFunc is a type that represents functions that modify the
// Inspector config
type InspectorOptionFunc func(*Inspector)

// WithProvider specifies the provider used to resolve inputs and fetch
// protocol parameters
func WithProvider(p provider.Provider) InspectorOptionFunc {
	return func(i *Inspector) {
		i.provider = p
	}
}

// WithLogger specifies the logger to use
func WithLogger(logger *slog.Logger) InspectorOptionFunc {
	return func(i *Inspector) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithResolverConcurrency bounds the number of output lookups in flight
// while resolving the inputs of a transaction
func WithResolverConcurrency(n int) InspectorOptionFunc {
	return func(i *Inspector) {
		i.resolverConcurrency = n
	}
}

// WithBlockWorkers sets the number of transactions of a block that are
// decoded and validated at once
func WithBlockWorkers(n int) InspectorOptionFunc {
	return func(i *Inspector) {
		i.blockWorkers = n
	}
}
