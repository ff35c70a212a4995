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

// Package conway holds the Conway validation battery. Conway transactions
// decode and render, but no Conway rules are checked yet: the report
// carries the era tag and no entries.
package conway

import (
	"github.com/blinklabs-io/tx-anatomy/validation"
)

const EraName = "Conway"

type Env struct {
	validation.Context
}

// TODO: port the Babbage checks once Conway parameters (governance
// deposits, reference script fees) are part of the caller's record
var Checks = []validation.Check[*Env]{}

// Validate runs the Conway battery
func Validate(ctx validation.Context) validation.Validations {
	return validation.Run(EraName, Checks, &Env{Context: ctx})
}
