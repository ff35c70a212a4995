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

// Package validation runs ordered batteries of named ledger checks against
// a decoded transaction. Every check in a battery is evaluated, whatever
// the outcome of the others, and produces exactly one Validation.
package validation

import (
	"fmt"
)

// Validation is the outcome of one named check
type Validation struct {
	Name        string `json:"name"`
	Value       bool   `json:"value"`
	Description string `json:"description"`
}

// Validations is the report of a whole battery
type Validations struct {
	Era         string       `json:"era"`
	Validations []Validation `json:"validations"`
}

// Empty returns a report with an era tag and no entries
func Empty(era string) Validations {
	return Validations{Era: era, Validations: []Validation{}}
}

// Passed reports whether every check in the report succeeded
func (v Validations) Passed() bool {
	for _, item := range v.Validations {
		if !item.Value {
			return false
		}
	}
	return true
}

// Get returns the entry with the given name
func (v Validations) Get(name string) (Validation, bool) {
	for _, item := range v.Validations {
		if item.Name == name {
			return item, true
		}
	}
	return Validation{}, false
}

// Check is a named predicate over an era environment. Success is the
// description reported when the predicate returns nil.
type Check[E any] struct {
	Name      string
	Success   string
	Predicate func(E) error
}

// Run evaluates checks in order against env
func Run[E any](era string, checks []Check[E], env E) Validations {
	ret := Validations{
		Era:         era,
		Validations: make([]Validation, 0, len(checks)),
	}
	for _, check := range checks {
		ret.Validations = append(ret.Validations, runCheck(check, env))
	}
	return ret
}

func runCheck[E any](check Check[E], env E) (ret Validation) {
	ret.Name = check.Name
	defer func() {
		if r := recover(); r != nil {
			ret.Value = false
			ret.Description = Describe(fmt.Errorf("check failed unexpectedly: %v", r))
		}
	}()
	if err := check.Predicate(env); err != nil {
		ret.Description = Describe(err)
		return ret
	}
	ret.Value = true
	ret.Description = check.Success
	return ret
}

// Describe formats a failed predicate for display
func Describe(err error) string {
	return "Error: " + err.Error()
}

// Names returns the check names of a battery in order
func Names[E any](checks []Check[E]) []string {
	ret := make([]string, len(checks))
	for idx, check := range checks {
		ret[idx] = check.Name
	}
	return ret
}
