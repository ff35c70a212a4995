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

package byron

import (
	"fmt"
	"math/big"
)

type OutputSetEmptyError struct{}

func (OutputSetEmptyError) Error() string {
	return "output set empty"
}

type OutputWithoutValueError struct {
	Index int
}

func (e OutputWithoutValueError) Error() string {
	return fmt.Sprintf("output %d carries no lovelace", e.Index)
}

type OutputsExceedInputsError struct {
	Inputs  *big.Int
	Outputs *big.Int
}

func (e OutputsExceedInputsError) Error() string {
	return fmt.Sprintf(
		"outputs exceed inputs: inputs %s, outputs %s",
		e.Inputs.String(),
		e.Outputs.String(),
	)
}

type WitnessCountError struct {
	Inputs    int
	Witnesses int
}

func (e WitnessCountError) Error() string {
	return fmt.Sprintf(
		"witness count mismatch: %d inputs, %d witnesses",
		e.Inputs,
		e.Witnesses,
	)
}

type InvalidWitnessKeyError struct {
	Index int
	Size  int
}

func (e InvalidWitnessKeyError) Error() string {
	return fmt.Sprintf("witness %d: unexpected key size %d", e.Index, e.Size)
}
