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

package babbage

import (
	"fmt"
)

type TxSizeUnavailableError struct{}

func (TxSizeUnavailableError) Error() string {
	return "the transaction size could not be obtained"
}

type OutputSizeError struct {
	Index int
	Err   error
}

func (e OutputSizeError) Error() string {
	return fmt.Sprintf("output %d: size could not be obtained: %s", e.Index, e.Err)
}

func (e OutputSizeError) Unwrap() error {
	return e.Err
}
