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


package txview

import (
	"github.com/blinklabs-io/gouroboros/ledger/common"
)

const (
	Blake2b224Size = common.Blake2b224Size
	Blake2b256Size = common.Blake2b256Size
)

// Blake2b256Hash returns the Blake2b-256 digest of data
func Blake2b256Hash(data []byte) []byte {
	return common.Blake2b256Hash(data).Bytes()
}

// Blake2b224Hash returns the Blake2b-224 digest of data
func Blake2b224Hash(data []byte) []byte {
	return common.Blake2b224Hash(data).Bytes()
}
