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
	"fmt"
	"strings"
)

// Era identifies the ledger era a transaction was decoded with
type Era uint

// The values match the codec's transaction type IDs
const (
	EraByron Era = iota
	EraShelley
	EraAllegra
	EraMary
	EraAlonzo
	EraBabbage
	EraConway
)

var eraNames = map[Era]string{
	EraByron:   "Byron",
	EraShelley: "Shelley",
	EraAllegra: "Allegra",
	EraMary:    "Mary",
	EraAlonzo:  "Alonzo",
	EraBabbage: "Babbage",
	EraConway:  "Conway",
}

func (e Era) String() string {
	if name, ok := eraNames[e]; ok {
		return name
	}
	return fmt.Sprintf("Era(%d)", uint(e))
}

// TxType returns the codec transaction type for the era
func (e Era) TxType() uint {
	return uint(e)
}

// BlockType returns the codec block type for the era. Byron maps to the
// main block type.
func (e Era) BlockType() uint {
	return uint(e) + 1
}

// IsShelleyMA reports whether e is one of the Shelley, Allegra and Mary eras
func (e Era) IsShelleyMA() bool {
	return e == EraShelley || e == EraAllegra || e == EraMary
}

// AtLeast reports whether e is other or a later era
func (e Era) AtLeast(other Era) bool {
	return e >= other
}

// EraFromTxType maps a codec transaction type to an era
func EraFromTxType(txType uint) (Era, error) {
	e := Era(txType)
	if _, ok := eraNames[e]; !ok {
		return 0, fmt.Errorf("unknown transaction type: %d", txType)
	}
	return e, nil
}

// EraByName finds an era by its name, ignoring case. "Shelley MA" names the
// Mary codec, which accepts Shelley and Allegra encodings as well.
func EraByName(name string) (Era, bool) {
	name = strings.TrimSpace(name)
	switch strings.ToLower(name) {
	case "shelley ma", "shelleyma", "shelley-ma", "shelley mary allegra":
		return EraMary, true
	}
	for era, eraName := range eraNames {
		if strings.EqualFold(eraName, name) {
			return era, true
		}
	}
	return 0, false
}
