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

package validation

import (
	"errors"

	"github.com/blinklabs-io/gouroboros/ledger/common"
	"github.com/blinklabs-io/gouroboros/ledger/shelley"
)

// ledgerState answers the network queries of the codec's era rules. The
// rules delegated to here read nothing else from the ledger state.
type ledgerState struct {
	common.LedgerState
	networkId uint
}

func (s ledgerState) NetworkId() uint {
	return s.networkId
}

// codecRule runs one of the codec's transaction rules over the decoded
// transaction. The rules called through here ignore the slot and the
// protocol parameters.
func codecRule(
	rule common.UtxoValidationRuleFunc,
	tx common.Transaction,
	netId uint8,
) error {
	return rule(tx, 0, ledgerState{networkId: uint(netId)}, nil)
}

// fromCodecError maps the codec's rule failures onto the errors reported
// for views built by hand
func fromCodecError(err error, netId uint8) error {
	var wrongNetwork shelley.WrongNetworkError
	if errors.As(err, &wrongNetwork) {
		return WrongNetworkError{NetId: netId, Addrs: addressStrings(wrongNetwork.Addrs)}
	}
	var wrongWithdrawal shelley.WrongNetworkWithdrawalError
	if errors.As(err, &wrongWithdrawal) {
		return WrongNetworkWithdrawalError{NetId: netId, Addrs: addressStrings(wrongWithdrawal.Addrs)}
	}
	var emptyInputs shelley.InputSetEmptyUtxoError
	if errors.As(err, &emptyInputs) {
		return InputSetEmptyError{}
	}
	var missingSigner common.MissingRequiredVKeyWitnessForSignerError
	if errors.As(err, &missingSigner) {
		return MissingVKeyWitnessError{KeyHash: missingSigner.Signer.Bytes()}
	}
	return err
}

func addressStrings(addrs []common.Address) []string {
	ret := make([]string, len(addrs))
	for idx, addr := range addrs {
		ret[idx] = addr.String()
	}
	return ret
}
