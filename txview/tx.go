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

// Package txview builds an era-tagged view of a transaction from its raw
// CBOR. The ledger codec decides whether the bytes are acceptable for an
// era; the view then projects the fields that rendering and validation
// need, keeping the original bytes wherever a hash is computed over them.
package txview

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/blinklabs-io/gouroboros/ledger/common"
)

// OutputRef identifies a transaction output
type OutputRef struct {
	TxHash string // hex
	Index  uint32
}

func (r OutputRef) String() string {
	return fmt.Sprintf("%s#%d", r.TxHash, r.Index)
}

// TxIn is a transaction input
type TxIn struct {
	OutputRef
}

// Script languages, matching the script hash prefix bytes
type ScriptLanguage uint8

const (
	ScriptNative   ScriptLanguage = 0
	ScriptPlutusV1 ScriptLanguage = 1
	ScriptPlutusV2 ScriptLanguage = 2
	ScriptPlutusV3 ScriptLanguage = 3
)

func (l ScriptLanguage) String() string {
	switch l {
	case ScriptNative:
		return "native"
	case ScriptPlutusV1:
		return "plutus_v1"
	case ScriptPlutusV2:
		return "plutus_v2"
	case ScriptPlutusV3:
		return "plutus_v3"
	}
	return fmt.Sprintf("ScriptLanguage(%d)", uint8(l))
}

// Script is a native script (raw CBOR) or a Plutus script (flat bytes)
type Script struct {
	Language ScriptLanguage
	Bytes    []byte
}

// Hash returns the script hash used by policy IDs and script credentials
func (s Script) Hash() []byte {
	tmp := make([]byte, 0, len(s.Bytes)+1)
	tmp = append(tmp, byte(s.Language))
	tmp = append(tmp, s.Bytes...)
	return Blake2b224Hash(tmp)
}

// TxOut is a transaction output, and also the resolved form of a UTxO
type TxOut struct {
	Address     Address
	Value       Value
	DatumHash   []byte
	InlineDatum []byte // raw Plutus data CBOR
	ScriptRef   *Script
	// Raw is the output as encoded on the wire, nil when the output did not
	// come from CBOR
	Raw []byte
}

// EncodedValueSize returns the serialized size of the output value
func (o TxOut) EncodedValueSize() (int, error) {
	data, err := o.Value.MarshalCBOR()
	if err != nil {
		return 0, err
	}
	return len(data), nil
}

// Certificate kinds
const (
	CertStakeRegistration       = 0
	CertStakeDeregistration     = 1
	CertStakeDelegation         = 2
	CertPoolRegistration        = 3
	CertPoolRetirement          = 4
	CertGenesisKeyDelegation    = 5
	CertMoveInstantaneousReward = 6
	CertRegistration            = 7
	CertDeregistration          = 8
	CertVoteDelegation          = 9
	CertStakeVoteDelegation     = 10
	CertStakeRegDelegation      = 11
	CertVoteRegDelegation       = 12
	CertStakeVoteRegDelegation  = 13
	CertAuthCommitteeHot        = 14
	CertResignCommitteeCold     = 15
	CertDrepRegistration        = 16
	CertDrepDeregistration      = 17
	CertUpdateDrep              = 18
)

// Certificate is the deposit-relevant projection of a certificate
type Certificate struct {
	Kind uint64
	// Deposit carries the explicit deposit or refund of Conway certificates
	Deposit *uint64
	Raw     []byte
}

// Withdrawal is a reward withdrawal
type Withdrawal struct {
	Address Address
	Amount  uint64
}

// Metadatum is one labelled entry of transaction metadata
type Metadatum struct {
	Label uint64
	Value []byte // raw CBOR
}

// AuxData is the auxiliary data attached to a transaction
type AuxData struct {
	Raw      []byte
	Metadata []Metadatum
	Scripts  []Script
}

// VKeyWitness is a verification key and the signature it produced
type VKeyWitness struct {
	VKey      []byte
	Signature []byte
}

// Redeemer tags
type RedeemerTag uint8

const (
	RedeemerTagSpend     RedeemerTag = 0
	RedeemerTagMint      RedeemerTag = 1
	RedeemerTagCert      RedeemerTag = 2
	RedeemerTagReward    RedeemerTag = 3
	RedeemerTagVoting    RedeemerTag = 4
	RedeemerTagProposing RedeemerTag = 5
)

func (t RedeemerTag) String() string {
	switch t {
	case RedeemerTagSpend:
		return "Spend"
	case RedeemerTagMint:
		return "Mint"
	case RedeemerTagCert:
		return "Cert"
	case RedeemerTagReward:
		return "Reward"
	case RedeemerTagVoting:
		return "Vote"
	case RedeemerTagProposing:
		return "Propose"
	}
	return fmt.Sprintf("RedeemerTag(%d)", uint8(t))
}

// Redeemer points a script execution at a transaction component
type Redeemer struct {
	Tag   RedeemerTag
	Index uint32
	Data  []byte // raw Plutus data CBOR
	Mem   uint64
	Steps uint64
}

// Witnesses is the witness set of a transaction
type Witnesses struct {
	VKeys []VKeyWitness
	// Bootstrap holds Byron-style witnesses. For Byron transactions VKey is
	// the 64-byte extended public key.
	Bootstrap  []VKeyWitness
	Scripts    []Script
	PlutusData [][]byte
	Redeemers  []Redeemer
	// PlutusDataRaw and RedeemersRaw keep the encoded fields for the script
	// data hash
	PlutusDataRaw []byte
	RedeemersRaw  []byte
	Raw           []byte
}

// ScriptsOf returns the witness scripts of one language
func (w Witnesses) ScriptsOf(lang ScriptLanguage) []Script {
	var ret []Script
	for _, s := range w.Scripts {
		if s.Language == lang {
			ret = append(ret, s)
		}
	}
	return ret
}

// Tx is the normalized view of a decoded transaction
type Tx struct {
	Era  Era
	Hash string // hex
	Raw  []byte
	Body []byte
	// Ledger is the codec transaction the view was projected from, nil for
	// views built by hand
	Ledger common.Transaction

	Inputs           []TxIn
	Collateral       []TxIn
	ReferenceInputs  []TxIn
	Outputs          []TxOut
	CollateralReturn *TxOut
	TotalCollateral  *uint64
	Fee              *uint64
	TTL              *uint64
	ValidityStart    *uint64
	Certificates     []Certificate
	Withdrawals      []Withdrawal
	Mint             MultiAsset
	AuxDataHash      []byte
	AuxData          *AuxData
	ScriptDataHash   []byte
	RequiredSigners  [][]byte
	NetworkID        *uint64
	IsValid          bool
	Witnesses        Witnesses
}

// Size returns the serialized size of the whole transaction
func (t *Tx) Size() int {
	return len(t.Raw)
}

// BodyHash returns the transaction ID bytes
func (t *Tx) BodyHash() []byte {
	ret, err := hex.DecodeString(t.Hash)
	if err != nil {
		return Blake2b256Hash(t.Body)
	}
	return ret
}

// FeeOrZero returns the declared fee, treating an absent fee as zero
func (t *Tx) FeeOrZero() *big.Int {
	if t.Fee == nil {
		return new(big.Int)
	}
	return new(big.Int).SetUint64(*t.Fee)
}

// AllRefs returns inputs, collateral inputs and reference inputs in that
// order. Duplicates are kept.
func (t *Tx) AllRefs() []OutputRef {
	ret := make([]OutputRef, 0, len(t.Inputs)+len(t.Collateral)+len(t.ReferenceInputs))
	for _, group := range [][]TxIn{t.Inputs, t.Collateral, t.ReferenceInputs} {
		for _, in := range group {
			ret = append(ret, in.OutputRef)
		}
	}
	return ret
}

// PlutusInvolved reports whether the transaction carries Plutus scripts,
// redeemers or datums in its witness set
func (t *Tx) PlutusInvolved() bool {
	if len(t.Witnesses.Redeemers) > 0 || len(t.Witnesses.PlutusData) > 0 {
		return true
	}
	for _, s := range t.Witnesses.Scripts {
		if s.Language != ScriptNative {
			return true
		}
	}
	return false
}
