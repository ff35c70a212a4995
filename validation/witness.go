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
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/blinklabs-io/gouroboros/ledger/common"
	"github.com/fxamacker/cbor/v2"

	"github.com/blinklabs-io/tx-anatomy/txview"
)

// Credential is a key hash or script hash that must be witnessed
type Credential struct {
	Hash     []byte
	IsScript bool
}

// VerifyKeyWitness checks that vkey is a valid curve point and that sig
// signs msg
func VerifyKeyWitness(vkey []byte, sig []byte, msg []byte) error {
	if len(vkey) != ed25519.PublicKeySize {
		return InvalidVKeyError{VKey: vkey}
	}
	if _, err := new(edwards25519.Point).SetBytes(vkey); err != nil {
		return InvalidVKeyError{VKey: vkey}
	}
	if err := common.VerifyVKeySignature(vkey, sig, msg); err != nil {
		return InvalidSignatureError{VKey: vkey}
	}
	return nil
}

// VKeySignatures verifies every vkey and bootstrap witness against the
// transaction body hash
func VKeySignatures(tx *txview.Tx) error {
	msg := tx.BodyHash()
	for _, wit := range tx.Witnesses.VKeys {
		if err := VerifyKeyWitness(wit.VKey, wit.Signature, msg); err != nil {
			return err
		}
	}
	for _, wit := range tx.Witnesses.Bootstrap {
		if err := VerifyKeyWitness(wit.VKey, wit.Signature, msg); err != nil {
			return err
		}
	}
	return nil
}

// RequiredCredentials collects the credentials the transaction must
// witness: payment credentials of spent and collateral outputs, reward
// accounts of withdrawals, certificate credentials and required signers.
// Byron addresses are witnessed by bootstrap witnesses and are not listed.
// The payment credential of an unresolved input is unknown, so any
// unresolved input or collateral input fails the collection.
func RequiredCredentials(c Context) ([]Credential, error) {
	spent := append(refsOf(c.Tx.Inputs), refsOf(c.Tx.Collateral)...)
	if err := AllInputsInUTxOs(c, spent); err != nil {
		return nil, err
	}
	var ret []Credential
	seen := make(map[string]bool)
	add := func(hash []byte, isScript bool) {
		key := fmt.Sprintf("%t:%x", isScript, hash)
		if seen[key] {
			return
		}
		seen[key] = true
		ret = append(ret, Credential{Hash: hash, IsScript: isScript})
	}
	for _, ref := range spent {
		out, _ := c.Output(ref)
		if hash, isScript, ok := out.Address.PaymentCredential(); ok {
			add(hash, isScript)
		}
	}
	for _, w := range c.Tx.Withdrawals {
		if hash, isScript, ok := w.Address.StakeCredential(); ok {
			add(hash, isScript)
		}
	}
	for idx, cert := range c.Tx.Certificates {
		creds, err := certificateCredentials(cert)
		if err != nil {
			return nil, fmt.Errorf("certificate %d: %w", idx, err)
		}
		for _, cred := range creds {
			add(cred.Hash, cred.IsScript)
		}
	}
	for _, signer := range c.Tx.RequiredSigners {
		add(signer, false)
	}
	return ret, nil
}

type rawCredential struct {
	_    struct{} `cbor:",toarray"`
	Type uint
	Hash []byte
}

// certificateCredentials returns the credentials that authorize a
// certificate
func certificateCredentials(cert txview.Certificate) ([]Credential, error) {
	fields, err := txview.ArrayItems(cert.Raw)
	if err != nil {
		return nil, err
	}
	switch cert.Kind {
	case txview.CertStakeDeregistration,
		txview.CertStakeDelegation,
		txview.CertDeregistration,
		txview.CertVoteDelegation,
		txview.CertStakeVoteDelegation,
		txview.CertStakeRegDelegation,
		txview.CertVoteRegDelegation,
		txview.CertStakeVoteRegDelegation:
		if len(fields) < 2 {
			return nil, fmt.Errorf("certificate has %d items", len(fields))
		}
		var cred rawCredential
		if err := cbor.Unmarshal(fields[1], &cred); err != nil {
			return nil, fmt.Errorf("stake credential: %w", err)
		}
		return []Credential{{Hash: cred.Hash, IsScript: cred.Type == 1}}, nil
	case txview.CertPoolRegistration, txview.CertPoolRetirement:
		if len(fields) < 2 {
			return nil, fmt.Errorf("certificate has %d items", len(fields))
		}
		var operator []byte
		if err := cbor.Unmarshal(fields[1], &operator); err != nil {
			return nil, fmt.Errorf("pool operator: %w", err)
		}
		ret := []Credential{{Hash: operator}}
		// pool owners sign registrations as well
		if cert.Kind == txview.CertPoolRegistration && len(fields) > 7 {
			owners, err := txview.ArrayItems(fields[7])
			if err != nil {
				return nil, fmt.Errorf("pool owners: %w", err)
			}
			for _, item := range owners {
				var owner []byte
				if err := cbor.Unmarshal(item, &owner); err != nil {
					return nil, fmt.Errorf("pool owner: %w", err)
				}
				ret = append(ret, Credential{Hash: owner})
			}
		}
		return ret, nil
	}
	return nil, nil
}

// VKeyWitnessesPresent checks that every required key hash has a vkey
// witness
func VKeyWitnessesPresent(c Context) error {
	required, err := RequiredCredentials(c)
	if err != nil {
		return err
	}
	provided := make(map[string]bool, len(c.Tx.Witnesses.VKeys))
	for _, wit := range c.Tx.Witnesses.VKeys {
		provided[hex.EncodeToString(txview.Blake2b224Hash(wit.VKey))] = true
	}
	for _, cred := range required {
		if cred.IsScript {
			continue
		}
		if !provided[hex.EncodeToString(cred.Hash)] {
			return MissingVKeyWitnessError{KeyHash: cred.Hash}
		}
	}
	return nil
}

// ScriptWitnessesPresent checks that every required script hash is
// available either as a witness or as a reference script
func ScriptWitnessesPresent(c Context, scripts ScriptSet) error {
	required, err := RequiredCredentials(c)
	if err != nil {
		return err
	}
	for _, cred := range required {
		if cred.IsScript && !scripts.Has(cred.Hash) {
			return MissingScriptWitnessError{ScriptHash: cred.Hash}
		}
	}
	return nil
}

// WitnessSet runs the signature, vkey coverage and script coverage checks
// in that order
func WitnessSet(c Context) error {
	if err := VKeySignatures(c.Tx); err != nil {
		return err
	}
	if c.Tx.Ledger != nil {
		err := common.ValidateRequiredVKeyWitnesses(c.Tx.Ledger)
		var noWitnesses common.MissingVKeyWitnessesError
		if errors.As(err, &noWitnesses) && len(c.Tx.RequiredSigners) > 0 {
			return MissingVKeyWitnessError{KeyHash: c.Tx.RequiredSigners[0]}
		}
		if err != nil {
			return fromCodecError(err, c.Network.Id)
		}
	}
	if err := VKeyWitnessesPresent(c); err != nil {
		return err
	}
	scripts, err := AvailableScripts(c)
	if err != nil {
		return err
	}
	return ScriptWitnessesPresent(c, scripts)
}
