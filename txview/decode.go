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
	"bytes"
	"errors"
	"fmt"
	"math/big"
	"slices"

	"github.com/blinklabs-io/gouroboros/ledger"
	"github.com/blinklabs-io/gouroboros/ledger/common"
	"github.com/fxamacker/cbor/v2"
)

// Transaction body keys read from the encoded body. The codec reports an
// absent optional integer as zero, so presence is taken from the keys.
const (
	bodyKeyOutputs          = 1
	bodyKeyFee              = 2
	bodyKeyTtl              = 3
	bodyKeyValidityStart    = 8
	bodyKeyNetworkId        = 15
	bodyKeyCollateralReturn = 16
	bodyKeyTotalCollateral  = 17
)

// Witness set keys read from the encoded set
const (
	witnessKeyPlutusData = 4
	witnessKeyRedeemers  = 5
)

// Output map keys
const (
	outputKeyAddress   = 0
	outputKeyScriptRef = 3
)

// Decode decodes raw as a transaction of the given era with the ledger
// codec and projects the result. For Byron the codec decodes the
// transaction inside the [tx, witnesses] pair.
func Decode(era Era, raw []byte) (*Tx, error) {
	if _, ok := eraNames[era]; !ok {
		return nil, fmt.Errorf("unknown era: %d", uint(era))
	}
	if era == EraByron {
		return decodeByron(raw)
	}
	ltx, err := ledger.NewTransactionFromCbor(era.TxType(), raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s transaction: %w", era, err)
	}
	return project(era, ltx, raw)
}

// DecodeAny detects the era of raw with the ledger codec and decodes it
func DecodeAny(raw []byte) (*Tx, error) {
	txType, err := ledger.DetermineTransactionType(raw)
	if err != nil {
		// the codec only knows the Byron transaction inside a signed one
		if tx, byronErr := decodeByron(raw); byronErr == nil {
			return tx, nil
		}
		return nil, fmt.Errorf("decode transaction: %w", err)
	}
	era, err := EraFromTxType(txType)
	if err != nil {
		return nil, err
	}
	return Decode(era, raw)
}

// DecodeOutput decodes a legacy (array) or post-Alonzo (map) output
func DecodeOutput(data []byte) (TxOut, error) {
	out, err := ledger.NewTransactionOutputFromCbor(data)
	if err != nil {
		return TxOut{}, fmt.Errorf("decode output: %w", err)
	}
	return outputOf(out, data)
}

// project builds the view from the codec's transaction. The encoded
// transaction is only read where the codec has no accessor: optional field
// presence, the body network id, script references, redeemers and the
// auxiliary data, whose hash covers its original bytes.
func project(era Era, ltx common.Transaction, raw []byte) (*Tx, error) {
	items, err := ArrayItems(raw)
	if err != nil {
		return nil, fmt.Errorf("transaction: %w", err)
	}
	if len(items) < 3 || len(items) > 4 {
		return nil, fmt.Errorf("transaction has %d items", len(items))
	}
	body, err := fieldMap(items[0])
	if err != nil {
		return nil, fmt.Errorf("transaction body: %w", err)
	}
	tx := &Tx{
		Era:             era,
		Hash:            fmt.Sprint(ltx.Hash()),
		Raw:             raw,
		Body:            items[0],
		Ledger:          ltx,
		Inputs:          inputsOf(ltx.Inputs()),
		Collateral:      inputsOf(ltx.Collateral()),
		ReferenceInputs: inputsOf(ltx.ReferenceInputs()),
		AuxDataHash:     hashBytes(ltx.AuxDataHash()),
		ScriptDataHash:  hashBytes(ltx.ScriptDataHash()),
		IsValid:         ltx.IsValid(),
	}
	rawOutputs, err := ArrayItems(body[bodyKeyOutputs])
	if err != nil {
		return nil, fmt.Errorf("transaction outputs: %w", err)
	}
	outputs := ltx.Outputs()
	if len(outputs) != len(rawOutputs) {
		return nil, fmt.Errorf("codec returned %d of %d outputs", len(outputs), len(rawOutputs))
	}
	for idx, out := range outputs {
		projected, err := outputOf(out, rawOutputs[idx])
		if err != nil {
			return nil, fmt.Errorf("output %d: %w", idx, err)
		}
		tx.Outputs = append(tx.Outputs, projected)
	}
	if rawOut, ok := body[bodyKeyCollateralReturn]; ok {
		projected, err := outputOf(ltx.CollateralReturn(), rawOut)
		if err != nil {
			return nil, fmt.Errorf("collateral return: %w", err)
		}
		tx.CollateralReturn = &projected
	}
	if _, ok := body[bodyKeyFee]; ok {
		if tx.Fee, err = uintOf(ltx.Fee()); err != nil {
			return nil, fmt.Errorf("fee: %w", err)
		}
	}
	if _, ok := body[bodyKeyTtl]; ok {
		if tx.TTL, err = uintOf(ltx.TTL()); err != nil {
			return nil, fmt.Errorf("ttl: %w", err)
		}
	}
	if _, ok := body[bodyKeyValidityStart]; ok {
		if tx.ValidityStart, err = uintOf(ltx.ValidityIntervalStart()); err != nil {
			return nil, fmt.Errorf("validity start: %w", err)
		}
	}
	if _, ok := body[bodyKeyTotalCollateral]; ok {
		if tx.TotalCollateral, err = uintOf(ltx.TotalCollateral()); err != nil {
			return nil, fmt.Errorf("total collateral: %w", err)
		}
	}
	if rawId, ok := body[bodyKeyNetworkId]; ok {
		id, err := decodeUint(rawId)
		if err != nil {
			return nil, fmt.Errorf("network id: %w", err)
		}
		tx.NetworkID = &id
	}
	if tx.Certificates, err = certificatesOf(ltx.Certificates()); err != nil {
		return nil, err
	}
	if tx.Withdrawals, err = withdrawalsOf(ltx.Withdrawals()); err != nil {
		return nil, err
	}
	if mint := ltx.AssetMint(); mint != nil {
		tx.Mint = assetsOf(mint, func(policy common.Blake2b224, name []byte) *big.Int {
			return bigOf(mint.Asset(policy, name))
		})
	}
	for _, signer := range ltx.RequiredSigners() {
		tx.RequiredSigners = append(tx.RequiredSigners, signer.Bytes())
	}
	if tx.Witnesses, err = witnessesOf(ltx.Witnesses(), items[1]); err != nil {
		return nil, err
	}
	auxRaw := items[len(items)-1]
	if !IsNull(auxRaw) {
		aux, err := decodeAuxData(auxRaw)
		if err != nil {
			return nil, err
		}
		tx.AuxData = aux
	}
	return tx, nil
}

func inputsOf(inputs []common.TransactionInput) []TxIn {
	if len(inputs) == 0 {
		return nil
	}
	ret := make([]TxIn, 0, len(inputs))
	for _, in := range inputs {
		ret = append(
			ret,
			TxIn{OutputRef: OutputRef{TxHash: in.Id().String(), Index: in.Index()}},
		)
	}
	return ret
}

func hashBytes(h *common.Blake2b256) []byte {
	if h == nil {
		return nil
	}
	return h.Bytes()
}

// bigOf converts a codec amount. Coin and asset amounts come back as
// fixed-size or arbitrary precision integers depending on the field.
func bigOf(v any) *big.Int {
	switch n := v.(type) {
	case *big.Int:
		if n == nil {
			return new(big.Int)
		}
		return new(big.Int).Set(n)
	case uint64:
		return new(big.Int).SetUint64(n)
	case int64:
		return big.NewInt(n)
	case uint:
		return new(big.Int).SetUint64(uint64(n))
	case int:
		return big.NewInt(int64(n))
	}
	return new(big.Int)
}

func uintOf(v any) (*uint64, error) {
	n := bigOf(v)
	if !n.IsUint64() {
		return nil, fmt.Errorf("value out of range: %s", n.String())
	}
	ret := n.Uint64()
	return &ret, nil
}

// assetSource is the read side of the codec's multi-asset bundles
type assetSource interface {
	Policies() []common.Blake2b224
	Assets(common.Blake2b224) [][]byte
}

// assetsOf copies a codec bundle, sorting policies and names bytewise
func assetsOf(src assetSource, qty func(common.Blake2b224, []byte) *big.Int) MultiAsset {
	policies := src.Policies()
	if len(policies) == 0 {
		return nil
	}
	slices.SortFunc(policies, func(a, b common.Blake2b224) int {
		return bytes.Compare(a[:], b[:])
	})
	ret := make(MultiAsset, 0, len(policies))
	for _, policy := range policies {
		names := src.Assets(policy)
		slices.SortFunc(names, bytes.Compare)
		bundle := PolicyAssets{Policy: policy.Bytes()}
		for _, name := range names {
			bundle.Assets = append(bundle.Assets, Asset{Name: name, Quantity: qty(policy, name)})
		}
		ret = append(ret, bundle)
	}
	return ret
}

// outputOf projects a codec output. raw is the output as encoded: its
// address bytes are kept as they are, since the codec re-encodes addresses
// from their parsed fields, and it carries the script reference, which the
// output interface does not expose.
func outputOf(out common.TransactionOutput, raw []byte) (TxOut, error) {
	if out == nil {
		return TxOut{}, errors.New("missing output")
	}
	addr, err := rawOutputAddress(raw)
	if err != nil {
		return TxOut{}, err
	}
	ret := TxOut{
		Address: Address{Bytes: addr},
		Value:   Value{Coin: bigOf(out.Amount())},
		Raw:     raw,
	}
	if assets := out.Assets(); assets != nil {
		ret.Value.Assets = assetsOf(assets, func(policy common.Blake2b224, name []byte) *big.Int {
			return bigOf(assets.Asset(policy, name))
		})
	}
	// outputs without a datum hash may report an all-zero one
	if hash := out.DatumHash(); hash != nil && *hash != (common.Blake2b256{}) {
		ret.DatumHash = hash.Bytes()
	}
	if datum := out.Datum(); datum != nil && datum.Data != nil {
		ret.InlineDatum = datum.Cbor()
	}
	if MajorType(raw) == MajorTypeMap {
		fields, err := fieldMap(raw)
		if err != nil {
			return TxOut{}, err
		}
		if ref, ok := fields[outputKeyScriptRef]; ok {
			if ret.ScriptRef, err = decodeScriptRef(ref); err != nil {
				return TxOut{}, err
			}
		}
	}
	return ret, nil
}

// rawOutputAddress returns the address of an encoded output. Byron outputs
// hold the address CBOR itself rather than a byte string.
func rawOutputAddress(raw []byte) ([]byte, error) {
	var item []byte
	switch MajorType(raw) {
	case MajorTypeArray:
		items, err := ArrayItems(raw)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return nil, errors.New("empty output")
		}
		item = items[0]
	case MajorTypeMap:
		fields, err := fieldMap(raw)
		if err != nil {
			return nil, err
		}
		item = fields[outputKeyAddress]
	default:
		return nil, errors.New("unexpected output encoding")
	}
	if MajorType(item) == MajorTypeArray {
		return item, nil
	}
	addr, err := decodeBytes(item)
	if err != nil {
		return nil, fmt.Errorf("output address: %w", err)
	}
	return addr, nil
}

func decodeScriptRef(data []byte) (*Script, error) {
	inner, err := decodeBytes(Untag(data))
	if err != nil {
		return nil, fmt.Errorf("script ref: %w", err)
	}
	items, err := ArrayItems(inner)
	if err != nil {
		return nil, fmt.Errorf("script ref: %w", err)
	}
	if len(items) != 2 {
		return nil, fmt.Errorf("script ref has %d items", len(items))
	}
	lang, err := decodeUint(items[0])
	if err != nil {
		return nil, fmt.Errorf("script ref language: %w", err)
	}
	if lang == uint64(ScriptNative) {
		return &Script{Language: ScriptNative, Bytes: items[1]}, nil
	}
	if lang > uint64(ScriptPlutusV3) {
		return nil, fmt.Errorf("unknown script language: %d", lang)
	}
	script, err := decodeBytes(items[1])
	if err != nil {
		return nil, fmt.Errorf("script ref: %w", err)
	}
	return &Script{Language: ScriptLanguage(lang), Bytes: script}, nil
}

func certificatesOf(certs []common.Certificate) ([]Certificate, error) {
	if len(certs) == 0 {
		return nil, nil
	}
	ret := make([]Certificate, 0, len(certs))
	for idx, cert := range certs {
		if cert == nil {
			return nil, fmt.Errorf("certificate %d: missing", idx)
		}
		tmp := Certificate{Kind: uint64(cert.Type()), Raw: cert.Cbor()}
		if deposit, ok := depositOf(cert); ok {
			tmp.Deposit = &deposit
		}
		ret = append(ret, tmp)
	}
	return ret, nil
}

// depositOf returns the explicit deposit or refund of Conway certificates
func depositOf(cert common.Certificate) (uint64, bool) {
	var amount any
	switch c := cert.(type) {
	case *common.RegistrationCertificate:
		amount = c.Amount
	case *common.DeregistrationCertificate:
		amount = c.Amount
	case *common.StakeRegistrationDelegationCertificate:
		amount = c.Amount
	case *common.VoteRegistrationDelegationCertificate:
		amount = c.Amount
	case *common.StakeVoteRegistrationDelegationCertificate:
		amount = c.Amount
	case *common.RegistrationDrepCertificate:
		amount = c.Amount
	case *common.DeregistrationDrepCertificate:
		amount = c.Amount
	default:
		return 0, false
	}
	n := bigOf(amount)
	if !n.IsUint64() {
		return 0, false
	}
	return n.Uint64(), true
}

func withdrawalsOf(withdrawals map[*common.Address]uint64) ([]Withdrawal, error) {
	if len(withdrawals) == 0 {
		return nil, nil
	}
	ret := make([]Withdrawal, 0, len(withdrawals))
	for addr, amount := range withdrawals {
		if addr == nil {
			continue
		}
		raw, err := addr.Bytes()
		if err != nil {
			return nil, fmt.Errorf("withdrawal address: %w", err)
		}
		ret = append(ret, Withdrawal{Address: Address{Bytes: raw}, Amount: amount})
	}
	slices.SortFunc(ret, func(a, b Withdrawal) int {
		return bytes.Compare(a.Address.Bytes, b.Address.Bytes)
	})
	return ret, nil
}

// witnessesOf projects the codec's witness set. Redeemers and Plutus data
// are also kept as encoded, because the script data hash covers those bytes.
func witnessesOf(w common.TransactionWitnessSet, raw []byte) (Witnesses, error) {
	ret := Witnesses{Raw: raw}
	if w == nil {
		return ret, errors.New("missing witness set")
	}
	for _, wit := range w.Vkey() {
		ret.VKeys = append(ret.VKeys, VKeyWitness{VKey: wit.Vkey, Signature: wit.Signature})
	}
	for _, wit := range w.Bootstrap() {
		ret.Bootstrap = append(
			ret.Bootstrap,
			VKeyWitness{VKey: wit.PublicKey, Signature: wit.Signature},
		)
	}
	natives := w.NativeScripts()
	for idx := range natives {
		ret.Scripts = append(ret.Scripts, Script{Language: ScriptNative, Bytes: natives[idx].Cbor()})
	}
	for _, script := range w.PlutusV1Scripts() {
		ret.Scripts = append(ret.Scripts, Script{Language: ScriptPlutusV1, Bytes: []byte(script)})
	}
	for _, script := range w.PlutusV2Scripts() {
		ret.Scripts = append(ret.Scripts, Script{Language: ScriptPlutusV2, Bytes: []byte(script)})
	}
	for _, script := range w.PlutusV3Scripts() {
		ret.Scripts = append(ret.Scripts, Script{Language: ScriptPlutusV3, Bytes: []byte(script)})
	}
	datums := w.PlutusData()
	for idx := range datums {
		ret.PlutusData = append(ret.PlutusData, datums[idx].Cbor())
	}
	fields, err := fieldMap(raw)
	if err != nil {
		return ret, fmt.Errorf("witness set: %w", err)
	}
	if data, ok := fields[witnessKeyPlutusData]; ok {
		ret.PlutusDataRaw = data
	}
	if data, ok := fields[witnessKeyRedeemers]; ok {
		ret.RedeemersRaw = data
		if ret.Redeemers, err = decodeRedeemers(data); err != nil {
			return ret, err
		}
	}
	return ret, nil
}

type rawExUnits struct {
	_     struct{} `cbor:",toarray"`
	Mem   uint64
	Steps uint64
}

type rawRedeemer struct {
	_       struct{} `cbor:",toarray"`
	Tag     uint8
	Index   uint32
	Data    cbor.RawMessage
	ExUnits rawExUnits
}

type rawRedeemerKey struct {
	_     struct{} `cbor:",toarray"`
	Tag   uint8
	Index uint32
}

type rawRedeemerValue struct {
	_       struct{} `cbor:",toarray"`
	Data    cbor.RawMessage
	ExUnits rawExUnits
}

// decodeRedeemers handles both the legacy list form and the Conway map form
func decodeRedeemers(data []byte) ([]Redeemer, error) {
	var ret []Redeemer
	switch MajorType(Untag(data)) {
	case MajorTypeArray:
		items, err := ArrayItems(data)
		if err != nil {
			return nil, fmt.Errorf("redeemers: %w", err)
		}
		for idx, item := range items {
			var r rawRedeemer
			if err := cbor.Unmarshal(item, &r); err != nil {
				return nil, fmt.Errorf("redeemer %d: %w", idx, err)
			}
			ret = append(
				ret,
				Redeemer{
					Tag:   RedeemerTag(r.Tag),
					Index: r.Index,
					Data:  r.Data,
					Mem:   r.ExUnits.Mem,
					Steps: r.ExUnits.Steps,
				},
			)
		}
	case MajorTypeMap:
		entries, err := MapEntries(data)
		if err != nil {
			return nil, fmt.Errorf("redeemers: %w", err)
		}
		for idx, entry := range entries {
			var key rawRedeemerKey
			if err := cbor.Unmarshal(entry.Key, &key); err != nil {
				return nil, fmt.Errorf("redeemer %d key: %w", idx, err)
			}
			var value rawRedeemerValue
			if err := cbor.Unmarshal(entry.Value, &value); err != nil {
				return nil, fmt.Errorf("redeemer %d value: %w", idx, err)
			}
			ret = append(
				ret,
				Redeemer{
					Tag:   RedeemerTag(key.Tag),
					Index: key.Index,
					Data:  value.Data,
					Mem:   value.ExUnits.Mem,
					Steps: value.ExUnits.Steps,
				},
			)
		}
	default:
		return nil, errors.New("redeemers: unexpected encoding")
	}
	return ret, nil
}

// Auxiliary data keys of the tagged (Alonzo) format
const (
	auxKeyMetadata = 0
	auxKeyNative   = 1
	auxKeyPlutusV1 = 2
	auxKeyPlutusV2 = 3
	auxKeyPlutusV3 = 4
	auxDataTag     = 259
)

func decodeAuxData(data []byte) (*AuxData, error) {
	ret := &AuxData{Raw: data}
	var err error
	switch MajorType(data) {
	case MajorTypeMap:
		// Shelley: bare metadata map
		ret.Metadata, err = decodeMetadata(data)
	case MajorTypeArray:
		// Allegra/Mary: [metadata, native scripts]
		var items []cbor.RawMessage
		if items, err = ArrayItems(data); err != nil {
			return nil, fmt.Errorf("auxiliary data: %w", err)
		}
		if len(items) != 2 {
			return nil, fmt.Errorf("auxiliary data has %d items", len(items))
		}
		if ret.Metadata, err = decodeMetadata(items[0]); err != nil {
			return nil, err
		}
		var scripts []cbor.RawMessage
		if scripts, err = ArrayItems(items[1]); err != nil {
			return nil, fmt.Errorf("auxiliary scripts: %w", err)
		}
		for _, script := range scripts {
			ret.Scripts = append(ret.Scripts, Script{Language: ScriptNative, Bytes: script})
		}
	case MajorTypeTag:
		var tag cbor.RawTag
		if err = cbor.Unmarshal(data, &tag); err != nil {
			return nil, fmt.Errorf("auxiliary data: %w", err)
		}
		if tag.Number != auxDataTag {
			return nil, fmt.Errorf("auxiliary data: unexpected tag %d", tag.Number)
		}
		err = ret.decodeTagged(tag.Content)
	default:
		return nil, errors.New("auxiliary data: unexpected encoding")
	}
	if err != nil {
		return nil, err
	}
	return ret, nil
}

func (a *AuxData) decodeTagged(data []byte) error {
	fields, err := MapEntries(data)
	if err != nil {
		return fmt.Errorf("auxiliary data: %w", err)
	}
	for _, field := range fields {
		key, err := decodeUint(field.Key)
		if err != nil {
			return fmt.Errorf("auxiliary data key: %w", err)
		}
		switch key {
		case auxKeyMetadata:
			if a.Metadata, err = decodeMetadata(field.Value); err != nil {
				return err
			}
		case auxKeyNative, auxKeyPlutusV1, auxKeyPlutusV2, auxKeyPlutusV3:
			items, err := ArrayItems(field.Value)
			if err != nil {
				return fmt.Errorf("auxiliary scripts: %w", err)
			}
			lang := ScriptLanguage(key - auxKeyNative)
			for _, item := range items {
				script := Script{Language: lang, Bytes: item}
				if lang != ScriptNative {
					if script.Bytes, err = decodeBytes(item); err != nil {
						return fmt.Errorf("auxiliary %s script: %w", lang, err)
					}
				}
				a.Scripts = append(a.Scripts, script)
			}
		}
	}
	return nil
}

func decodeMetadata(data []byte) ([]Metadatum, error) {
	entries, err := MapEntries(data)
	if err != nil {
		return nil, fmt.Errorf("metadata: %w", err)
	}
	ret := make([]Metadatum, 0, len(entries))
	for _, entry := range entries {
		label, err := decodeUint(entry.Key)
		if err != nil {
			return nil, fmt.Errorf("metadata label: %w", err)
		}
		ret = append(ret, Metadatum{Label: label, Value: entry.Value})
	}
	return ret, nil
}
