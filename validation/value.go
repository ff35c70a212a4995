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
	"math/big"

	"github.com/blinklabs-io/tx-anatomy/txview"
)

// Deposits holds the deposit amounts charged for registrations
type Deposits struct {
	KeyDeposit  uint64
	PoolDeposit uint64
}

// certificate deposit paid, or zero
func (d Deposits) paid(cert txview.Certificate) *big.Int {
	switch cert.Kind {
	case txview.CertStakeRegistration:
		return new(big.Int).SetUint64(d.KeyDeposit)
	case txview.CertPoolRegistration:
		return new(big.Int).SetUint64(d.PoolDeposit)
	case txview.CertRegistration,
		txview.CertStakeRegDelegation,
		txview.CertVoteRegDelegation,
		txview.CertStakeVoteRegDelegation,
		txview.CertDrepRegistration:
		return explicitDeposit(cert)
	}
	return new(big.Int)
}

// certificate deposit refunded, or zero
func (d Deposits) refunded(cert txview.Certificate) *big.Int {
	switch cert.Kind {
	case txview.CertStakeDeregistration:
		return new(big.Int).SetUint64(d.KeyDeposit)
	case txview.CertDeregistration, txview.CertDrepDeregistration:
		return explicitDeposit(cert)
	}
	return new(big.Int)
}

func explicitDeposit(cert txview.Certificate) *big.Int {
	if cert.Deposit == nil {
		return new(big.Int)
	}
	return new(big.Int).SetUint64(*cert.Deposit)
}

// ConsumedProduced computes both sides of the preservation of value
// equation. Consumed is the resolved inputs plus withdrawals, refunds and
// minted assets. Produced is the outputs plus fee, deposits and burned
// assets.
func ConsumedProduced(
	c Context,
	deposits Deposits,
) (txview.Value, txview.Value, error) {
	tx := c.Tx
	consumed := txview.Zero()
	for _, in := range tx.Inputs {
		out, err := c.Output(in.OutputRef)
		if err != nil {
			return txview.Value{}, txview.Value{}, err
		}
		consumed = consumed.Add(out.Value)
	}
	for _, w := range tx.Withdrawals {
		consumed = consumed.AddCoin(new(big.Int).SetUint64(w.Amount))
	}
	produced := txview.Zero()
	for _, out := range tx.Outputs {
		produced = produced.Add(out.Value)
	}
	produced = produced.AddCoin(tx.FeeOrZero())
	for _, cert := range tx.Certificates {
		consumed = consumed.AddCoin(deposits.refunded(cert))
		produced = produced.AddCoin(deposits.paid(cert))
	}
	consumed = consumed.Add(txview.Value{Coin: new(big.Int), Assets: tx.Mint.Positive()})
	produced = produced.Add(txview.Value{Coin: new(big.Int), Assets: tx.Mint.Negative()})
	return consumed, produced, nil
}

// ValuePreserved checks that consumed equals produced, for lovelace and for
// every native asset
func ValuePreserved(c Context, deposits Deposits) error {
	consumed, produced, err := ConsumedProduced(c, deposits)
	if err != nil {
		return err
	}
	if !consumed.Equal(produced) {
		return ValueNotConservedError{Consumed: consumed, Produced: produced}
	}
	return nil
}

// MulSaturating returns a*b, or the largest uint64 when the product does
// not fit. Protocol parameters come from callers and are not bounded.
func MulSaturating(a, b uint64) uint64 {
	ret := new(big.Int).Mul(new(big.Int).SetUint64(a), new(big.Int).SetUint64(b))
	if !ret.IsUint64() {
		return ^uint64(0)
	}
	return ret.Uint64()
}

// ValueSizeWords returns the size of a value in 8-byte words, as used by
// the Mary and Alonzo minimum coin rules. A lovelace-only value counts as
// two words.
func ValueSizeWords(v txview.Value) uint64 {
	assets := v.Assets.Positive()
	if len(assets) == 0 {
		return 2
	}
	numAssets := uint64(assets.NumAssets())
	numPolicies := uint64(len(assets))
	nameLens := uint64(assets.SumAssetNameLengths())
	bytes := numAssets*12 + nameLens + numPolicies*28
	return 6 + (bytes+7)/8
}
