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


package anatomy

import (
	"github.com/blinklabs-io/tx-anatomy/pparams"
	"github.com/blinklabs-io/tx-anatomy/txview"
	"github.com/blinklabs-io/tx-anatomy/validation"
	"github.com/blinklabs-io/tx-anatomy/validation/alonzo"
	"github.com/blinklabs-io/tx-anatomy/validation/babbage"
	"github.com/blinklabs-io/tx-anatomy/validation/byron"
	"github.com/blinklabs-io/tx-anatomy/validation/conway"
	"github.com/blinklabs-io/tx-anatomy/validation/shelleyma"
)

// eraTag returns the era name a battery reports for era
func eraTag(era txview.Era) string {
	switch era {
	case txview.EraByron:
		return byron.EraName
	case txview.EraShelley, txview.EraAllegra, txview.EraMary:
		return shelleyma.EraName
	case txview.EraAlonzo:
		return alonzo.EraName
	case txview.EraBabbage:
		return babbage.EraName
	case txview.EraConway:
		return conway.EraName
	}
	return era.String()
}

// runBattery dispatches on the era the transaction was decoded with. An
// adapter failure leaves the era parameters zeroed, which the checks then
// report against.
func (i *Inspector) runBattery(
	ctx validation.Context,
	params pparams.ProtocolParams,
) validation.Validations {
	switch ctx.Tx.Era {
	case txview.EraByron:
		return byron.Validate(ctx)
	case txview.EraShelley, txview.EraAllegra, txview.EraMary:
		p, err := pparams.ToShelleyMA(params)
		i.logAdapterError(ctx.Tx, err)
		return shelleyma.Validate(ctx, p)
	case txview.EraAlonzo:
		p, err := pparams.ToAlonzo(params)
		i.logAdapterError(ctx.Tx, err)
		return alonzo.Validate(ctx, p)
	case txview.EraBabbage:
		p, err := pparams.ToBabbage(params)
		i.logAdapterError(ctx.Tx, err)
		return babbage.Validate(ctx, p)
	case txview.EraConway:
		return conway.Validate(ctx)
	}
	return validation.Empty(eraTag(ctx.Tx.Era))
}

func (i *Inspector) logAdapterError(tx *txview.Tx, err error) {
	if err == nil {
		return
	}
	i.logger.Error(
		"failed to adapt protocol parameters",
		"component", "anatomy",
		"era", tx.Era.String(),
		"tx_hash", tx.Hash,
		"error", err,
	)
}
