// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/core"
	"github.com/vechain/stakepool/logdb"
	"github.com/vechain/stakepool/pool"
)

// Event for marshal committed event.
type Event struct {
	Seq     uint64                `json:"seq"`
	Time    uint64                `json:"time"`
	Kind    string                `json:"kind"`
	Account core.Address          `json:"account"`
	Amount  *math.HexOrDecimal256 `json:"amount"`
}

// Receipt for marshal the result of an operation.
type Receipt struct {
	Time   uint64   `json:"time"`
	Events []*Event `json:"events"`
}

// ConvertEvent converts a stored event.
func ConvertEvent(ev *logdb.Event) *Event {
	return &Event{
		Seq:     ev.Seq,
		Time:    ev.Time,
		Kind:    ev.Kind,
		Account: ev.Account,
		Amount:  Amount(ev.Amount),
	}
}

// ConvertReceipt converts an operation receipt.
func ConvertReceipt(r *pool.Receipt) *Receipt {
	events := make([]*Event, 0, len(r.Events))
	for _, ev := range r.Events {
		events = append(events, ConvertEvent(ev))
	}
	return &Receipt{
		Time:   r.Time,
		Events: events,
	}
}

// Amount converts x for marshalling.
func Amount(x *uint256.Int) *math.HexOrDecimal256 {
	if x == nil {
		return (*math.HexOrDecimal256)(new(big.Int))
	}
	return (*math.HexOrDecimal256)(x.ToBig())
}

// ParseAmount validates an amount from a request body.
func ParseAmount(v *math.HexOrDecimal256) (*uint256.Int, error) {
	if v == nil {
		return nil, errors.New("missing")
	}
	b := (*big.Int)(v)
	if b.Sign() < 0 {
		return nil, errors.New("negative")
	}
	x, overflow := uint256.FromBig(b)
	if overflow {
		return nil, errors.New("overflows 256 bits")
	}
	return x, nil
}
