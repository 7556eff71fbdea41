// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/core"
)

// Event is a committed pool event.
type Event struct {
	Seq     uint64
	Time    uint64
	Kind    string
	Account core.Address
	Amount  *uint256.Int
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range is the inclusive time range. To < From means unbounded.
type Range struct {
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

// EventFilter selects events. Nil fields match everything.
type EventFilter struct {
	Account *core.Address
	Kind    string
	Range   *Range
	Order   Order
	Options *Options
}
