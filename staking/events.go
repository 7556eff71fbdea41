// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/core"
)

// EventKind names a committed change of the pool.
type EventKind string

const (
	EventStaked                 EventKind = "Staked"
	EventWithdrawn              EventKind = "Withdrawn"
	EventRewardPaid             EventKind = "RewardPaid"
	EventRewardAdded            EventKind = "RewardAdded"
	EventRewardsDurationUpdated EventKind = "RewardsDurationUpdated"
)

// Event is recorded by each successful operation.
// For RewardsDurationUpdated, Amount is the new duration in seconds.
type Event struct {
	Kind    EventKind
	Account core.Address
	Amount  *uint256.Int
	Time    uint64
}
