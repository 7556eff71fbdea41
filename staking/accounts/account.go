// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"github.com/holiman/uint256"
)

// Account is the per participant record.
type Account struct {
	StakedBalance      *uint256.Int
	RewardPerTokenPaid *uint256.Int
	RewardsAccrued     *uint256.Int
}

// IsEmpty returns true if every field is zero, so the record is
// indistinguishable from an absent one. An account that left the pool keeps
// its accumulator snapshot and is not empty.
func (a *Account) IsEmpty() bool {
	return a.StakedBalance.IsZero() && a.RewardsAccrued.IsZero() && a.RewardPerTokenPaid.IsZero()
}

func (a *Account) normalize() *Account {
	if a.StakedBalance == nil {
		a.StakedBalance = new(uint256.Int)
	}
	if a.RewardPerTokenPaid == nil {
		a.RewardPerTokenPaid = new(uint256.Int)
	}
	if a.RewardsAccrued == nil {
		a.RewardsAccrued = new(uint256.Int)
	}
	return a
}
