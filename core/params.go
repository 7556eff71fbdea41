// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package core

// Constants of the staking pool.
const (
	// Precision is the fixed-point scale of the reward-per-token accumulator.
	Precision uint64 = 1e18

	DefaultRewardsDuration uint64 = 60 * 60 * 24 * 7 // 7 days, in seconds
)

// Well-known storage owners inside the pool state.
var (
	PoolAddress = BytesToAddress([]byte("stakepool"))
)
