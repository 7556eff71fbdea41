// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/stakepool/core"
)

// Dev addresses.
var (
	DevOwner        = core.MustParseAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	DevStakingToken = core.MustParseAddress("0x0000000000000000000000000000005374616b65")
	DevRewardsToken = core.MustParseAddress("0x0000000000000000000000000000526577617264")
)

// DevAccounts returns pre-funded accounts of the dev genesis.
func DevAccounts() []core.Address {
	return []core.Address{
		core.MustParseAddress("0xd3ae78222beadb038203be21ed5ce7c9b1bff602"),
		core.MustParseAddress("0x733b7269443c70de16bbf9b0615307884bcc5636"),
		core.MustParseAddress("0x115eabb4f62973d0dba138ab7df5c0375ec87256"),
	}
}

// Dev returns the genesis for local development. Each dev account holds
// 1,000,000 of both tokens and the owner holds 1,000,000 reward tokens.
func Dev() *Genesis {
	million := func() *math.HexOrDecimal256 {
		v := new(big.Int).Mul(big.NewInt(1_000_000), new(big.Int).SetUint64(core.Precision))
		return (*math.HexOrDecimal256)(v)
	}

	gen := &Genesis{
		Owner:           DevOwner,
		StakingToken:    DevStakingToken,
		RewardsToken:    DevRewardsToken,
		RewardsDuration: core.DefaultRewardsDuration,
		Allocations: []Allocation{
			{Token: DevRewardsToken, Account: DevOwner, Amount: million()},
		},
	}
	for _, acc := range DevAccounts() {
		gen.Allocations = append(gen.Allocations,
			Allocation{Token: DevStakingToken, Account: acc, Amount: million()},
			Allocation{Token: DevRewardsToken, Account: acc, Amount: million()},
		)
	}
	return gen
}
