// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package poolinfo

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"

	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/core"
	"github.com/vechain/stakepool/pool"
)

// Info for marshal the pool state.
type Info struct {
	Now                      uint64                `json:"now"`
	GenesisID                core.Bytes32          `json:"genesisId"`
	Owner                    core.Address          `json:"owner"`
	StakingToken             core.Address          `json:"stakingToken"`
	RewardsToken             core.Address          `json:"rewardsToken"`
	TotalSupply              *math.HexOrDecimal256 `json:"totalSupply"`
	RewardRate               *math.HexOrDecimal256 `json:"rewardRate"`
	RewardPerToken           *math.HexOrDecimal256 `json:"rewardPerToken"`
	RewardForDuration        *math.HexOrDecimal256 `json:"rewardForDuration"`
	RewardBalance            *math.HexOrDecimal256 `json:"rewardBalance"`
	PeriodFinish             uint64                `json:"periodFinish"`
	RewardsDuration          uint64                `json:"rewardsDuration"`
	LastUpdateTime           uint64                `json:"lastUpdateTime"`
	LastTimeRewardApplicable uint64                `json:"lastTimeRewardApplicable"`
}

type PoolInfo struct {
	pool *pool.Pool
}

func New(p *pool.Pool) *PoolInfo {
	return &PoolInfo{p}
}

func (p *PoolInfo) handleGetPool(w http.ResponseWriter, _ *http.Request) error {
	info, err := p.pool.Info()
	if err != nil {
		return utils.PoolError(err)
	}
	return utils.WriteJSON(w, &Info{
		Now:                      info.Now,
		GenesisID:                p.pool.GenesisID(),
		Owner:                    info.Owner,
		StakingToken:             info.StakingToken,
		RewardsToken:             info.RewardsToken,
		TotalSupply:              utils.Amount(info.TotalSupply),
		RewardRate:               utils.Amount(info.RewardRate),
		RewardPerToken:           utils.Amount(info.RewardPerToken),
		RewardForDuration:        utils.Amount(info.RewardForDuration),
		RewardBalance:            utils.Amount(info.RewardBalance),
		PeriodFinish:             info.PeriodFinish,
		RewardsDuration:          info.RewardsDuration,
		LastUpdateTime:           info.LastUpdateTime,
		LastTimeRewardApplicable: info.LastTimeRewardApplicable,
	})
}

func (p *PoolInfo) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(p.handleGetPool))
}
