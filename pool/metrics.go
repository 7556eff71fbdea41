// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"fmt"
	"math"
	"time"

	"github.com/ethereum/go-ethereum/common/mclock"
	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/core"
	"github.com/vechain/stakepool/metrics"
	"github.com/vechain/stakepool/staking"
	"github.com/vechain/stakepool/staking/reverts"
	"github.com/vechain/stakepool/state"
)

var (
	metricOpCount    = metrics.LazyLoadCounterVec("pool_op_count", []string{"op", "outcome"})
	metricOpDuration = metrics.LazyLoadHistogramVec("pool_op_duration_ms", []string{"op"}, metrics.Bucket10s)
	metricTotalStake = metrics.LazyLoadGauge("pool_total_staked_units")
	metricRewardRate = metrics.LazyLoadGauge("pool_reward_rate")
	metricCache      = metrics.LazyLoadGaugeVec("pool_state_cache_lookups", []string{"result"})
)

func metricsHandleOp(op string, startTime mclock.AbsTime, err error) {
	outcome := "committed"
	if err != nil {
		if reverts.IsRevertErr(err) {
			outcome = "rejected"
		} else {
			outcome = "failed"
		}
	}
	metricOpCount().AddWithLabel(1, map[string]string{"op": op, "outcome": outcome})
	metricOpDuration().ObserveWithLabels(time.Duration(mclock.Now()-startTime).Milliseconds(), map[string]string{"op": op})
}

func metricsHandleGauges(s *staking.Staking) {
	if metrics.NoOp() {
		return
	}
	if total, err := s.TotalSupply(); err == nil {
		metricTotalStake().Set(saturate(new(uint256.Int).Div(total, uint256.NewInt(core.Precision))))
	}
	if rate, err := s.RewardRate(); err == nil {
		metricRewardRate().Set(saturate(rate))
	}
}

func metricsHandleCache(stater *state.Stater) {
	snap, moved := stater.CacheStats()
	if moved {
		logger.Debug("state cache", "hitrate", fmt.Sprintf("%.3f", snap.HitRate()), "hits", snap.Hits, "misses", snap.Misses)
	}
	metricCache().SetWithLabel(snap.Hits, map[string]string{"result": "hit"})
	metricCache().SetWithLabel(snap.Misses, map[string]string{"result": "miss"})
}

// saturate converts x to int64, clamping at math.MaxInt64.
func saturate(x *uint256.Int) int64 {
	if !x.IsUint64() || x.Uint64() > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(x.Uint64())
}
