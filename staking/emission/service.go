// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package emission

import (
	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/fixed"
	"github.com/vechain/stakepool/staking/reverts"
	"github.com/vechain/stakepool/storage"
)

var (
	slotRewardRate      = storage.Slot("reward-rate")
	slotPeriodFinish    = storage.Slot("period-finish")
	slotRewardsDuration = storage.Slot("rewards-duration")
)

// Service owns the emission schedule. The pool is Active while now < periodFinish,
// otherwise Idle.
type Service struct {
	rewardRate      *storage.Uint256
	periodFinish    *storage.Uint64
	rewardsDuration *storage.Uint64
}

func New(sctx *storage.Context) *Service {
	return &Service{
		rewardRate:      storage.NewUint256(sctx, slotRewardRate),
		periodFinish:    storage.NewUint64(sctx, slotPeriodFinish),
		rewardsDuration: storage.NewUint64(sctx, slotRewardsDuration),
	}
}

func (s *Service) RewardRate() (*uint256.Int, error) {
	return s.rewardRate.Get()
}

func (s *Service) PeriodFinish() (uint64, error) {
	return s.periodFinish.Get()
}

func (s *Service) RewardsDuration() (uint64, error) {
	return s.rewardsDuration.Get()
}

// IsActive returns whether an emission period is running at now.
func (s *Service) IsActive(now uint64) (bool, error) {
	finish, err := s.periodFinish.Get()
	if err != nil {
		return false, err
	}
	return now < finish, nil
}

// SetRewardsDuration sets the length of the next period. Only allowed while Idle.
func (s *Service) SetRewardsDuration(duration, now uint64) error {
	active, err := s.IsActive(now)
	if err != nil {
		return err
	}
	if active {
		return reverts.New(reverts.ErrScheduling, "Reward duration not finished")
	}
	if duration == 0 {
		return reverts.New(reverts.ErrScheduling, "Reward duration not set")
	}
	s.rewardsDuration.Set(duration)
	return nil
}

// Notify starts a new period of rewardsDuration at now, emitting amount plus
// whatever the running period has not emitted yet. held is the reward token
// balance of the pool, which must cover the whole new period.
// The global accumulator must be checkpointed at now before calling.
func (s *Service) Notify(amount *uint256.Int, now uint64, held *uint256.Int) (*uint256.Int, error) {
	duration, err := s.rewardsDuration.Get()
	if err != nil {
		return nil, err
	}
	if duration == 0 {
		return nil, reverts.New(reverts.ErrScheduling, "Reward duration not set")
	}
	finish, err := s.periodFinish.Get()
	if err != nil {
		return nil, err
	}

	total := amount
	if now < finish {
		rate, err := s.rewardRate.Get()
		if err != nil {
			return nil, err
		}
		remaining, err := fixed.Mul(uint256.NewInt(finish-now), rate)
		if err != nil {
			return nil, reverts.Arithmetic(err)
		}
		if total, err = fixed.Add(amount, remaining); err != nil {
			return nil, reverts.Arithmetic(err)
		}
	}
	newRate, _ := fixed.Div(total, uint256.NewInt(duration))

	// rate * duration <= total, cannot overflow
	promised, _ := fixed.Mul(newRate, uint256.NewInt(duration))
	if promised.Gt(held) {
		return nil, reverts.New(reverts.ErrInsufficientRewardBalance, "Provided reward too high")
	}

	newFinish := now + duration
	if newFinish < now {
		return nil, reverts.New(reverts.ErrOverflow, "period finish overflows")
	}

	s.rewardRate.Set(newRate)
	s.periodFinish.Set(newFinish)
	return newRate, nil
}

// RewardForDuration returns the reward emitted over a full period at the current rate.
func (s *Service) RewardForDuration() (*uint256.Int, error) {
	rate, err := s.rewardRate.Get()
	if err != nil {
		return nil, err
	}
	duration, err := s.rewardsDuration.Get()
	if err != nil {
		return nil, err
	}
	reward, err := fixed.Mul(rate, uint256.NewInt(duration))
	if err != nil {
		return nil, reverts.Arithmetic(err)
	}
	return reward, nil
}
