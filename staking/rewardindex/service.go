// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package rewardindex keeps the global reward-per-token accumulator and settles
// per account rewards against it.
//
// Every stake changing operation checkpoints first, which locks in the reward
// emitted under the previous total stake. Each account is settled lazily at its
// own checkpoints, so the cost of an operation does not depend on the number of
// participants.
package rewardindex

import (
	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/core"
	"github.com/vechain/stakepool/fixed"
	"github.com/vechain/stakepool/staking/accounts"
	"github.com/vechain/stakepool/staking/emission"
	"github.com/vechain/stakepool/staking/reverts"
	"github.com/vechain/stakepool/storage"
)

var (
	slotRewardPerTokenStored = storage.Slot("reward-per-token-stored")
	slotLastUpdateTime       = storage.Slot("last-update-time")
)

type Service struct {
	rewardPerTokenStored *storage.Uint256
	lastUpdateTime       *storage.Uint64

	accounts *accounts.Service
	emission *emission.Service
}

func New(sctx *storage.Context, accounts *accounts.Service, emission *emission.Service) *Service {
	return &Service{
		rewardPerTokenStored: storage.NewUint256(sctx, slotRewardPerTokenStored),
		lastUpdateTime:       storage.NewUint64(sctx, slotLastUpdateTime),
		accounts:             accounts,
		emission:             emission,
	}
}

func (s *Service) RewardPerTokenStored() (*uint256.Int, error) {
	return s.rewardPerTokenStored.Get()
}

func (s *Service) LastUpdateTime() (uint64, error) {
	return s.lastUpdateTime.Get()
}

// SetLastUpdateTime moves the accumulator clock, used when a new period starts.
func (s *Service) SetLastUpdateTime(now uint64) {
	s.lastUpdateTime.Set(now)
}

// LastTimeRewardApplicable returns min(now, periodFinish).
func (s *Service) LastTimeRewardApplicable(now uint64) (uint64, error) {
	finish, err := s.emission.PeriodFinish()
	if err != nil {
		return 0, err
	}
	return fixed.MinUint64(now, finish), nil
}

// RewardPerToken projects the accumulator to now without storing it.
func (s *Service) RewardPerToken(now uint64) (*uint256.Int, error) {
	stored, err := s.rewardPerTokenStored.Get()
	if err != nil {
		return nil, err
	}
	total, err := s.accounts.TotalStaked()
	if err != nil {
		return nil, err
	}
	if total.IsZero() {
		return stored, nil
	}
	applicable, err := s.LastTimeRewardApplicable(now)
	if err != nil {
		return nil, err
	}
	last, err := s.lastUpdateTime.Get()
	if err != nil {
		return nil, err
	}
	if applicable <= last {
		return stored, nil
	}
	rate, err := s.emission.RewardRate()
	if err != nil {
		return nil, err
	}

	emitted, err := fixed.Mul(uint256.NewInt(applicable-last), rate)
	if err != nil {
		return nil, reverts.Arithmetic(err)
	}
	delta, err := fixed.MulDiv(emitted, fixed.Scale, total)
	if err != nil {
		return nil, reverts.Arithmetic(err)
	}
	rpt, err := fixed.Add(stored, delta)
	if err != nil {
		return nil, reverts.Arithmetic(err)
	}
	return rpt, nil
}

// Earned returns the reward of addr as if it were checkpointed at now.
func (s *Service) Earned(addr core.Address, now uint64) (*uint256.Int, error) {
	rpt, err := s.RewardPerToken(now)
	if err != nil {
		return nil, err
	}
	acc, err := s.accounts.Get(addr)
	if err != nil {
		return nil, err
	}
	return earned(acc, rpt)
}

func earned(acc *accounts.Account, rpt *uint256.Int) (*uint256.Int, error) {
	// rpt never goes below what the account was paid
	diff, err := fixed.Sub(rpt, acc.RewardPerTokenPaid)
	if err != nil {
		return nil, reverts.Arithmetic(err)
	}
	pending, err := fixed.MulDiv(acc.StakedBalance, diff, fixed.Scale)
	if err != nil {
		return nil, reverts.Arithmetic(err)
	}
	total, err := fixed.Add(acc.RewardsAccrued, pending)
	if err != nil {
		return nil, reverts.Arithmetic(err)
	}
	return total, nil
}

// Checkpoint advances the accumulator to now and, if account is given,
// settles its pending reward. A nil account only advances the accumulator.
func (s *Service) Checkpoint(account *core.Address, now uint64) error {
	rpt, err := s.RewardPerToken(now)
	if err != nil {
		return err
	}
	applicable, err := s.LastTimeRewardApplicable(now)
	if err != nil {
		return err
	}
	s.rewardPerTokenStored.Set(rpt)

	// equals an unconditional set under a monotonic clock.Clock
	last, err := s.lastUpdateTime.Get()
	if err != nil {
		return err
	}
	if applicable > last {
		s.lastUpdateTime.Set(applicable)
	}

	if account == nil {
		return nil
	}
	acc, err := s.accounts.Get(*account)
	if err != nil {
		return err
	}
	if acc.RewardsAccrued, err = earned(acc, rpt); err != nil {
		return err
	}
	acc.RewardPerTokenPaid = rpt
	return s.accounts.Set(*account, acc)
}
