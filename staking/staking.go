// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staking implements the reward pool: participants stake a base token
// and earn a reward token emitted at a constant rate over a bounded period.
//
// Every operation checkpoints the caller first, then applies its checks and
// internal effects, and moves tokens last. An operation that fails leaves the
// state as it was.
package staking

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/core"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/staking/accounts"
	"github.com/vechain/stakepool/staking/emission"
	"github.com/vechain/stakepool/staking/reverts"
	"github.com/vechain/stakepool/staking/rewardindex"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/storage"
	"github.com/vechain/stakepool/token"
)

var logger = log.WithContext("pkg", "staking")

var (
	slotOwner        = storage.Slot("owner")
	slotStakingToken = storage.Slot("staking-token")
	slotRewardsToken = storage.Slot("rewards-token")
)

// Staking implements the pool operations over a state.
type Staking struct {
	addr  core.Address
	state *state.State

	owner        *storage.Address
	stakingToken *storage.Address
	rewardsToken *storage.Address

	accountsService *accounts.Service
	emissionService *emission.Service
	indexService    *rewardindex.Service

	events []*Event
}

// New create a new instance.
func New(addr core.Address, state *state.State) *Staking {
	sctx := storage.NewContext(addr, state)
	acc := accounts.New(sctx)
	em := emission.New(sctx)

	return &Staking{
		addr:            addr,
		state:           state,
		owner:           storage.NewAddress(sctx, slotOwner),
		stakingToken:    storage.NewAddress(sctx, slotStakingToken),
		rewardsToken:    storage.NewAddress(sctx, slotRewardsToken),
		accountsService: acc,
		emissionService: em,
		indexService:    rewardindex.New(sctx, acc, em),
	}
}

// Address returns the pool address, which holds the staked and reward tokens.
func (s *Staking) Address() core.Address {
	return s.addr
}

// Events returns events recorded by successful operations so far.
func (s *Staking) Events() []*Event {
	return s.events
}

// atomic runs fn, reverting all its state changes and events if it fails.
func (s *Staking) atomic(fn func() error) error {
	rev := s.state.NewCheckpoint()
	mark := len(s.events)
	if err := fn(); err != nil {
		s.state.RevertTo(rev)
		s.events = s.events[:mark]
		return err
	}
	return nil
}

func (s *Staking) emit(kind EventKind, account core.Address, amount *uint256.Int, now uint64) {
	s.events = append(s.events, &Event{
		Kind:    kind,
		Account: account,
		Amount:  amount.Clone(),
		Time:    now,
	})
}

//
// Setup
//

// Initialize configures a fresh pool.
func (s *Staking) Initialize(owner, stakingToken, rewardsToken core.Address, duration uint64) error {
	current, err := s.owner.Get()
	if err != nil {
		return err
	}
	if !current.IsZero() {
		return errors.New("pool already initialized")
	}
	if owner.IsZero() {
		return errors.New("owner must not be zero")
	}
	if stakingToken == rewardsToken {
		return errors.New("staking token and rewards token must differ")
	}
	s.owner.Set(&owner)
	s.stakingToken.Set(&stakingToken)
	s.rewardsToken.Set(&rewardsToken)
	if duration == 0 {
		return nil
	}
	return s.emissionService.SetRewardsDuration(duration, 0)
}

func (s *Staking) tokens() (*token.Token, *token.Token, error) {
	stakingToken, err := s.stakingToken.Get()
	if err != nil {
		return nil, nil, err
	}
	rewardsToken, err := s.rewardsToken.Get()
	if err != nil {
		return nil, nil, err
	}
	return token.New(stakingToken, s.state), token.New(rewardsToken, s.state), nil
}

//
// Getters - no state change
//

func (s *Staking) Owner() (core.Address, error) {
	return s.owner.Get()
}

func (s *Staking) StakingToken() (core.Address, error) {
	return s.stakingToken.Get()
}

func (s *Staking) RewardsToken() (core.Address, error) {
	return s.rewardsToken.Get()
}

// BalanceOf returns the staked balance of addr.
func (s *Staking) BalanceOf(addr core.Address) (*uint256.Int, error) {
	return s.accountsService.BalanceOf(addr)
}

// TotalSupply returns the total staked amount.
func (s *Staking) TotalSupply() (*uint256.Int, error) {
	return s.accountsService.TotalStaked()
}

// Earned returns the reward addr could claim at now.
func (s *Staking) Earned(addr core.Address, now uint64) (*uint256.Int, error) {
	return s.indexService.Earned(addr, now)
}

func (s *Staking) RewardRate() (*uint256.Int, error) {
	return s.emissionService.RewardRate()
}

// RewardPerToken returns the accumulator projected to now.
func (s *Staking) RewardPerToken(now uint64) (*uint256.Int, error) {
	return s.indexService.RewardPerToken(now)
}

func (s *Staking) LastTimeRewardApplicable(now uint64) (uint64, error) {
	return s.indexService.LastTimeRewardApplicable(now)
}

func (s *Staking) GetRewardForDuration() (*uint256.Int, error) {
	return s.emissionService.RewardForDuration()
}

func (s *Staking) PeriodFinish() (uint64, error) {
	return s.emissionService.PeriodFinish()
}

func (s *Staking) RewardsDuration() (uint64, error) {
	return s.emissionService.RewardsDuration()
}

func (s *Staking) LastUpdateTime() (uint64, error) {
	return s.indexService.LastUpdateTime()
}

// Account returns the raw account record of addr.
func (s *Staking) Account(addr core.Address) (*accounts.Account, error) {
	return s.accountsService.Get(addr)
}

//
// Participant operations
//

// Stake locks amount of the staking token of caller in the pool.
// The caller must have approved the pool to spend it.
func (s *Staking) Stake(caller core.Address, amount *uint256.Int, now uint64) error {
	return s.atomic(func() error {
		if err := s.indexService.Checkpoint(&caller, now); err != nil {
			return err
		}
		if amount.IsZero() {
			return reverts.New(reverts.ErrZeroAmount, "Cannot stake 0")
		}
		if err := s.accountsService.Deposit(caller, amount); err != nil {
			return err
		}
		stakingToken, _, err := s.tokens()
		if err != nil {
			return err
		}
		if err := stakingToken.TransferFrom(s.addr, caller, s.addr, amount); err != nil {
			return err
		}
		s.emit(EventStaked, caller, amount, now)
		logger.Debug("staked", "account", caller, "amount", amount)
		return nil
	})
}

// Withdraw returns amount of staked tokens to caller.
func (s *Staking) Withdraw(caller core.Address, amount *uint256.Int, now uint64) error {
	return s.atomic(func() error {
		return s.withdraw(caller, amount, now)
	})
}

func (s *Staking) withdraw(caller core.Address, amount *uint256.Int, now uint64) error {
	if err := s.indexService.Checkpoint(&caller, now); err != nil {
		return err
	}
	if amount.IsZero() {
		return reverts.New(reverts.ErrZeroAmount, "Cannot withdraw 0")
	}
	if err := s.accountsService.Withdraw(caller, amount); err != nil {
		return err
	}
	stakingToken, _, err := s.tokens()
	if err != nil {
		return err
	}
	if err := stakingToken.Transfer(s.addr, caller, amount); err != nil {
		return err
	}
	s.emit(EventWithdrawn, caller, amount, now)
	logger.Debug("withdrawn", "account", caller, "amount", amount)
	return nil
}

// GetReward pays out the accrued reward of caller. Nothing happens if there is none.
func (s *Staking) GetReward(caller core.Address, now uint64) error {
	return s.atomic(func() error {
		return s.getReward(caller, now)
	})
}

func (s *Staking) getReward(caller core.Address, now uint64) error {
	if err := s.indexService.Checkpoint(&caller, now); err != nil {
		return err
	}
	acc, err := s.accountsService.Get(caller)
	if err != nil {
		return err
	}
	reward := acc.RewardsAccrued
	if reward.IsZero() {
		return nil
	}
	acc.RewardsAccrued = new(uint256.Int)
	if err := s.accountsService.Set(caller, acc); err != nil {
		return err
	}
	_, rewardsToken, err := s.tokens()
	if err != nil {
		return err
	}
	if err := rewardsToken.Transfer(s.addr, caller, reward); err != nil {
		return err
	}
	s.emit(EventRewardPaid, caller, reward, now)
	logger.Debug("reward paid", "account", caller, "reward", reward)
	return nil
}

// Exit withdraws the whole stake of caller and pays out its reward.
func (s *Staking) Exit(caller core.Address, now uint64) error {
	return s.atomic(func() error {
		balance, err := s.accountsService.BalanceOf(caller)
		if err != nil {
			return err
		}
		if err := s.withdraw(caller, balance, now); err != nil {
			return err
		}
		return s.getReward(caller, now)
	})
}

//
// Owner operations
//

func (s *Staking) onlyOwner(caller core.Address) error {
	owner, err := s.owner.Get()
	if err != nil {
		return err
	}
	if owner != caller {
		return reverts.New(reverts.ErrUnauthorized, "Only the contract owner may perform this action")
	}
	return nil
}

// SetRewardsDuration sets the length of the next emission period.
// It fails while a period is running.
func (s *Staking) SetRewardsDuration(caller core.Address, duration, now uint64) error {
	return s.atomic(func() error {
		if err := s.onlyOwner(caller); err != nil {
			return err
		}
		if err := s.emissionService.SetRewardsDuration(duration, now); err != nil {
			return err
		}
		s.emit(EventRewardsDurationUpdated, caller, uint256.NewInt(duration), now)
		logger.Debug("rewards duration updated", "duration", duration)
		return nil
	})
}

// NotifyRewardAmount starts a new emission period of amount reward tokens,
// which must already be held by the pool.
func (s *Staking) NotifyRewardAmount(caller core.Address, amount *uint256.Int, now uint64) error {
	return s.atomic(func() error {
		if err := s.onlyOwner(caller); err != nil {
			return err
		}
		if err := s.indexService.Checkpoint(nil, now); err != nil {
			return err
		}
		_, rewardsToken, err := s.tokens()
		if err != nil {
			return err
		}
		held, err := rewardsToken.BalanceOf(s.addr)
		if err != nil {
			return err
		}
		rate, err := s.emissionService.Notify(amount, now, held)
		if err != nil {
			return err
		}
		s.indexService.SetLastUpdateTime(now)
		s.emit(EventRewardAdded, caller, amount, now)
		logger.Debug("reward added", "amount", amount, "rate", rate)
		return nil
	})
}
