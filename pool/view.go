// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/core"
	"github.com/vechain/stakepool/staking"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/token"
)

// PoolInfo is a snapshot of the pool at Now.
type PoolInfo struct {
	Now                      uint64
	Owner                    core.Address
	StakingToken             core.Address
	RewardsToken             core.Address
	TotalSupply              *uint256.Int
	RewardRate               *uint256.Int
	RewardPerToken           *uint256.Int
	RewardForDuration        *uint256.Int
	PeriodFinish             uint64
	RewardsDuration          uint64
	LastUpdateTime           uint64
	LastTimeRewardApplicable uint64
	RewardBalance            *uint256.Int
}

// AccountInfo is a snapshot of one account at Now.
type AccountInfo struct {
	Now           uint64
	Address       core.Address
	Staked        *uint256.Int
	Earned        *uint256.Int
	StakingTokens *uint256.Int
	RewardTokens  *uint256.Int
}

// View runs fn on a fresh state at the current time. Changes made by fn are dropped.
func (p *Pool) View(fn func(s *staking.Staking, st *state.State, now uint64) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return errNotStarted
	}
	st := p.stater.NewState()
	return fn(staking.New(core.PoolAddress, st), st, p.clock.Now())
}

// Info returns the pool snapshot.
func (p *Pool) Info() (info *PoolInfo, err error) {
	err = p.View(func(s *staking.Staking, st *state.State, now uint64) error {
		info, err = poolInfo(s, st, now)
		return err
	})
	return
}

// Account returns the account snapshot.
func (p *Pool) Account(addr core.Address) (info *AccountInfo, err error) {
	err = p.View(func(s *staking.Staking, st *state.State, now uint64) error {
		info, err = accountInfo(s, st, addr, now)
		return err
	})
	return
}

// TokenBalance returns the balance of holder in tok.
func (p *Pool) TokenBalance(tok, holder core.Address) (balance *uint256.Int, err error) {
	err = p.View(func(s *staking.Staking, st *state.State, _ uint64) error {
		t, err := p.token(s, st, tok)
		if err != nil {
			return err
		}
		balance, err = t.BalanceOf(holder)
		return err
	})
	return
}

// Allowance returns how much spender may still move from owner in tok.
func (p *Pool) Allowance(tok, owner, spender core.Address) (allowance *uint256.Int, err error) {
	err = p.View(func(s *staking.Staking, st *state.State, _ uint64) error {
		t, err := p.token(s, st, tok)
		if err != nil {
			return err
		}
		allowance, err = t.Allowance(owner, spender)
		return err
	})
	return
}

func poolInfo(s *staking.Staking, st *state.State, now uint64) (*PoolInfo, error) {
	var (
		info = &PoolInfo{Now: now}
		err  error
	)
	// the first failing getter wins, later ones are skipped
	step := func(f func() error) {
		if err == nil {
			err = f()
		}
	}
	step(func() (e error) { info.Owner, e = s.Owner(); return })
	step(func() (e error) { info.StakingToken, e = s.StakingToken(); return })
	step(func() (e error) { info.RewardsToken, e = s.RewardsToken(); return })
	step(func() (e error) { info.TotalSupply, e = s.TotalSupply(); return })
	step(func() (e error) { info.RewardRate, e = s.RewardRate(); return })
	step(func() (e error) { info.RewardPerToken, e = s.RewardPerToken(now); return })
	step(func() (e error) { info.RewardForDuration, e = s.GetRewardForDuration(); return })
	step(func() (e error) { info.PeriodFinish, e = s.PeriodFinish(); return })
	step(func() (e error) { info.RewardsDuration, e = s.RewardsDuration(); return })
	step(func() (e error) { info.LastUpdateTime, e = s.LastUpdateTime(); return })
	step(func() (e error) { info.LastTimeRewardApplicable, e = s.LastTimeRewardApplicable(now); return })
	step(func() (e error) {
		info.RewardBalance, e = token.New(info.RewardsToken, st).BalanceOf(s.Address())
		return
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

func accountInfo(s *staking.Staking, st *state.State, addr core.Address, now uint64) (*AccountInfo, error) {
	staked, err := s.BalanceOf(addr)
	if err != nil {
		return nil, err
	}
	earned, err := s.Earned(addr, now)
	if err != nil {
		return nil, err
	}
	stakingToken, err := s.StakingToken()
	if err != nil {
		return nil, err
	}
	rewardsToken, err := s.RewardsToken()
	if err != nil {
		return nil, err
	}
	stakingTokens, err := token.New(stakingToken, st).BalanceOf(addr)
	if err != nil {
		return nil, err
	}
	rewardTokens, err := token.New(rewardsToken, st).BalanceOf(addr)
	if err != nil {
		return nil, err
	}
	return &AccountInfo{
		Now:           now,
		Address:       addr,
		Staked:        staked,
		Earned:        earned,
		StakingTokens: stakingTokens,
		RewardTokens:  rewardTokens,
	}, nil
}
