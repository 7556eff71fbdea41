// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/core"
	"github.com/vechain/stakepool/fixed"
	"github.com/vechain/stakepool/staking/reverts"
	"github.com/vechain/stakepool/storage"
)

var (
	slotAccounts    = storage.Slot("accounts")
	slotTotalStaked = storage.Slot("total-staked")
)

// Service keeps staked balances and the total staked supply.
// It knows nothing about time or rewards.
type Service struct {
	accounts    *storage.Mapping[core.Address, *Account]
	totalStaked *storage.Uint256
}

func New(sctx *storage.Context) *Service {
	return &Service{
		accounts:    storage.NewMapping[core.Address, *Account](sctx, slotAccounts),
		totalStaked: storage.NewUint256(sctx, slotTotalStaked),
	}
}

// Get returns the account record, all fields are non-nil.
func (s *Service) Get(addr core.Address) (*Account, error) {
	acc, err := s.accounts.Get(addr)
	if err != nil {
		return nil, err
	}
	return acc.normalize(), nil
}

// Set stores the account record. All-zero records are dropped.
func (s *Service) Set(addr core.Address, acc *Account) error {
	if acc.normalize().IsEmpty() {
		s.accounts.Delete(addr)
		return nil
	}
	return s.accounts.Set(addr, acc)
}

func (s *Service) TotalStaked() (*uint256.Int, error) {
	return s.totalStaked.Get()
}

func (s *Service) BalanceOf(addr core.Address) (*uint256.Int, error) {
	acc, err := s.Get(addr)
	if err != nil {
		return nil, err
	}
	return acc.StakedBalance, nil
}

// Deposit increases the staked balance of addr and the total staked supply.
func (s *Service) Deposit(addr core.Address, amount *uint256.Int) error {
	acc, err := s.Get(addr)
	if err != nil {
		return err
	}
	if acc.StakedBalance, err = fixed.Add(acc.StakedBalance, amount); err != nil {
		return reverts.Arithmetic(err)
	}
	if _, err := s.totalStaked.Add(amount); err != nil {
		return reverts.Arithmetic(err)
	}
	return s.Set(addr, acc)
}

// Withdraw decreases the staked balance of addr and the total staked supply.
func (s *Service) Withdraw(addr core.Address, amount *uint256.Int) error {
	acc, err := s.Get(addr)
	if err != nil {
		return err
	}
	if acc.StakedBalance.Lt(amount) {
		return reverts.New(reverts.ErrInsufficientBalance, "Insufficient balance")
	}
	acc.StakedBalance, _ = fixed.Sub(acc.StakedBalance, amount)
	if _, err := s.totalStaked.Sub(amount); err != nil {
		return reverts.Arithmetic(err)
	}
	return s.Set(addr, acc)
}
