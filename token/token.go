// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements a fungible token ledger kept in contract storage.
package token

import (
	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/core"
	"github.com/vechain/stakepool/fixed"
	"github.com/vechain/stakepool/staking/reverts"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/storage"
)

var (
	slotTotalSupply = storage.Slot("total-supply")
	slotBalances    = storage.Slot("balances")
	slotAllowances  = storage.Slot("allowances")
)

type allowanceKey struct {
	owner   core.Address
	spender core.Address
}

func (k allowanceKey) Bytes() []byte {
	return append(k.owner.Bytes(), k.spender.Bytes()...)
}

// Token is a token ledger bound to a state.
type Token struct {
	addr        core.Address
	totalSupply *storage.Uint256
	balances    *storage.Mapping[core.Address, *uint256.Int]
	allowances  *storage.Mapping[allowanceKey, *uint256.Int]
}

func New(addr core.Address, state *state.State) *Token {
	ctx := storage.NewContext(addr, state)
	return &Token{
		addr:        addr,
		totalSupply: storage.NewUint256(ctx, slotTotalSupply),
		balances:    storage.NewMapping[core.Address, *uint256.Int](ctx, slotBalances),
		allowances:  storage.NewMapping[allowanceKey, *uint256.Int](ctx, slotAllowances),
	}
}

// Address returns the token address.
func (t *Token) Address() core.Address {
	return t.addr
}

func (t *Token) TotalSupply() (*uint256.Int, error) {
	return t.totalSupply.Get()
}

func (t *Token) BalanceOf(addr core.Address) (*uint256.Int, error) {
	return t.balances.Get(addr)
}

func (t *Token) Allowance(owner, spender core.Address) (*uint256.Int, error) {
	return t.allowances.Get(allowanceKey{owner, spender})
}

// Mint creates amount new tokens for to.
func (t *Token) Mint(to core.Address, amount *uint256.Int) error {
	if _, err := t.totalSupply.Add(amount); err != nil {
		return overflow(err)
	}
	bal, err := t.balances.Get(to)
	if err != nil {
		return err
	}
	// cannot overflow since bal <= total supply
	bal, _ = fixed.Add(bal, amount)
	return t.balances.Set(to, bal)
}

// Approve sets the amount spender may move out of owner's balance.
func (t *Token) Approve(owner, spender core.Address, amount *uint256.Int) error {
	return t.allowances.Set(allowanceKey{owner, spender}, fixed.Clone(amount))
}

// Transfer moves amount from one account to another.
func (t *Token) Transfer(from, to core.Address, amount *uint256.Int) error {
	fromBal, err := t.balances.Get(from)
	if err != nil {
		return err
	}
	if fromBal.Lt(amount) {
		return reverts.New(reverts.ErrTransferFailed, "transfer amount exceeds balance")
	}
	if from == to {
		return nil
	}
	fromBal, _ = fixed.Sub(fromBal, amount)
	if err := t.balances.Set(from, fromBal); err != nil {
		return err
	}

	toBal, err := t.balances.Get(to)
	if err != nil {
		return err
	}
	toBal, err = fixed.Add(toBal, amount)
	if err != nil {
		return overflow(err)
	}
	return t.balances.Set(to, toBal)
}

// TransferFrom moves amount from one account to another on behalf of spender,
// consuming spender's allowance.
func (t *Token) TransferFrom(spender, from, to core.Address, amount *uint256.Int) error {
	key := allowanceKey{from, spender}
	allowance, err := t.allowances.Get(key)
	if err != nil {
		return err
	}
	if allowance.Lt(amount) {
		return reverts.New(reverts.ErrTransferFailed, "transfer amount exceeds allowance")
	}
	if err := t.Transfer(from, to, amount); err != nil {
		return err
	}
	allowance, _ = fixed.Sub(allowance, amount)
	return t.allowances.Set(key, allowance)
}

func overflow(err error) error {
	return reverts.New(reverts.ErrOverflow, err.Error())
}
