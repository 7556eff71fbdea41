// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/core"
	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/staking/reverts"
	"github.com/vechain/stakepool/state"
)

var (
	tokenAddr = core.BytesToAddress([]byte("token"))
	alice     = core.BytesToAddress([]byte("alice"))
	bob       = core.BytesToAddress([]byte("bob"))
	spender   = core.BytesToAddress([]byte("spender"))
)

func newState(t *testing.T) (*state.Stater, *state.State) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	stater := state.NewStater(db, 0)
	return stater, stater.NewState()
}

func balance(t *testing.T, tk *Token, addr core.Address) uint64 {
	bal, err := tk.BalanceOf(addr)
	require.NoError(t, err)
	return bal.Uint64()
}

func TestMintTransfer(t *testing.T) {
	_, st := newState(t)
	tk := New(tokenAddr, st)
	assert.Equal(t, tokenAddr, tk.Address())

	require.NoError(t, tk.Mint(alice, uint256.NewInt(100)))
	supply, err := tk.TotalSupply()
	assert.NoError(t, err)
	assert.Equal(t, uint64(100), supply.Uint64())

	assert.NoError(t, tk.Transfer(alice, bob, uint256.NewInt(30)))
	assert.Equal(t, uint64(70), balance(t, tk, alice))
	assert.Equal(t, uint64(30), balance(t, tk, bob))

	// self transfer keeps balance
	assert.NoError(t, tk.Transfer(bob, bob, uint256.NewInt(30)))
	assert.Equal(t, uint64(30), balance(t, tk, bob))

	err = tk.Transfer(bob, alice, uint256.NewInt(31))
	assert.True(t, errors.Is(err, reverts.ErrTransferFailed))
	assert.Equal(t, uint64(30), balance(t, tk, bob))
}

func TestTransferFrom(t *testing.T) {
	_, st := newState(t)
	tk := New(tokenAddr, st)
	require.NoError(t, tk.Mint(alice, uint256.NewInt(100)))

	err := tk.TransferFrom(spender, alice, bob, uint256.NewInt(1))
	assert.ErrorIs(t, err, reverts.ErrTransferFailed)

	require.NoError(t, tk.Approve(alice, spender, uint256.NewInt(50)))
	allowance, err := tk.Allowance(alice, spender)
	assert.NoError(t, err)
	assert.Equal(t, uint64(50), allowance.Uint64())

	assert.NoError(t, tk.TransferFrom(spender, alice, bob, uint256.NewInt(20)))
	assert.Equal(t, uint64(80), balance(t, tk, alice))
	assert.Equal(t, uint64(20), balance(t, tk, bob))

	allowance, _ = tk.Allowance(alice, spender)
	assert.Equal(t, uint64(30), allowance.Uint64())

	err = tk.TransferFrom(spender, alice, bob, uint256.NewInt(31))
	assert.ErrorIs(t, err, reverts.ErrTransferFailed)
}

func TestTransferFromInsufficientBalance(t *testing.T) {
	_, st := newState(t)
	tk := New(tokenAddr, st)
	require.NoError(t, tk.Mint(alice, uint256.NewInt(10)))
	require.NoError(t, tk.Approve(alice, spender, uint256.NewInt(50)))

	err := tk.TransferFrom(spender, alice, bob, uint256.NewInt(11))
	assert.ErrorIs(t, err, reverts.ErrTransferFailed)

	// allowance untouched
	allowance, _ := tk.Allowance(alice, spender)
	assert.Equal(t, uint64(50), allowance.Uint64())
}

func TestMintOverflow(t *testing.T) {
	_, st := newState(t)
	tk := New(tokenAddr, st)
	require.NoError(t, tk.Mint(alice, new(uint256.Int).SetAllOne()))

	err := tk.Mint(bob, uint256.NewInt(1))
	assert.ErrorIs(t, err, reverts.ErrOverflow)
}

func TestTokensIsolated(t *testing.T) {
	stater, st := newState(t)
	a := New(core.BytesToAddress([]byte("a")), st)
	b := New(core.BytesToAddress([]byte("b")), st)

	require.NoError(t, a.Mint(alice, uint256.NewInt(5)))
	assert.Zero(t, balance(t, b, alice))

	require.NoError(t, st.Stage().Commit())
	assert.Equal(t, uint64(5), balance(t, New(a.Address(), stater.NewState()), alice))
}
