// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/core"
	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/token"
)

var (
	owner        = core.BytesToAddress([]byte("owner"))
	alice        = core.BytesToAddress([]byte("alice"))
	bob          = core.BytesToAddress([]byte("bob"))
	stakingAddr  = core.BytesToAddress([]byte("staking-token"))
	rewardsAddr  = core.BytesToAddress([]byte("rewards-token"))
	userDeposits = ether(1_000_000)
)

func ether(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), uint256.NewInt(core.Precision))
}

type testPool struct {
	*Staking
	t            *testing.T
	state        *state.State
	stakingToken *token.Token
	rewardsToken *token.Token
}

// newTestPool creates a pool with a duration, where alice and bob hold and
// approved userDeposits of the staking token.
func newTestPool(t *testing.T, duration uint64) *testPool {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.NewStater(db, 0).NewState()
	p := &testPool{
		Staking:      New(core.PoolAddress, st),
		t:            t,
		state:        st,
		stakingToken: token.New(stakingAddr, st),
		rewardsToken: token.New(rewardsAddr, st),
	}
	require.NoError(t, p.Initialize(owner, stakingAddr, rewardsAddr, duration))

	for _, user := range []core.Address{alice, bob} {
		require.NoError(t, p.stakingToken.Mint(user, userDeposits))
		require.NoError(t, p.stakingToken.Approve(user, core.PoolAddress, userDeposits))
	}
	return p
}

// fund sends reward tokens to the pool and notifies them at now.
func (p *testPool) fund(amount *uint256.Int, now uint64) {
	require.NoError(p.t, p.rewardsToken.Mint(core.PoolAddress, amount))
	require.NoError(p.t, p.NotifyRewardAmount(owner, amount, now))
}

func (p *testPool) earned(addr core.Address, now uint64) *uint256.Int {
	v, err := p.Earned(addr, now)
	require.NoError(p.t, err)
	return v
}

func (p *testPool) balance(tk *token.Token, addr core.Address) *uint256.Int {
	v, err := tk.BalanceOf(addr)
	require.NoError(p.t, err)
	return v
}
