// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewardindex

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/core"
	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/staking/accounts"
	"github.com/vechain/stakepool/staking/emission"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/storage"
)

var (
	alice = core.BytesToAddress([]byte("alice"))
	bob   = core.BytesToAddress([]byte("bob"))
)

type env struct {
	t        *testing.T
	accounts *accounts.Service
	emission *emission.Service
	index    *Service
}

func newEnv(t *testing.T) *env {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sctx := storage.NewContext(core.PoolAddress, state.NewStater(db, 0).NewState())
	acc := accounts.New(sctx)
	em := emission.New(sctx)
	return &env{t, acc, em, New(sctx, acc, em)}
}

func ether(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), uint256.NewInt(core.Precision))
}

// start notifies amount over duration at now.
func (e *env) start(amount *uint256.Int, duration, now uint64) {
	require.NoError(e.t, e.index.Checkpoint(nil, now))
	require.NoError(e.t, e.emission.SetRewardsDuration(duration, now))
	_, err := e.emission.Notify(amount, now, amount)
	require.NoError(e.t, err)
	e.index.SetLastUpdateTime(now)
}

func (e *env) stake(addr core.Address, amount *uint256.Int, now uint64) {
	require.NoError(e.t, e.index.Checkpoint(&addr, now))
	require.NoError(e.t, e.accounts.Deposit(addr, amount))
}

func (e *env) earned(addr core.Address, now uint64) *uint256.Int {
	v, err := e.index.Earned(addr, now)
	require.NoError(e.t, err)
	return v
}

func TestGlobalOdometer(t *testing.T) {
	e := newEnv(t)
	e.start(ether(1000), 100, 0)

	e.stake(alice, ether(100), 0)
	e.stake(bob, ether(100), 11)

	assert.Equal(t, ether(160), e.earned(alice, 21))
	assert.Equal(t, ether(50), e.earned(bob, 21))
}

func TestCheckpointStampsNewcomer(t *testing.T) {
	e := newEnv(t)
	e.start(ether(1000), 100, 0)

	e.stake(alice, ether(100), 0)
	e.stake(bob, ether(100), 40)

	acc, err := e.accounts.Get(bob)
	require.NoError(t, err)
	assert.Equal(t, ether(4), acc.RewardPerTokenPaid)
	assert.True(t, e.earned(bob, 40).IsZero())
	assert.Equal(t, ether(100), e.earned(bob, 60))
}

func TestRewardPerTokenNoStake(t *testing.T) {
	e := newEnv(t)
	e.start(ether(1000), 100, 0)

	rpt, err := e.index.RewardPerToken(50)
	assert.NoError(t, err)
	assert.True(t, rpt.IsZero())

	// emissions while nothing is staked are not reclaimed
	require.NoError(t, e.index.Checkpoint(nil, 50))
	last, _ := e.index.LastUpdateTime()
	assert.Equal(t, uint64(50), last)

	e.stake(alice, ether(10), 50)
	assert.Equal(t, ether(500), e.earned(alice, 100))
}

func TestEmissionStopsAtPeriodFinish(t *testing.T) {
	e := newEnv(t)
	e.start(ether(1000), 100, 0)
	e.stake(alice, ether(1), 0)

	assert.Equal(t, ether(1000), e.earned(alice, 100))
	assert.Equal(t, ether(1000), e.earned(alice, 1000))

	applicable, err := e.index.LastTimeRewardApplicable(1000)
	assert.NoError(t, err)
	assert.Equal(t, uint64(100), applicable)

	require.NoError(t, e.index.Checkpoint(&alice, 1000))
	last, _ := e.index.LastUpdateTime()
	assert.Equal(t, uint64(100), last)
}

func TestCheckpointIdempotent(t *testing.T) {
	e := newEnv(t)
	e.start(ether(1000), 100, 0)
	e.stake(alice, ether(3), 0)
	e.stake(bob, ether(7), 3)

	for _, now := range []uint64{17, 17, 42, 42} {
		require.NoError(t, e.index.Checkpoint(&alice, now))
		first, _ := e.accounts.Get(alice)
		require.NoError(t, e.index.Checkpoint(&alice, now))
		second, _ := e.accounts.Get(alice)
		assert.Equal(t, first.RewardsAccrued, second.RewardsAccrued)
		assert.Equal(t, first.RewardPerTokenPaid, second.RewardPerTokenPaid)
	}
}

func TestEarnedMatchesCheckpoint(t *testing.T) {
	e := newEnv(t)
	e.start(ether(1000), 100, 0)
	e.stake(alice, ether(3), 1)
	e.stake(bob, ether(7), 9)

	projected := e.earned(alice, 77)
	require.NoError(t, e.index.Checkpoint(&alice, 77))
	acc, _ := e.accounts.Get(alice)
	assert.Equal(t, projected, acc.RewardsAccrued)
}

func TestAccumulatorMonotonic(t *testing.T) {
	e := newEnv(t)
	e.start(ether(1000), 100, 0)

	prev := new(uint256.Int)
	for now := uint64(0); now < 120; now += 7 {
		if now%2 == 0 {
			e.stake(alice, ether(now+1), now)
		} else {
			e.stake(bob, uint256.NewInt(now), now)
		}
		cur, err := e.index.RewardPerTokenStored()
		require.NoError(t, err)
		assert.False(t, cur.Lt(prev), "accumulator decreased at %d", now)
		prev = cur
	}
}
