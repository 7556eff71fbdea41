// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package emission

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/core"
	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/staking/reverts"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/storage"
)

func newService(t *testing.T) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(storage.NewContext(core.PoolAddress, state.NewStater(db, 0).NewState()))
}

func ether(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), uint256.NewInt(core.Precision))
}

func TestSetRewardsDuration(t *testing.T) {
	svc := newService(t)

	assert.ErrorIs(t, svc.SetRewardsDuration(0, 0), reverts.ErrScheduling)
	require.NoError(t, svc.SetRewardsDuration(100, 0))

	d, err := svc.RewardsDuration()
	assert.NoError(t, err)
	assert.Equal(t, uint64(100), d)

	_, err = svc.Notify(ether(1000), 10, ether(1000))
	require.NoError(t, err)

	// active until 110
	for _, now := range []uint64{10, 50, 109} {
		active, err := svc.IsActive(now)
		assert.NoError(t, err)
		assert.True(t, active)
		assert.ErrorIs(t, svc.SetRewardsDuration(200, now), reverts.ErrScheduling)
	}

	active, _ := svc.IsActive(110)
	assert.False(t, active)
	assert.NoError(t, svc.SetRewardsDuration(200, 110))
}

func TestNotifyIdle(t *testing.T) {
	svc := newService(t)

	_, err := svc.Notify(ether(1000), 0, ether(1000))
	assert.ErrorIs(t, err, reverts.ErrScheduling)

	require.NoError(t, svc.SetRewardsDuration(100, 0))
	rate, err := svc.Notify(ether(1000), 5, ether(1000))
	require.NoError(t, err)
	assert.Equal(t, ether(10), rate)

	finish, _ := svc.PeriodFinish()
	assert.Equal(t, uint64(105), finish)

	reward, err := svc.RewardForDuration()
	assert.NoError(t, err)
	assert.Equal(t, ether(1000), reward)
}

func TestNotifyDust(t *testing.T) {
	svc := newService(t)
	require.NoError(t, svc.SetRewardsDuration(7, 0))

	rate, err := svc.Notify(uint256.NewInt(100), 0, uint256.NewInt(100))
	require.NoError(t, err)
	assert.Equal(t, uint64(14), rate.Uint64())

	// 2 units of dust are never promised
	reward, _ := svc.RewardForDuration()
	assert.Equal(t, uint64(98), reward.Uint64())
}

func TestNotifyActiveRestart(t *testing.T) {
	svc := newService(t)
	require.NoError(t, svc.SetRewardsDuration(100, 0))
	_, err := svc.Notify(ether(1000), 0, ether(1000))
	require.NoError(t, err)

	// at 40, 60s at 10/s remain unemitted
	rate, err := svc.Notify(ether(400), 40, ether(1000))
	require.NoError(t, err)
	assert.Equal(t, ether(10), rate)

	finish, _ := svc.PeriodFinish()
	assert.Equal(t, uint64(140), finish)
}

func TestNotifyInsufficientReward(t *testing.T) {
	svc := newService(t)
	require.NoError(t, svc.SetRewardsDuration(100, 0))

	_, err := svc.Notify(ether(1000), 0, ether(999))
	assert.ErrorIs(t, err, reverts.ErrInsufficientRewardBalance)

	rate, _ := svc.RewardRate()
	assert.True(t, rate.IsZero())
	finish, _ := svc.PeriodFinish()
	assert.Zero(t, finish)

	// leftover of the running period counts too
	_, err = svc.Notify(ether(1000), 0, ether(1000))
	require.NoError(t, err)
	_, err = svc.Notify(ether(1), 50, ether(500))
	assert.ErrorIs(t, err, reverts.ErrInsufficientRewardBalance)
	_, err = svc.Notify(ether(1), 50, ether(501))
	assert.NoError(t, err)
}
