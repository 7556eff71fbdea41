// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/core"
	"github.com/vechain/stakepool/fixed"
	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/state"
)

func newContext(t *testing.T) *Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewContext(core.Address{1}, state.NewStater(db, 0).NewState())
}

func TestUint256(t *testing.T) {
	ctx := newContext(t)
	u := NewUint256(ctx, Slot("total"))

	v, err := u.Get()
	assert.NoError(t, err)
	assert.True(t, v.IsZero())

	u.Set(uint256.NewInt(100))
	sum, err := u.Add(uint256.NewInt(23))
	assert.NoError(t, err)
	assert.Equal(t, uint64(123), sum.Uint64())

	diff, err := u.Sub(uint256.NewInt(3))
	assert.NoError(t, err)
	assert.Equal(t, uint64(120), diff.Uint64())

	_, err = u.Sub(uint256.NewInt(121))
	assert.ErrorIs(t, err, fixed.ErrUnderflow)
	v, _ = u.Get()
	assert.Equal(t, uint64(120), v.Uint64())

	max := new(uint256.Int).SetAllOne()
	u.Set(max)
	v, _ = u.Get()
	assert.Equal(t, max, v)
	_, err = u.Add(uint256.NewInt(1))
	assert.ErrorIs(t, err, fixed.ErrOverflow)

	assert.Equal(t, core.Address{1}, ctx.Address())
}

func TestUint64(t *testing.T) {
	u := NewUint64(newContext(t), Slot("finish"))

	v, err := u.Get()
	assert.NoError(t, err)
	assert.Zero(t, v)

	u.Set(1_700_000_000)
	v, err = u.Get()
	assert.NoError(t, err)
	assert.Equal(t, uint64(1_700_000_000), v)
}

func TestAddress(t *testing.T) {
	a := NewAddress(newContext(t), Slot("owner"))

	owner := core.BytesToAddress([]byte("owner"))
	a.Set(&owner)
	got, err := a.Get()
	assert.NoError(t, err)
	assert.Equal(t, owner, got)

	a.Set(nil)
	got, err = a.Get()
	assert.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestAddressCorrupted(t *testing.T) {
	ctx := newContext(t)
	slot := Slot("slot")
	ctx.State().SetRawStorage(ctx.Address(), slot, rlp.RawValue{0xFF})

	got, err := NewAddress(ctx, slot).Get()
	assert.Error(t, err)
	assert.True(t, got.IsZero())
}

type record struct {
	Amount *uint256.Int
	Time   uint64
}

func TestMapping(t *testing.T) {
	ctx := newContext(t)
	m := NewMapping[core.Address, *record](ctx, Slot("records"))

	alice := core.BytesToAddress([]byte("alice"))
	bob := core.BytesToAddress([]byte("bob"))

	empty, err := m.Get(alice)
	assert.NoError(t, err)
	require.NotNil(t, empty)
	assert.Nil(t, empty.Amount)

	assert.NoError(t, m.Set(alice, &record{uint256.NewInt(5), 10}))
	got, err := m.Get(alice)
	assert.NoError(t, err)
	assert.Equal(t, uint64(5), got.Amount.Uint64())
	assert.Equal(t, uint64(10), got.Time)

	other, err := m.Get(bob)
	assert.NoError(t, err)
	assert.Nil(t, other.Amount)

	// distinct bases never collide
	m2 := NewMapping[core.Address, *record](ctx, Slot("other"))
	got, err = m2.Get(alice)
	assert.NoError(t, err)
	assert.Nil(t, got.Amount)

	m.Delete(alice)
	got, err = m.Get(alice)
	assert.NoError(t, err)
	assert.Nil(t, got.Amount)
}

func TestRaw(t *testing.T) {
	r := NewRaw[record](newContext(t), Slot("raw"))

	got, err := r.Get()
	assert.NoError(t, err)
	assert.Nil(t, got.Amount)

	assert.NoError(t, r.Set(record{uint256.NewInt(9), 3}))
	got, err = r.Get()
	assert.NoError(t, err)
	assert.Equal(t, uint64(9), got.Amount.Uint64())
	assert.Equal(t, uint64(3), got.Time)
}
