// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/stakepool/core"
)

func TestStage(t *testing.T) {
	stater := newStater(t, 16)
	st := stater.NewState()

	addr := core.BytesToAddress([]byte("acc1"))
	storage := map[core.Bytes32]core.Bytes32{
		core.BytesToBytes32([]byte("s1")): core.BytesToBytes32([]byte("v1")),
		core.BytesToBytes32([]byte("s2")): core.BytesToBytes32([]byte("v2")),
		core.BytesToBytes32([]byte("s3")): core.BytesToBytes32([]byte("v3")),
	}
	for k, v := range storage {
		st.SetStorage(addr, k, v)
	}

	stage := st.Stage()
	assert.Equal(t, 3, stage.Len())
	assert.False(t, stage.Hash().IsZero())
	assert.NoError(t, stage.Commit())

	// visible to new states
	st = stater.NewState()
	for k, v := range storage {
		got, err := st.GetStorage(addr, k)
		assert.NoError(t, err)
		assert.Equal(t, v, got)
	}

	// deletion
	s1 := core.BytesToBytes32([]byte("s1"))
	st.SetStorage(addr, s1, core.Bytes32{})
	assert.NoError(t, st.Stage().Commit())

	has, err := stater.Store().Has(storageKey{addr, s1}.bytes())
	assert.NoError(t, err)
	assert.False(t, has)

	got, err := stater.NewState().GetStorage(addr, s1)
	assert.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestStageHashDeterministic(t *testing.T) {
	addr := core.BytesToAddress([]byte("acc1"))
	k1 := core.BytesToBytes32([]byte("k1"))
	k2 := core.BytesToBytes32([]byte("k2"))
	v := core.BytesToBytes32([]byte("v"))

	a := newStater(t, 0).NewState()
	a.SetStorage(addr, k1, v)
	a.SetStorage(addr, k2, v)

	b := newStater(t, 0).NewState()
	b.SetStorage(addr, k2, v)
	b.SetStorage(addr, k1, v)

	assert.Equal(t, a.Stage().Hash(), b.Stage().Hash())
}

func TestUncommittedInvisible(t *testing.T) {
	stater := newStater(t, 16)
	addr := core.BytesToAddress([]byte("acc1"))
	key := core.BytesToBytes32([]byte("k"))

	st := stater.NewState()
	st.SetStorage(addr, key, core.BytesToBytes32([]byte("v")))

	got, err := stater.NewState().GetStorage(addr, key)
	assert.NoError(t, err)
	assert.True(t, got.IsZero())
}
