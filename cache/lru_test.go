// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUGetOrLoad(t *testing.T) {
	_, err := NewLRU(0)
	assert.Error(t, err)

	c, err := NewLRU(2)
	require.NoError(t, err)

	var loads int
	loader := func(key any) (any, error) {
		loads++
		return key.(string) + "!", nil
	}

	v, err := c.GetOrLoad("a", loader)
	assert.NoError(t, err)
	assert.Equal(t, "a!", v)

	v, err = c.GetOrLoad("a", loader)
	assert.NoError(t, err)
	assert.Equal(t, "a!", v)
	assert.Equal(t, 1, loads)

	snap, _ := c.Stats()
	assert.Equal(t, Snapshot{Hits: 1, Misses: 1}, snap)

	// evicts a
	_, _ = c.GetOrLoad("b", loader)
	_, _ = c.GetOrLoad("c", loader)
	_, _ = c.GetOrLoad("a", loader)
	assert.Equal(t, 4, loads)
}

func TestLRULoadError(t *testing.T) {
	c, err := NewLRU(2)
	require.NoError(t, err)

	errLoad := errors.New("load failed")
	_, err = c.GetOrLoad("x", func(any) (any, error) { return nil, errLoad })
	assert.ErrorIs(t, err, errLoad)

	_, ok := c.Get("x")
	assert.False(t, ok)
}
