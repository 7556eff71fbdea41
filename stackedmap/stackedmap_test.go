// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stackedmap_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/stakepool/stackedmap"
)

func newMap(src map[string]string) *stackedmap.StackedMap[string, string] {
	return stackedmap.New(func(key string) (string, bool, error) {
		v, ok := src[key]
		return v, ok, nil
	})
}

func TestStackedMap(t *testing.T) {
	sm := newMap(map[string]string{"foo": "bar"})

	get := func(key string) string {
		v, _, err := sm.Get(key)
		assert.NoError(t, err)
		return v
	}

	assert.Equal(t, 1, sm.Depth())
	assert.Equal(t, "bar", get("foo"))

	sm.Push()
	sm.Put("foo", "baz")
	assert.Equal(t, "baz", get("foo"))
	sm.Put("foo", "baz1")
	assert.Equal(t, "baz1", get("foo"))

	sm.Push()
	sm.Put("foo", "qux")
	assert.Equal(t, 3, sm.Depth())
	assert.Equal(t, "qux", get("foo"))

	sm.Pop()
	assert.Equal(t, "baz1", get("foo"))
	sm.Pop()
	assert.Equal(t, "bar", get("foo"))

	sm.Push()
	sm.Push()
	assert.Equal(t, 3, sm.Depth())
	sm.PopTo(0)
	assert.Equal(t, 0, sm.Depth())
}

func TestStackedMapMissingKey(t *testing.T) {
	sm := newMap(map[string]string{})

	_, ok, err := sm.Get("nope")
	assert.NoError(t, err)
	assert.False(t, ok)

	sm.Put("nope", "yes")
	v, ok, err := sm.Get("nope")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "yes", v)
}

func TestStackedMapSourceError(t *testing.T) {
	errSrc := errors.New("broken")
	sm := stackedmap.New(func(string) (int, bool, error) {
		return 0, false, errSrc
	})

	_, _, err := sm.Get("a")
	assert.ErrorIs(t, err, errSrc)

	// cached entries shadow the broken source
	sm.Put("a", 1)
	v, ok, err := sm.Get("a")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestStackedMapJournal(t *testing.T) {
	sm := newMap(map[string]string{})

	sm.Put("a", "1")
	sm.Push()
	sm.Put("b", "2")
	sm.Put("a", "3")
	depth := sm.Push()
	sm.Put("c", "4")
	sm.PopTo(depth)

	var keys, values []string
	sm.Journal(func(k, v string) bool {
		keys = append(keys, k)
		values = append(values, v)
		return true
	})
	assert.Equal(t, []string{"a", "b", "a"}, keys)
	assert.Equal(t, []string{"1", "2", "3"}, values)

	var n int
	sm.Journal(func(string, string) bool {
		n++
		return false
	})
	assert.Equal(t, 1, n)
}
