// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSystem(t *testing.T) {
	c := NewSystem()
	a := c.Now()
	b := c.Now()
	assert.GreaterOrEqual(t, b, a)
	assert.InDelta(t, float64(time.Now().Unix()), float64(b), 2)

	// a reading from the future pins the clock
	future := uint64(time.Now().Unix()) + 1000
	c.last.Store(future)
	assert.Equal(t, future, c.Now())
}

func TestManual(t *testing.T) {
	c := NewManual(10)
	assert.Equal(t, uint64(10), c.Now())

	assert.Equal(t, uint64(15), c.Advance(5))
	assert.NoError(t, c.Set(15))
	assert.NoError(t, c.Set(20))
	assert.Equal(t, uint64(20), c.Now())

	assert.Error(t, c.Set(19))
	assert.Equal(t, uint64(20), c.Now())

	var _ Clock = c
	var _ Clock = NewSystem()
}
