// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatsSnapshot(t *testing.T) {
	var s Stats

	snap, moved := s.Snapshot()
	assert.Zero(t, snap.HitRate())
	assert.False(t, moved)

	s.Hit()
	s.Miss()
	snap, moved = s.Snapshot()
	assert.Equal(t, Snapshot{Hits: 1, Misses: 1}, snap)
	assert.Equal(t, 0.5, snap.HitRate())
	assert.True(t, moved)

	// same rate, more lookups
	s.Hit()
	s.Miss()
	snap, moved = s.Snapshot()
	assert.Equal(t, int64(2), snap.Hits)
	assert.False(t, moved)

	s.Hit()
	s.Hit()
	snap, moved = s.Snapshot()
	assert.Equal(t, 4.0/6.0, snap.HitRate())
	assert.True(t, moved)
}
