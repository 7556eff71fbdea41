// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import "sync/atomic"

// Snapshot is a point-in-time view of cache lookups.
type Snapshot struct {
	Hits   int64
	Misses int64
}

// HitRate returns hits / lookups, 0 when nothing was looked up yet.
func (s Snapshot) HitRate() float64 {
	if lookups := s.Hits + s.Misses; lookups > 0 {
		return float64(s.Hits) / float64(lookups)
	}
	return 0
}

// Stats counts cache lookups. The zero value is ready to use.
type Stats struct {
	hits, misses atomic.Int64
	permille     atomic.Int32 // hit rate reported by the previous Snapshot
}

func (s *Stats) Hit() { s.hits.Add(1) }

func (s *Stats) Miss() { s.misses.Add(1) }

// Snapshot returns the counters, and whether the hit rate moved by at least
// one per mille since the previous call.
func (s *Stats) Snapshot() (Snapshot, bool) {
	snap := Snapshot{Hits: s.hits.Load(), Misses: s.misses.Load()}
	pm := int32(snap.HitRate() * 1000)
	return snap, s.permille.Swap(pm) != pm
}
