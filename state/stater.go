// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/vechain/stakepool/cache"
	"github.com/vechain/stakepool/kv"
)

const storeBucket = kv.Bucket("s")

// Stater is the state creator.
type Stater struct {
	store kv.Store
	cache *cache.LRU
}

// NewStater create a new stater. A cacheSize of 0 disables the read cache.
func NewStater(store kv.Store, cacheSize int) *Stater {
	s := &Stater{store: storeBucket.NewStore(store)}
	if cacheSize > 0 {
		s.cache, _ = cache.NewLRU(cacheSize)
	}
	return s
}

// NewState create a new state object over the committed storage.
func (s *Stater) NewState() *State {
	return New(s.store, s.cache)
}

// Store returns the underlying bucket store.
func (s *Stater) Store() kv.Store {
	return s.store
}

// Purge drops cached values. It must be called after the store is written
// outside of a Stage.
func (s *Stater) Purge() {
	if s.cache != nil {
		s.cache.Purge()
	}
}

// CacheStats returns lookup statistics of the read cache, and whether the
// hit rate moved since the previous call.
func (s *Stater) CacheStats() (cache.Snapshot, bool) {
	if s.cache == nil {
		return cache.Snapshot{}, false
	}
	return s.cache.Stats()
}
