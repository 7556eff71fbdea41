// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/cache"
	"github.com/vechain/stakepool/core"
	"github.com/vechain/stakepool/kv"
)

// Stage abstracts the pending changes of a state.
type Stage struct {
	store   kv.Store
	cache   *cache.LRU
	keys    []storageKey
	changes map[storageKey]rlp.RawValue
}

func newStage(store kv.Store, c *cache.LRU, changes map[storageKey]rlp.RawValue) *Stage {
	keys := make([]storageKey, 0, len(changes))
	for k := range changes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i].bytes(), keys[j].bytes()) < 0
	})
	return &Stage{store, c, keys, changes}
}

// Len returns count of changed slots.
func (s *Stage) Len() int {
	return len(s.keys)
}

// Hash computes the digest of the changeset.
func (s *Stage) Hash() core.Bytes32 {
	hasher := core.NewBlake2b()
	for _, k := range s.keys {
		hasher.Write(k.bytes())
		hasher.Write(s.changes[k])
	}
	var h core.Bytes32
	hasher.Sum(h[:0])
	return h
}

// Commit writes all changes into the store atomically.
func (s *Stage) Commit() error {
	if len(s.keys) == 0 {
		return nil
	}
	bulk := s.store.Bulk()
	for _, k := range s.keys {
		v := s.changes[k]
		var err error
		if len(v) == 0 {
			err = bulk.Delete(k.bytes())
		} else {
			err = bulk.Put(k.bytes(), v)
		}
		if err != nil {
			return &Error{errors.Wrap(err, "stage")}
		}
	}
	if err := bulk.Write(); err != nil {
		return &Error{err}
	}
	metricStorageAccess().AddWithLabel(int64(len(s.keys)), map[string]string{"type": "write", "target": "store"})

	if s.cache != nil {
		for _, k := range s.keys {
			s.cache.Add(k, s.changes[k])
		}
	}
	return nil
}
