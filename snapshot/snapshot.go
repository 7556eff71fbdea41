// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package snapshot exports and imports every key-value pair of a store as a
// snappy compressed stream of rlp records.
package snapshot

import (
	"bufio"
	"io"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/golang/snappy"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/kv"
	"github.com/vechain/stakepool/log"
)

var logger = log.WithContext("pkg", "snapshot")

const (
	magic   = "stakepool-snapshot"
	version = uint(1)

	// pairs per bulk write on import
	bulkSize = 1024
)

type header struct {
	Magic   string
	Version uint
}

type pair struct {
	Key   []byte
	Value []byte
}

// Export writes all pairs of store to w. progress, when not nil, is called
// after each pair.
func Export(store kv.Store, w io.Writer, progress func(n uint64)) (uint64, error) {
	sw := snappy.NewBufferedWriter(w)
	if err := rlp.Encode(sw, &header{magic, version}); err != nil {
		return 0, errors.Wrap(err, "write header")
	}

	it := store.Iterate(kv.Range{})
	defer it.Release()

	var n uint64
	for it.Next() {
		if err := rlp.Encode(sw, &pair{it.Key(), it.Value()}); err != nil {
			return n, errors.Wrap(err, "write pair")
		}
		n++
		if progress != nil {
			progress(n)
		}
	}
	if err := it.Error(); err != nil {
		return n, errors.Wrap(err, "iterate")
	}
	if err := sw.Close(); err != nil {
		return n, errors.Wrap(err, "flush")
	}
	logger.Debug("exported", "pairs", n)
	return n, nil
}

// Import reads pairs from r and writes them into store. Existing keys are
// overwritten. Read caches over store must be purged afterwards.
func Import(store kv.Store, r io.Reader, progress func(n uint64)) (uint64, error) {
	stream := rlp.NewStream(bufio.NewReader(snappy.NewReader(r)), 0)

	var h header
	if err := stream.Decode(&h); err != nil {
		return 0, errors.Wrap(err, "read header")
	}
	if h.Magic != magic {
		return 0, errors.New("not a snapshot")
	}
	if h.Version != version {
		return 0, errors.Errorf("unsupported snapshot version %d", h.Version)
	}

	var (
		n    uint64
		bulk = store.Bulk()
	)
	for {
		var p pair
		if err := stream.Decode(&p); err != nil {
			if err == io.EOF {
				break
			}
			return n, errors.Wrap(err, "read pair")
		}
		if err := bulk.Put(p.Key, p.Value); err != nil {
			return n, err
		}
		n++
		if bulk.Len() >= bulkSize {
			if err := bulk.Write(); err != nil {
				return n, errors.Wrap(err, "write bulk")
			}
		}
		if progress != nil {
			progress(n)
		}
	}
	if err := bulk.Write(); err != nil {
		return n, errors.Wrap(err, "write bulk")
	}
	logger.Debug("imported", "pairs", n)
	return n, nil
}
