// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package clock supplies the pool with time in whole seconds.
package clock

import (
	"sync/atomic"
	"time"

	"github.com/beevik/ntp"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/log"
)

var logger = log.WithContext("pkg", "clock")

// Clock returns the current time as unix seconds. Successive reads never decrease.
type Clock interface {
	Now() uint64
}

// System is the wall clock, clamped so that it never goes backwards.
type System struct {
	last atomic.Uint64
}

func NewSystem() *System {
	return &System{}
}

func (s *System) Now() uint64 {
	now := uint64(time.Now().Unix())
	for {
		last := s.last.Load()
		if now <= last {
			return last
		}
		if s.last.CompareAndSwap(last, now) {
			return now
		}
	}
}

// Manual is a clock advanced explicitly, for tests and replays.
type Manual struct {
	now atomic.Uint64
}

func NewManual(now uint64) *Manual {
	m := &Manual{}
	m.now.Store(now)
	return m
}

func (m *Manual) Now() uint64 {
	return m.now.Load()
}

// Set moves the clock to now, which must not be before the current reading.
func (m *Manual) Set(now uint64) error {
	for {
		cur := m.now.Load()
		if now < cur {
			return errors.Errorf("clock cannot go back from %d to %d", cur, now)
		}
		if m.now.CompareAndSwap(cur, now) {
			return nil
		}
	}
}

// Advance moves the clock forward by d seconds and returns the new reading.
func (m *Manual) Advance(d uint64) uint64 {
	return m.now.Add(d)
}

// CheckDrift queries an NTP server and warns if the local clock is off by more than threshold.
func CheckDrift(server string, threshold time.Duration) (time.Duration, error) {
	resp, err := ntp.Query(server)
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return 0, errors.Wrap(err, "ntp query")
	}
	offset := resp.ClockOffset
	if offset < 0 {
		offset = -offset
	}
	if offset > threshold {
		logger.Warn("clock offset detected", "offset", common.PrettyDuration(resp.ClockOffset))
	}
	return resp.ClockOffset, nil
}
