// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"

	"github.com/vechain/stakepool/core"
	"github.com/vechain/stakepool/logdb"
)

func TestDispatcherDropsSlowListener(t *testing.T) {
	d := newDispatcher()

	fast := make(chan *logdb.Event, 2)
	slow := make(chan *logdb.Event, 1)
	d.subscribe(fast)
	d.subscribe(slow)
	assert.Equal(t, 2, d.count())

	ev := &logdb.Event{Seq: 1, Kind: "Staked", Amount: uint256.NewInt(1)}
	d.broadcast(ev)
	d.broadcast(ev)

	assert.Equal(t, 1, d.count())
	assert.Len(t, fast, 2)

	<-slow
	_, ok := <-slow
	assert.False(t, ok, "slow listener should be closed")

	// unsubscribing a dropped listener is harmless
	d.unsubscribe(slow)
	d.unsubscribe(fast)
	assert.Equal(t, 0, d.count())
}

func TestFilterMatch(t *testing.T) {
	var alice, bob core.Address
	alice[19] = 1
	bob[19] = 2

	ev := &logdb.Event{Kind: "Staked", Account: alice}

	assert.True(t, (&filter{}).match(ev))
	assert.True(t, (&filter{account: &alice, kind: "Staked"}).match(ev))
	assert.False(t, (&filter{account: &bob}).match(ev))
	assert.False(t, (&filter{kind: "Withdrawn"}).match(ev))
}
