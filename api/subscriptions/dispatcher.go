// Copyright (c) 2023 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"sync"

	"github.com/vechain/stakepool/logdb"
	"github.com/vechain/stakepool/pool"
)

// dispatcher fans committed pool events out to websocket listeners.
type dispatcher struct {
	listeners map[chan *logdb.Event]struct{}
	mu        sync.Mutex
}

func newDispatcher() *dispatcher {
	return &dispatcher{
		listeners: make(map[chan *logdb.Event]struct{}),
	}
}

func (d *dispatcher) subscribe(ch chan *logdb.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.listeners[ch] = struct{}{}
}

func (d *dispatcher) unsubscribe(ch chan *logdb.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.listeners, ch)
}

func (d *dispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.listeners)
}

// loop forwards pool events until done is closed. ready is closed once the
// pool subscription is in place.
func (d *dispatcher) loop(p *pool.Pool, ready chan<- struct{}, done <-chan struct{}) {
	evCh := make(chan *logdb.Event, listenerBuffer)
	sub := p.SubscribeEvents(evCh)
	defer sub.Unsubscribe()
	close(ready)

	for {
		select {
		case ev := <-evCh:
			d.broadcast(ev)
		case <-sub.Err():
			return
		case <-done:
			return
		}
	}
}

// broadcast never blocks the pool: a listener whose buffer is full is dropped
// and its channel closed.
func (d *dispatcher) broadcast(ev *logdb.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for lsn := range d.listeners {
		select {
		case lsn <- ev:
		default:
			delete(d.listeners, lsn)
			close(lsn)
		}
	}
}
