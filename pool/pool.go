// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package pool serializes pool operations over the durable store. Each
// operation runs on a fresh state that is committed only when it succeeds.
package pool

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common/mclock"
	"github.com/ethereum/go-ethereum/event"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/clock"
	"github.com/vechain/stakepool/core"
	"github.com/vechain/stakepool/genesis"
	"github.com/vechain/stakepool/kv"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/logdb"
	"github.com/vechain/stakepool/staking"
	"github.com/vechain/stakepool/staking/reverts"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/token"
)

var (
	logger = log.WithContext("pkg", "pool")

	metaBucket    = kv.Bucket("m")
	genesisKey    = []byte("genesis")
	errNotStarted = errors.New("pool not initialized")

	// ErrUnknownToken is returned for token operations on a token the pool does not use.
	ErrUnknownToken = errors.New("unknown token")
	// ErrGenesisMismatch is returned when the store was initialized with another genesis.
	ErrGenesisMismatch = errors.New("genesis mismatch")
)

// Options for the pool.
type Options struct {
	CacheSize int
}

// Receipt describes a committed operation.
type Receipt struct {
	Time   uint64
	Events []*logdb.Event
}

// Pool is the single writer of the pool state.
type Pool struct {
	mu        sync.Mutex
	meta      kv.Store
	stater    *state.Stater
	logDB     *logdb.LogDB
	clock     clock.Clock
	genesisID core.Bytes32
	started   bool

	feed    event.Feed
	scope   event.SubscriptionScope
	pubMu   sync.Mutex
	pending []*logdb.Event
	wake    chan struct{}
	done    chan struct{}
	wg      sync.WaitGroup
}

// New creates a pool over db. Initialize must be called before any operation.
func New(db kv.Store, logDB *logdb.LogDB, clk clock.Clock, opts Options) *Pool {
	p := &Pool{
		meta:   metaBucket.NewStore(db),
		stater: state.NewStater(db, opts.CacheSize),
		logDB:  logDB,
		clock:  clk,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.publishLoop()
	}()
	return p
}

// Initialize seeds the store with gen. Re-opening a store initialized with the
// same genesis is a no-op.
func (p *Pool) Initialize(gen *genesis.Genesis) (core.Bytes32, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id, err := gen.ID()
	if err != nil {
		return core.Bytes32{}, err
	}

	stored, err := p.meta.Get(genesisKey)
	if err != nil && !p.meta.IsNotFound(err) {
		return core.Bytes32{}, errors.Wrap(err, "read genesis id")
	}
	if err == nil {
		if core.BytesToBytes32(stored) != id {
			return core.Bytes32{}, errors.WithMessagef(ErrGenesisMismatch, "want %v, stored %v", id, core.BytesToBytes32(stored))
		}
		logger.Info("pool opened", "genesis", id.AbbrevString())
	} else {
		if _, err := gen.Builder().Build(p.stater); err != nil {
			return core.Bytes32{}, err
		}
		if err := p.meta.Put(genesisKey, id.Bytes()); err != nil {
			return core.Bytes32{}, errors.Wrap(err, "save genesis id")
		}
		logger.Info("pool initialized", "genesis", id.AbbrevString())
	}

	p.genesisID = id
	p.started = true
	return id, nil
}

// GenesisID returns the id of the genesis the pool was initialized with.
func (p *Pool) GenesisID() core.Bytes32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.genesisID
}

// Clock returns the time source of the pool.
func (p *Pool) Clock() clock.Clock {
	return p.clock
}

// Stater returns the stater over the pool store.
func (p *Pool) Stater() *state.Stater {
	return p.stater
}

// LogDB returns the event history.
func (p *Pool) LogDB() *logdb.LogDB {
	return p.logDB
}

// SubscribeEvents delivers every committed event to ch, in commit order.
// Delivery runs apart from operations: a slow receiver delays later events
// but never an operation.
func (p *Pool) SubscribeEvents(ch chan<- *logdb.Event) event.Subscription {
	return p.scope.Track(p.feed.Subscribe(ch))
}

// Close unsubscribes all event receivers and stops delivery.
func (p *Pool) Close() {
	p.scope.Close()
	close(p.done)
	p.wg.Wait()
	logger.Debug("closed")
}

// publish queues events for delivery. It never blocks.
func (p *Pool) publish(events []*logdb.Event) {
	if len(events) == 0 {
		return
	}
	p.pubMu.Lock()
	p.pending = append(p.pending, events...)
	p.pubMu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *Pool) publishLoop() {
	for {
		select {
		case <-p.done:
			return
		case <-p.wake:
		}

		p.pubMu.Lock()
		events := p.pending
		p.pending = nil
		p.pubMu.Unlock()

		for _, ev := range events {
			p.feed.Send(ev)
		}
	}
}

// Stake moves amount of the staking token from caller into the pool.
func (p *Pool) Stake(ctx context.Context, caller core.Address, amount *uint256.Int) (*Receipt, error) {
	return p.exec(ctx, "stake", func(s *staking.Staking, _ *state.State, now uint64) error {
		return s.Stake(caller, amount, now)
	})
}

// Withdraw returns amount of staked tokens to caller.
func (p *Pool) Withdraw(ctx context.Context, caller core.Address, amount *uint256.Int) (*Receipt, error) {
	return p.exec(ctx, "withdraw", func(s *staking.Staking, _ *state.State, now uint64) error {
		return s.Withdraw(caller, amount, now)
	})
}

// GetReward pays out the accrued reward of caller.
func (p *Pool) GetReward(ctx context.Context, caller core.Address) (*Receipt, error) {
	return p.exec(ctx, "reward", func(s *staking.Staking, _ *state.State, now uint64) error {
		return s.GetReward(caller, now)
	})
}

// Exit withdraws everything caller staked and pays out its reward.
func (p *Pool) Exit(ctx context.Context, caller core.Address) (*Receipt, error) {
	return p.exec(ctx, "exit", func(s *staking.Staking, _ *state.State, now uint64) error {
		return s.Exit(caller, now)
	})
}

// SetRewardsDuration sets the duration of the next emission period.
func (p *Pool) SetRewardsDuration(ctx context.Context, caller core.Address, duration uint64) (*Receipt, error) {
	return p.exec(ctx, "duration", func(s *staking.Staking, _ *state.State, now uint64) error {
		return s.SetRewardsDuration(caller, duration, now)
	})
}

// NotifyRewardAmount starts or extends the emission with amount reward tokens.
func (p *Pool) NotifyRewardAmount(ctx context.Context, caller core.Address, amount *uint256.Int) (*Receipt, error) {
	return p.exec(ctx, "notify", func(s *staking.Staking, _ *state.State, now uint64) error {
		return s.NotifyRewardAmount(caller, amount, now)
	})
}

// Approve lets spender move up to amount of tok held by owner.
func (p *Pool) Approve(ctx context.Context, tok, owner, spender core.Address, amount *uint256.Int) (*Receipt, error) {
	return p.exec(ctx, "approve", func(s *staking.Staking, st *state.State, _ uint64) error {
		t, err := p.token(s, st, tok)
		if err != nil {
			return err
		}
		return t.Approve(owner, spender, amount)
	})
}

// Transfer moves amount of tok from one holder to another.
func (p *Pool) Transfer(ctx context.Context, tok, from, to core.Address, amount *uint256.Int) (*Receipt, error) {
	return p.exec(ctx, "transfer", func(s *staking.Staking, st *state.State, _ uint64) error {
		t, err := p.token(s, st, tok)
		if err != nil {
			return err
		}
		return t.Transfer(from, to, amount)
	})
}

func (p *Pool) token(s *staking.Staking, st *state.State, addr core.Address) (*token.Token, error) {
	stakingToken, err := s.StakingToken()
	if err != nil {
		return nil, err
	}
	rewardsToken, err := s.RewardsToken()
	if err != nil {
		return nil, err
	}
	if addr != stakingToken && addr != rewardsToken {
		return nil, errors.WithMessage(ErrUnknownToken, addr.String())
	}
	return token.New(addr, st), nil
}

// exec runs op on a fresh state and commits it if op succeeds.
// The clock is read once, so every step of op sees the same time.
func (p *Pool) exec(ctx context.Context, name string, op func(s *staking.Staking, st *state.State, now uint64) error) (receipt *Receipt, err error) {
	startTime := mclock.Now()
	defer func() {
		metricsHandleOp(name, startTime, err)
	}()

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return nil, errNotStarted
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := p.clock.Now()
	st := p.stater.NewState()
	s := staking.New(core.PoolAddress, st)

	if err := op(s, st, now); err != nil {
		if reverts.IsRevertErr(err) || errors.Is(err, ErrUnknownToken) {
			logger.Debug("operation rejected", "op", name, "now", now, "err", err)
		} else {
			logger.Error("operation failed", "op", name, "now", now, "err", err)
		}
		return nil, err
	}

	stage := st.Stage()
	if err := stage.Commit(); err != nil {
		logger.Error("failed to commit", "op", name, "err", err)
		return nil, errors.Wrap(err, "commit")
	}

	events := make([]*logdb.Event, 0, len(s.Events()))
	for _, ev := range s.Events() {
		events = append(events, &logdb.Event{
			Time:    ev.Time,
			Kind:    string(ev.Kind),
			Account: ev.Account,
			Amount:  ev.Amount,
		})
	}
	// state is already durable; a history failure must not fail the operation
	if err := p.logDB.Insert(ctx, events); err != nil {
		logger.Error("failed to write events", "op", name, "err", err)
	}
	p.publish(events)

	logger.Debug("operation committed", "op", name, "now", now, "changes", stage.Len(), "events", len(events))
	metricsHandleGauges(s)
	metricsHandleCache(p.stater)
	return &Receipt{Time: now, Events: events}, nil
}
