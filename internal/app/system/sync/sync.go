// internal/app/system/sync/sync.go

// Package sync owns the canonical in-memory projections of the store's
// live feeds. A Synchronizer subscribes to a snapshot feed, applies each
// full snapshot atomically, and fans it out to registered consumers.
// Consumers never see a partially applied update and never receive a
// notification after they (or the synchronizer) have unsubscribed.
package sync

import (
	"sync"

	"go.uber.org/zap"

	"github.com/plantfloor/sparetrack/internal/app/system/apperr"
)

// State is the lifecycle of a subscription.
type State int

const (
	// StateUnsubscribed: no feed attached; no canonical data.
	StateUnsubscribed State = iota
	// StateSubscribing: feed attached, first snapshot not yet received.
	// Consumers should render a loading state.
	StateSubscribing
	// StateLive: canonical data reflects the last applied snapshot.
	StateLive
	// StateError: the feed reported an error. The last good canonical
	// data is preserved; consumers should show a staleness indicator.
	StateError
)

func (s State) String() string {
	switch s {
	case StateSubscribing:
		return "subscribing"
	case StateLive:
		return "live"
	case StateError:
		return "error"
	default:
		return "unsubscribed"
	}
}

// Feed attaches snapshot/error callbacks to an upstream source and
// returns a stop function. The store watch functions satisfy this shape.
type Feed[T any] func(onSnapshot func(T), onErr func(error)) (stop func())

// Consumer receives canonical updates. OnSnapshot is called with a copy
// the consumer must treat as read-only; OnError carries the sticky feed
// error (the last good snapshot remains available via Snapshot).
type Consumer[T any] struct {
	OnSnapshot func(T)
	OnError    func(error)
}

// Synchronizer owns one canonical value of type T and republishes it to
// consumers. All mutation happens under s.mu; consumer callbacks run
// outside the lock with an already-copied value.
type Synchronizer[T any] struct {
	log   *zap.Logger
	clone func(T) T

	// deliverMu serializes whole deliveries (apply + fan-out) so two
	// rapid snapshots cannot reach consumers out of order. mu guards the
	// fields below and is never held across a consumer callback.
	deliverMu sync.Mutex

	mu         sync.Mutex
	state      State
	generation uint64 // bumped by Stop; in-flight deliveries check it
	nextSeq    uint64 // assigned on receipt
	appliedSeq uint64 // highest applied; lower sequences are stale
	canonical  T
	lastErr    error
	consumers  map[int]Consumer[T]
	nextID     int
	stopFeed   func()
}

// New creates a Synchronizer. clone must return an independent copy of a
// value so consumers cannot alias the canonical state; for plain value
// types it can be the identity function.
func New[T any](log *zap.Logger, clone func(T) T) *Synchronizer[T] {
	return &Synchronizer[T]{
		log:       log,
		clone:     clone,
		consumers: make(map[int]Consumer[T]),
	}
}

// Start attaches the feed and moves to StateSubscribing. Starting an
// already started synchronizer is rejected; the caller owns exactly one
// active subscription per logical feed.
func (s *Synchronizer[T]) Start(feed Feed[T]) error {
	s.mu.Lock()
	if s.state != StateUnsubscribed {
		s.mu.Unlock()
		return apperr.Validation("synchronizer already started")
	}
	s.state = StateSubscribing
	gen := s.generation
	s.mu.Unlock()

	stop := feed(
		func(snapshot T) { s.deliver(gen, snapshot) },
		func(err error) { s.fail(gen, err) },
	)

	s.mu.Lock()
	if s.generation != gen {
		// Stopped while the feed was being attached.
		s.mu.Unlock()
		stop()
		return nil
	}
	s.stopFeed = stop
	s.mu.Unlock()
	return nil
}

// deliver applies one snapshot in receipt order and notifies consumers.
// Snapshots arriving for an old generation (after Stop) or with a lower
// sequence than one already applied are dropped.
func (s *Synchronizer[T]) deliver(gen uint64, snapshot T) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		return
	}
	s.nextSeq++
	seq := s.nextSeq
	if seq <= s.appliedSeq {
		s.mu.Unlock()
		return
	}
	s.appliedSeq = seq
	s.canonical = snapshot
	s.state = StateLive
	s.lastErr = nil

	out := s.clone(snapshot)
	targets := make([]Consumer[T], 0, len(s.consumers))
	for _, c := range s.consumers {
		targets = append(targets, c)
	}
	s.mu.Unlock()

	// One synchronous pass; every consumer sees the same applied value.
	for _, c := range targets {
		if c.OnSnapshot != nil {
			c.OnSnapshot(out)
		}
	}
}

// fail records a sticky feed error without discarding canonical data.
func (s *Synchronizer[T]) fail(gen uint64, err error) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		return
	}
	s.state = StateError
	s.lastErr = err
	targets := make([]Consumer[T], 0, len(s.consumers))
	for _, c := range s.consumers {
		targets = append(targets, c)
	}
	s.mu.Unlock()

	if s.log != nil {
		s.log.Warn("live feed error; keeping last good snapshot", zap.Error(err))
	}
	for _, c := range targets {
		if c.OnError != nil {
			c.OnError(err)
		}
	}
}

// Subscribe registers a consumer and returns its cancel function. If the
// synchronizer is already live the consumer immediately receives the
// current canonical value, so late subscribers do not wait for the next
// store change.
func (s *Synchronizer[T]) Subscribe(c Consumer[T]) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.consumers[id] = c
	live := s.state == StateLive
	var out T
	if live {
		out = s.clone(s.canonical)
	}
	s.mu.Unlock()

	if live && c.OnSnapshot != nil {
		c.OnSnapshot(out)
	}

	return func() {
		s.mu.Lock()
		delete(s.consumers, id)
		s.mu.Unlock()
	}
}

// Stop tears the subscription down. It is idempotent and detaches the
// feed; snapshots arriving after it returns are dropped and never touch
// canonical state. A fan-out that already passed its generation check
// may still finish delivering.
func (s *Synchronizer[T]) Stop() {
	s.mu.Lock()
	if s.state == StateUnsubscribed {
		s.mu.Unlock()
		return
	}
	s.generation++
	s.state = StateUnsubscribed
	stop := s.stopFeed
	s.stopFeed = nil
	s.mu.Unlock()

	if stop != nil {
		stop()
	}
}

// State returns the current lifecycle state.
func (s *Synchronizer[T]) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot returns a copy of the canonical value and whether a snapshot
// has been applied. During StateError the last good value is returned.
func (s *Synchronizer[T]) Snapshot() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	if s.appliedSeq == 0 {
		return zero, false
	}
	return s.clone(s.canonical), true
}

// Err returns the sticky feed error, or nil when the feed is healthy.
func (s *Synchronizer[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
