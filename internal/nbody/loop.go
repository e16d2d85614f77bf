package nbody

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Observer is notified after every committed tick.
type Observer interface {
	OnTick(s *State)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(s *State)

func (f ObserverFunc) OnTick(s *State) { f(s) }

type mutation func(*State) (*State, error)

// Loop drives a State one tick per frame. Mass and count changes from other
// goroutines are queued and applied at the next tick boundary, so a tick
// always runs on a state nobody else is writing.
//
// A tick that fails freezes the loop: later frames are ignored until the
// state is replaced or Resume is called.
type Loop struct {
	mu        sync.Mutex
	state     *State
	pending   []mutation
	observers []Observer
	frozen    bool
	lastErr   error
	logger    *log.Logger
}

// NewLoop wraps s. A nil logger discards output.
func NewLoop(s *State, logger *log.Logger) *Loop {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Loop{state: s, logger: logger}
}

func (l *Loop) AddObserver(o Observer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observers = append(l.observers, o)
}

// State returns the current state. Callers must not write to it while the
// loop is running.
func (l *Loop) State() *State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *Loop) Frozen() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frozen
}

// Err returns the error that froze the loop, if any.
func (l *Loop) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

// Resume clears a freeze without touching the state.
func (l *Loop) Resume() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.frozen = false
	l.lastErr = nil
}

// SetMass queues a mass change for body index.
func (l *Loop) SetMass(index int, mass float64) {
	l.enqueue(func(s *State) (*State, error) {
		return s, SetMass(s, index, mass)
	})
}

// Replace queues a whole new state, used when the body count changes.
func (l *Loop) Replace(s *State) {
	l.enqueue(func(*State) (*State, error) {
		return s, nil
	})
}

func (l *Loop) enqueue(m mutation) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending = append(l.pending, m)
}

// Flush applies queued mutations in order. Mutations that fail are dropped
// and their errors joined.
func (l *Loop) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.flushLocked()
}

func (l *Loop) flushLocked() error {
	if len(l.pending) == 0 {
		return nil
	}
	var errs []error
	for _, m := range l.pending {
		next, err := m(l.state)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if next != l.state {
			l.state = next
			l.frozen = false
			l.lastErr = nil
		}
	}
	l.pending = l.pending[:0]
	return errors.Join(errs...)
}

// Tick applies queued mutations, then advances the state once and notifies
// observers. It does nothing while the loop is frozen.
func (l *Loop) Tick() error {
	l.mu.Lock()
	if err := l.flushLocked(); err != nil {
		l.logger.Warn("mutation rejected", "err", err)
	}
	if l.frozen || l.state == nil {
		l.mu.Unlock()
		return nil
	}
	s := l.state
	if err := Step(s); err != nil {
		l.frozen = true
		l.lastErr = err
		l.mu.Unlock()
		l.logger.Error("simulation frozen", "tick", s.Tick, "err", err)
		return err
	}
	observers := append([]Observer(nil), l.observers...)
	l.mu.Unlock()

	for _, o := range observers {
		o.OnTick(s)
	}
	return nil
}

// Run ticks once per value received on frames until ctx is done or frames
// is closed. Cancellation is only observed between ticks. A failed tick
// freezes the loop but does not end Run.
func (l *Loop) Run(ctx context.Context, frames <-chan time.Time) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-frames:
			if !ok {
				return nil
			}
			_ = l.Tick()
		}
	}
}
