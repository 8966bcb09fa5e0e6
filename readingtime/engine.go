package readingtime

import (
	"context"
	"log"
	"sync"
	"time"
)

// State of the engine. Expired is terminal for the session's lifetime; the
// only way out is the 24-hour stale reset applied by the next Initialize.
type State int

const (
	StateUninitialized State = iota
	StateRunning
	StateExpired
)

// Engine owns the only mutable reference to the reading session within a
// browsing context. UI elements observe it through the callbacks and the
// Remaining accessor; they never touch the persisted record directly.
//
// Storage failures are swallowed: the engine degrades to in-memory timing
// for the current page view and must never crash the host.
type Engine struct {
	store Store

	// Now is the clock; overridable in tests.
	Now func() time.Time

	mu          sync.Mutex
	state       State
	paused      bool
	warned      bool
	expiredSent bool
	session     *Session
	remaining   int64

	onWarning func(remainingMs int64)
	onExpired func()
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store, Now: time.Now}
}

// OnWarning registers the low-time callback. Raised at most once per session
// even though the threshold holds across many consecutive ticks.
// Callbacks run synchronously on the ticking goroutine and must not
// re-enter the engine.
func (e *Engine) OnWarning(fn func(remainingMs int64)) { e.onWarning = fn }

// OnExpired registers the expiration callback, fired exactly once.
func (e *Engine) OnExpired(fn func()) { e.onExpired = fn }

// Initialize loads or creates the session and returns the remaining
// milliseconds. Idempotent: a second call returns the current remaining
// without re-reading the store. May synchronously signal expiration when the
// persisted session is already over the limit; Running is never entered in
// that case.
func (e *Engine) Initialize() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateUninitialized {
		if e.remaining < 0 {
			return 0
		}
		return e.remaining
	}

	nowMs := e.Now().UnixMilli()
	loaded, err := e.store.Load()
	if err != nil {
		log.Printf("[READING][init] store read failed, continuing in memory: %v", err)
		loaded = nil
	}
	sess := InitializeSession(loaded, nowMs)
	if sess != loaded {
		e.persist(sess)
	}
	e.session = sess
	e.remaining = sess.Remaining()

	if e.remaining <= 0 {
		e.state = StateExpired
		e.fireExpired()
		return 0
	}
	e.state = StateRunning
	return e.remaining
}

// Tick advances the clock by one interval. Only effective while Running and
// Active; a paused or expired engine ignores it. Each tick re-reads the
// store so multiple tabs sharing the key converge on last-write-wins.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateRunning || e.paused {
		return
	}

	nowMs := e.Now().UnixMilli()
	current, err := e.store.Load()
	if err != nil || current == nil {
		// Degraded: fall back to the in-memory copy.
		current = e.session
	}

	next := Advance(current, nowMs)
	e.persist(next)
	e.session = next
	e.remaining = next.Remaining()

	if e.remaining <= WarningThreshold.Milliseconds() && e.remaining > 0 && !e.warned {
		e.warned = true
		if e.onWarning != nil {
			e.onWarning(e.remaining)
		}
	}
	if e.remaining <= 0 {
		e.state = StateExpired
		e.fireExpired()
	}
}

// Pause stops accrual and persistence, driven by page visibility.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paused = true
}

// Resume re-enables accrual.
func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paused = false
}

// Run drives the engine at 1 Hz until the context is cancelled or the
// session expires. Ticks are best-effort: a busy scheduler may skip or delay
// them, which is acceptable.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.Tick()
			if e.State() == StateExpired {
				return
			}
		}
	}
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Remaining returns the milliseconds left, clamped to zero.
func (e *Engine) Remaining() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.remaining < 0 {
		return 0
	}
	return e.remaining
}

func (e *Engine) persist(s *Session) {
	if err := e.store.Save(s); err != nil {
		log.Printf("[READING][persist] store write failed, continuing in memory: %v", err)
	}
}

// fireExpired must be called with the lock held.
func (e *Engine) fireExpired() {
	if e.expiredSent {
		return
	}
	e.expiredSent = true
	if e.onExpired != nil {
		e.onExpired()
	}
}
