package readingtime

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// fixedClock keeps engine tests deterministic. Accrual is tick-driven, so the
// clock only anchors StartTime/LastActiveTime and the stale check.
func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func newTestEngine(store Store, nowMs int64) *Engine {
	e := NewEngine(store)
	e.Now = fixedClock(nowMs)
	return e
}

func TestInitializeCreatesAndPersistsFreshSession(t *testing.T) {
	store := NewMemoryStore()
	e := newTestEngine(store, 1_000_000)

	remaining := e.Initialize()
	require.Equal(t, Limit.Milliseconds(), remaining)
	require.Equal(t, StateRunning, e.State())

	saved, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, saved)
	require.Equal(t, int64(1_000_000), saved.StartTime)
	require.Equal(t, int64(0), saved.ElapsedTime)
}

func TestInitializeIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	e := newTestEngine(store, 1_000_000)

	first := e.Initialize()
	e.Tick()
	second := e.Initialize()
	require.Equal(t, first-1000, second)
	require.Equal(t, StateRunning, e.State())
}

func TestInitializeResumesPersistedSession(t *testing.T) {
	store := NewMemoryStore()
	nowMs := int64(1_000_000)
	require.NoError(t, store.Save(&Session{
		StartTime:      nowMs - 10*60*1000,
		ElapsedTime:    10 * 60 * 1000,
		LastActiveTime: nowMs - 1000,
	}))
	e := newTestEngine(store, nowMs)

	remaining := e.Initialize()
	require.Equal(t, Limit.Milliseconds()-10*60*1000, remaining)
	require.Equal(t, StateRunning, e.State())
}

func TestInitializeResetsStaleSession(t *testing.T) {
	store := NewMemoryStore()
	nowMs := int64(100 * 3600 * 1000)
	require.NoError(t, store.Save(&Session{
		StartTime:      0,
		ElapsedTime:    Limit.Milliseconds(),
		LastActiveTime: nowMs - 25*3600*1000,
	}))
	e := newTestEngine(store, nowMs)

	remaining := e.Initialize()
	require.Equal(t, Limit.Milliseconds(), remaining)
	require.Equal(t, StateRunning, e.State())
}

func TestInitializeExhaustedSessionExpiresImmediately(t *testing.T) {
	store := NewMemoryStore()
	nowMs := int64(1_000_000)
	require.NoError(t, store.Save(&Session{
		StartTime:      nowMs - Limit.Milliseconds(),
		ElapsedTime:    Limit.Milliseconds(),
		LastActiveTime: nowMs - 1000,
	}))
	e := newTestEngine(store, nowMs)

	expired := 0
	e.OnExpired(func() { expired++ })

	require.Equal(t, int64(0), e.Initialize())
	require.Equal(t, StateExpired, e.State())
	require.Equal(t, 1, expired)

	// Further ticks are inert.
	e.Tick()
	require.Equal(t, 1, expired)
	require.Equal(t, int64(0), e.Remaining())
}

func TestTickAccruesOneSecondSteps(t *testing.T) {
	store := NewMemoryStore()
	e := newTestEngine(store, 1_000_000)
	e.Initialize()

	for i := 1; i <= 5; i++ {
		e.Tick()
		require.Equal(t, Limit.Milliseconds()-int64(i)*1000, e.Remaining())
	}

	saved, _ := store.Load()
	require.Equal(t, int64(5000), saved.ElapsedTime)
}

func TestWarningFiresExactlyOnce(t *testing.T) {
	store := NewMemoryStore()
	nowMs := int64(1_000_000)
	require.NoError(t, store.Save(&Session{
		StartTime:      nowMs,
		ElapsedTime:    Limit.Milliseconds() - WarningThreshold.Milliseconds(),
		LastActiveTime: nowMs,
	}))
	e := newTestEngine(store, nowMs)

	var warnings []int64
	e.OnWarning(func(remainingMs int64) { warnings = append(warnings, remainingMs) })
	e.Initialize()

	e.Tick()
	e.Tick()
	e.Tick()
	require.Len(t, warnings, 1)
	require.Equal(t, WarningThreshold.Milliseconds()-1000, warnings[0])
}

func TestExpiresExactlyOnce(t *testing.T) {
	store := NewMemoryStore()
	nowMs := int64(1_000_000)
	require.NoError(t, store.Save(&Session{
		StartTime:      nowMs,
		ElapsedTime:    Limit.Milliseconds() - 2000,
		LastActiveTime: nowMs,
	}))
	e := newTestEngine(store, nowMs)

	expired := 0
	e.OnExpired(func() { expired++ })
	e.Initialize()

	e.Tick()
	require.Equal(t, StateRunning, e.State())
	require.Equal(t, 0, expired)

	e.Tick()
	require.Equal(t, StateExpired, e.State())
	require.Equal(t, 1, expired)

	e.Tick()
	e.Tick()
	require.Equal(t, 1, expired)
	require.Equal(t, int64(0), e.Remaining())
}

func TestPauseStopsAccrual(t *testing.T) {
	store := NewMemoryStore()
	e := newTestEngine(store, 1_000_000)
	e.Initialize()

	e.Tick()
	before := e.Remaining()

	e.Pause()
	e.Tick()
	e.Tick()
	require.Equal(t, before, e.Remaining())

	e.Resume()
	e.Tick()
	require.Equal(t, before-1000, e.Remaining())
}

type failingStore struct{}

func (failingStore) Load() (*Session, error) { return nil, errors.New("storage unavailable") }
func (failingStore) Save(*Session) error     { return errors.New("storage unavailable") }

func TestFailingStoreDegradesToMemory(t *testing.T) {
	e := newTestEngine(failingStore{}, 1_000_000)

	require.Equal(t, Limit.Milliseconds(), e.Initialize())
	require.Equal(t, StateRunning, e.State())

	e.Tick()
	e.Tick()
	require.Equal(t, Limit.Milliseconds()-2000, e.Remaining())
}

func TestRemainingNeverIncreases(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e := newTestEngine(NewMemoryStore(), 1_000_000)
		e.Initialize()
		prev := e.Remaining()
		ops := rapid.SliceOfN(rapid.IntRange(0, 2), 0, 200).Draw(t, "ops")
		for _, op := range ops {
			switch op {
			case 0:
				e.Tick()
			case 1:
				e.Pause()
			case 2:
				e.Resume()
			}
			cur := e.Remaining()
			require.LessOrEqual(t, cur, prev)
			prev = cur
		}
	})
}
