package readingtime

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestNewSessionStartsAtFullAllowance(t *testing.T) {
	now := time.Now().UnixMilli()
	s := NewSession(now)
	require.Equal(t, now, s.StartTime)
	require.Equal(t, int64(0), s.ElapsedTime)
	require.Equal(t, now, s.LastActiveTime)
	require.Equal(t, Limit.Milliseconds(), s.Remaining())
}

func TestInitializeSessionCreatesWhenAbsent(t *testing.T) {
	now := time.Now().UnixMilli()
	s := InitializeSession(nil, now)
	require.NotNil(t, s)
	require.Equal(t, Limit.Milliseconds(), s.Remaining())
}

func TestInitializeSessionKeepsRecentSession(t *testing.T) {
	now := time.Now().UnixMilli()
	existing := &Session{
		StartTime:      now - 10*60*1000,
		ElapsedTime:    10 * 60 * 1000,
		LastActiveTime: now - 60*1000,
	}
	s := InitializeSession(existing, now)
	require.Same(t, existing, s)
	require.Equal(t, Limit.Milliseconds()-10*60*1000, s.Remaining())
}

func TestInitializeSessionResetsStaleSession(t *testing.T) {
	now := time.Now().UnixMilli()
	stale := &Session{
		StartTime:      now - 48*3600*1000,
		ElapsedTime:    Limit.Milliseconds(),
		LastActiveTime: now - 25*3600*1000,
	}
	s := InitializeSession(stale, now)
	require.NotSame(t, stale, s)
	require.Equal(t, int64(0), s.ElapsedTime)
	require.Equal(t, Limit.Milliseconds(), s.Remaining())
}

func TestStaleBoundary(t *testing.T) {
	now := time.Now().UnixMilli()
	exactly := &Session{LastActiveTime: now - StaleAfter.Milliseconds()}
	require.False(t, exactly.Stale(now))
	over := &Session{LastActiveTime: now - StaleAfter.Milliseconds() - 1}
	require.True(t, over.Stale(now))
}

func TestAdvanceReturnsCopy(t *testing.T) {
	now := time.Now().UnixMilli()
	s := NewSession(now)
	next := Advance(s, now+1000)
	require.Equal(t, int64(0), s.ElapsedTime)
	require.Equal(t, int64(1000), next.ElapsedTime)
	require.Equal(t, now+1000, next.LastActiveTime)
	require.Equal(t, s.StartTime, next.StartTime)
}

func TestFormatRemaining(t *testing.T) {
	cases := []struct {
		ms   int64
		want string
	}{
		{Limit.Milliseconds(), "30:00"},
		{299_000, "4:59"},
		{61_000, "1:01"},
		{59_999, "0:59"},
		{1_000, "0:01"},
		{999, "0:00"},
		{0, "0:00"},
		{-5_000, "0:00"},
	}
	for _, c := range cases {
		require.Equal(t, c.want, FormatRemaining(c.ms), "ms=%d", c.ms)
	}
}

func TestFormatRemainingAlwaysWellFormed(t *testing.T) {
	shape := regexp.MustCompile(`^\d+:[0-5]\d$`)
	rapid.Check(t, func(t *rapid.T) {
		ms := rapid.Int64Range(-Limit.Milliseconds(), 2*Limit.Milliseconds()).Draw(t, "ms")
		require.Regexp(t, shape, FormatRemaining(ms))
	})
}

func TestAdvanceNeverIncreasesRemaining(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		now := rapid.Int64Range(1, 1<<50).Draw(t, "now")
		s := NewSession(now)
		ticks := rapid.IntRange(0, 3000).Draw(t, "ticks")
		prev := s.Remaining()
		for i := 0; i < ticks; i++ {
			now += 1000
			s = Advance(s, now)
			require.Less(t, s.Remaining(), prev)
			prev = s.Remaining()
		}
		require.Equal(t, Limit.Milliseconds()-int64(ticks)*1000, s.Remaining())
	})
}
