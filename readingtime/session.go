package readingtime

import (
	"fmt"
	"time"
)

const (
	// Limit is the free reading allowance shared by the whole site.
	Limit = 30 * time.Minute
	// WarningThreshold is the remaining time under which the low-time
	// warning becomes due.
	WarningThreshold = 5 * time.Minute
	// StaleAfter is the inactivity window after which a persisted session
	// is discarded and a fresh one created.
	StaleAfter = 24 * time.Hour
	// TickInterval is the accrual resolution.
	TickInterval = time.Second
	// tickStepMs is added to ElapsedTime on every tick.
	tickStepMs = int64(1000)
)

// Session is the persisted free-reading clock. All fields are milliseconds
// (epoch ms for the instants) so the wire shape stays
// {"startTime","elapsedTime","lastActiveTime"} across clients.
type Session struct {
	StartTime      int64 `json:"startTime"`
	ElapsedTime    int64 `json:"elapsedTime"`
	LastActiveTime int64 `json:"lastActiveTime"`
}

// NewSession returns a zeroed session anchored at now (epoch ms).
func NewSession(nowMs int64) *Session {
	return &Session{StartTime: nowMs, ElapsedTime: 0, LastActiveTime: nowMs}
}

// Remaining returns the milliseconds of free reading left. May be negative
// for a corrupted/over-counted record; callers clamp.
func (s *Session) Remaining() int64 {
	return Limit.Milliseconds() - s.ElapsedTime
}

// Stale reports whether the session has been inactive for more than 24 hours.
func (s *Session) Stale(nowMs int64) bool {
	return nowMs-s.LastActiveTime > StaleAfter.Milliseconds()
}

// InitializeSession applies the load-or-create rule: a missing or stale
// session yields a fresh one, anything else is kept as-is.
func InitializeSession(existing *Session, nowMs int64) *Session {
	if existing == nil || existing.Stale(nowMs) {
		return NewSession(nowMs)
	}
	return existing
}

// Advance applies one tick: 1000 ms of accrual and a touch of the activity
// instant. Returns a copy; the caller decides whether to persist it.
func Advance(s *Session, nowMs int64) *Session {
	next := *s
	next.ElapsedTime += tickStepMs
	next.LastActiveTime = nowMs
	return &next
}

// FormatRemaining renders milliseconds as "M:SS", flooring to whole seconds
// and clamping negatives to 0:00.
func FormatRemaining(ms int64) string {
	totalSeconds := ms / 1000
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	return fmt.Sprintf("%d:%02d", totalSeconds/60, totalSeconds%60)
}
