package domain

import (
	"fmt"
	"time"

	brewdomain "brewlog/internal/modules/brew/domain"
	"brewlog/internal/platform/clock"
	apperrors "brewlog/internal/platform/errors"
)

// Timer is the countdown of one brew. While running only EndTime (epoch ms)
// is meaningful; while paused only RemainingSeconds is.
type Timer struct {
	DurationMinutes  int
	Running          bool
	EndTime          int64
	RemainingSeconds int
}

// FromSession reads the persisted timer fields of s. defaultMinutes applies
// only when no duration was ever stored; a stored 0 stays 0.
func FromSession(s brewdomain.Session, defaultMinutes int) Timer {
	t := Timer{DurationMinutes: defaultMinutes}
	if s.TimerDurationMinutes != nil {
		t.DurationMinutes = max(0, *s.TimerDurationMinutes)
	}
	if s.TimerIsRunning && s.TimerEndTime != nil {
		t.Running = true
		t.EndTime = *s.TimerEndTime
		return t
	}
	if s.TimerRemainingSeconds != nil {
		t.RemainingSeconds = max(0, *s.TimerRemainingSeconds)
		return t
	}
	t.RemainingSeconds = t.DurationMinutes * 60
	return t
}

// Apply writes t onto the timer fields of s and leaves every other field alone.
func (t Timer) Apply(s *brewdomain.Session) {
	duration := t.DurationMinutes
	s.TimerDurationMinutes = &duration
	s.TimerIsRunning = t.Running
	if t.Running {
		end := t.EndTime
		s.TimerEndTime = &end
		s.TimerRemainingSeconds = nil
		return
	}
	remaining := t.RemainingSeconds
	s.TimerRemainingSeconds = &remaining
	s.TimerEndTime = nil
}

// Remaining is the whole seconds left at now, never negative.
func (t Timer) Remaining(now time.Time) int {
	if !t.Running {
		return max(0, t.RemainingSeconds)
	}
	ms := t.EndTime - clock.Millis(now)
	if ms <= 0 {
		return 0
	}
	return int(ms / 1000)
}

func (t Timer) Expired(now time.Time) bool {
	return t.Remaining(now) == 0
}

// Start resumes from the remaining seconds. Starting a running timer is a no-op.
func (t Timer) Start(now time.Time) (Timer, error) {
	if t.Running {
		return t, nil
	}
	if t.RemainingSeconds <= 0 {
		return t, apperrors.ErrTimerExpired
	}
	t.Running = true
	t.EndTime = clock.Millis(now) + int64(t.RemainingSeconds)*1000
	t.RemainingSeconds = 0
	return t, nil
}

// Pause freezes the countdown. Pausing a paused timer is a no-op.
func (t Timer) Pause(now time.Time) Timer {
	if !t.Running {
		return t
	}
	t.RemainingSeconds = t.Remaining(now)
	t.Running = false
	t.EndTime = 0
	return t
}

// Reset stops the timer at its full duration.
func (t Timer) Reset() Timer {
	t.Running = false
	t.EndTime = 0
	t.RemainingSeconds = t.DurationMinutes * 60
	return t
}

// SetDuration changes the configured length and resets the countdown to it.
// It is refused while running.
func (t Timer) SetDuration(minutes int) (Timer, error) {
	if t.Running {
		return t, apperrors.ErrTimerRunning
	}
	t.DurationMinutes = max(0, minutes)
	t.RemainingSeconds = t.DurationMinutes * 60
	return t, nil
}

// Tick reconciles a running timer with the wall clock. A timer whose end time
// has passed becomes paused at zero and expired reports true.
func (t Timer) Tick(now time.Time) (next Timer, expired bool) {
	if !t.Running || t.Remaining(now) > 0 {
		return t, false
	}
	t.Running = false
	t.EndTime = 0
	t.RemainingSeconds = 0
	return t, true
}

// CoerceMinutes parses a duration entry leniently: "45" and "45min" give 45,
// anything unparseable or negative gives 0.
func CoerceMinutes(raw string) int {
	return max(0, brewdomain.LeadingInt(raw))
}

// Format renders seconds as MM:SS; minutes are not wrapped into hours.
func Format(seconds int) string {
	seconds = max(0, seconds)
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Snapshot is the timer of one brew as observed at a given instant.
type Snapshot struct {
	SessionID string
	Phase     brewdomain.Phase
	Timer     Timer
	Remaining int
	Expired   bool
	At        time.Time
}

func Observe(s brewdomain.Session, t Timer, now time.Time) Snapshot {
	remaining := t.Remaining(now)
	return Snapshot{
		SessionID: s.ID,
		Phase:     s.CurrentPhase,
		Timer:     t,
		Remaining: remaining,
		Expired:   remaining == 0,
		At:        now,
	}
}

// Visible reports whether the timer should be offered in the brew view.
func (s Snapshot) Visible() bool {
	return s.Timer.Running || s.Phase.TimerVisible()
}
