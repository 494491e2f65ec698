package brew

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	brewdto "brewlog/internal/modules/brew/dto"
	timerdto "brewlog/internal/modules/timer/dto"
)

type stubPort struct{}

func (stubPort) Get(context.Context, string) (brewdto.SessionOutput, error) {
	return brewdto.SessionOutput{}, nil
}

func (stubPort) Save(context.Context, string, string, map[string]string) (brewdto.SessionOutput, error) {
	return brewdto.SessionOutput{}, nil
}

func (stubPort) Advance(context.Context, string, string, map[string]string) (brewdto.TransitionOutput, error) {
	return brewdto.TransitionOutput{}, nil
}

func (stubPort) Retreat(context.Context, string, string, map[string]string) (brewdto.TransitionOutput, error) {
	return brewdto.TransitionOutput{}, nil
}

type stubTimer struct{}

func (stubTimer) Status(context.Context, string) (timerdto.StatusOutput, error) {
	return timerdto.StatusOutput{}, nil
}

func (stubTimer) Toggle(context.Context, string) (timerdto.StatusOutput, error) {
	return timerdto.StatusOutput{}, nil
}

func (stubTimer) Reset(context.Context, string) (timerdto.StatusOutput, error) {
	return timerdto.StatusOutput{}, nil
}

func (stubTimer) SetDuration(context.Context, string, string) (timerdto.StatusOutput, error) {
	return timerdto.StatusOutput{}, nil
}

func (stubTimer) Tick(context.Context, string) (timerdto.StatusOutput, error) {
	return timerdto.StatusOutput{}, nil
}

// schedulesTick runs cmd, expanding batches, and reports whether a tick for
// gen comes out of it.
func schedulesTick(cmd tea.Cmd, gen int) bool {
	if cmd == nil {
		return false
	}
	switch msg := cmd().(type) {
	case tickMsg:
		return msg.gen == gen
	case tea.BatchMsg:
		for _, c := range msg {
			if schedulesTick(c, gen) {
				return true
			}
		}
	}
	return false
}

func TestFailedTickKeepsRunningTimerPolling(t *testing.T) {
	t.Parallel()
	m := New(stubPort{}, stubTimer{}, time.Millisecond)
	m.Open("brew-1")

	running := timerdto.StatusOutput{SessionID: "brew-1", Running: true, RemainingSeconds: 90}
	m, cmd := m.Update(TimerMsg{SessionID: "brew-1", Out: running})
	if !schedulesTick(cmd, m.gen) {
		t.Fatalf("running timer should schedule a tick")
	}

	m, _ = m.Update(tickMsg{gen: m.gen})
	if m.ticking {
		t.Fatalf("tick in flight should clear the schedule flag")
	}
	m, cmd = m.Update(TimerMsg{SessionID: "brew-1", Err: errors.New("database is locked")})
	if !schedulesTick(cmd, m.gen) {
		t.Fatalf("a failed tick must not stop the countdown")
	}
	if !m.ticking {
		t.Fatalf("tick should be marked scheduled again")
	}
}

func TestFailedCommandOnPausedTimerDoesNotPoll(t *testing.T) {
	t.Parallel()
	m := New(stubPort{}, stubTimer{}, time.Millisecond)
	m.Open("brew-1")
	m, cmd := m.Update(TimerMsg{SessionID: "brew-1", Err: errors.New("timer expired")})
	if schedulesTick(cmd, m.gen) || m.ticking {
		t.Fatalf("paused timer must not start polling on error")
	}
}
