package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	brewstore "brewlog/internal/modules/brew/adapter/out"
	brewdomain "brewlog/internal/modules/brew/domain"
	brewout "brewlog/internal/modules/brew/port/out"
	timerdto "brewlog/internal/modules/timer/dto"
	timerin "brewlog/internal/modules/timer/port/in"
	"brewlog/internal/modules/timer/service"
	"brewlog/internal/modules/timer/usecase"
	apperrors "brewlog/internal/platform/errors"
	"brewlog/internal/platform/tx"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Set(ms int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = time.UnixMilli(ms).UTC()
}

func setup(t *testing.T, interval time.Duration) (timerin.Usecase, brewout.SessionRepository, *manualClock) {
	t.Helper()
	clk := &manualClock{}
	repo := brewstore.NewCollectionRepository(brewstore.NewMemoryKVStore(), tx.NewMutexManager(), clk, hclog.NewNullLogger())
	s, err := brewdomain.NewSession("brew-1", "Sunday Stout", "Irish Dry Stout", time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := repo.Upsert(context.Background(), s); err != nil {
		t.Fatalf("seed: %v", err)
	}
	svc := service.NewTimerService(clk, repo, 60, interval, hclog.NewNullLogger())
	return usecase.NewInteractor(svc), repo, clk
}

func TestTimerLifecyclePersistsThroughRepository(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc, repo, clk := setup(t, time.Second)

	if _, err := uc.SetDuration(ctx, timerdto.DurationInput{SessionID: "brew-1", Minutes: "1"}); err != nil {
		t.Fatalf("set duration: %v", err)
	}
	clk.Set(1_000_000)
	started, err := uc.Start(ctx, "brew-1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if started.EndTime != 1_060_000 || !started.Running || started.Display != "01:00" {
		t.Fatalf("unexpected start output %+v", started)
	}

	clk.Set(1_040_000)
	status, err := uc.Status(ctx, "brew-1")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.RemainingSeconds != 20 || !status.Running {
		t.Fatalf("expected 20 seconds running, got %+v", status)
	}

	clk.Set(1_025_000)
	paused, err := uc.Pause(ctx, "brew-1")
	if err != nil {
		t.Fatalf("pause: %v", err)
	}
	if paused.RemainingSeconds != 35 || paused.Running || paused.EndTime != 0 {
		t.Fatalf("expected paused at 35, got %+v", paused)
	}
	stored, _ := repo.GetByID(ctx, "brew-1")
	if stored.TimerEndTime != nil || *stored.TimerRemainingSeconds != 35 {
		t.Fatalf("unexpected stored pause state %+v", stored)
	}

	if _, err := uc.SetDuration(ctx, timerdto.DurationInput{SessionID: "brew-1", Minutes: "5"}); err != nil {
		t.Fatalf("set duration: %v", err)
	}
	reset, err := uc.Reset(ctx, "brew-1")
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if reset.RemainingSeconds != 300 || reset.Running {
		t.Fatalf("expected reset to 300 paused, got %+v", reset)
	}
}

func TestStatusPersistsExpiryAfterSuspension(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc, repo, clk := setup(t, time.Second)

	if _, err := uc.SetDuration(ctx, timerdto.DurationInput{SessionID: "brew-1", Minutes: "10"}); err != nil {
		t.Fatalf("set duration: %v", err)
	}
	clk.Set(0)
	started, err := uc.Toggle(ctx, "brew-1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if started.EndTime != 600_000 {
		t.Fatalf("expected end 600000, got %d", started.EndTime)
	}

	clk.Set(650_000)
	status, err := uc.Status(ctx, "brew-1")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Running || status.RemainingSeconds != 0 || !status.Expired {
		t.Fatalf("expected expired paused timer, got %+v", status)
	}
	stored, _ := repo.GetByID(ctx, "brew-1")
	if stored.TimerIsRunning || stored.TimerRemainingSeconds == nil || *stored.TimerRemainingSeconds != 0 {
		t.Fatalf("expiry must be persisted, got %+v", stored)
	}
	if _, err := uc.Start(ctx, "brew-1"); !errors.Is(err, apperrors.ErrTimerExpired) {
		t.Fatalf("expected expired error on start, got %v", err)
	}
}

func TestTimerWritesKeepConcurrentPhaseEdits(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc, repo, clk := setup(t, time.Second)
	clk.Set(0)

	notes := "mashed at 152F"
	if _, err := repo.Update(ctx, "brew-1", func(s *brewdomain.Session) error {
		s.ApplyEdit(brewdomain.PhaseMashing, brewdomain.PhaseEdit{Notes: &notes})
		return nil
	}); err != nil {
		t.Fatalf("phase edit: %v", err)
	}
	if _, err := uc.Start(ctx, "brew-1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	stored, _ := repo.GetByID(ctx, "brew-1")
	if stored.Data[brewdomain.PhaseMashing].Notes != notes || !stored.TimerIsRunning {
		t.Fatalf("timer write clobbered phase data: %+v", stored)
	}
}

func TestDurationEditRefusedWhileRunning(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc, _, clk := setup(t, time.Second)
	clk.Set(0)
	if _, err := uc.Start(ctx, "brew-1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := uc.SetDuration(ctx, timerdto.DurationInput{SessionID: "brew-1", Minutes: "30"}); !errors.Is(err, apperrors.ErrTimerRunning) {
		t.Fatalf("expected timer running error, got %v", err)
	}
	if _, err := uc.Status(ctx, "missing"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestZeroDurationStaysZeroAfterReload(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc, _, clk := setup(t, time.Second)
	clk.Set(0)
	if _, err := uc.SetDuration(ctx, timerdto.DurationInput{SessionID: "brew-1", Minutes: "nope"}); err != nil {
		t.Fatalf("set duration: %v", err)
	}
	st, err := uc.Status(ctx, "brew-1")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.DurationMinutes != 0 || st.RemainingSeconds != 0 || st.Display != "00:00" {
		t.Fatalf("duration and countdown must agree, got %d min and %s", st.DurationMinutes, st.Display)
	}
	if _, err := uc.Start(ctx, "brew-1"); !errors.Is(err, apperrors.ErrTimerExpired) {
		t.Fatalf("a zero-length timer cannot start, got %v", err)
	}
}

func TestWatchStopsOnExpiryAndCancel(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc, _, clk := setup(t, 5*time.Millisecond)
	if _, err := uc.SetDuration(ctx, timerdto.DurationInput{SessionID: "brew-1", Minutes: "1"}); err != nil {
		t.Fatalf("set duration: %v", err)
	}
	clk.Set(0)
	if _, err := uc.Start(ctx, "brew-1"); err != nil {
		t.Fatalf("start: %v", err)
	}

	var mu sync.Mutex
	var ticks []timerdto.StatusOutput
	done := make(chan error, 1)
	go func() {
		done <- uc.Watch(ctx, "brew-1", func(out timerdto.StatusOutput) {
			mu.Lock()
			ticks = append(ticks, out)
			n := len(ticks)
			mu.Unlock()
			if n == 2 {
				clk.Set(61_000)
			}
		})
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("watch: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("watch did not stop on expiry")
	}
	mu.Lock()
	last := ticks[len(ticks)-1]
	mu.Unlock()
	if last.Running || last.RemainingSeconds != 0 {
		t.Fatalf("expected final tick expired, got %+v", last)
	}

	if _, err := uc.Reset(ctx, "brew-1"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, err := uc.Start(ctx, "brew-1"); err != nil {
		t.Fatalf("restart: %v", err)
	}
	cctx, cancel := context.WithCancel(ctx)
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	if err := uc.Watch(cctx, "brew-1", nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancel error, got %v", err)
	}
}
