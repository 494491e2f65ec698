package service

import (
	"context"
	"fmt"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	brewdomain "brewlog/internal/modules/brew/domain"
	"brewlog/internal/modules/timer/domain"
	timerout "brewlog/internal/modules/timer/port/out"
	"brewlog/internal/platform/clock"
)

type TimerService struct {
	clock          clock.Clock
	store          timerout.SessionStore
	defaultMinutes int
	tickInterval   time.Duration
	logger         hclog.Logger
}

func NewTimerService(clock clock.Clock, store timerout.SessionStore, defaultMinutes int, tickInterval time.Duration, logger hclog.Logger) *TimerService {
	if tickInterval <= 0 {
		tickInterval = time.Second
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &TimerService{
		clock:          clock,
		store:          store,
		defaultMinutes: defaultMinutes,
		tickInterval:   tickInterval,
		logger:         logger.Named("timer"),
	}
}

func (s *TimerService) TickInterval() time.Duration { return s.tickInterval }

// Status rehydrates the timer from the persisted end time. An end time already
// in the past is written back as an expired, paused timer.
func (s *TimerService) Status(ctx context.Context, id string) (domain.Snapshot, error) {
	session, err := s.store.GetByID(ctx, id)
	if err != nil {
		return domain.Snapshot{}, err
	}
	now := s.clock.Now()
	t := domain.FromSession(session, s.defaultMinutes)
	if _, expired := t.Tick(now); !expired {
		return domain.Observe(session, t, now), nil
	}
	return s.mutate(ctx, id, "expire", func(t domain.Timer, _ time.Time) (domain.Timer, error) {
		return t, nil
	})
}

func (s *TimerService) Start(ctx context.Context, id string) (domain.Snapshot, error) {
	return s.mutate(ctx, id, "start", func(t domain.Timer, now time.Time) (domain.Timer, error) {
		return t.Start(now)
	})
}

func (s *TimerService) Pause(ctx context.Context, id string) (domain.Snapshot, error) {
	return s.mutate(ctx, id, "pause", func(t domain.Timer, now time.Time) (domain.Timer, error) {
		return t.Pause(now), nil
	})
}

func (s *TimerService) Toggle(ctx context.Context, id string) (domain.Snapshot, error) {
	return s.mutate(ctx, id, "toggle", func(t domain.Timer, now time.Time) (domain.Timer, error) {
		if t.Running {
			return t.Pause(now), nil
		}
		return t.Start(now)
	})
}

func (s *TimerService) Reset(ctx context.Context, id string) (domain.Snapshot, error) {
	return s.mutate(ctx, id, "reset", func(t domain.Timer, _ time.Time) (domain.Timer, error) {
		return t.Reset(), nil
	})
}

func (s *TimerService) SetDuration(ctx context.Context, id string, minutes int) (domain.Snapshot, error) {
	return s.mutate(ctx, id, "duration", func(t domain.Timer, _ time.Time) (domain.Timer, error) {
		return t.SetDuration(minutes)
	})
}

// Tick reads the persisted end time and only writes when the timer expired.
func (s *TimerService) Tick(ctx context.Context, id string) (domain.Snapshot, error) {
	return s.Status(ctx, id)
}

// Watch polls the persisted timer every tick interval. It stops without error
// when the timer expires or stops running, and returns ctx.Err on cancel.
func (s *TimerService) Watch(ctx context.Context, id string, onTick func(domain.Snapshot)) error {
	snap, err := s.Status(ctx, id)
	if err != nil {
		return err
	}
	if onTick != nil {
		onTick(snap)
	}
	if !snap.Timer.Running {
		return nil
	}

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			snap, err := s.Tick(ctx, id)
			if err != nil {
				return err
			}
			if onTick != nil {
				onTick(snap)
			}
			if !snap.Timer.Running {
				return nil
			}
		}
	}
}

// mutate applies fn to the latest persisted timer inside one repository
// update. Only timer fields of the record are written.
func (s *TimerService) mutate(ctx context.Context, id, op string, fn func(domain.Timer, time.Time) (domain.Timer, error)) (domain.Snapshot, error) {
	now := s.clock.Now()
	var next domain.Timer
	session, err := s.store.Update(ctx, id, func(session *brewdomain.Session) error {
		current, expired := domain.FromSession(*session, s.defaultMinutes).Tick(now)
		if expired {
			s.logger.Info("timer expired", "id", id)
		}
		updated, err := fn(current, now)
		if err != nil {
			return err
		}
		updated.Apply(session)
		next = updated
		return nil
	})
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("timer %s: %w", op, err)
	}
	s.logger.Debug("timer updated", "id", id, "op", op, "running", next.Running, "remaining", next.Remaining(now))
	return domain.Observe(session, next, now), nil
}
