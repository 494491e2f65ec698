package usecase

import (
	"context"
	"fmt"
	"strings"

	"brewlog/internal/modules/timer/domain"
	timerdto "brewlog/internal/modules/timer/dto"
	timerin "brewlog/internal/modules/timer/port/in"
	"brewlog/internal/modules/timer/service"
	apperrors "brewlog/internal/platform/errors"
)

type Interactor struct {
	svc *service.TimerService
}

func NewInteractor(svc *service.TimerService) timerin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Status(ctx context.Context, sessionID string) (timerdto.StatusOutput, error) {
	return i.run(ctx, sessionID, i.svc.Status)
}

func (i *Interactor) Start(ctx context.Context, sessionID string) (timerdto.StatusOutput, error) {
	return i.run(ctx, sessionID, i.svc.Start)
}

func (i *Interactor) Pause(ctx context.Context, sessionID string) (timerdto.StatusOutput, error) {
	return i.run(ctx, sessionID, i.svc.Pause)
}

func (i *Interactor) Toggle(ctx context.Context, sessionID string) (timerdto.StatusOutput, error) {
	return i.run(ctx, sessionID, i.svc.Toggle)
}

func (i *Interactor) Reset(ctx context.Context, sessionID string) (timerdto.StatusOutput, error) {
	return i.run(ctx, sessionID, i.svc.Reset)
}

func (i *Interactor) Tick(ctx context.Context, sessionID string) (timerdto.StatusOutput, error) {
	return i.run(ctx, sessionID, i.svc.Tick)
}

func (i *Interactor) SetDuration(ctx context.Context, input timerdto.DurationInput) (timerdto.StatusOutput, error) {
	minutes := domain.CoerceMinutes(input.Minutes)
	return i.run(ctx, input.SessionID, func(ctx context.Context, id string) (domain.Snapshot, error) {
		return i.svc.SetDuration(ctx, id, minutes)
	})
}

func (i *Interactor) Watch(ctx context.Context, sessionID string, onTick func(timerdto.StatusOutput)) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("%w: session id is required", apperrors.ErrInvalidInput)
	}
	return i.svc.Watch(ctx, sessionID, func(snap domain.Snapshot) {
		if onTick != nil {
			onTick(ToOutput(snap))
		}
	})
}

func (i *Interactor) run(ctx context.Context, sessionID string, op func(context.Context, string) (domain.Snapshot, error)) (timerdto.StatusOutput, error) {
	if strings.TrimSpace(sessionID) == "" {
		return timerdto.StatusOutput{}, fmt.Errorf("%w: session id is required", apperrors.ErrInvalidInput)
	}
	snap, err := op(ctx, sessionID)
	if err != nil {
		return timerdto.StatusOutput{}, err
	}
	return ToOutput(snap), nil
}

func ToOutput(snap domain.Snapshot) timerdto.StatusOutput {
	out := timerdto.StatusOutput{
		SessionID:        snap.SessionID,
		Phase:            string(snap.Phase),
		DurationMinutes:  snap.Timer.DurationMinutes,
		RemainingSeconds: snap.Remaining,
		Running:          snap.Timer.Running,
		Display:          domain.Format(snap.Remaining),
		Expired:          snap.Expired,
		Visible:          snap.Visible(),
	}
	if snap.Timer.Running {
		out.EndTime = snap.Timer.EndTime
	}
	return out
}
