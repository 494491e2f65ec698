package in

import (
	"context"

	"brewlog/internal/modules/timer/dto"
)

type Usecase interface {
	Status(ctx context.Context, sessionID string) (dto.StatusOutput, error)
	Start(ctx context.Context, sessionID string) (dto.StatusOutput, error)
	Pause(ctx context.Context, sessionID string) (dto.StatusOutput, error)
	Toggle(ctx context.Context, sessionID string) (dto.StatusOutput, error)
	Reset(ctx context.Context, sessionID string) (dto.StatusOutput, error)
	SetDuration(ctx context.Context, input dto.DurationInput) (dto.StatusOutput, error)
	Tick(ctx context.Context, sessionID string) (dto.StatusOutput, error)
	// Watch calls onTick once per tick interval until the timer expires or is
	// paused, or ctx ends. It returns nil on expiry or pause.
	Watch(ctx context.Context, sessionID string, onTick func(dto.StatusOutput)) error
}
