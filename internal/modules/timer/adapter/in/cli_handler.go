package in

import (
	"context"

	timerdto "brewlog/internal/modules/timer/dto"
	timerin "brewlog/internal/modules/timer/port/in"
)

type CLIHandler struct {
	usecase timerin.Usecase
}

func NewCLIHandler(usecase timerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Status(ctx context.Context, sessionID string) (timerdto.StatusOutput, error) {
	return h.usecase.Status(ctx, sessionID)
}

func (h CLIHandler) Start(ctx context.Context, sessionID string) (timerdto.StatusOutput, error) {
	return h.usecase.Start(ctx, sessionID)
}

func (h CLIHandler) Pause(ctx context.Context, sessionID string) (timerdto.StatusOutput, error) {
	return h.usecase.Pause(ctx, sessionID)
}

func (h CLIHandler) Toggle(ctx context.Context, sessionID string) (timerdto.StatusOutput, error) {
	return h.usecase.Toggle(ctx, sessionID)
}

func (h CLIHandler) Reset(ctx context.Context, sessionID string) (timerdto.StatusOutput, error) {
	return h.usecase.Reset(ctx, sessionID)
}

func (h CLIHandler) SetDuration(ctx context.Context, sessionID, minutes string) (timerdto.StatusOutput, error) {
	return h.usecase.SetDuration(ctx, timerdto.DurationInput{SessionID: sessionID, Minutes: minutes})
}

func (h CLIHandler) Watch(ctx context.Context, sessionID string, onTick func(timerdto.StatusOutput)) error {
	return h.usecase.Watch(ctx, sessionID, onTick)
}

func (h CLIHandler) Tick(ctx context.Context, sessionID string) (timerdto.StatusOutput, error) {
	return h.usecase.Tick(ctx, sessionID)
}
