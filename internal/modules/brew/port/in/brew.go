package in

import (
	"context"

	"brewlog/internal/modules/brew/dto"
)

type Usecase interface {
	Create(ctx context.Context, input dto.CreateInput) (dto.SessionOutput, error)
	List(ctx context.Context) ([]dto.SessionOutput, error)
	Get(ctx context.Context, sessionID string) (dto.SessionOutput, error)
	SavePhase(ctx context.Context, input dto.SavePhaseInput) (dto.SessionOutput, error)
	Advance(ctx context.Context, input dto.TransitionInput) (dto.TransitionOutput, error)
	Retreat(ctx context.Context, input dto.TransitionInput) (dto.TransitionOutput, error)
	Import(ctx context.Context, input dto.ImportInput) (dto.ImportOutput, error)
	Delete(ctx context.Context, sessionID string) error
	Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error)
}
