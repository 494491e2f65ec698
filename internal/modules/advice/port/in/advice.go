package in

import (
	"context"

	"brewlog/internal/modules/advice/dto"
)

type Usecase interface {
	Ask(ctx context.Context, input dto.AskInput) (dto.AskOutput, error)
	Doctor(ctx context.Context) (dto.DoctorOutput, error)
}
