package in

import (
	"context"

	advicedto "brewlog/internal/modules/advice/dto"
	advicein "brewlog/internal/modules/advice/port/in"
)

type CLIHandler struct {
	usecase advicein.Usecase
}

func NewCLIHandler(usecase advicein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Ask(ctx context.Context, sessionID, question string, notes *string) (advicedto.AskOutput, error) {
	return h.usecase.Ask(ctx, advicedto.AskInput{SessionID: sessionID, Question: question, Notes: notes})
}

func (h CLIHandler) Doctor(ctx context.Context) (advicedto.DoctorOutput, error) {
	return h.usecase.Doctor(ctx)
}
