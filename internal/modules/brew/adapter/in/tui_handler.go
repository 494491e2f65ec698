package in

import (
	"context"

	brewdto "brewlog/internal/modules/brew/dto"
	brewin "brewlog/internal/modules/brew/port/in"
)

// TUIHandler serves the terminal UI. Form values are keyed by field name and
// only edited fields are passed in.
type TUIHandler struct {
	usecase brewin.Usecase
}

func NewTUIHandler(usecase brewin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) List(ctx context.Context) ([]brewdto.SessionOutput, error) {
	return h.usecase.List(ctx)
}

func (h TUIHandler) Create(ctx context.Context, name, style string) (brewdto.SessionOutput, error) {
	return h.usecase.Create(ctx, brewdto.CreateInput{Name: name, Style: style})
}

func (h TUIHandler) Get(ctx context.Context, sessionID string) (brewdto.SessionOutput, error) {
	return h.usecase.Get(ctx, sessionID)
}

func (h TUIHandler) Save(ctx context.Context, sessionID, phase string, edited map[string]string) (brewdto.SessionOutput, error) {
	edit, err := formInput(edited)
	if err != nil {
		return brewdto.SessionOutput{}, err
	}
	return h.usecase.SavePhase(ctx, brewdto.SavePhaseInput{SessionID: sessionID, Phase: phase, Edit: edit})
}

func (h TUIHandler) Advance(ctx context.Context, sessionID, fromPhase string, edited map[string]string) (brewdto.TransitionOutput, error) {
	edit, err := formInput(edited)
	if err != nil {
		return brewdto.TransitionOutput{}, err
	}
	return h.usecase.Advance(ctx, brewdto.TransitionInput{SessionID: sessionID, FromPhase: fromPhase, Edit: edit})
}

func (h TUIHandler) Retreat(ctx context.Context, sessionID, fromPhase string, edited map[string]string) (brewdto.TransitionOutput, error) {
	edit, err := formInput(edited)
	if err != nil {
		return brewdto.TransitionOutput{}, err
	}
	return h.usecase.Retreat(ctx, brewdto.TransitionInput{SessionID: sessionID, FromPhase: fromPhase, Edit: edit})
}

func (h TUIHandler) Delete(ctx context.Context, sessionID string) error {
	return h.usecase.Delete(ctx, sessionID)
}

func (h TUIHandler) Export(ctx context.Context, sessionID string) (brewdto.ExportOutput, error) {
	return h.usecase.Export(ctx, brewdto.ExportInput{SessionID: sessionID})
}

func formInput(edited map[string]string) (brewdto.PhaseInput, error) {
	edit := brewdto.PhaseInput{}
	for key, value := range edited {
		if err := assign(&edit, key, value); err != nil {
			return brewdto.PhaseInput{}, err
		}
	}
	return edit, nil
}
