package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"brewlog/internal/modules/brew/domain"
	brewdto "brewlog/internal/modules/brew/dto"
	brewin "brewlog/internal/modules/brew/port/in"
	"brewlog/internal/modules/brew/service"
	apperrors "brewlog/internal/platform/errors"
)

type Interactor struct {
	svc *service.BrewService
}

func NewInteractor(svc *service.BrewService) brewin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Create(ctx context.Context, input brewdto.CreateInput) (brewdto.SessionOutput, error) {
	session, err := i.svc.Create(ctx, input.Name, input.Style)
	if err != nil {
		return brewdto.SessionOutput{}, err
	}
	return ToOutput(session), nil
}

func (i *Interactor) List(ctx context.Context) ([]brewdto.SessionOutput, error) {
	sessions, err := i.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]brewdto.SessionOutput, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, ToOutput(s))
	}
	return out, nil
}

func (i *Interactor) Get(ctx context.Context, sessionID string) (brewdto.SessionOutput, error) {
	if strings.TrimSpace(sessionID) == "" {
		return brewdto.SessionOutput{}, fmt.Errorf("%w: session id is required", apperrors.ErrInvalidInput)
	}
	session, err := i.svc.Get(ctx, sessionID)
	if err != nil {
		return brewdto.SessionOutput{}, err
	}
	return ToOutput(session), nil
}

func (i *Interactor) SavePhase(ctx context.Context, input brewdto.SavePhaseInput) (brewdto.SessionOutput, error) {
	phase, err := domain.ParsePhase(input.Phase)
	if err != nil {
		return brewdto.SessionOutput{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	session, err := i.svc.SavePhase(ctx, input.SessionID, phase, toEdit(input.Edit))
	if err != nil {
		return brewdto.SessionOutput{}, err
	}
	return ToOutput(session), nil
}

func (i *Interactor) Advance(ctx context.Context, input brewdto.TransitionInput) (brewdto.TransitionOutput, error) {
	return i.move(ctx, input, service.Forward)
}

func (i *Interactor) Retreat(ctx context.Context, input brewdto.TransitionInput) (brewdto.TransitionOutput, error) {
	return i.move(ctx, input, service.Backward)
}

func (i *Interactor) move(ctx context.Context, input brewdto.TransitionInput, dir service.Direction) (brewdto.TransitionOutput, error) {
	if strings.TrimSpace(input.SessionID) == "" {
		return brewdto.TransitionOutput{}, fmt.Errorf("%w: session id is required", apperrors.ErrInvalidInput)
	}
	var from domain.Phase
	if strings.TrimSpace(input.FromPhase) != "" {
		parsed, err := domain.ParsePhase(input.FromPhase)
		if err != nil {
			return brewdto.TransitionOutput{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
		}
		from = parsed
	}
	result, err := i.svc.Move(ctx, input.SessionID, from, toEdit(input.Edit), dir)
	if err != nil {
		return brewdto.TransitionOutput{}, err
	}
	return brewdto.TransitionOutput{
		Session:    ToOutput(result.Session),
		From:       string(result.From),
		To:         string(result.To),
		Transition: result.Moved,
	}, nil
}

func (i *Interactor) Import(ctx context.Context, input brewdto.ImportInput) (brewdto.ImportOutput, error) {
	raw, err := os.ReadFile(input.Path)
	if err != nil {
		return brewdto.ImportOutput{}, fmt.Errorf("read import file: %w", err)
	}
	sessions := []domain.Session{}
	if err := json.Unmarshal(raw, &sessions); err != nil {
		return brewdto.ImportOutput{}, fmt.Errorf("%w: decode import file: %v", apperrors.ErrInvalidInput, err)
	}
	imported, skipped, err := i.svc.Import(ctx, sessions)
	if err != nil {
		return brewdto.ImportOutput{}, err
	}
	return brewdto.ImportOutput{Imported: imported, Skipped: skipped}, nil
}

func (i *Interactor) Delete(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("%w: session id is required", apperrors.ErrInvalidInput)
	}
	return i.svc.Delete(ctx, sessionID)
}

func (i *Interactor) Export(ctx context.Context, input brewdto.ExportInput) (brewdto.ExportOutput, error) {
	path, err := i.svc.Export(ctx, input.SessionID)
	if err != nil {
		return brewdto.ExportOutput{}, err
	}
	return brewdto.ExportOutput{SessionID: input.SessionID, Path: path}, nil
}
