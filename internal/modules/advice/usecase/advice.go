package usecase

import (
	"context"
	"fmt"
	"strings"

	"brewlog/internal/modules/advice/domain"
	advicedto "brewlog/internal/modules/advice/dto"
	advicein "brewlog/internal/modules/advice/port/in"
	"brewlog/internal/modules/advice/service"
	brewin "brewlog/internal/modules/brew/port/in"
	apperrors "brewlog/internal/platform/errors"
)

type Interactor struct {
	svc  *service.AdviceService
	brew brewin.Usecase
}

func NewInteractor(svc *service.AdviceService, brew brewin.Usecase) advicein.Usecase {
	return &Interactor{svc: svc, brew: brew}
}

// Ask builds the brew context from the stored session and asks the advisor.
// Advisor failures never surface; a missing session or empty question does.
func (i *Interactor) Ask(ctx context.Context, input advicedto.AskInput) (advicedto.AskOutput, error) {
	if strings.TrimSpace(input.Question) == "" {
		return advicedto.AskOutput{}, fmt.Errorf("%w: question is required", apperrors.ErrInvalidInput)
	}
	if i.brew == nil {
		return advicedto.AskOutput{}, fmt.Errorf("brew usecase is not configured")
	}
	session, err := i.brew.Get(ctx, input.SessionID)
	if err != nil {
		return advicedto.AskOutput{}, err
	}

	notes := ""
	for _, p := range session.Phases {
		if p.Phase == session.CurrentPhase {
			notes = p.Notes
			break
		}
	}
	if input.Notes != nil {
		notes = *input.Notes
	}

	query, err := domain.NewQuery(session.CurrentPhase, input.Question, domain.BrewContext(session.Name, session.Style, session.CurrentPhase, notes))
	if err != nil {
		return advicedto.AskOutput{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	answer := i.svc.Ask(ctx, query)
	return advicedto.AskOutput{
		SessionID: session.ID,
		Phase:     session.CurrentPhase,
		Text:      answer.Text,
		Fallback:  answer.Fallback,
		Provider:  answer.Provider,
	}, nil
}

func (i *Interactor) Doctor(ctx context.Context) (advicedto.DoctorOutput, error) {
	out := advicedto.DoctorOutput{Provider: i.svc.Provider()}
	meta, err := i.svc.Check(ctx)
	if err != nil {
		out.Error = err.Error()
		return out, nil
	}
	out.Ready = true
	out.Name = meta.Name
	out.Version = meta.Version
	out.Model = meta.Model
	return out, nil
}
