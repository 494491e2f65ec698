package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"brewlog/internal/modules/advice/domain"
	advicedto "brewlog/internal/modules/advice/dto"
	"brewlog/internal/modules/advice/service"
	"brewlog/internal/modules/advice/usecase"
	brewdto "brewlog/internal/modules/brew/dto"
	apperrors "brewlog/internal/platform/errors"
)

type fakeAdvisor struct {
	mu      sync.Mutex
	text    string
	err     error
	delay   time.Duration
	queries []domain.Query
}

func (f *fakeAdvisor) Name() string { return "fake" }

func (f *fakeAdvisor) Advise(ctx context.Context, query domain.Query) (string, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(f.delay):
		}
	}
	return f.text, f.err
}

type fakeBrew struct {
	session brewdto.SessionOutput
}

func (f *fakeBrew) Create(context.Context, brewdto.CreateInput) (brewdto.SessionOutput, error) {
	return brewdto.SessionOutput{}, nil
}
func (f *fakeBrew) List(context.Context) ([]brewdto.SessionOutput, error) { return nil, nil }
func (f *fakeBrew) Get(_ context.Context, id string) (brewdto.SessionOutput, error) {
	if id != f.session.ID {
		return brewdto.SessionOutput{}, fmt.Errorf("session %s: %w", id, apperrors.ErrNotFound)
	}
	return f.session, nil
}
func (f *fakeBrew) SavePhase(context.Context, brewdto.SavePhaseInput) (brewdto.SessionOutput, error) {
	return brewdto.SessionOutput{}, nil
}
func (f *fakeBrew) Advance(context.Context, brewdto.TransitionInput) (brewdto.TransitionOutput, error) {
	return brewdto.TransitionOutput{}, nil
}
func (f *fakeBrew) Retreat(context.Context, brewdto.TransitionInput) (brewdto.TransitionOutput, error) {
	return brewdto.TransitionOutput{}, nil
}
func (f *fakeBrew) Import(context.Context, brewdto.ImportInput) (brewdto.ImportOutput, error) {
	return brewdto.ImportOutput{}, nil
}
func (f *fakeBrew) Delete(context.Context, string) error { return nil }
func (f *fakeBrew) Export(context.Context, brewdto.ExportInput) (brewdto.ExportOutput, error) {
	return brewdto.ExportOutput{}, nil
}

func stout() *fakeBrew {
	return &fakeBrew{session: brewdto.SessionOutput{
		ID:           "brew-1",
		Name:         "Sunday Stout",
		Style:        "Irish Dry Stout",
		CurrentPhase: "Mashing",
		Phases:       []brewdto.PhaseDataOutput{{Phase: "Mashing", Notes: "mashed at 152F"}, {Phase: "Sparging"}},
	}}
}

func TestAskBuildsContextFromStoredSession(t *testing.T) {
	t.Parallel()
	advisor := &fakeAdvisor{text: "Hold at 152 °F (66.7 °C)."}
	uc := usecase.NewInteractor(service.NewAdviceService(advisor, time.Second, hclog.NewNullLogger()), stout())

	out, err := uc.Ask(context.Background(), advicedto.AskInput{SessionID: "brew-1", Question: "Is 152F ok?"})
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if out.Text != "Hold at 152 °F (66.7 °C)." || out.Fallback || out.Provider != "fake" || out.Phase != "Mashing" {
		t.Fatalf("unexpected answer %+v", out)
	}
	if len(advisor.queries) != 1 {
		t.Fatalf("expected one advisor call, got %d", len(advisor.queries))
	}
	prompt := advisor.queries[0].Prompt()
	for _, want := range []string{"Current Phase: Mashing. \n", "Beer Name: Sunday Stout, Style: Irish Dry Stout.", "Phase Notes: mashed at 152F", "User Question: Is 152F ok?"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestAskUsesUnsavedNotes(t *testing.T) {
	t.Parallel()
	advisor := &fakeAdvisor{text: "ok"}
	uc := usecase.NewInteractor(service.NewAdviceService(advisor, time.Second, hclog.NewNullLogger()), stout())
	notes := "stuck sparge"
	if _, err := uc.Ask(context.Background(), advicedto.AskInput{SessionID: "brew-1", Question: "help", Notes: &notes}); err != nil {
		t.Fatalf("ask: %v", err)
	}
	if !strings.Contains(advisor.queries[0].Context, "Phase Notes: stuck sparge") {
		t.Fatalf("expected unsaved notes in context, got %s", advisor.queries[0].Context)
	}
}

func TestAskFallsBackInsteadOfFailing(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name    string
		advisor *fakeAdvisor
		want    string
	}{
		{"error", &fakeAdvisor{err: errors.New("quota exceeded")}, domain.FallbackFailure},
		{"empty", &fakeAdvisor{text: "  "}, domain.FallbackEmpty},
		{"timeout", &fakeAdvisor{text: "late", delay: time.Second}, domain.FallbackFailure},
	}
	for _, tc := range cases {
		uc := usecase.NewInteractor(service.NewAdviceService(tc.advisor, 20*time.Millisecond, hclog.NewNullLogger()), stout())
		out, err := uc.Ask(context.Background(), advicedto.AskInput{SessionID: "brew-1", Question: "help"})
		if err != nil {
			t.Fatalf("%s: advisor failure must not surface: %v", tc.name, err)
		}
		if out.Text != tc.want || !out.Fallback {
			t.Fatalf("%s: expected %q fallback, got %+v", tc.name, tc.want, out)
		}
	}
}

func TestAskRejectsEmptyQuestionAndMissingSession(t *testing.T) {
	t.Parallel()
	advisor := &fakeAdvisor{text: "ok"}
	uc := usecase.NewInteractor(service.NewAdviceService(advisor, time.Second, hclog.NewNullLogger()), stout())
	if _, err := uc.Ask(context.Background(), advicedto.AskInput{SessionID: "brew-1", Question: "  "}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if _, err := uc.Ask(context.Background(), advicedto.AskInput{SessionID: "nope", Question: "help"}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(advisor.queries) != 0 {
		t.Fatalf("advisor must not be called, got %d calls", len(advisor.queries))
	}
}

func TestDoctorReportsProviderState(t *testing.T) {
	t.Parallel()
	uc := usecase.NewInteractor(service.NewAdviceService(&fakeAdvisor{}, time.Second, hclog.NewNullLogger()), stout())
	out, err := uc.Doctor(context.Background())
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	if !out.Ready || out.Provider != "fake" {
		t.Fatalf("unexpected doctor output %+v", out)
	}

	off := usecase.NewInteractor(service.NewAdviceService(nil, time.Second, hclog.NewNullLogger()), stout())
	out, err = off.Doctor(context.Background())
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	if out.Ready || out.Provider != "none" || out.Error == "" {
		t.Fatalf("expected disabled advisor, got %+v", out)
	}
}
