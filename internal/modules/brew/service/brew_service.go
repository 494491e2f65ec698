package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	hclog "github.com/hashicorp/go-hclog"

	"brewlog/internal/modules/brew/domain"
	brewout "brewlog/internal/modules/brew/port/out"
	"brewlog/internal/platform/clock"
	apperrors "brewlog/internal/platform/errors"
	"brewlog/internal/platform/id"
)

type Direction int

const (
	Forward Direction = iota + 1
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

type Transition struct {
	Session domain.Session
	From    domain.Phase
	To      domain.Phase
	Moved   bool
}

type BrewService struct {
	clock    clock.Clock
	idGen    id.Generator
	repo     brewout.SessionRepository
	exporter brewout.JournalExporter
	logger   hclog.Logger
}

func NewBrewService(clock clock.Clock, idGen id.Generator, repo brewout.SessionRepository, exporter brewout.JournalExporter, logger hclog.Logger) *BrewService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &BrewService{clock: clock, idGen: idGen, repo: repo, exporter: exporter, logger: logger.Named("brew")}
}

func (s *BrewService) Create(ctx context.Context, name, style string) (domain.Session, error) {
	session, err := domain.NewSession(s.idGen.New(), name, style, s.clock.Now())
	if err != nil {
		return domain.Session{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if err := s.repo.Upsert(ctx, session); err != nil {
		return domain.Session{}, err
	}
	s.logger.Info("brew created", "id", session.ID, "name", session.Name)
	return session, nil
}

// List returns every session, newest first.
func (s *BrewService) List(ctx context.Context) ([]domain.Session, error) {
	sessions, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})
	return sessions, nil
}

func (s *BrewService) Get(ctx context.Context, id string) (domain.Session, error) {
	return s.repo.GetByID(ctx, id)
}

// SavePhase overlays edit onto the latest persisted readings of phase without
// moving the session.
func (s *BrewService) SavePhase(ctx context.Context, id string, phase domain.Phase, edit domain.PhaseEdit) (domain.Session, error) {
	if err := phase.Validate(); err != nil {
		return domain.Session{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	return s.repo.Update(ctx, id, func(session *domain.Session) error {
		session.ApplyEdit(phase, edit)
		return nil
	})
}

// Move saves the edits for the phase being left and then steps the session
// one phase in dir. from is the phase the caller was viewing; empty means the
// persisted current phase. Both steps re-read the stored record, so fields
// written concurrently (timer state, other phases) survive. The step is taken
// from the stored current phase; when that is no longer from, the edits are
// saved and the session stays where it is.
func (s *BrewService) Move(ctx context.Context, id string, from domain.Phase, edit domain.PhaseEdit, dir Direction) (Transition, error) {
	if from != "" {
		if err := from.Validate(); err != nil {
			return Transition{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
		}
	}

	merged, err := s.repo.Update(ctx, id, func(session *domain.Session) error {
		if from == "" {
			from = session.CurrentPhase
		}
		session.ApplyEdit(from, edit)
		return nil
	})
	if err != nil {
		return Transition{}, err
	}
	if merged.CurrentPhase != from {
		s.logger.Warn("stale phase view, not moving", "id", id, "viewed", from, "stored", merged.CurrentPhase)
		return Transition{Session: merged, From: from, To: merged.CurrentPhase}, nil
	}

	var to domain.Phase
	moved, err := s.repo.Update(ctx, id, func(session *domain.Session) error {
		if session.CurrentPhase != from {
			to = session.CurrentPhase
			return errStaleView
		}
		next, ok := step(session.CurrentPhase, dir)
		if !ok {
			to = session.CurrentPhase
			return errNoStep
		}
		to = next
		session.CurrentPhase = next
		return nil
	})
	switch {
	case errors.Is(err, errNoStep):
		s.logger.Debug("no phase transition", "id", id, "phase", from, "direction", dir)
		return Transition{Session: merged, From: from, To: to}, nil
	case errors.Is(err, errStaleView):
		s.logger.Warn("phase moved concurrently, not moving", "id", id, "viewed", from, "stored", to)
		latest, getErr := s.repo.GetByID(ctx, id)
		if getErr != nil {
			return Transition{}, getErr
		}
		return Transition{Session: latest, From: from, To: to}, nil
	case err != nil:
		return Transition{}, err
	}
	s.logger.Info("phase transition", "id", id, "from", from, "to", to)
	return Transition{Session: moved, From: from, To: to, Moved: true}, nil
}

var (
	errNoStep    = errors.New("no phase in that direction")
	errStaleView = errors.New("viewed phase is no longer current")
)

// Import upserts every record of an exported collection. Records that fail
// validation after normalisation are skipped and reported by id.
func (s *BrewService) Import(ctx context.Context, sessions []domain.Session) (int, []string, error) {
	imported := 0
	var skipped []string
	for _, raw := range sessions {
		session, notes := raw.Normalize()
		for _, note := range notes {
			s.logger.Warn("normalized imported session", "id", raw.ID, "repair", note)
		}
		if err := session.Validate(); err != nil {
			s.logger.Warn("skipping imported session", "id", raw.ID, "error", err)
			skipped = append(skipped, raw.ID)
			continue
		}
		if err := s.repo.Upsert(ctx, session); err != nil {
			return imported, skipped, err
		}
		imported++
	}
	s.logger.Info("import finished", "imported", imported, "skipped", len(skipped))
	return imported, skipped, nil
}

func (s *BrewService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("brew deleted", "id", id)
	return nil
}

func (s *BrewService) Export(ctx context.Context, id string) (string, error) {
	if s.exporter == nil {
		return "", fmt.Errorf("journal exporter is not configured")
	}
	session, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return s.exporter.Export(ctx, session)
}

func step(from domain.Phase, dir Direction) (domain.Phase, bool) {
	if dir == Backward {
		return from.Prev()
	}
	return from.Next()
}
