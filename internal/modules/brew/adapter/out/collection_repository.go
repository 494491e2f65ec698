package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	hclog "github.com/hashicorp/go-hclog"

	"brewlog/internal/modules/brew/domain"
	brewout "brewlog/internal/modules/brew/port/out"
	"brewlog/internal/platform/clock"
	apperrors "brewlog/internal/platform/errors"
	"brewlog/internal/platform/tx"
)

// CollectionRepository stores every session as one JSON array under
// domain.CollectionKey. Each mutation reads the whole collection, changes one
// record and writes the whole collection back inside tx.Manager.
type CollectionRepository struct {
	store  brewout.KeyValueStore
	tx     tx.Manager
	clock  clock.Clock
	logger hclog.Logger
}

func NewCollectionRepository(store brewout.KeyValueStore, txManager tx.Manager, clk clock.Clock, logger hclog.Logger) brewout.SessionRepository {
	if txManager == nil {
		txManager = tx.NewMutexManager()
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &CollectionRepository{store: store, tx: txManager, clock: clk, logger: logger.Named("store")}
}

func (r *CollectionRepository) ListAll(ctx context.Context) ([]domain.Session, error) {
	sessions, _, err := r.load(ctx)
	if err != nil {
		r.logger.Warn("collection read failed, listing as empty", "key", domain.CollectionKey, "error", err)
		return []domain.Session{}, nil
	}
	return sessions, nil
}

func (r *CollectionRepository) GetByID(ctx context.Context, id string) (domain.Session, error) {
	sessions, _, err := r.load(ctx)
	if err != nil {
		return domain.Session{}, err
	}
	idx := indexOf(sessions, id)
	if idx < 0 {
		return domain.Session{}, fmt.Errorf("session %s: %w", id, apperrors.ErrNotFound)
	}
	return sessions[idx], nil
}

func (r *CollectionRepository) Upsert(ctx context.Context, session domain.Session) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	return r.tx.Within(ctx, func(ctx context.Context) error {
		sessions, corrupt, err := r.load(ctx)
		if err != nil {
			return err
		}
		if idx := indexOf(sessions, session.ID); idx >= 0 {
			sessions[idx] = session.Clone()
		} else {
			sessions = append(sessions, session.Clone())
		}
		return r.write(ctx, sessions, corrupt)
	})
}

func (r *CollectionRepository) Update(ctx context.Context, id string, fn func(*domain.Session) error) (domain.Session, error) {
	var updated domain.Session
	err := r.tx.Within(ctx, func(ctx context.Context) error {
		sessions, corrupt, err := r.load(ctx)
		if err != nil {
			return err
		}
		idx := indexOf(sessions, id)
		if idx < 0 {
			return fmt.Errorf("session %s: %w", id, apperrors.ErrNotFound)
		}
		working := sessions[idx].Clone()
		if err := fn(&working); err != nil {
			return err
		}
		if working.ID != id {
			return fmt.Errorf("%w: session id cannot change", apperrors.ErrInvalidInput)
		}
		if err := working.Validate(); err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
		}
		sessions[idx] = working
		if err := r.write(ctx, sessions, corrupt); err != nil {
			return err
		}
		updated = working.Clone()
		return nil
	})
	if err != nil {
		return domain.Session{}, err
	}
	return updated, nil
}

func (r *CollectionRepository) Delete(ctx context.Context, id string) error {
	return r.tx.Within(ctx, func(ctx context.Context) error {
		sessions, corrupt, err := r.load(ctx)
		if err != nil {
			return err
		}
		idx := indexOf(sessions, id)
		if idx < 0 {
			return fmt.Errorf("session %s: %w", id, apperrors.ErrNotFound)
		}
		sessions = append(sessions[:idx], sessions[idx+1:]...)
		return r.write(ctx, sessions, corrupt)
	})
}

// load decodes the collection. Missing or malformed data yields an empty
// collection; for malformed data the raw blob is also returned so write can
// back it up before replacing it. A failed read is returned as an error so no
// write replaces a collection it never saw.
func (r *CollectionRepository) load(ctx context.Context) ([]domain.Session, []byte, error) {
	raw, err := r.store.Get(ctx, domain.CollectionKey)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return []domain.Session{}, nil, nil
		}
		return nil, nil, fmt.Errorf("read sessions: %w", err)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return []domain.Session{}, nil, nil
	}
	decoded := []domain.Session{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		r.logger.Warn("collection is malformed, treating as empty", "key", domain.CollectionKey, "error", err)
		return []domain.Session{}, raw, nil
	}

	out := make([]domain.Session, 0, len(decoded))
	seen := map[string]struct{}{}
	for _, s := range decoded {
		if strings.TrimSpace(s.ID) == "" {
			r.logger.Warn("dropping session without id", "name", s.Name)
			continue
		}
		if _, dup := seen[s.ID]; dup {
			r.logger.Warn("dropping duplicate session", "id", s.ID)
			continue
		}
		seen[s.ID] = struct{}{}
		normalized, notes := s.Normalize()
		for _, note := range notes {
			r.logger.Warn("normalized session", "id", s.ID, "repair", note)
		}
		out = append(out, normalized)
	}
	return out, nil, nil
}

func (r *CollectionRepository) write(ctx context.Context, sessions []domain.Session, corrupt []byte) error {
	if corrupt != nil {
		backupKey := fmt.Sprintf("%s.corrupt-%d", domain.CollectionKey, r.clock.Now().Unix())
		if err := r.store.Set(ctx, backupKey, corrupt); err != nil {
			return fmt.Errorf("back up malformed collection: %w", err)
		}
		r.logger.Warn("backed up malformed collection", "key", backupKey)
	}
	payload, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal sessions: %w", err)
	}
	if err := r.store.Set(ctx, domain.CollectionKey, payload); err != nil {
		return fmt.Errorf("write sessions: %w", err)
	}
	return nil
}

func indexOf(sessions []domain.Session, id string) int {
	for i, s := range sessions {
		if s.ID == id {
			return i
		}
	}
	return -1
}
