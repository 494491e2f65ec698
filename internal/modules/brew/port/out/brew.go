package out

import (
	"context"

	"brewlog/internal/modules/brew/domain"
)

// KeyValueStore is the on-device substrate. Get returns apperrors.ErrNotFound
// for a key that was never written.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

type SessionRepository interface {
	ListAll(ctx context.Context) ([]domain.Session, error)
	GetByID(ctx context.Context, id string) (domain.Session, error)
	Upsert(ctx context.Context, session domain.Session) error
	// Update loads the latest copy of id, applies fn and writes the result back
	// inside one serialized read-modify-write.
	Update(ctx context.Context, id string, fn func(*domain.Session) error) (domain.Session, error)
	Delete(ctx context.Context, id string) error
}

type JournalExporter interface {
	Export(ctx context.Context, session domain.Session) (string, error)
}
