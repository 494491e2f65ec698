package out

import (
	"context"

	brewdomain "brewlog/internal/modules/brew/domain"
)

// SessionStore is the slice of the brew repository the timer writes through.
// Update must serialize read-modify-write per session.
type SessionStore interface {
	GetByID(ctx context.Context, id string) (brewdomain.Session, error)
	Update(ctx context.Context, id string, fn func(*brewdomain.Session) error) (brewdomain.Session, error)
}
