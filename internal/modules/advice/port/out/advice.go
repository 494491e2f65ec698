package out

import (
	"context"

	"brewlog/internal/modules/advice/domain"
)

// Advisor answers one brewing question. Failures are returned as errors and
// turned into fallback text by the caller.
type Advisor interface {
	Name() string
	Advise(ctx context.Context, query domain.Query) (string, error)
}

// HealthChecker is implemented by advisors that can verify their setup
// without asking a question.
type HealthChecker interface {
	Check(ctx context.Context) (domain.Metadata, error)
}

type ManifestStore interface {
	Load(ctx context.Context) (domain.Manifest, error)
}
