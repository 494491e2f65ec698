package out

import (
	"context"

	"brewlog/internal/modules/advice/domain"
	adviceout "brewlog/internal/modules/advice/port/out"
)

// NoneAdvisor is used when advice is switched off; every question gets the
// failure fallback.
type NoneAdvisor struct{}

func NewNoneAdvisor() adviceout.Advisor { return NoneAdvisor{} }

func (NoneAdvisor) Name() string { return "none" }

func (NoneAdvisor) Advise(context.Context, domain.Query) (string, error) {
	return "", domain.ErrAdvisorDisabled
}

func (NoneAdvisor) Check(context.Context) (domain.Metadata, error) {
	return domain.Metadata{}, domain.ErrAdvisorDisabled
}
