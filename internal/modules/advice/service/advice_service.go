package service

import (
	"context"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"brewlog/internal/modules/advice/domain"
	adviceout "brewlog/internal/modules/advice/port/out"
)

type AdviceService struct {
	advisor adviceout.Advisor
	timeout time.Duration
	logger  hclog.Logger
}

func NewAdviceService(advisor adviceout.Advisor, timeout time.Duration, logger hclog.Logger) *AdviceService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &AdviceService{advisor: advisor, timeout: timeout, logger: logger.Named("advice")}
}

func (s *AdviceService) Provider() string {
	if s.advisor == nil {
		return "none"
	}
	return s.advisor.Name()
}

// Ask sends query to the advisor and always yields an answer; failures become
// fallback text and are only logged.
func (s *AdviceService) Ask(ctx context.Context, query domain.Query) domain.Answer {
	provider := s.Provider()
	if s.advisor == nil {
		s.logger.Warn("no advisor configured, using fallback")
		return domain.Resolve(provider, "", domain.ErrAdvisorDisabled)
	}

	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	started := time.Now()
	text, err := s.advisor.Advise(callCtx, query)
	if err != nil {
		s.logger.Error("advisor failed", "provider", provider, "phase", query.Phase, "error", err)
	}
	answer := domain.Resolve(provider, text, err)
	if answer.Fallback {
		s.logger.Warn("advice fallback", "provider", provider, "reply", answer.Text)
	} else {
		s.logger.Debug("advice received", "provider", provider, "elapsed", time.Since(started))
	}
	return answer
}

func (s *AdviceService) Check(ctx context.Context) (domain.Metadata, error) {
	if s.advisor == nil {
		return domain.Metadata{}, domain.ErrAdvisorDisabled
	}
	checker, ok := s.advisor.(adviceout.HealthChecker)
	if !ok {
		return domain.Metadata{Name: s.advisor.Name()}, nil
	}
	callCtx, cancel := s.callContext(ctx)
	defer cancel()
	return checker.Check(callCtx)
}

func (s *AdviceService) callContext(parent context.Context) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok || s.timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, s.timeout)
}
