// Package mirror decides which analysis result a user sees.
//
// The rule-based result is computed for every request. When a remote
// adapter is configured its candidate is validated and, only if it passes,
// shown instead. Remote failures of any kind are logged, counted and
// answered with the rule-based result; they never reach the caller.
package mirror

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/HendryAvila/prompt-mirror/internal/analysis"
	"github.com/HendryAvila/prompt-mirror/internal/remote"
	"github.com/HendryAvila/prompt-mirror/internal/validation"
)

// Source names where a shown result came from.
type Source string

const (
	SourceRuleBased Source = "rule_based"
	SourceRemote    Source = "remote"
)

// DefaultTimeout bounds the remote call when Options.Timeout is unset.
const DefaultTimeout = 20 * time.Second

// Outcome is the selected result for one prompt.
type Outcome struct {
	Input  string          `json:"input"`
	Source Source          `json:"source"`
	State  State           `json:"state"`
	Reason string          `json:"reason,omitempty"` // why a remote candidate was not shown
	Result analysis.Result `json:"result"`
	Notes  []string        `json:"notes"`
}

// Options wires a Service. Every field is optional.
type Options struct {
	Adapter remote.Adapter
	Timeout time.Duration
	Logger  *zap.Logger
	Metrics *Metrics
}

// Service selects between rule-based and remote results.
type Service struct {
	adapter remote.Adapter
	timeout time.Duration
	logger  *zap.Logger
	metrics *Metrics
}

func NewService(opts Options) *Service {
	s := &Service{
		adapter: opts.Adapter,
		timeout: opts.Timeout,
		logger:  opts.Logger,
		metrics: opts.Metrics,
	}
	if s.timeout <= 0 {
		s.timeout = DefaultTimeout
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	s.logger = s.logger.Named("mirror")
	return s
}

// RemoteEnabled reports whether a remote adapter is wired in.
func (s *Service) RemoteEnabled() bool {
	return s.adapter != nil
}

// Analyze returns the result to show for text. It never fails.
func (s *Service) Analyze(ctx context.Context, text string) Outcome {
	ruleBased := analysis.Analyze(text)
	out := Outcome{
		Input:  text,
		Source: SourceRuleBased,
		State:  StateRuleBasedComputed,
		Result: ruleBased,
	}

	if s.adapter == nil {
		return s.finish(out)
	}

	sel, err := newSelection(adapterID(s.adapter))
	if err != nil {
		s.logger.Error("selection machine unavailable", zap.Error(err))
		return s.finish(out)
	}
	sel.send(eventRequestRemote)

	candidate, err := s.fetch(ctx, text)
	if err == nil {
		var res analysis.Result
		res, err = validation.Validate(candidate)
		if err == nil {
			sel.send(eventAccept)
			out.Source = SourceRemote
			out.Result = res
			out.State = sel.current()
			return s.finish(out)
		}
	}

	sel.send(eventReject)
	reason := rejectReason(err)
	s.logger.Warn("remote result discarded, using rule-based result",
		zap.String("reason", reason),
		zap.Error(err),
	)
	s.metrics.reject(reason)
	out.State = sel.current()
	out.Reason = err.Error()
	return s.finish(out)
}

func (s *Service) fetch(ctx context.Context, text string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.adapter.Analyze(ctx, text)
	if err != nil && ctx.Err() != nil {
		return nil, errors.Join(remote.ErrUnavailable, ctx.Err(), err)
	}
	return raw, err
}

func (s *Service) finish(out Outcome) Outcome {
	out.Notes = analysis.Notes(out.Result)
	s.metrics.observe(out.Source, out.Result.Score)
	s.logger.Debug("analysis selected",
		zap.String("source", string(out.Source)),
		zap.String("state", string(out.State)),
		zap.Int("score", out.Result.Score),
	)
	return out
}

// rejectReason labels err for metrics.
func rejectReason(err error) string {
	var rej *validation.Rejection
	switch {
	case errors.As(err, &rej):
		return "invalid_" + rej.Reason()
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, remote.ErrNotConfigured):
		return "not_configured"
	default:
		return "unavailable"
	}
}

func adapterID(a remote.Adapter) string {
	if ider, ok := a.(interface{ ID() string }); ok {
		return ider.ID()
	}
	return "remote"
}
