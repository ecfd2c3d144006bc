package remote

import (
	"context"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/felixgeelhaar/fortify/timeout"
)

// ResilienceConfig bounds how hard a ResilientCompleter tries.
type ResilienceConfig struct {
	MaxAttempts int
	RetryDelay  time.Duration
	Timeout     time.Duration
}

// ResilientCompleter retries a Completer with exponential backoff inside
// an overall timeout.
type ResilientCompleter struct {
	inner    Completer
	retryCfg retry.Config
	limit    time.Duration
}

func NewResilientCompleter(inner Completer, cfg ResilienceConfig) *ResilientCompleter {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 2
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 500 * time.Millisecond
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	return &ResilientCompleter{
		inner: inner,
		retryCfg: retry.Config{
			MaxAttempts:   cfg.MaxAttempts,
			InitialDelay:  cfg.RetryDelay,
			BackoffPolicy: retry.BackoffExponential,
		},
		limit: cfg.Timeout,
	}
}

func (p *ResilientCompleter) ID() string {
	return p.inner.ID()
}

func (p *ResilientCompleter) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	r := retry.New[*CompletionResponse](p.retryCfg)
	t := timeout.New[*CompletionResponse](timeout.Config{DefaultTimeout: p.limit})
	return t.Execute(ctx, p.limit, func(ctx context.Context) (*CompletionResponse, error) {
		return r.Do(ctx, func(ctx context.Context) (*CompletionResponse, error) {
			return p.inner.Complete(ctx, req)
		})
	})
}
