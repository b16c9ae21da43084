// Package suggest asks a language model for a shell command matching input
// the interpreter did not recognize.
package suggest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mako10k/shellassist/internal/logging"
	"github.com/mako10k/shellassist/internal/metrics"
)

// DefaultTimeout bounds one suggestion request.
const DefaultTimeout = 30 * time.Second

// Messages shown in place of a suggestion.
const (
	EmptyQueryMessage = "Please provide a query."
	apologyFormat     = `Sorry, I could not generate a command for: "%s"`
)

var (
	ErrTimeout       = errors.New("suggestion request timed out")
	ErrEmptyResponse = errors.New("model returned no command")
)

// Provider turns a natural-language query into a single shell command.
type Provider interface {
	Suggest(ctx context.Context, query string) (string, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, query string) (string, error)

// Suggest calls f.
func (f ProviderFunc) Suggest(ctx context.Context, query string) (string, error) {
	return f(ctx, query)
}

// Apology is the message shown when no suggestion could be produced.
func Apology(query string) string {
	return fmt.Sprintf(apologyFormat, query)
}

// Fallback wraps a Provider so that every call settles with a displayable
// string within Timeout.
type Fallback struct {
	Provider Provider
	Timeout  time.Duration
}

// NewFallback returns a Fallback with the default timeout when timeout is
// not positive.
func NewFallback(p Provider, timeout time.Duration) *Fallback {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fallback{Provider: p, Timeout: timeout}
}

// Suggest never fails. A blank query yields EmptyQueryMessage; provider
// errors, empty answers and timeouts yield the apology for query as given.
func (f *Fallback) Suggest(ctx context.Context, query string) string {
	if strings.TrimSpace(query) == "" {
		return EmptyQueryMessage
	}
	logger := logging.WithContext(ctx).With(zap.String("query", query))

	start := time.Now()
	out, err := f.call(ctx, query)
	elapsed := time.Since(start)

	switch {
	case errors.Is(err, ErrTimeout):
		metrics.RecordCollaborator(metrics.OutcomeTimeout, elapsed)
		logger.Warn("suggestion timed out", zap.Duration("timeout", f.Timeout))
		return Apology(query)
	case err != nil:
		metrics.RecordCollaborator(metrics.OutcomeError, elapsed)
		logger.Error("error getting command suggestion", zap.Error(err))
		return Apology(query)
	}
	metrics.RecordCollaborator(metrics.OutcomeOK, elapsed)
	logger.Debug("suggestion received", zap.String("command", out), zap.Duration("duration", elapsed))
	return out
}

// call runs the provider in its own goroutine so a provider that ignores
// its context still cannot hold the session past the timeout.
func (f *Fallback) call(ctx context.Context, query string) (string, error) {
	if f.Provider == nil {
		return "", errors.New("no suggestion provider configured")
	}
	callCtx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()

	type answer struct {
		out string
		err error
	}
	done := make(chan answer, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- answer{err: fmt.Errorf("suggestion provider panicked: %v", r)}
			}
		}()
		s, err := f.Provider.Suggest(callCtx, query)
		done <- answer{out: s, err: err}
	}()

	select {
	case a := <-done:
		if a.err != nil {
			if errors.Is(a.err, context.DeadlineExceeded) && callCtx.Err() == context.DeadlineExceeded {
				return "", ErrTimeout
			}
			return "", a.err
		}
		s := strings.TrimSpace(a.out)
		if s == "" {
			return "", ErrEmptyResponse
		}
		return s, nil
	case <-callCtx.Done():
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return "", ErrTimeout
		}
		return "", callCtx.Err()
	}
}
