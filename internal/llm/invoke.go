package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvocation marks any failed model call. Callers distinguish model
// failures from search or catalog failures with errors.Is.
var ErrInvocation = errors.New("model invocation failed")

// Invoke is the single call path the workflow nodes use. It delegates to
// the provider and tags failures with ErrInvocation, keeping the cause
// chain intact.
func Invoke(ctx context.Context, p Provider, prompt string, opts CompletionOpts) (string, error) {
	resp, err := p.Complete(ctx, prompt, opts)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvocation, err)
	}
	return resp, nil
}
