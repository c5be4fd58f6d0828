package services

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/ersonp/worldloom/internal/domain/entities"
)

// maxGenerationAttempts bounds retries of one generation call.
const maxGenerationAttempts = 3

// retryGeneration retries fn with exponential backoff while it fails with a
// transient generation error. Validation failures and context cancellation are
// permanent. Exhausting the attempt budget surfaces the last error to the
// caller, which aborts the enclosing generation stage.
func retryGeneration[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	policy.MaxElapsedTime = 0

	return backoff.RetryWithData(func() (T, error) {
		v, err := fn()
		if err == nil {
			return v, nil
		}
		if errors.Is(err, entities.ErrGeneration) && ctx.Err() == nil {
			return v, err
		}
		return v, backoff.Permanent(err)
	}, backoff.WithContext(backoff.WithMaxRetries(policy, maxGenerationAttempts-1), ctx))
}
