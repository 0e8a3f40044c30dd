package helper

import (
	"context"
	"math"
	"time"

	"github.com/caas-team/readygate/internal/logger"
)

// RetryConfig configures the retry behaviour of an effector.
// A Count of zero means the effector runs exactly once.
type RetryConfig struct {
	Count int           `json:"count" yaml:"count" mapstructure:"count"`
	Delay time.Duration `json:"delay" yaml:"delay" mapstructure:"delay"`
}

// Effector will be the function that is called by the Retry function
type Effector func(context.Context) error

// Retry will retry the run the effector function in an exponential backoff
func Retry(effector Effector, rc RetryConfig) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		log := logger.FromContext(ctx)
		for r := 1; ; r++ {
			err := effector(ctx)
			if err == nil || r > rc.Count {
				return err
			}

			delay := getExpBackoff(rc.Delay, r)
			log.DebugContext(ctx, "Effector call failed, retrying", "delay", delay.String(), "attempt", r, "error", err)

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
}

// calculate the exponential delay for a given iteration
// first iteration is 1
func getExpBackoff(initialDelay time.Duration, iteration int) time.Duration {
	if iteration <= 1 {
		return initialDelay
	}
	return time.Duration(math.Pow(2, float64(iteration-1))) * initialDelay
}
