package retry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/qualuo/ai-lab/internal/logging"
)

const (
	// DefaultAttempts bounds how often a unit of work runs before failing.
	DefaultAttempts = 3
	// DefaultDelay is the pause between consecutive attempts.
	DefaultDelay = 5 * time.Second
)

// Operation is a zero-argument unit of work. It either succeeds or signals
// failure through its error return.
type Operation func(ctx context.Context) error

// Outcome records how a single Do invocation went. It exists for logging and
// assertions; callers normally only consume the error.
type Outcome struct {
	Name      string
	Attempts  int
	Succeeded bool
	Err       error
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger attaches a logger for per-attempt diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithSleeper overrides how inter-attempt sleeps are performed (useful for tests).
func WithSleeper(sleeper func(context.Context, time.Duration) error) Option {
	return func(r *Runner) {
		if sleeper != nil {
			r.sleep = sleeper
		}
	}
}

// Runner executes operations with bounded retries and a fixed delay.
type Runner struct {
	attempts int
	delay    time.Duration
	logger   *slog.Logger
	sleep    func(context.Context, time.Duration) error
}

// New constructs a Runner. Attempts below 1 and negative delays are clamped to
// the defaults so a zero-valued config still yields a usable runner.
func New(attempts int, delay time.Duration, opts ...Option) *Runner {
	if attempts < 1 {
		attempts = DefaultAttempts
	}
	if delay < 0 {
		delay = DefaultDelay
	}
	runner := &Runner{
		attempts: attempts,
		delay:    delay,
		logger:   logging.NewNop(),
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(runner)
	}
	return runner
}

// Attempts reports the configured attempt limit.
func (r *Runner) Attempts() int { return r.attempts }

// Delay reports the configured inter-attempt delay.
func (r *Runner) Delay() time.Duration { return r.delay }

// Do runs op until it succeeds or the attempt limit is exhausted, waiting the
// configured delay between failures. The returned Outcome always reflects the
// true attempt count, including for context cancellation mid-wait.
func (r *Runner) Do(ctx context.Context, name string, op Operation) (Outcome, error) {
	outcome := Outcome{Name: name}
	var lastErr error

	for attempt := 1; attempt <= r.attempts; attempt++ {
		outcome.Attempts = attempt
		err := op(ctx)
		if err == nil {
			outcome.Succeeded = true
			if attempt > 1 {
				r.logger.Info("operation succeeded after retry",
					logging.String("operation", name),
					logging.Int("attempt", attempt),
				)
			}
			return outcome, nil
		}
		lastErr = err

		if attempt == r.attempts {
			break
		}
		r.logger.Warn("operation failed; retrying",
			logging.String("operation", name),
			logging.Int("attempt", attempt),
			logging.Int("remaining", r.attempts-attempt),
			logging.Duration("delay", r.delay),
			logging.Error(err),
		)
		if sleepErr := r.sleep(ctx, r.delay); sleepErr != nil {
			outcome.Err = sleepErr
			return outcome, sleepErr
		}
	}

	outcome.Err = lastErr
	r.logger.Error("operation failed after final attempt",
		logging.String("operation", name),
		logging.Int("attempts", outcome.Attempts),
		logging.Error(lastErr),
	)
	return outcome, fmt.Errorf("%s failed after %d attempts: %w", name, outcome.Attempts, lastErr)
}

// DoValue runs op through runner and returns its result alongside the retry
// error semantics of Runner.Do.
func DoValue[T any](ctx context.Context, runner *Runner, name string, op func(ctx context.Context) (T, error)) (T, Outcome, error) {
	var result T
	outcome, err := runner.Do(ctx, name, func(ctx context.Context) error {
		value, opErr := op(ctx)
		if opErr != nil {
			return opErr
		}
		result = value
		return nil
	})
	if err != nil {
		var zero T
		return zero, outcome, err
	}
	return result, outcome, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
