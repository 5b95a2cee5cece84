package models

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/qualuo/ai-lab/internal/logging"
	"github.com/qualuo/ai-lab/internal/retry"
	"github.com/qualuo/ai-lab/internal/services"
	"github.com/qualuo/ai-lab/internal/services/ollama"
)

// Result records the outcome of one model pull.
type Result struct {
	Model    string
	Attempts int
	Err      error
}

// Fetcher pulls a configured list of models sequentially.
type Fetcher struct {
	client ollama.Client
	runner *retry.Runner
	logger *slog.Logger
}

// NewFetcher constructs a Fetcher. A nil logger discards log output.
func NewFetcher(client ollama.Client, runner *retry.Runner, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	if runner == nil {
		runner = retry.New(retry.DefaultAttempts, retry.DefaultDelay)
	}
	return &Fetcher{client: client, runner: runner, logger: logger}
}

// Fetch pulls each named model in order. The first model that cannot be
// pulled aborts the run; models after it are not attempted. Results cover
// only the models that were attempted.
func (f *Fetcher) Fetch(ctx context.Context, names []string) ([]Result, error) {
	models := normalizeNames(names)
	if len(models) == 0 {
		return nil, services.Wrap(services.ErrValidation, "models", "fetch", "no models configured", nil)
	}

	results := make([]Result, 0, len(models))
	for index, model := range models {
		logger := f.logger.With(logging.String("model", model))
		logger.Info("pulling model",
			logging.Int("position", index+1),
			logging.Int("total", len(models)),
		)

		outcome, err := f.runner.Do(ctx, fmt.Sprintf("pull %s", model), func(ctx context.Context) error {
			return f.client.Pull(ctx, model, func(line string) {
				logger.Debug("pull progress", logging.String("detail", line))
			})
		})
		results = append(results, Result{Model: model, Attempts: outcome.Attempts, Err: err})
		if err != nil {
			logger.Error("model pull failed", logging.Error(err))
			return results, err
		}
		logger.Info("model ready")
	}
	return results, nil
}

// normalizeNames trims whitespace and drops empty entries, preserving order.
func normalizeNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		out = append(out, name)
	}
	return out
}
