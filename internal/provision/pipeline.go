package provision

import (
	"context"
	"log/slog"
	"strings"

	"github.com/qualuo/ai-lab/internal/config"
	"github.com/qualuo/ai-lab/internal/installer"
	"github.com/qualuo/ai-lab/internal/logging"
	"github.com/qualuo/ai-lab/internal/models"
	"github.com/qualuo/ai-lab/internal/preflight"
	"github.com/qualuo/ai-lab/internal/retry"
	"github.com/qualuo/ai-lab/internal/services"
	"github.com/qualuo/ai-lab/internal/services/dockercli"
	"github.com/qualuo/ai-lab/internal/services/ollama"
	"github.com/qualuo/ai-lab/internal/services/uvtool"
	"github.com/qualuo/ai-lab/internal/services/winget"
	"github.com/qualuo/ai-lab/internal/shortcut"
)

// Stage names, in pipeline order.
const (
	StagePreflight = "preflight"
	StageInstall   = "install"
	StageModels    = "models"
	StageShortcuts = "shortcuts"
)

// Pipeline bundles the wired stage implementations for one run.
type Pipeline struct {
	cfg      *config.Config
	logger   *slog.Logger
	runner   *retry.Runner
	progress bool
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithProgress enables terminal progress bars for downloads. Callers gate
// this on whether stdout is a terminal.
func WithProgress(enabled bool) PipelineOption {
	return func(p *Pipeline) {
		p.progress = enabled
	}
}

// NewPipeline wires the stage collaborators from configuration.
func NewPipeline(cfg *config.Config, logger *slog.Logger, opts ...PipelineOption) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	p := &Pipeline{
		cfg:    cfg,
		logger: logger,
		runner: retry.New(cfg.Retry.Attempts, cfg.RetryDelay(), retry.WithLogger(logger)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Stages returns the full pipeline in execution order.
func (p *Pipeline) Stages() []Stage {
	return []Stage{
		StageFunc{StageName: StagePreflight, Func: p.RunPreflight},
		StageFunc{StageName: StageInstall, Func: p.RunInstall},
		StageFunc{StageName: StageModels, Func: p.RunModels},
		StageFunc{StageName: StageShortcuts, Func: p.RunShortcuts},
	}
}

// RunPreflight evaluates the host checks and fails on any fatal result.
func (p *Pipeline) RunPreflight(ctx context.Context) error {
	results := preflight.RunAll(ctx, p.cfg)
	logPreflightResults(p.logger, results)
	if !preflight.Go(results) {
		return services.Wrap(services.ErrValidation, "preflight", "check",
			"host environment checks failed", nil)
	}
	return nil
}

// RunInstall ensures every component for the configured deployment mode.
func (p *Pipeline) RunInstall(ctx context.Context) error {
	strategy := p.Strategy()
	p.logger.Info("ensuring components", logging.String("strategy", strategy.Name()))

	results, err := strategy.Ensure(ctx)
	for _, result := range results {
		p.logger.Info("component state",
			logging.String("dependency", result.Dependency),
			logging.String("state", string(result.State)),
			logging.String("path", result.Path),
		)
	}
	return err
}

// RunModels pulls every configured model through the model runner.
func (p *Pipeline) RunModels(ctx context.Context) error {
	fetcher := models.NewFetcher(ollama.NewCLI(ollama.WithBinary(p.cfg.OllamaBinary())), p.runner, p.logger)
	_, err := fetcher.Fetch(ctx, p.cfg.Models.Names)
	return err
}

// RunShortcuts writes the desktop launch artifacts.
func (p *Pipeline) RunShortcuts(context.Context) error {
	_, err := shortcut.NewProvisioner(p.cfg, p.logger).Provision()
	return err
}

// Strategy resolves the component install strategy for the configured mode.
func (p *Pipeline) Strategy() installer.Strategy {
	base := installer.New(installer.Options{
		CacheDir: p.cfg.Paths.CacheDir,
		Force:    p.cfg.Install.Force,
		Progress: p.progress,
		Logger:   p.logger,
		Runner:   p.runner,
		Fallback: winget.NewCLI().Install,
	})

	if p.cfg.DeployMode() == config.ModeContainer {
		return installer.NewContainerStrategy(p.cfg, base, dockercli.NewCLI(), p.runner, p.logger)
	}
	uv := uvtool.NewCLI(uvtool.WithBinaries(p.cfg.UvBinary(), p.cfg.UvxBinary()))
	return installer.NewNativeStrategy(p.cfg, base, uv, p.runner, p.logger)
}

func logPreflightResults(logger *slog.Logger, results []preflight.Result) {
	for _, result := range results {
		attrs := []logging.Attr{
			logging.String("check", result.Name),
			logging.Bool("passed", result.Passed),
		}
		if detail := strings.TrimSpace(result.Detail); detail != "" {
			attrs = append(attrs, logging.String("detail", detail))
		}
		switch {
		case result.Passed:
			logger.Info("preflight check passed", logging.Args(attrs...)...)
		case result.Fatal:
			logger.Error("preflight check failed", logging.Args(attrs...)...)
		default:
			logger.Warn("preflight check warning", logging.Args(attrs...)...)
		}
	}
}
