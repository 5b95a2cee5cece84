package installer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/qualuo/ai-lab/internal/config"
	"github.com/qualuo/ai-lab/internal/deps"
	"github.com/qualuo/ai-lab/internal/logging"
	"github.com/qualuo/ai-lab/internal/retry"
	"github.com/qualuo/ai-lab/internal/services"
	"github.com/qualuo/ai-lab/internal/services/dockercli"
)

// webUIContainerPort is the port Open WebUI listens on inside its container.
const webUIContainerPort = 8080

// ContainerStrategy installs the model runner natively but runs the web front
// end as a Docker container.
type ContainerStrategy struct {
	cfg    *config.Config
	base   *Installer
	docker dockercli.Client
	runner *retry.Runner
	logger *slog.Logger
	probe  func(string) (string, bool)
}

// NewContainerStrategy wires the container deployment.
func NewContainerStrategy(cfg *config.Config, base *Installer, docker dockercli.Client, runner *retry.Runner, logger *slog.Logger) *ContainerStrategy {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &ContainerStrategy{cfg: cfg, base: base, docker: docker, runner: runner, logger: logger, probe: deps.Probe}
}

// Name implements Strategy.
func (s *ContainerStrategy) Name() string { return string(config.ModeContainer) }

// Ensure installs the model runner, confirms docker is usable, and brings the
// front end container up.
func (s *ContainerStrategy) Ensure(ctx context.Context) ([]Result, error) {
	var results []Result

	native := NewNativeStrategy(s.cfg, s.base, nil, s.runner, s.logger)
	ollamaResult, err := s.base.Ensure(ctx, native.ollamaDependency())
	results = append(results, ollamaResult)
	if err != nil {
		return results, err
	}

	dockerResult := Result{Dependency: "Docker", State: StateUnchecked, Transitions: []State{StateUnchecked}}
	if path, ok := s.probe("docker"); ok {
		dockerResult.transition(StateAlreadyPresent)
		dockerResult.Path = path
	} else {
		dockerResult.transition(StateFailed)
		results = append(results, dockerResult)
		return results, services.Wrap(services.ErrConfiguration, "installer", "docker",
			"docker not found on PATH; install Docker Desktop or switch to native mode", nil)
	}
	results = append(results, dockerResult)

	webuiResult, err := s.ensureContainer(ctx)
	results = append(results, webuiResult)
	if err != nil {
		return results, err
	}

	return results, nil
}

func (s *ContainerStrategy) ensureContainer(ctx context.Context) (Result, error) {
	result := Result{Dependency: "Open WebUI", State: StateUnchecked, Transitions: []State{StateUnchecked}}
	name := s.cfg.WebUI.ContainerName

	exists, err := s.docker.ContainerExists(ctx, name)
	if err != nil {
		result.transition(StateFailed)
		return result, err
	}
	if exists {
		result.transition(StateAlreadyPresent)
		s.logger.Info("front end container already exists", logging.String("container", name))
		if err := s.docker.StartContainer(ctx, name); err != nil {
			result.transition(StateFailed)
			return result, err
		}
		return result, nil
	}

	result.transition(StateDownloading)
	_, err = s.runner.Do(ctx, fmt.Sprintf("pull image %s", s.cfg.WebUI.Image), func(ctx context.Context) error {
		return s.docker.PullImage(ctx, s.cfg.WebUI.Image)
	})
	if err != nil {
		result.transition(StateFailed)
		return result, err
	}

	result.transition(StateInstalling)
	spec := dockercli.RunSpec{
		Image:         s.cfg.WebUI.Image,
		Name:          name,
		HostPort:      s.cfg.WebUI.ContainerPort,
		ContainerPort: webUIContainerPort,
		DataDir:       s.cfg.Paths.DataDir,
	}
	if err := s.docker.RunContainer(ctx, spec); err != nil {
		result.transition(StateFailed)
		return result, err
	}

	result.transition(StateInstalled)
	s.logger.Info("front end container started",
		logging.String("container", name),
		logging.Int("port", s.cfg.WebUI.ContainerPort),
	)
	return result, nil
}
