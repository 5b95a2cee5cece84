package installer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/qualuo/ai-lab/internal/config"
	"github.com/qualuo/ai-lab/internal/logging"
	"github.com/qualuo/ai-lab/internal/retry"
	"github.com/qualuo/ai-lab/internal/services/uvtool"
)

// Strategy provisions the complete tool set for one deployment mode.
type Strategy interface {
	Name() string
	Ensure(ctx context.Context) ([]Result, error)
}

// NativeStrategy installs the model runner via its installer executable and
// serves the web front end through the uv execution shim.
type NativeStrategy struct {
	cfg    *config.Config
	base   *Installer
	uv     uvtool.Client
	runner *retry.Runner
	logger *slog.Logger
}

// NewNativeStrategy wires the native deployment.
func NewNativeStrategy(cfg *config.Config, base *Installer, uv uvtool.Client, runner *retry.Runner, logger *slog.Logger) *NativeStrategy {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &NativeStrategy{cfg: cfg, base: base, uv: uv, runner: runner, logger: logger}
}

// Name implements Strategy.
func (s *NativeStrategy) Name() string { return string(config.ModeNative) }

// Ensure installs, in order, the model runner, the package manager, and the
// web front end. The first failure aborts.
func (s *NativeStrategy) Ensure(ctx context.Context) ([]Result, error) {
	var results []Result

	ollamaResult, err := s.base.Ensure(ctx, s.ollamaDependency())
	results = append(results, ollamaResult)
	if err != nil {
		return results, err
	}

	uvResult, err := s.base.Ensure(ctx, s.uvDependency())
	results = append(results, uvResult)
	if err != nil {
		return results, err
	}

	webuiResult, err := s.verifyWebUI(ctx)
	results = append(results, webuiResult)
	if err != nil {
		return results, err
	}

	return results, nil
}

func (s *NativeStrategy) ollamaDependency() Dependency {
	dep := Dependency{
		Name:            "Ollama",
		Command:         s.cfg.OllamaBinary(),
		DownloadURL:     s.cfg.Install.InstallerURL,
		FallbackPackage: s.cfg.Install.WingetPackage,
		ExtraPathDirs:   ollamaInstallDirs(),
	}
	if runtime.GOOS == "windows" {
		// Inno Setup silent-install flags.
		dep.InstallArgs = []string{"/VERYSILENT", "/SUPPRESSMSGBOXES", "/NORESTART"}
	}
	return dep
}

func (s *NativeStrategy) uvDependency() Dependency {
	return Dependency{
		Name:          "uv",
		Command:       s.cfg.UvBinary(),
		DownloadURL:   s.cfg.Install.UvInstallURL,
		ExtraPathDirs: uvInstallDirs(),
		RunInstaller: func(ctx context.Context, artifactPath string) error {
			return s.uv.RunInstallScript(ctx, artifactPath)
		},
	}
}

// verifyWebUI is the degenerate installer: the front end has no download or
// install step, only a verification call through the uv execution shim.
func (s *NativeStrategy) verifyWebUI(ctx context.Context) (Result, error) {
	result := Result{Dependency: "Open WebUI", State: StateUnchecked, Transitions: []State{StateUnchecked}}
	result.transition(StateVerifying)

	pkg := s.cfg.WebUI.Package
	_, err := s.runner.Do(ctx, fmt.Sprintf("verify %s", pkg), func(ctx context.Context) error {
		return s.uv.VerifyPackage(ctx, pkg)
	})
	if err != nil {
		result.transition(StateFailed)
		return result, err
	}
	result.transition(StateInstalled)
	s.logger.Info("web front end verified", logging.String("package", pkg))
	return result, nil
}

func ollamaInstallDirs() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	if runtime.GOOS == "windows" {
		return []string{filepath.Join(home, "AppData", "Local", "Programs", "Ollama")}
	}
	return []string{"/usr/local/bin", filepath.Join(home, ".local", "bin")}
}

func uvInstallDirs() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(home, ".local", "bin"), filepath.Join(home, ".cargo", "bin")}
}
