package installer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/qualuo/ai-lab/internal/deps"
	"github.com/qualuo/ai-lab/internal/download"
	"github.com/qualuo/ai-lab/internal/logging"
	"github.com/qualuo/ai-lab/internal/retry"
	"github.com/qualuo/ai-lab/internal/services"
)

var commandContext = exec.CommandContext

// Dependency describes one external tool to ensure.
type Dependency struct {
	Name    string
	Command string
	// DownloadURL is the primary install channel. Empty means the dependency
	// has no download step of its own.
	DownloadURL string
	// ArtifactName is the cached file name; defaults to the URL's base name.
	ArtifactName string
	// InstallArgs are passed to the downloaded installer executable.
	InstallArgs []string
	// FallbackPackage is the secondary channel's package ID; empty disables
	// the fallback.
	FallbackPackage string
	// ExtraPathDirs are directories this dependency's installer is known to
	// populate, folded into the verification snapshot.
	ExtraPathDirs []string
	// RunInstaller overrides how the downloaded artifact is executed. The
	// default launches the artifact itself with InstallArgs.
	RunInstaller func(ctx context.Context, artifactPath string) error
}

// Options wires an Installer's collaborators. Zero-valued fields get working
// defaults; tests inject fakes.
type Options struct {
	CacheDir string
	Force    bool
	// Progress renders a terminal progress bar during downloads.
	Progress bool
	Logger   *slog.Logger
	Runner   *retry.Runner
	// Probe resolves a command on the current search path.
	Probe func(command string) (string, bool)
	// Download fetches url into dest.
	Download func(ctx context.Context, url, dest string) error
	// Fallback installs via the secondary channel.
	Fallback func(ctx context.Context, packageID string) error
	// Snapshot captures the search path for post-install verification.
	Snapshot func(extraDirs ...string) deps.Snapshot
}

// Installer drives the per-dependency state machine.
type Installer struct {
	cacheDir string
	force    bool
	logger   *slog.Logger
	runner   *retry.Runner
	probe    func(string) (string, bool)
	download func(context.Context, string, string) error
	fallback func(context.Context, string) error
	snapshot func(...string) deps.Snapshot
}

// New constructs an Installer from options.
func New(opts Options) *Installer {
	inst := &Installer{
		cacheDir: opts.CacheDir,
		force:    opts.Force,
		logger:   opts.Logger,
		runner:   opts.Runner,
		probe:    opts.Probe,
		download: opts.Download,
		fallback: opts.Fallback,
		snapshot: opts.Snapshot,
	}
	if inst.logger == nil {
		inst.logger = logging.NewNop()
	}
	if inst.runner == nil {
		inst.runner = retry.New(retry.DefaultAttempts, retry.DefaultDelay)
	}
	if inst.probe == nil {
		inst.probe = deps.Probe
	}
	if inst.download == nil {
		progress := opts.Progress
		inst.download = func(ctx context.Context, url, dest string) error {
			return download.Fetch(ctx, url, dest, download.Options{Progress: progress})
		}
	}
	if inst.snapshot == nil {
		inst.snapshot = deps.TakeSnapshot
	}
	return inst
}

// Ensure drives dep to a terminal state. The returned Result always carries
// the full transition history; the error is non-nil exactly when the terminal
// state is Failed.
func (i *Installer) Ensure(ctx context.Context, dep Dependency) (Result, error) {
	result := Result{Dependency: dep.Name, State: StateUnchecked, Transitions: []State{StateUnchecked}}
	logger := i.logger.With(logging.String("dependency", dep.Name))

	if !i.force {
		if path, ok := i.probe(dep.Command); ok {
			result.transition(StateAlreadyPresent)
			result.Path = path
			logger.Info("dependency already installed", logging.String("path", path))
			return result, nil
		}
	}

	artifact, err := i.ensureArtifact(ctx, logger, dep, &result)
	if err != nil {
		return result, err
	}

	// A successful fallback install skips the Installing step; the secondary
	// channel ran the installer itself.
	if result.State != StateVerifying {
		result.transition(StateInstalling)
		logger.Info("running installer", logging.String("artifact", artifact))
		if err := i.runInstaller(ctx, dep, artifact); err != nil {
			result.transition(StateFailed)
			logger.Error("installer failed", logging.Error(err))
			return result, err
		}
		result.transition(StateVerifying)
	}

	snapshot := i.snapshot(dep.ExtraPathDirs...)
	path, ok := snapshot.Lookup(dep.Command)
	if !ok {
		result.transition(StateFailed)
		err := services.Wrap(services.ErrExternalTool, "installer", "verify", fmt.Sprintf("%s installed but %q not found on PATH", dep.Name, dep.Command), nil)
		logger.Error("verification failed", logging.Error(err))
		return result, err
	}
	if err := snapshot.Apply(); err != nil {
		logger.Warn("could not refresh process PATH", logging.Error(err))
	}

	result.transition(StateInstalled)
	result.Path = path
	logger.Info("dependency installed", logging.String("path", path))
	return result, nil
}

// ensureArtifact leaves result in StateDownloading on success, or
// StateVerifying when the fallback channel installed the dependency directly.
func (i *Installer) ensureArtifact(ctx context.Context, logger *slog.Logger, dep Dependency, result *Result) (string, error) {
	result.transition(StateDownloading)

	if strings.TrimSpace(dep.DownloadURL) == "" {
		result.transition(StateFailed)
		return "", services.Wrap(services.ErrConfiguration, "installer", "download", dep.Name+": no download URL configured", nil)
	}

	artifactName := strings.TrimSpace(dep.ArtifactName)
	if artifactName == "" {
		artifactName = filepath.Base(dep.DownloadURL)
	}
	artifact := filepath.Join(i.cacheDir, artifactName)

	if !i.force {
		if info, err := os.Stat(artifact); err == nil && info.Size() > 0 {
			logger.Info("using cached installer artifact", logging.String("artifact", artifact))
			return artifact, nil
		}
	}

	_, err := i.runner.Do(ctx, fmt.Sprintf("download %s", dep.Name), func(ctx context.Context) error {
		return i.download(ctx, dep.DownloadURL, artifact)
	})
	if err == nil {
		return artifact, nil
	}

	logger.Warn("primary download channel exhausted", logging.Error(err))
	if dep.FallbackPackage == "" || i.fallback == nil {
		result.transition(StateFailed)
		return "", err
	}

	// Secondary channel: tried exactly once, no retry wrapper.
	logger.Info("attempting secondary install channel", logging.String("package", dep.FallbackPackage))
	if fbErr := i.fallback(ctx, dep.FallbackPackage); fbErr != nil {
		result.transition(StateFailed)
		return "", services.Wrap(services.ErrExternalTool, "installer", "fallback", dep.Name, fbErr)
	}
	result.transition(StateVerifying)
	return "", nil
}

func (i *Installer) runInstaller(ctx context.Context, dep Dependency, artifact string) error {
	if dep.RunInstaller != nil {
		return dep.RunInstaller(ctx, artifact)
	}
	out, err := commandContext(ctx, artifact, dep.InstallArgs...).CombinedOutput() //nolint:gosec
	if err != nil {
		detail := strings.TrimSpace(string(out))
		return services.Wrap(services.ErrExternalTool, "installer", "install", fmt.Sprintf("%s: %s", dep.Name, detail), err)
	}
	return nil
}
