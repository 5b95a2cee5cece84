package uvtool

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"strings"

	"github.com/qualuo/ai-lab/internal/services"
)

var commandContext = exec.CommandContext

// Client defines package manager behaviour.
type Client interface {
	Version(ctx context.Context) (string, error)
	VerifyPackage(ctx context.Context, pkg string) error
	RunInstallScript(ctx context.Context, scriptPath string) error
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinaries overrides the uv and uvx binary names.
func WithBinaries(uv, uvx string) Option {
	return func(c *CLI) {
		if uv != "" {
			c.uvBinary = uv
		}
		if uvx != "" {
			c.uvxBinary = uvx
		}
	}
}

// CLI wraps the uv and uvx command-line tools.
type CLI struct {
	uvBinary  string
	uvxBinary string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{uvBinary: "uv", uvxBinary: "uvx"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Version reports the installed uv version string.
func (c *CLI) Version(ctx context.Context) (string, error) {
	out, err := commandContext(ctx, c.uvBinary, "--version").CombinedOutput()
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "uv", "version", strings.TrimSpace(string(out)), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// VerifyPackage confirms the execution shim can resolve and launch the given
// package. This stands in for an install step: uvx fetches the package into
// its cache on first use, so a successful --help run proves the front end is
// usable.
func (c *CLI) VerifyPackage(ctx context.Context, pkg string) error {
	pkg = strings.TrimSpace(pkg)
	if pkg == "" {
		return errors.New("package name required")
	}
	out, err := commandContext(ctx, c.uvxBinary, pkg, "--help").CombinedOutput()
	if err != nil {
		detail := lastNonEmptyLine(string(out))
		return services.Wrap(services.ErrExternalTool, "uvx", "verify", pkg+": "+detail, err)
	}
	return nil
}

// RunInstallScript executes uv's downloaded self-installer with the platform
// interpreter.
func (c *CLI) RunInstallScript(ctx context.Context, scriptPath string) error {
	scriptPath = strings.TrimSpace(scriptPath)
	if scriptPath == "" {
		return errors.New("script path required")
	}

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = commandContext(ctx, "powershell", "-ExecutionPolicy", "Bypass", "-File", scriptPath)
	} else {
		cmd = commandContext(ctx, "sh", scriptPath)
	}
	out, err := cmd.CombinedOutput()
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "uv", "self-install", lastNonEmptyLine(string(out)), err)
	}
	return nil
}

func lastNonEmptyLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
