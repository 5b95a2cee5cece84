package winget

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/qualuo/ai-lab/internal/services"
)

var commandContext = exec.CommandContext

// Client defines the fallback install channel behaviour.
type Client interface {
	Install(ctx context.Context, packageID string) error
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// CLI wraps the winget command-line tool.
type CLI struct {
	binary string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "winget"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Install installs the package silently, accepting agreements so the run
// never blocks on a prompt.
func (c *CLI) Install(ctx context.Context, packageID string) error {
	packageID = strings.TrimSpace(packageID)
	if packageID == "" {
		return errors.New("package id required")
	}
	args := []string{
		"install", "--id", packageID,
		"--silent",
		"--accept-package-agreements",
		"--accept-source-agreements",
	}
	out, err := commandContext(ctx, c.binary, args...).CombinedOutput()
	if err != nil {
		detail := packageID
		if line := lastNonEmptyLine(string(out)); line != "" {
			detail += ": " + line
		}
		return services.Wrap(services.ErrExternalTool, "winget", "install", detail, err)
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
