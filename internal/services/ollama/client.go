package ollama

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/qualuo/ai-lab/internal/services"
)

var commandContext = exec.CommandContext

// Client defines model runner behaviour.
type Client interface {
	Version(ctx context.Context) (string, error)
	Pull(ctx context.Context, model string, progress func(string)) error
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

// CLI wraps the ollama command-line tool.
type CLI struct {
	binary string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "ollama"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Version reports the installed ollama version string.
func (c *CLI) Version(ctx context.Context) (string, error) {
	out, err := commandContext(ctx, c.binary, "--version").CombinedOutput()
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "ollama", "version", strings.TrimSpace(string(out)), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Pull downloads a model's weights, streaming progress lines to the callback.
// ollama exits zero when the model is already present locally.
func (c *CLI) Pull(ctx context.Context, model string, progress func(string)) error {
	model = strings.TrimSpace(model)
	if model == "" {
		return errors.New("model name required")
	}

	cmd := commandContext(ctx, c.binary, "pull", model) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return services.Wrap(services.ErrExternalTool, "ollama", "pull", model, err)
	}

	scanner := bufio.NewScanner(stdout)
	var lastLine string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lastLine = line
		if progress != nil {
			progress(line)
		}
	}

	if err := cmd.Wait(); err != nil {
		return services.Wrap(services.ErrExternalTool, "ollama", "pull", fmt.Sprintf("%s: %s", model, lastLine), err)
	}
	return nil
}
