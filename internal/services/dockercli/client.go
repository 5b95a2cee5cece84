package dockercli

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/qualuo/ai-lab/internal/services"
)

var commandContext = exec.CommandContext

// RunSpec describes the web front end container to ensure.
type RunSpec struct {
	Image         string
	Name          string
	HostPort      int
	ContainerPort int
	DataDir       string
}

// Client defines container runtime behaviour.
type Client interface {
	PullImage(ctx context.Context, image string) error
	ContainerExists(ctx context.Context, name string) (bool, error)
	StartContainer(ctx context.Context, name string) error
	RunContainer(ctx context.Context, spec RunSpec) error
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

// CLI wraps the docker command-line tool.
type CLI struct {
	binary string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "docker"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// PullImage fetches the image; docker is a no-op when it is already present.
func (c *CLI) PullImage(ctx context.Context, image string) error {
	image = strings.TrimSpace(image)
	if image == "" {
		return errors.New("image required")
	}
	out, err := commandContext(ctx, c.binary, "pull", image).CombinedOutput()
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "docker", "pull", lastNonEmptyLine(string(out)), err)
	}
	return nil
}

// ContainerExists reports whether a container with the given name exists in
// any state.
func (c *CLI) ContainerExists(ctx context.Context, name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, errors.New("container name required")
	}
	out, err := commandContext(ctx, c.binary, "ps", "--all", "--filter", "name=^"+name+"$", "--format", "{{.Names}}").CombinedOutput()
	if err != nil {
		return false, services.Wrap(services.ErrExternalTool, "docker", "ps", lastNonEmptyLine(string(out)), err)
	}
	for _, line := range strings.Split(string(out), "\n") {
		if strings.TrimSpace(line) == name {
			return true, nil
		}
	}
	return false, nil
}

// StartContainer starts an existing stopped container. Starting a running
// container is a no-op for docker.
func (c *CLI) StartContainer(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("container name required")
	}
	out, err := commandContext(ctx, c.binary, "start", name).CombinedOutput()
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "docker", "start", lastNonEmptyLine(string(out)), err)
	}
	return nil
}

// RunContainer creates and starts the front end container detached with a
// restart policy, publishing the UI port and mounting the data directory.
func (c *CLI) RunContainer(ctx context.Context, spec RunSpec) error {
	if strings.TrimSpace(spec.Image) == "" {
		return errors.New("image required")
	}
	if strings.TrimSpace(spec.Name) == "" {
		return errors.New("container name required")
	}
	if spec.HostPort <= 0 || spec.ContainerPort <= 0 {
		return errors.New("ports required")
	}

	args := []string{
		"run", "--detach",
		"--name", spec.Name,
		"--publish", fmt.Sprintf("%d:%d", spec.HostPort, spec.ContainerPort),
		"--restart", "always",
	}
	if dir := strings.TrimSpace(spec.DataDir); dir != "" {
		args = append(args, "--volume", dir+":/app/backend/data")
	}
	args = append(args, spec.Image)

	out, err := commandContext(ctx, c.binary, args...).CombinedOutput()
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "docker", "run", lastNonEmptyLine(string(out)), err)
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
