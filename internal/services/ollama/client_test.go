package ollama

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/qualuo/ai-lab/internal/services"
)

func stubCommand(t *testing.T, mode string, captured *[][]string) {
	t.Helper()
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		if captured != nil {
			*captured = append(*captured, append([]string{name}, args...))
		}
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "OLLAMA_HELPER_MODE="+mode)
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})
}

func TestNewCLIWithBinary(t *testing.T) {
	cli := NewCLI(WithBinary("/opt/ollama"))
	if cli.binary != "/opt/ollama" {
		t.Fatalf("expected binary override to be applied, got %q", cli.binary)
	}
}

func TestPullRequiresModel(t *testing.T) {
	cli := NewCLI()
	if err := cli.Pull(context.Background(), "  ", nil); err == nil {
		t.Fatal("expected error for blank model name")
	}
}

func TestPullStreamsProgress(t *testing.T) {
	var invocations [][]string
	stubCommand(t, "pull-success", &invocations)

	var lines []string
	cli := NewCLI()
	if err := cli.Pull(context.Background(), "llama3.2", func(line string) {
		lines = append(lines, line)
	}); err != nil {
		t.Fatalf("Pull returned error: %v", err)
	}

	if len(invocations) != 1 {
		t.Fatalf("expected one invocation, got %d", len(invocations))
	}
	args := invocations[0]
	if args[1] != "pull" || args[2] != "llama3.2" {
		t.Fatalf("unexpected args %v", args)
	}
	if len(lines) == 0 {
		t.Fatal("expected progress lines")
	}
}

func TestPullFailureIncludesLastLine(t *testing.T) {
	stubCommand(t, "pull-failure", nil)

	cli := NewCLI()
	err := cli.Pull(context.Background(), "llama3.2", nil)
	if err == nil {
		t.Fatal("expected pull failure")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "manifest unknown") {
		t.Fatalf("expected last output line in error, got %v", err)
	}
}

func TestVersion(t *testing.T) {
	stubCommand(t, "version", nil)

	cli := NewCLI()
	version, err := cli.Version(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(version, "0.5.7") {
		t.Fatalf("unexpected version %q", version)
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	switch os.Getenv("OLLAMA_HELPER_MODE") {
	case "pull-success":
		fmt.Println("pulling manifest")
		fmt.Println("pulling 6a0746a1ec1a... 100%")
		fmt.Println("success")
		os.Exit(0)
	case "pull-failure":
		fmt.Println("pulling manifest")
		fmt.Fprintln(os.Stderr, "Error: pull model manifest: manifest unknown")
		os.Exit(1)
	case "version":
		fmt.Println("ollama version is 0.5.7")
		os.Exit(0)
	default:
		os.Exit(0)
	}
}
