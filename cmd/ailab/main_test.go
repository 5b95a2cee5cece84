package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qualuo/ai-lab/internal/config"
	"github.com/qualuo/ai-lab/internal/preflight"
)

func TestRootCommandShowsHelp(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	help := out.String()
	for _, sub := range []string{"run", "check", "pull", "shortcuts", "config"} {
		if !strings.Contains(help, sub) {
			t.Fatalf("help missing %q:\n%s", sub, help)
		}
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"config", "init", "--path", target})

	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected sample config: %v", err)
	}

	cfg, _, exists, err := config.Load(target)
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Fatal("expected written config to load")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(target, []byte("# existing\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"config", "init", "--path", target})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected overwrite refusal")
	}
}

func TestOverridesApply(t *testing.T) {
	cfg := config.Default()

	flags := overrides{
		installerURL: "https://mirror.example/OllamaSetup.exe",
		models:       []string{"qwen3"},
		force:        true,
		retries:      7,
		retryDelay:   2,
		mode:         "container",
	}
	if err := flags.apply(&cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Install.InstallerURL != "https://mirror.example/OllamaSetup.exe" {
		t.Fatalf("installer URL not applied: %q", cfg.Install.InstallerURL)
	}
	if len(cfg.Models.Names) != 1 || cfg.Models.Names[0] != "qwen3" {
		t.Fatalf("models not applied: %v", cfg.Models.Names)
	}
	if !cfg.Install.Force || cfg.Retry.Attempts != 7 || cfg.Retry.DelaySeconds != 2 {
		t.Fatalf("flags not applied: %+v %+v", cfg.Install, cfg.Retry)
	}
	if cfg.DeployMode() != config.ModeContainer {
		t.Fatalf("mode not applied: %q", cfg.Install.Mode)
	}
}

func TestOverridesRejectInvalidMode(t *testing.T) {
	cfg := config.Default()
	flags := overrides{mode: "kubernetes"}

	if err := flags.apply(&cfg); err == nil {
		t.Fatal("expected invalid mode to be rejected")
	}
}

func TestPullArgsOverrideModels(t *testing.T) {
	cfg := config.Default()
	cfg.Models.Names = []string{"llama3.2", "gemma3"}

	applyModelArgs(&cfg, []string{"qwen3", "phi4"})
	if len(cfg.Models.Names) != 2 || cfg.Models.Names[0] != "qwen3" || cfg.Models.Names[1] != "phi4" {
		t.Fatalf("positional models not applied: %v", cfg.Models.Names)
	}

	applyModelArgs(&cfg, nil)
	if len(cfg.Models.Names) != 2 || cfg.Models.Names[0] != "qwen3" {
		t.Fatalf("empty args must leave models untouched: %v", cfg.Models.Names)
	}
}

func TestConfigShowRendersResolvedConfig(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	cmd := newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"config", "init", "--path", target})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}

	cmd = newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"config", "show", "--path", target})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}

	rendered := out.String()
	if !strings.Contains(rendered, target) {
		t.Fatalf("show output missing source path:\n%s", rendered)
	}
	for _, section := range []string{"[install]", "[models]", "[retry]"} {
		if !strings.Contains(rendered, section) {
			t.Fatalf("show output missing %q:\n%s", section, rendered)
		}
	}
}

func TestConfigPathPrintsResolvedPath(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"config", "path"})

	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out.String()) == "" {
		t.Fatal("expected a path on stdout")
	}
}

func TestRenderCheckTable(t *testing.T) {
	out := renderCheckTable([]preflight.Result{
		{Name: "host runtime", Passed: true, Detail: "go1.26.1"},
		{Name: "connectivity", Passed: false, Fatal: true, Detail: "probe failed"},
		{Name: "elevation", Passed: false, Detail: "not elevated"},
	})

	for _, want := range []string{"host runtime", "ok", "fail", "warn", "probe failed"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
}
