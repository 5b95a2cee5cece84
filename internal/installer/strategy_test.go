package installer

import (
	"context"
	"errors"
	"testing"

	"github.com/qualuo/ai-lab/internal/config"
	"github.com/qualuo/ai-lab/internal/services/dockercli"
)

type fakeUv struct {
	verifyErr  error
	verified   []string
	installErr error
	installed  []string
}

func (f *fakeUv) Version(context.Context) (string, error) { return "uv 0.6.3", nil }

func (f *fakeUv) VerifyPackage(_ context.Context, pkg string) error {
	f.verified = append(f.verified, pkg)
	return f.verifyErr
}

func (f *fakeUv) RunInstallScript(_ context.Context, script string) error {
	f.installed = append(f.installed, script)
	return f.installErr
}

type fakeDocker struct {
	exists    bool
	existsErr error
	pullErr   error
	runErr    error
	startErr  error
	pulled    []string
	started   []string
	runs      []dockercli.RunSpec
}

func (f *fakeDocker) PullImage(_ context.Context, image string) error {
	f.pulled = append(f.pulled, image)
	return f.pullErr
}

func (f *fakeDocker) ContainerExists(context.Context, string) (bool, error) {
	return f.exists, f.existsErr
}

func (f *fakeDocker) StartContainer(_ context.Context, name string) error {
	f.started = append(f.started, name)
	return f.startErr
}

func (f *fakeDocker) RunContainer(_ context.Context, spec dockercli.RunSpec) error {
	f.runs = append(f.runs, spec)
	return f.runErr
}

// presentInstaller reports every probed command as already on PATH.
func presentInstaller(t *testing.T) *Installer {
	t.Helper()
	return New(Options{
		CacheDir: t.TempDir(),
		Runner:   testRunner(1),
		Probe:    func(command string) (string, bool) { return "/usr/bin/" + command, true },
	})
}

func TestNativeStrategyOrderAndResults(t *testing.T) {
	cfg := config.Default()
	uv := &fakeUv{}
	strategy := NewNativeStrategy(&cfg, presentInstaller(t), uv, testRunner(1), nil)

	results, err := strategy.Ensure(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	wantOrder := []string{"Ollama", "uv", "Open WebUI"}
	for i, want := range wantOrder {
		if results[i].Dependency != want {
			t.Fatalf("expected %q at position %d, got %q", want, i, results[i].Dependency)
		}
	}
	if results[0].State != StateAlreadyPresent || results[1].State != StateAlreadyPresent {
		t.Fatalf("expected tools already present, got %q and %q", results[0].State, results[1].State)
	}
	if results[2].State != StateInstalled {
		t.Fatalf("expected front end verified, got %q", results[2].State)
	}
	if len(uv.verified) != 1 || uv.verified[0] != cfg.WebUI.Package {
		t.Fatalf("expected verification of %q, got %v", cfg.WebUI.Package, uv.verified)
	}
}

func TestNativeStrategyAbortsOnFirstFailure(t *testing.T) {
	cfg := config.Default()
	uv := &fakeUv{}
	// Nothing on PATH and the download always fails, so the first dependency
	// terminates the run.
	base := New(Options{
		CacheDir: t.TempDir(),
		Runner:   testRunner(1),
		Probe:    func(string) (string, bool) { return "", false },
		Download: func(context.Context, string, string) error { return errors.New("reset") },
		Fallback: func(context.Context, string) error { return errors.New("no source") },
	})
	strategy := NewNativeStrategy(&cfg, base, uv, testRunner(1), nil)

	results, err := strategy.Ensure(context.Background())
	if err == nil {
		t.Fatal("expected failure")
	}
	if len(results) != 1 {
		t.Fatalf("expected run to stop after first dependency, got %d results", len(results))
	}
	if results[0].State != StateFailed {
		t.Fatalf("expected failed, got %q", results[0].State)
	}
	if len(uv.verified) != 0 {
		t.Fatalf("expected no front end verification after abort, got %v", uv.verified)
	}
}

func TestNativeStrategyWebUIVerificationFailure(t *testing.T) {
	cfg := config.Default()
	uv := &fakeUv{verifyErr: errors.New("No solution found when resolving dependencies")}
	strategy := NewNativeStrategy(&cfg, presentInstaller(t), uv, testRunner(2), nil)

	results, err := strategy.Ensure(context.Background())
	if err == nil {
		t.Fatal("expected verification failure")
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[2].State != StateFailed {
		t.Fatalf("expected front end failed, got %q", results[2].State)
	}
	// Verification itself goes through the retry path.
	if len(uv.verified) != 2 {
		t.Fatalf("expected 2 verification attempts, got %d", len(uv.verified))
	}
}

func containerStrategy(t *testing.T, cfg *config.Config, docker dockercli.Client, dockerOnPath bool) *ContainerStrategy {
	t.Helper()
	strategy := NewContainerStrategy(cfg, presentInstaller(t), docker, testRunner(1), nil)
	strategy.probe = func(command string) (string, bool) {
		if command == "docker" && dockerOnPath {
			return "/usr/bin/docker", true
		}
		return "", false
	}
	return strategy
}

func TestContainerStrategyStartsExistingContainer(t *testing.T) {
	cfg := config.Default()
	docker := &fakeDocker{exists: true}
	strategy := containerStrategy(t, &cfg, docker, true)

	results, err := strategy.Ensure(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[2].State != StateAlreadyPresent {
		t.Fatalf("expected existing container, got %q", results[2].State)
	}
	if len(docker.started) != 1 || docker.started[0] != cfg.WebUI.ContainerName {
		t.Fatalf("expected restart of %q, got %v", cfg.WebUI.ContainerName, docker.started)
	}
	if len(docker.pulled) != 0 || len(docker.runs) != 0 {
		t.Fatalf("expected no pull or run for an existing container")
	}
}

func TestContainerStrategyCreatesContainer(t *testing.T) {
	cfg := config.Default()
	docker := &fakeDocker{}
	strategy := containerStrategy(t, &cfg, docker, true)

	results, err := strategy.Ensure(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if results[2].State != StateInstalled {
		t.Fatalf("expected new container installed, got %q", results[2].State)
	}
	if len(docker.pulled) != 1 || docker.pulled[0] != cfg.WebUI.Image {
		t.Fatalf("expected pull of %q, got %v", cfg.WebUI.Image, docker.pulled)
	}
	if len(docker.runs) != 1 {
		t.Fatalf("expected one container run, got %d", len(docker.runs))
	}
	spec := docker.runs[0]
	if spec.HostPort != cfg.WebUI.ContainerPort || spec.ContainerPort != webUIContainerPort {
		t.Fatalf("unexpected port mapping %d:%d", spec.HostPort, spec.ContainerPort)
	}
	if spec.Name != cfg.WebUI.ContainerName || spec.Image != cfg.WebUI.Image {
		t.Fatalf("unexpected run spec %+v", spec)
	}
}

func TestContainerStrategyRequiresDocker(t *testing.T) {
	cfg := config.Default()
	docker := &fakeDocker{}
	strategy := containerStrategy(t, &cfg, docker, false)

	results, err := strategy.Ensure(context.Background())
	if err == nil {
		t.Fatal("expected failure without docker")
	}
	if len(results) != 2 {
		t.Fatalf("expected run to stop at the docker check, got %d results", len(results))
	}
	if results[1].Dependency != "Docker" || results[1].State != StateFailed {
		t.Fatalf("expected docker check failure, got %+v", results[1])
	}
	if len(docker.pulled) != 0 {
		t.Fatalf("expected no image pull without docker")
	}
}
