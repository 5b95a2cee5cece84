package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/qualuo/ai-lab/internal/config"
)

func TestCheckRuntimeVersionCurrent(t *testing.T) {
	result := checkRuntimeVersion("go1.26.1", 1, 22)
	if !result.Passed {
		t.Fatalf("expected pass, got %+v", result)
	}
}

func TestCheckRuntimeVersionBelowMinimum(t *testing.T) {
	result := checkRuntimeVersion("go1.20.4", 1, 22)
	if result.Passed {
		t.Fatalf("expected failure, got %+v", result)
	}
	if !result.Fatal {
		t.Fatal("expected version failure to be fatal")
	}
	if !strings.Contains(result.Detail, "go1.22") {
		t.Fatalf("expected minimum in detail, got %q", result.Detail)
	}
}

func TestCheckRuntimeVersionUnparsed(t *testing.T) {
	result := checkRuntimeVersion("devel +abc123", 1, 22)
	if !result.Passed {
		t.Fatalf("expected unparsed version to pass, got %+v", result)
	}
}

func TestCheckHostRuntimePasses(t *testing.T) {
	result := CheckHostRuntime()
	if !result.Passed {
		t.Fatalf("expected pass on the toolchain running the tests: %+v", result)
	}
}

func TestCheckElevationNeverFatal(t *testing.T) {
	result := CheckElevation()
	if result.Fatal {
		t.Fatalf("elevation must never gate the run: %+v", result)
	}
}

func TestCheckPythonRuntimeNeverFatal(t *testing.T) {
	result := CheckPythonRuntime(context.Background())
	if result.Fatal {
		t.Fatalf("python staleness must never gate the run: %+v", result)
	}
}

func TestCheckPackageManagerMissing(t *testing.T) {
	result := CheckPackageManager("definitely-not-a-real-binary-xyz")
	if result.Passed || result.Fatal {
		t.Fatalf("expected informational miss, got %+v", result)
	}
	if !strings.Contains(result.Detail, "will be installed") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckConnectivityReachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	result := CheckConnectivity(context.Background(), srv.URL, 5*time.Second)
	if !result.Passed {
		t.Fatalf("expected pass, got %+v", result)
	}
}

func TestCheckConnectivityDefinitiveFailureIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	result := CheckConnectivity(context.Background(), srv.URL, 2*time.Second)
	if result.Passed {
		t.Fatalf("expected failure, got %+v", result)
	}
	if !result.Fatal {
		t.Fatal("definitive connection failure must be fatal")
	}
}

func TestCheckConnectivityUnperformableWarnsAndProceeds(t *testing.T) {
	result := CheckConnectivity(context.Background(), "http://host with spaces/", 2*time.Second)
	if result.Fatal {
		t.Fatalf("unperformable probe must not be fatal: %+v", result)
	}
}

func TestCheckConnectivityNoURLConfigured(t *testing.T) {
	result := CheckConnectivity(context.Background(), "", time.Second)
	if result.Fatal {
		t.Fatalf("missing probe URL must not be fatal: %+v", result)
	}
}

func TestGoDecision(t *testing.T) {
	pass := Result{Name: "a", Passed: true}
	warn := Result{Name: "b"}
	fatal := Result{Name: "c", Fatal: true}

	if !Go([]Result{pass, warn}) {
		t.Fatal("warnings alone must not block the run")
	}
	if Go([]Result{pass, fatal}) {
		t.Fatal("a fatal failure must block the run")
	}
	if !Go(nil) {
		t.Fatal("no results means go")
	}
}

func TestRunAllNilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAllOrderingAndProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Network.ProbeURL = srv.URL
	cfg.Network.ProbeTimeoutSeconds = 5

	results := RunAll(context.Background(), &cfg)
	if len(results) != 5 {
		t.Fatalf("expected 5 checks in native mode, got %d", len(results))
	}
	if results[0].Name != "Host runtime" {
		t.Fatalf("expected host runtime first, got %q", results[0].Name)
	}
	if last := results[len(results)-1]; last.Name != "Network" || !last.Passed {
		t.Fatalf("expected passing network check last, got %+v", last)
	}
}

func TestRunAllContainerModeAddsDockerCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Install.Mode = string(config.ModeContainer)
	cfg.Network.ProbeURL = srv.URL

	results := RunAll(context.Background(), &cfg)
	found := false
	for _, r := range results {
		if r.Name == "Container runtime" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected container runtime check in container mode")
	}
}
