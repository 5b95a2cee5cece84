package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os/exec"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/qualuo/ai-lab/internal/deps"
)

// Minimum Go runtime this binary is supported on. Anything older indicates a
// build from an unsupported toolchain and fails fast.
const (
	minRuntimeMajor = 1
	minRuntimeMinor = 22
)

// Minimum Python the web front end supports; older versions only warn.
const (
	minPythonMajor = 3
	minPythonMinor = 11
)

var commandContext = exec.CommandContext

// CheckHostRuntime verifies the Go runtime version the binary runs on.
func CheckHostRuntime() Result {
	return checkRuntimeVersion(runtime.Version(), minRuntimeMajor, minRuntimeMinor)
}

func checkRuntimeVersion(version string, minMajor, minMinor int) Result {
	const name = "Host runtime"
	major, minor, ok := parseGoVersion(version)
	if !ok {
		// Development builds report revisions instead of release versions;
		// treat them as current.
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (unparsed, assumed current)", version)}
	}
	if major < minMajor || (major == minMajor && minor < minMinor) {
		return Result{
			Name:   name,
			Fatal:  true,
			Detail: fmt.Sprintf("%s is below minimum go%d.%d", version, minMajor, minMinor),
		}
	}
	return Result{Name: name, Passed: true, Detail: version}
}

func parseGoVersion(version string) (major, minor int, ok bool) {
	version = strings.TrimPrefix(strings.TrimSpace(version), "go")
	parts := strings.SplitN(version, ".", 3)
	if len(parts) < 2 {
		return 0, 0, false
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	minor, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return major, minor, true
}

// CheckElevation reports whether the process runs with elevated privileges.
// Missing elevation is advisory only; installers may prompt on their own.
func CheckElevation() Result {
	const name = "Elevation"
	elevated, err := processElevated()
	if err != nil {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("undetermined (%v)", err)}
	}
	if !elevated {
		return Result{Name: name, Detail: "not running elevated; installers may prompt"}
	}
	return Result{Name: name, Passed: true, Detail: "elevated"}
}

var pythonVersionPattern = regexp.MustCompile(`Python (\d+)\.(\d+)`)

// CheckPythonRuntime reports the companion Python version. Staleness or
// absence never gates execution; the uv shim manages its own interpreter.
func CheckPythonRuntime(ctx context.Context) Result {
	const name = "Python runtime"

	probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for _, binary := range []string{"python3", "python"} {
		if _, ok := deps.Probe(binary); !ok {
			continue
		}
		out, err := commandContext(probeCtx, binary, "--version").CombinedOutput()
		if err != nil {
			continue
		}
		version := strings.TrimSpace(string(out))
		match := pythonVersionPattern.FindStringSubmatch(version)
		if match == nil {
			return Result{Name: name, Passed: true, Detail: version}
		}
		major, _ := strconv.Atoi(match[1])
		minor, _ := strconv.Atoi(match[2])
		if major < minPythonMajor || (major == minPythonMajor && minor < minPythonMinor) {
			return Result{
				Name:   name,
				Detail: fmt.Sprintf("%s is older than %d.%d; uv will provision its own interpreter", version, minPythonMajor, minPythonMinor),
			}
		}
		return Result{Name: name, Passed: true, Detail: version}
	}
	return Result{Name: name, Detail: "not found; uv will provision its own interpreter"}
}

// CheckPackageManager reports whether the uv package manager is already on
// PATH. Absence is informational because the installer stage can self-install
// it.
func CheckPackageManager(binary string) Result {
	const name = "Package manager"
	if path, ok := deps.Probe(binary); ok {
		return Result{Name: name, Passed: true, Detail: path}
	}
	return Result{Name: name, Detail: fmt.Sprintf("%q not found; will be installed", binary)}
}

// CheckContainerRuntime reports whether docker is available. Only consulted in
// container mode, where its absence is fatal because there is no fallback.
func CheckContainerRuntime() Result {
	const name = "Container runtime"
	if path, ok := deps.Probe("docker"); ok {
		return Result{Name: name, Passed: true, Detail: path}
	}
	return Result{Name: name, Fatal: true, Detail: "docker not found on PATH"}
}

// CheckConnectivity probes outbound reachability with a single HEAD request.
// A definitive network failure is fatal; when the probe itself cannot be
// performed the check degrades to a warning so offline-diagnosis does not
// block machines with unusual proxy setups.
func CheckConnectivity(ctx context.Context, probeURL string, timeout time.Duration) Result {
	const name = "Network"

	if strings.TrimSpace(probeURL) == "" {
		return Result{Name: name, Detail: "probe URL not configured; skipping reachability check"}
	}
	if _, err := url.Parse(probeURL); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("probe not performed (%v)", err)}
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	checkCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(checkCtx, http.MethodHead, probeURL, nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("probe not performed (%v)", err)}
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return Result{Name: name, Fatal: true, Detail: summarizeProbeError(probeURL, err)}
	}
	defer resp.Body.Close()

	// Any response proves reachability; status is irrelevant.
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s reachable (%d)", probeURL, resp.StatusCode)}
}

func summarizeProbeError(probeURL string, err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Sprintf("%s unreachable (timed out)", probeURL)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Sprintf("%s unreachable (timed out)", probeURL)
	}
	return fmt.Sprintf("%s unreachable (%v)", probeURL, err)
}
