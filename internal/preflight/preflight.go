package preflight

import (
	"context"

	"github.com/qualuo/ai-lab/internal/config"
)

// Result reports the outcome of a single preflight check. A failed check with
// Fatal set aborts the run; a failed check without Fatal is a warning.
type Result struct {
	Name   string
	Passed bool
	Fatal  bool
	Detail string
}

// RunAll executes every preflight check in order for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckHostRuntime(),
		CheckElevation(),
		CheckPythonRuntime(ctx),
		CheckPackageManager(cfg.UvBinary()),
	}
	if cfg.DeployMode() == config.ModeContainer {
		results = append(results, CheckContainerRuntime())
	}
	results = append(results, CheckConnectivity(ctx, cfg.Network.ProbeURL, cfg.ProbeTimeout()))
	return results
}

// Go reports whether the run may proceed: true unless a fatal check failed.
func Go(results []Result) bool {
	for _, r := range results {
		if !r.Passed && r.Fatal {
			return false
		}
	}
	return true
}
