// Package installer ensures external dependencies are present, driving each
// one through an explicit state machine: Unchecked, AlreadyPresent,
// Downloading, Installing, Verifying, Installed, Failed.
//
// A dependency whose command already resolves is left alone unless
// force-reinstall is set. Downloads run through the shared retry runner and
// fall back to a secondary package-manager channel exactly once when the
// direct channel exhausts its retries. Verification re-probes the search path
// from a fresh snapshot because installers mutate PATH mid-run.
//
// Two strategies compose the per-dependency machinery into full deployments:
// native (installer executable + uv shim) and container (docker).
package installer
