// Package preflight provides the go/no-go checks that run before anything is
// installed.
//
// Checks run in a fixed order: host runtime version, privilege elevation,
// companion Python runtime, package manager presence, and outbound network
// reachability. Only the runtime version and a definitive reachability failure
// gate execution; everything else is advisory so a half-configured machine can
// still be provisioned.
//
// The CLI "ailab check" command renders the same results as a table.
package preflight
