// Package retry provides the bounded retry executor every external call in the
// provisioning pipeline runs through.
//
// A Runner executes a unit of work up to a fixed number of attempts with a
// fixed delay between failures. Downloads, installer launches, and model pulls
// all share the same runner so transient network failures on first-run
// machines are tolerated uniformly instead of per call site.
//
// The sleeper is injectable so tests never wait on real delays.
package retry
