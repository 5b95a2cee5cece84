//go:build !windows

package preflight

import "golang.org/x/sys/unix"

func processElevated() (bool, error) {
	return unix.Geteuid() == 0, nil
}
