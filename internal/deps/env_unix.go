//go:build !windows

package deps

import "os"

func executableCandidates(path string) []string {
	return []string{path}
}

func isExecutable(info os.FileInfo) bool {
	return info.Mode()&0o111 != 0
}
