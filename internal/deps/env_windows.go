//go:build windows

package deps

import (
	"os"
	"path/filepath"
	"strings"
)

func executableCandidates(path string) []string {
	if ext := filepath.Ext(path); ext != "" {
		return []string{path}
	}
	exts := strings.Split(os.Getenv("PATHEXT"), ";")
	if len(exts) == 0 || (len(exts) == 1 && exts[0] == "") {
		exts = []string{".com", ".exe", ".bat", ".cmd"}
	}
	candidates := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		candidates = append(candidates, path+strings.ToLower(ext))
	}
	return candidates
}

func isExecutable(os.FileInfo) bool {
	// Windows executability is extension-driven; candidates already filter.
	return true
}
