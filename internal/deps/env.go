package deps

import (
	"os"
	"path/filepath"
	"strings"
)

// Snapshot captures the process search path at a point in time. Installers
// mutate the machine PATH while the provisioner runs, so verification works
// against an explicit snapshot re-read after each install instead of whatever
// ambient state the process started with.
type Snapshot struct {
	entries []string
}

// TakeSnapshot reads the current PATH plus any extra directories a just-run
// installer is known to populate. Extra directories that do not exist are
// dropped.
func TakeSnapshot(extraDirs ...string) Snapshot {
	entries := filepath.SplitList(os.Getenv("PATH"))
	for _, dir := range extraDirs {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			continue
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		entries = append(entries, dir)
	}
	return Snapshot{entries: dedupe(entries)}
}

// Entries returns the snapshot's search directories in order.
func (s Snapshot) Entries() []string {
	out := make([]string, len(s.entries))
	copy(out, s.entries)
	return out
}

// Lookup resolves a command name against the snapshot, honoring PATHEXT-style
// Windows extensions via exec.LookPath semantics on each directory.
func (s Snapshot) Lookup(command string) (string, bool) {
	command = strings.TrimSpace(command)
	if command == "" {
		return "", false
	}
	for _, dir := range s.entries {
		for _, candidate := range executableCandidates(filepath.Join(dir, command)) {
			info, err := os.Stat(candidate)
			if err != nil || info.IsDir() {
				continue
			}
			if isExecutable(info) {
				return candidate, true
			}
		}
	}
	return "", false
}

// Apply installs the snapshot's directories as the process PATH so child
// processes spawned later in the run can resolve freshly installed tools.
func (s Snapshot) Apply() error {
	return os.Setenv("PATH", strings.Join(s.entries, string(os.PathListSeparator)))
}

func dedupe(entries []string) []string {
	seen := make(map[string]struct{}, len(entries))
	out := entries[:0]
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if _, ok := seen[entry]; ok {
			continue
		}
		seen[entry] = struct{}{}
		out = append(out, entry)
	}
	return out
}
