package provision

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/qualuo/ai-lab/internal/config"
	"github.com/qualuo/ai-lab/internal/logging"
)

const runTimestampLayout = "20060102T150405.000Z"

// RunLogPath returns the per-run timestamped log file under logDir.
func RunLogPath(logDir string, now time.Time) string {
	stamp := now.UTC().Format(runTimestampLayout)
	return filepath.Join(logDir, fmt.Sprintf("ailab-%s.log", stamp))
}

// NewRunLogger builds the run logger writing to the console and a per-run
// log file, updates the ailab.log pointer, and prunes logs past the
// configured retention. It returns the logger and the per-run log path.
func NewRunLogger(cfg *config.Config, level string, color bool) (*slog.Logger, string, error) {
	logPath := RunLogPath(cfg.Paths.LogDir, time.Now())

	logger, err := logging.New(logging.Options{
		Level:            level,
		Format:           cfg.Logging.Format,
		OutputPaths:      []string{"stdout", logPath},
		ErrorOutputPaths: []string{"stderr", logPath},
		Color:            color,
	})
	if err != nil {
		return nil, "", fmt.Errorf("init logger: %w", err)
	}

	if err := ensureCurrentLogPointer(cfg.Paths.LogDir, logPath); err != nil {
		fmt.Fprintf(os.Stderr, "warn: unable to update ailab.log link: %v\n", err)
	}
	logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays,
		logging.RetentionTarget{Dir: cfg.Paths.LogDir, Pattern: "ailab-*.log", Exclude: []string{logPath}},
	)

	return logger, logPath, nil
}

// ensureCurrentLogPointer keeps logDir/ailab.log pointing at the newest run
// log. A hard link is the fallback where symlinks are unavailable.
func ensureCurrentLogPointer(logDir, target string) error {
	if logDir == "" || target == "" {
		return nil
	}
	current := filepath.Join(logDir, "ailab.log")
	if err := os.Remove(current); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing log pointer: %w", err)
	}
	if err := os.Symlink(target, current); err == nil {
		return nil
	}
	if err := os.Link(target, current); err != nil {
		return fmt.Errorf("link log pointer: %w", err)
	}
	return nil
}
