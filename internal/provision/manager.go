package provision

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/qualuo/ai-lab/internal/logging"
	"github.com/qualuo/ai-lab/internal/services"
)

// Manager runs the pipeline stages in sequence and enforces single-instance
// execution through a lock file.
type Manager struct {
	logger   *slog.Logger
	lock     *flock.Flock
	lockPath string
	stages   []Stage
	nowFunc  func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithLockFile enables the single-instance guard at path. An empty path
// disables locking.
func WithLockFile(path string) Option {
	return func(m *Manager) {
		path = strings.TrimSpace(path)
		m.lockPath = path
		if path != "" {
			m.lock = flock.New(path)
		} else {
			m.lock = nil
		}
	}
}

// NewManager constructs a Manager over the given stages. A nil logger
// discards log output.
func NewManager(logger *slog.Logger, stages []Stage, opts ...Option) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	m := &Manager{logger: logger, stages: stages, nowFunc: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run executes every stage in order. The first stage error aborts the run
// and is returned; later stages never start.
func (m *Manager) Run(ctx context.Context) error {
	if m.lock != nil {
		acquired, err := m.lock.TryLock()
		if err != nil {
			return services.Wrap(services.ErrValidation, "provision", "lock", "acquire instance lock", err)
		}
		if !acquired {
			return services.Wrap(services.ErrValidation, "provision", "lock",
				"another provisioning run is already in progress", nil)
		}
		defer m.lock.Unlock() //nolint:errcheck
	}

	runID := uuid.NewString()
	runCtx := services.WithRunID(ctx, runID)
	runLogger := logging.WithContext(runCtx, m.logger)

	started := m.nowFunc()
	runLogger.Info("provisioning run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.Int("stages", len(m.stages)),
	)

	for _, stage := range m.stages {
		if err := m.runStage(runCtx, stage); err != nil {
			runLogger.Error("provisioning run failed",
				logging.String(logging.FieldEventType, "run_failure"),
				logging.String("failed_stage", stage.Name()),
				logging.Duration("elapsed", m.nowFunc().Sub(started)),
				logging.Error(err),
			)
			return err
		}
	}

	runLogger.Info("provisioning run completed",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Duration("elapsed", m.nowFunc().Sub(started)),
	)
	return nil
}

func (m *Manager) runStage(ctx context.Context, stage Stage) error {
	stageCtx := logging.WithStage(ctx, stage.Name())
	stageLogger := logging.WithContext(stageCtx, m.logger)

	stageLogger.Info("stage started", logging.String(logging.FieldEventType, "stage_start"))
	started := m.nowFunc()

	if err := stage.Run(stageCtx); err != nil {
		stageLogger.Error("stage failed",
			logging.String(logging.FieldEventType, "stage_failure"),
			logging.Duration("elapsed", m.nowFunc().Sub(started)),
			logging.Error(err),
		)
		return err
	}

	stageLogger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Duration("elapsed", m.nowFunc().Sub(started)),
	)
	return nil
}
