package scheduler

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// SnapshotPruner deletes snapshots older than the retention window.
type SnapshotPruner interface {
	Prune(now time.Time) (int64, error)
}

// PruneSnapshotsJob trims the prediction snapshot cache.
type PruneSnapshotsJob struct {
	snapshots SnapshotPruner
	log       zerolog.Logger
}

// NewPruneSnapshotsJob creates the snapshot prune job.
func NewPruneSnapshotsJob(snapshots SnapshotPruner, log zerolog.Logger) *PruneSnapshotsJob {
	return &PruneSnapshotsJob{
		snapshots: snapshots,
		log:       log.With().Str("job", "prune_snapshots").Logger(),
	}
}

// Name returns the job name
func (j *PruneSnapshotsJob) Name() string {
	return "prune_snapshots"
}

// Run deletes expired snapshots.
func (j *PruneSnapshotsJob) Run() error {
	if _, err := j.snapshots.Prune(time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to prune snapshots: %w", err)
	}
	return nil
}
