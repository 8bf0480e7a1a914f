package scheduler

import (
	"context"
	"log/slog"
	"time"
)

type reportPurger interface {
	PurgeOlderThan(ctx context.Context, retention time.Duration) (int64, error)
}

type purgeRecorder interface {
	AddPurged(count int64)
}

// PurgeJob удаляет сохраненные отчеты старше срока хранения.
type PurgeJob struct {
	Reports   reportPurger
	Retention time.Duration
	Metrics   purgeRecorder
	Logger    *slog.Logger
}

func (j *PurgeJob) Name() string {
	return "purge_reports"
}

func (j *PurgeJob) Run(ctx context.Context) error {
	removed, err := j.Reports.PurgeOlderThan(ctx, j.Retention)
	if err != nil {
		return err
	}

	if j.Metrics != nil {
		j.Metrics.AddPurged(removed)
	}
	if j.Logger != nil && removed > 0 {
		j.Logger.Info("stored reports purged", slog.Int64("removed", removed), slog.Duration("retention", j.Retention))
	}
	return nil
}
