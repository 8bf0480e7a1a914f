package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job — фоновая задача, запускаемая по расписанию.
type Job interface {
	Run(ctx context.Context) error
	Name() string
}

type Scheduler struct {
	cron       *cron.Cron
	logger     *slog.Logger
	jobTimeout time.Duration
}

// New создает планировщик со стандартным пятипольным cron-синтаксисом.
func New(logger *slog.Logger, jobTimeout time.Duration) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if jobTimeout <= 0 {
		jobTimeout = time.Minute
	}

	return &Scheduler{
		cron:       cron.New(),
		logger:     logger.With(slog.String("component", "scheduler")),
		jobTimeout: jobTimeout,
	}
}

// Start запускает планировщик.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started")
}

// Stop останавливает планировщик и ждет завершения запущенных задач.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// AddJob регистрирует задачу по расписанию, например "@daily" или "0 3 * * *".
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		_ = s.RunNow(job)
	})
	if err != nil {
		return err
	}

	s.logger.Info("job registered", slog.String("schedule", schedule), slog.String("job", job.Name()))
	return nil
}

// RunNow выполняет задачу немедленно, вне расписания.
func (s *Scheduler) RunNow(job Job) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	s.logger.Debug("running job", slog.String("job", job.Name()))
	if err := job.Run(ctx); err != nil {
		s.logger.Error("job failed", slog.String("job", job.Name()), slog.String("error", err.Error()))
		return err
	}

	s.logger.Debug("job completed", slog.String("job", job.Name()))
	return nil
}
