package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePurger struct {
	retention time.Duration
	removed   int64
	err       error
	calls     int
}

func (f *fakePurger) PurgeOlderThan(_ context.Context, retention time.Duration) (int64, error) {
	f.calls++
	f.retention = retention
	return f.removed, f.err
}

type fakeRecorder struct {
	total int64
}

func (f *fakeRecorder) AddPurged(count int64) {
	f.total += count
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPurgeJobRun(t *testing.T) {
	purger := &fakePurger{removed: 7}
	recorder := &fakeRecorder{}
	job := &PurgeJob{Reports: purger, Retention: 48 * time.Hour, Metrics: recorder, Logger: quietLogger()}

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 48*time.Hour, purger.retention)
	assert.Equal(t, int64(7), recorder.total)
	assert.Equal(t, "purge_reports", job.Name())
}

func TestPurgeJobPropagatesError(t *testing.T) {
	purger := &fakePurger{err: errors.New("db down")}
	recorder := &fakeRecorder{}
	job := &PurgeJob{Reports: purger, Retention: time.Hour, Metrics: recorder}

	assert.EqualError(t, job.Run(context.Background()), "db down")
	assert.Zero(t, recorder.total)
}

func TestRunNow(t *testing.T) {
	s := New(quietLogger(), time.Second)
	purger := &fakePurger{removed: 1}

	require.NoError(t, s.RunNow(&PurgeJob{Reports: purger, Retention: time.Hour}))
	assert.Equal(t, 1, purger.calls)

	purger.err = errors.New("boom")
	assert.Error(t, s.RunNow(&PurgeJob{Reports: purger, Retention: time.Hour}))
}

func TestAddJobRejectsBadSchedule(t *testing.T) {
	s := New(quietLogger(), 0)
	job := &PurgeJob{Reports: &fakePurger{}, Retention: time.Hour}

	assert.Error(t, s.AddJob("not a schedule", job))
	assert.NoError(t, s.AddJob("@daily", job))
	assert.NoError(t, s.AddJob("0 3 * * *", job))
}

func TestStartStop(t *testing.T) {
	s := New(quietLogger(), time.Second)
	s.Start()
	s.Stop()
}
