package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	name     string
	schedule Schedule
	runs     int
	err      error
}

func (j *countingJob) Name() string       { return j.name }
func (j *countingJob) Schedule() Schedule { return j.schedule }

func (j *countingJob) Execute(ctx context.Context) error {
	j.runs++
	return j.err
}

func TestSchedulerService_AddJob(t *testing.T) {
	scheduler := NewSchedulerService()

	require.NoError(t, scheduler.AddJob(&countingJob{name: "hourly", schedule: Hourly}))
	require.NoError(t, scheduler.AddJob(&countingJob{name: "daily", schedule: Daily}))
	assert.Error(t, scheduler.AddJob(&countingJob{name: "bogus", schedule: Schedule(99)}))

	assert.Equal(t, 2, scheduler.GetJobCount())
}

func TestSchedulerService_StartWithoutJobs(t *testing.T) {
	scheduler := NewSchedulerService()

	require.NoError(t, scheduler.Start(context.Background()))
	assert.False(t, scheduler.IsRunning())
	assert.NoError(t, scheduler.Stop(context.Background()))
}

func TestSchedulerService_StartStop(t *testing.T) {
	scheduler := NewSchedulerService()
	require.NoError(t, scheduler.AddJob(&countingJob{name: "daily", schedule: Daily}))

	require.NoError(t, scheduler.Start(context.Background()))
	assert.True(t, scheduler.IsRunning())

	require.NoError(t, scheduler.Stop(context.Background()))
	assert.False(t, scheduler.IsRunning())
}

func TestSchedulerService_RunJob(t *testing.T) {
	scheduler := NewSchedulerService()
	job := &countingJob{name: "expire", schedule: Daily}
	failing := &countingJob{name: "broken", schedule: Daily, err: assert.AnError}
	require.NoError(t, scheduler.AddJob(job))
	require.NoError(t, scheduler.AddJob(failing))

	require.NoError(t, scheduler.RunJob(context.Background(), "expire"))
	assert.Equal(t, 1, job.runs)

	assert.ErrorIs(t, scheduler.RunJob(context.Background(), "broken"), assert.AnError)
	assert.Error(t, scheduler.RunJob(context.Background(), "missing"))
}
