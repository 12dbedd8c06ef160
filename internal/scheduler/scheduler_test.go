package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/carbon-portfolio/pkg/logger"
)

type fakeJob struct {
	name     string
	schedule string
	failures int
	calls    int
}

func (j *fakeJob) Name() string     { return j.name }
func (j *fakeJob) Schedule() string { return j.schedule }

func (j *fakeJob) Run(ctx context.Context) error {
	j.calls++
	if j.calls <= j.failures {
		return errors.New("transient failure")
	}
	return nil
}

func newTestScheduler() *Scheduler {
	return New(logger.Nop()).WithRetry(2, time.Millisecond)
}

func TestAddJob(t *testing.T) {
	s := newTestScheduler()

	require.NoError(t, s.AddJob(&fakeJob{name: "b", schedule: "0 * * * * *"}))
	require.NoError(t, s.AddJob(&fakeJob{name: "a", schedule: "@hourly"}))

	assert.Equal(t, []string{"a", "b"}, s.JobNames())
	assert.Error(t, s.AddJob(&fakeJob{name: "a", schedule: "@hourly"}), "duplicate names are rejected")
	assert.Error(t, s.AddJob(&fakeJob{name: "bad", schedule: "not a schedule"}))
}

func TestRemoveJob(t *testing.T) {
	s := newTestScheduler()
	require.NoError(t, s.AddJob(&fakeJob{name: "a", schedule: "@hourly"}))

	require.NoError(t, s.RemoveJob("a"))
	assert.Empty(t, s.JobNames())
	assert.Error(t, s.RemoveJob("a"))
}

func TestRunNow_RetriesUntilSuccess(t *testing.T) {
	s := newTestScheduler()
	job := &fakeJob{name: "flaky", schedule: "@hourly", failures: 2}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunNow(context.Background(), "flaky")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 3, result.Attempts)
	assert.Empty(t, result.Error)

	stats := s.JobStats()["flaky"]
	assert.Equal(t, 1, stats.TotalRuns)
	assert.Equal(t, 1, stats.SuccessCount)
	assert.Equal(t, 1.0, stats.SuccessRate)
	assert.NotNil(t, stats.LastRun)
}

func TestRunNow_FailsAfterRetries(t *testing.T) {
	s := newTestScheduler()
	job := &fakeJob{name: "broken", schedule: "@hourly", failures: 10}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunNow(context.Background(), "broken")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, "transient failure", result.Error)

	stats := s.JobStats()["broken"]
	assert.Equal(t, 1, stats.FailureCount)
	assert.Equal(t, "transient failure", stats.LastError)
}

func TestRunNow_UnknownJob(t *testing.T) {
	_, err := newTestScheduler().RunNow(context.Background(), "missing")
	assert.Error(t, err)
}

func TestJobHistory_Bounded(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < maxHistory+10; i++ {
		h.AddResult(JobResult{Success: i%2 == 0})
	}

	assert.Len(t, h.Results, maxHistory)
	assert.InDelta(t, 0.5, h.SuccessRate(), 1e-9)

	_, ok := (&JobHistory{}).Latest()
	assert.False(t, ok)
}
