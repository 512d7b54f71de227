package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/FightFi/Sportsbook/internal/eventlog"
)

// signalJob wraps a job and reports each completion so tests can wait on the
// pool without sleeping.
type signalJob struct {
	inner Job
	done  chan error
}

func (j *signalJob) Process(ctx context.Context) error {
	err := j.inner.Process(ctx)
	j.done <- err
	return err
}

func waitForJob(t *testing.T, done chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for job execution")
		return nil
	}
}

func TestPoolRunsCleanupJob(t *testing.T) {
	mockRepo := new(eventlog.MockRepository)
	mockRepo.On("CleanupOldEvents", mock.Anything, 90).Return(int64(12), nil).Twice()

	pool := NewPool(2, 10)
	pool.Start()
	defer pool.Stop()

	job := &signalJob{
		inner: eventlog.NewCleanupJob(eventlog.NewService(mockRepo), 90),
		done:  make(chan error, 2),
	}
	pool.Enqueue(job)
	pool.Enqueue(job)

	assert.NoError(t, waitForJob(t, job.done))
	assert.NoError(t, waitForJob(t, job.done))
	mockRepo.AssertExpectations(t)
}

func TestPoolSurvivesFailingJob(t *testing.T) {
	mockRepo := new(eventlog.MockRepository)
	mockRepo.On("CleanupOldEvents", mock.Anything, 30).Return(int64(0), errors.New("db down")).Once()
	mockRepo.On("CleanupOldEvents", mock.Anything, 90).Return(int64(5), nil).Once()

	pool := NewPool(1, 10)
	pool.Start()
	defer pool.Stop()

	service := eventlog.NewService(mockRepo)
	failing := &signalJob{inner: eventlog.NewCleanupJob(service, 30), done: make(chan error, 1)}
	healthy := &signalJob{inner: eventlog.NewCleanupJob(service, 90), done: make(chan error, 1)}

	pool.Enqueue(failing)
	pool.Enqueue(healthy)

	// The failing job errors; the worker stays alive and runs the next one.
	assert.Error(t, waitForJob(t, failing.done))
	assert.NoError(t, waitForJob(t, healthy.done))
	mockRepo.AssertExpectations(t)
}
