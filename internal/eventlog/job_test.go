package eventlog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCleanupJob_Process(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo)
	job := NewCleanupJob(service, 10)
	ctx := context.Background()

	mockRepo.On("CleanupOldEvents", mock.Anything, 10).Return(int64(100), nil)

	err := job.Process(ctx)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestCleanupJob_ProcessError(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo)
	job := NewCleanupJob(service, 30)
	ctx := context.Background()

	mockRepo.On("CleanupOldEvents", mock.Anything, 30).Return(int64(0), errors.New("db down"))

	err := job.Process(ctx)
	assert.Error(t, err)
	mockRepo.AssertExpectations(t)
}
