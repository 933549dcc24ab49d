package mocks

import (
	"github.com/stretchr/testify/mock"
	"github.com/vytor/wordjourney/internal/models"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueEvent(ev models.Event) error {
	args := m.Called(ev)
	return args.Error(0)
}

func (m *MockJobQueue) EnqueueRecord(rec models.JourneyRecord) error {
	args := m.Called(rec)
	return args.Error(0)
}
