package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/wordjourney/internal/models"
)

// MockJourneyRepository is a mock implementation of repository.JourneyRepository
type MockJourneyRepository struct {
	mock.Mock
}

func (m *MockJourneyRepository) SaveRecord(ctx context.Context, rec models.JourneyRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockJourneyRepository) GetRecord(ctx context.Context, id string) (*models.JourneyRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JourneyRecord), args.Error(1)
}

func (m *MockJourneyRepository) ListRecords(ctx context.Context, filter models.JourneyRecordFilter) ([]models.JourneyRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.JourneyRecord), args.Error(1)
}
