package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/wordjourney/internal/models"
)

// MockFeedbackRepository is a mock implementation of repository.FeedbackRepository
type MockFeedbackRepository struct {
	mock.Mock
}

func (m *MockFeedbackRepository) Upsert(ctx context.Context, item models.FeedbackItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockFeedbackRepository) Get(ctx context.Context, id string) (*models.FeedbackItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FeedbackItem), args.Error(1)
}

func (m *MockFeedbackRepository) List(ctx context.Context, filter models.FeedbackFilter) ([]models.FeedbackItem, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FeedbackItem), args.Error(1)
}
