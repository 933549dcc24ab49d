package repository

import (
	"context"

	"github.com/vytor/wordjourney/internal/models"
)

// EventRepository handles the analytics event log
type EventRepository interface {
	// Save stores ev; saving an id that already exists is a no-op.
	Save(ctx context.Context, ev models.Event) error
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
	Count(ctx context.Context, filter models.EventFilter) (int, error)
	// Compare aggregates events per framework. An empty learnerID covers everyone.
	Compare(ctx context.Context, learnerID string) ([]models.FrameworkComparison, error)
}

// JourneyRepository handles completed journey records
type JourneyRepository interface {
	SaveRecord(ctx context.Context, rec models.JourneyRecord) error
	GetRecord(ctx context.Context, id string) (*models.JourneyRecord, error)
	ListRecords(ctx context.Context, filter models.JourneyRecordFilter) ([]models.JourneyRecord, error)
}

// FeedbackRepository handles learner feedback on steps
type FeedbackRepository interface {
	Upsert(ctx context.Context, item models.FeedbackItem) error
	Get(ctx context.Context, id string) (*models.FeedbackItem, error)
	List(ctx context.Context, filter models.FeedbackFilter) ([]models.FeedbackItem, error)
}
