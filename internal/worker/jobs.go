package worker

import (
	"context"

	"github.com/vytor/wordjourney/internal/models"
)

// EventStore receives events off the learner's path. Defined here so the
// worker does not depend on the events package.
type EventStore interface {
	Save(ctx context.Context, ev models.Event) error
}

// RecordSaver persists completed journeys.
type RecordSaver interface {
	SaveRecord(ctx context.Context, rec models.JourneyRecord) error
}

type DeliverEventJob struct {
	Store EventStore
	Event models.Event
}

func (j *DeliverEventJob) Name() string { return "deliver_event" }

func (j *DeliverEventJob) Run(ctx context.Context) error {
	return j.Store.Save(ctx, j.Event)
}

type SaveRecordJob struct {
	Repo   RecordSaver
	Record models.JourneyRecord
}

func (j *SaveRecordJob) Name() string { return "save_journey_record" }

func (j *SaveRecordJob) Run(ctx context.Context) error {
	return j.Repo.SaveRecord(ctx, j.Record)
}
