package jobs

import (
	"github.com/vytor/wordjourney/internal/models"
	"github.com/vytor/wordjourney/internal/worker"
)

// WorkerQueue implements JobQueue using worker pools
type WorkerQueue struct {
	eventPool  *worker.Pool
	recordPool *worker.Pool
	events     worker.EventStore
	records    worker.RecordSaver
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(
	eventPool *worker.Pool,
	recordPool *worker.Pool,
	events worker.EventStore,
	records worker.RecordSaver,
) JobQueue {
	return &WorkerQueue{
		eventPool:  eventPool,
		recordPool: recordPool,
		events:     events,
		records:    records,
	}
}

// EnqueueEvent never blocks; a full queue is reported to the caller, which drops the event.
func (q *WorkerQueue) EnqueueEvent(ev models.Event) error {
	return q.eventPool.TrySubmit(&worker.DeliverEventJob{Store: q.events, Event: ev})
}

// EnqueueRecord never blocks either; completed journeys are fewer and the
// service logs a refused record.
func (q *WorkerQueue) EnqueueRecord(rec models.JourneyRecord) error {
	return q.recordPool.TrySubmit(&worker.SaveRecordJob{Repo: q.records, Record: rec})
}
