package jobs

import "github.com/vytor/wordjourney/internal/models"

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	EnqueueEvent(ev models.Event) error
	EnqueueRecord(rec models.JourneyRecord) error
}
