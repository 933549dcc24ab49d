package events

import (
	"github.com/vytor/wordjourney/internal/logger"
	"github.com/vytor/wordjourney/internal/models"
)

// Enqueuer hands an event to background delivery. It returns an error
// instead of blocking when the queue is full.
type Enqueuer interface {
	EnqueueEvent(models.Event) error
}

// Async forwards events to a background queue and drops them when the
// queue refuses, so the learner never waits on persistence.
type Async struct {
	queue Enqueuer
	log   *logger.Logger
}

func NewAsync(queue Enqueuer) *Async {
	return &Async{queue: queue, log: logger.Default().WithPrefix("events")}
}

func (a *Async) Notify(ev models.Event) {
	if err := a.queue.EnqueueEvent(ev); err != nil {
		a.log.WithFields(map[string]any{
			"event":     ev.Name,
			"framework": ev.Framework,
			"step":      ev.StepID,
		}).Warn("dropping event: %v", err)
	}
}
