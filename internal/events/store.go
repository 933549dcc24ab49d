package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/vytor/wordjourney/internal/logger"
	"github.com/vytor/wordjourney/internal/models"
)

// Store persists one event. Unlike Sink it may block and may fail; it runs
// on worker goroutines, never on the learner's path.
type Store interface {
	Save(ctx context.Context, ev models.Event) error
}

type StoreFunc func(ctx context.Context, ev models.Event) error

func (f StoreFunc) Save(ctx context.Context, ev models.Event) error { return f(ctx, ev) }

// Fallback tries each store in order until one succeeds.
type Fallback struct {
	stores []namedStore
}

type namedStore struct {
	name  string
	store Store
}

func NewFallback() *Fallback {
	return &Fallback{}
}

// Then appends a tier. Nil stores are ignored so optional tiers can be
// passed unconditionally.
func (f *Fallback) Then(name string, s Store) *Fallback {
	if s != nil {
		f.stores = append(f.stores, namedStore{name: name, store: s})
	}
	return f
}

func (f *Fallback) Save(ctx context.Context, ev models.Event) error {
	log := logger.FromContext(ctx)
	var errs []error
	for _, tier := range f.stores {
		err := tier.store.Save(ctx, ev)
		if err == nil {
			if len(errs) > 0 {
				log.Debug("event %s saved to %s after %d failed tiers", ev.ID, tier.name, len(errs))
			}
			return nil
		}
		log.Warn("event store %s failed: %v", tier.name, err)
		errs = append(errs, fmt.Errorf("%s: %w", tier.name, err))
	}
	if len(errs) == 0 {
		return errors.New("no event stores configured")
	}
	return errors.Join(errs...)
}
