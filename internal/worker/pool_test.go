package worker_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/wordjourney/internal/models"
	"github.com/vytor/wordjourney/internal/worker"
)

type countJob struct {
	n    *atomic.Int32
	fail bool
}

func (j countJob) Name() string { return "count" }

func (j countJob) Run(context.Context) error {
	j.n.Add(1)
	if j.fail {
		return errors.New("boom")
	}
	return nil
}

type blockingJob struct {
	started chan struct{}
	release chan struct{}
}

func (j blockingJob) Name() string { return "block" }

func (j blockingJob) Run(context.Context) error {
	close(j.started)
	<-j.release
	return nil
}

func TestPool_StopDrainsQueuedJobs(t *testing.T) {
	var n atomic.Int32
	p := worker.NewPool("test", 2, 16)
	p.Start(context.Background())

	for i := 0; i < 10; i++ {
		require.NoError(t, p.Submit(countJob{n: &n, fail: i%3 == 0}))
	}
	p.Stop()

	assert.Equal(t, int32(10), n.Load())
}

func TestPool_TrySubmitReportsFullQueue(t *testing.T) {
	p := worker.NewPool("test", 1, 1)
	p.Start(context.Background())

	block := blockingJob{started: make(chan struct{}), release: make(chan struct{})}
	require.NoError(t, p.TrySubmit(block))
	<-block.started

	var n atomic.Int32
	require.NoError(t, p.TrySubmit(countJob{n: &n}))
	assert.ErrorIs(t, p.TrySubmit(countJob{n: &n}), worker.ErrQueueFull)
	assert.Equal(t, 1, p.QueueSize())

	close(block.release)
	p.Stop()
	assert.Equal(t, int32(1), n.Load())
}

func TestPool_SubmitAfterStop(t *testing.T) {
	p := worker.NewPool("test", 1, 1)
	p.Start(context.Background())
	p.Stop()
	p.Stop()

	var n atomic.Int32
	assert.ErrorIs(t, p.Submit(countJob{n: &n}), worker.ErrPoolStopped)
	assert.ErrorIs(t, p.TrySubmit(countJob{n: &n}), worker.ErrPoolStopped)
}

type eventStore struct {
	mu     sync.Mutex
	events []models.Event
}

func (s *eventStore) Save(_ context.Context, ev models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

type recordSaver struct {
	got models.JourneyRecord
}

func (s *recordSaver) SaveRecord(_ context.Context, rec models.JourneyRecord) error {
	s.got = rec
	return nil
}

func TestJobs_Run(t *testing.T) {
	store := &eventStore{}
	job := &worker.DeliverEventJob{Store: store, Event: models.Event{ID: "e1", Name: models.EventStepView}}
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, "deliver_event", job.Name())
	require.Len(t, store.events, 1)
	assert.Equal(t, "e1", store.events[0].ID)

	saver := &recordSaver{}
	rj := &worker.SaveRecordJob{Repo: saver, Record: models.JourneyRecord{ID: "j1"}}
	require.NoError(t, rj.Run(context.Background()))
	assert.Equal(t, "save_journey_record", rj.Name())
	assert.Equal(t, "j1", saver.got.ID)
}
