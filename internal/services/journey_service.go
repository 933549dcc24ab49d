package services

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/vytor/wordjourney/internal/content"
	"github.com/vytor/wordjourney/internal/errors"
	"github.com/vytor/wordjourney/internal/events"
	"github.com/vytor/wordjourney/internal/jobs"
	"github.com/vytor/wordjourney/internal/journey"
	"github.com/vytor/wordjourney/internal/logger"
	"github.com/vytor/wordjourney/internal/models"
	"github.com/vytor/wordjourney/internal/step"
	"github.com/vytor/wordjourney/internal/validate"
)

// ErrJourneyNotFound is returned for unknown, swept, or foreign journey ids.
var ErrJourneyNotFound = stderrors.New("journey not found")

// Learner identifies who is acting; journeys are only visible to their owner.
type Learner struct {
	ID        string
	SessionID string
}

// ActionResult is what a learner action returns: the outcome of the action
// and the journey as it looks afterwards.
type ActionResult struct {
	Outcome step.Outcome `json:"outcome"`
	View    journey.View `json:"journey"`
}

// JourneyConfig tunes live journeys.
type JourneyConfig struct {
	Delays      journey.Delays
	IdleTimeout time.Duration
	Scheduler   journey.Scheduler
	Now         func() time.Time
}

// JourneyService keeps the live journeys and routes learner actions to them
type JourneyService interface {
	Start(ctx context.Context, learner Learner, frameworkID, wordID string) (journey.View, error)
	View(ctx context.Context, learner Learner, id string) (journey.View, error)
	Submit(ctx context.Context, learner Learner, id string, answer step.Answer) (*ActionResult, error)
	Skip(ctx context.Context, learner Learner, id string) (*ActionResult, error)
	Continue(ctx context.Context, learner Learner, id string) (*ActionResult, error)
	Summary(ctx context.Context, learner Learner, id string) (models.JourneySummary, error)
	Emit(ctx context.Context, learner Learner, id, name string, meta map[string]any) error
	Close(ctx context.Context, learner Learner, id string) error
	// Sweep closes journeys idle for longer than the idle timeout and
	// returns how many it removed.
	Sweep(ctx context.Context) int
	// RunSweeper calls Sweep every interval until ctx is done.
	RunSweeper(ctx context.Context, interval time.Duration)
	// Shutdown closes every live journey.
	Shutdown(ctx context.Context)
}

type liveJourney struct {
	j       *journey.Journey
	learner Learner
}

type journeyService struct {
	cat   journey.Catalogue
	sink  events.Sink
	queue jobs.JobQueue
	cfg   JourneyConfig

	mu   sync.Mutex
	live map[string]*liveJourney
}

// NewJourneyService creates a new JourneyService
func NewJourneyService(cat journey.Catalogue, sink events.Sink, queue jobs.JobQueue, cfg JourneyConfig) JourneyService {
	if cfg.Scheduler == nil {
		cfg.Scheduler = journey.RealScheduler
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if sink == nil {
		sink = events.Discard
	}
	return &journeyService{
		cat:   cat,
		sink:  sink,
		queue: queue,
		cfg:   cfg,
		live:  make(map[string]*liveJourney),
	}
}

func (s *journeyService) Start(ctx context.Context, learner Learner, frameworkID, wordID string) (journey.View, error) {
	log := logger.FromContext(ctx).WithPrefix("journey_service")
	log.Debug("starting journey: learner=%s, framework=%s, word=%s", learner.ID, frameworkID, wordID)

	if frameworkID == "" {
		return journey.View{}, errors.NewValidationError("framework", "cannot be empty")
	}
	if wordID == "" {
		return journey.View{}, errors.NewValidationError("word", "cannot be empty")
	}

	id := uuid.NewString()
	j, err := journey.New(s.cat, frameworkID, wordID,
		journey.WithID(id),
		journey.WithSink(events.Stamper{Next: s.sink, LearnerID: learner.ID, SessionID: learner.SessionID, Now: s.cfg.Now}),
		journey.WithScheduler(s.cfg.Scheduler),
		journey.WithDelays(s.cfg.Delays),
		journey.WithClock(s.cfg.Now),
		journey.OnComplete(func(j *journey.Journey) { s.record(j, learner) }),
	)
	if err != nil {
		if stderrors.Is(err, content.ErrNotFound) {
			log.Info("journey content not found: framework=%s, word=%s: %v", frameworkID, wordID, err)
			return journey.View{}, wordNotFound(err)
		}
		log.Error("failed to create journey: %v", err)
		return journey.View{}, errors.NewInternalError(err)
	}
	if err := j.Start(); err != nil {
		log.Error("failed to start journey: %v", err)
		return journey.View{}, errors.NewInternalError(err)
	}

	s.mu.Lock()
	s.live[id] = &liveJourney{j: j, learner: learner}
	s.mu.Unlock()

	log.Info("journey started: id=%s, framework=%s, word=%s", id, frameworkID, wordID)
	return j.View(), nil
}

func (s *journeyService) get(learner Learner, id string) (*journey.Journey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lj, ok := s.live[id]
	if !ok || lj.learner.ID != learner.ID {
		return nil, errors.NewNotFoundError("journey", id).Wrap(ErrJourneyNotFound)
	}
	return lj.j, nil
}

func (s *journeyService) View(ctx context.Context, learner Learner, id string) (journey.View, error) {
	logger.FromContext(ctx).WithPrefix("journey_service").Debug("viewing journey: id=%s", id)
	j, err := s.get(learner, id)
	if err != nil {
		return journey.View{}, err
	}
	return j.View(), nil
}

func (s *journeyService) Submit(ctx context.Context, learner Learner, id string, answer step.Answer) (*ActionResult, error) {
	log := logger.FromContext(ctx).WithPrefix("journey_service").WithField("journey", id)
	log.Debug("submitting answer: %s", answer.Display())
	return s.act(log, learner, id, func(j *journey.Journey) (step.Outcome, error) { return j.Submit(answer) })
}

func (s *journeyService) Skip(ctx context.Context, learner Learner, id string) (*ActionResult, error) {
	log := logger.FromContext(ctx).WithPrefix("journey_service").WithField("journey", id)
	log.Debug("skipping step")
	return s.act(log, learner, id, (*journey.Journey).Skip)
}

func (s *journeyService) Continue(ctx context.Context, learner Learner, id string) (*ActionResult, error) {
	log := logger.FromContext(ctx).WithPrefix("journey_service").WithField("journey", id)
	log.Debug("continuing step")
	return s.act(log, learner, id, (*journey.Journey).Continue)
}

func (s *journeyService) act(log *logger.Logger, learner Learner, id string, do func(*journey.Journey) (step.Outcome, error)) (*ActionResult, error) {
	j, err := s.get(learner, id)
	if err != nil {
		return nil, err
	}
	out, err := do(j)
	if err != nil {
		appErr := actionError(err)
		if appErr.Status >= 500 {
			log.Error("journey action failed: %v", err)
		} else {
			log.Debug("journey action refused: %v", err)
		}
		return nil, appErr
	}
	log.Debug("action decided: %s (attempt %d)", out.Decision, out.Attempt)
	return &ActionResult{Outcome: out, View: j.View()}, nil
}

func (s *journeyService) Summary(ctx context.Context, learner Learner, id string) (models.JourneySummary, error) {
	logger.FromContext(ctx).WithPrefix("journey_service").Debug("summarising journey: id=%s", id)
	j, err := s.get(learner, id)
	if err != nil {
		return models.JourneySummary{}, err
	}
	sum, err := j.Summary()
	if err != nil {
		return models.JourneySummary{}, actionError(err)
	}
	return sum, nil
}

func (s *journeyService) Emit(ctx context.Context, learner Learner, id, name string, meta map[string]any) error {
	log := logger.FromContext(ctx).WithPrefix("journey_service")
	log.Debug("client event: journey=%s, event=%s", id, name)

	if name == "" {
		return errors.NewValidationError("event", "cannot be empty")
	}
	if lo.Contains(coreEvents, name) {
		return errors.NewValidationError("event", name+" is emitted by the server")
	}
	j, err := s.get(learner, id)
	if err != nil {
		return err
	}
	j.Emit(name, meta)
	return nil
}

// coreEvents may only come from the journey itself.
var coreEvents = []string{
	models.EventStepView,
	models.EventAnswerSubmit,
	models.EventAnswerResult,
	models.EventStepSkip,
	models.EventCompleteWord,
}

func (s *journeyService) Close(ctx context.Context, learner Learner, id string) error {
	log := logger.FromContext(ctx).WithPrefix("journey_service")
	log.Debug("closing journey: id=%s", id)

	j, err := s.get(learner, id)
	if err != nil {
		return err
	}
	j.Close()

	s.mu.Lock()
	delete(s.live, id)
	s.mu.Unlock()
	return nil
}

func (s *journeyService) Sweep(ctx context.Context) int {
	log := logger.FromContext(ctx).WithPrefix("journey_service")
	if s.cfg.IdleTimeout <= 0 {
		return 0
	}
	cutoff := s.cfg.Now().Add(-s.cfg.IdleTimeout)

	s.mu.Lock()
	var idle []*journey.Journey
	for id, lj := range s.live {
		if lj.j.LastActive().Before(cutoff) {
			idle = append(idle, lj.j)
			delete(s.live, id)
		}
	}
	s.mu.Unlock()

	for _, j := range idle {
		j.Close()
	}
	if len(idle) > 0 {
		log.Info("closed %d idle journeys", len(idle))
	}
	return len(idle)
}

func (s *journeyService) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

func (s *journeyService) Shutdown(ctx context.Context) {
	s.mu.Lock()
	live := s.live
	s.live = make(map[string]*liveJourney)
	s.mu.Unlock()

	for _, lj := range live {
		lj.j.Close()
	}
	logger.FromContext(ctx).WithPrefix("journey_service").Info("closed %d live journeys", len(live))
}

// record hands a completed journey to background persistence.
func (s *journeyService) record(j *journey.Journey, learner Learner) {
	log := logger.Default().WithPrefix("journey_service").WithField("journey", j.ID())
	sum, err := j.Summary()
	if err != nil {
		log.Error("completed journey has no summary: %v", err)
		return
	}
	rec := models.JourneyRecord{
		ID:          j.ID(),
		LearnerID:   learner.ID,
		SessionID:   learner.SessionID,
		Framework:   sum.Framework,
		WordID:      sum.WordID,
		Mastery:     sum.Mastery,
		Correct:     sum.CorrectSteps,
		Total:       sum.TotalSteps,
		Steps:       j.Results(),
		CompletedAt: s.cfg.Now().UTC(),
	}
	log.Info("journey completed: framework=%s, word=%s, correct=%d/%d, mastery=%t",
		rec.Framework, rec.WordID, rec.Correct, rec.Total, rec.Mastery)
	if s.queue == nil {
		return
	}
	if err := s.queue.EnqueueRecord(rec); err != nil {
		log.Warn("journey record not queued: %v", err)
	}
}

// actionError maps journey and step errors onto API errors.
func actionError(err error) *errors.AppError {
	switch {
	case stderrors.Is(err, validate.ErrInvalidSubmission):
		return errors.NewValidationError("answer", "cannot be empty")
	case stderrors.Is(err, step.ErrUnsupportedAction):
		return errors.NewBadRequestError(err.Error())
	case stderrors.Is(err, step.ErrStepLocked),
		stderrors.Is(err, journey.ErrNotStarted),
		stderrors.Is(err, journey.ErrNotCompleted),
		stderrors.Is(err, journey.ErrAlreadyCompleted),
		stderrors.Is(err, journey.ErrClosed),
		stderrors.Is(err, journey.ErrStepMismatch):
		return errors.NewConflictError(err.Error(), err)
	case stderrors.Is(err, content.ErrNotFound):
		return wordNotFound(err)
	}
	return errors.NewInternalError(err)
}

// wordNotFound is the one learner-facing failure: the journey cannot start
// and the client offers a way back to word selection.
func wordNotFound(err error) *errors.AppError {
	appErr := errors.NewNotFoundError("word", "")
	appErr.Message = "word not found"
	return appErr.Wrap(err)
}
