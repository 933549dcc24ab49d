// Package journey drives one learner through one framework's steps for one
// word: it owns the result log, schedules the feedback pause before each
// advance, and computes the summary once the last step is done.
package journey

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vytor/wordjourney/internal/content"
	"github.com/vytor/wordjourney/internal/events"
	"github.com/vytor/wordjourney/internal/models"
	"github.com/vytor/wordjourney/internal/step"
)

var (
	ErrNotStarted       = errors.New("journey not started")
	ErrAlreadyStarted   = errors.New("journey already started")
	ErrNotCompleted     = errors.New("journey not completed")
	ErrAlreadyCompleted = errors.New("journey already completed")
	ErrClosed           = errors.New("journey closed")
	ErrStepMismatch     = errors.New("result does not belong to the current step")
)

type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusClosed     Status = "closed"
)

// Catalogue is the read-only content the orchestrator looks up.
type Catalogue interface {
	Word(id string) (models.Word, error)
	Framework(id string) (models.Framework, error)
	Exercise(framework, wordID, stepID string) (content.Exercise, error)
}

// Delays is how long feedback stays on screen before the next step.
type Delays struct {
	Success     time.Duration
	Reveal      time.Duration
	Acknowledge time.Duration
}

func DefaultDelays() Delays {
	return Delays{Success: 2 * time.Second, Reveal: 3 * time.Second, Acknowledge: time.Second}
}

func (d Delays) after(dec step.Decision) time.Duration {
	switch dec {
	case step.DecisionCorrect:
		return d.Success
	case step.DecisionExhausted:
		return d.Reveal
	case step.DecisionAcknowledged:
		return d.Acknowledge
	}
	return 0
}

type Option func(*Journey)

func WithID(id string) Option { return func(j *Journey) { j.id = id } }

func WithSink(sink events.Sink) Option { return func(j *Journey) { j.sink = sink } }

func WithScheduler(s Scheduler) Option { return func(j *Journey) { j.sched = s } }

func WithDelays(d Delays) Option { return func(j *Journey) { j.delays = d } }

func WithClock(now func() time.Time) Option { return func(j *Journey) { j.now = now } }

// OnComplete registers a callback run once, outside the journey lock, after
// the last step has been recorded.
func OnComplete(f func(*Journey)) Option { return func(j *Journey) { j.onComplete = f } }

type Journey struct {
	mu         sync.Mutex
	id         string
	cat        Catalogue
	fw         models.Framework
	word       models.Word
	sink       events.Sink
	sched      Scheduler
	delays     Delays
	now        func() time.Time
	onComplete func(*Journey)

	status     Status
	index      int
	ctrl       *step.Controller
	results    []models.StepResult
	pending    Timer
	generation int
	lastActive time.Time
}

// New prepares a journey. It fails with content.ErrNotFound when the word,
// the framework, or any step's exercise is missing.
func New(cat Catalogue, frameworkID, wordID string, opts ...Option) (*Journey, error) {
	word, err := cat.Word(wordID)
	if err != nil {
		return nil, err
	}
	fw, err := cat.Framework(frameworkID)
	if err != nil {
		return nil, err
	}
	for _, s := range fw.Steps {
		if _, err := cat.Exercise(fw.ID, word.ID, s.ID); err != nil {
			return nil, err
		}
	}

	j := &Journey{
		cat:    cat,
		fw:     fw,
		word:   word,
		sink:   events.Discard,
		sched:  RealScheduler,
		delays: DefaultDelays(),
		now:    time.Now,
		status: StatusNotStarted,
	}
	for _, opt := range opts {
		opt(j)
	}
	j.lastActive = j.now()
	return j, nil
}

func (j *Journey) ID() string                  { return j.id }
func (j *Journey) Framework() models.Framework { return j.fw }
func (j *Journey) Word() models.Word           { return j.word }

func (j *Journey) Status() Status {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status
}

// LastActive is the time of the most recent learner action.
func (j *Journey) LastActive() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.lastActive
}

// Results returns a copy of the result log.
func (j *Journey) Results() []models.StepResult {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]models.StepResult(nil), j.results...)
}

// Start activates the first step.
func (j *Journey) Start() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	switch j.status {
	case StatusClosed:
		return ErrClosed
	case StatusNotStarted:
	default:
		return ErrAlreadyStarted
	}
	j.status = StatusInProgress
	j.lastActive = j.now()
	return j.enterLocked(0)
}

// Submit passes an answer to the active step. A final verdict schedules the
// advance after the matching feedback delay.
func (j *Journey) Submit(a step.Answer) (step.Outcome, error) {
	return j.act(func(c *step.Controller) (step.Outcome, error) { return c.Submit(a) })
}

// Skip ends the active step and advances immediately.
func (j *Journey) Skip() (step.Outcome, error) {
	return j.act(func(c *step.Controller) (step.Outcome, error) { return c.Skip() })
}

// Continue completes a single free-action step.
func (j *Journey) Continue() (step.Outcome, error) {
	return j.act(func(c *step.Controller) (step.Outcome, error) { return c.Continue() })
}

func (j *Journey) act(do func(*step.Controller) (step.Outcome, error)) (step.Outcome, error) {
	j.mu.Lock()
	if err := j.activeLocked(); err != nil {
		j.mu.Unlock()
		return step.Outcome{}, err
	}
	j.lastActive = j.now()

	out, err := do(j.ctrl)
	if err != nil || out.Result == nil {
		j.mu.Unlock()
		return out, err
	}

	delay := j.delays.after(out.Decision)
	if delay <= 0 {
		done, err := j.advanceLocked(*out.Result)
		j.mu.Unlock()
		if done {
			j.complete()
		}
		return out, err
	}

	j.scheduleLocked(*out.Result, delay)
	j.mu.Unlock()
	return out, nil
}

// Advance records result for the current step and moves on. Any scheduled
// advance is cancelled first.
func (j *Journey) Advance(result models.StepResult) error {
	j.mu.Lock()
	if err := j.activeLocked(); err != nil {
		j.mu.Unlock()
		return err
	}
	done, err := j.advanceLocked(result)
	j.mu.Unlock()
	if done {
		j.complete()
	}
	return err
}

// Close tears the journey down and cancels any scheduled advance.
func (j *Journey) Close() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.cancelLocked()
	j.ctrl = nil
	if j.status != StatusCompleted {
		j.status = StatusClosed
	}
}

// Summary is only available once the journey has completed.
func (j *Journey) Summary() (models.JourneySummary, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status != StatusCompleted {
		return models.JourneySummary{}, ErrNotCompleted
	}
	s := Summarize(j.fw, j.results)
	s.WordID = j.word.ID
	return s, nil
}

// Emit forwards a client-side notification, such as text-to-speech, tagged
// with the active step.
func (j *Journey) Emit(name string, meta map[string]any) {
	j.mu.Lock()
	stepID := ""
	if j.ctrl != nil {
		stepID = j.ctrl.Step().ID
	}
	j.mu.Unlock()
	j.notify(name, stepID, meta)
}

func (j *Journey) activeLocked() error {
	switch j.status {
	case StatusNotStarted:
		return ErrNotStarted
	case StatusCompleted:
		return ErrAlreadyCompleted
	case StatusClosed:
		return ErrClosed
	}
	return nil
}

func (j *Journey) enterLocked(i int) error {
	s := j.fw.Steps[i]
	ex, err := j.cat.Exercise(j.fw.ID, j.word.ID, s.ID)
	if err != nil {
		return err
	}
	j.index = i
	j.ctrl = step.New(s, ex,
		step.WithSink(j.sink, models.Event{Framework: j.fw.ID, WordID: j.word.ID}),
		step.WithClock(j.now),
	)
	j.notify(models.EventStepView, s.ID, map[string]any{"stepId": s.ID, "stepIndex": i})
	return nil
}

func (j *Journey) scheduleLocked(res models.StepResult, delay time.Duration) {
	j.cancelLocked()
	j.generation++
	gen := j.generation
	j.pending = j.sched.AfterFunc(delay, func() {
		j.mu.Lock()
		if gen != j.generation || j.status != StatusInProgress {
			j.mu.Unlock()
			return
		}
		j.pending = nil
		done, _ := j.advanceLocked(res)
		j.mu.Unlock()
		if done {
			j.complete()
		}
	})
}

func (j *Journey) cancelLocked() {
	if j.pending != nil {
		j.pending.Stop()
		j.pending = nil
	}
	j.generation++
}

// advanceLocked appends res and either enters the next step or completes.
// It reports whether the journey just completed.
func (j *Journey) advanceLocked(res models.StepResult) (bool, error) {
	current := j.fw.Steps[j.index]
	if res.StepID != current.ID {
		return false, fmt.Errorf("%w: got %q, current %q", ErrStepMismatch, res.StepID, current.ID)
	}
	j.cancelLocked()

	j.results = append(j.results, res)
	j.notify(models.EventCompleteWord, current.ID, map[string]any{
		"stepId":  current.ID,
		"correct": res.Correct,
		"skipped": res.Skipped,
	})

	if j.index+1 < len(j.fw.Steps) {
		return false, j.enterLocked(j.index + 1)
	}
	j.ctrl = nil
	j.status = StatusCompleted
	return true, nil
}

func (j *Journey) complete() {
	if j.onComplete != nil {
		j.onComplete(j)
	}
}

func (j *Journey) notify(name, stepID string, meta map[string]any) {
	j.sink.Notify(models.Event{
		Framework: j.fw.ID,
		WordID:    j.word.ID,
		StepID:    stepID,
		Name:      name,
		Meta:      meta,
	})
}
