// Package step runs the attempt loop for a single journey step: it validates
// submissions, counts attempts, decides feedback and produces the step's one
// StepResult.
package step

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/vytor/wordjourney/internal/content"
	"github.com/vytor/wordjourney/internal/events"
	"github.com/vytor/wordjourney/internal/models"
	"github.com/vytor/wordjourney/internal/validate"
)

// MaxAttempts is the attempt budget per step, and per sub-question in a
// sequence exercise.
const MaxAttempts = 3

var (
	ErrStepLocked        = errors.New("step is locked")
	ErrUnsupportedAction = errors.New("action not supported by this exercise")
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
)

type Feedback struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	Reason   string   `json:"reason,omitempty"`
}

// Decision is what the controller concluded about one submission.
type Decision string

const (
	// DecisionRetry leaves the step open for another attempt.
	DecisionRetry Decision = "retry"
	// DecisionNextItem moves a sequence exercise to its next sub-question.
	DecisionNextItem Decision = "next_item"
	// DecisionCorrect means the last submission was right. For sequences the
	// step result can still be incorrect if an earlier item was exhausted.
	DecisionCorrect Decision = "correct"
	// DecisionExhausted locks the step after the last allowed attempt.
	DecisionExhausted    Decision = "exhausted"
	DecisionSkipped      Decision = "skipped"
	DecisionAcknowledged Decision = "acknowledged"
)

// Outcome reports one processed action. Result is set once the step is done.
type Outcome struct {
	Decision Decision           `json:"decision"`
	Verdict  validate.Verdict   `json:"verdict"`
	Attempt  int                `json:"attempt"`
	Result   *models.StepResult `json:"result,omitempty"`
}

// State is the render-facing view of the attempt loop.
type State struct {
	StepID       string    `json:"step_id"`
	Buffer       Answer    `json:"buffer"`
	Attempts     int       `json:"attempts"`
	Locked       bool      `json:"locked"`
	Feedback     *Feedback `json:"feedback,omitempty"`
	Hint         string    `json:"hint,omitempty"`
	Reveal       string    `json:"reveal,omitempty"`
	Item         int       `json:"item"`
	ItemAttempts int       `json:"item_attempts"`
}

// Option configures a Controller.
type Option func(*Controller)

// WithSink forwards submissions and results to sink. base supplies the
// framework and word of the enclosing journey.
func WithSink(sink events.Sink, base models.Event) Option {
	return func(c *Controller) {
		c.sink = sink
		c.base = base
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// Controller owns the AttemptState of one active step. It is safe for
// concurrent use, though callers normally serialise actions.
type Controller struct {
	mu      sync.Mutex
	step    models.JourneyStep
	ex      content.Exercise
	sink    events.Sink
	base    models.Event
	now     func() time.Time
	started time.Time

	state       State
	itemTries   []int
	itemCorrect []bool
	result      *models.StepResult
}

func New(step models.JourneyStep, ex content.Exercise, opts ...Option) *Controller {
	c := &Controller{
		step: step,
		ex:   ex,
		sink: events.Discard,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.started = c.now()
	c.state.StepID = step.ID
	if ex.Type == models.ExerciseSequence {
		c.itemTries = make([]int, len(ex.Items))
		c.itemCorrect = make([]bool, len(ex.Items))
	}
	return c
}

func (c *Controller) Step() models.JourneyStep { return c.step }

func (c *Controller) Exercise() content.Exercise { return c.ex }

// State returns a snapshot of the attempt loop.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	if s.Feedback != nil {
		fb := *s.Feedback
		s.Feedback = &fb
	}
	return s
}

// Result returns the step's result once it has been produced.
func (c *Controller) Result() (models.StepResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result == nil {
		return models.StepResult{}, false
	}
	return *c.result, true
}

// Submit evaluates one answer. An empty answer returns
// validate.ErrInvalidSubmission and consumes no attempt.
func (c *Controller) Submit(a Answer) (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Locked {
		return Outcome{}, ErrStepLocked
	}
	if c.ex.Type == models.ExerciseAcknowledge {
		return Outcome{}, ErrUnsupportedAction
	}
	if a.isZero() {
		return Outcome{}, validate.ErrInvalidSubmission
	}
	if c.ex.Type == models.ExerciseSequence {
		return c.submitItem(a)
	}

	v, err := c.check(a)
	if err != nil {
		return Outcome{}, err
	}

	c.state.Attempts++
	c.state.Buffer = a
	attempt := c.state.Attempts
	c.emit(models.EventAnswerSubmit, map[string]any{"answer": a.Display(), "attempt": attempt})

	switch {
	case v.Correct:
		msg := "Correct!"
		if v.Suggestion() {
			msg = v.Reason
		}
		c.state.Feedback = &Feedback{Message: msg, Severity: SeveritySuccess, Reason: v.Reason}
		return Outcome{Decision: DecisionCorrect, Verdict: v, Attempt: attempt, Result: c.finish(true, false)}, nil

	case attempt < MaxAttempts:
		c.state.Feedback = &Feedback{Message: triesLeft(MaxAttempts - attempt), Severity: SeverityError, Reason: v.Reason}
		if v.Reason != "" {
			c.state.Feedback.Message = v.Reason + " " + c.state.Feedback.Message
		}
		if !c.keepsBuffer() {
			c.state.Buffer = Answer{}
		}
		if attempt == MaxAttempts-1 && c.ex.Type == models.ExerciseSingleChoice && c.ex.Explanation != "" {
			c.state.Hint = c.ex.Explanation
		}
		return Outcome{Decision: DecisionRetry, Verdict: v, Attempt: attempt}, nil

	default:
		c.state.Reveal = c.reveal()
		msg := "The correct answer is: " + c.state.Reveal
		if c.ex.Type == models.ExerciseFreeText {
			msg = "A good answer would be " + c.state.Reveal
		}
		c.state.Feedback = &Feedback{Message: msg, Severity: SeverityInfo, Reason: v.Reason}
		return Outcome{Decision: DecisionExhausted, Verdict: v, Attempt: attempt, Result: c.finish(false, false)}, nil
	}
}

// Skip ends the step immediately without invoking a validator.
func (c *Controller) Skip() (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Locked {
		return Outcome{}, ErrStepLocked
	}
	c.emit(models.EventStepSkip, nil)
	return Outcome{Decision: DecisionSkipped, Attempt: c.state.Attempts, Result: c.finish(false, true)}, nil
}

// Continue completes a single free-action step.
func (c *Controller) Continue() (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Locked {
		return Outcome{}, ErrStepLocked
	}
	if c.ex.Type != models.ExerciseAcknowledge {
		return Outcome{}, ErrUnsupportedAction
	}
	c.state.Attempts = 1
	c.state.Feedback = &Feedback{Message: "Great, let's continue.", Severity: SeveritySuccess}
	return Outcome{Decision: DecisionAcknowledged, Verdict: validate.Verdict{Correct: true}, Attempt: 1, Result: c.finish(true, false)}, nil
}

func (c *Controller) check(a Answer) (validate.Verdict, error) {
	switch c.ex.Type {
	case models.ExerciseSingleChoice:
		return validate.Choice(a.Choice, c.ex.CorrectID)
	case models.ExerciseFillBlank:
		return validate.FillBlank(a.Text, c.ex.Answer)
	case models.ExerciseMultiSelect:
		return validate.MultiSelect(a.Selections, c.ex.CorrectIDs)
	case models.ExerciseFreeText:
		return validate.Sentence(a.Text, c.sentenceRule())
	case models.ExerciseUnscramble:
		return validate.Unscramble(a.Letters, c.ex.Answer)
	}
	return validate.Verdict{}, fmt.Errorf("%w: %s", ErrUnsupportedAction, c.ex.Type)
}

func (c *Controller) sentenceRule() validate.SentenceRule {
	return validate.SentenceRule{
		Target:        c.ex.Target,
		RequireTarget: c.ex.RequireTarget,
		MinWords:      c.ex.MinWords,
		Collocations:  c.ex.Collocations,
		KeyWords:      c.ex.KeyWords,
		WordBank:      c.ex.WordBank,
		MinBankWords:  c.ex.MinBankWords,
	}
}

// keepsBuffer reports whether a wrong answer stays in the input so the
// learner can adjust it rather than start over.
func (c *Controller) keepsBuffer() bool {
	return c.ex.Type == models.ExerciseMultiSelect || c.ex.Type == models.ExerciseFreeText
}

func (c *Controller) reveal() string {
	var answer string
	switch c.ex.Type {
	case models.ExerciseSingleChoice, models.ExerciseMultiSelect:
		answer = strings.Join(c.ex.CorrectLabels(), ", ")
	case models.ExerciseFillBlank, models.ExerciseUnscramble:
		answer = c.ex.Answer
	case models.ExerciseFreeText:
		answer = c.freeTextModel()
	}
	if c.ex.Explanation != "" {
		answer += ". " + c.ex.Explanation
	}
	return answer
}

func (c *Controller) freeTextModel() string {
	switch {
	case len(c.ex.Collocations) > 0:
		return "a sentence of at least " + wordCount(c.ex.MinWords) + " using phrases like " + strings.Join(c.ex.Collocations[:min(2, len(c.ex.Collocations))], ", ")
	case len(c.ex.KeyWords) > 0:
		return "a description using words like " + strings.Join(c.ex.KeyWords, ", ")
	case c.ex.MinBankWords > 0:
		return fmt.Sprintf("a sentence with %q and at least %d of: %s", c.ex.Target, c.ex.MinBankWords, strings.Join(c.ex.WordBank, ", "))
	}
	return fmt.Sprintf("a phrase of at least %s that includes %q", wordCount(c.ex.MinWords), c.ex.Target)
}

func (c *Controller) finish(correct, skipped bool) *models.StepResult {
	c.state.Locked = true
	res := &models.StepResult{
		StepID:    c.step.ID,
		Correct:   correct,
		Skipped:   skipped,
		Attempts:  c.state.Attempts,
		ElapsedMS: c.now().Sub(c.started).Milliseconds(),
	}
	c.result = res
	if !skipped {
		c.emit(models.EventAnswerResult, map[string]any{"correct": correct, "attempts": res.Attempts})
	}
	out := *res
	return &out
}

func (c *Controller) emit(name string, meta map[string]any) {
	ev := c.base
	ev.StepID = c.step.ID
	ev.Name = name
	ev.Meta = lo.Assign(map[string]any{"stepId": c.step.ID}, meta)
	c.sink.Notify(ev)
}

func triesLeft(n int) string {
	if n == 1 {
		return "Not quite... 1 try left"
	}
	return fmt.Sprintf("Not quite... %d tries left", n)
}

func wordCount(n int) string {
	if n == 1 {
		return "1 word"
	}
	return fmt.Sprintf("%d words", n)
}
