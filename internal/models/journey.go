package models

import "time"

// Skill tags a step with the language skill it exercises.
type Skill string

const (
	SkillListening Skill = "listening"
	SkillReading   Skill = "reading"
	SkillWriting   Skill = "writing"
)

// Skills lists every skill in display order.
var Skills = []Skill{SkillListening, SkillReading, SkillWriting}

func (s Skill) Valid() bool {
	switch s {
	case SkillListening, SkillReading, SkillWriting:
		return true
	}
	return false
}

// ExerciseType selects the validator and attempt policy for a step.
type ExerciseType string

const (
	ExerciseSingleChoice ExerciseType = "single_choice"
	ExerciseFillBlank    ExerciseType = "fill_blank"
	ExerciseMultiSelect  ExerciseType = "multi_select"
	ExerciseFreeText     ExerciseType = "free_text"
	ExerciseUnscramble   ExerciseType = "unscramble"
	ExerciseSequence     ExerciseType = "sequence"
	ExerciseAcknowledge  ExerciseType = "acknowledge"
)

func (t ExerciseType) Valid() bool {
	switch t {
	case ExerciseSingleChoice, ExerciseFillBlank, ExerciseMultiSelect, ExerciseFreeText,
		ExerciseUnscramble, ExerciseSequence, ExerciseAcknowledge:
		return true
	}
	return false
}

type JourneyStep struct {
	ID          string       `json:"id"`
	Label       string       `json:"label"`
	Skill       Skill        `json:"skill"`
	Type        ExerciseType `json:"type"`
	MasteryGate bool         `json:"mastery_gate"`
}

type Framework struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Steps       []JourneyStep `json:"steps"`
}

// StepIndex returns the position of stepID in the framework, or -1.
func (f Framework) StepIndex(stepID string) int {
	for i, s := range f.Steps {
		if s.ID == stepID {
			return i
		}
	}
	return -1
}

// GateStep returns the step flagged as the mastery gate.
func (f Framework) GateStep() (JourneyStep, bool) {
	for _, s := range f.Steps {
		if s.MasteryGate {
			return s, true
		}
	}
	return JourneyStep{}, false
}

// StepResult is produced exactly once per step and never mutated afterwards.
type StepResult struct {
	StepID    string `json:"step_id"`
	Correct   bool   `json:"correct"`
	Skipped   bool   `json:"skipped"`
	Attempts  int    `json:"attempts"`
	ElapsedMS int64  `json:"elapsed_ms"`
}

// Passed reports whether the step counts towards the correct tally.
func (r StepResult) Passed() bool {
	return r.Correct && !r.Skipped
}

type SkillScore struct {
	Skill   Skill `json:"skill"`
	Correct int   `json:"correct"`
	Total   int   `json:"total"`
	Percent int   `json:"percent"`
}

type JourneySummary struct {
	Framework       string       `json:"framework"`
	WordID          string       `json:"word_id"`
	TotalSteps      int          `json:"total_steps"`
	CorrectSteps    int          `json:"correct_steps"`
	SkippedSteps    int          `json:"skipped_steps"`
	Percent         int          `json:"percent"`
	Skills          []SkillScore `json:"skills"`
	Mastery         bool         `json:"mastery"`
	PassedFinalStep bool         `json:"passed_final_step"`
}

// JourneyRecord is a completed journey as persisted for later review.
type JourneyRecord struct {
	ID          string       `json:"id"`
	LearnerID   string       `json:"learner_id"`
	SessionID   string       `json:"session_id"`
	Framework   string       `json:"framework"`
	WordID      string       `json:"word_id"`
	Mastery     bool         `json:"mastery"`
	Correct     int          `json:"correct"`
	Total       int          `json:"total"`
	Steps       []StepResult `json:"steps"`
	CompletedAt time.Time    `json:"completed_at"`
}

type JourneyRecordFilter struct {
	LearnerID string
	Framework string
	WordID    string
	Limit     int
	Offset    int
}

// Percent computes round(correct/total*100), treating an empty total as 0%.
func Percent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(float64(correct)/float64(total)*100 + 0.5)
}
