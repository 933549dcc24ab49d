package models

import "time"

// Event names emitted by the journey core.
const (
	EventStepView     = "step_view"
	EventAnswerSubmit = "answer_submit"
	EventAnswerResult = "answer_result"
	EventStepSkip     = "step_skip"
	EventCompleteWord = "complete_word"
	EventTTSSpeak     = "tts_speak"
)

type Event struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"ts"`
	LearnerID string         `json:"learner_id"`
	SessionID string         `json:"session_id"`
	Framework string         `json:"framework"`
	WordID    string         `json:"word_id"`
	StepID    string         `json:"step_id"`
	Name      string         `json:"event"`
	Meta      map[string]any `json:"meta,omitempty"`
}

type EventFilter struct {
	Framework string
	WordID    string
	Name      string
	LearnerID string
	Since     *time.Time
	Limit     int
	Offset    int
}
