package models

import "time"

type Thumb string

const (
	ThumbUp   Thumb = "up"
	ThumbDown Thumb = "down"
)

type Difficulty string

const (
	DifficultyEasy      Difficulty = "easy"
	DifficultyMedium    Difficulty = "medium"
	DifficultyDifficult Difficulty = "difficult"
)

type FeedbackItem struct {
	ID         string         `json:"id"`
	Timestamp  time.Time      `json:"ts"`
	SessionID  string         `json:"session_id"`
	LearnerID  string         `json:"learner_id"`
	Framework  string         `json:"framework"`
	WordID     string         `json:"word_id"`
	StepID     string         `json:"step_id"`
	StepLabel  string         `json:"step_label"`
	Thumb      *Thumb         `json:"thumb"`
	Include    *bool          `json:"include"`
	Difficulty *Difficulty    `json:"difficulty"`
	Comment    string         `json:"comment"`
	Meta       map[string]any `json:"meta,omitempty"`
}

type FeedbackFilter struct {
	Framework string
	WordID    string
	StepID    string
	Thumb     string
	Limit     int
	Offset    int
}
