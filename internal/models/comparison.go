package models

// FrameworkComparison aggregates logged events for one framework.
type FrameworkComparison struct {
	Framework      string `json:"framework"`
	StepViews      int    `json:"step_views"`
	TotalAnswers   int    `json:"total_answers"`
	CorrectAnswers int    `json:"correct_answers"`
	SkippedSteps   int    `json:"skipped_steps"`
	TotalAttempts  int    `json:"total_attempts"`
	TotalSeconds   int64  `json:"total_seconds"`
	Accuracy       int    `json:"accuracy"`
}
