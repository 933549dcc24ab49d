package journey

import (
	"github.com/vytor/wordjourney/internal/content"
	"github.com/vytor/wordjourney/internal/models"
	"github.com/vytor/wordjourney/internal/step"
)

// View is everything a client needs to render the journey right now.
type View struct {
	ID         string              `json:"id"`
	Framework  string              `json:"framework"`
	Word       models.Word         `json:"word"`
	Status     Status              `json:"status"`
	StepIndex  int                 `json:"step_index"`
	TotalSteps int                 `json:"total_steps"`
	Progress   int                 `json:"progress"`
	Step       *models.JourneyStep `json:"step,omitempty"`
	Exercise   *content.Exercise   `json:"exercise,omitempty"`
	Attempt    *step.State         `json:"attempt,omitempty"`
	Advancing  bool                `json:"advancing"`
	Results    []models.StepResult `json:"results"`
}

func (j *Journey) View() View {
	j.mu.Lock()
	defer j.mu.Unlock()

	v := View{
		ID:         j.id,
		Framework:  j.fw.ID,
		Word:       j.word,
		Status:     j.status,
		StepIndex:  j.index,
		TotalSteps: len(j.fw.Steps),
		Progress:   models.Percent(len(j.results), len(j.fw.Steps)),
		Advancing:  j.pending != nil,
		Results:    append([]models.StepResult{}, j.results...),
	}
	if j.ctrl != nil {
		s := j.ctrl.Step()
		ex := j.ctrl.Exercise()
		st := j.ctrl.State()
		v.Step, v.Exercise, v.Attempt = &s, &ex, &st
	}
	return v
}
