package journey

import (
	"github.com/samber/lo"
	"github.com/vytor/wordjourney/internal/models"
)

// Summarize projects a result log onto the journey summary. Mastery needs
// at least 80% of steps passed and the framework's gate step passed; a
// framework without a flagged gate uses its last step.
func Summarize(fw models.Framework, results []models.StepResult) models.JourneySummary {
	byStep := lo.KeyBy(results, func(r models.StepResult) string { return r.StepID })

	total := len(fw.Steps)
	correct := lo.CountBy(results, models.StepResult.Passed)
	skipped := lo.CountBy(results, func(r models.StepResult) bool { return r.Skipped })

	var skills []models.SkillScore
	for _, skill := range models.Skills {
		tagged := lo.Filter(fw.Steps, func(s models.JourneyStep, _ int) bool { return s.Skill == skill })
		if len(tagged) == 0 {
			continue
		}
		passed := lo.CountBy(tagged, func(s models.JourneyStep) bool { return byStep[s.ID].Passed() })
		skills = append(skills, models.SkillScore{
			Skill:   skill,
			Correct: passed,
			Total:   len(tagged),
			Percent: models.Percent(passed, len(tagged)),
		})
	}

	gate, ok := fw.GateStep()
	if !ok && total > 0 {
		gate = fw.Steps[total-1]
	}
	passedGate := byStep[gate.ID].Passed()

	return models.JourneySummary{
		Framework:       fw.ID,
		TotalSteps:      total,
		CorrectSteps:    correct,
		SkippedSteps:    skipped,
		Percent:         models.Percent(correct, total),
		Skills:          skills,
		Mastery:         total > 0 && 5*correct >= 4*total && passedGate,
		PassedFinalStep: passedGate,
	}
}
