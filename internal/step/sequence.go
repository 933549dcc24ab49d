package step

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/vytor/wordjourney/internal/content"
	"github.com/vytor/wordjourney/internal/models"
	"github.com/vytor/wordjourney/internal/validate"
)

// submitItem runs the attempt loop for the current sub-question. Each
// sub-question has its own budget; the step finishes after the last one and
// is correct only if every sub-question was eventually answered correctly.
func (c *Controller) submitItem(a Answer) (Outcome, error) {
	i := c.state.Item
	item := c.ex.Items[i]

	v, err := checkItem(item, a)
	if err != nil {
		return Outcome{}, err
	}

	c.itemTries[i]++
	c.state.ItemAttempts = c.itemTries[i]
	c.state.Attempts = lo.Sum(c.itemTries)
	c.state.Buffer = a
	c.emit(models.EventAnswerSubmit, map[string]any{
		"answer":  a.Display(),
		"attempt": c.itemTries[i],
		"item":    item.ID,
	})

	decision := DecisionRetry
	switch {
	case v.Correct:
		c.itemCorrect[i] = true
		c.state.Reveal = ""
		c.state.Feedback = &Feedback{Message: "Correct!", Severity: SeveritySuccess}
		decision = DecisionNextItem
	case c.itemTries[i] < MaxAttempts:
		c.state.Feedback = &Feedback{Message: triesLeft(MaxAttempts - c.itemTries[i]), Severity: SeverityError}
		c.state.Buffer = Answer{}
		return Outcome{Decision: decision, Verdict: v, Attempt: c.itemTries[i]}, nil
	default:
		c.state.Reveal = revealItem(item)
		c.state.Feedback = &Feedback{Message: "The correct answer is: " + c.state.Reveal, Severity: SeverityInfo}
		decision = DecisionNextItem
	}

	out := Outcome{Decision: decision, Verdict: v, Attempt: c.itemTries[i]}
	if i+1 < len(c.ex.Items) {
		c.state.Item = i + 1
		c.state.ItemAttempts = 0
		c.state.Buffer = Answer{}
		return out, nil
	}

	if v.Correct {
		out.Decision = DecisionCorrect
	} else {
		out.Decision = DecisionExhausted
	}
	out.Result = c.finish(lo.EveryBy(c.itemCorrect, func(ok bool) bool { return ok }), false)
	return out, nil
}

func checkItem(item content.Item, a Answer) (validate.Verdict, error) {
	switch item.Kind {
	case content.ItemChoice:
		return validate.Choice(a.Choice, item.CorrectID)
	case content.ItemFill:
		return validate.FillBlank(a.Text, item.Answer)
	case content.ItemJudgment:
		return validate.Judgment(a.Judgment, *item.Acceptable)
	}
	return validate.Verdict{}, fmt.Errorf("%w: item kind %s", ErrUnsupportedAction, item.Kind)
}

func revealItem(item content.Item) string {
	switch item.Kind {
	case content.ItemChoice:
		if ch, ok := item.Choice(item.CorrectID); ok {
			return ch.Label
		}
		return item.CorrectID
	case content.ItemFill:
		return item.Answer
	case content.ItemJudgment:
		if *item.Acceptable {
			return "acceptable (" + item.Usage + ")"
		}
		return "not acceptable (" + item.Usage + ")"
	}
	return ""
}
