package content

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/vytor/wordjourney/internal/models"
)

type problemList []string

func (p *problemList) addf(format string, args ...any) {
	*p = append(*p, fmt.Sprintf(format, args...))
}

func (p problemList) err() error {
	if len(p) == 0 {
		return nil
	}
	return errors.New("invalid content:\n  " + strings.Join(p, "\n  "))
}

// checkExercise reports what the exercise is missing for its type.
func checkExercise(ex Exercise) []string {
	var out []string
	switch ex.Type {
	case models.ExerciseSingleChoice:
		out = append(out, checkChoices(ex.Choices, []string{ex.CorrectID})...)
	case models.ExerciseMultiSelect:
		if len(ex.CorrectIDs) == 0 {
			out = append(out, "multi_select needs correct_ids")
		}
		out = append(out, checkChoices(ex.Choices, ex.CorrectIDs)...)
	case models.ExerciseFillBlank:
		if strings.TrimSpace(ex.Answer) == "" {
			out = append(out, "fill_blank needs an answer")
		} else if len(ex.WordBank) > 0 && !lo.ContainsBy(ex.WordBank, func(b string) bool {
			return strings.EqualFold(b, ex.Answer)
		}) {
			out = append(out, fmt.Sprintf("answer %q is not in the word bank", ex.Answer))
		}
	case models.ExerciseFreeText:
		if ex.MinWords <= 0 {
			out = append(out, "free_text needs min_words")
		}
		if ex.MinBankWords > len(ex.WordBank) {
			out = append(out, fmt.Sprintf("min_bank_words %d exceeds word bank size %d", ex.MinBankWords, len(ex.WordBank)))
		}
	case models.ExerciseUnscramble:
		if !sameLetters(ex.Letters, ex.Answer) {
			out = append(out, fmt.Sprintf("letters %v do not spell %q", ex.Letters, ex.Answer))
		}
	case models.ExerciseSequence:
		if len(ex.Items) == 0 {
			out = append(out, "sequence needs items")
		}
		for _, it := range ex.Items {
			for _, p := range checkItem(it) {
				out = append(out, fmt.Sprintf("item %q: %s", it.ID, p))
			}
		}
	case models.ExerciseAcknowledge:
	}
	return out
}

func checkItem(it Item) []string {
	switch it.Kind {
	case ItemChoice:
		return checkChoices(it.Choices, []string{it.CorrectID})
	case ItemFill:
		if strings.TrimSpace(it.Answer) == "" {
			return []string{"fill item needs an answer"}
		}
	case ItemJudgment:
		if it.Acceptable == nil {
			return []string{"judgment item needs acceptable"}
		}
	default:
		return []string{fmt.Sprintf("unknown item kind %q", it.Kind)}
	}
	return nil
}

func checkChoices(choices []Choice, correct []string) []string {
	if len(choices) < 2 {
		return []string{"needs at least two choices"}
	}
	ids := lo.Map(choices, func(c Choice, _ int) string { return c.ID })
	var out []string
	if dups := lo.FindDuplicates(ids); len(dups) > 0 {
		out = append(out, fmt.Sprintf("duplicate choice ids %v", dups))
	}
	for _, id := range correct {
		if !lo.Contains(ids, id) {
			out = append(out, fmt.Sprintf("correct id %q is not a choice", id))
		}
	}
	return out
}

func sameLetters(letters []string, word string) bool {
	if len(letters) == 0 {
		return false
	}
	got := strings.Split(strings.ToLower(strings.Join(letters, "")), "")
	want := strings.Split(strings.ToLower(word), "")
	sort.Strings(got)
	sort.Strings(want)
	return strings.Join(got, "") == strings.Join(want, "")
}
