package validate

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// SentenceRule parameterises free-text validation. The same rule covers
// collocation sentences, creative captions, restatements and word-bank output.
type SentenceRule struct {
	Target        string
	RequireTarget bool
	MinWords      int
	Collocations  []string
	KeyWords      []string
	WordBank      []string
	MinBankWords  int
}

// Sentence validates a free-text answer. Checks run in order: target word,
// word count, word-bank usage, then style suggestions for accepted text.
func Sentence(text string, rule SentenceRule) (Verdict, error) {
	normalized := normalize(text)
	if normalized == "" {
		return Verdict{}, ErrInvalidSubmission
	}

	if rule.RequireTarget && !strings.Contains(normalized, normalize(rule.Target)) {
		return Verdict{
			Code:   ReasonMissingTarget,
			Reason: fmt.Sprintf("Your sentence must include the word %q.", rule.Target),
		}, nil
	}

	if words := strings.Fields(normalized); len(words) < rule.MinWords {
		reason := fmt.Sprintf("Please write at least %d words.", rule.MinWords)
		if rule.MinWords >= 5 {
			reason = fmt.Sprintf("Please write a longer sentence (at least %d words).", rule.MinWords)
		}
		return Verdict{Code: ReasonTooShort, Reason: reason}, nil
	}

	if rule.MinBankWords > 0 {
		used := lo.Filter(rule.WordBank, func(w string, _ int) bool {
			return strings.Contains(normalized, normalize(w))
		})
		if len(used) < rule.MinBankWords {
			return Verdict{
				Code:   ReasonWordBank,
				Reason: fmt.Sprintf("Please use at least %d words from the word bank.", rule.MinBankWords),
			}, nil
		}
	}

	if len(rule.Collocations) > 0 && !containsAny(normalized, rule.Collocations) {
		return Verdict{
			Correct: true,
			Code:    ReasonStyleSuggestion,
			Reason:  "Good sentence! For more natural usage, try phrases like: " + strings.Join(rule.Collocations[:min(2, len(rule.Collocations))], ", "),
		}, nil
	}

	if len(rule.KeyWords) > 0 && !containsAny(normalized, rule.KeyWords) {
		return Verdict{
			Correct: true,
			Code:    ReasonStyleSuggestion,
			Reason:  "Good! Try using words like: " + strings.Join(rule.KeyWords, ", "),
		}, nil
	}

	return verdict(true), nil
}

func containsAny(text string, phrases []string) bool {
	return lo.ContainsBy(phrases, func(p string) bool {
		return strings.Contains(text, normalize(p))
	})
}
