// Package validate holds the pure answer validators, one per exercise type.
// Validators never consume attempts; an empty submission is reported as
// ErrInvalidSubmission and the caller re-prompts.
package validate

import (
	"errors"
	"strings"

	"github.com/samber/lo"
)

var ErrInvalidSubmission = errors.New("invalid submission")

// ReasonCode classifies why a verdict was reached.
type ReasonCode string

const (
	ReasonNone            ReasonCode = ""
	ReasonMissingTarget   ReasonCode = "missing_target"
	ReasonTooShort        ReasonCode = "too_short"
	ReasonWordBank        ReasonCode = "word_bank"
	ReasonStyleSuggestion ReasonCode = "style_suggestion"
)

type Verdict struct {
	Correct bool       `json:"correct"`
	Code    ReasonCode `json:"code,omitempty"`
	Reason  string     `json:"reason,omitempty"`
}

// Suggestion reports an accepted answer that carries a lower-confidence hint.
func (v Verdict) Suggestion() bool {
	return v.Correct && v.Code == ReasonStyleSuggestion
}

func verdict(correct bool) Verdict {
	return Verdict{Correct: correct}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Choice checks a single selected id against the correct id.
func Choice(selected, correct string) (Verdict, error) {
	if blank(selected) {
		return Verdict{}, ErrInvalidSubmission
	}
	return verdict(selected == correct), nil
}

// FillBlank compares a typed answer case-insensitively after trimming.
func FillBlank(typed, correct string) (Verdict, error) {
	if blank(typed) {
		return Verdict{}, ErrInvalidSubmission
	}
	return verdict(normalize(typed) == normalize(correct)), nil
}

// MultiSelect requires the selected set to equal the correct set exactly.
func MultiSelect(selected, correct []string) (Verdict, error) {
	picked := lo.Uniq(lo.Reject(selected, func(s string, _ int) bool { return blank(s) }))
	if len(picked) == 0 {
		return Verdict{}, ErrInvalidSubmission
	}
	extra, missing := lo.Difference(picked, lo.Uniq(correct))
	return verdict(len(extra) == 0 && len(missing) == 0), nil
}

// Judgment compares an acceptable/not-acceptable call with the ground truth.
func Judgment(judgment *bool, truth bool) (Verdict, error) {
	if judgment == nil {
		return Verdict{}, ErrInvalidSubmission
	}
	return verdict(*judgment == truth), nil
}

// Unscramble joins the chosen letters in order and compares with the target.
func Unscramble(letters []string, target string) (Verdict, error) {
	joined := strings.Join(lo.Map(letters, func(l string, _ int) string { return strings.TrimSpace(l) }), "")
	if joined == "" {
		return Verdict{}, ErrInvalidSubmission
	}
	return verdict(strings.EqualFold(joined, strings.TrimSpace(target))), nil
}
