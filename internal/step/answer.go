package step

import "strings"

// Answer is a raw learner submission. Which field is read depends on the
// exercise type: Choice for single choice and choice sub-questions, Text for
// typed answers, Selections for multi-select, Letters for unscramble and
// Judgment for acceptable/not-acceptable sub-questions.
type Answer struct {
	Choice     string   `json:"choice,omitempty"`
	Text       string   `json:"text,omitempty"`
	Selections []string `json:"selections,omitempty"`
	Letters    []string `json:"letters,omitempty"`
	Judgment   *bool    `json:"judgment,omitempty"`
}

// Display renders the submission for event logs.
func (a Answer) Display() string {
	switch {
	case a.Choice != "":
		return a.Choice
	case a.Text != "":
		return a.Text
	case len(a.Selections) > 0:
		return strings.Join(a.Selections, ",")
	case len(a.Letters) > 0:
		return strings.Join(a.Letters, "")
	case a.Judgment != nil:
		if *a.Judgment {
			return "acceptable"
		}
		return "not_acceptable"
	}
	return ""
}

func (a Answer) isZero() bool {
	return a.Choice == "" && a.Text == "" && len(a.Selections) == 0 && len(a.Letters) == 0 && a.Judgment == nil
}
