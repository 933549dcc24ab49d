package content

import (
	"github.com/samber/lo"
	"github.com/vytor/wordjourney/internal/models"
)

// Choice is one selectable option. Note carries secondary text such as a
// usage context or the name of the student giving an explanation.
type Choice struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
	Note  string `yaml:"note,omitempty" json:"note,omitempty"`
}

// ItemKind is the shape of one sub-question inside a sequence exercise.
type ItemKind string

const (
	ItemChoice   ItemKind = "choice"
	ItemFill     ItemKind = "fill"
	ItemJudgment ItemKind = "judgment"
)

// Item is a sub-question of a sequence exercise.
type Item struct {
	ID         string   `yaml:"id" json:"id"`
	Kind       ItemKind `yaml:"kind" json:"kind"`
	Prompt     string   `yaml:"prompt" json:"prompt"`
	Choices    []Choice `yaml:"choices,omitempty" json:"choices,omitempty"`
	CorrectID  string   `yaml:"correct_id,omitempty" json:"-"`
	Answer     string   `yaml:"answer,omitempty" json:"-"`
	Acceptable *bool    `yaml:"acceptable,omitempty" json:"-"`
	Usage      string   `yaml:"usage,omitempty" json:"usage,omitempty"`
}

// Exercise is the content bundle for one (framework, word, step). Type is
// taken from the step descriptor; the remaining fields are the payload that
// type needs. Answer fields are hidden from JSON so views never leak them.
type Exercise struct {
	Type    models.ExerciseType `yaml:"-" json:"type"`
	Target  string              `yaml:"-" json:"-"`
	Prompt  string              `yaml:"prompt,omitempty" json:"prompt,omitempty"`
	Passage string              `yaml:"passage,omitempty" json:"passage,omitempty"`
	Audio   string              `yaml:"audio,omitempty" json:"audio,omitempty"`

	Choices    []Choice `yaml:"choices,omitempty" json:"choices,omitempty"`
	CorrectID  string   `yaml:"correct_id,omitempty" json:"-"`
	CorrectIDs []string `yaml:"correct_ids,omitempty" json:"-"`

	Answer   string   `yaml:"answer,omitempty" json:"-"`
	WordBank []string `yaml:"word_bank,omitempty" json:"word_bank,omitempty"`
	Letters  []string `yaml:"letters,omitempty" json:"letters,omitempty"`

	MinWords      int      `yaml:"min_words,omitempty" json:"min_words,omitempty"`
	RequireTarget bool     `yaml:"require_target,omitempty" json:"require_target,omitempty"`
	Collocations  []string `yaml:"collocations,omitempty" json:"-"`
	KeyWords      []string `yaml:"key_words,omitempty" json:"-"`
	MinBankWords  int      `yaml:"min_bank_words,omitempty" json:"min_bank_words,omitempty"`

	Items []Item `yaml:"items,omitempty" json:"items,omitempty"`

	Explanation string `yaml:"explanation,omitempty" json:"-"`
}

// Choice returns the option with the given id.
func (e Exercise) Choice(id string) (Choice, bool) {
	return lo.Find(e.Choices, func(c Choice) bool { return c.ID == id })
}

// ChoiceIDs returns the option ids in display order.
func (e Exercise) ChoiceIDs() []string {
	return lo.Map(e.Choices, func(c Choice, _ int) string { return c.ID })
}

// CorrectLabels returns the labels of the correct options, for reveals.
func (e Exercise) CorrectLabels() []string {
	ids := e.CorrectIDs
	if e.CorrectID != "" {
		ids = []string{e.CorrectID}
	}
	return lo.FilterMap(ids, func(id string, _ int) (string, bool) {
		c, ok := e.Choice(id)
		return c.Label, ok
	})
}

// Choice returns the option with the given id.
func (it Item) Choice(id string) (Choice, bool) {
	return lo.Find(it.Choices, func(c Choice) bool { return c.ID == id })
}
