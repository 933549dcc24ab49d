package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/wordjourney/internal/validate"
)

var collocationRule = validate.SentenceRule{
	Target:        "river",
	RequireTarget: true,
	MinWords:      5,
	Collocations:  []string{"river flows", "river bank", "across the river", "river water"},
}

func TestSentence_Empty(t *testing.T) {
	_, err := validate.Sentence("   ", collocationRule)
	assert.ErrorIs(t, err, validate.ErrInvalidSubmission)
}

func TestSentence_MissingTarget(t *testing.T) {
	v, err := validate.Sentence("The water was very cold today", collocationRule)
	require.NoError(t, err)
	assert.False(t, v.Correct)
	assert.Equal(t, validate.ReasonMissingTarget, v.Code)
	assert.Equal(t, `Your sentence must include the word "river".`, v.Reason)
}

func TestSentence_TooShort(t *testing.T) {
	v, err := validate.Sentence("The river flows", collocationRule)
	require.NoError(t, err)
	assert.False(t, v.Correct)
	assert.Equal(t, validate.ReasonTooShort, v.Code)
	assert.Equal(t, "Please write a longer sentence (at least 5 words).", v.Reason)
}

func TestSentence_TargetCheckedBeforeLength(t *testing.T) {
	v, err := validate.Sentence("Hi", collocationRule)
	require.NoError(t, err)
	assert.Equal(t, validate.ReasonMissingTarget, v.Code)
}

func TestSentence_AcceptedWithCollocation(t *testing.T) {
	v, err := validate.Sentence("We walked along the river bank at sunset.", collocationRule)
	require.NoError(t, err)
	assert.True(t, v.Correct)
	assert.False(t, v.Suggestion())
	assert.Empty(t, v.Reason)
}

func TestSentence_AcceptedWithSuggestion(t *testing.T) {
	v, err := validate.Sentence("I saw a big river near my house", collocationRule)
	require.NoError(t, err)
	assert.True(t, v.Correct)
	assert.True(t, v.Suggestion())
	assert.Equal(t, "Good sentence! For more natural usage, try phrases like: river flows, river bank", v.Reason)
}

func TestSentence_ShortCreativeCaption(t *testing.T) {
	rule := validate.SentenceRule{Target: "river", RequireTarget: true, MinWords: 3}

	v, err := validate.Sentence("the river", rule)
	require.NoError(t, err)
	assert.False(t, v.Correct)
	assert.Equal(t, "Please write at least 3 words.", v.Reason)

	v, err = validate.Sentence("a silver river", rule)
	require.NoError(t, err)
	assert.True(t, v.Correct)
}

func TestSentence_RestateWithoutTarget(t *testing.T) {
	rule := validate.SentenceRule{MinWords: 3, KeyWords: []string{"water", "flows", "land"}}

	v, err := validate.Sentence("It goes downhill", rule)
	require.NoError(t, err)
	assert.True(t, v.Correct)
	assert.True(t, v.Suggestion())
	assert.Equal(t, "Good! Try using words like: water, flows, land", v.Reason)

	v, err = validate.Sentence("Water moving across land", rule)
	require.NoError(t, err)
	assert.True(t, v.Correct)
	assert.False(t, v.Suggestion())
}

func TestSentence_WordBank(t *testing.T) {
	rule := validate.SentenceRule{
		Target:        "river",
		RequireTarget: true,
		MinWords:      5,
		WordBank:      []string{"flows", "bank", "fish", "bridge"},
		MinBankWords:  2,
	}

	v, err := validate.Sentence("The river is very long indeed", rule)
	require.NoError(t, err)
	assert.False(t, v.Correct)
	assert.Equal(t, validate.ReasonWordBank, v.Code)

	v, err = validate.Sentence("Many fish swim under the river bridge", rule)
	require.NoError(t, err)
	assert.True(t, v.Correct)
}
