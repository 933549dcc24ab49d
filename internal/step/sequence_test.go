package step_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/wordjourney/internal/step"
)

func TestSequence_AllCorrect(t *testing.T) {
	c := newController(t, "marzano", "river", "review")

	out, err := c.Submit(step.Answer{Choice: "a"})
	require.NoError(t, err)
	assert.Equal(t, step.DecisionNextItem, out.Decision)
	assert.Equal(t, 1, c.State().Item)

	out, err = c.Submit(step.Answer{Text: "River"})
	require.NoError(t, err)
	assert.Equal(t, step.DecisionNextItem, out.Decision)

	out, err = c.Submit(step.Answer{Choice: "a"})
	require.NoError(t, err)
	assert.Equal(t, step.DecisionCorrect, out.Decision)
	require.NotNil(t, out.Result)
	assert.True(t, out.Result.Correct)
	assert.Equal(t, 3, out.Result.Attempts)
}

func TestSequence_AttemptsSummedAcrossItems(t *testing.T) {
	c := newController(t, "lexical", "river", "nuances")

	_, err := c.Submit(step.Answer{Judgment: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, 0, c.State().Item, "a miss stays on the same item")
	assert.Equal(t, 1, c.State().ItemAttempts)

	_, err = c.Submit(step.Answer{Judgment: boolPtr(true)})
	require.NoError(t, err)
	_, err = c.Submit(step.Answer{Judgment: boolPtr(true)})
	require.NoError(t, err)
	out, err := c.Submit(step.Answer{Judgment: boolPtr(false)})
	require.NoError(t, err)

	require.NotNil(t, out.Result)
	assert.True(t, out.Result.Correct)
	assert.Equal(t, 4, out.Result.Attempts)
}

func TestSequence_ExhaustedItemFailsStep(t *testing.T) {
	c := newController(t, "lexical", "harvest", "nuances")

	for i := 0; i < step.MaxAttempts; i++ {
		_, err := c.Submit(step.Answer{Judgment: boolPtr(false)})
		require.NoError(t, err)
	}
	st := c.State()
	assert.Equal(t, 1, st.Item, "exhausting an item moves to the next one")
	assert.Contains(t, st.Reveal, "acceptable (Literal)")
	assert.False(t, st.Locked)

	_, err := c.Submit(step.Answer{Judgment: boolPtr(true)})
	require.NoError(t, err)
	out, err := c.Submit(step.Answer{Judgment: boolPtr(false)})
	require.NoError(t, err)

	assert.Equal(t, step.DecisionCorrect, out.Decision)
	require.NotNil(t, out.Result)
	assert.False(t, out.Result.Correct, "one exhausted item fails the whole step")
	assert.Equal(t, 5, out.Result.Attempts)
}

func TestSequence_EmptyJudgmentRejected(t *testing.T) {
	c := newController(t, "lexical", "river", "nuances")

	_, err := c.Submit(step.Answer{Choice: "a"})
	assert.Error(t, err)
	assert.Equal(t, 0, c.State().Attempts)
}

func TestSequence_SkipMidway(t *testing.T) {
	c := newController(t, "marzano", "festival", "review")

	_, err := c.Submit(step.Answer{Choice: "b"})
	require.NoError(t, err)

	out, err := c.Skip()
	require.NoError(t, err)
	assert.True(t, out.Result.Skipped)
	assert.Equal(t, 1, out.Result.Attempts)
}
