package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/wordjourney/internal/validate"
)

func boolPtr(b bool) *bool { return &b }

func TestChoice_Correct(t *testing.T) {
	v, err := validate.Choice("river", "river")
	require.NoError(t, err)
	assert.True(t, v.Correct)
}

func TestChoice_Wrong(t *testing.T) {
	v, err := validate.Choice("road", "river")
	require.NoError(t, err)
	assert.False(t, v.Correct)
}

func TestChoice_Empty(t *testing.T) {
	_, err := validate.Choice("  ", "river")
	assert.ErrorIs(t, err, validate.ErrInvalidSubmission)
}

func TestFillBlank(t *testing.T) {
	tests := []struct {
		name    string
		typed   string
		correct string
		want    bool
	}{
		{"exact", "river", "river", true},
		{"upper case", "RIVER", "river", true},
		{"padded", "  River\t", "river", true},
		{"wrong word", "road", "river", false},
		{"partial", "rive", "river", false},
		{"derived form", "riverside", "riverside", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := validate.FillBlank(tt.typed, tt.correct)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Correct)
		})
	}
}

func TestFillBlank_Empty(t *testing.T) {
	_, err := validate.FillBlank("", "river")
	assert.ErrorIs(t, err, validate.ErrInvalidSubmission)
}

func TestMultiSelect(t *testing.T) {
	correct := []string{"crop", "gathering"}
	tests := []struct {
		name     string
		selected []string
		want     bool
	}{
		{"exact set", []string{"crop", "gathering"}, true},
		{"order does not matter", []string{"gathering", "crop"}, true},
		{"duplicates collapse", []string{"crop", "crop", "gathering"}, true},
		{"subset", []string{"crop"}, false},
		{"superset", []string{"crop", "gathering", "rain"}, false},
		{"disjoint", []string{"planting", "rain"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := validate.MultiSelect(tt.selected, correct)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Correct)
		})
	}
}

func TestMultiSelect_Empty(t *testing.T) {
	_, err := validate.MultiSelect(nil, []string{"crop"})
	assert.ErrorIs(t, err, validate.ErrInvalidSubmission)

	_, err = validate.MultiSelect([]string{" "}, []string{"crop"})
	assert.ErrorIs(t, err, validate.ErrInvalidSubmission)
}

func TestJudgment(t *testing.T) {
	v, err := validate.Judgment(boolPtr(true), true)
	require.NoError(t, err)
	assert.True(t, v.Correct)

	v, err = validate.Judgment(boolPtr(true), false)
	require.NoError(t, err)
	assert.False(t, v.Correct)

	_, err = validate.Judgment(nil, false)
	assert.ErrorIs(t, err, validate.ErrInvalidSubmission)
}

func TestUnscramble(t *testing.T) {
	v, err := validate.Unscramble([]string{"r", "i", "v", "e", "r"}, "river")
	require.NoError(t, err)
	assert.True(t, v.Correct)

	v, err = validate.Unscramble([]string{"R", "I", "V", "E", "R"}, "river")
	require.NoError(t, err)
	assert.True(t, v.Correct, "letters compare case-insensitively")

	v, err = validate.Unscramble([]string{"r", "e", "v", "i", "r"}, "river")
	require.NoError(t, err)
	assert.False(t, v.Correct)

	_, err = validate.Unscramble(nil, "river")
	assert.ErrorIs(t, err, validate.ErrInvalidSubmission)
}
