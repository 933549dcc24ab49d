package services_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/wordjourney/internal/content"
	"github.com/vytor/wordjourney/internal/errors"
	"github.com/vytor/wordjourney/internal/models"
	"github.com/vytor/wordjourney/internal/services"
	"github.com/vytor/wordjourney/internal/testutil/mocks"
)

func thumb(t models.Thumb) *models.Thumb { return &t }

func TestFeedbackService_Submit(t *testing.T) {
	repo := new(mocks.MockFeedbackRepository)
	svc := services.NewFeedbackService(content.MustLoad(), repo)

	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(it models.FeedbackItem) bool {
		return it.ID != "" &&
			!it.Timestamp.IsZero() &&
			it.LearnerID == "learner-1" &&
			it.SessionID == "session-1" &&
			it.StepLabel == "Control" &&
			it.Comment == "too easy"
	})).Return(nil).Once()

	item, err := svc.Submit(context.Background(), learner, models.FeedbackItem{
		Framework: "cefr",
		WordID:    "river",
		StepID:    "B1",
		Thumb:     thumb(models.ThumbUp),
		Comment:   "  too easy ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Control", item.StepLabel)
	repo.AssertExpectations(t)
}

func TestFeedbackService_Submit_Invalid(t *testing.T) {
	repo := new(mocks.MockFeedbackRepository)
	svc := services.NewFeedbackService(content.MustLoad(), repo)
	bad := models.Difficulty("impossible")

	cases := []struct {
		name string
		item models.FeedbackItem
	}{
		{"missing framework", models.FeedbackItem{WordID: "river", StepID: "B1"}},
		{"unknown framework", models.FeedbackItem{Framework: "montessori", WordID: "river", StepID: "B1"}},
		{"unknown word", models.FeedbackItem{Framework: "cefr", WordID: "ocean", StepID: "B1"}},
		{"unknown step", models.FeedbackItem{Framework: "cefr", WordID: "river", StepID: "create"}},
		{"bad thumb", models.FeedbackItem{Framework: "cefr", WordID: "river", StepID: "B1", Thumb: thumb("sideways")}},
		{"bad difficulty", models.FeedbackItem{Framework: "cefr", WordID: "river", StepID: "B1", Difficulty: &bad}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), learner, tc.item)
			requireAppError(t, err, errors.ErrCodeValidation)
		})
	}
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestFeedbackService_Get_NotFound(t *testing.T) {
	repo := new(mocks.MockFeedbackRepository)
	svc := services.NewFeedbackService(content.MustLoad(), repo)
	repo.On("Get", mock.Anything, "missing").Return(nil, sql.ErrNoRows)

	_, err := svc.Get(context.Background(), "missing")
	requireAppError(t, err, errors.ErrCodeNotFound)
}

func TestFeedbackService_List(t *testing.T) {
	repo := new(mocks.MockFeedbackRepository)
	svc := services.NewFeedbackService(content.MustLoad(), repo)

	_, err := svc.List(context.Background(), models.FeedbackFilter{Thumb: "meh"})
	requireAppError(t, err, errors.ErrCodeValidation)

	repo.On("List", mock.Anything, models.FeedbackFilter{Thumb: "down", Limit: 100}).
		Return([]models.FeedbackItem{{ID: "f1"}}, nil)
	items, err := svc.List(context.Background(), models.FeedbackFilter{Thumb: "down"})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestFeedbackService_ExportImport(t *testing.T) {
	repo := new(mocks.MockFeedbackRepository)
	svc := services.NewFeedbackService(content.MustLoad(), repo)

	repo.On("List", mock.Anything, models.FeedbackFilter{}).Return(nil, nil)
	items, err := svc.Export(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)

	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(it models.FeedbackItem) bool { return it.ID == "f1" })).Return(nil).Once()
	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(it models.FeedbackItem) bool { return it.ID == "f3" })).Return(nil).Once()

	res, err := svc.Import(context.Background(), []models.FeedbackItem{
		{ID: "f1", Timestamp: ts, Framework: "lexical", WordID: "festival", StepID: "nuances"},
		{Framework: "lexical", WordID: "festival", StepID: "nuances"},
		{ID: "f2", Framework: "lexical", WordID: "festival", StepID: "B1"},
		{ID: "f3", Framework: "nation", WordID: "harvest", StepID: "fluency"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 2, res.Skipped)
	assert.Len(t, res.Problems, 2)
	repo.AssertExpectations(t)
}
