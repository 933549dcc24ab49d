package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/wordjourney/internal/models"
	"github.com/vytor/wordjourney/internal/repository"
	"github.com/vytor/wordjourney/internal/repository/sqlite"
	"github.com/vytor/wordjourney/internal/testutil"
)

type EventRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.EventRepository
	base time.Time
}

func (s *EventRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewEventRepository(s.db)
	s.base = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
}

func (s *EventRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *EventRepositorySuite) event(id, framework, name string, offset time.Duration, meta map[string]any) models.Event {
	return models.Event{
		ID:        id,
		Timestamp: s.base.Add(offset),
		LearnerID: "learner-1",
		SessionID: "session-1",
		Framework: framework,
		WordID:    "river",
		StepID:    "B1",
		Name:      name,
		Meta:      meta,
	}
}

func (s *EventRepositorySuite) TestSaveAndList() {
	ctx := context.Background()
	ev := s.event("e1", "cefr", models.EventAnswerSubmit, 0, map[string]any{"answer": "road", "attempt": float64(1)})
	s.Require().NoError(s.repo.Save(ctx, ev))

	events, err := s.repo.List(ctx, models.EventFilter{})
	s.Require().NoError(err)
	s.Require().Len(events, 1)

	got := events[0]
	s.Assert().Equal("e1", got.ID)
	s.Assert().True(got.Timestamp.Equal(ev.Timestamp))
	s.Assert().Equal("cefr", got.Framework)
	s.Assert().Equal("river", got.WordID)
	s.Assert().Equal("B1", got.StepID)
	s.Assert().Equal(models.EventAnswerSubmit, got.Name)
	s.Assert().Equal("road", got.Meta["answer"])
	s.Assert().Equal(float64(1), got.Meta["attempt"])
}

func (s *EventRepositorySuite) TestSave_DuplicateIDIgnored() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Save(ctx, s.event("e1", "cefr", models.EventStepView, 0, nil)))
	s.Require().NoError(s.repo.Save(ctx, s.event("e1", "cefr", models.EventStepSkip, time.Second, nil)))

	n, err := s.repo.Count(ctx, models.EventFilter{})
	s.Require().NoError(err)
	s.Assert().Equal(1, n)
}

func (s *EventRepositorySuite) TestList_WithFilters() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Save(ctx, s.event("e1", "cefr", models.EventStepView, 0, nil)))
	s.Require().NoError(s.repo.Save(ctx, s.event("e2", "cefr", models.EventStepSkip, time.Second, nil)))
	s.Require().NoError(s.repo.Save(ctx, s.event("e3", "blooms", models.EventStepView, 2*time.Second, nil)))

	events, err := s.repo.List(ctx, models.EventFilter{Framework: "cefr"})
	s.Require().NoError(err)
	s.Assert().Len(events, 2)
	s.Assert().Equal("e1", events[0].ID)

	events, err = s.repo.List(ctx, models.EventFilter{Name: models.EventStepView})
	s.Require().NoError(err)
	s.Assert().Len(events, 2)

	since := s.base.Add(time.Second)
	events, err = s.repo.List(ctx, models.EventFilter{Since: &since})
	s.Require().NoError(err)
	s.Assert().Len(events, 2)

	events, err = s.repo.List(ctx, models.EventFilter{Limit: 1, Offset: 1})
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Assert().Equal("e2", events[0].ID)

	n, err := s.repo.Count(ctx, models.EventFilter{Framework: "blooms"})
	s.Require().NoError(err)
	s.Assert().Equal(1, n)
}

func (s *EventRepositorySuite) TestCompare() {
	ctx := context.Background()
	evs := []models.Event{
		s.event("v1", "cefr", models.EventStepView, 0, nil),
		s.event("s1", "cefr", models.EventAnswerSubmit, 5*time.Second, nil),
		s.event("r1", "cefr", models.EventAnswerResult, 5*time.Second, map[string]any{"correct": false, "attempts": 3}),
		s.event("v2", "cefr", models.EventStepView, 10*time.Second, nil),
		s.event("s2", "cefr", models.EventAnswerSubmit, 12*time.Second, nil),
		s.event("r2", "cefr", models.EventAnswerResult, 12*time.Second, map[string]any{"correct": true, "attempts": 1}),
		s.event("k1", "cefr", models.EventStepSkip, 20*time.Second, nil),
		s.event("c1", "cefr", models.EventCompleteWord, 90*time.Second, nil),
		s.event("v3", "blooms", models.EventStepView, 0, nil),
	}
	for _, ev := range evs {
		s.Require().NoError(s.repo.Save(ctx, ev))
	}

	cmp, err := s.repo.Compare(ctx, "")
	s.Require().NoError(err)
	s.Require().Len(cmp, 2)

	blooms, cefr := cmp[0], cmp[1]
	s.Assert().Equal("blooms", blooms.Framework)
	s.Assert().Equal(1, blooms.StepViews)
	s.Assert().Equal(0, blooms.TotalAnswers)
	s.Assert().Equal(0, blooms.Accuracy)
	s.Assert().Equal(int64(0), blooms.TotalSeconds)

	s.Assert().Equal("cefr", cefr.Framework)
	s.Assert().Equal(2, cefr.StepViews)
	s.Assert().Equal(2, cefr.TotalAnswers)
	s.Assert().Equal(1, cefr.CorrectAnswers)
	s.Assert().Equal(1, cefr.SkippedSteps)
	s.Assert().Equal(2, cefr.TotalAttempts)
	s.Assert().Equal(int64(90), cefr.TotalSeconds)
	s.Assert().Equal(50, cefr.Accuracy)
}

func (s *EventRepositorySuite) TestCompare_ByLearner() {
	ctx := context.Background()
	mine := s.event("v1", "cefr", models.EventStepView, 0, nil)
	other := s.event("v2", "nation", models.EventStepView, 0, nil)
	other.LearnerID = "learner-2"
	s.Require().NoError(s.repo.Save(ctx, mine))
	s.Require().NoError(s.repo.Save(ctx, other))

	cmp, err := s.repo.Compare(ctx, "learner-2")
	s.Require().NoError(err)
	s.Require().Len(cmp, 1)
	s.Assert().Equal("nation", cmp[0].Framework)
}

func TestEventRepositorySuite(t *testing.T) {
	suite.Run(t, new(EventRepositorySuite))
}
