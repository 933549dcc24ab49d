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

type JourneyRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.JourneyRepository
}

func (s *JourneyRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewJourneyRepository(s.db)
}

func (s *JourneyRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func record(id, learner, framework, word string, at time.Time) models.JourneyRecord {
	return models.JourneyRecord{
		ID:        id,
		LearnerID: learner,
		SessionID: "session-1",
		Framework: framework,
		WordID:    word,
		Mastery:   true,
		Correct:   2,
		Total:     3,
		Steps: []models.StepResult{
			{StepID: "A1", Correct: true, Attempts: 1, ElapsedMS: 1200},
			{StepID: "A2", Skipped: true},
			{StepID: "B1", Correct: true, Attempts: 2, ElapsedMS: 4000},
		},
		CompletedAt: at,
	}
}

func (s *JourneyRepositorySuite) TestSaveAndGet() {
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s.Require().NoError(s.repo.SaveRecord(ctx, record("j1", "learner-1", "cefr", "river", at)))

	got, err := s.repo.GetRecord(ctx, "j1")
	s.Require().NoError(err)
	s.Assert().Equal("learner-1", got.LearnerID)
	s.Assert().Equal("cefr", got.Framework)
	s.Assert().Equal("river", got.WordID)
	s.Assert().True(got.Mastery)
	s.Assert().Equal(2, got.Correct)
	s.Assert().Equal(3, got.Total)
	s.Assert().True(got.CompletedAt.Equal(at))
	s.Require().Len(got.Steps, 3)
	s.Assert().Equal(models.StepResult{StepID: "A1", Correct: true, Attempts: 1, ElapsedMS: 1200}, got.Steps[0])
	s.Assert().True(got.Steps[1].Skipped)
	s.Assert().Equal("B1", got.Steps[2].StepID)
}

func (s *JourneyRepositorySuite) TestGet_NotFound() {
	_, err := s.repo.GetRecord(context.Background(), "missing")
	s.Assert().ErrorIs(err, sql.ErrNoRows)
}

func (s *JourneyRepositorySuite) TestSave_ReplacesSteps() {
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	rec := record("j1", "learner-1", "cefr", "river", at)
	s.Require().NoError(s.repo.SaveRecord(ctx, rec))

	rec.Steps = rec.Steps[:1]
	rec.Mastery = false
	s.Require().NoError(s.repo.SaveRecord(ctx, rec))

	got, err := s.repo.GetRecord(ctx, "j1")
	s.Require().NoError(err)
	s.Assert().False(got.Mastery)
	s.Assert().Len(got.Steps, 1)
}

func (s *JourneyRepositorySuite) TestListRecords() {
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s.Require().NoError(s.repo.SaveRecord(ctx, record("j1", "learner-1", "cefr", "river", at)))
	s.Require().NoError(s.repo.SaveRecord(ctx, record("j2", "learner-1", "blooms", "harvest", at.Add(time.Hour))))
	s.Require().NoError(s.repo.SaveRecord(ctx, record("j3", "learner-2", "cefr", "river", at)))

	recs, err := s.repo.ListRecords(ctx, models.JourneyRecordFilter{LearnerID: "learner-1"})
	s.Require().NoError(err)
	s.Require().Len(recs, 2)
	s.Assert().Equal("j2", recs[0].ID, "newest first")
	s.Assert().Len(recs[0].Steps, 3)
	s.Assert().Len(recs[1].Steps, 3)

	recs, err = s.repo.ListRecords(ctx, models.JourneyRecordFilter{Framework: "cefr", WordID: "river"})
	s.Require().NoError(err)
	s.Assert().Len(recs, 2)

	recs, err = s.repo.ListRecords(ctx, models.JourneyRecordFilter{Limit: 1})
	s.Require().NoError(err)
	s.Assert().Len(recs, 1)

	recs, err = s.repo.ListRecords(ctx, models.JourneyRecordFilter{LearnerID: "nobody"})
	s.Require().NoError(err)
	s.Assert().Empty(recs)
}

func TestJourneyRepositorySuite(t *testing.T) {
	suite.Run(t, new(JourneyRepositorySuite))
}
