package services

import (
	"context"

	"github.com/samber/lo"
	"github.com/vytor/wordjourney/internal/errors"
	"github.com/vytor/wordjourney/internal/logger"
	"github.com/vytor/wordjourney/internal/models"
	"github.com/vytor/wordjourney/internal/repository"
)

const (
	defaultPageSize = 100
	maxPageSize     = 1000
)

// StatsService handles framework comparison and learner history
type StatsService interface {
	CompareFrameworks(ctx context.Context, learnerID string) ([]models.FrameworkComparison, error)
	LearnerResults(ctx context.Context, filter models.JourneyRecordFilter) ([]models.JourneyRecord, error)
	Events(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error)
}

type statsService struct {
	cat       Catalogue
	eventRepo repository.EventRepository
	recRepo   repository.JourneyRepository
}

// NewStatsService creates a new StatsService
func NewStatsService(cat Catalogue, eventRepo repository.EventRepository, recRepo repository.JourneyRepository) StatsService {
	return &statsService{cat: cat, eventRepo: eventRepo, recRepo: recRepo}
}

// CompareFrameworks returns one row per catalogued framework in catalogue
// order, zero-filled where nothing was logged, followed by any framework
// that only appears in the log.
func (s *statsService) CompareFrameworks(ctx context.Context, learnerID string) ([]models.FrameworkComparison, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_service")
	log.Debug("comparing frameworks: learner=%s", learnerID)

	rows, err := s.eventRepo.Compare(ctx, learnerID)
	if err != nil {
		log.Error("failed to compare frameworks: %v", err)
		return nil, errors.NewInternalError(err)
	}
	byID := lo.KeyBy(rows, func(c models.FrameworkComparison) string { return c.Framework })

	out := make([]models.FrameworkComparison, 0, len(rows))
	for _, fw := range s.cat.Frameworks() {
		c, ok := byID[fw.ID]
		if !ok {
			c = models.FrameworkComparison{Framework: fw.ID}
		}
		out = append(out, c)
		delete(byID, fw.ID)
	}
	out = append(out, lo.Filter(rows, func(c models.FrameworkComparison, _ int) bool {
		_, left := byID[c.Framework]
		return left
	})...)
	return out, nil
}

func (s *statsService) LearnerResults(ctx context.Context, filter models.JourneyRecordFilter) ([]models.JourneyRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_service")
	log.Debug("listing learner results: learner=%s, framework=%s", filter.LearnerID, filter.Framework)

	if filter.LearnerID == "" {
		return nil, errors.NewValidationError("learner", "cannot be empty")
	}
	filter.Limit, filter.Offset = clampPage(filter.Limit, filter.Offset)

	recs, err := s.recRepo.ListRecords(ctx, filter)
	if err != nil {
		log.Error("failed to list journey records: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if recs == nil {
		recs = []models.JourneyRecord{}
	}
	return recs, nil
}

func (s *statsService) Events(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_service")
	log.Debug("listing events: framework=%s, word=%s, event=%s", filter.Framework, filter.WordID, filter.Name)

	filter.Limit, filter.Offset = clampPage(filter.Limit, filter.Offset)
	evs, err := s.eventRepo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list events: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	total, err := s.eventRepo.Count(ctx, filter)
	if err != nil {
		log.Error("failed to count events: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	if evs == nil {
		evs = []models.Event{}
	}
	return evs, total, nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
