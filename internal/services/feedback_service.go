package services

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/wordjourney/internal/errors"
	"github.com/vytor/wordjourney/internal/logger"
	"github.com/vytor/wordjourney/internal/models"
	"github.com/vytor/wordjourney/internal/repository"
)

const maxCommentLength = 2000

// ImportResult reports how a feedback import went.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Problems []string `json:"problems,omitempty"`
}

// FeedbackService handles reviewer feedback on individual steps
type FeedbackService interface {
	Submit(ctx context.Context, learner Learner, item models.FeedbackItem) (*models.FeedbackItem, error)
	Get(ctx context.Context, id string) (*models.FeedbackItem, error)
	List(ctx context.Context, filter models.FeedbackFilter) ([]models.FeedbackItem, error)
	// Export returns every item, newest first.
	Export(ctx context.Context) ([]models.FeedbackItem, error)
	// Import merges items by id; an incoming item replaces a stored one.
	Import(ctx context.Context, items []models.FeedbackItem) (*ImportResult, error)
}

type feedbackService struct {
	cat  Catalogue
	repo repository.FeedbackRepository
	now  func() time.Time
}

// NewFeedbackService creates a new FeedbackService
func NewFeedbackService(cat Catalogue, repo repository.FeedbackRepository) FeedbackService {
	return &feedbackService{cat: cat, repo: repo, now: time.Now}
}

func (s *feedbackService) Submit(ctx context.Context, learner Learner, item models.FeedbackItem) (*models.FeedbackItem, error) {
	log := logger.FromContext(ctx).WithPrefix("feedback_service")
	log.Debug("submitting feedback: framework=%s, word=%s, step=%s", item.Framework, item.WordID, item.StepID)

	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Timestamp.IsZero() {
		item.Timestamp = s.now().UTC()
	}
	if item.LearnerID == "" {
		item.LearnerID = learner.ID
	}
	if item.SessionID == "" {
		item.SessionID = learner.SessionID
	}
	item.Comment = strings.TrimSpace(item.Comment)

	if err := s.check(&item); err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(ctx, item); err != nil {
		log.Error("failed to save feedback: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Info("feedback saved: id=%s", item.ID)
	return &item, nil
}

// check validates item against the catalogue and fills in the step label.
func (s *feedbackService) check(item *models.FeedbackItem) *errors.AppError {
	if item.Framework == "" {
		return errors.NewValidationError("framework", "cannot be empty")
	}
	if item.WordID == "" {
		return errors.NewValidationError("word_id", "cannot be empty")
	}
	if item.StepID == "" {
		return errors.NewValidationError("step_id", "cannot be empty")
	}
	fw, err := s.cat.Framework(item.Framework)
	if err != nil {
		return errors.NewValidationError("framework", fmt.Sprintf("unknown framework %q", item.Framework))
	}
	if _, err := s.cat.Word(item.WordID); err != nil {
		return errors.NewValidationError("word_id", fmt.Sprintf("unknown word %q", item.WordID))
	}
	i := fw.StepIndex(item.StepID)
	if i < 0 {
		return errors.NewValidationError("step_id", fmt.Sprintf("framework %s has no step %q", fw.ID, item.StepID))
	}
	if item.StepLabel == "" {
		item.StepLabel = fw.Steps[i].Label
	}
	if item.Thumb != nil && *item.Thumb != models.ThumbUp && *item.Thumb != models.ThumbDown {
		return errors.NewValidationError("thumb", "must be up or down")
	}
	if item.Difficulty != nil {
		switch *item.Difficulty {
		case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyDifficult:
		default:
			return errors.NewValidationError("difficulty", "must be easy, medium or difficult")
		}
	}
	if len(item.Comment) > maxCommentLength {
		return errors.NewValidationError("comment", fmt.Sprintf("longer than %d characters", maxCommentLength))
	}
	return nil
}

func (s *feedbackService) Get(ctx context.Context, id string) (*models.FeedbackItem, error) {
	log := logger.FromContext(ctx).WithPrefix("feedback_service")
	log.Debug("getting feedback: id=%s", id)

	item, err := s.repo.Get(ctx, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("feedback", id)
		}
		log.Error("failed to get feedback: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return item, nil
}

func (s *feedbackService) List(ctx context.Context, filter models.FeedbackFilter) ([]models.FeedbackItem, error) {
	log := logger.FromContext(ctx).WithPrefix("feedback_service")
	log.Debug("listing feedback")

	if filter.Thumb != "" && filter.Thumb != string(models.ThumbUp) && filter.Thumb != string(models.ThumbDown) {
		return nil, errors.NewValidationError("thumb", "must be up or down")
	}
	filter.Limit, filter.Offset = clampPage(filter.Limit, filter.Offset)

	items, err := s.repo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list feedback: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if items == nil {
		items = []models.FeedbackItem{}
	}
	return items, nil
}

func (s *feedbackService) Export(ctx context.Context) ([]models.FeedbackItem, error) {
	log := logger.FromContext(ctx).WithPrefix("feedback_service")
	log.Debug("exporting feedback")

	items, err := s.repo.List(ctx, models.FeedbackFilter{})
	if err != nil {
		log.Error("failed to export feedback: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if items == nil {
		items = []models.FeedbackItem{}
	}
	return items, nil
}

func (s *feedbackService) Import(ctx context.Context, items []models.FeedbackItem) (*ImportResult, error) {
	log := logger.FromContext(ctx).WithPrefix("feedback_service")
	log.Debug("importing %d feedback items", len(items))

	res := &ImportResult{}
	for i, item := range items {
		if item.ID == "" {
			res.Skipped++
			res.Problems = append(res.Problems, fmt.Sprintf("item %d: missing id", i))
			continue
		}
		if item.Timestamp.IsZero() {
			item.Timestamp = s.now().UTC()
		}
		if appErr := s.check(&item); appErr != nil {
			res.Skipped++
			res.Problems = append(res.Problems, fmt.Sprintf("item %d (%s): %s", i, item.ID, appErr.Message))
			continue
		}
		if err := s.repo.Upsert(ctx, item); err != nil {
			log.Error("failed to import feedback %s: %v", item.ID, err)
			return nil, errors.NewInternalError(err)
		}
		res.Imported++
	}
	log.Info("feedback import: imported=%d, skipped=%d", res.Imported, res.Skipped)
	return res, nil
}
