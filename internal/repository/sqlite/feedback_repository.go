package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/wordjourney/internal/logger"
	"github.com/vytor/wordjourney/internal/models"
	"github.com/vytor/wordjourney/internal/repository"
)

type feedbackRepository struct {
	db *sql.DB
}

// NewFeedbackRepository creates a new FeedbackRepository implementation
func NewFeedbackRepository(db *sql.DB) repository.FeedbackRepository {
	return &feedbackRepository{db: db}
}

var feedbackColumns = []string{
	"id", "ts", "session_id", "learner_id", "framework", "word_id", "step_id", "step_label",
	"thumb", "include", "difficulty", "comment", "meta",
}

func (r *feedbackRepository) Upsert(ctx context.Context, item models.FeedbackItem) error {
	log := logger.FromContext(ctx).WithPrefix("feedback_repo")
	log.Debug("upserting feedback: id=%s, framework=%s, word=%s, step=%s", item.ID, item.Framework, item.WordID, item.StepID)

	meta, err := encodeMeta(item.Meta)
	if err != nil {
		log.Error("failed to encode feedback meta: %v", err)
		return err
	}
	var thumb, difficulty, include any
	if item.Thumb != nil {
		thumb = string(*item.Thumb)
	}
	if item.Difficulty != nil {
		difficulty = string(*item.Difficulty)
	}
	if item.Include != nil {
		include = boolInt(*item.Include)
	}

	query, args, err := sqlBuilder.Insert("feedback").
		Columns(feedbackColumns...).
		Values(item.ID, item.Timestamp.UTC(), item.SessionID, item.LearnerID, item.Framework, item.WordID, item.StepID, item.StepLabel,
			thumb, include, difficulty, item.Comment, meta).
		Suffix(`ON CONFLICT(id) DO UPDATE SET
    ts = excluded.ts,
    step_label = excluded.step_label,
    thumb = excluded.thumb,
    include = excluded.include,
    difficulty = excluded.difficulty,
    comment = excluded.comment,
    meta = excluded.meta`).
		ToSql()
	if err != nil {
		log.Error("failed to build upsert: %v", err)
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to upsert feedback: %v", err)
		return err
	}
	return nil
}

func (r *feedbackRepository) Get(ctx context.Context, id string) (*models.FeedbackItem, error) {
	log := logger.FromContext(ctx).WithPrefix("feedback_repo")
	log.Debug("getting feedback: id=%s", id)

	query, args, err := sqlBuilder.Select(feedbackColumns...).From("feedback").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}
	item, err := scanFeedback(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("feedback not found: id=%s", id)
		} else {
			log.Error("failed to get feedback: %v", err)
		}
		return nil, err
	}
	return &item, nil
}

func (r *feedbackRepository) List(ctx context.Context, filter models.FeedbackFilter) ([]models.FeedbackItem, error) {
	log := logger.FromContext(ctx).WithPrefix("feedback_repo")
	log.Debug("listing feedback: framework=%s, word=%s, step=%s, thumb=%s", filter.Framework, filter.WordID, filter.StepID, filter.Thumb)

	q := sqlBuilder.Select(feedbackColumns...).From("feedback")
	if filter.Framework != "" {
		q = q.Where(squirrel.Eq{"framework": filter.Framework})
	}
	if filter.WordID != "" {
		q = q.Where(squirrel.Eq{"word_id": filter.WordID})
	}
	if filter.StepID != "" {
		q = q.Where(squirrel.Eq{"step_id": filter.StepID})
	}
	if filter.Thumb != "" {
		q = q.Where(squirrel.Eq{"thumb": filter.Thumb})
	}
	q = page(q.OrderBy("ts DESC", "id"), filter.Limit, filter.Offset)

	query, args, err := q.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list feedback: %v", err)
		return nil, err
	}
	defer rows.Close()

	var items []models.FeedbackItem
	for rows.Next() {
		item, err := scanFeedback(rows)
		if err != nil {
			log.Error("failed to scan feedback row: %v", err)
			return nil, err
		}
		items = append(items, item)
	}
	log.Debug("found %d feedback items", len(items))
	return items, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFeedback(row scanner) (models.FeedbackItem, error) {
	var (
		item       models.FeedbackItem
		thumb      sql.NullString
		difficulty sql.NullString
		include    sql.NullBool
		meta       string
	)
	if err := row.Scan(&item.ID, &item.Timestamp, &item.SessionID, &item.LearnerID, &item.Framework, &item.WordID,
		&item.StepID, &item.StepLabel, &thumb, &include, &difficulty, &item.Comment, &meta); err != nil {
		return item, err
	}
	if thumb.Valid {
		t := models.Thumb(thumb.String)
		item.Thumb = &t
	}
	if difficulty.Valid {
		d := models.Difficulty(difficulty.String)
		item.Difficulty = &d
	}
	if include.Valid {
		item.Include = &include.Bool
	}
	var err error
	item.Meta, err = decodeMeta(meta)
	return item, err
}
