package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/wordjourney/internal/logger"
	"github.com/vytor/wordjourney/internal/models"
	"github.com/vytor/wordjourney/internal/repository"
)

type eventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new EventRepository implementation
func NewEventRepository(db *sql.DB) repository.EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Save(ctx context.Context, ev models.Event) error {
	log := logger.FromContext(ctx).WithPrefix("event_repo")
	log.Debug("saving event: id=%s, event=%s, framework=%s, word=%s", ev.ID, ev.Name, ev.Framework, ev.WordID)

	meta, err := encodeMeta(ev.Meta)
	if err != nil {
		log.Error("failed to encode event meta: %v", err)
		return err
	}
	var correct any
	if c, ok := ev.Meta["correct"].(bool); ok {
		correct = boolInt(c)
	}

	query, args, err := sqlBuilder.Insert("events").
		Options("OR IGNORE").
		Columns("id", "ts", "learner_id", "session_id", "framework", "word_id", "step_id", "event", "meta", "correct").
		Values(ev.ID, ev.Timestamp.UnixMilli(), ev.LearnerID, ev.SessionID, ev.Framework, ev.WordID, ev.StepID, ev.Name, meta, correct).
		ToSql()
	if err != nil {
		log.Error("failed to build insert: %v", err)
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to save event: %v", err)
		return err
	}
	return nil
}

func (r *eventRepository) filtered(q squirrel.SelectBuilder, filter models.EventFilter) squirrel.SelectBuilder {
	if filter.Framework != "" {
		q = q.Where(squirrel.Eq{"framework": filter.Framework})
	}
	if filter.WordID != "" {
		q = q.Where(squirrel.Eq{"word_id": filter.WordID})
	}
	if filter.Name != "" {
		q = q.Where(squirrel.Eq{"event": filter.Name})
	}
	if filter.LearnerID != "" {
		q = q.Where(squirrel.Eq{"learner_id": filter.LearnerID})
	}
	if filter.Since != nil {
		q = q.Where(squirrel.GtOrEq{"ts": filter.Since.UnixMilli()})
	}
	return q
}

func (r *eventRepository) List(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	log := logger.FromContext(ctx).WithPrefix("event_repo")
	log.Debug("listing events: framework=%s, word=%s, event=%s, limit=%d, offset=%d",
		filter.Framework, filter.WordID, filter.Name, filter.Limit, filter.Offset)

	q := sqlBuilder.Select("id", "ts", "learner_id", "session_id", "framework", "word_id", "step_id", "event", "meta").
		From("events")
	q = r.filtered(q, filter).OrderBy("ts ASC", "rowid ASC")
	q = page(q, filter.Limit, filter.Offset)

	query, args, err := q.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list events: %v", err)
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var (
			ev   models.Event
			ts   int64
			meta string
		)
		if err := rows.Scan(&ev.ID, &ts, &ev.LearnerID, &ev.SessionID, &ev.Framework, &ev.WordID, &ev.StepID, &ev.Name, &meta); err != nil {
			log.Error("failed to scan event row: %v", err)
			return nil, err
		}
		ev.Timestamp = time.UnixMilli(ts).UTC()
		if ev.Meta, err = decodeMeta(meta); err != nil {
			log.Error("failed to decode meta for event %s: %v", ev.ID, err)
			return nil, err
		}
		events = append(events, ev)
	}
	log.Debug("found %d events", len(events))
	return events, rows.Err()
}

func (r *eventRepository) Count(ctx context.Context, filter models.EventFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("event_repo")
	log.Debug("counting events: framework=%s, word=%s, event=%s", filter.Framework, filter.WordID, filter.Name)

	query, args, err := r.filtered(sqlBuilder.Select("COUNT(*)").From("events"), filter).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return 0, err
	}
	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		log.Error("failed to count events: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *eventRepository) Compare(ctx context.Context, learnerID string) ([]models.FrameworkComparison, error) {
	log := logger.FromContext(ctx).WithPrefix("event_repo")
	log.Debug("comparing frameworks: learner=%s", learnerID)

	timed := "event IN ('step_view', 'complete_word')"
	q := sqlBuilder.Select(
		"framework",
		"SUM(CASE WHEN event = 'step_view' THEN 1 ELSE 0 END)",
		"SUM(CASE WHEN event = 'answer_result' THEN 1 ELSE 0 END)",
		"SUM(CASE WHEN event = 'answer_result' AND correct = 1 THEN 1 ELSE 0 END)",
		"SUM(CASE WHEN event = 'step_skip' THEN 1 ELSE 0 END)",
		"SUM(CASE WHEN event = 'answer_submit' THEN 1 ELSE 0 END)",
		"COALESCE(MAX(CASE WHEN "+timed+" THEN ts END) - MIN(CASE WHEN "+timed+" THEN ts END), 0)",
	).From("events").GroupBy("framework").OrderBy("framework")
	if learnerID != "" {
		q = q.Where(squirrel.Eq{"learner_id": learnerID})
	}

	query, args, err := q.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query framework comparison: %v", err)
		return nil, err
	}
	defer rows.Close()

	var out []models.FrameworkComparison
	for rows.Next() {
		var (
			c      models.FrameworkComparison
			spanMS int64
		)
		if err := rows.Scan(&c.Framework, &c.StepViews, &c.TotalAnswers, &c.CorrectAnswers, &c.SkippedSteps, &c.TotalAttempts, &spanMS); err != nil {
			log.Error("failed to scan comparison row: %v", err)
			return nil, err
		}
		c.TotalSeconds = spanMS / 1000
		c.Accuracy = models.Percent(c.CorrectAnswers, c.TotalAnswers)
		out = append(out, c)
	}
	log.Debug("compared %d frameworks", len(out))
	return out, rows.Err()
}
