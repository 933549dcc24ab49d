package sqlite

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/samber/lo"
	"github.com/vytor/wordjourney/internal/logger"
	"github.com/vytor/wordjourney/internal/models"
	"github.com/vytor/wordjourney/internal/repository"
)

type journeyRepository struct {
	db *sql.DB
}

// NewJourneyRepository creates a new JourneyRepository implementation
func NewJourneyRepository(db *sql.DB) repository.JourneyRepository {
	return &journeyRepository{db: db}
}

func (r *journeyRepository) SaveRecord(ctx context.Context, rec models.JourneyRecord) error {
	log := logger.FromContext(ctx).WithPrefix("journey_repo")
	log.Debug("saving journey record: id=%s, framework=%s, word=%s, steps=%d", rec.ID, rec.Framework, rec.WordID, len(rec.Steps))

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO journey_records (id, learner_id, session_id, framework, word_id, mastery, correct, total, completed_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    mastery = excluded.mastery,
    correct = excluded.correct,
    total = excluded.total,
    completed_at = excluded.completed_at
`, rec.ID, rec.LearnerID, rec.SessionID, rec.Framework, rec.WordID, boolInt(rec.Mastery), rec.Correct, rec.Total, rec.CompletedAt.UTC()); err != nil {
			log.Error("failed to upsert journey record: %v", err)
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM step_results WHERE record_id = ?`, rec.ID); err != nil {
			log.Error("failed to clear step results: %v", err)
			return err
		}
		if len(rec.Steps) == 0 {
			return nil
		}

		insert := sqlBuilder.Insert("step_results").
			Columns("record_id", "position", "step_id", "correct", "skipped", "attempts", "elapsed_ms")
		for i, s := range rec.Steps {
			insert = insert.Values(rec.ID, i, s.StepID, boolInt(s.Correct), boolInt(s.Skipped), s.Attempts, s.ElapsedMS)
		}
		query, args, err := insert.ToSql()
		if err != nil {
			log.Error("failed to build step insert: %v", err)
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			log.Error("failed to insert step results: %v", err)
			return err
		}
		return nil
	})
}

func (r *journeyRepository) GetRecord(ctx context.Context, id string) (*models.JourneyRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("journey_repo")
	log.Debug("getting journey record: id=%s", id)

	recs, err := r.query(ctx, log, sqlBuilder.Select(recordColumns...).From("journey_records").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		log.Debug("journey record not found: id=%s", id)
		return nil, sql.ErrNoRows
	}
	return &recs[0], nil
}

func (r *journeyRepository) ListRecords(ctx context.Context, filter models.JourneyRecordFilter) ([]models.JourneyRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("journey_repo")
	log.Debug("listing journey records: learner=%s, framework=%s, word=%s, limit=%d, offset=%d",
		filter.LearnerID, filter.Framework, filter.WordID, filter.Limit, filter.Offset)

	q := sqlBuilder.Select(recordColumns...).From("journey_records")
	if filter.LearnerID != "" {
		q = q.Where(squirrel.Eq{"learner_id": filter.LearnerID})
	}
	if filter.Framework != "" {
		q = q.Where(squirrel.Eq{"framework": filter.Framework})
	}
	if filter.WordID != "" {
		q = q.Where(squirrel.Eq{"word_id": filter.WordID})
	}
	q = page(q.OrderBy("completed_at DESC", "id"), filter.Limit, filter.Offset)

	recs, err := r.query(ctx, log, q)
	if err != nil {
		return nil, err
	}
	log.Debug("found %d journey records", len(recs))
	return recs, nil
}

var recordColumns = []string{"id", "learner_id", "session_id", "framework", "word_id", "mastery", "correct", "total", "completed_at"}

func (r *journeyRepository) query(ctx context.Context, log *logger.Logger, q squirrel.SelectBuilder) ([]models.JourneyRecord, error) {
	query, args, err := q.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query journey records: %v", err)
		return nil, err
	}
	var recs []models.JourneyRecord
	for rows.Next() {
		var rec models.JourneyRecord
		if err := rows.Scan(&rec.ID, &rec.LearnerID, &rec.SessionID, &rec.Framework, &rec.WordID, &rec.Mastery, &rec.Correct, &rec.Total, &rec.CompletedAt); err != nil {
			rows.Close()
			log.Error("failed to scan journey record: %v", err)
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	// release the single connection before loading steps
	rows.Close()

	if len(recs) == 0 {
		return recs, nil
	}
	steps, err := r.steps(ctx, lo.Map(recs, func(rec models.JourneyRecord, _ int) string { return rec.ID }))
	if err != nil {
		log.Error("failed to load step results: %v", err)
		return nil, err
	}
	for i := range recs {
		recs[i].Steps = steps[recs[i].ID]
	}
	return recs, nil
}

func (r *journeyRepository) steps(ctx context.Context, ids []string) (map[string][]models.StepResult, error) {
	query, args, err := sqlBuilder.
		Select("record_id", "step_id", "correct", "skipped", "attempts", "elapsed_ms").
		From("step_results").
		Where(squirrel.Eq{"record_id": ids}).
		OrderBy("record_id", "position").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]models.StepResult, len(ids))
	for rows.Next() {
		var (
			recordID string
			s        models.StepResult
		)
		if err := rows.Scan(&recordID, &s.StepID, &s.Correct, &s.Skipped, &s.Attempts, &s.ElapsedMS); err != nil {
			return nil, err
		}
		out[recordID] = append(out[recordID], s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
