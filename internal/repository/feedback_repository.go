package repository

import (
	"context"

	"math-routing-agent/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const feedbackSchema = `
CREATE TABLE IF NOT EXISTS feedback (
	id UUID PRIMARY KEY,
	question TEXT NOT NULL,
	answer TEXT,
	helpful BOOLEAN NOT NULL,
	corrected_answer TEXT,
	comment TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

type FeedbackRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewFeedbackRepository(db *pgxpool.Pool, logger *zap.Logger) *FeedbackRepository {
	return &FeedbackRepository{
		db:     db,
		logger: logger,
	}
}

// Init ensures the feedback table exists.
func (r *FeedbackRepository) Init(ctx context.Context) error {
	_, err := r.db.Exec(ctx, feedbackSchema)
	return err
}

func (r *FeedbackRepository) Create(ctx context.Context, fb *models.FeedbackRecord) error {
	query := squirrel.Insert("feedback").
		Columns("id", "question", "answer", "helpful", "corrected_answer", "comment", "created_at").
		Values(fb.ID, fb.Question, fb.AnswerGiven, fb.Helpful, fb.CorrectedAnswer, fb.Comment, fb.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// List returns all feedback records, newest first. The log is append-only;
// there is no update or delete path.
func (r *FeedbackRepository) List(ctx context.Context) ([]*models.FeedbackRecord, error) {
	query := squirrel.Select("id", "question", "answer", "helpful", "corrected_answer", "comment", "created_at").
		From("feedback").
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.FeedbackRecord
	for rows.Next() {
		var fb models.FeedbackRecord
		if err := rows.Scan(
			&fb.ID, &fb.Question, &fb.AnswerGiven, &fb.Helpful, &fb.CorrectedAnswer, &fb.Comment, &fb.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, &fb)
	}

	return records, rows.Err()
}
