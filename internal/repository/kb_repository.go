package repository

import (
	"context"

	"math-routing-agent/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const kbSchema = `
CREATE TABLE IF NOT EXISTS kb_entries (
	seq BIGSERIAL,
	id UUID PRIMARY KEY,
	question TEXT NOT NULL,
	answer TEXT NOT NULL,
	embedding REAL[] NOT NULL,
	embedding_model TEXT NOT NULL,
	origin TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`

type KBRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewKBRepository(db *pgxpool.Pool, logger *zap.Logger) *KBRepository {
	return &KBRepository{
		db:     db,
		logger: logger,
	}
}

// Init ensures the kb_entries table exists.
func (r *KBRepository) Init(ctx context.Context) error {
	_, err := r.db.Exec(ctx, kbSchema)
	return err
}

func (r *KBRepository) Create(ctx context.Context, entry *models.KBEntry) error {
	embedding := pgtype.FlatArray[float32](entry.Vector)

	query := squirrel.Insert("kb_entries").
		Columns("id", "question", "answer", "embedding", "embedding_model", "origin", "created_at", "updated_at").
		Values(entry.ID, entry.Question, entry.Answer, embedding, entry.EmbeddingModel, entry.Origin, entry.CreatedAt, entry.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// Update replaces the answer and vector of an existing entry in place,
// preserving its id and insertion position.
func (r *KBRepository) Update(ctx context.Context, entry *models.KBEntry) error {
	embedding := pgtype.FlatArray[float32](entry.Vector)

	query := squirrel.Update("kb_entries").
		Set("answer", entry.Answer).
		Set("embedding", embedding).
		Set("embedding_model", entry.EmbeddingModel).
		Set("updated_at", entry.UpdatedAt).
		Where(squirrel.Eq{"id": entry.ID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// List returns all entries in insertion order, which the in-memory index
// relies on for deterministic tie-breaking.
func (r *KBRepository) List(ctx context.Context) ([]*models.KBEntry, error) {
	query := squirrel.Select("id", "question", "answer", "embedding", "embedding_model", "origin", "created_at", "updated_at").
		From("kb_entries").
		OrderBy("seq ASC").
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

	var entries []*models.KBEntry
	for rows.Next() {
		var entry models.KBEntry
		var embedding pgtype.FlatArray[float32]

		if err := rows.Scan(
			&entry.ID, &entry.Question, &entry.Answer, &embedding, &entry.EmbeddingModel, &entry.Origin, &entry.CreatedAt, &entry.UpdatedAt,
		); err != nil {
			return nil, err
		}

		entry.Vector = []float32(embedding)
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}

func (r *KBRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM kb_entries").Scan(&count)
	return count, err
}
