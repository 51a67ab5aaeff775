package models

import (
	"time"

	"github.com/google/uuid"
)

type KBOrigin string

const (
	KBOriginSeed       KBOrigin = "seed"
	KBOriginCorrection KBOrigin = "correction"
)

// KBEntry is one question/answer pair in the knowledge base. Vector is
// always the embedding of Question under EmbeddingModel; when the answer is
// corrected the vector is recomputed together with it.
type KBEntry struct {
	ID             uuid.UUID `db:"id"`
	Question       string    `db:"question"`
	Answer         string    `db:"answer"`
	Vector         []float32 `db:"embedding"`
	EmbeddingModel string    `db:"embedding_model"`
	Origin         KBOrigin  `db:"origin"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}
