package models

import (
	"time"

	"github.com/google/uuid"
)

// FeedbackRecord is one user judgment about an answer. Records are
// append-only: they are never mutated or deleted, and the feedback log is
// the source of truth from which the knowledge base can be rebuilt.
type FeedbackRecord struct {
	ID              uuid.UUID `db:"id"`
	Question        string    `db:"question"`
	AnswerGiven     string    `db:"answer"`
	Helpful         bool      `db:"helpful"`
	CorrectedAnswer string    `db:"corrected_answer"`
	Comment         string    `db:"comment"`
	CreatedAt       time.Time `db:"created_at"`
}
