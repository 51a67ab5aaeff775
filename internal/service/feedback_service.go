package service

import (
	"context"
	"fmt"
	"time"

	"math-routing-agent/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FeedbackStore is the append-only persistence contract of the feedback log.
type FeedbackStore interface {
	Create(ctx context.Context, fb *models.FeedbackRecord) error
	List(ctx context.Context) ([]*models.FeedbackRecord, error)
}

// KnowledgeUpserter is the slice of the knowledge store the feedback loop
// needs: writing a correction back into the searchable corpus.
type KnowledgeUpserter interface {
	Upsert(ctx context.Context, question, answer string) (*models.KBEntry, error)
}

// RecordResult reports what a feedback submission produced. Trained is
// false when no correction was supplied or when the knowledge-base write
// failed after the feedback row was already durable.
type RecordResult struct {
	FeedbackID uuid.UUID
	Trained    bool
}

// FeedbackService persists user judgments and drives corrections into the
// knowledge store. The feedback log is written first in every path: it is
// the source of truth, and the knowledge base is a derived index that can
// be rebuilt from it.
type FeedbackService struct {
	store     FeedbackStore
	knowledge KnowledgeUpserter
	logger    *zap.Logger
}

func NewFeedbackService(store FeedbackStore, knowledge KnowledgeUpserter, logger *zap.Logger) *FeedbackService {
	return &FeedbackService{
		store:     store,
		knowledge: knowledge,
		logger:    logger,
	}
}

// Record persists one feedback judgment. When the answer was unhelpful and
// a corrected answer is supplied, the correction is additionally upserted
// into the knowledge base; a failure there does not undo the feedback row
// and is reported only through Trained=false.
func (s *FeedbackService) Record(ctx context.Context, question, answerGiven string, helpful bool, correctedAnswer, comment string) (*RecordResult, error) {
	fb := &models.FeedbackRecord{
		ID:              uuid.New(),
		Question:        question,
		AnswerGiven:     answerGiven,
		Helpful:         helpful,
		CorrectedAnswer: correctedAnswer,
		Comment:         comment,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.store.Create(ctx, fb); err != nil {
		return nil, fmt.Errorf("failed to save feedback: %w", err)
	}

	result := &RecordResult{FeedbackID: fb.ID}

	if !helpful && correctedAnswer != "" {
		if _, err := s.knowledge.Upsert(ctx, question, correctedAnswer); err != nil {
			s.logger.Error("Correction saved to feedback log but knowledge base update failed",
				zap.String("feedback_id", fb.ID.String()),
				zap.Error(err),
			)
		} else {
			result.Trained = true
		}
	}

	return result, nil
}

// Train is the explicit correction path: it records a feedback row and
// then upserts the correction, surfacing an upsert failure to the caller.
// The feedback row stays saved either way.
func (s *FeedbackService) Train(ctx context.Context, question, correctedAnswer, comment string) (*RecordResult, error) {
	fb := &models.FeedbackRecord{
		ID:              uuid.New(),
		Question:        question,
		AnswerGiven:     "",
		Helpful:         false,
		CorrectedAnswer: correctedAnswer,
		Comment:         comment,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.store.Create(ctx, fb); err != nil {
		return nil, fmt.Errorf("failed to save feedback: %w", err)
	}

	if _, err := s.knowledge.Upsert(ctx, question, correctedAnswer); err != nil {
		return &RecordResult{FeedbackID: fb.ID}, fmt.Errorf("knowledge base upsert failed: %w", err)
	}

	return &RecordResult{FeedbackID: fb.ID, Trained: true}, nil
}

// List returns the full feedback log, newest first.
func (s *FeedbackService) List(ctx context.Context) ([]*models.FeedbackRecord, error) {
	return s.store.List(ctx)
}
