package handlers

import (
	"context"
	"time"

	"math-routing-agent/internal/dto"
	"math-routing-agent/internal/models"
	"math-routing-agent/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// FeedbackRecorder persists judgments and trains corrections.
type FeedbackRecorder interface {
	Record(ctx context.Context, question, answerGiven string, helpful bool, correctedAnswer, comment string) (*service.RecordResult, error)
	Train(ctx context.Context, question, correctedAnswer, comment string) (*service.RecordResult, error)
	List(ctx context.Context) ([]*models.FeedbackRecord, error)
}

type FeedbackHandler struct {
	feedback FeedbackRecorder
	logger   *zap.Logger
}

func NewFeedbackHandler(feedback FeedbackRecorder, logger *zap.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		feedback: feedback,
		logger:   logger,
	}
}

// Submit godoc
// @Summary Submit feedback on an answer
// @Description Save a thumbs up/down judgment; an unhelpful judgment with a corrected answer also trains the knowledge base
// @Tags feedback
// @Accept json
// @Produce json
// @Param request body dto.FeedbackRequest true "Feedback"
// @Success 200 {object} dto.FeedbackResponse
// @Failure 400 {object} map[string]string
// @Router /api/feedback [post]
func (h *FeedbackHandler) Submit(c *fiber.Ctx) error {
	var req dto.FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Question == "" || req.Helpful == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing fields",
		})
	}

	result, err := h.feedback.Record(c.Context(), req.Question, req.Answer, *req.Helpful, req.CorrectedAnswer, req.Comment)
	if err != nil {
		h.logger.Error("Failed to save feedback", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save feedback",
		})
	}

	return c.JSON(dto.FeedbackResponse{
		OK:      true,
		ID:      result.FeedbackID.String(),
		Trained: result.Trained,
	})
}

// Train godoc
// @Summary Train a corrected answer
// @Description Save a correction and upsert it into the knowledge base
// @Tags feedback
// @Accept json
// @Produce json
// @Param request body dto.TrainRequest true "Correction"
// @Success 200 {object} dto.TrainResponse
// @Failure 400 {object} map[string]string
// @Router /api/feedback/train [post]
func (h *FeedbackHandler) Train(c *fiber.Ctx) error {
	var req dto.TrainRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Question == "" || req.CorrectedAnswer == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing fields",
		})
	}

	result, err := h.feedback.Train(c.Context(), req.Question, req.CorrectedAnswer, req.Comment)
	if err != nil {
		h.logger.Error("Training failed", zap.Error(err))
		// the feedback row may already be durable even when the upsert failed
		resp := fiber.Map{"error": "Knowledge base update failed"}
		if result != nil {
			resp["feedback_id"] = result.FeedbackID.String()
		}
		return c.Status(fiber.StatusInternalServerError).JSON(resp)
	}

	return c.JSON(dto.TrainResponse{
		OK:         true,
		Trained:    result.Trained,
		FeedbackID: result.FeedbackID.String(),
	})
}

// List godoc
// @Summary List all feedback
// @Tags feedback
// @Produce json
// @Success 200 {object} dto.FeedbackListResponse
// @Router /api/feedback/all [get]
func (h *FeedbackHandler) List(c *fiber.Ctx) error {
	records, err := h.feedback.List(c.Context())
	if err != nil {
		h.logger.Error("Failed to list feedback", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load feedback",
		})
	}

	items := make([]dto.FeedbackItem, 0, len(records))
	for _, fb := range records {
		items = append(items, dto.FeedbackItem{
			ID:              fb.ID.String(),
			Question:        fb.Question,
			Answer:          fb.AnswerGiven,
			Helpful:         fb.Helpful,
			CorrectedAnswer: fb.CorrectedAnswer,
			Comment:         fb.Comment,
			CreatedAt:       fb.CreatedAt.Format(time.RFC3339),
		})
	}

	return c.JSON(dto.FeedbackListResponse{OK: true, Feedback: items})
}
