package handlers

import (
	"context"
	"errors"

	"math-routing-agent/internal/dto"
	"math-routing-agent/internal/models"
	"math-routing-agent/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AskService routes one question to an answer.
type AskService interface {
	Route(ctx context.Context, question string) (*models.AnswerRecord, error)
}

type AskHandler struct {
	router AskService
	logger *zap.Logger
}

func NewAskHandler(router AskService, logger *zap.Logger) *AskHandler {
	return &AskHandler{
		router: router,
		logger: logger,
	}
}

// Ask godoc
// @Summary Answer a math question
// @Description Route a free-text math question through the solving cascade
// @Tags ask
// @Accept json
// @Produce json
// @Param request body dto.AskRequest true "Question"
// @Success 200 {object} dto.AskResponse
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /api/ask [post]
func (h *AskHandler) Ask(c *fiber.Ctx) error {
	var req dto.AskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	record, err := h.router.Route(c.Context(), req.Question)
	if err != nil {
		if errors.Is(err, service.ErrEmptyQuestion) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Empty question",
			})
		}
		if errors.Is(err, service.ErrAllStagesExhausted) {
			h.logger.Error("Routing exhausted all stages", zap.Error(err))
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "Could not solve this question: every solving strategy failed",
			})
		}
		h.logger.Error("Routing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to answer question",
		})
	}

	return c.JSON(dto.AskResponse{
		Source:     string(record.Source),
		Text:       record.Text,
		Confidence: record.Confidence,
	})
}
