package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// KnowledgeInfo exposes the read-only facts the debug endpoint reports.
type KnowledgeInfo interface {
	Size() int
}

// KBCounter reports the number of durable knowledge-base rows. The count
// doubles as the database health probe.
type KBCounter interface {
	Count(ctx context.Context) (int, error)
}

type DebugHandler struct {
	knowledge      KnowledgeInfo
	store          KBCounter
	embeddingModel string
	logger         *zap.Logger
}

func NewDebugHandler(knowledge KnowledgeInfo, store KBCounter, embeddingModel string, logger *zap.Logger) *DebugHandler {
	return &DebugHandler{
		knowledge:      knowledge,
		store:          store,
		embeddingModel: embeddingModel,
		logger:         logger,
	}
}

// Debug godoc
// @Summary Service health and knowledge base status
// @Tags debug
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/debug [get]
func (h *DebugHandler) Debug(c *fiber.Ctx) error {
	dbOK := true
	rows, err := h.store.Count(c.Context())
	if err != nil {
		h.logger.Warn("Knowledge base count failed", zap.Error(err))
		dbOK = false
	}

	return c.JSON(fiber.Map{
		"ok":              dbOK,
		"kb_entries":      h.knowledge.Size(),
		"kb_rows":         rows,
		"embedding_model": h.embeddingModel,
	})
}
