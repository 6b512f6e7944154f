package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	portsrepo "github.com/sarrafx/recon_backend/internal/core/ports/repositories"
	"github.com/sarrafx/recon_backend/internal/middleware"
)

// outboxHandler exposes the notification intent outbox to downstream
// delivery services.
type outboxHandler struct {
	outboxRepo portsrepo.OutboxRepository
}

func newOutboxHandler(outboxRepo portsrepo.OutboxRepository) *outboxHandler {
	return &outboxHandler{outboxRepo: outboxRepo}
}

func registerOutboxRoutes(rg *gin.RouterGroup, outboxRepo portsrepo.OutboxRepository) {
	h := newOutboxHandler(outboxRepo)
	rg.GET("/notifications/pending", h.listPending)
	rg.POST("/notifications/ack", h.acknowledge)
}

type acknowledgeRequest struct {
	IntentIDs []string `json:"intentIDs" binding:"required,min=1"`
}

// listPending returns undelivered notification intents, oldest first.
func (h *outboxHandler) listPending(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = parsed
	}

	intents, err := h.outboxRepo.ListUndelivered(c.Request.Context(), tenantID, limit)
	if err != nil {
		logger.Error("Failed to list pending notifications", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list pending notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"intents": intents})
}

// acknowledge marks a batch of intents as delivered.
func (h *outboxHandler) acknowledge(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := acknowledgeRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for AcknowledgeNotifications", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.outboxRepo.MarkDelivered(c.Request.Context(), req.IntentIDs, time.Now().UTC()); err != nil {
		logger.Error("Failed to acknowledge notifications", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to acknowledge notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"acknowledged": len(req.IntentIDs)})
}
