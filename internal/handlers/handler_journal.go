package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sarrafx/recon_backend/internal/apperrors"
	portssvc "github.com/sarrafx/recon_backend/internal/core/ports/services"
	"github.com/sarrafx/recon_backend/internal/core/services"
	"github.com/sarrafx/recon_backend/internal/dto"
	"github.com/sarrafx/recon_backend/internal/middleware"
)

// journalHandler handles HTTP requests related to ledger journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(journalService portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{
		journalService: journalService,
	}
}

func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)
	rg.POST("/journal", h.postJournal)
	rg.GET("/transactions/:transactionID/validation", h.validateJournal)
}

// postJournal appends one balanced journal entry to the tenant's ledger chain.
func (h *journalHandler) postJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	req := dto.PostJournalRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for PostJournal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	// Attribution comes from the gateway in front of this service.
	creatorUserID := c.GetHeader("X-User-ID")
	if creatorUserID == "" {
		creatorUserID = "system"
	}

	entryID, err := h.journalService.PostJournal(c.Request.Context(), tenantID, req, creatorUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation),
			errors.Is(err, services.ErrJournalUnbalanced),
			errors.Is(err, services.ErrJournalMinLines),
			errors.Is(err, services.ErrJournalLineAmount),
			errors.Is(err, services.ErrAccountNotFound),
			errors.Is(err, services.ErrAccountCurrency):
			logger.Warn("Validation error posting journal", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrIntegrityConflict):
			logger.Warn("Chain head contention posting journal", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": "Ledger chain contention, retry the request"})
		default:
			logger.Error("Failed to post journal in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to post journal"})
		}
		return
	}

	logger.Info("Journal entry posted successfully", slog.String("entry_id", entryID))
	c.JSON(http.StatusCreated, gin.H{"entryID": entryID})
}

// validateJournal returns the accounting validation for a transaction's entries.
func (h *journalHandler) validateJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")
	transactionID := c.Param("transactionID")

	validation, err := h.journalService.ValidateJournal(c.Request.Context(), tenantID, transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to validate journal", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate journal"})
		return
	}

	c.JSON(http.StatusOK, validation)
}
