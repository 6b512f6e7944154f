package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sarrafx/recon_backend/internal/apperrors"
	"github.com/sarrafx/recon_backend/internal/core/domain"
	portsrepo "github.com/sarrafx/recon_backend/internal/core/ports/repositories"
	portssvc "github.com/sarrafx/recon_backend/internal/core/ports/services"
	"github.com/sarrafx/recon_backend/internal/dto"
	"github.com/sarrafx/recon_backend/internal/middleware"
	"github.com/sarrafx/recon_backend/internal/worker"
)

// reconciliationHandler handles synchronous and queued reconciliation requests.
type reconciliationHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
	discrepancyRepo       portsrepo.DiscrepancyRepository
	queue                 portssvc.Queue
}

func newReconciliationHandler(
	reconciliationService portssvc.ReconciliationSvcFacade,
	discrepancyRepo portsrepo.DiscrepancyRepository,
	queue portssvc.Queue,
) *reconciliationHandler {
	return &reconciliationHandler{
		reconciliationService: reconciliationService,
		discrepancyRepo:       discrepancyRepo,
		queue:                 queue,
	}
}

func registerReconciliationRoutes(
	rg *gin.RouterGroup,
	reconciliationService portssvc.ReconciliationSvcFacade,
	discrepancyRepo portsrepo.DiscrepancyRepository,
	queue portssvc.Queue,
) {
	h := newReconciliationHandler(reconciliationService, discrepancyRepo, queue)
	rg.POST("/transactions/:transactionID/reconcile", h.reconcileTransaction)
	rg.POST("/reconcile", h.reconcileTenant)
	rg.POST("/reconcile/enqueue", h.enqueueReconciliation)
	rg.GET("/transactions/:transactionID/discrepancy", h.getDiscrepancy)
}

// reconcileTransaction runs the engine synchronously for one transaction.
func (h *reconciliationHandler) reconcileTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")
	transactionID := c.Param("transactionID")

	req := dto.ReconcileOptionsRequest{}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Error("Failed to bind JSON for ReconcileTransaction", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}
	}

	result, err := h.reconciliationService.ReconcileTransaction(c.Request.Context(), tenantID, transactionID, req.ToOptions())
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to reconcile transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reconcile transaction"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// reconcileTenant runs a bulk pass over the tenant's transactions in a window.
func (h *reconciliationHandler) reconcileTenant(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	req := dto.ReconcileTenantRequest{}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Error("Failed to bind JSON for ReconcileTenant", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}
	}

	window := domain.ReportWindow{From: req.From, To: req.To}
	report, err := h.reconciliationService.ReconcileTenant(c.Request.Context(), tenantID, window, req.Options.ToOptions())
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to run tenant reconciliation pass", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run reconciliation pass"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// enqueueReconciliation hands one transaction to the background worker.
func (h *reconciliationHandler) enqueueReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	req := dto.EnqueueReconciliationRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for EnqueueReconciliation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	msg := worker.ReconciliationMessage{
		TenantID:      tenantID,
		TransactionID: req.TransactionID,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		logger.Error("Failed to marshal reconciliation message", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enqueue reconciliation"})
		return
	}

	if err := h.queue.Publish(c.Request.Context(), worker.TopicReconciliation, payload); err != nil {
		logger.Error("Failed to publish reconciliation message", slog.String("error", err.Error()), slog.String("transaction_id", req.TransactionID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enqueue reconciliation"})
		return
	}

	logger.Info("Reconciliation enqueued", slog.String("transaction_id", req.TransactionID))
	c.JSON(http.StatusAccepted, gin.H{"status": "enqueued", "transactionID": req.TransactionID})
}

// getDiscrepancy returns the current discrepancy snapshot for a transaction.
func (h *reconciliationHandler) getDiscrepancy(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")
	transactionID := c.Param("transactionID")

	discrepancy, err := h.discrepancyRepo.FindByTransaction(c.Request.Context(), tenantID, transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No discrepancy recorded for transaction"})
			return
		}
		logger.Error("Failed to fetch discrepancy", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch discrepancy"})
		return
	}

	c.JSON(http.StatusOK, discrepancy)
}
