package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/sarrafx/recon_backend/internal/apperrors"
	"github.com/sarrafx/recon_backend/internal/core/domain"
	portsrepo "github.com/sarrafx/recon_backend/internal/core/ports/repositories"
	portssvc "github.com/sarrafx/recon_backend/internal/core/ports/services"
	"github.com/sarrafx/recon_backend/internal/dto"
	"github.com/sarrafx/recon_backend/internal/handlers"
	"github.com/sarrafx/recon_backend/internal/platform/config"
	"github.com/sarrafx/recon_backend/internal/worker"
)

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) PostJournal(ctx context.Context, tenantID string, req dto.PostJournalRequest, creatorUserID string) (string, error) {
	args := m.Called(ctx, tenantID, req, creatorUserID)
	return args.String(0), args.Error(1)
}

func (m *MockJournalService) ValidateJournal(ctx context.Context, tenantID, transactionID string) (*domain.AccountingValidation, error) {
	args := m.Called(ctx, tenantID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingValidation), args.Error(1)
}

func (m *MockJournalService) AuditChain(ctx context.Context, tenantID string, window domain.ReportWindow) (*domain.ChainAudit, error) {
	args := m.Called(ctx, tenantID, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChainAudit), args.Error(1)
}

var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

// --- Mock ReconciliationService ---
type MockReconciliationService struct {
	mock.Mock
}

func (m *MockReconciliationService) ReconcileTransaction(ctx context.Context, tenantID, transactionID string, opts portssvc.ReconcileOptions) (*domain.EngineResult, error) {
	args := m.Called(ctx, tenantID, transactionID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EngineResult), args.Error(1)
}

func (m *MockReconciliationService) ReconcileTenant(ctx context.Context, tenantID string, window domain.ReportWindow, opts portssvc.ReconcileOptions) (*domain.ReconciliationReport, error) {
	args := m.Called(ctx, tenantID, window, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationReport), args.Error(1)
}

var _ portssvc.ReconciliationSvcFacade = (*MockReconciliationService)(nil)

// --- Mock DiscrepancyRepository ---
type MockDiscrepancyRepo struct {
	mock.Mock
}

func (m *MockDiscrepancyRepo) UpsertWithIntents(ctx context.Context, d domain.Discrepancy, txStatus *domain.TransactionStatus, intents []domain.NotificationIntent) error {
	args := m.Called(ctx, d, txStatus, intents)
	return args.Error(0)
}

func (m *MockDiscrepancyRepo) FindByTransaction(ctx context.Context, tenantID, transactionID string) (*domain.Discrepancy, error) {
	args := m.Called(ctx, tenantID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Discrepancy), args.Error(1)
}

var _ portsrepo.DiscrepancyRepository = (*MockDiscrepancyRepo)(nil)

// --- Mock OutboxRepository ---
type MockOutboxRepo struct {
	mock.Mock
}

func (m *MockOutboxRepo) ListUndelivered(ctx context.Context, tenantID string, limit int) ([]domain.NotificationIntent, error) {
	args := m.Called(ctx, tenantID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NotificationIntent), args.Error(1)
}

func (m *MockOutboxRepo) MarkDelivered(ctx context.Context, intentIDs []string, deliveredAt time.Time) error {
	args := m.Called(ctx, intentIDs, deliveredAt)
	return args.Error(0)
}

var _ portsrepo.OutboxRepository = (*MockOutboxRepo)(nil)

// --- Mock Queue ---
type MockQueue struct {
	mock.Mock
}

func (m *MockQueue) Publish(ctx context.Context, topic string, payload []byte) error {
	args := m.Called(ctx, topic, payload)
	return args.Error(0)
}

func (m *MockQueue) Consume(ctx context.Context, topic string, handler func(ctx context.Context, payload []byte) error) error {
	args := m.Called(ctx, topic, handler)
	return args.Error(0)
}

var _ portssvc.Queue = (*MockQueue)(nil)

// --- Test Suite ---
type ReconciliationHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockJournal *MockJournalService
	mockRecon   *MockReconciliationService
	mockDiscs   *MockDiscrepancyRepo
	mockOutbox  *MockOutboxRepo
	mockQueue   *MockQueue
}

func (suite *ReconciliationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	suite.mockJournal = new(MockJournalService)
	suite.mockRecon = new(MockReconciliationService)
	suite.mockDiscs = new(MockDiscrepancyRepo)
	suite.mockOutbox = new(MockOutboxRepo)
	suite.mockQueue = new(MockQueue)

	services := &portssvc.ServiceContainer{
		Journal:        suite.mockJournal,
		Reconciliation: suite.mockRecon,
	}
	repos := &portsrepo.RepositoryProvider{
		DiscrepancyRepo: suite.mockDiscs,
		OutboxRepo:      suite.mockOutbox,
	}
	handlers.RegisterRoutes(suite.router, &config.Config{}, services, repos, suite.mockQueue)
}

func (suite *ReconciliationHandlerTestSuite) TestReconcileTransaction_Success() {
	tenantID := uuid.NewString()
	transactionID := uuid.NewString()

	expected := &domain.EngineResult{
		TransactionID: transactionID,
		TenantID:      tenantID,
		Expected:      domain.Money{MinorUnits: 100_000, Currency: "USD"},
		ActualPaid:    domain.Money{MinorUnits: 100_000, Currency: "USD"},
		Status:        domain.ReconMatched,
		Success:       true,
	}
	suite.mockRecon.On("ReconcileTransaction",
		mock.Anything, tenantID, transactionID, portssvc.DefaultReconcileOptions(),
	).Return(expected, nil).Once()

	url := fmt.Sprintf("/api/v1/tenants/%s/transactions/%s/reconcile", tenantID, transactionID)
	req, _ := http.NewRequest(http.MethodPost, url, nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	var body domain.EngineResult
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(domain.ReconMatched, body.Status)
	suite.True(body.Success)
	suite.mockRecon.AssertExpectations(suite.T())
}

func (suite *ReconciliationHandlerTestSuite) TestReconcileTransaction_OptionsOverrideDefaults() {
	tenantID := uuid.NewString()
	transactionID := uuid.NewString()

	wantOpts := portssvc.DefaultReconcileOptions()
	wantOpts.IncludeExternalReconciliation = true
	suite.mockRecon.On("ReconcileTransaction",
		mock.Anything, tenantID, transactionID, wantOpts,
	).Return(&domain.EngineResult{Success: true}, nil).Once()

	payload := []byte(`{"includeExternalReconciliation": true}`)
	url := fmt.Sprintf("/api/v1/tenants/%s/transactions/%s/reconcile", tenantID, transactionID)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockRecon.AssertExpectations(suite.T())
}

func (suite *ReconciliationHandlerTestSuite) TestReconcileTenant_ValidationErrorReturns400() {
	tenantID := uuid.NewString()

	suite.mockRecon.On("ReconcileTenant",
		mock.Anything, tenantID, mock.Anything, mock.Anything,
	).Return(nil, fmt.Errorf("%w: window is inverted", apperrors.ErrValidation)).Once()

	url := fmt.Sprintf("/api/v1/tenants/%s/reconcile", tenantID)
	req, _ := http.NewRequest(http.MethodPost, url, nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockRecon.AssertExpectations(suite.T())
}

func (suite *ReconciliationHandlerTestSuite) TestEnqueueReconciliation_PublishesMessage() {
	tenantID := uuid.NewString()
	transactionID := uuid.NewString()

	suite.mockQueue.On("Publish",
		mock.Anything, worker.TopicReconciliation,
		mock.MatchedBy(func(payload []byte) bool {
			var msg worker.ReconciliationMessage
			if err := json.Unmarshal(payload, &msg); err != nil {
				return false
			}
			return msg.TenantID == tenantID && msg.TransactionID == transactionID
		}),
	).Return(nil).Once()

	payload, _ := json.Marshal(dto.EnqueueReconciliationRequest{TransactionID: transactionID})
	url := fmt.Sprintf("/api/v1/tenants/%s/reconcile/enqueue", tenantID)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusAccepted, w.Code)
	suite.mockQueue.AssertExpectations(suite.T())
}

func (suite *ReconciliationHandlerTestSuite) TestEnqueueReconciliation_MissingTransactionID() {
	url := fmt.Sprintf("/api/v1/tenants/%s/reconcile/enqueue", uuid.NewString())
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockQueue.AssertNotCalled(suite.T(), "Publish")
}

func (suite *ReconciliationHandlerTestSuite) TestGetDiscrepancy_NotFound() {
	tenantID := uuid.NewString()
	transactionID := uuid.NewString()

	suite.mockDiscs.On("FindByTransaction", mock.Anything, tenantID, transactionID).
		Return(nil, apperrors.ErrNotFound).Once()

	url := fmt.Sprintf("/api/v1/tenants/%s/transactions/%s/discrepancy", tenantID, transactionID)
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockDiscs.AssertExpectations(suite.T())
}

func (suite *ReconciliationHandlerTestSuite) TestPostJournal_ChainConflictReturns409() {
	tenantID := uuid.NewString()

	suite.mockJournal.On("PostJournal", mock.Anything, tenantID, mock.Anything, "system").
		Return("", apperrors.ErrIntegrityConflict).Once()

	body := dto.PostJournalRequest{
		Description: "invoice settlement",
		Reference:   "INV-42",
		Currency:    "USD",
		Lines: []dto.JournalLineRequest{
			{AccountID: uuid.NewString(), Debit: 5000},
			{AccountID: uuid.NewString(), Credit: 5000},
		},
	}
	payload, _ := json.Marshal(body)
	url := fmt.Sprintf("/api/v1/tenants/%s/journal", tenantID)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockJournal.AssertExpectations(suite.T())
}

func (suite *ReconciliationHandlerTestSuite) TestListPendingNotifications() {
	tenantID := uuid.NewString()
	intents := []domain.NotificationIntent{
		{
			IntentID:     uuid.NewString(),
			TenantID:     tenantID,
			RecipientRef: "cust-1",
			Kind:         domain.NotifyUnderpaid,
			CreatedAt:    time.Now().UTC(),
		},
	}
	suite.mockOutbox.On("ListUndelivered", mock.Anything, tenantID, 10).
		Return(intents, nil).Once()

	url := fmt.Sprintf("/api/v1/tenants/%s/notifications/pending?limit=10", tenantID)
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockOutbox.AssertExpectations(suite.T())
}

func (suite *ReconciliationHandlerTestSuite) TestAcknowledgeNotifications() {
	tenantID := uuid.NewString()
	intentIDs := []string{uuid.NewString(), uuid.NewString()}

	suite.mockOutbox.On("MarkDelivered", mock.Anything, intentIDs, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	payload, _ := json.Marshal(map[string][]string{"intentIDs": intentIDs})
	url := fmt.Sprintf("/api/v1/tenants/%s/notifications/ack", tenantID)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockOutbox.AssertExpectations(suite.T())
}

func TestReconciliationHandler(t *testing.T) {
	suite.Run(t, new(ReconciliationHandlerTestSuite))
}
