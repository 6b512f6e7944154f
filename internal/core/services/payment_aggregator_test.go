package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/sarrafx/recon_backend/internal/core/domain"
	portssvc "github.com/sarrafx/recon_backend/internal/core/ports/services"
	"github.com/sarrafx/recon_backend/internal/core/services"
)

// MockPaymentReader is a mock type for the PaymentReader interface
type MockPaymentReader struct {
	mock.Mock
}

func (m *MockPaymentReader) ListPaymentsByTransaction(ctx context.Context, tenantID, transactionID string) ([]domain.Payment, error) {
	args := m.Called(ctx, tenantID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

// --- Test Suite Setup ---

type PaymentAggregatorTestSuite struct {
	suite.Suite
	mockPayments *MockPaymentReader
	service      portssvc.PaymentAggregatorSvc

	tx domain.Transaction
}

func (suite *PaymentAggregatorTestSuite) SetupTest() {
	suite.mockPayments = new(MockPaymentReader)
	suite.service = services.NewPaymentAggregator(suite.mockPayments)
	suite.tx = domain.Transaction{
		TransactionID: uuid.NewString(),
		TenantID:      uuid.NewString(),
		CustomerID:    uuid.NewString(),
		Expected:      domain.NewMoney(100000, "USD"),
		Type:          domain.TxnTransfer,
		Status:        domain.TxnPending,
	}
}

func (suite *PaymentAggregatorTestSuite) payment(amount int64, currency string, status domain.PaymentStatus) domain.Payment {
	var verifiedAt *time.Time
	if status == domain.PaymentVerified {
		t := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
		verifiedAt = &t
	}
	return domain.Payment{
		PaymentID:     uuid.NewString(),
		TenantID:      suite.tx.TenantID,
		TransactionID: suite.tx.TransactionID,
		Amount:        domain.NewMoney(amount, currency),
		Status:        status,
		VerifiedAt:    verifiedAt,
	}
}

// --- Test Cases ---

func (suite *PaymentAggregatorTestSuite) TestAggregate_SumsOnlyVerified() {
	ctx := context.Background()
	payments := []domain.Payment{
		suite.payment(60000, "USD", domain.PaymentVerified),
		suite.payment(40000, "USD", domain.PaymentVerified),
		suite.payment(25000, "USD", domain.PaymentUploaded),
		suite.payment(10000, "USD", domain.PaymentRejected),
	}

	suite.mockPayments.On("ListPaymentsByTransaction", ctx, suite.tx.TenantID, suite.tx.TransactionID).
		Return(payments, nil).Once()

	summary, err := suite.service.Aggregate(ctx, suite.tx)

	suite.Require().NoError(err)
	suite.Equal(int64(100000), summary.VerifiedTotal.MinorUnits)
	suite.Equal("USD", summary.VerifiedTotal.Currency)
	suite.Len(summary.Items, 4)
	suite.False(summary.HasCurrencyMismatch)
	suite.mockPayments.AssertExpectations(suite.T())
}

func (suite *PaymentAggregatorTestSuite) TestAggregate_NoPayments() {
	ctx := context.Background()

	suite.mockPayments.On("ListPaymentsByTransaction", ctx, suite.tx.TenantID, suite.tx.TransactionID).
		Return([]domain.Payment{}, nil).Once()

	summary, err := suite.service.Aggregate(ctx, suite.tx)

	suite.Require().NoError(err)
	suite.True(summary.VerifiedTotal.IsZero())
	suite.Equal("USD", summary.VerifiedTotal.Currency)
	suite.Empty(summary.Items)
}

func (suite *PaymentAggregatorTestSuite) TestAggregate_CurrencyMismatchFlaggedAndExcluded() {
	ctx := context.Background()
	mismatched := suite.payment(50000, "EUR", domain.PaymentVerified)
	payments := []domain.Payment{
		suite.payment(100000, "USD", domain.PaymentVerified),
		mismatched,
	}

	suite.mockPayments.On("ListPaymentsByTransaction", ctx, suite.tx.TenantID, suite.tx.TransactionID).
		Return(payments, nil).Once()

	summary, err := suite.service.Aggregate(ctx, suite.tx)

	suite.Require().NoError(err)
	// The EUR payment never converts into the USD total.
	suite.Equal(int64(100000), summary.VerifiedTotal.MinorUnits)
	suite.True(summary.HasCurrencyMismatch)
	suite.Require().Len(summary.Items, 2)
	suite.False(summary.Items[0].CurrencyMismatch)
	suite.True(summary.Items[1].CurrencyMismatch)
	suite.Equal(mismatched.PaymentID, summary.Items[1].PaymentID)
}

func (suite *PaymentAggregatorTestSuite) TestAggregate_UnverifiedMismatchNotFlagged() {
	ctx := context.Background()
	payments := []domain.Payment{
		suite.payment(50000, "EUR", domain.PaymentUploaded),
	}

	suite.mockPayments.On("ListPaymentsByTransaction", ctx, suite.tx.TenantID, suite.tx.TransactionID).
		Return(payments, nil).Once()

	summary, err := suite.service.Aggregate(ctx, suite.tx)

	suite.Require().NoError(err)
	suite.False(summary.HasCurrencyMismatch)
	suite.False(summary.Items[0].CurrencyMismatch)
}

func (suite *PaymentAggregatorTestSuite) TestAggregate_RepoError() {
	ctx := context.Background()

	suite.mockPayments.On("ListPaymentsByTransaction", ctx, suite.tx.TenantID, suite.tx.TransactionID).
		Return(nil, assert.AnError).Once()

	summary, err := suite.service.Aggregate(ctx, suite.tx)

	suite.Require().Error(err)
	suite.Nil(summary)
	suite.ErrorIs(err, assert.AnError)
}

func TestPaymentAggregatorTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentAggregatorTestSuite))
}
