package mapping

import (
	"github.com/sarrafx/recon_backend/internal/core/domain"
	"github.com/sarrafx/recon_backend/internal/models"
)

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:   m.AccountID,
		TenantID:    m.TenantID,
		Name:        m.Name,
		AccountType: domain.AccountType(m.AccountType),
		Currency:    m.CurrencyCode,
		IsActive:    m.IsActive,
	}
}
