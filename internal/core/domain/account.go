package domain

// AccountType defines the fundamental accounting type of a ledger account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Account is one row of a tenant's chart of accounts. Account names are
// tenant-configurable; nothing in the core assumes fixed account names.
type Account struct {
	AccountID   string      `json:"accountID"`
	TenantID    string      `json:"tenantID"`
	Name        string      `json:"name"`
	AccountType AccountType `json:"accountType"`
	Currency    string      `json:"currency"`
	IsActive    bool        `json:"isActive"`
}
