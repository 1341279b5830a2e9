package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/crestlinehq/ledgerengine/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Code            string                 `json:"code" binding:"required"`
	Name            string                 `json:"name" binding:"required"`
	AccountType     domain.AccountType     `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
	AccountCategory domain.AccountCategory `json:"accountCategory"`
	ParentAccountID *string                `json:"parentAccountID"`
	IsContra        bool                   `json:"isContra"`
	IsCashAccount   bool                   `json:"isCashAccount"`
	OverdraftAllowed bool                  `json:"overdraftAllowed"`
	OpeningBalance  decimal.Decimal        `json:"openingBalance" binding:"dec_nonnegative"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Pointers distinguish zero-value updates from fields not provided.
type UpdateAccountRequest struct {
	Name             *string          `json:"name"`
	AccountCategory  *domain.AccountCategory `json:"accountCategory"`
	IsCashAccount    *bool            `json:"isCashAccount"`
	OverdraftAllowed *bool            `json:"overdraftAllowed"`
	OpeningBalance   *decimal.Decimal `json:"openingBalance"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID            string                 `json:"accountID"`
	Code                 string                 `json:"code"`
	Name                 string                 `json:"name"`
	AccountType          domain.AccountType     `json:"accountType"`
	AccountCategory      domain.AccountCategory `json:"accountCategory"`
	ParentAccountID      string                 `json:"parentAccountID"`
	IsContra             bool                   `json:"isContra"`
	IsCashAccount        bool                   `json:"isCashAccount"`
	IsSystem             bool                   `json:"isSystem"`
	OverdraftAllowed     bool                   `json:"overdraftAllowed"`
	OpeningBalance       decimal.Decimal        `json:"openingBalance"`
	OpeningBalanceLocked bool                   `json:"openingBalanceLocked"`
	Balance              decimal.Decimal        `json:"balance"`
	CurrentBalance       decimal.Decimal        `json:"currentBalance"`
	IsActive             bool                   `json:"isActive"`
	CreatedAt            time.Time              `json:"createdAt"`
	CreatedBy            string                 `json:"createdBy"`
	LastUpdatedAt        time.Time              `json:"lastUpdatedAt"`
	LastUpdatedBy        string                 `json:"lastUpdatedBy"`
}

// ListAccountsResponse wraps a page of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToAccountResponse converts a domain.Account to AccountResponse.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:            a.AccountID,
		Code:                 a.Code,
		Name:                 a.Name,
		AccountType:          a.AccountType,
		AccountCategory:      a.AccountCategory,
		ParentAccountID:      a.ParentAccountID,
		IsContra:             a.IsContra,
		IsCashAccount:        a.IsCashAccount,
		IsSystem:             a.IsSystem,
		OverdraftAllowed:     a.OverdraftAllowed,
		OpeningBalance:       a.OpeningBalance,
		OpeningBalanceLocked: a.OpeningBalanceLocked,
		Balance:              a.Balance,
		CurrentBalance:       a.CurrentBalance(),
		IsActive:             a.IsActive,
		CreatedAt:            a.CreatedAt,
		CreatedBy:            a.CreatedBy,
		LastUpdatedAt:        a.LastUpdatedAt,
		LastUpdatedBy:        a.LastUpdatedBy,
	}
}

// ToAccountResponses converts a slice of domain.Account.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
