package dto

import (
	"time"

	"github.com/crestlinehq/ledgerengine/internal/core/domain"
)

// UpsertMappingRequest binds a transaction type to a GL account.
type UpsertMappingRequest struct {
	TransactionType domain.MappingTransactionType `json:"transactionType" binding:"required"`
	AccountID       string                        `json:"accountID" binding:"required"`
	Description     string                        `json:"description"`
}

// MappingResponse defines the data returned for an account mapping.
type MappingResponse struct {
	MappingID       string                        `json:"mappingID"`
	TransactionType domain.MappingTransactionType `json:"transactionType"`
	AccountID       string                        `json:"accountID"`
	Description     string                        `json:"description,omitempty"`
	CreatedAt       time.Time                     `json:"createdAt"`
	LastUpdatedAt   time.Time                     `json:"lastUpdatedAt"`
}

// MappingValidationResult reports which required mappings are missing or
// point at unusable accounts.
type MappingValidationResult struct {
	Valid    bool     `json:"valid"`
	Problems []string `json:"problems,omitempty"`
}

// ToMappingResponse converts a domain.AccountMapping.
func ToMappingResponse(m *domain.AccountMapping) MappingResponse {
	return MappingResponse{
		MappingID:       m.MappingID,
		TransactionType: m.TransactionType,
		AccountID:       m.AccountID,
		Description:     m.Description,
		CreatedAt:       m.CreatedAt,
		LastUpdatedAt:   m.LastUpdatedAt,
	}
}

// ToMappingResponses converts a slice of domain.AccountMapping.
func ToMappingResponses(mappings []domain.AccountMapping) []MappingResponse {
	responses := make([]MappingResponse, len(mappings))
	for i := range mappings {
		responses[i] = ToMappingResponse(&mappings[i])
	}
	return responses
}
