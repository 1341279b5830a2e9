package domain

// MappingTransactionType enumerates the transaction kinds that resolve to a
// configured GL account. The mapping replaces the name-matching fallback the
// engine must never use: an unconfigured mapping is a setup error, reported
// at validation time, not papered over at posting time.
type MappingTransactionType string

const (
	MappingPDCControl    MappingTransactionType = "PDC_CONTROL"
	MappingBounceCharges MappingTransactionType = "BOUNCE_CHARGES"
	MappingBankCharges   MappingTransactionType = "BANK_CHARGES"
	MappingInterestIncome MappingTransactionType = "INTEREST_INCOME"
	MappingFXDifference  MappingTransactionType = "FX_DIFFERENCE"
)

// RequiredMappings are validated at system setup; each must resolve to an
// active leaf account.
var RequiredMappings = []MappingTransactionType{
	MappingPDCControl,
	MappingBounceCharges,
}

// AccountMapping binds one transaction type to the GL account it posts to.
type AccountMapping struct {
	MappingID       string                 `json:"mappingID"`
	TransactionType MappingTransactionType `json:"transactionType"` // Unique
	AccountID       string                 `json:"accountID"`
	Description     string                 `json:"description,omitempty"`
	AuditFields
}
