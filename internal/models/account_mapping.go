package models

// AccountMapping is the database row binding a transaction type to a GL
// account. transaction_type is unique.
type AccountMapping struct {
	MappingID       string `db:"mapping_id"`
	TransactionType string `db:"transaction_type"`
	AccountID       string `db:"account_id"`
	Description     string `db:"description"`
	AuditFields
}
