package domain

import "time"

// AuditFields holds standard audit information for domain entities.
// Actor IDs are always passed explicitly by callers; there is no ambient user.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID reference
}
