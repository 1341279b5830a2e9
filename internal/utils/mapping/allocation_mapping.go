package mapping

import (
	"github.com/crestlinehq/ledgerengine/internal/core/domain"
	"github.com/crestlinehq/ledgerengine/internal/models"
)

// ToModelAllocation converts a domain PDCAllocation header to its model form.
func ToModelAllocation(d domain.PDCAllocation) models.PDCAllocation {
	return models.PDCAllocation{
		AllocationID:     d.AllocationID,
		AllocationNumber: d.AllocationNumber,
		StatementLineID:  d.StatementLineID,
		AllocationDate:   d.AllocationDate,
		TotalAmount:      d.TotalAmount,
		Status:           string(d.Status),
		Reason:           d.Reason,
		ConfirmedAt:      d.ConfirmedAt,
		ConfirmedBy:      d.ConfirmedBy,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAllocation converts a model PDCAllocation header to its domain form.
func ToDomainAllocation(m models.PDCAllocation) domain.PDCAllocation {
	return domain.PDCAllocation{
		AllocationID:     m.AllocationID,
		AllocationNumber: m.AllocationNumber,
		StatementLineID:  m.StatementLineID,
		AllocationDate:   m.AllocationDate,
		TotalAmount:      m.TotalAmount,
		Status:           domain.AllocationStatus(m.Status),
		Reason:           m.Reason,
		ConfirmedAt:      m.ConfirmedAt,
		ConfirmedBy:      m.ConfirmedBy,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelAllocationLine converts a domain PDCAllocationLine to its model form.
func ToModelAllocationLine(d domain.PDCAllocationLine) models.PDCAllocationLine {
	return models.PDCAllocationLine{
		AllocationLineID: d.AllocationLineID,
		AllocationID:     d.AllocationID,
		PDCID:            d.PDCID,
		Amount:           d.Amount,
		Notes:            d.Notes,
	}
}

// ToDomainAllocationLine converts a model PDCAllocationLine to its domain form.
func ToDomainAllocationLine(m models.PDCAllocationLine) domain.PDCAllocationLine {
	return domain.PDCAllocationLine{
		AllocationLineID: m.AllocationLineID,
		AllocationID:     m.AllocationID,
		PDCID:            m.PDCID,
		Amount:           m.Amount,
		Notes:            m.Notes,
	}
}

// ToModelAmbiguousLog converts a domain AmbiguousMatchLog to its model form.
func ToModelAmbiguousLog(d domain.AmbiguousMatchLog) models.AmbiguousMatchLog {
	return models.AmbiguousMatchLog{
		LogID:           d.LogID,
		StatementLineID: d.StatementLineID,
		DetectedAt:      d.DetectedAt,
		CandidatePDCIDs: d.CandidatePDCIDs,
		Amount:          d.MatchCriteria.Amount,
		Date:            d.MatchCriteria.Date,
		ToleranceDays:   d.MatchCriteria.ToleranceDays,
		Reference:       d.MatchCriteria.Reference,
		Resolution:      string(d.Resolution),
		ResolvedAt:      d.ResolvedAt,
		ResolvedBy:      d.ResolvedBy,
		AllocationID:    strPtrOrNil(d.AllocationID),
		Notes:           d.Notes,
	}
}

// ToDomainAmbiguousLog converts a model AmbiguousMatchLog to its domain form.
func ToDomainAmbiguousLog(m models.AmbiguousMatchLog) domain.AmbiguousMatchLog {
	return domain.AmbiguousMatchLog{
		LogID:           m.LogID,
		StatementLineID: m.StatementLineID,
		DetectedAt:      m.DetectedAt,
		CandidatePDCIDs: m.CandidatePDCIDs,
		MatchCriteria: domain.MatchCriteria{
			Amount:        m.Amount,
			Date:          m.Date,
			ToleranceDays: m.ToleranceDays,
			Reference:     m.Reference,
		},
		Resolution:   domain.MatchResolution(m.Resolution),
		ResolvedAt:   m.ResolvedAt,
		ResolvedBy:   m.ResolvedBy,
		AllocationID: strOrEmpty(m.AllocationID),
		Notes:        m.Notes,
	}
}
