package dto

import (
	"github.com/shopspring/decimal"

	"github.com/medisure/portal/internal/domain"
)

// ClaimReviewRequest records a claims manager decision.
type ClaimReviewRequest struct {
	Status  domain.ClaimStatus `json:"status"`
	Remarks string             `json:"remarks"`
}

// ForwardRequest forwards an approved claim to finance.
type ForwardRequest struct {
	Remarks string `json:"remarks"`
}

// FinanceDecisionRequest processes an approved claim.
type FinanceDecisionRequest struct {
	Status         domain.FinanceStatus `json:"status"`
	Remarks        string               `json:"remarks"`
	ApprovedAmount *decimal.Decimal     `json:"approvedAmount,omitempty"`
}

// AppointmentStatusRequest moves an appointment along.
type AppointmentStatusRequest struct {
	Status domain.AppointmentStatus `json:"status"`
}

// RoleChangeRequest assigns a new role to a user.
type RoleChangeRequest struct {
	Role domain.RoleTag `json:"role"`
}

// ClaimForm is the non-file part of a multipart claim submission.
type ClaimForm struct {
	Description   string `form:"description"`
	AmountClaimed string `form:"amountClaimed"`
	ClaimDate     string `form:"claimDate"`
	HospitalName  string `form:"hospitalName"`
	DoctorName    string `form:"doctorName"`
	TreatmentType string `form:"treatmentType"`
}

// AuditQuery filters GET /audit.
type AuditQuery struct {
	Action      string `query:"action"`
	PerformedBy string `query:"performedBy"`
	Limit       int    `query:"limit"`
	Offset      int    `query:"offset"`
}

// Filter converts the query into a repository filter.
func (q AuditQuery) Filter() domain.AuditFilter {
	return domain.AuditFilter{
		Action:      q.Action,
		PerformedBy: q.PerformedBy,
		Limit:       q.Limit,
		Offset:      q.Offset,
	}
}
