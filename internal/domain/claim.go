package domain

import "github.com/shopspring/decimal"

// ClaimStatus is the lifecycle of a claim through review and finance.
type ClaimStatus string

const (
	ClaimStatusSubmitted               ClaimStatus = "SUBMITTED"
	ClaimStatusPending                 ClaimStatus = "PENDING"
	ClaimStatusUnderReview             ClaimStatus = "UNDER_REVIEW"
	ClaimStatusApprovedByClaimsManager ClaimStatus = "APPROVED_BY_CLAIMS_MANAGER"
	ClaimStatusForwardedToFinance      ClaimStatus = "FORWARDED_TO_FINANCE"
	ClaimStatusApprovedByFinance       ClaimStatus = "APPROVED_BY_FINANCE"
	ClaimStatusRejected                ClaimStatus = "REJECTED"
	ClaimStatusRequiresCorrection      ClaimStatus = "REQUIRES_CORRECTION"
)

// Claim is a reimbursement request filed by a policy holder.
type Claim struct {
	ID               int64           `json:"id"`
	PolicyHolder     *PolicyHolder   `json:"policyHolder,omitempty"`
	Policy           *Policy         `json:"policy,omitempty"`
	ClaimDate        string          `json:"claimDate,omitempty"`
	AmountClaimed    decimal.Decimal `json:"amountClaimed"`
	Description      string          `json:"description,omitempty"`
	Status           ClaimStatus     `json:"status"`
	Remarks          string          `json:"remarks,omitempty"`
	MedicalDiagnosis string          `json:"medicalDiagnosis,omitempty"`
	HospitalName     string          `json:"hospitalName,omitempty"`
	TreatmentDate    string          `json:"treatmentDate,omitempty"`
}

// ClaimSubmission carries the multipart claim form.
type ClaimSubmission struct {
	Description   string
	AmountClaimed decimal.Decimal
	ClaimDate     string
	HospitalName  string
	DoctorName    string
	TreatmentType string
	Documents     []Upload
}

// Upload is a file attached to a multipart request.
type Upload struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ClaimReview is the decision a claims manager records.
type ClaimReview struct {
	Status  ClaimStatus `json:"status"`
	Remarks string      `json:"remarks,omitempty"`
}

// FinanceStatus is the outcome of finance processing.
type FinanceStatus string

const (
	FinanceStatusApproved      FinanceStatus = "APPROVED"
	FinanceStatusRejected      FinanceStatus = "REJECTED"
	FinanceStatusPendingReview FinanceStatus = "PENDING_REVIEW"
)

// FinanceDecision is the payload for processing an approved claim.
type FinanceDecision struct {
	Status         FinanceStatus    `json:"status"`
	Remarks        string           `json:"remarks,omitempty"`
	ApprovedAmount *decimal.Decimal `json:"approvedAmount,omitempty"`
}

// FinanceRecord is the ledger entry finance keeps per processed claim.
type FinanceRecord struct {
	ID             int64            `json:"id"`
	Claim          *Claim           `json:"claim,omitempty"`
	Status         FinanceStatus    `json:"status"`
	Remarks        string           `json:"remarks,omitempty"`
	ApprovedAmount *decimal.Decimal `json:"approvedAmount,omitempty"`
	ProcessedAt    string           `json:"processedAt,omitempty"`
}
