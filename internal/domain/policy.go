package domain

import "github.com/shopspring/decimal"

// PolicyType enumerates insurance plan families.
type PolicyType string

const (
	PolicyTypeBasic   PolicyType = "BASIC"
	PolicyTypePremium PolicyType = "PREMIUM"
	PolicyTypeFamily  PolicyType = "FAMILY"
	PolicyTypeSenior  PolicyType = "SENIOR"
)

// Policy is an insurance product offered by the backend.
type Policy struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Type           PolicyType      `json:"type"`
	CoverageAmount decimal.Decimal `json:"coverageAmount"`
	PremiumAmount  decimal.Decimal `json:"premiumAmount"`
	DurationMonths int             `json:"durationMonths"`
	Description    string          `json:"description,omitempty"`
	IsActive       bool            `json:"isActive"`
}

// PolicyInput is the create/update payload for a policy.
type PolicyInput struct {
	Name           string          `json:"name"`
	Type           PolicyType      `json:"type"`
	CoverageAmount decimal.Decimal `json:"coverageAmount"`
	PremiumAmount  decimal.Decimal `json:"premiumAmount"`
	DurationMonths int             `json:"durationMonths"`
	Description    string          `json:"description,omitempty"`
}

// PolicyStatus tracks a purchased policy.
type PolicyStatus string

const (
	PolicyStatusPendingApproval PolicyStatus = "PENDING_APPROVAL"
	PolicyStatusActive          PolicyStatus = "ACTIVE"
	PolicyStatusExpired         PolicyStatus = "EXPIRED"
	PolicyStatusCancelled       PolicyStatus = "CANCELLED"
	PolicyStatusSuspended       PolicyStatus = "SUSPENDED"
)

// PolicyHolder links a user to the policy they purchased.
type PolicyHolder struct {
	ID                int64        `json:"id"`
	User              *Identity    `json:"user,omitempty"`
	Policy            *Policy      `json:"policy,omitempty"`
	StartDate         string       `json:"startDate,omitempty"`
	EndDate           string       `json:"endDate,omitempty"`
	Status            PolicyStatus `json:"status"`
	PolicyDocumentURL string       `json:"policyDocumentUrl,omitempty"`
}
