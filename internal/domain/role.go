package domain

import "slices"

// RoleTag classifies an identity. Values arrive from the backend as strings; a value outside
// the known set is kept as-is so callers can fall back instead of failing.
type RoleTag string

const (
	RoleAdmin                  RoleTag = "ADMIN"
	RoleOperationManager       RoleTag = "OPERATION_MANAGER"
	RolePolicyManager          RoleTag = "POLICY_MANAGER"
	RoleClaimsManager          RoleTag = "CLAIMS_MANAGER"
	RoleFinanceManager         RoleTag = "FINANCE_MANAGER"
	RoleSalesOfficer           RoleTag = "SALES_OFFICER"
	RoleCustomerSupportOfficer RoleTag = "CUSTOMER_SUPPORT_OFFICER"
	RoleMedicalCoordinator     RoleTag = "MEDICAL_COORDINATOR"
	RoleDoctor                 RoleTag = "DOCTOR"
	RolePolicyHolder           RoleTag = "POLICY_HOLDER"
	// RoleUser is the legacy self-registered role still issued by older backend builds.
	RoleUser RoleTag = "USER"
)

var knownRoles = []RoleTag{
	RoleAdmin,
	RoleOperationManager,
	RolePolicyManager,
	RoleClaimsManager,
	RoleFinanceManager,
	RoleSalesOfficer,
	RoleCustomerSupportOfficer,
	RoleMedicalCoordinator,
	RoleDoctor,
	RolePolicyHolder,
	RoleUser,
}

// Roles returns every known role in declaration order.
func Roles() []RoleTag {
	out := make([]RoleTag, len(knownRoles))
	copy(out, knownRoles)
	return out
}

// Known reports whether r is part of the enumeration.
func (r RoleTag) Known() bool {
	for _, k := range knownRoles {
		if k == r {
			return true
		}
	}
	return false
}

func (r RoleTag) String() string {
	return string(r)
}

// RoleSet is an allowed-roles constraint.
type RoleSet map[RoleTag]struct{}

// NewRoleSet builds a set from the given roles.
func NewRoleSet(roles ...RoleTag) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

// Has reports membership.
func (s RoleSet) Has(r RoleTag) bool {
	_, ok := s[r]
	return ok
}

// Slice returns the members in enumeration order, unknown members last in lexical order.
func (s RoleSet) Slice() []RoleTag {
	out := make([]RoleTag, 0, len(s))
	for _, r := range knownRoles {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	var extra []RoleTag
	for r := range s {
		if !r.Known() {
			extra = append(extra, r)
		}
	}
	slices.Sort(extra)
	return append(out, extra...)
}
