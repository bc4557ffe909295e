package access

import "github.com/medisure/portal/internal/domain"

// DashboardFor selects the view mounted at /dashboard. Roles outside the enumeration, and the
// legacy USER role, land on the policy holder dashboard.
func DashboardFor(role domain.RoleTag) domain.ViewID {
	switch role {
	case domain.RoleAdmin:
		return domain.ViewAdminDashboard
	case domain.RoleOperationManager:
		return domain.ViewOperationManagerDashboard
	case domain.RolePolicyManager:
		return domain.ViewPolicyManagerDashboard
	case domain.RoleClaimsManager:
		return domain.ViewClaimsManagerDashboard
	case domain.RoleFinanceManager:
		return domain.ViewFinanceManagerDashboard
	case domain.RoleSalesOfficer:
		return domain.ViewSalesOfficerDashboard
	case domain.RoleCustomerSupportOfficer:
		return domain.ViewCustomerSupportDashboard
	case domain.RoleMedicalCoordinator:
		return domain.ViewMedicalCoordinatorDashboard
	case domain.RoleDoctor:
		return domain.ViewDoctorDashboard
	case domain.RolePolicyHolder:
		return domain.ViewPolicyHolderDashboard
	default:
		return domain.ViewPolicyHolderDashboard
	}
}

// ViewFor resolves the view a route mounts for role.
func ViewFor(route RouteDescriptor, role domain.RoleTag) domain.ViewID {
	if route.View == domain.ViewResolvedDashboard {
		return DashboardFor(role)
	}
	return route.View
}
