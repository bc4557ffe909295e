package access

import (
	"strings"

	"github.com/medisure/portal/internal/domain"
)

// Navigable paths of the portal.
const (
	PathRoot     = "/"
	PathLogin    = "/login"
	PathRegister = "/register"

	PathDashboard         = "/dashboard"
	PathUsers             = "/users"
	PathAnalytics         = "/analytics"
	PathReports           = "/reports"
	PathCustomers         = "/customers"
	PathSales             = "/sales"
	PathTickets           = "/tickets"
	PathPolicies          = "/policies"
	PathBrowsePolicies    = "/policies/browse"
	PathClaims            = "/claims"
	PathSubmitClaim       = "/claims/submit"
	PathMyClaims          = "/claims/my"
	PathReviewedClaims    = "/claims/reviewed"
	PathPolicyHolders     = "/policy-holders"
	PathMyPolicy          = "/my-policy"
	PathFinancePending    = "/finance/pending"
	PathFinanceRecords    = "/finance/records"
	PathDoctors           = "/doctors"
	PathRegisterDoctor    = "/doctors/register"
	PathAppointmentsToday = "/appointments/today"
	PathAppointmentsAll   = "/appointments/all"
	PathBookAppointment   = "/appointments/book"
	PathMyAppointments    = "/appointments/my"
)

// RouteDescriptor declares a guarded route. A nil AllowedRoles admits any authenticated caller.
type RouteDescriptor struct {
	Path         string
	AllowedRoles domain.RoleSet
	View         domain.ViewID
}

// AnyAuthenticated reports whether the route carries no role constraint.
func (r RouteDescriptor) AnyAuthenticated() bool {
	return r.AllowedRoles == nil
}

func only(roles ...domain.RoleTag) domain.RoleSet {
	return domain.NewRoleSet(roles...)
}

var routeTable = []RouteDescriptor{
	{Path: PathDashboard, View: domain.ViewResolvedDashboard},
	{Path: PathUsers, AllowedRoles: only(domain.RoleAdmin), View: domain.ViewAdminDashboard},
	{Path: PathAnalytics, AllowedRoles: only(domain.RoleAdmin, domain.RoleOperationManager), View: domain.ViewOperationManagerDashboard},
	{Path: PathReports, AllowedRoles: only(domain.RoleAdmin, domain.RoleOperationManager), View: domain.ViewOperationManagerDashboard},
	{Path: PathCustomers, AllowedRoles: only(domain.RoleAdmin, domain.RoleSalesOfficer), View: domain.ViewSalesOfficerDashboard},
	{Path: PathSales, AllowedRoles: only(domain.RoleAdmin, domain.RoleSalesOfficer), View: domain.ViewSalesOfficerDashboard},
	{Path: PathTickets, AllowedRoles: only(domain.RoleAdmin, domain.RoleCustomerSupportOfficer), View: domain.ViewCustomerSupportDashboard},
	{Path: PathPolicies, View: domain.ViewPolicyManagerDashboard},
	{Path: PathBrowsePolicies, View: domain.ViewBrowsePolicies},
	{Path: PathClaims, AllowedRoles: only(domain.RoleAdmin, domain.RoleClaimsManager), View: domain.ViewClaimsManagerDashboard},
	{Path: PathSubmitClaim, AllowedRoles: only(domain.RolePolicyHolder), View: domain.ViewSubmitClaim},
	{Path: PathMyClaims, AllowedRoles: only(domain.RolePolicyHolder), View: domain.ViewMyClaims},
	{Path: PathReviewedClaims, AllowedRoles: only(domain.RoleAdmin, domain.RoleClaimsManager), View: domain.ViewClaimsManagerDashboard},
	{Path: PathPolicyHolders, AllowedRoles: only(domain.RoleAdmin, domain.RolePolicyManager), View: domain.ViewPolicyManagerDashboard},
	{Path: PathMyPolicy, AllowedRoles: only(domain.RolePolicyHolder), View: domain.ViewPolicyHolderDashboard},
	{Path: PathFinancePending, AllowedRoles: only(domain.RoleAdmin, domain.RoleFinanceManager), View: domain.ViewFinanceManagerDashboard},
	{Path: PathFinanceRecords, AllowedRoles: only(domain.RoleAdmin, domain.RoleFinanceManager), View: domain.ViewFinanceManagerDashboard},
	{Path: PathDoctors, AllowedRoles: only(domain.RoleAdmin, domain.RoleMedicalCoordinator), View: domain.ViewMedicalCoordinatorDashboard},
	{Path: PathRegisterDoctor, AllowedRoles: only(domain.RoleAdmin, domain.RoleMedicalCoordinator), View: domain.ViewMedicalCoordinatorDashboard},
	{Path: PathAppointmentsToday, AllowedRoles: only(domain.RoleAdmin, domain.RoleDoctor), View: domain.ViewDoctorDashboard},
	{Path: PathAppointmentsAll, AllowedRoles: only(domain.RoleAdmin, domain.RoleDoctor), View: domain.ViewDoctorDashboard},
	{Path: PathBookAppointment, AllowedRoles: only(domain.RolePolicyHolder), View: domain.ViewBookAppointment},
	{Path: PathMyAppointments, AllowedRoles: only(domain.RolePolicyHolder), View: domain.ViewMyAppointments},
}

var routeIndex = func() map[string]int {
	idx := make(map[string]int, len(routeTable))
	for i, r := range routeTable {
		idx[r.Path] = i
	}
	return idx
}()

// Routes returns the guarded route table in declaration order.
func Routes() []RouteDescriptor {
	out := make([]RouteDescriptor, len(routeTable))
	copy(out, routeTable)
	return out
}

// Lookup finds the descriptor for path. A trailing slash is ignored.
func Lookup(path string) (RouteDescriptor, bool) {
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	i, ok := routeIndex[path]
	if !ok {
		return RouteDescriptor{}, false
	}
	return routeTable[i], true
}

// IsPublic reports whether path is reachable without a session.
func IsPublic(path string) bool {
	return path == PathLogin || path == PathRegister
}
