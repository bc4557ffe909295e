// Package access holds the portal's authorization contract: which navigation entries a role
// sees, which roles may open a route, and which dashboard a role lands on. Everything here is
// pure and safe for concurrent use.
package access

import "github.com/medisure/portal/internal/domain"

const (
	iconDashboard   = "📊"
	iconUsers       = "👥"
	iconPolicies    = "📋"
	iconClaims      = "📝"
	iconTickets     = "🎫"
	iconAnalytics   = "📈"
	iconReport      = "📄"
	iconHandshake   = "🤝"
	iconMoney       = "💰"
	iconHeadset     = "🎧"
	iconChecked     = "✅"
	iconHourglass   = "⏳"
	iconDoctor      = "👨‍⚕️"
	iconAdd         = "➕"
	iconCalendar    = "📅"
	iconCalendarAll = "📆"
	iconSearch      = "🔍"
)

var dashboardEntry = domain.MenuEntry{Path: PathDashboard, Label: "Dashboard", Icon: iconDashboard}

var menus = map[domain.RoleTag][]domain.MenuEntry{
	domain.RoleAdmin: {
		dashboardEntry,
		{Path: PathUsers, Label: "User Management", Icon: iconUsers},
		{Path: PathPolicies, Label: "Policies", Icon: iconPolicies},
		{Path: PathClaims, Label: "Claims", Icon: iconClaims},
		{Path: PathTickets, Label: "Support Tickets", Icon: iconTickets},
	},
	domain.RoleOperationManager: {
		{Path: PathDashboard, Label: "Analytics Dashboard", Icon: iconDashboard},
		{Path: PathPolicies, Label: "Policy Management", Icon: iconPolicies},
		{Path: PathAnalytics, Label: "System Analytics", Icon: iconAnalytics},
		{Path: PathReports, Label: "Reports", Icon: iconReport},
	},
	domain.RoleSalesOfficer: {
		dashboardEntry,
		{Path: PathCustomers, Label: "Customer Engagement", Icon: iconHandshake},
		{Path: PathBrowsePolicies, Label: "Available Policies", Icon: iconPolicies},
		{Path: PathSales, Label: "Sales Reports", Icon: iconMoney},
	},
	domain.RoleCustomerSupportOfficer: {
		dashboardEntry,
		{Path: PathTickets, Label: "Support Tickets", Icon: iconTickets},
		{Path: PathCustomers, Label: "Customer Support", Icon: iconHeadset},
	},
	domain.RolePolicyManager: {
		dashboardEntry,
		{Path: PathPolicies, Label: "Manage Policies", Icon: iconPolicies},
		{Path: PathPolicyHolders, Label: "Policy Holders", Icon: iconUsers},
	},
	domain.RoleClaimsManager: {
		dashboardEntry,
		{Path: PathClaims, Label: "Claims Queue", Icon: iconClaims},
		{Path: PathReviewedClaims, Label: "Reviewed Claims", Icon: iconChecked},
	},
	domain.RoleFinanceManager: {
		dashboardEntry,
		{Path: PathFinancePending, Label: "Pending Claims", Icon: iconHourglass},
		{Path: PathFinanceRecords, Label: "Finance Records", Icon: iconMoney},
	},
	domain.RoleMedicalCoordinator: {
		dashboardEntry,
		{Path: PathDoctors, Label: "Manage Doctors", Icon: iconDoctor},
		{Path: PathRegisterDoctor, Label: "Register Doctor", Icon: iconAdd},
	},
	domain.RoleDoctor: {
		dashboardEntry,
		{Path: PathAppointmentsToday, Label: "Today's Appointments", Icon: iconCalendar},
		{Path: PathAppointmentsAll, Label: "All Appointments", Icon: iconCalendarAll},
	},
	domain.RolePolicyHolder: {
		dashboardEntry,
		{Path: PathMyPolicy, Label: "My Policy", Icon: iconPolicies},
		{Path: PathSubmitClaim, Label: "Submit Claim", Icon: iconClaims},
		{Path: PathMyClaims, Label: "My Claims", Icon: iconReport},
		{Path: PathBookAppointment, Label: "Book Appointment", Icon: iconCalendar},
		{Path: PathMyAppointments, Label: "My Appointments", Icon: iconCalendarAll},
	},
	domain.RoleUser: {
		dashboardEntry,
		{Path: PathBrowsePolicies, Label: "Browse Policies", Icon: iconSearch},
	},
}

// MenuFor returns the ordered navigation entries for role. Roles without a menu get an empty
// list. The returned slice is a copy and may be modified by the caller.
func MenuFor(role domain.RoleTag) []domain.MenuEntry {
	entries := menus[role]
	out := make([]domain.MenuEntry, len(entries))
	copy(out, entries)
	return out
}
