package domain

// ViewID names a mountable view of the portal.
type ViewID string

const (
	ViewAdminDashboard              ViewID = "ADMIN_DASHBOARD"
	ViewOperationManagerDashboard   ViewID = "OPERATION_MANAGER_DASHBOARD"
	ViewPolicyManagerDashboard      ViewID = "POLICY_MANAGER_DASHBOARD"
	ViewClaimsManagerDashboard      ViewID = "CLAIMS_MANAGER_DASHBOARD"
	ViewFinanceManagerDashboard     ViewID = "FINANCE_MANAGER_DASHBOARD"
	ViewSalesOfficerDashboard       ViewID = "SALES_OFFICER_DASHBOARD"
	ViewCustomerSupportDashboard    ViewID = "CUSTOMER_SUPPORT_DASHBOARD"
	ViewMedicalCoordinatorDashboard ViewID = "MEDICAL_COORDINATOR_DASHBOARD"
	ViewDoctorDashboard             ViewID = "DOCTOR_DASHBOARD"
	ViewPolicyHolderDashboard       ViewID = "POLICY_HOLDER_DASHBOARD"

	ViewBrowsePolicies  ViewID = "BROWSE_POLICIES"
	ViewSubmitClaim     ViewID = "SUBMIT_CLAIM"
	ViewMyClaims        ViewID = "MY_CLAIMS"
	ViewBookAppointment ViewID = "BOOK_APPOINTMENT"
	ViewMyAppointments  ViewID = "MY_APPOINTMENTS"

	// ViewResolvedDashboard marks a route whose view depends on the caller's role.
	ViewResolvedDashboard ViewID = "DASHBOARD"
)

// MenuEntry is one navigation item shown beside guarded content.
type MenuEntry struct {
	Path  string `json:"path" yaml:"path"`
	Label string `json:"label" yaml:"label"`
	Icon  string `json:"icon" yaml:"icon"`
}
