package domain

// EmployeeCreateRequest is the admin payload for onboarding staff.
type EmployeeCreateRequest struct {
	FullName   string  `json:"fullName"`
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	Phone      string  `json:"phone,omitempty"`
	EmployeeID string  `json:"employeeId,omitempty"`
	Department string  `json:"department,omitempty"`
	HireDate   string  `json:"hireDate,omitempty"`
	Role       RoleTag `json:"role"`
}

// UserUpdate holds the admin-editable profile fields.
type UserUpdate struct {
	FullName string `json:"fullName,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}
