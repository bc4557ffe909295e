package domain

// Identity is the user profile snapshot the backend returns at authentication time.
// It is never mutated locally; a refresh replaces it.
type Identity struct {
	ID          int64   `json:"id"`
	FullName    string  `json:"fullName"`
	Email       string  `json:"email"`
	Role        RoleTag `json:"role"`
	Phone       string  `json:"phone,omitempty"`
	DateOfBirth string  `json:"dateOfBirth,omitempty"`
	Address     string  `json:"address,omitempty"`
}

// Complete reports whether the identity carries the fields authorization depends on.
func (i Identity) Complete() bool {
	return i.ID != 0 && i.Email != "" && i.Role != ""
}
