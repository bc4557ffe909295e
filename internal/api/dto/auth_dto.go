package dto

import (
	"time"

	"github.com/medisure/portal/internal/domain"
)

// LoginRequest payload for login. Accepts JSON or form posts.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// RegisterRequest payload for self-registration.
type RegisterRequest struct {
	FullName    string `json:"fullName" form:"fullName"`
	Email       string `json:"email" form:"email"`
	Password    string `json:"password" form:"password"`
	Phone       string `json:"phone" form:"phone"`
	DateOfBirth string `json:"dateOfBirth" form:"dateOfBirth"`
	Address     string `json:"address" form:"address"`
}

// SessionResponse describes the signed-in caller.
type SessionResponse struct {
	User      domain.Identity    `json:"user"`
	Dashboard domain.ViewID      `json:"dashboard"`
	Menu      []domain.MenuEntry `json:"menu"`
	ExpiresAt *time.Time         `json:"expiresAt,omitempty"`
}

// NewSessionResponse builds the response for sess.
func NewSessionResponse(sess domain.Session, dashboard domain.ViewID, menu []domain.MenuEntry) SessionResponse {
	resp := SessionResponse{User: sess.User, Dashboard: dashboard, Menu: menu}
	if !sess.ExpiresAt.IsZero() {
		exp := sess.ExpiresAt
		resp.ExpiresAt = &exp
	}
	return resp
}

// FormField describes one input of a public form.
type FormField struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

// FormDescriptor is served for the public login and registration pages.
type FormDescriptor struct {
	View   string      `json:"view"`
	Action string      `json:"action"`
	Fields []FormField `json:"fields"`
}

// LoginForm describes the login page.
func LoginForm() FormDescriptor {
	return FormDescriptor{
		View:   "LOGIN",
		Action: "/login",
		Fields: []FormField{
			{Name: "email", Label: "Email", Type: "email", Required: true},
			{Name: "password", Label: "Password", Type: "password", Required: true},
		},
	}
}

// RegisterForm describes the registration page.
func RegisterForm() FormDescriptor {
	return FormDescriptor{
		View:   "REGISTER",
		Action: "/register",
		Fields: []FormField{
			{Name: "fullName", Label: "Full Name", Type: "text", Required: true},
			{Name: "email", Label: "Email", Type: "email", Required: true},
			{Name: "password", Label: "Password", Type: "password", Required: true},
			{Name: "phone", Label: "Phone", Type: "tel"},
			{Name: "dateOfBirth", Label: "Date of Birth", Type: "date"},
			{Name: "address", Label: "Address", Type: "text"},
		},
	}
}
