package backend

import (
	"context"
	"net/http"

	"github.com/medisure/portal/internal/domain"
)

// AuthPayload is what /auth/login and /auth/register return.
type AuthPayload struct {
	Token    string           `json:"token"`
	UserID   int64            `json:"userId"`
	Email    string           `json:"email"`
	FullName string           `json:"fullName"`
	Role     domain.RoleTag   `json:"role"`
	Message  string           `json:"message,omitempty"`
	User     *domain.Identity `json:"user,omitempty"`
}

// Identity returns the profile carried by the payload, preferring a nested user object.
func (p AuthPayload) Identity() domain.Identity {
	if p.User != nil {
		return *p.User
	}
	return domain.Identity{
		ID:       p.UserID,
		FullName: p.FullName,
		Email:    p.Email,
		Role:     p.Role,
	}
}

// Credentials is the login body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterInput is the self-registration body.
type RegisterInput struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Phone       string `json:"phone,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	Address     string `json:"address,omitempty"`
}

// AuthAPI covers /auth.
type AuthAPI struct{ c *Client }

// Login exchanges credentials for a token. A 401 here means bad credentials and does not sign
// anybody out.
func (a AuthAPI) Login(ctx context.Context, creds Credentials) (AuthPayload, error) {
	var out AuthPayload
	err := a.c.doJSON(withoutLogoutOn401(ctx), http.MethodPost, "/auth/login", creds, &out)
	return out, err
}

// Register creates a policy holder account and returns a session-equivalent payload.
func (a AuthAPI) Register(ctx context.Context, in RegisterInput) (AuthPayload, error) {
	var out AuthPayload
	err := a.c.doJSON(withoutLogoutOn401(ctx), http.MethodPost, "/auth/register", in, &out)
	return out, err
}

// Me returns the profile of the bearer.
func (a AuthAPI) Me(ctx context.Context) (domain.Identity, error) {
	var out domain.Identity
	err := a.c.doJSON(ctx, http.MethodGet, "/auth/me", nil, &out)
	return out, err
}
