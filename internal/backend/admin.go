package backend

import (
	"context"
	"net/http"

	"github.com/medisure/portal/internal/domain"
)

// AdminAPI covers /admin.
type AdminAPI struct{ c *Client }

func (a AdminAPI) Users(ctx context.Context) ([]domain.Identity, error) {
	var out []domain.Identity
	err := a.c.doJSON(ctx, http.MethodGet, "/admin/users", nil, &out)
	return out, err
}

func (a AdminAPI) CreateEmployee(ctx context.Context, in domain.EmployeeCreateRequest) (domain.Identity, error) {
	var out domain.Identity
	err := a.c.doJSON(ctx, http.MethodPost, "/admin/create-employee", in, &out)
	return out, err
}

func (a AdminAPI) UpdateUser(ctx context.Context, id int64, in domain.UserUpdate) (domain.Identity, error) {
	var out domain.Identity
	err := a.c.doJSON(ctx, http.MethodPut, idPath("/admin/users/%d", id), in, &out)
	return out, err
}

func (a AdminAPI) ChangeRole(ctx context.Context, id int64, role domain.RoleTag) (domain.Identity, error) {
	var out domain.Identity
	body := map[string]domain.RoleTag{"role": role}
	err := a.c.doJSON(ctx, http.MethodPut, idPath("/admin/users/%d/role", id), body, &out)
	return out, err
}

func (a AdminAPI) DeleteUser(ctx context.Context, id int64) error {
	return a.c.doJSON(ctx, http.MethodDelete, idPath("/admin/users/%d", id), nil, nil)
}
