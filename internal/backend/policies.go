package backend

import (
	"context"
	"net/http"

	"github.com/medisure/portal/internal/domain"
)

// PoliciesAPI covers /policies.
type PoliciesAPI struct{ c *Client }

// ListAll returns every policy, including inactive ones.
func (p PoliciesAPI) ListAll(ctx context.Context) ([]domain.Policy, error) {
	var out []domain.Policy
	err := p.c.doJSON(ctx, http.MethodGet, "/policies/all", nil, &out)
	return out, err
}

// List returns the policies currently offered.
func (p PoliciesAPI) List(ctx context.Context) ([]domain.Policy, error) {
	var out []domain.Policy
	err := p.c.doJSON(ctx, http.MethodGet, "/policies", nil, &out)
	return out, err
}

func (p PoliciesAPI) Get(ctx context.Context, id int64) (domain.Policy, error) {
	var out domain.Policy
	err := p.c.doJSON(ctx, http.MethodGet, idPath("/policies/%d", id), nil, &out)
	return out, err
}

func (p PoliciesAPI) Create(ctx context.Context, in domain.PolicyInput) (domain.Policy, error) {
	var out domain.Policy
	err := p.c.doJSON(ctx, http.MethodPost, "/policies", in, &out)
	return out, err
}

func (p PoliciesAPI) Update(ctx context.Context, id int64, in domain.PolicyInput) (domain.Policy, error) {
	var out domain.Policy
	err := p.c.doJSON(ctx, http.MethodPut, idPath("/policies/%d", id), in, &out)
	return out, err
}

func (p PoliciesAPI) Delete(ctx context.Context, id int64) error {
	return p.c.doJSON(ctx, http.MethodDelete, idPath("/policies/%d", id), nil, nil)
}

// PolicyHoldersAPI covers /policy-holder.
type PolicyHoldersAPI struct{ c *Client }

// Purchase buys policyID for the bearer.
func (p PolicyHoldersAPI) Purchase(ctx context.Context, policyID int64) (domain.PolicyHolder, error) {
	var out domain.PolicyHolder
	err := p.c.doJSON(ctx, http.MethodPost, idPath("/policy-holder/purchase/%d", policyID), nil, &out)
	return out, err
}

// MyPolicy returns the bearer's policy, or nil when they hold none.
func (p PolicyHoldersAPI) MyPolicy(ctx context.Context) (*domain.PolicyHolder, error) {
	var out *domain.PolicyHolder
	err := p.c.doJSON(ctx, http.MethodGet, "/policy-holder/my-policy", nil, &out)
	return out, err
}

func (p PolicyHoldersAPI) All(ctx context.Context) ([]domain.PolicyHolder, error) {
	var out []domain.PolicyHolder
	err := p.c.doJSON(ctx, http.MethodGet, "/policy-holder/all", nil, &out)
	return out, err
}
