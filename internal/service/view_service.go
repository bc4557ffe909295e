package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/medisure/portal/internal/access"
	"github.com/medisure/portal/internal/backend"
	"github.com/medisure/portal/internal/domain"
	"github.com/medisure/portal/internal/observability"
)

// ErrSessionRejected is returned when the backend answered 401 while loading a view.
// The session is already cleared by then.
var ErrSessionRejected = errors.New("session rejected by backend")

// ViewModel is everything a client needs to render one guarded page.
type ViewModel struct {
	View   domain.ViewID      `json:"view" yaml:"view"`
	Path   string             `json:"path" yaml:"path"`
	User   domain.Identity    `json:"user" yaml:"user"`
	Menu   []domain.MenuEntry `json:"menu" yaml:"menu"`
	Data   map[string]any     `json:"data" yaml:"data"`
	Errors []SectionError     `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// SectionError reports a data section that could not be loaded.
type SectionError struct {
	Section string `json:"section" yaml:"section"`
	Message string `json:"message" yaml:"message"`
}

type section struct {
	name string
	load func(ctx context.Context, c *backend.Client) (any, error)
}

var viewSections = map[domain.ViewID][]section{
	domain.ViewAdminDashboard: {
		{"users", func(ctx context.Context, c *backend.Client) (any, error) { return c.Admin.Users(ctx) }},
	},
	domain.ViewPolicyManagerDashboard: {
		{"policies", func(ctx context.Context, c *backend.Client) (any, error) { return c.Policies.ListAll(ctx) }},
		{"policyHolders", func(ctx context.Context, c *backend.Client) (any, error) { return c.PolicyHolders.All(ctx) }},
	},
	domain.ViewClaimsManagerDashboard: {
		{"claims", func(ctx context.Context, c *backend.Client) (any, error) { return c.ClaimsManager.Claims(ctx) }},
	},
	domain.ViewFinanceManagerDashboard: {
		{"claims", loadFinanceQueue},
	},
	domain.ViewMedicalCoordinatorDashboard: {
		{"doctors", func(ctx context.Context, c *backend.Client) (any, error) { return c.Doctors.All(ctx) }},
	},
	domain.ViewDoctorDashboard: {
		{"appointments", func(ctx context.Context, c *backend.Client) (any, error) { return c.Doctors.MyAppointments(ctx) }},
	},
	domain.ViewPolicyHolderDashboard: {
		{"policy", func(ctx context.Context, c *backend.Client) (any, error) { return c.PolicyHolders.MyPolicy(ctx) }},
		{"claims", func(ctx context.Context, c *backend.Client) (any, error) { return c.Claims.Mine(ctx) }},
		{"appointments", func(ctx context.Context, c *backend.Client) (any, error) { return c.Appointments.Mine(ctx) }},
	},
	domain.ViewBrowsePolicies: {
		{"policies", func(ctx context.Context, c *backend.Client) (any, error) { return c.Policies.ListAll(ctx) }},
	},
	domain.ViewBookAppointment: {
		{"doctors", func(ctx context.Context, c *backend.Client) (any, error) { return c.Doctors.All(ctx) }},
	},
	domain.ViewMyClaims: {
		{"claims", func(ctx context.Context, c *backend.Client) (any, error) { return c.Claims.Mine(ctx) }},
	},
	domain.ViewMyAppointments: {
		{"appointments", func(ctx context.Context, c *backend.Client) (any, error) { return c.Appointments.Mine(ctx) }},
	},
}

// finance works the claims a claims manager has approved.
func loadFinanceQueue(ctx context.Context, c *backend.Client) (any, error) {
	claims, err := c.Claims.All(ctx)
	if err != nil {
		return nil, err
	}
	queue := make([]domain.Claim, 0, len(claims))
	for _, claim := range claims {
		if claim.Status == domain.ClaimStatusApprovedByClaimsManager {
			queue = append(queue, claim)
		}
	}
	return queue, nil
}

// SectionsOf lists the data sections loaded for view, in display order.
func SectionsOf(view domain.ViewID) []string {
	sections := viewSections[view]
	names := make([]string, len(sections))
	for i, s := range sections {
		names[i] = s.name
	}
	return names
}

// ViewService assembles view models for guarded routes.
type ViewService struct {
	logger *zap.Logger
}

// NewViewService creates the service.
func NewViewService(logger *zap.Logger) *ViewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewService{logger: logger}
}

// Build resolves the view for route and loads its sections concurrently. A failing section is
// reported in Errors while the others still render. A 401 from any section aborts the whole
// view with ErrSessionRejected.
func (v *ViewService) Build(ctx context.Context, client *backend.Client, sess domain.Session, route access.RouteDescriptor) (ViewModel, error) {
	view := access.ViewFor(route, sess.User.Role)
	model := ViewModel{
		View: view,
		Path: route.Path,
		User: sess.User,
		Menu: access.MenuFor(sess.User.Role),
		Data: map[string]any{},
	}

	sections := viewSections[view]
	if len(sections) == 0 {
		return model, nil
	}

	results := make([]any, len(sections))
	failures := make([]error, len(sections))

	g, gctx := errgroup.WithContext(ctx)
	for i, s := range sections {
		i, s := i, s
		g.Go(func() error {
			data, err := s.load(gctx, client)
			if errors.Is(err, backend.ErrUnauthorized) {
				return err
			}
			results[i], failures[i] = data, err
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ViewModel{}, fmt.Errorf("%w: %w", ErrSessionRejected, err)
	}

	for i, s := range sections {
		if err := failures[i]; err != nil {
			v.logger.Warn("view section failed",
				zap.String("view", string(view)),
				zap.String("section", s.name),
				zap.String("request_id", observability.RequestIDFromContext(ctx)),
				zap.Error(err))
			model.Errors = append(model.Errors, SectionError{
				Section: s.name,
				Message: failureMessage(err, "Error fetching "+s.name),
			})
			continue
		}
		model.Data[s.name] = results[i]
	}
	return model, nil
}
