package cli

import (
	"github.com/spf13/cobra"

	"github.com/medisure/portal/internal/access"
	"github.com/medisure/portal/internal/domain"
	"github.com/medisure/portal/internal/service"
)

type menuOutput struct {
	Role      domain.RoleTag     `json:"role" yaml:"role"`
	Dashboard domain.ViewID      `json:"dashboard" yaml:"dashboard"`
	Menu      []domain.MenuEntry `json:"menu" yaml:"menu"`
}

type checkOutput struct {
	Path     string        `json:"path" yaml:"path"`
	Decision string        `json:"decision" yaml:"decision"`
	Target   string        `json:"target,omitempty" yaml:"target,omitempty"`
	View     domain.ViewID `json:"view,omitempty" yaml:"view,omitempty"`
}

func newMenuCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Show the navigation menu for the signed-in role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, ok := rt.store.Load(cmd.Context())
			if !ok {
				return rt.printResult(service.Result{Error: service.MsgNotSignedIn})
			}
			role := sess.User.Role
			return rt.print(menuOutput{Role: role, Dashboard: access.DashboardFor(role), Menu: access.MenuFor(role)})
		},
	}
}

func newDashboardCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Load the dashboard for the signed-in role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sess, ok := rt.store.Load(ctx)
			if !ok {
				return rt.printResult(service.Result{Error: service.MsgNotSignedIn})
			}
			route, _ := access.Lookup(access.PathDashboard)
			model, err := service.NewViewService(rt.logger).Build(ctx, rt.factory.For(rt.store), sess, route)
			if err != nil {
				return rt.printResult(service.Result{Error: service.MsgNotSignedIn})
			}
			return rt.print(model)
		},
	}
}

func newCheckCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "check <path>",
		Short: "Evaluate the route guard for a path with the stored session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			route, known := access.Lookup(path)
			if !known {
				return rt.print(checkOutput{
					Path:     path,
					Decision: access.DecisionRedirectDefault.String(),
					Target:   access.DecisionRedirectDefault.Target(),
				})
			}

			var current *domain.Session
			if sess, ok := rt.store.Load(cmd.Context()); ok {
				current = &sess
			}
			decision := access.Decide(current, route)
			out := checkOutput{Path: path, Decision: decision.String(), Target: decision.Target()}
			if decision == access.DecisionRender {
				out.View = access.ViewFor(route, current.User.Role)
			}
			return rt.print(out)
		},
	}
}
