package cli

import (
	"github.com/spf13/cobra"

	"github.com/medisure/portal/internal/backend"
)

func newLoginCommand(rt *runtime) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and keep the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.printResult(rt.gateway().Login(cmd.Context(), email, password))
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func newRegisterCommand(rt *runtime) *cobra.Command {
	var in backend.RegisterInput
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a policy holder account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.printResult(rt.gateway().Register(cmd.Context(), in))
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.FullName, "full-name", "", "full name")
	f.StringVar(&in.Email, "email", "", "account email")
	f.StringVar(&in.Password, "password", "", "account password")
	f.StringVar(&in.Phone, "phone", "", "phone number")
	f.StringVar(&in.DateOfBirth, "date-of-birth", "", "date of birth (YYYY-MM-DD)")
	f.StringVar(&in.Address, "address", "", "postal address")
	return cmd
}

func newLogoutCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.printResult(rt.gateway().Logout(cmd.Context()))
		},
	}
}

func newWhoamiCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Refresh the stored identity from the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.printResult(rt.gateway().CurrentUser(cmd.Context()))
		},
	}
}
