// Package cli implements portalctl, a terminal client of the Medisure portal. It shares the
// session rules, route guard and dashboard resolution with the HTTP gateway; the session lives
// in a file instead of Redis.
package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/medisure/portal/internal/backend"
	"github.com/medisure/portal/internal/config"
	"github.com/medisure/portal/internal/service"
	"github.com/medisure/portal/internal/session"
)

// ErrFailed is returned after a failed result was already printed.
var ErrFailed = errors.New("command failed")

type options struct {
	backendURL  string
	sessionFile string
	output      string
}

type runtime struct {
	opts    options
	timeout time.Duration
	retries int
	logger  *zap.Logger
	store   *session.FileStore
	factory *backend.Factory
	out     io.Writer
}

// NewRootCommand builds the portalctl command tree. Flag defaults come from cfg.
func NewRootCommand(cfg *config.Config, logger *zap.Logger) *cobra.Command {
	if logger == nil {
		logger = zap.NewNop()
	}
	rt := &runtime{logger: logger, timeout: cfg.Backend.Timeout(), retries: cfg.Backend.Retries}

	root := &cobra.Command{
		Use:           "portalctl",
		Short:         "Terminal client for the Medisure portal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&rt.opts.backendURL, "backend", cfg.Backend.BaseURL, "backend API base URL")
	flags.StringVar(&rt.opts.sessionFile, "session-file", cfg.CLI.SessionFile, "file holding the signed-in session")
	flags.StringVarP(&rt.opts.output, "output", "o", cfg.CLI.Output, "output format: json or yaml")

	root.AddCommand(
		newLoginCommand(rt),
		newRegisterCommand(rt),
		newLogoutCommand(rt),
		newWhoamiCommand(rt),
		newMenuCommand(rt),
		newDashboardCommand(rt),
		newCheckCommand(rt),
	)
	return root
}

func (rt *runtime) init(cmd *cobra.Command) error {
	if !validFormat(rt.opts.output) {
		return fmt.Errorf("unsupported output %q: want json or yaml", rt.opts.output)
	}
	factory, err := backend.NewFactory(backend.Options{
		BaseURL:        rt.opts.backendURL,
		Timeout:        rt.timeout,
		Retries:        rt.retries,
		Logger:         rt.logger,
		OnUnauthorized: service.ForcedLogoutHook(nil, rt.logger),
	})
	if err != nil {
		return err
	}
	rt.factory = factory
	rt.store = session.NewFileStore(rt.opts.sessionFile, rt.logger)
	rt.out = cmd.OutOrStdout()
	return nil
}

func (rt *runtime) gateway() *service.AuthGateway {
	return service.NewAuthGateway(rt.store, service.AuthDependencies{
		Backend: rt.factory,
		Logger:  rt.logger,
	})
}

func (rt *runtime) print(v any) error {
	return render(rt.out, rt.opts.output, v)
}

// printResult prints res and turns a failed result into ErrFailed.
func (rt *runtime) printResult(res service.Result) error {
	if err := rt.print(res); err != nil {
		return err
	}
	if !res.Success {
		return ErrFailed
	}
	return nil
}
