// Package commands turns vt command lines into list service calls: option
// parsing, verb resolution, arity checks, the verb handlers and top level
// error reporting. The cobra root command hands every token to the dispatcher.
package commands

import (
	"context"
	"fmt"
	"io"

	"vittlify/internal/application/common/logging"

	"github.com/spf13/cobra"
)

// App is what one invocation needs: a dispatcher and a reporter for its failures.
type App struct {
	Dispatcher *Dispatcher
	Reporter   *Reporter
}

// Factory builds the App for one invocation. It writes tables to stdout and
// diagnostics to stderr. An offline App only answers help, version and unknown
// verbs, so it is built without loading configuration.
type Factory func(ctx context.Context, stdout, stderr io.Writer, offline bool) (*App, error)

// ReportedError marks a failure whose message was already printed.
type ReportedError struct {
	Err error
}

func (e *ReportedError) Error() string { return e.Err.Error() }

func (e *ReportedError) Unwrap() error { return e.Err }

// NewRootCmd creates the vt root command. Flag parsing is left to the
// dispatcher, so "-eq" and free text reach it untouched.
func NewRootCmd(factory Factory) *cobra.Command {
	return &cobra.Command{
		Use:   "vt <command> [identifier] [options] [text]",
		Short: "Command line client for Vittlify lists",
		Long: `vt manages Vittlify lists from the terminal. Every request is signed with
your RSA private key and sent to the Vittlify instance named by VT_URL.

Run "vt help" for the list of commands.`,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := logging.NewCorrelationID(cmd.Context())
			offline := len(args) == 0 || LookupVerb(args[0]).Offline()

			app, err := factory(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), offline)
			if err != nil {
				return fmt.Errorf("vt: %w", err)
			}

			if err := app.Dispatcher.Dispatch(ctx, args); err != nil {
				app.Reporter.Report(ctx, err)
				return &ReportedError{Err: err}
			}
			return nil
		},
	}
}
