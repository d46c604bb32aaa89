package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vittlify/internal/application/common/logging"
	"vittlify/internal/client/output"
	"vittlify/internal/domain/errors/domain"
)

// Top level messages, one per error kind.
const (
	msgIncorrectArguments = "Incorrect number of arguments provided"
	msgUnableToConnect    = "Unable to connect to Vittlify instance at %s"
	msgAttemptedProxy     = "Attempted to use proxy at %s"
	msgServerResponded    = "Server responded with %s"
)

// ReportOptions configures a Reporter.
type ReportOptions struct {
	// BaseURL and Proxy are named in connection failure messages.
	BaseURL string
	Proxy   string
	// Diagnostic additionally prints every wrapped cause.
	Diagnostic bool
	// Logger receives the failure in diagnostic mode.
	Logger logging.ApplicationLogger
}

// Reporter prints the user-facing message for a failed command.
type Reporter struct {
	renderer *output.Renderer
	help     *HelpCatalog
	opts     ReportOptions
}

// NewReporter creates a reporter.
func NewReporter(renderer *output.Renderer, help *HelpCatalog, opts ReportOptions) *Reporter {
	return &Reporter{renderer: renderer, help: help, opts: opts}
}

// Report prints err and returns the process exit status: 0 for nil, 1 otherwise.
func (r *Reporter) Report(ctx context.Context, err error) int {
	if err == nil {
		return 0
	}

	var classified *domain.Error
	if !errors.As(err, &classified) {
		_ = r.renderer.Errorln(err.Error())
		r.printChain(ctx, err)
		return 1
	}

	switch classified.Kind {
	case domain.KindArity:
		_ = r.renderer.Errorln(msgIncorrectArguments)
		if r.help != nil {
			_ = r.renderer.Plainln(strings.TrimRight(r.help.General, "\n"))
		}

	case domain.KindTransport:
		url := r.opts.BaseURL
		if url == "" {
			url = classified.URL
		}
		_ = r.renderer.Errorln(fmt.Sprintf(msgUnableToConnect, url))
		proxy := classified.Proxy
		if proxy == "" {
			proxy = r.opts.Proxy
		}
		if proxy != "" {
			_ = r.renderer.Errorln(fmt.Sprintf(msgAttemptedProxy, proxy))
		}

	case domain.KindHTTP:
		_ = r.renderer.Errorln(fmt.Sprintf(msgServerResponded, classified.Message))

	case domain.KindDomain, domain.KindConfiguration:
		message := classified.Message
		if message == "" {
			message = classified.Error()
		}
		_ = r.renderer.Errorln(message)
	}

	r.printChain(ctx, err)
	return 1
}

// printChain prints err and each wrapped cause, outermost first, in diagnostic mode.
func (r *Reporter) printChain(ctx context.Context, err error) {
	if !r.opts.Diagnostic {
		return
	}
	if r.opts.Logger != nil {
		kind, _ := domain.KindOf(err)
		r.opts.Logger.ErrorWithError(ctx, err, "command failed", logging.Fields{"kind": kind.String()})
	}
	_ = r.renderer.Plainln("Traceback:")
	for depth := 0; err != nil; depth++ {
		_ = r.renderer.Plainln(fmt.Sprintf("%s%T: %v", strings.Repeat("  ", depth+1), err, err))
		err = errors.Unwrap(err)
	}
}

// asKind reports whether err's chain holds a classified error of kind, storing it in target.
func asKind(err error, kind domain.Kind, target **domain.Error) bool {
	return errors.As(err, target) && (*target).Kind == kind
}
