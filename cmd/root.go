// Package cmd wires configuration, logging, metrics and the signing client
// into the vt command and runs it.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"vittlify/internal/application/common/logging"
	"vittlify/internal/client"
	"vittlify/internal/client/commands"
	"vittlify/internal/client/output"
	"vittlify/internal/config"
	"vittlify/internal/version"
)

// Execute runs vt with the process arguments and exits with its status.
// This is called by main.main().
func Execute() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one invocation and returns the exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := commands.NewRootCmd(newApp)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var reported *commands.ReportedError
	if !errors.As(err, &reported) {
		fmt.Fprintln(stderr, err)
	}
	return 1
}

// newApp builds the dispatcher for one invocation. Offline invocations get a
// dispatcher without a backend and never read configuration. Otherwise
// configuration failures are reported through the same reporter as command failures.
func newApp(ctx context.Context, stdout, stderr io.Writer, offline bool) (*commands.App, error) {
	renderer := output.NewRenderer(stdout, stderr)
	help, err := commands.LoadHelp()
	if err != nil {
		return nil, err
	}

	info := version.GetVersion()
	if offline {
		return &commands.App{
			Dispatcher: commands.NewDispatcher(nil, renderer, help, commands.WithVersion(info)),
			Reporter:   commands.NewReporter(renderer, help, commands.ReportOptions{}),
		}, nil
	}

	cfg, err := config.Load(config.NewViper())
	if err != nil {
		return nil, startupFailure(ctx, commands.NewReporter(renderer, help, commands.ReportOptions{}), err)
	}

	logger, err := logging.NewApplicationLogger(logging.Config{
		Level:  cfg.EffectiveLogLevel(),
		Format: cfg.Log.Format,
		Writer: stderr,
	})
	if err != nil {
		return nil, startupFailure(ctx, commands.NewReporter(renderer, help, commands.ReportOptions{}), err)
	}

	reporter := commands.NewReporter(renderer, help, commands.ReportOptions{
		BaseURL:    cfg.URL,
		Proxy:      cfg.Proxy,
		Diagnostic: cfg.ShowTraceback,
		Logger:     logger.WithComponent("reporter"),
	})

	metrics, err := client.NewRequestMetrics()
	if err != nil {
		return nil, startupFailure(ctx, reporter, err)
	}

	vt, err := client.NewClient(client.Config{
		BaseURL:        cfg.URL,
		Username:       cfg.Username,
		Proxy:          cfg.Proxy,
		PrivateKeyPath: cfg.PrivateKey,
		Timeout:        cfg.Timeout,
		UserAgent:      info.UserAgent(),
	}, client.WithLogger(logger), client.WithMetrics(metrics))
	if err != nil {
		return nil, startupFailure(ctx, reporter, err)
	}

	logger.Debug(ctx, "configuration loaded", logging.Fields{
		"url":          cfg.URL,
		"username":     cfg.Username,
		"proxy":        cfg.Proxy,
		"default_list": cfg.DefaultList,
	})

	return &commands.App{
		Dispatcher: commands.NewDispatcher(vt, renderer, help,
			commands.WithDefaultList(cfg.DefaultList),
			commands.WithDispatchLogger(logger),
			commands.WithVersion(info),
		),
		Reporter: reporter,
	}, nil
}

func startupFailure(ctx context.Context, reporter *commands.Reporter, err error) error {
	reporter.Report(ctx, err)
	return &commands.ReportedError{Err: err}
}
