// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/H0llyW00dzZ/x509-chain-builder/src/internal/helper/posix"
	"github.com/H0llyW00dzZ/x509-chain-builder/src/logger"
	"github.com/spf13/cobra"
)

var (
	// ErrInputFileRequired is returned when a command that reads a file is run without one.
	ErrInputFileRequired = errors.New("cli: input file is required")

	// ErrUnknownFormat is returned for an unsupported --format or --log-format value.
	ErrUnknownFormat = errors.New("cli: unknown format")
)

var (
	// OperationPerformed reports whether the last [Execute] call started a certificate operation.
	OperationPerformed bool

	// OperationPerformedSuccessfully reports whether that operation completed without error.
	OperationPerformedSuccessfully bool
)

// app carries the state shared by all subcommands of one [Execute] call.
type app struct {
	ctx       context.Context
	log       logger.Logger
	logFormat string
	quiet     bool
}

// Execute builds the command tree, parses os.Args and runs the selected subcommand.
// Errors are returned to the caller instead of exiting the process.
func Execute(ctx context.Context, version string, log logger.Logger) error {
	OperationPerformed = false
	OperationPerformedSuccessfully = false

	rootCmd := newRootCmd(ctx, version, log)
	rootCmd.SetArgs(os.Args[1:])
	return rootCmd.ExecuteContext(ctx)
}

func newRootCmd(ctx context.Context, version string, log logger.Logger) *cobra.Command {
	a := &app{ctx: ctx, log: log}
	exe := posix.GetExecutableName()

	rootCmd := &cobra.Command{
		Use:   exe,
		Short: "X.509 certificate chain builder",
		Long: `Build, verify, inspect and convert X.509 certificate chains.

Certificates are issued with a fixed extension profile per usage (ca, server,
client, server-client, codesign) and stored as PEM bundles or PKCS#12 archives.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: fmt.Sprintf(`  %[1]s generate --config plan.yaml --out ./pki
  %[1]s issue --signer ca.pem --cn www.example.com --san www.example.com --out www.pem
  %[1]s verify --root root.pem --no-system chain.pem
  %[1]s inspect --format table chain.pem
  %[1]s inspect --intermediates-only --format pem chain.pem`, exe),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setupLogger(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "cli", "log output format (cli or json)")
	rootCmd.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "suppress log output")

	rootCmd.AddCommand(
		newGenerateCmd(a),
		newIssueCmd(a),
		newEasyCmd(a),
		newVerifyCmd(a),
		newInspectCmd(a),
		newConvertCmd(a),
	)

	return rootCmd
}

// setupLogger replaces the injected logger according to the persistent flags.
func (a *app) setupLogger(cmd *cobra.Command) error {
	switch a.logFormat {
	case "cli":
		if a.quiet {
			a.log.SetOutput(io.Discard)
		}
	case "json":
		a.log = logger.NewJSONLogger(cmd.ErrOrStderr(), "info", a.quiet)
	default:
		return fmt.Errorf("%w: log format %q", ErrUnknownFormat, a.logFormat)
	}
	return nil
}

// run marks the start of an operation and records its outcome.
func (a *app) run(op func() error) error {
	OperationPerformed = true
	if err := a.ctx.Err(); err != nil {
		return err
	}
	if err := op(); err != nil {
		return err
	}
	OperationPerformedSuccessfully = true
	return nil
}
