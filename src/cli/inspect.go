// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	x509chain "github.com/H0llyW00dzZ/x509-chain-builder/src/internal/x509/chain"
)

// ErrNoIntermediates is returned by inspect --intermediates-only for a chain
// without certificates between its leaf and root.
var ErrNoIntermediates = errors.New("chain has no intermediate certificates")

type inspectOptions struct {
	format            string
	output            string
	intermediatesOnly bool
}

func newInspectCmd(a *app) *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Render a certificate chain as a tree, table or JSON, or re-encode it as PEM or DER",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return ErrInputFileRequired
			}
			return a.run(func() error { return a.inspect(cmd, args[0], opts) })
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "tree", "output format (tree, table, json, pem or der)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output to OUTPUT_FILE (default: stdout)")
	cmd.Flags().BoolVarP(&opts.intermediatesOnly, "intermediates-only", "i", false, "keep only the certificates between leaf and root")

	return cmd
}

func (a *app) inspect(cmd *cobra.Command, path string, opts *inspectOptions) error {
	ch, err := loadChain(path)
	if err != nil {
		return err
	}
	if opts.intermediatesOnly {
		certs := ch.FilterIntermediates()
		if len(certs) == 0 {
			return fmt.Errorf("%w: %s", ErrNoIntermediates, path)
		}
		ch = x509chain.New(certs...)
	}
	status := ch.ValidityStatus(time.Now())

	var out []byte
	switch opts.format {
	case "tree":
		out = []byte(ch.RenderASCIITree(status))
	case "table":
		out = []byte(ch.RenderTable(status))
	case "json":
		if out, err = ch.ToVisualizationJSON(status); err != nil {
			return err
		}
		out = append(out, '\n')
	case "pem":
		out = ch.EncodeMultiplePEM(ch.Certs)
	case "der":
		out = ch.EncodeMultipleDER(ch.Certs)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, opts.format)
	}

	if opts.output != "" {
		if err := writeFile(opts.output, out); err != nil {
			return err
		}
		a.log.Printf("Wrote %d certificates of %s to %s", len(ch.Certs), path, opts.output)
		return nil
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
