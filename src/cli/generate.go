// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"path/filepath"

	"github.com/H0llyW00dzZ/x509-chain-builder/src/pki"
	"github.com/spf13/cobra"
)

type generateOptions struct {
	config   string
	outDir   string
	password string
}

func newGenerateCmd(a *app) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Issue every certificate of a chain plan",
		Long: `Issue the certificates of a YAML or JSON plan in order. Each entry may name an
earlier entry as its signer. Every entry is written to <out>/<name>.pem as a
key bundle, and to <out>/<name>.p12 as well when --password is set.

The plan path may also be given with the X509_CHAIN_CONFIG_FILE environment variable.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func() error { return a.generate(opts) })
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "chain plan file (.yaml, .yml or .json)")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", ".", "output directory")
	cmd.Flags().StringVarP(&opts.password, "password", "p", "", "also write PKCS#12 archives protected by this password")

	return cmd
}

func (a *app) generate(opts *generateOptions) error {
	plan, err := loadPlan(opts.config)
	if err != nil {
		return err
	}

	issued := make(map[string]*pki.KeyStore, len(plan.Certificates))
	for _, e := range plan.Certificates {
		if err := a.ctx.Err(); err != nil {
			return err
		}

		b, err := plan.builder(e, issued)
		if err != nil {
			return err
		}
		ks, err := b.Build()
		if err != nil {
			return err
		}
		issued[e.Name] = ks

		if err := saveKeyStore(ks, filepath.Join(opts.outDir, e.Name+".pem"), "", ""); err != nil {
			return err
		}
		if opts.password != "" {
			if err := saveKeyStore(ks, filepath.Join(opts.outDir, e.Name+".p12"), e.Alias, opts.password); err != nil {
				return err
			}
		}

		leaf := ks.Leaf()
		a.log.Printf("Issued %s: %s (serial %s, usage %s)", e.Name, leaf.SubjectName(), leaf.SerialNumber(), b.Usage)
	}

	a.log.Printf("Generated %d certificates in %s", len(plan.Certificates), opts.outDir)
	return nil
}
