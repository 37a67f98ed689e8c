// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/H0llyW00dzZ/x509-chain-builder/src/pki"
	"github.com/spf13/cobra"
)

type verifyOptions struct {
	roots    []string
	noSystem bool
	at       string
}

func newVerifyCmd(a *app) *cobra.Command {
	opts := &verifyOptions{}

	cmd := &cobra.Command{
		Use:   "verify CHAIN_FILE",
		Short: "Verify a certificate chain",
		Long: `Verify a chain given in PEM, DER or PKCS#7 form, or the certificates of a PEM
key bundle. The certificates may appear in any order; the leaf is found first.
Trust comes from the --root files and, unless --no-system is set, the system roots.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return ErrInputFileRequired
			}
			return a.run(func() error { return a.verify(cmd, args[0], opts) })
		},
	}

	cmd.Flags().StringSliceVarP(&opts.roots, "root", "r", nil, "trusted root certificate file, repeatable")
	cmd.Flags().BoolVar(&opts.noSystem, "no-system", false, "do not trust the system root store")
	cmd.Flags().StringVar(&opts.at, "at", "", "verification time in RFC 3339 form (default now)")

	return cmd
}

func (a *app) verify(cmd *cobra.Command, path string, opts *verifyOptions) error {
	ch, err := loadChain(path)
	if err != nil {
		return err
	}

	v := pki.NewCertificateVerifier()
	v.DefaultPaths = !opts.noSystem
	if opts.at != "" {
		if v.CurrentTime, err = time.Parse(time.RFC3339, opts.at); err != nil {
			return fmt.Errorf("%w: --at: %w", pki.ErrInvalidParameters, err)
		}
	}

	for _, rootPath := range opts.roots {
		roots, err := loadChain(rootPath)
		if err != nil {
			return err
		}
		for _, c := range roots.Certs {
			v.AddRoot(pki.NewCertificate(c))
		}
	}

	certs := make([]*pki.Certificate, len(ch.Certs))
	for i, c := range ch.Certs {
		certs[i] = pki.NewCertificate(c)
	}

	chains, err := v.VerifiedChains(certs)
	if err != nil {
		a.log.Printf("Verification of %s failed: %v", path, err)
		return err
	}

	out := cmd.OutOrStdout()
	for i, verified := range chains {
		names := make([]string, len(verified))
		for j, c := range verified {
			names[j] = c.SubjectName().String()
		}
		fmt.Fprintf(out, "chain %d: %s\n", i+1, strings.Join(names, " -> "))
	}
	a.log.Printf("Verified %s: %d trusted path(s)", path, len(chains))
	return nil
}
