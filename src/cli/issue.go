// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"time"

	"github.com/H0llyW00dzZ/x509-chain-builder/src/pki"
	"github.com/spf13/cobra"
)

type issueOptions struct {
	signer         string
	signerPassword string
	subject        string
	cn             string
	usage          string
	altNames       []string
	days           int
	pathLen        int
	keyType        string
	keyBits        int
	out            string
	alias          string
	password       string
}

func newIssueCmd(a *app) *cobra.Command {
	opts := &issueOptions{}

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue a single certificate",
		Long: `Issue one certificate, self-signed or signed by the key store given with --signer.
The output is a PEM key bundle, or a PKCS#12 archive when --out ends in .p12 or .pfx.
Without --subject and --cn the common name is a random UUID.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func() error { return a.issue(opts) })
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.signer, "signer", "", "signer key store (PEM bundle, .p12 or .pfx), empty for self-signed")
	f.StringVar(&opts.signerPassword, "signer-password", "", "password of a PKCS#12 signer")
	f.StringVar(&opts.subject, "subject", "", `subject such as "C=US, O=Example"`)
	f.StringVar(&opts.cn, "cn", "", "common name appended to the subject")
	f.StringVarP(&opts.usage, "usage", "u", "server", "ca, server, client, server-client or codesign")
	f.StringSliceVar(&opts.altNames, "san", nil, "subject alternative name (DNS name or IPv4 address), repeatable")
	f.IntVar(&opts.days, "days", 0, "validity in days (default 825)")
	f.IntVar(&opts.pathLen, "path-len", pki.UnlimitedPathLen, "CA path length constraint, -1 for unlimited")
	f.StringVar(&opts.keyType, "key-type", "rsa", "key type (rsa or ec)")
	f.IntVar(&opts.keyBits, "key-bits", 0, "key size (default 2048 for rsa, 256 for ec)")
	f.StringVarP(&opts.out, "out", "o", "", "output key store (.pem, .p12 or .pfx)")
	f.StringVar(&opts.alias, "alias", "", "PKCS#12 friendly name (default random UUID)")
	f.StringVarP(&opts.password, "password", "p", "", "PKCS#12 password")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func (a *app) issue(opts *issueOptions) error {
	b := pki.NewCertificateBuilder()

	if opts.signer != "" {
		signer, err := loadKeyStore(opts.signer, opts.signerPassword)
		if err != nil {
			return err
		}
		b.Signer = signer
	}

	subject, err := subjectName(opts.subject, opts.cn)
	if err != nil {
		return err
	}
	b.Subject = subject

	if b.Usage, err = pki.ParseCertUsage(opts.usage); err != nil {
		return err
	}
	b.AltNames = opts.altNames
	if opts.days > 0 {
		b.NotAfter = b.NotBefore.Add(time.Duration(opts.days) * 24 * time.Hour)
	}
	b.PathLen = opts.pathLen

	if b.KeyType, err = parseKeyType(opts.keyType); err != nil {
		return err
	}
	b.KeyBits = opts.keyBits

	ks, err := b.Build()
	if err != nil {
		return err
	}
	if err := saveKeyStore(ks, opts.out, opts.alias, opts.password); err != nil {
		return err
	}

	leaf := ks.Leaf()
	a.log.Printf("Issued %s (serial %s, issuer %s) to %s", leaf.SubjectName(), leaf.SerialNumber(), leaf.IssuerName(), opts.out)
	return nil
}

type easyOptions struct {
	out      string
	alias    string
	password string
}

func newEasyCmd(a *app) *cobra.Command {
	opts := &easyOptions{}

	cmd := &cobra.Command{
		Use:   "easy HOSTNAME",
		Short: "Create a root CA and a server certificate for HOSTNAME",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func() error {
				ks, err := pki.CreateEasyServerChain(args[0])
				if err != nil {
					return err
				}
				if err := saveKeyStore(ks, opts.out, opts.alias, opts.password); err != nil {
					return err
				}
				a.log.Printf("Created server chain for %s in %s", args[0], opts.out)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&opts.out, "out", "o", "server.pem", "output key store (.pem, .p12 or .pfx)")
	cmd.Flags().StringVar(&opts.alias, "alias", "", "PKCS#12 friendly name (default random UUID)")
	cmd.Flags().StringVarP(&opts.password, "password", "p", "", "PKCS#12 password")

	return cmd
}
