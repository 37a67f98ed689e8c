// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"github.com/spf13/cobra"
)

type convertOptions struct {
	in          string
	out         string
	password    string
	outPassword string
	alias       string
}

func newConvertCmd(a *app) *cobra.Command {
	opts := &convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a key store between PEM bundle and PKCS#12",
		Long: `Convert a key store. Files ending in .p12 or .pfx are PKCS#12 archives, anything
else is a PEM bundle. The archive password applies to both sides unless
--out-password is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.in == "" {
				return ErrInputFileRequired
			}
			return a.run(func() error { return a.convert(opts) })
		},
	}

	cmd.Flags().StringVarP(&opts.in, "in", "i", "", "input key store")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output key store")
	cmd.Flags().StringVarP(&opts.password, "password", "p", "", "PKCS#12 password")
	cmd.Flags().StringVar(&opts.outPassword, "out-password", "", "PKCS#12 password of the output (default --password)")
	cmd.Flags().StringVar(&opts.alias, "alias", "", "PKCS#12 friendly name (default: alias of a PKCS#12 input, else a random UUID)")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func (a *app) convert(opts *convertOptions) error {
	ks, err := loadKeyStore(opts.in, opts.password)
	if err != nil {
		return err
	}

	outPassword := opts.outPassword
	if outPassword == "" {
		outPassword = opts.password
	}
	if err := saveKeyStore(ks, opts.out, opts.alias, outPassword); err != nil {
		return err
	}

	a.log.Printf("Converted %s (%d certificates) to %s", opts.in, ks.Len(), opts.out)
	return nil
}
