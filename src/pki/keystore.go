// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package pki

import (
	"crypto/tls"
	"fmt"
	"slices"
)

// KeyStore bundles one private key with an ordered certificate chain.
//
// Certs()[0] is the leaf certificate matching the private key. Each following entry
// is the issuer of the one before it, ending with the self-signed root when the
// chain is complete.
//
// A KeyStore is read-only after construction and safe to share between goroutines,
// including as the signer of concurrent [CertificateBuilder.Build] calls.
type KeyStore struct {
	key   *PrivateKey
	certs []*Certificate
	alias string
}

// NewKeyStore bundles key with a leaf-first certificate chain.
//
// Returns [ErrInvalidParameters] when key is nil or certs is empty.
// The chain is not checked for internal consistency; use [CertificateVerifier] for that.
func NewKeyStore(key *PrivateKey, certs ...*Certificate) (*KeyStore, error) {
	if key == nil {
		return nil, fmt.Errorf("%w: key store requires a private key", ErrInvalidParameters)
	}
	if len(certs) == 0 {
		return nil, fmt.Errorf("%w: key store requires at least one certificate", ErrInvalidParameters)
	}
	if slices.Contains(certs, nil) {
		return nil, fmt.Errorf("%w: nil certificate in chain", ErrInvalidParameters)
	}
	return &KeyStore{key: key, certs: slices.Clone(certs)}, nil
}

// PrivateKey returns the key matching the leaf certificate.
func (ks *KeyStore) PrivateKey() *PrivateKey { return ks.key }

// Certs returns a copy of the leaf-first certificate chain.
func (ks *KeyStore) Certs() []*Certificate { return slices.Clone(ks.certs) }

// Alias returns the entry name read from a PKCS#12 archive, or an empty
// string for key stores built any other way.
func (ks *KeyStore) Alias() string { return ks.alias }

// Leaf returns the first certificate of the chain.
func (ks *KeyStore) Leaf() *Certificate { return ks.certs[0] }

// Len returns the number of certificates in the chain.
func (ks *KeyStore) Len() int { return len(ks.certs) }

// TLSCertificate returns the key store as a [tls.Certificate] for use in a
// [tls.Config]. The chain is sent leaf-first.
func (ks *KeyStore) TLSCertificate() tls.Certificate {
	chain := make([][]byte, len(ks.certs))
	for i, c := range ks.certs {
		chain[i] = c.DER()
	}
	return tls.Certificate{
		Certificate: chain,
		PrivateKey:  ks.key.Signer(),
		Leaf:        ks.certs[0].X509(),
	}
}
