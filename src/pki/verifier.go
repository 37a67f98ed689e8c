// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package pki

import (
	"bytes"
	"crypto/x509"
	"fmt"
	"slices"
	"time"
)

// CertificateVerifier validates certificate chains against a trust store.
//
// A verifier holds no state between calls other than its configuration and may
// be used from several goroutines once configured.
//
// [NewCertificateVerifier] enables DefaultPaths. A struct literal leaves it false
// and trusts only Roots.
type CertificateVerifier struct {
	// Roots are the explicitly trusted certificates.
	Roots []*Certificate

	// DefaultPaths adds the platform root bundle to Roots.
	DefaultPaths bool

	// CurrentTime is the time validity windows are checked against. The zero value means now.
	CurrentTime time.Time
}

// NewCertificateVerifier returns a verifier that trusts the platform root bundle
// and no explicit roots.
func NewCertificateVerifier() *CertificateVerifier {
	return &CertificateVerifier{DefaultPaths: true}
}

// AddRoot trusts cert in addition to the configured roots.
func (v *CertificateVerifier) AddRoot(cert *Certificate) *CertificateVerifier {
	v.Roots = append(v.Roots, cert)
	return v
}

// Verify checks that chain[0] is signed, through zero or more of chain[1:], by a
// trusted root. chain[1:] are untrusted candidate intermediates in any order.
//
// Every link must verify, every issuer must be a CA whose path length and
// keyUsage permit signing, and every certificate must be valid at CurrentTime.
// Issuer failures are reported with the reason of the first offending link.
//
// Returns [ErrInvalidParameters] for an empty chain, before any trust store is
// built, and a [*VerificationError] when no valid path exists.
func (v *CertificateVerifier) Verify(chain []*Certificate) error {
	_, err := v.VerifiedChains(chain)
	return err
}

// VerifiedChains is like [CertificateVerifier.Verify] but also returns every valid
// path found, each ordered leaf first and ending with a trusted root.
func (v *CertificateVerifier) VerifiedChains(chain []*Certificate) ([][]*Certificate, error) {
	if len(chain) == 0 {
		return nil, fmt.Errorf("%w: empty certificate chain", ErrInvalidParameters)
	}
	if slices.Contains(chain, nil) {
		return nil, fmt.Errorf("%w: nil certificate in chain", ErrInvalidParameters)
	}

	roots, err := v.trustStore()
	if err != nil {
		return nil, err
	}

	intermediates := x509.NewCertPool()
	for _, c := range chain[1:] {
		intermediates.AddCert(c.cert)
	}

	opts := x509.VerifyOptions{
		Roots:         roots,
		Intermediates: intermediates,
		CurrentTime:   v.CurrentTime,
		KeyUsages:     []x509.ExtKeyUsage{x509.ExtKeyUsageAny},
	}
	paths, err := chain[0].cert.Verify(opts)
	if err != nil {
		verr := newVerificationError(err)
		if verr.Reason == ReasonUntrustedRoot {
			// Verify reports issuer failures as an unknown authority.
			if reason := v.diagnose(chain); reason != "" {
				verr.Reason = reason
			}
		}
		return nil, verr
	}

	verified := make([][]*Certificate, len(paths))
	for i, path := range paths {
		verified[i] = fromX509(path)
	}
	return verified, nil
}

// trustStore builds the root pool. It is never nil, so an empty configuration
// trusts nothing instead of falling back to the platform roots.
func (v *CertificateVerifier) trustStore() (*x509.CertPool, error) {
	pool := x509.NewCertPool()
	if v.DefaultPaths {
		system, err := x509.SystemCertPool()
		if err != nil {
			return nil, engineError("load system roots", err)
		}
		pool = system
	}
	for _, root := range v.Roots {
		if root != nil {
			pool.AddCert(root.cert)
		}
	}
	return pool, nil
}

// diagnose walks the issuer links of chain, using the supplied intermediates and
// the configured roots as candidates, and returns the first reason an issuer
// cannot sign the certificate below it. It returns "" when every link found is
// acceptable.
func (v *CertificateVerifier) diagnose(chain []*Certificate) string {
	now := v.CurrentTime
	if now.IsZero() {
		now = time.Now()
	}

	candidates := toX509(chain[1:])
	for _, root := range v.Roots {
		if root != nil {
			candidates = append(candidates, root.cert)
		}
	}

	cur := chain[0].cert
	for depth := 1; depth <= len(candidates); depth++ {
		issuer := findIssuer(cur, candidates)
		if issuer == nil {
			return ""
		}

		switch {
		case !issuer.BasicConstraintsValid || !issuer.IsCA:
			return ReasonNotAuthorizedToSign
		case issuer.KeyUsage != 0 && issuer.KeyUsage&x509.KeyUsageCertSign == 0:
			return ReasonKeyUsageForbidsSign
		case now.Before(issuer.NotBefore) || now.After(issuer.NotAfter):
			return ReasonExpired
		case issuer.MaxPathLen >= 0 && depth-1 > issuer.MaxPathLen:
			return ReasonPathLengthExceeded
		}

		if bytes.Equal(issuer.RawSubject, issuer.RawIssuer) {
			return ""
		}
		cur = issuer
	}
	return ""
}

// findIssuer returns the candidate whose name and key produced the signature on cert.
func findIssuer(cert *x509.Certificate, candidates []*x509.Certificate) *x509.Certificate {
	for _, c := range candidates {
		if c.Equal(cert) || !bytes.Equal(c.RawSubject, cert.RawIssuer) {
			continue
		}
		if c.CheckSignature(cert.SignatureAlgorithm, cert.RawTBSCertificate, cert.Signature) == nil {
			return c
		}
	}
	return nil
}
