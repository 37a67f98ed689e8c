// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain

import (
	"crypto/x509"
	"slices"
	"sync"
	"time"

	x509certs "github.com/H0llyW00dzZ/x509-chain-builder/src/internal/x509/certs"
)

// Validity states reported by [Chain.ValidityStatus].
const (
	StatusValid       = "valid"
	StatusExpired     = "expired"
	StatusNotYetValid = "not yet valid"
)

// Chain manages an ordered [X.509] certificate chain for inspection and display.
//
// [X.509]: https://grokipedia.com/page/X.509
type Chain struct {
	mu    sync.RWMutex
	Certs []*x509.Certificate
	*x509certs.Certificate
}

// New creates a new Chain holding certs in the given order.
//
// Parameters:
//   - certs: Certificates, leaf first when the order is already known
//
// Returns:
//   - *Chain: New Chain instance
func New(certs ...*x509.Certificate) *Chain {
	return &Chain{
		Certs:       slices.Clone(certs),
		Certificate: x509certs.New(),
	}
}

// Load decodes PEM, DER or PKCS7 certificates from data and orders them leaf first.
//
// Parameters:
//   - data: Encoded certificates in any order
//
// Returns:
//   - *Chain: Ordered chain
//   - error: Decoding error
func Load(data []byte) (*Chain, error) {
	decoder := x509certs.New()
	certs, err := decoder.DecodeMultiple(data)
	if err != nil {
		return nil, err
	}

	ch := &Chain{Certs: certs, Certificate: decoder}
	ch.Order()
	return ch, nil
}

// Order rearranges the chain so that it starts with the leaf and each certificate
// is followed by its issuer. Certificates that do not belong to the leaf's path
// are kept after it in their original order.
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) Order() {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	if len(ch.Certs) < 2 {
		return
	}

	// The leaf issues nothing. A self-signed certificate is only chosen when
	// nothing else qualifies.
	var leaf *x509.Certificate
	for _, cert := range ch.Certs {
		if ch.issuesAny(cert) {
			continue
		}
		if !ch.IsSelfSigned(cert) {
			leaf = cert
			break
		}
		if leaf == nil {
			leaf = cert
		}
	}
	if leaf == nil {
		leaf = ch.Certs[0]
	}

	ordered := []*x509.Certificate{leaf}
	for cur := leaf; !ch.IsRootNode(cur); {
		issuer := ch.findIssuerForCertificate(cur)
		if issuer == nil || slices.Contains(ordered, issuer) {
			break
		}
		ordered = append(ordered, issuer)
		cur = issuer
	}

	for _, cert := range ch.Certs {
		if !slices.Contains(ordered, cert) {
			ordered = append(ordered, cert)
		}
	}
	ch.Certs = ordered
}

// Leaf returns the first certificate of the chain, or nil for an empty chain.
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) Leaf() *x509.Certificate {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	if len(ch.Certs) == 0 {
		return nil
	}
	return ch.Certs[0]
}

// IsSelfSigned checks if a certificate is self-signed.
//
// It verifies the certificate's signature against itself.
//
// Parameters:
//   - cert: Certificate to check
//
// Returns:
//   - bool: true if self-signed, false otherwise
func (ch *Chain) IsSelfSigned(cert *x509.Certificate) bool {
	return cert.CheckSignatureFrom(cert) == nil
}

// IsRootNode determines if a certificate is a root node in the chain.
//
// Parameters:
//   - cert: Certificate to check
//
// Returns:
//   - bool: true if it's a root certificate (currently checks if self-signed)
func (ch *Chain) IsRootNode(cert *x509.Certificate) bool {
	return ch.IsSelfSigned(cert)
}

// FilterIntermediates filters out the root and leaf certificates, returning only intermediates.
//
// Returns:
//   - []*x509.Certificate: Slice of intermediate certificates, or nil if none
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) FilterIntermediates() []*x509.Certificate {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	if len(ch.Certs) <= 2 {
		return nil
	}
	return slices.Clone(ch.Certs[1 : len(ch.Certs)-1])
}

// ValidityStatus reports, for each certificate serial number, whether the
// certificate is valid at the given time.
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) ValidityStatus(now time.Time) map[string]string {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	status := make(map[string]string, len(ch.Certs))
	for _, cert := range ch.Certs {
		switch {
		case now.Before(cert.NotBefore):
			status[cert.SerialNumber.String()] = StatusNotYetValid
		case now.After(cert.NotAfter):
			status[cert.SerialNumber.String()] = StatusExpired
		default:
			status[cert.SerialNumber.String()] = StatusValid
		}
	}
	return status
}

// issuesAny reports whether cert signed another certificate of the chain.
// The caller must hold ch.mu.
func (ch *Chain) issuesAny(cert *x509.Certificate) bool {
	for _, other := range ch.Certs {
		if other != cert && other.CheckSignatureFrom(cert) == nil {
			return true
		}
	}
	return false
}

// findIssuerForCertificate finds the certificate that issued the given cert in the chain.
// The caller must hold ch.mu.
//
// Parameters:
//   - cert: Certificate to find issuer for
//
// Returns:
//   - *x509.Certificate: Issuer certificate, or nil if not found
func (ch *Chain) findIssuerForCertificate(cert *x509.Certificate) *x509.Certificate {
	for i := len(ch.Certs) - 1; i >= 0; i-- {
		potentialIssuer := ch.Certs[i]
		if potentialIssuer == cert {
			continue
		}
		if err := cert.CheckSignatureFrom(potentialIssuer); err == nil {
			return potentialIssuer
		}
	}
	return nil
}
