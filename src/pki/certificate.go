// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package pki

import (
	"crypto/x509"
	"math/big"
	"time"

	x509certs "github.com/H0llyW00dzZ/x509-chain-builder/src/internal/x509/certs"
)

// codec is the shared certificate encoder/decoder.
var codec = x509certs.New()

// Certificate is an immutable, signed [X.509] certificate.
//
// [X.509]: https://grokipedia.com/page/X.509
type Certificate struct {
	cert *x509.Certificate
}

// NewCertificate wraps a parsed certificate.
func NewCertificate(cert *x509.Certificate) *Certificate { return &Certificate{cert: cert} }

// CertificateFromDER parses a DER encoded certificate.
func CertificateFromDER(der []byte) (*Certificate, error) {
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, engineError("parse certificate", err)
	}
	return &Certificate{cert: cert}, nil
}

// CertificateFromPEM parses the first PEM certificate block in data.
func CertificateFromPEM(data []byte) (*Certificate, error) {
	if !codec.IsPEM(data) {
		return nil, engineError("parse certificate", x509certs.ErrInvalidPEMBlock)
	}
	cert, err := codec.Decode(data)
	if err != nil {
		return nil, engineError("parse certificate", err)
	}
	return &Certificate{cert: cert}, nil
}

// DER returns the DER encoding of the certificate.
func (c *Certificate) DER() []byte { return codec.EncodeDER(c.cert) }

// PEM returns the certificate as a "CERTIFICATE" PEM block.
func (c *Certificate) PEM() []byte { return codec.EncodePEM(c.cert) }

// X509 returns the parsed certificate. It must not be modified.
func (c *Certificate) X509() *x509.Certificate { return c.cert }

// SubjectName returns the subject distinguished name in encoding order.
func (c *Certificate) SubjectName() CertName {
	name, err := parseCertName(c.cert.RawSubject)
	if err != nil {
		// x509.ParseCertificate has already validated the name.
		return CertName{seq: c.cert.Subject.ToRDNSequence()}
	}
	return name
}

// IssuerName returns the issuer distinguished name in encoding order.
func (c *Certificate) IssuerName() CertName {
	name, err := parseCertName(c.cert.RawIssuer)
	if err != nil {
		return CertName{seq: c.cert.Issuer.ToRDNSequence()}
	}
	return name
}

// SerialNumber returns a copy of the certificate serial number.
func (c *Certificate) SerialNumber() *big.Int { return new(big.Int).Set(c.cert.SerialNumber) }

// NotBefore returns the start of the validity window.
func (c *Certificate) NotBefore() time.Time { return c.cert.NotBefore }

// NotAfter returns the end of the validity window.
func (c *Certificate) NotAfter() time.Time { return c.cert.NotAfter }

// IsSelfIssued reports whether subject and issuer names are identical.
func (c *Certificate) IsSelfIssued() bool {
	return string(c.cert.RawSubject) == string(c.cert.RawIssuer)
}

// Equal reports whether both certificates have identical DER encodings.
func (c *Certificate) Equal(other *Certificate) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.cert.Equal(other.cert)
}

func toX509(certs []*Certificate) []*x509.Certificate {
	out := make([]*x509.Certificate, len(certs))
	for i, c := range certs {
		out[i] = c.cert
	}
	return out
}

func fromX509(certs []*x509.Certificate) []*Certificate {
	out := make([]*Certificate, len(certs))
	for i, c := range certs {
		out[i] = &Certificate{cert: c}
	}
	return out
}
