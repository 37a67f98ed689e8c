// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package pki

import (
	"crypto/rand"
	"crypto/x509"
	"fmt"
	"math/big"
	"slices"
	"time"
)

// DefaultValidity is the validity period applied when NotAfter is not configured.
const DefaultValidity = 825 * 24 * time.Hour

// Defaults for the key generated when [CertificateBuilder.PrivateKey] is nil.
// DefaultKeyBits applies to RSA only; EC keys default to P-256.
const (
	DefaultKeyType = KeyTypeRSA
	DefaultKeyBits = 2048
)

// CertificateBuilder configures and issues one certificate.
//
// Without a Signer the certificate is self-signed. With a Signer it is issued by
// the signer's leaf certificate and key, and the resulting [KeyStore] carries the
// new certificate followed by the signer's whole chain. Chains are built one link
// at a time by using the result of one Build as the Signer of the next.
//
// The builder reads Signer but never modifies it. A builder is not safe for
// concurrent use; independent builders may run in parallel, even with the same Signer.
//
// Defaults are set only by [NewCertificateBuilder]. A struct literal has a zero
// validity window, which Build rejects with [ErrTime], and a PathLen of 0 rather
// than [UnlimitedPathLen].
type CertificateBuilder struct {
	// Signer issues the certificate. Nil produces a self-signed certificate.
	Signer *KeyStore

	// Subject is the distinguished name of the certificate. The zero value is an empty name.
	Subject CertName

	// Usage selects the extension profile.
	Usage CertUsage

	// AltNames are encoded as subjectAltName entries in order. IPv4 literals become
	// IP entries, all other values DNS entries.
	AltNames []string

	// NotBefore and NotAfter bound the validity window.
	NotBefore time.Time
	NotAfter  time.Time

	// SerialNumber is used when set. Otherwise Serials assigns one.
	SerialNumber *big.Int

	// Serials assigns serial numbers when SerialNumber is nil. Nil selects a
	// process-wide [MonotonicMillis].
	Serials SerialSource

	// PathLen limits the number of intermediates below a CA certificate.
	// [UnlimitedPathLen] omits the constraint. Ignored for non-CA usages.
	PathLen int

	// PrivateKey is the key of the new certificate. Nil generates a key of
	// KeyType and KeyBits. A zero KeyBits selects 2048 for RSA and 256 for EC.
	PrivateKey *PrivateKey
	KeyType    KeyType
	KeyBits    int
}

// NewCertificateBuilder returns a builder for a server certificate valid from now
// for [DefaultValidity], with a fresh RSA key and a time-derived serial number.
// KeyBits is left at 0 so that switching KeyType alone picks that type's default size.
func NewCertificateBuilder() *CertificateBuilder {
	now := time.Now()
	return &CertificateBuilder{
		Usage:     UsageServer,
		NotBefore: now,
		NotAfter:  now.Add(DefaultValidity),
		PathLen:   UnlimitedPathLen,
		KeyType:   DefaultKeyType,
	}
}

// Build issues the certificate and returns it in a new [KeyStore] together with
// its private key.
//
// Returns:
//   - [ErrTime] if NotBefore or NotAfter precede the Unix epoch
//   - [ErrInvalidParameters] for an unknown usage, an inverted validity window,
//     a negative serial number or a path length below [UnlimitedPathLen]
//   - [ErrEngine] for key generation, encoding or signing failures
func (b *CertificateBuilder) Build() (*KeyStore, error) {
	prof, err := b.Usage.profile()
	if err != nil {
		return nil, err
	}
	if err := b.checkValidity(); err != nil {
		return nil, err
	}
	if b.PathLen < UnlimitedPathLen {
		return nil, fmt.Errorf("%w: path length %d", ErrInvalidParameters, b.PathLen)
	}

	key, err := b.resolveKey()
	if err != nil {
		return nil, err
	}

	subject, err := b.Subject.DER()
	if err != nil {
		return nil, err
	}

	serial, err := b.resolveSerial()
	if err != nil {
		return nil, err
	}

	template := &x509.Certificate{
		SerialNumber: serial,
		RawSubject:   subject,
		NotBefore:    b.NotBefore,
		NotAfter:     b.NotAfter,
	}

	// Self-signed unless a signer is configured.
	parent, signerKey, authKeyID := template, key, []byte(nil)
	if b.Signer != nil {
		parent = b.Signer.Leaf().X509()
		signerKey = b.Signer.PrivateKey()
		if authKeyID, err = issuerKeyID(parent); err != nil {
			return nil, err
		}
	}
	template.SignatureAlgorithm = signerKey.signatureAlgorithm()

	exts := extensionSet{
		profile:   prof,
		pathLen:   b.PathLen,
		subject:   key.Public(),
		authKeyID: authKeyID,
		altNames:  b.AltNames,
	}
	if template.ExtraExtensions, err = exts.build(); err != nil {
		return nil, err
	}

	der, err := x509.CreateCertificate(rand.Reader, template, parent, key.Public(), signerKey.Signer())
	if err != nil {
		return nil, engineError("sign certificate", err)
	}
	cert, err := CertificateFromDER(der)
	if err != nil {
		return nil, err
	}

	chain := []*Certificate{cert}
	if b.Signer != nil {
		chain = slices.Concat(chain, b.Signer.certs)
	}
	return NewKeyStore(key, chain...)
}

func (b *CertificateBuilder) checkValidity() error {
	if _, err := epochMillis(b.NotBefore); err != nil {
		return err
	}
	if _, err := epochMillis(b.NotAfter); err != nil {
		return err
	}
	if b.NotAfter.Before(b.NotBefore) {
		return fmt.Errorf("%w: not after %s precedes not before %s", ErrInvalidParameters,
			b.NotAfter.UTC().Format(time.RFC3339), b.NotBefore.UTC().Format(time.RFC3339))
	}
	return nil
}

func (b *CertificateBuilder) resolveKey() (*PrivateKey, error) {
	if b.PrivateKey != nil {
		return b.PrivateKey, nil
	}
	bits := b.KeyBits
	if bits == 0 {
		bits = DefaultKeyBits
		if b.KeyType == KeyTypeEC {
			bits = 256
		}
	}
	return NewPrivateKey(b.KeyType, bits)
}

func (b *CertificateBuilder) resolveSerial() (*big.Int, error) {
	if b.SerialNumber != nil {
		if b.SerialNumber.Sign() < 0 {
			return nil, fmt.Errorf("%w: negative serial number", ErrInvalidParameters)
		}
		return new(big.Int).Set(b.SerialNumber), nil
	}

	src := b.Serials
	if src == nil {
		src = defaultSerials
	}
	return src.NextSerial()
}
