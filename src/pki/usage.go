// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package pki

import (
	"crypto/x509"
	"encoding/asn1"
	"fmt"
	"strings"
)

// CertUsage selects the extension profile applied by [CertificateBuilder].
type CertUsage int

const (
	// UsageServer issues a TLS server certificate (serverAuth).
	UsageServer CertUsage = iota
	// UsageClient issues a TLS client certificate (clientAuth).
	UsageClient
	// UsageServerAndClient issues a certificate valid for both TLS roles.
	UsageServerAndClient
	// UsageCodeSign issues a code-signing certificate.
	UsageCodeSign
	// UsageCA issues a certificate authority able to sign other certificates.
	UsageCA
)

var (
	oidExtKeyUsageServerAuth  = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 3, 1}
	oidExtKeyUsageClientAuth  = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 3, 2}
	oidExtKeyUsageCodeSigning = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 3, 3}
)

const endEntityKeyUsage = x509.KeyUsageDigitalSignature |
	x509.KeyUsageContentCommitment |
	x509.KeyUsageKeyEncipherment |
	x509.KeyUsageDataEncipherment

// profile is the extension set a usage maps to.
type profile struct {
	name        string
	isCA        bool
	keyUsage    x509.KeyUsage
	extKeyUsage []asn1.ObjectIdentifier
}

// profiles is the single usage lookup table shared by the builder and the verifier.
var profiles = map[CertUsage]profile{
	UsageCA: {
		name:     "ca",
		isCA:     true,
		keyUsage: x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
	},
	UsageServer: {
		name:        "server",
		keyUsage:    endEntityKeyUsage,
		extKeyUsage: []asn1.ObjectIdentifier{oidExtKeyUsageServerAuth},
	},
	UsageClient: {
		name:        "client",
		keyUsage:    endEntityKeyUsage,
		extKeyUsage: []asn1.ObjectIdentifier{oidExtKeyUsageClientAuth},
	},
	UsageServerAndClient: {
		name:        "server-client",
		keyUsage:    endEntityKeyUsage,
		extKeyUsage: []asn1.ObjectIdentifier{oidExtKeyUsageServerAuth, oidExtKeyUsageClientAuth},
	},
	UsageCodeSign: {
		name:        "codesign",
		keyUsage:    endEntityKeyUsage,
		extKeyUsage: []asn1.ObjectIdentifier{oidExtKeyUsageCodeSigning},
	},
}

func (u CertUsage) profile() (profile, error) {
	p, ok := profiles[u]
	if !ok {
		return profile{}, fmt.Errorf("%w: unknown certificate usage %d", ErrInvalidParameters, int(u))
	}
	return p, nil
}

// IsCA reports whether the usage produces a certificate authority.
func (u CertUsage) IsCA() bool { return profiles[u].isCA }

// KeyUsage returns the keyUsage bits of the usage profile.
func (u CertUsage) KeyUsage() x509.KeyUsage { return profiles[u].keyUsage }

// String returns the usage name accepted by [ParseCertUsage].
func (u CertUsage) String() string {
	if p, ok := profiles[u]; ok {
		return p.name
	}
	return fmt.Sprintf("CertUsage(%d)", int(u))
}

// ParseCertUsage parses a usage name ("ca", "server", "client", "server-client", "codesign").
func ParseCertUsage(s string) (CertUsage, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for u, p := range profiles {
		if p.name == name {
			return u, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown certificate usage %q", ErrInvalidParameters, s)
}
