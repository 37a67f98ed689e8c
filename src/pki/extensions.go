// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package pki

import (
	"crypto"
	"crypto/sha1"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"errors"
	"math/bits"
	"net/netip"

	"golang.org/x/crypto/cryptobyte"
	cryptobyte_asn1 "golang.org/x/crypto/cryptobyte/asn1"
)

var (
	oidExtensionSubjectKeyId     = asn1.ObjectIdentifier{2, 5, 29, 14}
	oidExtensionKeyUsage         = asn1.ObjectIdentifier{2, 5, 29, 15}
	oidExtensionSubjectAltName   = asn1.ObjectIdentifier{2, 5, 29, 17}
	oidExtensionBasicConstraints = asn1.ObjectIdentifier{2, 5, 29, 19}
	oidExtensionAuthorityKeyId   = asn1.ObjectIdentifier{2, 5, 29, 35}
	oidExtensionExtendedKeyUsage = asn1.ObjectIdentifier{2, 5, 29, 37}
)

var (
	errMissingSubjectPublicKey = errors.New("malformed subjectPublicKeyInfo")
	errKeyUsageOutOfRange      = errors.New("key usage bit out of range")
)

// UnlimitedPathLen leaves the pathLenConstraint out of a CA basicConstraints extension.
const UnlimitedPathLen = -1

// Context specific GeneralName tags used in subjectAltName.
const (
	generalNameDNS = 2
	generalNameIP  = 7
)

// extensionSet holds the inputs needed to produce the extension list of one certificate.
type extensionSet struct {
	profile   profile
	pathLen   int
	subject   crypto.PublicKey
	authKeyID []byte
	altNames  []string
}

// build returns the extensions in their fixed order: basicConstraints,
// subjectKeyIdentifier, authorityKeyIdentifier, extendedKeyUsage, keyUsage,
// subjectAltName. extendedKeyUsage is omitted for CA profiles and subjectAltName
// when there are no alternative names.
func (s extensionSet) build() ([]pkix.Extension, error) {
	ski, err := subjectKeyID(s.subject)
	if err != nil {
		return nil, err
	}
	aki := s.authKeyID
	if len(aki) == 0 {
		aki = ski
	}

	exts := make([]pkix.Extension, 0, 6)
	add := func(id asn1.ObjectIdentifier, critical bool, value []byte, err error) error {
		if err != nil {
			return err
		}
		exts = append(exts, pkix.Extension{Id: id, Critical: critical, Value: value})
		return nil
	}

	value, err := marshalBasicConstraints(s.profile.isCA, s.pathLen)
	if err := add(oidExtensionBasicConstraints, true, value, err); err != nil {
		return nil, engineError("encode basicConstraints", err)
	}

	value, err = marshalOctetString(ski)
	if err := add(oidExtensionSubjectKeyId, false, value, err); err != nil {
		return nil, engineError("encode subjectKeyIdentifier", err)
	}

	value, err = marshalAuthorityKeyID(aki)
	if err := add(oidExtensionAuthorityKeyId, false, value, err); err != nil {
		return nil, engineError("encode authorityKeyIdentifier", err)
	}

	if !s.profile.isCA {
		value, err = marshalExtKeyUsage(s.profile.extKeyUsage)
		if err := add(oidExtensionExtendedKeyUsage, true, value, err); err != nil {
			return nil, engineError("encode extendedKeyUsage", err)
		}
	}

	value, err = marshalKeyUsage(s.profile.keyUsage)
	if err := add(oidExtensionKeyUsage, true, value, err); err != nil {
		return nil, engineError("encode keyUsage", err)
	}

	if len(s.altNames) > 0 {
		value, err = marshalSubjectAltName(s.altNames)
		if err := add(oidExtensionSubjectAltName, false, value, err); err != nil {
			return nil, engineError("encode subjectAltName", err)
		}
	}

	return exts, nil
}

// subjectKeyID is the SHA-1 hash of the subjectPublicKey BIT STRING (RFC 5280, 4.2.1.2 method 1).
func subjectKeyID(pub crypto.PublicKey) ([]byte, error) {
	spki, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, engineError("encode public key", err)
	}

	var (
		input     = cryptobyte.String(spki)
		info      cryptobyte.String
		publicKey []byte
	)
	if !input.ReadASN1(&info, cryptobyte_asn1.SEQUENCE) ||
		!info.SkipASN1(cryptobyte_asn1.SEQUENCE) ||
		!info.ReadASN1BitStringAsBytes(&publicKey) {
		return nil, engineError("hash public key", errMissingSubjectPublicKey)
	}

	sum := sha1.Sum(publicKey)
	return sum[:], nil
}

// issuerKeyID returns the key identifier of an issuing certificate, preferring
// its own subjectKeyIdentifier extension.
func issuerKeyID(issuer *x509.Certificate) ([]byte, error) {
	if len(issuer.SubjectKeyId) > 0 {
		return issuer.SubjectKeyId, nil
	}
	return subjectKeyID(issuer.PublicKey)
}

func marshalBasicConstraints(isCA bool, pathLen int) ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1(cryptobyte_asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		if !isCA {
			return
		}
		b.AddASN1Boolean(true)
		if pathLen >= 0 {
			b.AddASN1Int64(int64(pathLen))
		}
	})
	return b.Bytes()
}

func marshalOctetString(data []byte) ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1OctetString(data)
	return b.Bytes()
}

func marshalAuthorityKeyID(keyID []byte) ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1(cryptobyte_asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1(cryptobyte_asn1.Tag(0).ContextSpecific(), func(b *cryptobyte.Builder) {
			b.AddBytes(keyID)
		})
	})
	return b.Bytes()
}

func marshalExtKeyUsage(oids []asn1.ObjectIdentifier) ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1(cryptobyte_asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		for _, oid := range oids {
			b.AddASN1ObjectIdentifier(oid)
		}
	})
	return b.Bytes()
}

// marshalKeyUsage encodes the usage bits as a DER BIT STRING with trailing zero bits trimmed.
func marshalKeyUsage(ku x509.KeyUsage) ([]byte, error) {
	if ku >= 1<<9 {
		return nil, errKeyUsageOutOfRange
	}

	data := []byte{bits.Reverse8(uint8(ku)), bits.Reverse8(uint8(ku >> 8))}
	if data[1] == 0 {
		data = data[:1]
	}
	last := data[len(data)-1]
	unused := uint8(bits.TrailingZeros8(last))
	if last == 0 {
		unused = 0
	}

	var b cryptobyte.Builder
	b.AddASN1(cryptobyte_asn1.BIT_STRING, func(b *cryptobyte.Builder) {
		b.AddUint8(unused)
		b.AddBytes(data)
	})
	return b.Bytes()
}

// marshalSubjectAltName encodes names in the given order. IPv4 literals become
// iPAddress entries, everything else a dNSName.
func marshalSubjectAltName(names []string) ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1(cryptobyte_asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		for _, name := range names {
			if addr, err := netip.ParseAddr(name); err == nil && addr.Is4() {
				ip := addr.As4()
				b.AddASN1(cryptobyte_asn1.Tag(generalNameIP).ContextSpecific(), func(b *cryptobyte.Builder) {
					b.AddBytes(ip[:])
				})
				continue
			}
			b.AddASN1(cryptobyte_asn1.Tag(generalNameDNS).ContextSpecific(), func(b *cryptobyte.Builder) {
				b.AddBytes([]byte(name))
			})
		}
	})
	return b.Bytes()
}
