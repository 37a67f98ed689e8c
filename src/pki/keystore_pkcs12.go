// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package pki

import (
	"errors"
	"fmt"

	"software.sslmate.com/src/go-pkcs12"

	"github.com/H0llyW00dzZ/x509-chain-builder/src/internal/x509/pfx"
)

// ToPKCS12 encodes the key store as a password protected PKCS#12 archive.
//
// The archive uses the modern profile (AES-256-CBC with PBKDF2 for shrouded keys,
// HMAC-SHA-256 for integrity). The chain order is preserved leaf-then-issuers.
//
// alias is stored as the friendlyName of the key entry and is recovered by
// [FromPKCS12]. It must not be empty and must fit in a BMPString.
func (ks *KeyStore) ToPKCS12(alias, password string) ([]byte, error) {
	if alias == "" {
		return nil, fmt.Errorf("%w: empty PKCS#12 alias", ErrInvalidParameters)
	}

	issuers := toX509(ks.certs[1:])
	data, err := pkcs12.Modern.Encode(ks.key.Signer(), ks.certs[0].X509(), issuers, password)
	if err != nil {
		return nil, engineError("encode PKCS#12", err)
	}
	data, err = pfx.SetFriendlyName(data, alias, password)
	if errors.Is(err, pfx.ErrNotBMP) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParameters, err)
	}
	if err != nil {
		return nil, engineError("set PKCS#12 alias", err)
	}
	return data, nil
}

// FromPKCS12 decodes a key store previously produced by [KeyStore.ToPKCS12].
//
// A wrong password or corrupt archive is reported as [ErrDecode]. The key
// entry's friendlyName, when present, becomes [KeyStore.Alias].
func FromPKCS12(data []byte, password string) (*KeyStore, error) {
	key, leaf, issuers, err := pkcs12.DecodeChain(data, password)
	if err != nil {
		if errors.Is(err, pkcs12.ErrIncorrectPassword) {
			return nil, decodeError("PKCS#12 password mismatch", err)
		}
		return nil, decodeError("decode PKCS#12", err)
	}

	pk, err := fromParsedKey(key)
	if err != nil {
		return nil, decodeError("decode PKCS#12 key", err)
	}

	alias, err := pfx.FriendlyName(data)
	if err != nil {
		return nil, decodeError("decode PKCS#12 alias", err)
	}

	certs := append([]*Certificate{NewCertificate(leaf)}, fromX509(issuers)...)
	ks, err := NewKeyStore(pk, certs...)
	if err != nil {
		return nil, err
	}
	ks.alias = alias
	return ks, nil
}
