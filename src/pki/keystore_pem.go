// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package pki

import (
	"errors"
)

// ToPEM encodes the key store as an unprotected PEM bundle: a PKCS#8
// "PRIVATE KEY" block followed by one "CERTIFICATE" block per chain entry,
// leaf first.
//
// The output carries no password or integrity protection. Use [KeyStore.ToPKCS12]
// when the key must be protected at rest.
func (ks *KeyStore) ToPEM() ([]byte, error) {
	der, err := ks.key.DER()
	if err != nil {
		return nil, err
	}
	return codec.EncodeBundle(der, toX509(ks.certs)), nil
}

// FromPEM decodes a PEM bundle holding one private key and at least one certificate.
// Certificates are kept in the order they appear.
//
// A missing key, a missing certificate, an unknown block type or a truncated block
// is reported as [ErrDecode].
func FromPEM(data []byte) (*KeyStore, error) {
	_, keyDER, certs, err := codec.DecodeBundle(data)
	if err != nil {
		return nil, decodeError("decode PEM bundle", err)
	}
	if len(certs) == 0 {
		return nil, decodeError("decode PEM bundle", errors.New("no certificate block found"))
	}

	key, err := PrivateKeyFromDER(keyDER)
	if err != nil {
		return nil, decodeError("decode PEM bundle key", err)
	}
	return NewKeyStore(key, fromX509(certs)...)
}
