// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package pki

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/youmark/pkcs8"
)

// KeyType identifies the algorithm of a [PrivateKey].
type KeyType int

const (
	// KeyTypeRSA is an RSA key.
	KeyTypeRSA KeyType = iota
	// KeyTypeEC is an ECDSA key on a NIST curve.
	KeyTypeEC
)

// String returns "RSA" or "EC".
func (t KeyType) String() string {
	switch t {
	case KeyTypeRSA:
		return "RSA"
	case KeyTypeEC:
		return "EC"
	default:
		return fmt.Sprintf("KeyType(%d)", int(t))
	}
}

const privateKeyBlockType = "PRIVATE KEY"

// PrivateKey holds RSA or EC private key material.
type PrivateKey struct {
	signer crypto.Signer
}

// NewRSAKey generates an RSA private key of the given bit length.
func NewRSAKey(bits int) (*PrivateKey, error) {
	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, engineError("generate RSA key", err)
	}
	return &PrivateKey{signer: key}, nil
}

// NewECKey generates an ECDSA private key. bits selects the curve:
// 256 (P-256), 384 (P-384) or 521 (P-521).
func NewECKey(bits int) (*PrivateKey, error) {
	var curve elliptic.Curve
	switch bits {
	case 256:
		curve = elliptic.P256()
	case 384:
		curve = elliptic.P384()
	case 521:
		curve = elliptic.P521()
	default:
		return nil, fmt.Errorf("%w: unsupported EC key size %d", ErrInvalidParameters, bits)
	}

	key, err := ecdsa.GenerateKey(curve, rand.Reader)
	if err != nil {
		return nil, engineError("generate EC key", err)
	}
	return &PrivateKey{signer: key}, nil
}

// NewPrivateKey generates a key of the given type and size.
func NewPrivateKey(t KeyType, bits int) (*PrivateKey, error) {
	switch t {
	case KeyTypeRSA:
		return NewRSAKey(bits)
	case KeyTypeEC:
		return NewECKey(bits)
	default:
		return nil, fmt.Errorf("%w: unsupported key type %s", ErrInvalidParameters, t)
	}
}

// PrivateKeyFromSigner wraps an existing RSA or ECDSA key.
func PrivateKeyFromSigner(signer crypto.Signer) (*PrivateKey, error) {
	switch signer.(type) {
	case *rsa.PrivateKey, *ecdsa.PrivateKey:
		return &PrivateKey{signer: signer}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported private key type %T", ErrInvalidParameters, signer)
	}
}

// PrivateKeyFromDER parses an unencrypted PKCS#8, PKCS#1 (RSA) or SEC 1 (EC) DER key.
func PrivateKeyFromDER(der []byte) (*PrivateKey, error) {
	if key, err := x509.ParsePKCS8PrivateKey(der); err == nil {
		return fromParsedKey(key)
	}
	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return &PrivateKey{signer: key}, nil
	}
	key, err := x509.ParseECPrivateKey(der)
	if err != nil {
		return nil, engineError("parse private key", errors.New("not a PKCS#8, PKCS#1 or SEC 1 private key"))
	}
	return &PrivateKey{signer: key}, nil
}

// PrivateKeyFromEncryptedDER parses a password protected PKCS#8 DER key.
func PrivateKeyFromEncryptedDER(der []byte, password string) (*PrivateKey, error) {
	key, err := pkcs8.ParsePKCS8PrivateKey(der, []byte(password))
	if err != nil {
		return nil, engineError("parse encrypted private key", err)
	}
	return fromParsedKey(key)
}

// PrivateKeyFromPEM parses the first private key block found in data.
func PrivateKeyFromPEM(data []byte) (*PrivateKey, error) {
	for len(data) > 0 {
		block, rest := pem.Decode(data)
		if block == nil {
			break
		}
		switch block.Type {
		case privateKeyBlockType, "RSA PRIVATE KEY", "EC PRIVATE KEY":
			return PrivateKeyFromDER(block.Bytes)
		}
		data = rest
	}
	return nil, engineError("parse private key", errors.New("no private key PEM block found"))
}

func fromParsedKey(key any) (*PrivateKey, error) {
	signer, ok := key.(crypto.Signer)
	if !ok {
		return nil, engineError("parse private key", fmt.Errorf("unsupported private key type %T", key))
	}
	pk, err := PrivateKeyFromSigner(signer)
	if err != nil {
		return nil, engineError("parse private key", err)
	}
	return pk, nil
}

// DER returns the key in unencrypted PKCS#8 DER form.
func (k *PrivateKey) DER() ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(k.signer)
	if err != nil {
		return nil, engineError("encode private key", err)
	}
	return der, nil
}

// EncryptedDER returns the key as a password protected PKCS#8 DER container
// (PBES2, PBKDF2 with AES-256-CBC).
func (k *PrivateKey) EncryptedDER(password string) ([]byte, error) {
	der, err := pkcs8.MarshalPrivateKey(k.signer, []byte(password), nil)
	if err != nil {
		return nil, engineError("encrypt private key", err)
	}
	return der, nil
}

// PEM returns the key as a PKCS#8 "PRIVATE KEY" PEM block.
func (k *PrivateKey) PEM() ([]byte, error) {
	der, err := k.DER()
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(&pem.Block{Type: privateKeyBlockType, Bytes: der}), nil
}

// Type returns the key algorithm.
func (k *PrivateKey) Type() KeyType {
	if _, ok := k.signer.(*ecdsa.PrivateKey); ok {
		return KeyTypeEC
	}
	return KeyTypeRSA
}

// Bits returns the key size in bits.
func (k *PrivateKey) Bits() int {
	switch key := k.signer.(type) {
	case *rsa.PrivateKey:
		return key.N.BitLen()
	case *ecdsa.PrivateKey:
		return key.Curve.Params().BitSize
	default:
		return 0
	}
}

// Public returns the public half of the key.
func (k *PrivateKey) Public() crypto.PublicKey { return k.signer.Public() }

// Signer returns the key as a [crypto.Signer].
func (k *PrivateKey) Signer() crypto.Signer { return k.signer }

// signatureAlgorithm returns the fixed SHA-256 signature algorithm for the key.
func (k *PrivateKey) signatureAlgorithm() x509.SignatureAlgorithm {
	if k.Type() == KeyTypeEC {
		return x509.ECDSAWithSHA256
	}
	return x509.SHA256WithRSA
}
