// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509certs_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	x509certs "github.com/H0llyW00dzZ/x509-chain-builder/src/internal/x509/certs"
)

const (
	invalidPEM = `
-----BEGIN INVALID-----
MIIEmTCCBD+gAwIBAgIRANFjRCmF+Y2bUYHbhxwkEpowCgYIKoZIzj0EAwIwgY8x
-----END INVALID-----
`

	invalidCERT = `
-----BEGIN CERTIFICATE-----
MIIBIjANBgkqhkiG9w0BAQEFAAOCAQ8AMIIBCgKCAQEAz6e5VV5F8rF2sFJ0Q4vA
-----END CERTIFICATE-----
`
)

// newTestCert returns a self-signed certificate and the PKCS#8 encoding of its key.
func newTestCert(t *testing.T, cn string) (*x509.Certificate, []byte) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber: big.NewInt(time.Now().UnixNano()),
		Subject:      pkix.Name{CommonName: cn},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)
	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)

	keyDER, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	return cert, keyDER
}

func TestCertificateOperations(t *testing.T) {
	tests := []struct {
		name     string
		testFunc func(t *testing.T, decoder *x509certs.Certificate, cert *x509.Certificate)
	}{
		{
			name: "Decode PEM",
			testFunc: func(t *testing.T, decoder *x509certs.Certificate, cert *x509.Certificate) {
				decoded, err := decoder.Decode(decoder.EncodePEM(cert))
				require.NoError(t, err)
				assert.True(t, cert.Equal(decoded))
			},
		},
		{
			name: "Decode DER",
			testFunc: func(t *testing.T, decoder *x509certs.Certificate, cert *x509.Certificate) {
				decoded, err := decoder.Decode(decoder.EncodeDER(cert))
				require.NoError(t, err)
				assert.Equal(t, "leaf", decoded.Subject.CommonName)
			},
		},
		{
			name: "Decode Multiple Keeps Order",
			testFunc: func(t *testing.T, decoder *x509certs.Certificate, cert *x509.Certificate) {
				other, _ := newTestCert(t, "other")

				certs, err := decoder.DecodeMultiple(decoder.EncodeMultiplePEM([]*x509.Certificate{cert, other}))
				require.NoError(t, err)
				require.Len(t, certs, 2)
				assert.True(t, certs[0].Equal(cert))
				assert.True(t, certs[1].Equal(other))
			},
		},
		{
			name: "Decode Multiple DER",
			testFunc: func(t *testing.T, decoder *x509certs.Certificate, cert *x509.Certificate) {
				certs, err := decoder.DecodeMultiple(decoder.EncodeMultipleDER([]*x509.Certificate{cert, cert}))
				require.NoError(t, err)
				assert.Len(t, certs, 2)
			},
		},
		{
			name: "Encode PEM Block Type",
			testFunc: func(t *testing.T, decoder *x509certs.Certificate, cert *x509.Certificate) {
				block, _ := pem.Decode(decoder.EncodePEM(cert))
				require.NotNil(t, block)
				assert.Equal(t, "CERTIFICATE", block.Type)
				assert.Equal(t, cert.Raw, block.Bytes)
			},
		},
	}

	decoder := x509certs.New()
	cert, _ := newTestCert(t, "leaf")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.testFunc(t, decoder, cert)
		})
	}
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected error
	}{
		{name: "Invalid PEM Block Type", input: []byte(invalidPEM), expected: x509certs.ErrInvalidBlockType},
		{name: "Invalid Certificate", input: []byte(invalidCERT), expected: x509certs.ErrParsePKCS7},
		{name: "Garbage DER", input: []byte("not a certificate"), expected: x509certs.ErrParsePKCS7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := x509certs.New().Decode(tt.input)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestDecodeMultiple_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected error
	}{
		{name: "Invalid PEM Block Type", input: []byte(invalidPEM), expected: x509certs.ErrInvalidBlockType},
		{name: "Invalid Certificate", input: []byte(invalidCERT), expected: x509certs.ErrParseCertificate},
		{name: "Garbage", input: []byte("garbage"), expected: x509certs.ErrParseCertificate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := x509certs.New().DecodeMultiple(tt.input)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestCertificate_IsPEM(t *testing.T) {
	cert, _ := newTestCert(t, "leaf")
	decoder := x509certs.New()

	tests := []struct {
		name     string
		input    []byte
		expected bool
	}{
		{name: "Valid PEM", input: decoder.EncodePEM(cert), expected: true},
		{name: "Plain Text", input: []byte("not a pem block"), expected: false},
		{name: "Empty Input", input: nil, expected: false},
		{name: "Invalid Base64", input: []byte("-----BEGIN CERTIFICATE-----\ninvalid-base64\n-----END CERTIFICATE-----"), expected: false},
		{name: "DER", input: cert.Raw, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, decoder.IsPEM(tt.input))
		})
	}
}

func TestCertificate_Bundle(t *testing.T) {
	decoder := x509certs.New()
	leaf, keyDER := newTestCert(t, "leaf")
	issuer, _ := newTestCert(t, "issuer")

	t.Run("Round Trip", func(t *testing.T) {
		bundle := decoder.EncodeBundle(keyDER, []*x509.Certificate{leaf, issuer})

		keyType, gotKey, certs, err := decoder.DecodeBundle(bundle)
		require.NoError(t, err)
		assert.Equal(t, "PRIVATE KEY", keyType)
		assert.Equal(t, keyDER, gotKey)
		require.Len(t, certs, 2)
		assert.True(t, certs[0].Equal(leaf))
		assert.True(t, certs[1].Equal(issuer))
	})

	t.Run("Encoded Output Is Not Pooled", func(t *testing.T) {
		first := decoder.EncodeBundle(keyDER, []*x509.Certificate{leaf})
		snapshot := append([]byte(nil), first...)
		decoder.EncodeBundle(keyDER, []*x509.Certificate{issuer})
		assert.Equal(t, snapshot, first)
	})

	tests := []struct {
		name     string
		input    []byte
		expected error
	}{
		{
			name:     "No Private Key",
			input:    decoder.EncodeMultiplePEM([]*x509.Certificate{leaf}),
			expected: x509certs.ErrNoPrivateKey,
		},
		{
			name: "Two Private Keys",
			input: append(
				pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyDER}),
				decoder.EncodeBundle(keyDER, []*x509.Certificate{leaf})...),
			expected: x509certs.ErrMultiplePrivateKeys,
		},
		{
			name:     "Unknown Block",
			input:    append(decoder.EncodeBundle(keyDER, nil), invalidPEM...),
			expected: x509certs.ErrInvalidBlockType,
		},
		{
			name:     "Truncated Block",
			input:    append(decoder.EncodeBundle(keyDER, nil), "-----BEGIN CERTIFICATE-----\nMIIB"...),
			expected: x509certs.ErrTruncatedBlock,
		},
		{
			name: "Truncated Block Before Intact Block",
			input: append(
				append(decoder.EncodeBundle(keyDER, nil), "-----BEGIN CERTIFICATE-----\nMIIB\n"...),
				decoder.EncodePEM(issuer)...),
			expected: x509certs.ErrTruncatedBlock,
		},
		{
			name:     "Text Before First Block",
			input:    append([]byte("bag attributes\n"), decoder.EncodeBundle(keyDER, []*x509.Certificate{leaf})...),
			expected: x509certs.ErrTruncatedBlock,
		},
		{
			name:     "Broken Certificate",
			input:    append(decoder.EncodeBundle(keyDER, nil), invalidCERT...),
			expected: x509certs.ErrParseCertificate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := decoder.DecodeBundle(tt.input)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}
