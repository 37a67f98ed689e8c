// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509certs

import (
	"bytes"
	"crypto/x509"
	"encoding/pem"
	"errors"

	"github.com/H0llyW00dzZ/x509-chain-builder/src/internal/helper/gc"
	"github.com/cloudflare/cfssl/crypto/pkcs7"
)

var (
	// ErrInvalidPEMBlock indicates that the provided data does not contain a valid PEM block.
	ErrInvalidPEMBlock = errors.New("x509certs: invalid PEM block")

	// ErrInvalidBlockType indicates that the PEM block type is not the expected certificate type.
	ErrInvalidBlockType = errors.New("x509certs: invalid block type")

	// ErrParseCertificate indicates a failure to parse the certificate from the provided data.
	ErrParseCertificate = errors.New("x509certs: failed to parse certificate")

	// ErrParsePKCS7 indicates a failure to parse PKCS7 formatted data.
	ErrParsePKCS7 = errors.New("x509certs: failed to parse PKCS7 data")

	// ErrNoCertificatesInPKCS indicates that no certificates were found in the PKCS7 data.
	ErrNoCertificatesInPKCS = errors.New("x509certs: no certificates found in PKCS7 data")

	// ErrNoPrivateKey indicates that a key bundle does not contain a private key block.
	ErrNoPrivateKey = errors.New("x509certs: no private key block found")

	// ErrMultiplePrivateKeys indicates that a key bundle contains more than one private key block.
	ErrMultiplePrivateKeys = errors.New("x509certs: more than one private key block found")

	// ErrTruncatedBlock indicates bundle data that is not a complete PEM block.
	ErrTruncatedBlock = errors.New("x509certs: truncated PEM block")
)

var pemBegin = []byte("-----BEGIN")

// privateKeyBlockTypes lists the PEM block types accepted as the key of a bundle.
var privateKeyBlockTypes = map[string]bool{
	"PRIVATE KEY":     true,
	"RSA PRIVATE KEY": true,
	"EC PRIVATE KEY":  true,
}

// Certificate provides methods to decode and encode [X.509] certificates and
// key bundles. It maintains internal configuration such as the certificate block type.
//
// [X.509]: https://en.wikipedia.org/wiki/X.509
type Certificate struct {
	certBlockType string
}

// New creates a new Certificate with default settings.
func New() *Certificate {
	return &Certificate{
		certBlockType: "CERTIFICATE",
	}
}

// IsPEM checks if the data is in PEM format.
func (c *Certificate) IsPEM(data []byte) bool {
	block, _ := pem.Decode(data)
	return block != nil
}

// decodePEMBlock decodes a PEM block and checks its type.
func (c *Certificate) decodePEMBlock(data []byte) (*pem.Block, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, ErrInvalidPEMBlock
	}
	if block.Type != c.certBlockType {
		return nil, ErrInvalidBlockType
	}
	return block, nil
}

// DecodeMultiple decodes one or more certificates from PEM, concatenated DER or a PKCS7 bundle.
func (c *Certificate) DecodeMultiple(data []byte) ([]*x509.Certificate, error) {
	if c.IsPEM(data) {
		var certs []*x509.Certificate

		for len(data) > 0 {
			block, rest := pem.Decode(data)
			if block == nil {
				break
			}
			if block.Type != c.certBlockType {
				return nil, ErrInvalidBlockType
			}

			cert, err := x509.ParseCertificate(block.Bytes)
			if err != nil {
				return nil, ErrParseCertificate
			}

			certs = append(certs, cert)
			data = rest
		}

		return certs, nil
	}

	certs, err := x509.ParseCertificates(data)
	if err == nil {
		return certs, nil
	}

	p, err := pkcs7.ParsePKCS7(data)
	if err != nil {
		return nil, ErrParseCertificate
	}
	if len(p.Content.SignedData.Certificates) == 0 {
		return nil, ErrNoCertificatesInPKCS
	}

	return p.Content.SignedData.Certificates, nil
}

// Decode decodes a single certificate from data.
func (c *Certificate) Decode(data []byte) (*x509.Certificate, error) {
	if c.IsPEM(data) {
		block, err := c.decodePEMBlock(data)
		if err != nil {
			return nil, err
		}

		data = block.Bytes
	}

	cert, err := x509.ParseCertificate(data)
	if err == nil {
		return cert, nil
	}

	// Attempt to parse as PKCS7 using Cloudflare's library
	p, err := pkcs7.ParsePKCS7(data)
	if err != nil {
		return nil, ErrParsePKCS7
	}
	if len(p.Content.SignedData.Certificates) == 0 {
		return nil, ErrNoCertificatesInPKCS
	}

	return p.Content.SignedData.Certificates[0], nil
}

// DecodeBundle scans a PEM bundle holding exactly one private key block and any
// number of certificate blocks, in any order. Certificates are returned in the
// order they appear. The key is returned as the raw DER bytes of its block
// together with the block type.
//
// Non-whitespace data that does not form a complete PEM block is reported as
// [ErrTruncatedBlock]; blocks that are neither keys nor certificates are
// reported as [ErrInvalidBlockType].
func (c *Certificate) DecodeBundle(data []byte) (keyType string, keyDER []byte, certs []*x509.Certificate, err error) {
	rest := data
	for {
		trimmed := bytes.TrimLeft(rest, " \t\r\n")
		if len(trimmed) == 0 {
			break
		}
		if !bytes.HasPrefix(trimmed, pemBegin) {
			return "", nil, nil, ErrTruncatedBlock
		}

		// pem.Decode skips over a broken block to the next BEGIN line, so
		// the decoded block must be the one starting here.
		block, next := pem.Decode(trimmed)
		if block == nil {
			return "", nil, nil, ErrTruncatedBlock
		}
		consumed := trimmed[len(pemBegin) : len(trimmed)-len(next)]
		if bytes.Contains(consumed, pemBegin) {
			return "", nil, nil, ErrTruncatedBlock
		}
		rest = next

		switch {
		case block.Type == c.certBlockType:
			cert, err := x509.ParseCertificate(block.Bytes)
			if err != nil {
				return "", nil, nil, ErrParseCertificate
			}
			certs = append(certs, cert)
		case privateKeyBlockTypes[block.Type]:
			if keyDER != nil {
				return "", nil, nil, ErrMultiplePrivateKeys
			}
			keyType, keyDER = block.Type, block.Bytes
		default:
			return "", nil, nil, ErrInvalidBlockType
		}
	}

	if keyDER == nil {
		return "", nil, nil, ErrNoPrivateKey
	}

	return keyType, keyDER, certs, nil
}

// EncodePEM encodes a certificate to PEM format.
func (c *Certificate) EncodePEM(cert *x509.Certificate) []byte {
	block := pem.Block{
		Type:  c.certBlockType,
		Bytes: cert.Raw,
	}
	return pem.EncodeToMemory(&block)
}

// EncodeDER encodes a certificate to DER format.
func (c *Certificate) EncodeDER(cert *x509.Certificate) []byte { return cert.Raw }

// EncodeMultiplePEM encodes multiple certificates to PEM format.
func (c *Certificate) EncodeMultiplePEM(certs []*x509.Certificate) []byte {
	buf := gc.Default.Get()
	defer func() {
		buf.Reset()
		gc.Default.Put(buf)
	}()

	for _, cert := range certs {
		c.writePEM(buf, c.certBlockType, cert.Raw)
	}

	return bytes.Clone(buf.Bytes())
}

// EncodeMultipleDER encodes multiple certificates to DER format.
func (c *Certificate) EncodeMultipleDER(certs []*x509.Certificate) []byte {
	var data []byte

	for _, cert := range certs {
		data = append(data, c.EncodeDER(cert)...)
	}

	return data
}

// EncodeBundle encodes a PKCS#8 private key followed by the certificates, in order,
// as one PEM document.
func (c *Certificate) EncodeBundle(keyPKCS8 []byte, certs []*x509.Certificate) []byte {
	buf := gc.Default.Get()
	defer func() {
		buf.Reset()
		gc.Default.Put(buf)
	}()

	c.writePEM(buf, "PRIVATE KEY", keyPKCS8)
	for _, cert := range certs {
		c.writePEM(buf, c.certBlockType, cert.Raw)
	}

	return bytes.Clone(buf.Bytes())
}

// writePEM appends one PEM block to buf. Writes to a pooled buffer cannot fail.
func (c *Certificate) writePEM(buf gc.Buffer, blockType string, der []byte) {
	_, _ = buf.Write(pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der}))
}
