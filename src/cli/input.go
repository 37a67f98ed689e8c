// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/H0llyW00dzZ/x509-chain-builder/src/internal/helper/gc"
	x509chain "github.com/H0llyW00dzZ/x509-chain-builder/src/internal/x509/chain"
	"github.com/H0llyW00dzZ/x509-chain-builder/src/pki"
	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// ErrInvalidSubject is returned for a subject string that is not a list of field=value pairs.
var ErrInvalidSubject = errors.New("cli: invalid subject")

// readFile reads path through a pooled buffer.
func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}
	defer f.Close()

	data, err := gc.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}
	return data, nil
}

// writeFile writes key or certificate material readable by the owner only.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	return nil
}

// isPKCS12Path reports whether path names a PKCS#12 archive by its extension.
func isPKCS12Path(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".p12", ".pfx":
		return true
	default:
		return false
	}
}

// loadKeyStore reads a PEM bundle or, for .p12 and .pfx files, a PKCS#12 archive.
func loadKeyStore(path, password string) (*pki.KeyStore, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	if isPKCS12Path(path) {
		return pki.FromPKCS12(data, password)
	}
	return pki.FromPEM(data)
}

// saveKeyStore writes ks as a PEM bundle or, for .p12 and .pfx files, a PKCS#12 archive.
// An empty alias is replaced by a random UUID.
func saveKeyStore(ks *pki.KeyStore, path, alias, password string) error {
	var (
		data []byte
		err  error
	)
	if isPKCS12Path(path) {
		if alias == "" {
			alias = ks.Alias()
		}
		if alias == "" {
			alias = uuid.NewString()
		}
		data, err = ks.ToPKCS12(alias, password)
	} else {
		data, err = ks.ToPEM()
	}
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

// loadChain reads certificates in PEM, DER or PKCS#7 form, or the certificates
// of a PEM key bundle, and orders them leaf first.
func loadChain(path string) (*x509chain.Chain, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	ch, err := x509chain.Load(data)
	if err == nil {
		return ch, nil
	}

	ks, bundleErr := pki.FromPEM(data)
	if bundleErr != nil {
		return nil, fmt.Errorf("error decoding %s: %w", path, err)
	}

	certs := ks.Certs()
	raw := make([]*x509.Certificate, len(certs))
	for i, c := range certs {
		raw[i] = c.X509()
	}
	ch = x509chain.New(raw...)
	ch.Order()
	return ch, nil
}

// parseSubject parses "C=US, O=Example, CN=host" into ordered name pairs.
// Commas inside a value are escaped as "\,". Values are normalized to NFC.
func parseSubject(s string) ([][2]string, error) {
	var (
		pairs [][2]string
		part  strings.Builder
		parts []string
	)

	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\\' && i+1 < len(s) && s[i+1] == ',':
			part.WriteByte(',')
			i++
		case s[i] == ',':
			parts = append(parts, part.String())
			part.Reset()
		default:
			part.WriteByte(s[i])
		}
	}
	parts = append(parts, part.String())

	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			continue
		}
		field, value, ok := strings.Cut(p, "=")
		field = strings.TrimSpace(field)
		if !ok || field == "" {
			return nil, fmt.Errorf("%w: %q is not field=value", ErrInvalidSubject, strings.TrimSpace(p))
		}
		pairs = append(pairs, [2]string{field, norm.NFC.String(strings.TrimSpace(value))})
	}
	return pairs, nil
}

// subjectName combines a subject string and an optional common name appended last.
// With neither given the common name is a random UUID.
func subjectName(subject, cn string) (pki.CertName, error) {
	pairs, err := parseSubject(subject)
	if err != nil {
		return pki.CertName{}, err
	}
	if cn != "" {
		pairs = append(pairs, [2]string{"CN", norm.NFC.String(cn)})
	}
	if len(pairs) == 0 {
		pairs = append(pairs, [2]string{"CN", uuid.NewString()})
	}
	return pki.NewCertName(pairs...)
}

// parseKeyType parses "rsa" or "ec".
func parseKeyType(s string) (pki.KeyType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "rsa":
		return pki.KeyTypeRSA, nil
	case "ec", "ecdsa":
		return pki.KeyTypeEC, nil
	default:
		return 0, fmt.Errorf("%w: unknown key type %q", pki.ErrInvalidParameters, s)
	}
}
