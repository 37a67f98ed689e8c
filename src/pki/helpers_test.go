// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package pki_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/H0llyW00dzZ/x509-chain-builder/src/pki"
)

const (
	testPassword = "changeit"
	testLeafCN   = "mycert"
)

// testChain is a three level chain: root CA, intermediate CA and a client leaf.
type testChain struct {
	root         *pki.KeyStore
	intermediate *pki.KeyStore
	leaf         *pki.KeyStore
}

func newECBuilder(t *testing.T, cn string, usage pki.CertUsage, signer *pki.KeyStore) *pki.CertificateBuilder {
	t.Helper()

	subject, err := pki.NewCertName([2]string{"C", "US"}, [2]string{"O", "Acme"}, [2]string{"CN", cn})
	require.NoError(t, err)

	b := pki.NewCertificateBuilder()
	b.Subject = subject
	b.Usage = usage
	b.Signer = signer
	b.KeyType = pki.KeyTypeEC
	b.KeyBits = 256
	return b
}

func buildCA(t *testing.T, cn string, signer *pki.KeyStore) *pki.KeyStore {
	t.Helper()

	b := newECBuilder(t, cn, pki.UsageCA, signer)
	b.NotAfter = b.NotBefore.Add(10 * 365 * 24 * time.Hour)
	store, err := b.Build()
	require.NoError(t, err, "Build() CA %s", cn)
	return store
}

func buildLeaf(t *testing.T, signer *pki.KeyStore, usage pki.CertUsage, altNames ...string) *pki.KeyStore {
	t.Helper()

	b := newECBuilder(t, testLeafCN, usage, signer)
	b.AltNames = altNames
	store, err := b.Build()
	require.NoError(t, err, "Build() leaf")
	return store
}

func newTestChain(t *testing.T) testChain {
	t.Helper()

	root := buildCA(t, "Root CA", nil)
	intermediate := buildCA(t, "Intermediate CA", root)
	leaf := buildLeaf(t, intermediate, pki.UsageClient, "192.168.1.1", "acme.home.lan")
	return testChain{root: root, intermediate: intermediate, leaf: leaf}
}

func commonName(t *testing.T, c *pki.Certificate) string {
	t.Helper()

	cn, ok := c.SubjectName().Get("CN")
	require.True(t, ok, "certificate has no CN")
	return cn
}
