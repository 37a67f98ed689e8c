// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package pki_test

import (
	"bytes"
	"crypto/x509"
	"encoding/asn1"
	"math/big"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/H0llyW00dzZ/x509-chain-builder/src/pki"
)

var (
	oidBasicConstraints = asn1.ObjectIdentifier{2, 5, 29, 19}
	oidSubjectKeyID     = asn1.ObjectIdentifier{2, 5, 29, 14}
	oidAuthorityKeyID   = asn1.ObjectIdentifier{2, 5, 29, 35}
	oidExtKeyUsage      = asn1.ObjectIdentifier{2, 5, 29, 37}
	oidKeyUsage         = asn1.ObjectIdentifier{2, 5, 29, 15}
	oidSubjectAltName   = asn1.ObjectIdentifier{2, 5, 29, 17}
)

func extensionIDs(cert *x509.Certificate) []string {
	ids := make([]string, len(cert.Extensions))
	for i, ext := range cert.Extensions {
		ids[i] = ext.Id.String()
	}
	return ids
}

func oidStrings(oids ...asn1.ObjectIdentifier) []string {
	out := make([]string, len(oids))
	for i, oid := range oids {
		out[i] = oid.String()
	}
	return out
}

func TestCertificateBuilder(t *testing.T) {
	tests := []struct {
		name     string
		testFunc func(t *testing.T)
	}{
		{
			name: "Self-Signed CA",
			testFunc: func(t *testing.T) {
				store := buildCA(t, "Root CA", nil)

				require.Equal(t, 1, store.Len())
				cert := store.Leaf()
				assert.True(t, cert.IsSelfIssued(), "subject should equal issuer")
				assert.Equal(t, cert.SubjectName().String(), cert.IssuerName().String())
				assert.NoError(t, cert.X509().CheckSignatureFrom(cert.X509()), "certificate should be self-signed")

				x := cert.X509()
				assert.True(t, x.BasicConstraintsValid)
				assert.True(t, x.IsCA)
				assert.Equal(t, -1, x.MaxPathLen, "unlimited path length should be omitted")
				assert.Equal(t, x509.KeyUsageCertSign|x509.KeyUsageCRLSign, x.KeyUsage)
				assert.Empty(t, x.ExtKeyUsage, "CA must not carry extendedKeyUsage")
				assert.Equal(t, x.SubjectKeyId, x.AuthorityKeyId, "self-signed AKI should reference its own key")
			},
		},
		{
			name: "Three Level Chain Order",
			testFunc: func(t *testing.T) {
				chain := newTestChain(t)

				certs := chain.leaf.Certs()
				require.Len(t, certs, 3)
				assert.Equal(t, testLeafCN, commonName(t, certs[0]))
				assert.True(t, certs[1].Equal(chain.intermediate.Leaf()))
				assert.True(t, certs[2].Equal(chain.root.Leaf()))

				assert.NoError(t, certs[0].X509().CheckSignatureFrom(certs[1].X509()))
				assert.NoError(t, certs[1].X509().CheckSignatureFrom(certs[2].X509()))
				assert.Equal(t, certs[1].SubjectName().String(), certs[0].IssuerName().String())
				assert.Equal(t, certs[1].X509().SubjectKeyId, certs[0].X509().AuthorityKeyId)
			},
		},
		{
			name: "Signer Is Not Modified",
			testFunc: func(t *testing.T) {
				root := buildCA(t, "Root CA", nil)
				before := root.Certs()

				buildLeaf(t, root, pki.UsageServer)
				buildLeaf(t, root, pki.UsageClient)

				after := root.Certs()
				require.Len(t, after, len(before))
				assert.True(t, before[0].Equal(after[0]))
			},
		},
		{
			name: "Extension Order For Leaf",
			testFunc: func(t *testing.T) {
				root := buildCA(t, "Root CA", nil)
				leaf := buildLeaf(t, root, pki.UsageServer, "example.com")

				want := oidStrings(oidBasicConstraints, oidSubjectKeyID, oidAuthorityKeyID,
					oidExtKeyUsage, oidKeyUsage, oidSubjectAltName)
				assert.Equal(t, want, extensionIDs(leaf.Leaf().X509()))
			},
		},
		{
			name: "Extension Order For CA",
			testFunc: func(t *testing.T) {
				root := buildCA(t, "Root CA", nil)

				want := oidStrings(oidBasicConstraints, oidSubjectKeyID, oidAuthorityKeyID, oidKeyUsage)
				assert.Equal(t, want, extensionIDs(root.Leaf().X509()))
			},
		},
		{
			name: "Extension Criticality",
			testFunc: func(t *testing.T) {
				root := buildCA(t, "Root CA", nil)
				leaf := buildLeaf(t, root, pki.UsageServer, "example.com")

				critical := map[string]bool{}
				for _, ext := range leaf.Leaf().X509().Extensions {
					critical[ext.Id.String()] = ext.Critical
				}
				assert.True(t, critical[oidBasicConstraints.String()])
				assert.True(t, critical[oidExtKeyUsage.String()])
				assert.True(t, critical[oidKeyUsage.String()])
				assert.False(t, critical[oidSubjectKeyID.String()])
				assert.False(t, critical[oidAuthorityKeyID.String()])
				assert.False(t, critical[oidSubjectAltName.String()])
			},
		},
		{
			name: "Subject Alternative Names Keep Order And Type",
			testFunc: func(t *testing.T) {
				root := buildCA(t, "Root CA", nil)
				leaf := buildLeaf(t, root, pki.UsageServer, "203.0.113.5", "example.com")
				x := leaf.Leaf().X509()

				require.Len(t, x.IPAddresses, 1)
				assert.True(t, x.IPAddresses[0].Equal(net.ParseIP("203.0.113.5")))
				assert.Equal(t, []string{"example.com"}, x.DNSNames)

				var raw []byte
				for _, ext := range x.Extensions {
					if ext.Id.Equal(oidSubjectAltName) {
						raw = ext.Value
					}
				}
				var names []asn1.RawValue
				_, err := asn1.Unmarshal(raw, &names)
				require.NoError(t, err)
				require.Len(t, names, 2)
				assert.Equal(t, 7, names[0].Tag, "first entry should be iPAddress")
				assert.Equal(t, 2, names[1].Tag, "second entry should be dNSName")
			},
		},
		{
			name: "IPv6 Literal Is Encoded As DNS Name",
			testFunc: func(t *testing.T) {
				root := buildCA(t, "Root CA", nil)
				leaf := buildLeaf(t, root, pki.UsageServer, "::1")

				x := leaf.Leaf().X509()
				assert.Empty(t, x.IPAddresses)
				assert.Equal(t, []string{"::1"}, x.DNSNames)
			},
		},
		{
			name: "No Alternative Names Omits Extension",
			testFunc: func(t *testing.T) {
				root := buildCA(t, "Root CA", nil)
				leaf := buildLeaf(t, root, pki.UsageClient)

				assert.NotContains(t, extensionIDs(leaf.Leaf().X509()), oidSubjectAltName.String())
			},
		},
		{
			name: "Usage Profiles",
			testFunc: func(t *testing.T) {
				root := buildCA(t, "Root CA", nil)
				endEntity := x509.KeyUsageDigitalSignature | x509.KeyUsageContentCommitment |
					x509.KeyUsageKeyEncipherment | x509.KeyUsageDataEncipherment

				cases := map[pki.CertUsage][]x509.ExtKeyUsage{
					pki.UsageServer:          {x509.ExtKeyUsageServerAuth},
					pki.UsageClient:          {x509.ExtKeyUsageClientAuth},
					pki.UsageServerAndClient: {x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
					pki.UsageCodeSign:        {x509.ExtKeyUsageCodeSigning},
				}
				for usage, eku := range cases {
					x := buildLeaf(t, root, usage).Leaf().X509()
					assert.Equal(t, eku, x.ExtKeyUsage, "usage %s", usage)
					assert.Equal(t, endEntity, x.KeyUsage, "usage %s", usage)
					assert.False(t, x.IsCA, "usage %s", usage)
					assert.True(t, x.BasicConstraintsValid, "usage %s", usage)
				}
			},
		},
		{
			name: "Path Length Constraint",
			testFunc: func(t *testing.T) {
				b := newECBuilder(t, "Root CA", pki.UsageCA, nil)
				b.PathLen = 0

				store, err := b.Build()
				require.NoError(t, err)
				assert.Equal(t, 0, store.Leaf().X509().MaxPathLen)
				assert.True(t, store.Leaf().X509().MaxPathLenZero)
			},
		},
		{
			name: "Path Length Ignored For Leaf",
			testFunc: func(t *testing.T) {
				root := buildCA(t, "Root CA", nil)
				b := newECBuilder(t, testLeafCN, pki.UsageServer, root)
				b.PathLen = 3

				store, err := b.Build()
				require.NoError(t, err)
				assert.False(t, store.Leaf().X509().IsCA)
				assert.Equal(t, -1, store.Leaf().X509().MaxPathLen)
			},
		},
		{
			name: "Explicit Serial And Validity",
			testFunc: func(t *testing.T) {
				notBefore := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
				notAfter := notBefore.AddDate(1, 0, 0)

				b := newECBuilder(t, "Root CA", pki.UsageCA, nil)
				b.SerialNumber = big.NewInt(4242)
				b.NotBefore = notBefore
				b.NotAfter = notAfter

				store, err := b.Build()
				require.NoError(t, err)
				cert := store.Leaf()
				assert.Equal(t, 0, cert.SerialNumber().Cmp(big.NewInt(4242)))
				assert.True(t, cert.NotBefore().Equal(notBefore))
				assert.True(t, cert.NotAfter().Equal(notAfter))
			},
		},
		{
			name: "Default Serial Is Time Derived",
			testFunc: func(t *testing.T) {
				start := time.Now().UnixMilli()
				first, err := newECBuilder(t, "a", pki.UsageCA, nil).Build()
				require.NoError(t, err)
				second, err := newECBuilder(t, "b", pki.UsageCA, nil).Build()
				require.NoError(t, err)

				s1 := first.Leaf().SerialNumber()
				s2 := second.Leaf().SerialNumber()
				assert.GreaterOrEqual(t, s1.Int64(), start, "serial should be epoch milliseconds")
				assert.Equal(t, 1, s2.Cmp(s1), "serials from one process should increase")
			},
		},
		{
			name: "Custom Serial Source",
			testFunc: func(t *testing.T) {
				b := newECBuilder(t, "Root CA", pki.UsageCA, nil)
				b.Serials = pki.RandomSerials{}

				store, err := b.Build()
				require.NoError(t, err)
				assert.Equal(t, 1, store.Leaf().SerialNumber().Sign())
			},
		},
		{
			name: "Explicit Private Key",
			testFunc: func(t *testing.T) {
				key, err := pki.NewECKey(384)
				require.NoError(t, err)

				b := newECBuilder(t, "Root CA", pki.UsageCA, nil)
				b.PrivateKey = key

				store, err := b.Build()
				require.NoError(t, err)
				assert.Same(t, key, store.PrivateKey())
				assert.Equal(t, x509.ECDSAWithSHA256, store.Leaf().X509().SignatureAlgorithm)
			},
		},
		{
			name: "Default RSA Key",
			testFunc: func(t *testing.T) {
				store, err := pki.NewCertificateBuilder().Build()
				require.NoError(t, err)

				assert.Equal(t, pki.KeyTypeRSA, store.PrivateKey().Type())
				assert.Equal(t, 2048, store.PrivateKey().Bits())
				assert.Equal(t, x509.SHA256WithRSA, store.Leaf().X509().SignatureAlgorithm)
				assert.Equal(t, 0, store.Leaf().SubjectName().Len(), "default subject should be empty")

				validity := store.Leaf().NotAfter().Sub(store.Leaf().NotBefore())
				assert.InDelta(t, pki.DefaultValidity.Seconds(), validity.Seconds(), 1)
			},
		},
		{
			name: "Subject Name Order Preserved",
			testFunc: func(t *testing.T) {
				store := buildCA(t, "Root CA", nil)

				var keys []string
				for k := range store.Leaf().SubjectName().Entries() {
					keys = append(keys, k)
				}
				assert.Equal(t, []string{"C", "O", "CN"}, keys)

				want, err := pki.MustCertName([2]string{"C", "US"}, [2]string{"O", "Acme"}, [2]string{"CN", "Root CA"}).DER()
				require.NoError(t, err)
				assert.True(t, bytes.Equal(want, store.Leaf().X509().RawSubject))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.testFunc(t)
		})
	}
}

func TestCertificateBuilder_Errors(t *testing.T) {
	beforeEpoch := time.Date(1969, 12, 31, 23, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mutate  func(b *pki.CertificateBuilder)
		wantErr error
	}{
		{
			name:    "Not Before Precedes Epoch",
			mutate:  func(b *pki.CertificateBuilder) { b.NotBefore = beforeEpoch },
			wantErr: pki.ErrTime,
		},
		{
			name:    "Not After Precedes Epoch",
			mutate:  func(b *pki.CertificateBuilder) { b.NotAfter = beforeEpoch },
			wantErr: pki.ErrTime,
		},
		{
			name:    "Zero Value Times",
			mutate:  func(b *pki.CertificateBuilder) { b.NotBefore, b.NotAfter = time.Time{}, time.Time{} },
			wantErr: pki.ErrTime,
		},
		{
			name:    "Inverted Validity Window",
			mutate:  func(b *pki.CertificateBuilder) { b.NotAfter = b.NotBefore.Add(-time.Hour) },
			wantErr: pki.ErrInvalidParameters,
		},
		{
			name:    "Unknown Usage",
			mutate:  func(b *pki.CertificateBuilder) { b.Usage = pki.CertUsage(99) },
			wantErr: pki.ErrInvalidParameters,
		},
		{
			name:    "Negative Serial",
			mutate:  func(b *pki.CertificateBuilder) { b.SerialNumber = big.NewInt(-1) },
			wantErr: pki.ErrInvalidParameters,
		},
		{
			name:    "Invalid Path Length",
			mutate:  func(b *pki.CertificateBuilder) { b.PathLen = -2 },
			wantErr: pki.ErrInvalidParameters,
		},
		{
			name:    "Unsupported EC Size",
			mutate:  func(b *pki.CertificateBuilder) { b.KeyBits = 255 },
			wantErr: pki.ErrInvalidParameters,
		},
		{
			name: "Serial Source Clock Before Epoch",
			mutate: func(b *pki.CertificateBuilder) {
				b.Serials = &pki.MonotonicMillis{Now: func() time.Time { return beforeEpoch }}
			},
			wantErr: pki.ErrTime,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newECBuilder(t, "Root CA", pki.UsageCA, nil)
			tt.mutate(b)

			store, err := b.Build()
			assert.Nil(t, store)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCertificateBuilder_Defaults(t *testing.T) {
	tests := []struct {
		name     string
		testFunc func(t *testing.T)
	}{
		{
			name: "Constructor Fields",
			testFunc: func(t *testing.T) {
				b := pki.NewCertificateBuilder()

				assert.Equal(t, pki.UsageServer, b.Usage)
				assert.Equal(t, pki.UnlimitedPathLen, b.PathLen)
				assert.Equal(t, pki.DefaultKeyType, b.KeyType)
				assert.Zero(t, b.KeyBits, "key size follows the key type")
				assert.Equal(t, pki.DefaultValidity, b.NotAfter.Sub(b.NotBefore))
			},
		},
		{
			name: "EC Key Type Alone Selects P-256",
			testFunc: func(t *testing.T) {
				b := pki.NewCertificateBuilder()
				b.KeyType = pki.KeyTypeEC

				store, err := b.Build()
				require.NoError(t, err)
				assert.Equal(t, pki.KeyTypeEC, store.PrivateKey().Type())
				assert.Equal(t, 256, store.PrivateKey().Bits())
			},
		},
		{
			name: "RSA Default Size",
			testFunc: func(t *testing.T) {
				store, err := pki.NewCertificateBuilder().Build()
				require.NoError(t, err)
				assert.Equal(t, pki.KeyTypeRSA, store.PrivateKey().Type())
				assert.Equal(t, pki.DefaultKeyBits, store.PrivateKey().Bits())
			},
		},
		{
			name: "Struct Literal Has No Validity Window",
			testFunc: func(t *testing.T) {
				b := &pki.CertificateBuilder{KeyType: pki.KeyTypeEC}
				assert.Zero(t, b.PathLen)

				store, err := b.Build()
				assert.Nil(t, store)
				assert.ErrorIs(t, err, pki.ErrTime)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.testFunc(t)
		})
	}
}

func TestCreateEasyServerChain(t *testing.T) {
	store, err := pki.CreateEasyServerChain("localhost")
	require.NoError(t, err)

	certs := store.Certs()
	require.Len(t, certs, 2)
	assert.Equal(t, "localhost", commonName(t, certs[0]))
	assert.Equal(t, "Root CA", commonName(t, certs[1]))
	assert.Equal(t, []string{"localhost"}, certs[0].X509().DNSNames)
	assert.Equal(t, []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth}, certs[0].X509().ExtKeyUsage)

	v := &pki.CertificateVerifier{}
	v.AddRoot(certs[1])
	assert.NoError(t, v.Verify(certs))
	assert.NoError(t, certs[0].X509().VerifyHostname("localhost"))
}
