// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package pki builds and verifies [X.509] certificate chains for TLS and code signing.
//
// A [CertificateBuilder] issues one certificate at a time. Without a signer the
// certificate is self-signed; with a signer [KeyStore] it is issued by the
// signer's leaf, and the result carries the new certificate followed by the
// signer's chain. Chaining builds one link per call:
//
//	root := pki.NewCertificateBuilder()
//	root.Subject = pki.MustCertName([2]string{"CN", "Root CA"})
//	root.Usage = pki.UsageCA
//	rootStore, err := root.Build()
//
//	leaf := pki.NewCertificateBuilder()
//	leaf.Signer = rootStore
//	leaf.Subject = pki.MustCertName([2]string{"CN", "example.com"})
//	leaf.AltNames = []string{"example.com", "203.0.113.5"}
//	leafStore, err := leaf.Build()
//
// A [CertificateVerifier] checks a leaf-first chain against a trust store:
//
//	v := &pki.CertificateVerifier{}
//	v.AddRoot(rootStore.Leaf())
//	err = v.Verify(leafStore.Certs())
//
// Key stores persist through two separate codecs: [KeyStore.ToPKCS12] /
// [FromPKCS12] for password protected archives, and [KeyStore.ToPEM] / [FromPEM]
// for unprotected PEM bundles.
//
// Errors wrap one of [ErrEngine], [ErrTime], [ErrVerification],
// [ErrInvalidParameters] or [ErrDecode] and are matched with [errors.Is].
//
// [X.509]: https://grokipedia.com/page/X.509
package pki
