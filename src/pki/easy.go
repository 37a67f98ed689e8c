// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package pki

import (
	"time"
)

// EasyRootValidity is the validity period of the root created by [CreateEasyServerChain].
const EasyRootValidity = 10 * 365 * 24 * time.Hour

// CreateEasyServerChain creates a two certificate chain for a TLS server: a
// self-signed "Root CA" and a server certificate for hostname issued by it.
// Both use fresh 2048-bit RSA keys. The returned key store holds the server key
// and the chain [server, root].
func CreateEasyServerChain(hostname string) (*KeyStore, error) {
	root := NewCertificateBuilder()
	root.Subject = MustCertName([2]string{"CN", "Root CA"})
	root.Usage = UsageCA
	root.NotAfter = root.NotBefore.Add(EasyRootValidity)

	ca, err := root.Build()
	if err != nil {
		return nil, err
	}

	subject, err := NewCertName([2]string{"CN", hostname})
	if err != nil {
		return nil, err
	}

	leaf := NewCertificateBuilder()
	leaf.Signer = ca
	leaf.Subject = subject
	leaf.Usage = UsageServer
	leaf.AltNames = []string{hostname}
	return leaf.Build()
}
