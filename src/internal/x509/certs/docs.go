// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package x509certs provides encoding and decoding of [X.509] certificates and
// key bundles. It reads [PEM], DER and [PKCS7] certificate inputs, and reads and
// writes PEM bundles holding one private key followed by a certificate chain.
// The pki package uses it for certificate and key store persistence.
//
// [X.509]: https://grokipedia.com/page/X.509
// [PKCS7]: https://grokipedia.com/page/PKCS_7
// [PEM]: https://grokipedia.com/page/PEM#privacy-enhanced-mail
package x509certs
