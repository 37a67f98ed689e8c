// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package x509chain orders and renders [X.509] certificate chains.
// It provides capabilities to:
//   - Load certificates from PEM, DER or PKCS7 input and order them leaf first.
//   - Report the validity of each certificate at a given time.
//   - Render a chain as an ASCII tree, a markdown table or structured JSON.
//
// Trust decisions are made by the pki package; this package only describes chains.
//
// [X.509]: https://grokipedia.com/page/X.509
package x509chain
