// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package cli provides the command-line interface for the X.509 certificate chain builder.
// It implements a Cobra-based CLI with the subcommands generate, issue, easy, verify,
// inspect and convert. Chain plans for generate are YAML or JSON files validated against
// an embedded JSON schema. Key stores are read and written as PEM bundles or PKCS#12
// archives, chosen by file extension. The package handles file I/O and context
// cancellation, and reports progress through the logger package in human-readable
// or JSON form.
package cli
