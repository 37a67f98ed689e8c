// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// x509-chain-builder issues, verifies, inspects and converts X.509 certificate chains.
//
// # Installation
//
// Install with Go 1.25.5 or later:
//
//	go install github.com/H0llyW00dzZ/x509-chain-builder/cmd/x509-chain-builder@latest
//
// # Usage
//
//	x509-chain-builder [COMMAND] [FLAGS]
//
// # Commands
//
//	generate  Issue every certificate of a YAML or JSON chain plan
//	issue     Issue a single certificate, self-signed or from a signer key store
//	easy      Create a root CA and a server certificate for a hostname
//	verify    Verify a chain against given roots and optionally the system roots
//	inspect   Render a chain as an ASCII tree, a Markdown table or JSON
//	convert   Convert a key store between PEM bundle and PKCS#12
//
// # Global Flags
//
//	--log-format  Log output format: cli (default) or json
//	-q, --quiet   Suppress log output
//	--help        Show help information
//	--version     Show version information
//
// # Environment Variables
//
//	X509_CHAIN_CONFIG_FILE  Plan file for generate (alternative to --config)
//
// # Plan File
//
//	defaults:
//	  keyType: ec
//	certificates:
//	  - name: root
//	    usage: ca
//	    subject: "C=US, O=Example, CN=Example Root"
//	  - name: www
//	    signer: root
//	    usage: server
//	    subject: "CN=www.example.com"
//	    altNames: [www.example.com, 192.0.2.10]
//
// # Examples
//
// Issue the plan and write PEM bundles and PKCS#12 archives:
//
//	x509-chain-builder generate --config plan.yaml --out ./pki --password changeit
//
// Verify a chain against a private root only:
//
//	x509-chain-builder verify --root ./pki/root.pem --no-system ./pki/www.pem
//
// Show the chain as a table:
//
//	x509-chain-builder inspect --format table ./pki/www.pem
//
// The process exits with status 1 on error and 130 when interrupted.
package main
