// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package posix derives the command name shown in usage and example text of
// the x509-chain-builder CLI.
//
// The name is the last path element of argv[0] with any Windows executable
// extension removed. Both / and \ separate path elements on every platform, so
// a Windows path seen on a [Unix-like] host yields the same name:
//
//	posix.ExecutableName("/usr/local/bin/x509-chain-builder")   // "x509-chain-builder"
//	posix.ExecutableName(`C:\tools\x509-chain-builder.EXE`)      // "x509-chain-builder"
//	posix.ExecutableName("")                                     // DefaultName
//
// [Unix-like]: https://grokipedia.com/page/Unix-like
package posix
