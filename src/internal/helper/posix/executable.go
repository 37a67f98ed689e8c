// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package posix

import (
	"os"
	"strings"
)

// DefaultName is used when argv[0] yields no usable name.
const DefaultName = "x509-chain-builder"

// executableSuffixes are stripped case-insensitively from the base name.
var executableSuffixes = []string{".exe", ".com"}

// ExecutableName returns the command name for argv0.
func ExecutableName(argv0 string) string {
	name := argv0
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}

	lower := strings.ToLower(name)
	for _, suffix := range executableSuffixes {
		if strings.HasSuffix(lower, suffix) {
			name = name[:len(name)-len(suffix)]
			break
		}
	}

	if name == "" || name == "." || name == ".." {
		return DefaultName
	}
	return name
}

// GetExecutableName returns [ExecutableName] of os.Args[0], or [DefaultName]
// when the process has no arguments.
func GetExecutableName() string {
	if len(os.Args) == 0 {
		return DefaultName
	}
	return ExecutableName(os.Args[0])
}
