// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"cmp"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/H0llyW00dzZ/x509-chain-builder/src/pki"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed plan.schema.json
var planSchema []byte

// configEnvVar names the environment variable consulted when no --config flag is given.
const configEnvVar = "X509_CHAIN_CONFIG_FILE"

var (
	// ErrConfigRequired is returned when neither --config nor X509_CHAIN_CONFIG_FILE is set.
	ErrConfigRequired = errors.New("cli: plan config file is required")

	// ErrInvalidPlan is returned for a plan that fails schema validation or references
	// an unknown signer.
	ErrInvalidPlan = errors.New("cli: invalid plan")
)

// configFormat represents supported configuration file formats.
type configFormat int

const (
	// configFormatJSON represents JSON configuration format (.json)
	configFormatJSON configFormat = iota
	// configFormatYAML represents YAML configuration format (.yaml, .yml)
	configFormatYAML
)

// Plan describes a set of certificates issued in order by the generate command.
//
// The plan can be loaded from a JSON or YAML file given by --config or the
// X509_CHAIN_CONFIG_FILE environment variable, with defaults applied for any
// missing values. Supported file extensions: .json, .yaml, .yml
type Plan struct {
	// Defaults: Settings applied to entries that leave them unset
	Defaults struct {
		// ValidityDays: Validity period in days
		ValidityDays int `json:"validityDays" yaml:"validityDays"`
		// KeyType: "rsa" or "ec"
		KeyType string `json:"keyType" yaml:"keyType"`
		// KeyBits: Key size, 0 selects the default for the key type
		KeyBits int `json:"keyBits" yaml:"keyBits"`
	} `json:"defaults" yaml:"defaults"`

	// Certificates: Entries issued in order
	Certificates []PlanEntry `json:"certificates" yaml:"certificates"`
}

// PlanEntry describes one certificate of a [Plan].
type PlanEntry struct {
	// Name: Output file stem and the reference used by later entries
	Name string `json:"name" yaml:"name"`
	// Signer: Name of an earlier entry, empty for a self-signed certificate
	Signer string `json:"signer,omitempty" yaml:"signer,omitempty"`
	// Usage: ca, server, client, server-client or codesign
	Usage string `json:"usage,omitempty" yaml:"usage,omitempty"`
	// Subject: Distinguished name such as "C=US, O=Example, CN=host"
	Subject string `json:"subject" yaml:"subject"`
	// AltNames: DNS names or IPv4 addresses
	AltNames []string `json:"altNames,omitempty" yaml:"altNames,omitempty"`
	// ValidityDays: Overrides the plan default
	ValidityDays int `json:"validityDays,omitempty" yaml:"validityDays,omitempty"`
	// PathLen: CA path length constraint, omitted or -1 for unlimited
	PathLen *int `json:"pathLen,omitempty" yaml:"pathLen,omitempty"`
	// KeyType: Overrides the plan default
	KeyType string `json:"keyType,omitempty" yaml:"keyType,omitempty"`
	// KeyBits: Overrides the plan default
	KeyBits int `json:"keyBits,omitempty" yaml:"keyBits,omitempty"`
	// Alias: PKCS#12 friendly name, a random UUID when empty
	Alias string `json:"alias,omitempty" yaml:"alias,omitempty"`
}

// detectConfigFormat determines the configuration file format based on file extension.
func detectConfigFormat(configPath string) configFormat {
	ext := strings.ToLower(filepath.Ext(configPath))
	switch ext {
	case ".yaml", ".yml":
		return configFormatYAML
	default:
		return configFormatJSON
	}
}

// unmarshalConfig unmarshals configuration data based on the specified format.
func unmarshalConfig(data []byte, v any, format configFormat) error {
	switch format {
	case configFormatYAML:
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse YAML config file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse JSON config file: %w", err)
		}
	}
	return nil
}

// validatePlan checks the raw document against the embedded plan schema.
func validatePlan(data []byte, format configFormat) error {
	var doc any
	if err := unmarshalConfig(data, &doc, format); err != nil {
		return err
	}

	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(planSchema), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPlan, err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidPlan, strings.Join(msgs, "; "))
}

// loadPlan loads a chain plan from a JSON or YAML file.
//
// Configuration Priority:
//  1. configPath, or X509_CHAIN_CONFIG_FILE when configPath is empty
//  2. Schema validation of the raw document
//  3. Default values for unset fields
//  4. Signer references must name an earlier entry
func loadPlan(configPath string) (*Plan, error) {
	if configPath == "" {
		configPath = os.Getenv(configEnvVar)
	}
	if configPath == "" {
		return nil, ErrConfigRequired
	}

	data, err := readFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	format := detectConfigFormat(configPath)
	if err := validatePlan(data, format); err != nil {
		return nil, err
	}

	plan := &Plan{}
	if err := unmarshalConfig(data, plan, format); err != nil {
		return nil, err
	}

	if plan.Defaults.ValidityDays <= 0 {
		plan.Defaults.ValidityDays = int(pki.DefaultValidity / (24 * time.Hour))
	}
	if plan.Defaults.KeyType == "" {
		plan.Defaults.KeyType = "rsa"
	}

	seen := make(map[string]bool, len(plan.Certificates))
	for _, e := range plan.Certificates {
		if seen[e.Name] {
			return nil, fmt.Errorf("%w: duplicate certificate name %q", ErrInvalidPlan, e.Name)
		}
		if e.Signer != "" && !seen[e.Signer] {
			return nil, fmt.Errorf("%w: %q is signed by %q which is not defined before it", ErrInvalidPlan, e.Name, e.Signer)
		}
		seen[e.Name] = true
	}

	return plan, nil
}

// builder prepares the certificate builder for e. signers holds the key stores
// of the entries issued so far.
func (p *Plan) builder(e PlanEntry, signers map[string]*pki.KeyStore) (*pki.CertificateBuilder, error) {
	b := pki.NewCertificateBuilder()

	if e.Signer != "" {
		b.Signer = signers[e.Signer]
	}

	subject, err := subjectName(e.Subject, "")
	if err != nil {
		return nil, err
	}
	b.Subject = subject

	if e.Usage != "" {
		if b.Usage, err = pki.ParseCertUsage(e.Usage); err != nil {
			return nil, err
		}
	}
	b.AltNames = e.AltNames

	days := cmp.Or(e.ValidityDays, p.Defaults.ValidityDays)
	b.NotAfter = b.NotBefore.Add(time.Duration(days) * 24 * time.Hour)

	if e.PathLen != nil {
		b.PathLen = *e.PathLen
	}

	if b.KeyType, err = parseKeyType(cmp.Or(e.KeyType, p.Defaults.KeyType)); err != nil {
		return nil, err
	}
	b.KeyBits = cmp.Or(e.KeyBits, p.Defaults.KeyBits)

	return b, nil
}
