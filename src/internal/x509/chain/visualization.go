// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// RenderASCIITree renders the certificate chain as an ASCII tree diagram.
//
// Parameters:
//   - status: Optional map of certificate serial numbers to validity status
//
// Returns:
//   - string: ASCII tree representation of the certificate chain
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) RenderASCIITree(status map[string]string) string {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	if len(ch.Certs) == 0 {
		return "No certificates in chain"
	}

	var result strings.Builder
	for i, cert := range ch.Certs {
		connector := "├── "
		if i == len(ch.Certs)-1 {
			connector = "└── "
		}

		statusIcon := "✓"
		if s, exists := status[cert.SerialNumber.String()]; exists && s != StatusValid {
			statusIcon = "✗"
		}

		certInfo := fmt.Sprintf("[%s] %s", statusIcon, subjectLabel(cert))
		if role := ch.getCertificateRole(i); role != "" {
			certInfo += fmt.Sprintf(" (%s)", role)
		}

		result.WriteString(strings.Repeat("    ", i) + connector + certInfo + "\n")
	}

	return result.String()
}

// RenderTable renders the certificate chain as a formatted markdown table.
//
// Parameters:
//   - status: Optional map of certificate serial numbers to validity status
//
// Returns:
//   - string: Markdown table representation of the certificate chain
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) RenderTable(status map[string]string) string {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	if len(ch.Certs) == 0 {
		return "No certificates to display"
	}

	var buf strings.Builder
	table := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewMarkdown(tw.Rendition{Streaming: true})),
	)
	table.Header([]string{"#", "Role", "Subject", "Issuer", "Usage", "Valid Until", "Key", "Status"})

	var rows [][]string
	for i, cert := range ch.Certs {
		s := "unknown"
		if v, exists := status[cert.SerialNumber.String()]; exists {
			s = v
		}

		algo, bits := publicKeyInfo(cert)
		key := "unknown"
		if bits > 0 {
			key = fmt.Sprintf("%d-bit %s", bits, algo)
		}

		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			ch.getCertificateRole(i),
			subjectLabel(cert),
			issuerLabel(cert),
			strings.Join(usageNames(cert), ", "),
			cert.NotAfter.Format("2006-01-02"),
			key,
			s,
		})
	}

	table.Bulk(rows)
	table.Render()
	return buf.String()
}

// ToVisualizationJSON converts the certificate chain to structured JSON for external tools.
//
// Parameters:
//   - status: Optional map of certificate serial numbers to validity status
//
// Returns:
//   - []byte: JSON representation of the certificate chain
//   - error: Error if JSON marshaling fails
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) ToVisualizationJSON(status map[string]string) ([]byte, error) {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	type CertificateVizData struct {
		Index              int       `json:"index"`
		Role               string    `json:"role"`
		Subject            string    `json:"subject"`
		Issuer             string    `json:"issuer"`
		SerialNumber       string    `json:"serialNumber"`
		SignatureAlgorithm string    `json:"signatureAlgorithm"`
		PublicKeyAlgorithm string    `json:"publicKeyAlgorithm"`
		KeySize            int       `json:"keySize"`
		NotBefore          time.Time `json:"notBefore"`
		NotAfter           time.Time `json:"notAfter"`
		IsCA               bool      `json:"isCA"`
		MaxPathLen         *int      `json:"maxPathLen,omitempty"`
		Usage              []string  `json:"usage"`
		DNSNames           []string  `json:"dnsNames,omitempty"`
		IPAddresses        []string  `json:"ipAddresses,omitempty"`
		Status             string    `json:"status"`
	}

	type RelationshipData struct {
		FromIndex int    `json:"fromIndex"`
		ToIndex   int    `json:"toIndex"`
		Type      string `json:"type"`
	}

	type VisualizationData struct {
		Timestamp     string               `json:"timestamp"`
		ChainLength   int                  `json:"chainLength"`
		Certificates  []CertificateVizData `json:"certificates"`
		Relationships []RelationshipData   `json:"relationships"`
	}

	data := VisualizationData{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		ChainLength:   len(ch.Certs),
		Certificates:  make([]CertificateVizData, len(ch.Certs)),
		Relationships: make([]RelationshipData, 0, max(len(ch.Certs)-1, 0)),
	}

	for i, cert := range ch.Certs {
		algo, bits := publicKeyInfo(cert)

		s := "unknown"
		if v, exists := status[cert.SerialNumber.String()]; exists {
			s = v
		}

		var pathLen *int
		if cert.IsCA && (cert.MaxPathLen > 0 || cert.MaxPathLenZero) {
			pathLen = &cert.MaxPathLen
		}

		ips := make([]string, len(cert.IPAddresses))
		for j, ip := range cert.IPAddresses {
			ips[j] = ip.String()
		}

		data.Certificates[i] = CertificateVizData{
			Index:              i,
			Role:               ch.getCertificateRole(i),
			Subject:            cert.Subject.String(),
			Issuer:             cert.Issuer.String(),
			SerialNumber:       cert.SerialNumber.String(),
			SignatureAlgorithm: cert.SignatureAlgorithm.String(),
			PublicKeyAlgorithm: algo,
			KeySize:            bits,
			NotBefore:          cert.NotBefore,
			NotAfter:           cert.NotAfter,
			IsCA:               cert.IsCA,
			MaxPathLen:         pathLen,
			Usage:              usageNames(cert),
			DNSNames:           cert.DNSNames,
			IPAddresses:        ips,
			Status:             s,
		}
	}

	// Each certificate is signed by the next one in the chain.
	for i := 0; i < len(ch.Certs)-1; i++ {
		data.Relationships = append(data.Relationships, RelationshipData{
			FromIndex: i,
			ToIndex:   i + 1,
			Type:      "signed_by",
		})
	}

	return json.MarshalIndent(data, "", "  ")
}

// getCertificateRole determines the role of a certificate in the chain.
//
// Parameters:
//   - index: Zero-based position of the certificate in the chain
//
// Returns:
//   - string: Role description
func (ch *Chain) getCertificateRole(index int) string {
	total := len(ch.Certs)
	switch {
	case total == 1:
		return "Self-Signed Certificate"
	case index == 0:
		return "End-Entity Certificate"
	case index == total-1 && ch.IsRootNode(ch.Certs[index]):
		return "Root CA Certificate"
	default:
		return "Intermediate CA Certificate"
	}
}

func publicKeyInfo(cert *x509.Certificate) (string, int) {
	switch pub := cert.PublicKey.(type) {
	case *rsa.PublicKey:
		return "RSA", pub.Size() * 8
	case *ecdsa.PublicKey:
		return "ECDSA", pub.Curve.Params().BitSize
	default:
		return "unknown", 0
	}
}

var extKeyUsageNames = map[x509.ExtKeyUsage]string{
	x509.ExtKeyUsageServerAuth:  "serverAuth",
	x509.ExtKeyUsageClientAuth:  "clientAuth",
	x509.ExtKeyUsageCodeSigning: "codeSigning",
}

// usageNames summarizes basicConstraints and extendedKeyUsage.
func usageNames(cert *x509.Certificate) []string {
	if cert.IsCA {
		return []string{"CA"}
	}
	names := make([]string, 0, len(cert.ExtKeyUsage))
	for _, eku := range cert.ExtKeyUsage {
		if name, ok := extKeyUsageNames[eku]; ok {
			names = append(names, name)
		} else {
			names = append(names, fmt.Sprintf("eku(%d)", eku))
		}
	}
	return names
}

func subjectLabel(cert *x509.Certificate) string {
	if cert.Subject.CommonName != "" {
		return cert.Subject.CommonName
	}
	if s := cert.Subject.String(); s != "" {
		return s
	}
	return "(empty subject)"
}

func issuerLabel(cert *x509.Certificate) string {
	if cert.Issuer.CommonName != "" {
		return cert.Issuer.CommonName
	}
	return cert.Issuer.String()
}
