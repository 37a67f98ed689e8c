// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package pki

import (
	"crypto/x509/pkix"
	"encoding/asn1"
	"fmt"
	"iter"
	"strconv"
	"strings"
)

// attributeType describes a distinguished name attribute known by its short name.
type attributeType struct {
	short string
	long  string
	oid   asn1.ObjectIdentifier
	ia5   bool
}

var attributeTypes = []attributeType{
	{short: "CN", long: "commonName", oid: asn1.ObjectIdentifier{2, 5, 4, 3}},
	{short: "SN", long: "surname", oid: asn1.ObjectIdentifier{2, 5, 4, 4}},
	{short: "serialNumber", long: "serialNumber", oid: asn1.ObjectIdentifier{2, 5, 4, 5}},
	{short: "C", long: "countryName", oid: asn1.ObjectIdentifier{2, 5, 4, 6}},
	{short: "L", long: "localityName", oid: asn1.ObjectIdentifier{2, 5, 4, 7}},
	{short: "ST", long: "stateOrProvinceName", oid: asn1.ObjectIdentifier{2, 5, 4, 8}},
	{short: "street", long: "streetAddress", oid: asn1.ObjectIdentifier{2, 5, 4, 9}},
	{short: "O", long: "organizationName", oid: asn1.ObjectIdentifier{2, 5, 4, 10}},
	{short: "OU", long: "organizationalUnitName", oid: asn1.ObjectIdentifier{2, 5, 4, 11}},
	{short: "title", long: "title", oid: asn1.ObjectIdentifier{2, 5, 4, 12}},
	{short: "postalCode", long: "postalCode", oid: asn1.ObjectIdentifier{2, 5, 4, 17}},
	{short: "GN", long: "givenName", oid: asn1.ObjectIdentifier{2, 5, 4, 42}},
	{short: "initials", long: "initials", oid: asn1.ObjectIdentifier{2, 5, 4, 43}},
	{short: "generationQualifier", long: "generationQualifier", oid: asn1.ObjectIdentifier{2, 5, 4, 44}},
	{short: "dnQualifier", long: "dnQualifier", oid: asn1.ObjectIdentifier{2, 5, 4, 46}},
	{short: "pseudonym", long: "pseudonym", oid: asn1.ObjectIdentifier{2, 5, 4, 65}},
	{short: "UID", long: "userId", oid: asn1.ObjectIdentifier{0, 9, 2342, 19200300, 100, 1, 1}},
	{short: "DC", long: "domainComponent", oid: asn1.ObjectIdentifier{0, 9, 2342, 19200300, 100, 1, 25}, ia5: true},
	{short: "emailAddress", long: "emailAddress", oid: asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 1}, ia5: true},
}

func lookupAttribute(field string) (attributeType, bool) {
	for _, at := range attributeTypes {
		if field == at.short || field == at.long {
			return at, true
		}
	}

	oid, ok := parseDottedOID(field)
	if !ok {
		return attributeType{}, false
	}
	for _, at := range attributeTypes {
		if at.oid.Equal(oid) {
			return at, true
		}
	}
	return attributeType{short: field, long: field, oid: oid}, true
}

func parseDottedOID(s string) (asn1.ObjectIdentifier, bool) {
	parts := strings.Split(s, ".")
	if len(parts) < 2 {
		return nil, false
	}
	oid := make(asn1.ObjectIdentifier, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nil, false
		}
		oid[i] = n
	}
	return oid, true
}

func shortName(oid asn1.ObjectIdentifier) string {
	for _, at := range attributeTypes {
		if at.oid.Equal(oid) {
			return at.short
		}
	}
	return oid.String()
}

// CertName is an ordered sequence of (attribute, value) pairs forming a distinguished name.
// The order given at construction is the order in which the name is encoded.
type CertName struct {
	seq pkix.RDNSequence
}

// NewCertName builds a name from (field, value) pairs such as {"CN", "myhost"}.
// Fields are short names ("C", "O", "CN"), long names ("commonName") or dotted OIDs.
//
// An unknown field name is reported as [ErrInvalidParameters] instead of aborting the program.
func NewCertName(pairs ...[2]string) (CertName, error) {
	seq := make(pkix.RDNSequence, 0, len(pairs))
	for _, pair := range pairs {
		at, ok := lookupAttribute(pair[0])
		if !ok {
			return CertName{}, fmt.Errorf("%w: unknown name attribute %q", ErrInvalidParameters, pair[0])
		}

		var value any = pair[1]
		if at.ia5 {
			value = asn1.RawValue{Tag: asn1.TagIA5String, Bytes: []byte(pair[1])}
		}
		seq = append(seq, pkix.RelativeDistinguishedNameSET{
			{Type: at.oid, Value: value},
		})
	}
	return CertName{seq: seq}, nil
}

// MustCertName is like [NewCertName] but panics on an unknown field name.
// It is intended for names built from constants.
func MustCertName(pairs ...[2]string) CertName {
	name, err := NewCertName(pairs...)
	if err != nil {
		panic(err)
	}
	return name
}

// parseCertName decodes a DER RDNSequence such as [x509.Certificate.RawSubject].
func parseCertName(der []byte) (CertName, error) {
	var seq pkix.RDNSequence
	rest, err := asn1.Unmarshal(der, &seq)
	if err != nil {
		return CertName{}, err
	}
	if len(rest) != 0 {
		return CertName{}, fmt.Errorf("trailing data after distinguished name")
	}
	return CertName{seq: seq}, nil
}

// Entries yields (attribute short name, value) pairs in encoding order.
// Values that are not valid UTF-8 are decoded lossily.
// Each call to Entries starts a fresh iteration.
func (n CertName) Entries() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, rdn := range n.seq {
			for _, atv := range rdn {
				if !yield(shortName(atv.Type), lossyValue(atv.Value)) {
					return
				}
			}
		}
	}
}

// Get returns the first value recorded for the given attribute short name.
func (n CertName) Get(field string) (string, bool) {
	for k, v := range n.Entries() {
		if k == field {
			return v, true
		}
	}
	return "", false
}

// Len returns the number of attributes in the name.
func (n CertName) Len() int {
	total := 0
	for _, rdn := range n.seq {
		total += len(rdn)
	}
	return total
}

// String renders the name in RFC 2253 form.
func (n CertName) String() string { return n.seq.String() }

// DER returns the DER encoding of the name.
func (n CertName) DER() ([]byte, error) {
	seq := n.seq
	if seq == nil {
		seq = pkix.RDNSequence{}
	}
	der, err := asn1.Marshal(seq)
	if err != nil {
		return nil, engineError("encode name", err)
	}
	return der, nil
}

func lossyValue(v any) string {
	switch value := v.(type) {
	case string:
		return strings.ToValidUTF8(value, "\uFFFD")
	case asn1.RawValue:
		return strings.ToValidUTF8(string(value.Bytes), "\uFFFD")
	case nil:
		return ""
	default:
		return fmt.Sprint(value)
	}
}
