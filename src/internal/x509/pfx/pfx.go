// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package pfx

import (
	"crypto/hmac"
	"crypto/x509/pkix"
	"encoding/asn1"
	"errors"
	"fmt"
	"unicode/utf16"
)

var (
	// ErrMalformed is returned when the archive structure cannot be parsed.
	ErrMalformed = errors.New("malformed PKCS#12 archive")

	// ErrNoKeyBag is returned when the archive has no plaintext safe holding
	// a shrouded key bag.
	ErrNoKeyBag = errors.New("PKCS#12 archive has no shrouded key bag")

	// ErrMACMismatch is returned when the archive MAC does not verify with
	// the given password.
	ErrMACMismatch = errors.New("PKCS#12 MAC mismatch")

	// ErrNotBMP is returned for names or passwords outside the Basic
	// Multilingual Plane.
	ErrNotBMP = errors.New("string cannot be encoded as a BMPString")
)

var (
	oidDataContentType   = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 7, 1}
	oidShroudedKeyBag    = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 12, 10, 1, 2}
	oidFriendlyName      = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 20}
	tagBMPString         = 30
	tagSet               = 17
	classContextSpecific = 2
)

type pfxPDU struct {
	Version  int
	AuthSafe contentInfo
	MacData  macData `asn1:"optional"`
}

type contentInfo struct {
	ContentType asn1.ObjectIdentifier
	Content     asn1.RawValue `asn1:"tag:0,explicit,optional"`
}

type macData struct {
	Mac        digestInfo
	MacSalt    []byte
	Iterations int `asn1:"optional,default:1"`
}

type digestInfo struct {
	Algorithm pkix.AlgorithmIdentifier
	Digest    []byte
}

type safeBag struct {
	ID         asn1.ObjectIdentifier
	Value      asn1.RawValue `asn1:"tag:0,explicit"`
	Attributes []attribute   `asn1:"set,optional"`
}

type attribute struct {
	ID    asn1.ObjectIdentifier
	Value asn1.RawValue `asn1:"set"`
}

// archive is a parsed PFX with its authenticated safe unwrapped.
type archive struct {
	pdu      pfxPDU
	safe     []byte
	contents []contentInfo
}

func unmarshal(in []byte, out any) error {
	rest, err := asn1.Unmarshal(in, out)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if len(rest) != 0 {
		return fmt.Errorf("%w: trailing data", ErrMalformed)
	}
	return nil
}

func parse(data []byte) (*archive, error) {
	a := new(archive)
	if err := unmarshal(data, &a.pdu); err != nil {
		return nil, err
	}
	if !a.pdu.AuthSafe.ContentType.Equal(oidDataContentType) {
		return nil, fmt.Errorf("%w: authenticated safe is not a data content", ErrMalformed)
	}
	if err := unmarshal(a.pdu.AuthSafe.Content.Bytes, &a.safe); err != nil {
		return nil, err
	}
	if err := unmarshal(a.safe, &a.contents); err != nil {
		return nil, err
	}
	return a, nil
}

// keyBags returns the index of the plaintext content holding a shrouded key
// bag, together with its decoded bags.
func (a *archive) keyBags() (int, []safeBag, error) {
	for i, ci := range a.contents {
		if !ci.ContentType.Equal(oidDataContentType) {
			continue
		}
		var raw []byte
		if err := unmarshal(ci.Content.Bytes, &raw); err != nil {
			return 0, nil, err
		}
		var bags []safeBag
		if err := unmarshal(raw, &bags); err != nil {
			return 0, nil, err
		}
		for _, b := range bags {
			if b.ID.Equal(oidShroudedKeyBag) {
				return i, bags, nil
			}
		}
	}
	return 0, nil, ErrNoKeyBag
}

// wrap encodes v as the explicit [0] OCTET STRING content of a contentInfo.
func wrap(v any) (asn1.RawValue, []byte, error) {
	inner, err := asn1.Marshal(v)
	if err != nil {
		return asn1.RawValue{}, nil, err
	}
	octets, err := asn1.Marshal(inner)
	if err != nil {
		return asn1.RawValue{}, nil, err
	}
	return asn1.RawValue{Class: classContextSpecific, Tag: 0, IsCompound: true, Bytes: octets}, inner, nil
}

// SetFriendlyName returns a copy of data whose shrouded key bag carries name
// as its friendlyName attribute. Any previous friendlyName on that bag is
// replaced. password must be the archive password; it re-keys the MAC.
func SetFriendlyName(data []byte, name, password string) ([]byte, error) {
	bmpName, err := bmpString(name)
	if err != nil {
		return nil, err
	}
	bmpPassword, err := bmpString(password)
	if err != nil {
		return nil, err
	}
	bmpPassword = append(bmpPassword, 0, 0)

	a, err := parse(data)
	if err != nil {
		return nil, err
	}

	want, err := computeMAC(&a.pdu.MacData, a.safe, bmpPassword)
	if err != nil {
		return nil, err
	}
	if !hmac.Equal(want, a.pdu.MacData.Mac.Digest) {
		return nil, ErrMACMismatch
	}

	idx, bags, err := a.keyBags()
	if err != nil {
		return nil, err
	}

	value, err := asn1.Marshal(asn1.RawValue{Tag: tagBMPString, Bytes: bmpName})
	if err != nil {
		return nil, err
	}
	friendly := attribute{
		ID:    oidFriendlyName,
		Value: asn1.RawValue{Tag: tagSet, IsCompound: true, Bytes: value},
	}
	for i := range bags {
		if !bags[i].ID.Equal(oidShroudedKeyBag) {
			continue
		}
		attrs := bags[i].Attributes[:0:0]
		for _, at := range bags[i].Attributes {
			if !at.ID.Equal(oidFriendlyName) {
				attrs = append(attrs, at)
			}
		}
		bags[i].Attributes = append(attrs, friendly)
	}

	content, _, err := wrap(bags)
	if err != nil {
		return nil, err
	}
	a.contents[idx].Content = content

	a.pdu.AuthSafe.Content, a.safe, err = wrap(a.contents)
	if err != nil {
		return nil, err
	}
	if a.pdu.MacData.Mac.Digest, err = computeMAC(&a.pdu.MacData, a.safe, bmpPassword); err != nil {
		return nil, err
	}
	return asn1.Marshal(a.pdu)
}

// FriendlyName returns the friendlyName of the shrouded key bag in data, or
// an empty string when the bag has none. The MAC is not checked.
func FriendlyName(data []byte) (string, error) {
	a, err := parse(data)
	if err != nil {
		return "", err
	}
	_, bags, err := a.keyBags()
	if err != nil {
		return "", err
	}
	for _, b := range bags {
		if !b.ID.Equal(oidShroudedKeyBag) {
			continue
		}
		for _, at := range b.Attributes {
			if !at.ID.Equal(oidFriendlyName) {
				continue
			}
			var v asn1.RawValue
			if err := unmarshal(at.Value.Bytes, &v); err != nil {
				return "", err
			}
			if v.Tag != tagBMPString {
				return "", fmt.Errorf("%w: friendlyName is not a BMPString", ErrMalformed)
			}
			return decodeBMPString(v.Bytes)
		}
	}
	return "", nil
}

func bmpString(s string) ([]byte, error) {
	out := make([]byte, 0, 2*len(s))
	for _, r := range s {
		if r > 0xFFFF || utf16.IsSurrogate(r) {
			return nil, fmt.Errorf("%w: %q", ErrNotBMP, s)
		}
		out = append(out, byte(r>>8), byte(r))
	}
	return out, nil
}

func decodeBMPString(b []byte) (string, error) {
	if len(b)%2 != 0 {
		return "", fmt.Errorf("%w: odd-length BMPString", ErrMalformed)
	}
	if l := len(b); l >= 2 && b[l-1] == 0 && b[l-2] == 0 {
		b = b[:l-2]
	}
	units := make([]uint16, len(b)/2)
	for i := range units {
		units[i] = uint16(b[2*i])<<8 | uint16(b[2*i+1])
	}
	return string(utf16.Decode(units)), nil
}
