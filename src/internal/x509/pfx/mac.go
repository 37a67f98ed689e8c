// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package pfx

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/asn1"
	"fmt"
	"hash"
)

var (
	oidSHA1   = asn1.ObjectIdentifier{1, 3, 14, 3, 2, 26}
	oidSHA256 = asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 1}
	oidSHA512 = asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 3}
)

// computeMAC returns the HMAC of message keyed per RFC 7292 appendix B with
// purpose byte 3. password is the zero-terminated BMPString form.
func computeMAC(md *macData, message, password []byte) ([]byte, error) {
	var (
		newHash   func() hash.Hash
		blockSize int
	)
	switch alg := md.Mac.Algorithm.Algorithm; {
	case alg.Equal(oidSHA1):
		newHash, blockSize = sha1.New, 64
	case alg.Equal(oidSHA256):
		newHash, blockSize = sha256.New, 64
	case alg.Equal(oidSHA512):
		newHash, blockSize = sha512.New, 128
	default:
		return nil, fmt.Errorf("%w: unsupported MAC digest %s", ErrMalformed, alg)
	}

	key := macKey(newHash, blockSize, md.MacSalt, password, max(md.Iterations, 1))
	mac := hmac.New(newHash, key)
	mac.Write(message)
	return mac.Sum(nil), nil
}

// macKey derives an integrity key as long as one digest. With that length
// the derivation needs a single block, so the I adjustment step never runs.
func macKey(newHash func() hash.Hash, v int, salt, password []byte, iterations int) []byte {
	d := make([]byte, v)
	for i := range d {
		d[i] = 3
	}

	h := newHash()
	h.Write(d)
	h.Write(repeatTo(salt, v))
	h.Write(repeatTo(password, v))
	a := h.Sum(nil)
	for range iterations - 1 {
		h.Reset()
		h.Write(a)
		a = h.Sum(a[:0])
	}
	return a
}

// repeatTo concatenates copies of p up to the next multiple of v bytes.
func repeatTo(p []byte, v int) []byte {
	if len(p) == 0 {
		return nil
	}
	n := v * ((len(p) + v - 1) / v)
	out := make([]byte, n)
	for i := 0; i < n; i += len(p) {
		copy(out[i:], p)
	}
	return out
}
