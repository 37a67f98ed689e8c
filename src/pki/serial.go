// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package pki

import (
	"crypto/rand"
	"math/big"
	"sync/atomic"
	"time"
)

// SerialSource assigns serial numbers to certificates built without an explicit one.
type SerialSource interface {
	NextSerial() (*big.Int, error)
}

// MonotonicMillis derives serial numbers from the wall clock in milliseconds since
// the Unix epoch. When the clock has not advanced since the previous serial, the
// previous value plus one is used instead, so serials from one source never repeat.
//
// Uniqueness holds only within one MonotonicMillis value. Two processes, or two
// sources, started within the same millisecond can still produce colliding serials;
// use [RandomSerials] when certificates are issued from more than one place.
//
// The zero value is ready to use and safe for concurrent use.
type MonotonicMillis struct {
	// Now overrides the clock. Nil means time.Now.
	Now func() time.Time

	last atomic.Int64
}

// NextSerial returns the next time-derived serial number.
// Returns [ErrTime] when the clock reads earlier than the Unix epoch.
func (m *MonotonicMillis) NextSerial() (*big.Int, error) {
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}

	millis, err := epochMillis(now())
	if err != nil {
		return nil, err
	}

	for {
		last := m.last.Load()
		next := max(millis, last+1)
		if m.last.CompareAndSwap(last, next) {
			return big.NewInt(next), nil
		}
	}
}

// RandomSerials draws positive 128-bit random serial numbers (RFC 5280, 4.1.2.2).
type RandomSerials struct{}

var serialLimit = new(big.Int).Lsh(big.NewInt(1), 128)

// NextSerial returns a random serial number in [1, 2^128).
func (RandomSerials) NextSerial() (*big.Int, error) {
	serial, err := rand.Int(rand.Reader, new(big.Int).Sub(serialLimit, big.NewInt(1)))
	if err != nil {
		return nil, engineError("generate serial number", err)
	}
	return serial.Add(serial, big.NewInt(1)), nil
}

// defaultSerials is shared by builders that do not configure a [SerialSource].
var defaultSerials = &MonotonicMillis{}

// epochMillis converts t to milliseconds since the Unix epoch.
func epochMillis(t time.Time) (int64, error) {
	if t.Before(time.Unix(0, 0)) {
		return 0, timeError(t)
	}
	return t.UnixMilli(), nil
}
