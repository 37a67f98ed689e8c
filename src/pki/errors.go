// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package pki

import (
	"crypto/x509"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrEngine indicates a failure reported by the underlying cryptographic or encoding engine
	// (key generation, DER/PEM encoding, signing).
	ErrEngine = errors.New("pki: engine failure")

	// ErrTime indicates that a configured time value cannot be expressed relative to the Unix epoch.
	ErrTime = errors.New("pki: time precedes the unix epoch")

	// ErrVerification indicates that certificate path validation failed.
	// Use [errors.As] with [*VerificationError] to obtain the reason.
	ErrVerification = errors.New("pki: certificate verification failed")

	// ErrInvalidParameters indicates a structurally invalid input, such as an empty certificate chain.
	ErrInvalidParameters = errors.New("pki: invalid parameters")

	// ErrDecode indicates that a persisted key store could not be decoded
	// (wrong password, corrupt archive, malformed PEM bundle).
	ErrDecode = errors.New("pki: decode failed")
)

// Verification failure reasons reported by [VerificationError].
const (
	ReasonExpired             = "expired"
	ReasonNotAuthorizedToSign = "not-authorized-to-sign"
	ReasonPathLengthExceeded  = "path-length-exceeded"
	ReasonUntrustedRoot       = "untrusted-root"
	ReasonKeyUsageForbidsSign = "key-usage-forbids-signing"
	ReasonNameMismatch        = "name-mismatch"
	ReasonInvalid             = "invalid"
)

// VerificationError carries the reason a certificate chain was rejected together with
// the error returned by path validation.
type VerificationError struct {
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *VerificationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrVerification, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %v", ErrVerification, e.Reason, e.Err)
}

// Unwrap exposes both [ErrVerification] and the underlying path validation error.
func (e *VerificationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrVerification}
	}
	return []error{ErrVerification, e.Err}
}

// newVerificationError classifies a path validation error returned by [x509.Certificate.Verify].
func newVerificationError(err error) *VerificationError {
	var (
		invalid  x509.CertificateInvalidError
		unknown  x509.UnknownAuthorityError
		hostname x509.HostnameError
	)

	reason := ReasonInvalid
	switch {
	case errors.As(err, &invalid):
		switch invalid.Reason {
		case x509.Expired:
			reason = ReasonExpired
		case x509.NotAuthorizedToSign, x509.CANotAuthorizedForThisName:
			reason = ReasonNotAuthorizedToSign
		case x509.TooManyIntermediates:
			reason = ReasonPathLengthExceeded
		case x509.NameMismatch:
			reason = ReasonNameMismatch
		}
	case errors.As(err, &unknown):
		reason = ReasonUntrustedRoot
	case errors.As(err, &hostname):
		reason = ReasonNameMismatch
	}

	return &VerificationError{Reason: reason, Err: err}
}

// engineError wraps err as an [ErrEngine] failure of the named operation.
func engineError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrEngine, op, err)
}

// decodeError wraps err as an [ErrDecode] failure of the named operation.
func decodeError(op string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", ErrDecode, op)
	}
	return fmt.Errorf("%w: %s: %w", ErrDecode, op, err)
}

// timeError reports t as not expressible relative to the Unix epoch.
func timeError(t time.Time) error {
	return fmt.Errorf("%w: %s", ErrTime, t.UTC().Format(time.RFC3339))
}
