// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package totp

import (
	"encoding/base32"
	"errors"
	"strings"
)

// PadBase32 right-pads s with "=" until its length is a multiple of 8, the
// block size of base32 encoding. Authenticator URLs usually omit the padding.
func PadBase32(s string) string {
	if n := len(s) % 8; n != 0 {
		s += strings.Repeat("=", 8-n)
	}
	return s
}

// DecodeSecret decodes a base32 shared secret as found in the secret
// parameter of an otpauth URL. Missing padding is added, but the encoding is
// otherwise strict: letters must be upper case, whitespace and line breaks
// are not allowed, and unused trailing bits must be zero.
// An empty string decodes to an empty secret.
func DecodeSecret(s string) ([]byte, error) {
	padded := PadBase32(s)
	dec, err := base32.StdEncoding.DecodeString(padded)
	if err != nil {
		return nil, &Error{Kind: InvalidSecret, Value: s, Err: err}
	}
	// The decoder ignores line breaks and nonzero trailing bits.
	if base32.StdEncoding.EncodeToString(dec) != padded {
		return nil, &Error{Kind: InvalidSecret, Value: s, Err: errNonCanonical}
	}
	return dec, nil
}

var errNonCanonical = errors.New("non-canonical base32 encoding")

// ParseKey decodes a key encoded as base32 as typed by a human, e.g. copied
// from a 2FA setup page. Whitespace is ignored and lower case is accepted.
func ParseKey(s string) ([]byte, error) {
	return DecodeSecret(strings.ToUpper(strings.Join(strings.Fields(s), "")))
}
