// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package totp generates time-based authenticator codes using the TOTP
// algorithm of RFC 6238, built on the HOTP truncation of RFC 4226.
//
// A Spec carries the settings found in an otpauth:// provisioning URL.
// Construct one with New, or parse one with the otpauth package.
//
// See https://tools.ietf.org/html/rfc6238, https://tools.ietf.org/html/rfc4226
package totp

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/binary"
	"hash"
	"strconv"
	"time"
)

// Default settings for a Spec.
const (
	DefaultPeriod    = 30
	DefaultDigits    = 6
	DefaultAlgorithm = "SHA1"
)

// hashes maps algorithm labels to hash constructors. Only SHA1 is supported;
// labels not listed here also use SHA1.
var hashes = map[string]func() hash.Hash{
	"SHA1": sha1.New,
}

// Params are the inputs to New. Zero values select the defaults.
type Params struct {
	Secret    []byte // shared secret between server and user
	Period    uint32 // seconds per time step (default 30)
	Digits    int    // number of code digits, 6 to 8 (default 6)
	Algorithm string // hash algorithm label (default "SHA1")
	Issuer    string // informational only
}

// A Spec is a validated TOTP configuration. A Spec is immutable once
// constructed and may be shared freely. The zero Spec is equivalent to the
// result of Default.
type Spec struct {
	secret    []byte
	period    uint32
	digits    int
	algorithm string
	issuer    string
}

// Default returns a Spec with an empty secret and default settings.
func Default() Spec { return New(Params{}) }

// New constructs a Spec from p. A period less than 1 is replaced by
// DefaultPeriod, and a digit count outside 6..8 is replaced by DefaultDigits.
// The secret is copied.
func New(p Params) Spec {
	s := Spec{
		secret:    bytes.Clone(p.Secret),
		period:    p.Period,
		digits:    p.Digits,
		algorithm: p.Algorithm,
		issuer:    p.Issuer,
	}
	if s.period < 1 {
		s.period = DefaultPeriod
	}
	if s.digits < 6 || s.digits > 8 {
		s.digits = DefaultDigits
	}
	if s.algorithm == "" {
		s.algorithm = DefaultAlgorithm
	}
	return s
}

// Secret returns a copy of the shared secret.
func (s Spec) Secret() []byte { return bytes.Clone(s.secret) }

// Period reports the length of a time step in seconds.
func (s Spec) Period() uint32 {
	if s.period < 1 {
		return DefaultPeriod
	}
	return s.period
}

// Digits reports the number of digits in a generated code.
func (s Spec) Digits() int {
	if s.digits < 6 || s.digits > 8 {
		return DefaultDigits
	}
	return s.digits
}

// Algorithm reports the algorithm label. Codes are always computed with
// HMAC-SHA1 regardless of the label.
func (s Spec) Algorithm() string {
	if s.algorithm == "" {
		return DefaultAlgorithm
	}
	return s.algorithm
}

// Issuer reports the issuer label, if any.
func (s Spec) Issuer() string { return s.issuer }

// HOTP returns the code for the specified counter value.
func (s Spec) HOTP(counter uint32) string {
	nd := s.Digits()
	return format(truncate(s.hmac(counter))%pow10[nd], nd)
}

// TOTP returns the code for the current time step.
func (s Spec) TOTP() string { return s.At(time.Now()) }

// At returns the code for the time step containing t.
func (s Spec) At(t time.Time) string { return s.HOTP(s.Counter(t)) }

// Counter returns the time step counter for t. The Unix time in seconds is
// truncated to 32 bits before division by the period.
func (s Spec) Counter(t time.Time) uint32 { return uint32(t.Unix()) / s.Period() }

func (s Spec) newHash() func() hash.Hash {
	if h, ok := hashes[s.Algorithm()]; ok {
		return h
	}
	return sha1.New
}

func (s Spec) hmac(counter uint32) []byte {
	ctr := counterBytes(counter)
	h := hmac.New(s.newHash(), s.secret)
	h.Write(ctr[:])
	return h.Sum(nil)
}

// counterBytes encodes counter as an 8-byte big-endian value. The high-order
// four bytes are always zero.
func counterBytes(counter uint32) [8]byte {
	var ctr [8]byte
	binary.BigEndian.PutUint64(ctr[:], uint64(counter))
	return ctr
}

func truncate(digest []byte) uint32 {
	offset := digest[len(digest)-1] & 0x0f
	code := (uint32(digest[offset]&0x7f) << 24) |
		(uint32(digest[offset+1]) << 16) |
		(uint32(digest[offset+2]) << 8) |
		(uint32(digest[offset+3]) << 0)
	return code
}

var pow10 = [...]uint32{1, 10, 100, 1e3, 1e4, 1e5, 1e6, 1e7, 1e8}

const padding = "00000000"

func format(code uint32, width int) string {
	s := strconv.FormatUint(uint64(code), 10)
	if len(s) < width {
		s = padding[:width-len(s)] + s // left-pad with zeros
	}
	return s
}
