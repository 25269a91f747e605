// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package otpauth parses otpauth:// provisioning URLs into TOTP settings.
//
// The format is described by
// https://github.com/google/google-authenticator/wiki/Key-Uri-Format
//
//	otpauth://totp/<label>?secret=<base32>&period=<int>&digits=<int>&algorithm=<name>&issuer=<name>
//
// Only time-based URLs are accepted. Export URLs from Google Authenticator
// (otpauth-migration://) can be expanded with ParseMigrationURL.
package otpauth

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/creachadair/totp"
)

const (
	// Scheme is the URL scheme of a provisioning URL.
	Scheme = "otpauth"

	// TypeTOTP is the host of a time-based provisioning URL.
	TypeTOTP = "totp"
)

// ParseURL parses s as a provisioning URL and returns the settings it
// describes. See FromURL.
func ParseURL(s string) (totp.Spec, error) {
	u, err := url.Parse(s)
	if err != nil {
		return totp.Spec{}, fmt.Errorf("invalid URL: %w", err)
	}
	return FromURL(u)
}

// FromURL returns the settings described by u, which must have the form
// otpauth://totp/... or an error of kind totp.UnsupportedScheme is reported.
//
// Query parameters are processed in order. Later values of a parameter
// replace earlier ones, and unknown parameters are ignored. Errors have
// concrete type *totp.Error.
func FromURL(u *url.URL) (totp.Spec, error) {
	if u.Scheme != Scheme || u.Host != TypeTOTP {
		return totp.Spec{}, &totp.Error{Kind: totp.UnsupportedScheme, Value: u.Scheme + "://" + u.Host}
	}

	var p totp.Params
	for _, kv := range queryPairs(u.RawQuery) {
		switch kv.key {
		case "secret":
			sec, err := totp.DecodeSecret(kv.value)
			if err != nil {
				return totp.Spec{}, err
			}
			p.Secret = sec

		case "period":
			v, err := parseUint(kv.value, 32)
			if err != nil {
				return totp.Spec{}, &totp.Error{Kind: totp.InvalidPeriod, Value: kv.value, Err: err}
			}
			p.Period = uint32(v) // New replaces a zero period

		case "digits":
			v, err := parseUint(kv.value, 8)
			if err != nil {
				return totp.Spec{}, &totp.Error{Kind: totp.InvalidDigits, Value: kv.value, Err: err}
			}
			p.Digits = int(v) // New clamps to 6..8

		case "algorithm":
			p.Algorithm = kv.value

		case "issuer":
			p.Issuer = kv.value
		}
	}
	return totp.New(p), nil
}

// parseUint parses an unsigned decimal of the given bit size. A single
// leading "+" is accepted.
func parseUint(s string, bitSize int) (uint64, error) {
	return strconv.ParseUint(strings.TrimPrefix(s, "+"), 10, bitSize)
}

type pair struct{ key, value string }

// queryPairs splits a raw query into form-decoded key/value pairs in the
// order given. Unlike url.ParseQuery it keeps the order and does not reject
// malformed escapes.
func queryPairs(raw string) []pair {
	var out []pair
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		out = append(out, pair{unescape(key), unescape(value)})
	}
	return out
}

// unescape form-decodes s: "+" becomes a space and each valid %XX escape
// becomes its byte. A "%" not followed by two hex digits is kept as-is.
func unescape(s string) string {
	buf := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '+':
			buf = append(buf, ' ')
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			buf = append(buf, unhex(s[i+1])<<4|unhex(s[i+2]))
			i += 2
		default:
			buf = append(buf, c)
		}
	}
	return string(buf)
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case c <= '9':
		return c - '0'
	case c <= 'F':
		return c - 'A' + 10
	default:
		return c - 'a' + 10
	}
}
