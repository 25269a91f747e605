// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package otpauth

import (
	"bytes"
	"encoding/base32"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/creachadair/wirepb"
)

// MigrationScheme is the URL scheme of a Google Authenticator export URL.
const MigrationScheme = "otpauth-migration"

// ParseMigrationURL expands an export URL of the form
//
//	otpauth-migration://offline?data=<base64>
//
// into the equivalent provisioning URLs, one per exported key, in the order
// they appear in the payload. Counter-based keys yield otpauth://hotp URLs,
// which FromURL rejects.
func ParseMigrationURL(u *url.URL) ([]*url.URL, error) {
	if u.Scheme != MigrationScheme {
		return nil, fmt.Errorf("invalid scheme %q", u.Scheme)
	}
	data := u.Query().Get("data")
	if data == "" {
		return nil, errors.New("missing data parameter")
	}
	// A "+" that was not escaped is decoded as a space by the query parser.
	data = strings.ReplaceAll(data, " ", "+")
	payload, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		payload, err = base64.RawStdEncoding.DecodeString(data)
		if err != nil {
			return nil, fmt.Errorf("invalid data: %w", err)
		}
	}
	return parseMigrationPayload(payload)
}

// Field numbers of the MigrationPayload message.
const (
	payloadParams = 1 // repeated OtpParameters
)

// Field numbers of the OtpParameters message.
const (
	paramSecret    = 1
	paramName      = 2
	paramIssuer    = 3
	paramAlgorithm = 4
	paramDigits    = 5
	paramType      = 6
	paramCounter   = 7
)

var migrationAlgorithms = map[uint64]string{1: "SHA1", 2: "SHA256", 3: "SHA512", 4: "MD5"}

var migrationDigits = map[uint64]string{1: "6", 2: "8"}

func parseMigrationPayload(data []byte) ([]*url.URL, error) {
	var out []*url.URL
	s := wirepb.NewScanner(bytes.NewReader(data))
	for s.Next() {
		if s.ID() != payloadParams {
			continue // version and batch info
		}
		u, err := parseMigrationParams(s.Data())
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", len(out)+1, err)
		}
		out = append(out, u)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("invalid payload: %w", err)
	}
	return out, nil
}

func parseMigrationParams(data []byte) (*url.URL, error) {
	var secret []byte
	var name, typ string
	q := make(url.Values)

	s := wirepb.NewScanner(bytes.NewReader(data))
	for s.Next() {
		switch s.ID() {
		case paramSecret:
			secret = bytes.Clone(s.Data())
		case paramName:
			name = string(s.Data())
		case paramIssuer:
			if v := string(s.Data()); v != "" {
				q.Set("issuer", v)
			}
		case paramAlgorithm:
			v, err := varint(s.Data())
			if err != nil {
				return nil, fmt.Errorf("algorithm: %w", err)
			}
			if alg, ok := migrationAlgorithms[v]; ok {
				q.Set("algorithm", alg)
			}
		case paramDigits:
			v, err := varint(s.Data())
			if err != nil {
				return nil, fmt.Errorf("digits: %w", err)
			}
			if nd, ok := migrationDigits[v]; ok {
				q.Set("digits", nd)
			}
		case paramType:
			v, err := varint(s.Data())
			if err != nil {
				return nil, fmt.Errorf("type: %w", err)
			}
			if v == 1 {
				typ = "hotp"
			}
		case paramCounter:
			v, err := varint(s.Data())
			if err != nil {
				return nil, fmt.Errorf("counter: %w", err)
			}
			q.Set("counter", strconv.FormatUint(v, 10))
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if typ == "" {
		typ = TypeTOTP
	}
	if typ != "hotp" {
		q.Del("counter")
	}
	q.Set("secret", base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(secret))
	return &url.URL{
		Scheme:   Scheme,
		Host:     typ,
		Path:     "/" + name,
		RawQuery: q.Encode(),
	}, nil
}

func varint(data []byte) (uint64, error) {
	v, n := binary.Uvarint(data)
	if n <= 0 {
		return 0, errors.New("invalid varint")
	}
	return v, nil
}
