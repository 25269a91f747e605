// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package totp

import (
	"errors"
	"fmt"
)

// ErrorKind classifies configuration errors.
type ErrorKind int

const (
	UnsupportedScheme ErrorKind = iota + 1 // not an otpauth://totp URL
	InvalidSecret                          // secret is not valid base32
	InvalidPeriod                          // period is not an unsigned integer
	InvalidDigits                          // digits is not an unsigned integer
)

var kindText = map[ErrorKind]string{
	UnsupportedScheme: "unsupported scheme",
	InvalidSecret:     "invalid secret",
	InvalidPeriod:     "invalid period",
	InvalidDigits:     "invalid digits",
}

func (k ErrorKind) String() string {
	if s, ok := kindText[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is the concrete type of errors reported for an invalid configuration.
type Error struct {
	Kind  ErrorKind
	Value string // the offending input
	Err   error  // the underlying cause, if any
}

// Sentinel errors for use with errors.Is. An *Error matches the sentinel of
// the same kind, whatever its value and cause.
var (
	ErrUnsupportedScheme = &Error{Kind: UnsupportedScheme}
	ErrInvalidSecret     = &Error{Kind: InvalidSecret}
	ErrInvalidPeriod     = &Error{Kind: InvalidPeriod}
	ErrInvalidDigits     = &Error{Kind: InvalidDigits}
)

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Value != "" {
		msg += fmt.Sprintf(" %q", e.Value)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in the chain of err, or 0 if
// there is none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
