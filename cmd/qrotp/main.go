// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Program qrotp prints the current TOTP code for each authenticator QR code
// image named on the command line.
//
// Usage:
//
//	qrotp [-v] IMAGE...
//	qrotp --key BASE32
//
// Google Authenticator export codes are expanded into one line per key.
package main

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/creachadair/totp"
	"github.com/creachadair/totp/otpauth"
	"github.com/creachadair/totp/qrscan"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type args struct {
	Images  []string `arg:"positional" help:"QR code image files (PNG, JPEG, GIF)"`
	Key     string   `arg:"--key" help:"print the code for this base32 key instead"`
	Verbose bool     `arg:"-v,--verbose" help:"log diagnostics"`
}

func (args) Description() string {
	return "Print TOTP codes from authenticator QR code images."
}

func main() {
	var cfg args
	p := arg.MustParse(&cfg)
	if len(cfg.Images) == 0 && cfg.Key == "" {
		p.Fail("at least one image or --key is required")
	}

	log, err := newLogger(cfg.Verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "qrotp: logger: %v\n", err)
		os.Exit(2)
	}
	defer log.Sync()

	if cfg.Key != "" {
		key, err := totp.ParseKey(cfg.Key)
		if err != nil {
			log.Fatal("invalid key", zap.Error(err))
		}
		fmt.Println(totp.New(totp.Params{Secret: key}).TOTP())
		return
	}

	r := runner{scan: qrscan.Scanner{Log: log}, log: log}
	var codes []result
	var failed bool
	for _, path := range cfg.Images {
		rs, ok := r.codesFor(path)
		failed = failed || !ok
		codes = append(codes, rs...)
	}
	for _, c := range codes {
		if len(codes) == 1 {
			fmt.Println(c.code)
		} else {
			fmt.Printf("%s\t%s\n", c.label, c.code)
		}
	}
	if failed {
		os.Exit(1)
	}
}

// newLogger returns a production logger, or a development logger with colored
// levels when verbose is set. The production logger only reports errors.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return cfg.Build()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	cfg.Encoding = "console"
	return cfg.Build()
}

type result struct {
	label string
	code  string
}

type runner struct {
	scan qrscan.Scanner
	log  *zap.Logger
}

// codesFor returns the current codes for the keys in the image at path. It
// reports false if any key could not be read.
func (r runner) codesFor(path string) ([]result, bool) {
	log := r.log.With(zap.String("path", path))

	u, ok := r.scan.Scan(path)
	if !ok {
		log.Error("no otpauth URL found")
		return nil, false
	}
	urls := []*url.URL{u}
	if u.Scheme == otpauth.MigrationScheme {
		var err error
		urls, err = otpauth.ParseMigrationURL(u)
		if err != nil {
			log.Error("invalid export URL", zap.Error(err))
			return nil, false
		}
	}

	var out []result
	ok = true
	for _, u := range urls {
		spec, err := otpauth.FromURL(u)
		if err != nil {
			log.Error("invalid otpauth URL",
				zap.Stringer("kind", totp.KindOf(err)), zap.Error(err))
			ok = false
			continue
		}
		log.Debug("generating code",
			zap.String("issuer", spec.Issuer()),
			zap.Uint32("period", spec.Period()),
			zap.Int("digits", spec.Digits()))
		out = append(out, result{label: label(u), code: spec.TOTP()})
	}
	return out, ok
}

// label returns the account label of u, without the leading slash.
func label(u *url.URL) string {
	return strings.TrimPrefix(u.Path, "/")
}
