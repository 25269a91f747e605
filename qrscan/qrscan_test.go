// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package qrscan_test

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/creachadair/totp/otpauth"
	"github.com/creachadair/totp/qrscan"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap/zaptest"
)

const demoURL = "otpauth://totp/otplib-website:otplib-demo-user?secret=H4ZWJCQZEREL2IE2&period=30&digits=6&algorithm=SHA1&issuer=otplib-website"

// writeQR writes a PNG image of a QR code holding text and returns its path.
func writeQR(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "code.png")
	if err := qrcode.WriteFile(text, qrcode.Medium, 256, path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func writeBlank(t *testing.T) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 256, 256))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	path := filepath.Join(t.TempDir(), "empty.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return path
}

func TestScan(t *testing.T) {
	s := qrscan.Scanner{Log: zaptest.NewLogger(t)}

	u, ok := s.Scan(writeQR(t, demoURL))
	if !ok {
		t.Fatal("Scan: no URL found")
	}
	if got := u.String(); got != demoURL {
		t.Errorf("Scan: got %q, want %q", got, demoURL)
	}

	// The scanned URL feeds directly into the parser.
	spec, err := otpauth.FromURL(u)
	if err != nil {
		t.Fatalf("FromURL(%v) failed: %v", u, err)
	}
	if got, want := spec.Issuer(), "otplib-website"; got != want {
		t.Errorf("Issuer: got %q, want %q", got, want)
	}
}

func TestScanNothing(t *testing.T) {
	notImage := filepath.Join(t.TempDir(), "text.png")
	if err := os.WriteFile(notImage, []byte("not a PNG"), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	tests := []struct {
		name string
		path string
	}{
		{"Missing", filepath.Join(t.TempDir(), "nonesuch.png")},
		{"NotImage", notImage},
		{"Empty", writeBlank(t)},
		{"BadURL", writeQR(t, "otpauth://totp/%zz?secret=A")},
		{"NotURL", writeQR(t, "hello, world")},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s := qrscan.Scanner{Log: zaptest.NewLogger(t)}
			if u, ok := s.Scan(test.path); ok || u != nil {
				t.Errorf("Scan(%q): got %v, %v; want nil, false", test.path, u, ok)
			}
		})
	}

	t.Run("NilLogger", func(t *testing.T) {
		var s qrscan.Scanner
		if _, ok := s.Scan(writeBlank(t)); ok {
			t.Error("Scan: got true, want false")
		}
	})
}
