// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package qrscan reads provisioning URLs from QR code images.
package qrscan

import (
	"fmt"
	"image"
	"net/url"
	"os"

	// Image formats accepted by Scan.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/makiuchi-d/gozxing"
	zxqr "github.com/makiuchi-d/gozxing/qrcode"
	"go.uber.org/zap"
)

// A Scanner extracts URLs from QR code images.
type Scanner struct {
	// Log receives the reason a scan found nothing. If nil, nothing is logged.
	Log *zap.Logger
}

// Scan decodes the first QR code found in the image file at path and parses
// its text as a URL. It reports false if the file cannot be read, contains no
// QR code, or the code does not hold a valid URL; the caller cannot tell
// these cases apart.
func (s Scanner) Scan(path string) (*url.URL, bool) {
	log := s.logger().With(zap.String("path", path))

	text, err := decodeFile(path)
	if err != nil {
		log.Debug("no QR code found", zap.Error(err))
		return nil, false
	}
	u, err := url.Parse(text)
	if err != nil {
		log.Debug("invalid URL in QR code", zap.Error(err))
		return nil, false
	}
	if u.Scheme == "" {
		log.Debug("QR code does not hold a URL")
		return nil, false
	}
	return u, true
}

func (s Scanner) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

// decodeFile returns the text of the first QR code in the image at path.
func decodeFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("binarize image: %w", err)
	}
	res, err := zxqr.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		return "", fmt.Errorf("read QR code: %w", err)
	}
	return res.GetText(), nil
}
