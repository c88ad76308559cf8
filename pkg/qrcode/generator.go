package qrcode

import (
	"encoding/base64"
	"errors"
	"strings"

	skipqrcode "github.com/skip2/go-qrcode"
)

var (
	ErrEmptyContent             = errors.New("content cannot be empty")
	ErrNotOTPAuthURI            = errors.New("content is not an otpauth URI")
	ErrorFailedToGenerateQRCode = errors.New("failed to generate QR code")
)

// DefaultSize is the edge length in pixels used when size is not positive.
const DefaultSize = 256

// Generate renders content as a PNG QR code.
func Generate(content string, size int) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if size <= 0 {
		size = DefaultSize
	}
	png, err := skipqrcode.Encode(content, skipqrcode.Medium, size)
	if err != nil {
		return nil, errors.Join(ErrorFailedToGenerateQRCode, err)
	}
	return png, nil
}

// DataURI renders content as a data:image/png;base64 URI for an <img> src or a
// JSON field.
func DataURI(content string, size int) (string, error) {
	png, err := Generate(content, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// OTPAuth renders an otpauth:// enrollment URI. Anything else is refused so a
// QR code carrying an arbitrary link is never shown on the 2FA setup screen.
func OTPAuth(uri string, size int) (string, error) {
	if !strings.HasPrefix(uri, "otpauth://") {
		return "", ErrNotOTPAuthURI
	}
	return DataURI(uri, size)
}
