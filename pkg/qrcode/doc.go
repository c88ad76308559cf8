// Package qrcode renders QR codes with github.com/skip2/go-qrcode.
//
// The 2FA setup endpoint returns the otpauth:// URI of a pending secret both as
// text and as a PNG data URI built by OTPAuth, so the client can show it
// without another request.
//
//	img, err := qrcode.OTPAuth(enrollment.URI, 0)
package qrcode
