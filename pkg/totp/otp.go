package totp

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	DefaultDigits = 6
	DefaultPeriod = 30
	// DefaultSkew accepts the previous and the next 30-second step as well.
	DefaultSkew = 1
	secretSize  = 20 // 160 bits, RFC 4226 recommendation
)

var (
	secretRegex = regexp.MustCompile(`^[A-Z2-7]+=*$`)
	codeRegex   = regexp.MustCompile(`^\d{6}$`)

	opts = totp.ValidateOpts{
		Period:    DefaultPeriod,
		Skew:      DefaultSkew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	}
)

// Enrollment is a freshly generated secret and the otpauth:// URI that
// authenticator apps import, usually through a QR code.
type Enrollment struct {
	Secret string
	URI    string
}

// Enroll generates a new SHA1, 6-digit, 30-second secret for account.
func Enroll(issuer, account string) (Enrollment, error) {
	if issuer == "" {
		return Enrollment{}, ErrMissingIssuer
	}
	if account == "" {
		return Enrollment{}, ErrMissingAccountName
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: account,
		Period:      DefaultPeriod,
		SecretSize:  secretSize,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return Enrollment{}, errors.Join(ErrFailedToGenerateSecretKey, err)
	}

	return Enrollment{Secret: key.Secret(), URI: key.URL()}, nil
}

// ValidateTOTP checks code against secret at the current time.
func ValidateTOTP(secret, code string) (bool, error) {
	return ValidateAt(secret, code, time.Now())
}

// ValidateAt checks code against secret at t, allowing one step of drift either way.
// A malformed secret or code is an error; a well-formed wrong code is (false, nil).
func ValidateAt(secret, code string, t time.Time) (bool, error) {
	secret, err := normalizeSecret(secret)
	if err != nil {
		return false, err
	}

	code = strings.TrimSpace(code)
	if !codeRegex.MatchString(code) {
		return false, ErrInvalidOTP
	}

	ok, err := totp.ValidateCustom(code, secret, t.UTC(), opts)
	if err != nil {
		return false, errors.Join(ErrFailedToValidateTOTP, err)
	}
	return ok, nil
}

// GenerateCode returns the code for the step containing t.
func GenerateCode(secret string, t time.Time) (string, error) {
	secret, err := normalizeSecret(secret)
	if err != nil {
		return "", err
	}

	code, err := totp.GenerateCodeCustom(secret, t.UTC(), opts)
	if err != nil {
		return "", errors.Join(ErrFailedToGenerateTOTP, err)
	}
	return code, nil
}

func normalizeSecret(secret string) (string, error) {
	secret = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(secret), " ", ""))
	if secret == "" {
		return "", ErrMissingSecret
	}
	if !secretRegex.MatchString(secret) {
		return "", ErrInvalidSecret
	}
	return secret, nil
}
