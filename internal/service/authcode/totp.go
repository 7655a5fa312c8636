package authcode

import (
	"encoding/base32"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	// StepPeriod is the TOTP time step.
	StepPeriod = 30 * time.Second

	// CodeLength is the number of digits in a code.
	CodeLength = 6

	// base32BlockSize is the length every padded Base32 string is a multiple of.
	base32BlockSize = 8
)

//nolint:gochecknoglobals // Immutable generation options shared by every call.
var totpOptions = totp.ValidateOpts{
	Period:    uint(StepPeriod / time.Second),
	Skew:      0,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// GenerateCode computes the TOTP code of secret for the time step containing t.
// The result is always CodeLength ASCII digits, zero-padded.
func GenerateCode(secret string, t time.Time) (string, error) {
	normalized, err := normalizeSecret(secret)
	if err != nil {
		return "", err
	}

	if t.Unix() < 0 {
		return "", fmt.Errorf("%w: %s", ErrTimeBeforeEpoch, t.UTC().Format(time.RFC3339))
	}

	code, err := totp.GenerateCodeCustom(normalized, t, totpOptions)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidSecret, err)
	}

	return code, nil
}

// ValidateSecret reports whether secret can be used to generate codes.
func ValidateSecret(secret string) error {
	_, err := normalizeSecret(secret)

	return err
}

// TimeStep returns the TOTP counter for t.
func TimeStep(t time.Time) uint64 {
	if t.Unix() < 0 {
		return 0
	}

	return uint64(t.Unix()) / uint64(StepPeriod/time.Second)
}

// RemainingValidity returns how long the code of the step containing t stays current.
func RemainingValidity(t time.Time) time.Duration {
	stepStart := time.Unix(int64(TimeStep(t))*int64(StepPeriod/time.Second), 0)

	return StepPeriod - t.Sub(stepStart)
}

// normalizeSecret accepts secrets the way authenticator apps display them:
// grouped with spaces, lower case, without trailing padding.
func normalizeSecret(secret string) (string, error) {
	normalized := strings.ToUpper(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}

		return r
	}, secret))

	if normalized == "" {
		return "", fmt.Errorf("%w: secret is empty", ErrInvalidSecret)
	}

	if n := len(normalized) % base32BlockSize; n != 0 {
		normalized += strings.Repeat("=", base32BlockSize-n)
	}

	decoded, err := base32.StdEncoding.DecodeString(normalized)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidSecret, err)
	}

	if len(decoded) == 0 {
		return "", fmt.Errorf("%w: secret decodes to zero bytes", ErrInvalidSecret)
	}

	return normalized, nil
}
