package authcode

import "errors"

var (
	// ErrInvalidSecret is returned when the shared secret is not valid Base32 or decodes to nothing.
	ErrInvalidSecret = errors.New("invalid TOTP shared secret")

	// ErrOperatorInput is returned when the operator did not supply a well-formed code.
	ErrOperatorInput = errors.New("operator did not supply a valid 6-digit code")

	// ErrTimeout is returned when the caller's deadline expired while waiting for the operator.
	ErrTimeout = errors.New("timed out waiting for the 2FA code")

	// ErrTimeBeforeEpoch is returned for timestamps that have no TOTP time step.
	ErrTimeBeforeEpoch = errors.New("time is before the Unix epoch")
)
