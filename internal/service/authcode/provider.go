package authcode

//go:generate $MOCKGEN -source=provider.go -destination=mocks/provider_mock.go

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/oshokin/extranet-bot/internal/logger"
)

const (
	// DefaultMaxAttempts bounds the prompts for a malformed manual code.
	DefaultMaxAttempts = 3

	// PromptMessage is shown when the operator must type the code.
	PromptMessage = "Enter the 6-digit 2FA code from your Pulse app: "
)

// Provider produces the code for one two-factor challenge.
type Provider interface {
	// HasSecret reports whether codes are generated automatically.
	HasSecret() bool
	// ObtainCode returns a code valid at now, generated or typed by the operator.
	ObtainCode(ctx context.Context, now time.Time) (string, error)
}

// ProviderImpl generates codes from a shared secret or relays operator input.
// The secret is fixed at construction and never logged.
type ProviderImpl struct {
	secret      string
	input       InteractiveInput
	maxAttempts int
}

// Option configures a ProviderImpl.
type Option func(*ProviderImpl)

// WithMaxAttempts sets how many prompts a malformed manual code gets.
// Non-positive values are ignored.
func WithMaxAttempts(attempts int) Option {
	return func(p *ProviderImpl) {
		if attempts > 0 {
			p.maxAttempts = attempts
		}
	}
}

// NewProvider creates a provider. An empty secret selects manual entry through input.
func NewProvider(secret string, input InteractiveInput, options ...Option) *ProviderImpl {
	p := &ProviderImpl{
		secret:      strings.TrimSpace(secret),
		input:       input,
		maxAttempts: DefaultMaxAttempts,
	}

	for _, option := range options {
		option(p)
	}

	return p
}

// HasSecret reports whether a non-empty shared secret was configured.
func (p *ProviderImpl) HasSecret() bool {
	return p.secret != ""
}

// ObtainCode generates the code for now when a secret is configured,
// otherwise it asks the operator. An invalid secret is an error, never a fallback.
func (p *ProviderImpl) ObtainCode(ctx context.Context, now time.Time) (string, error) {
	if p.HasSecret() {
		code, err := GenerateCode(p.secret, now)
		if err != nil {
			return "", err
		}

		logger.Debugf(ctx, "2FA code generated for time step %d, valid for %s",
			TimeStep(now), RemainingValidity(now).Round(time.Second))

		return code, nil
	}

	return p.RequestCodeInteractively(ctx, p.input)
}

// RequestCodeInteractively prompts until the operator types exactly six digits.
// After maxAttempts malformed answers it fails with ErrOperatorInput.
// An expired ctx deadline is reported as ErrTimeout.
func (p *ProviderImpl) RequestCodeInteractively(ctx context.Context, input InteractiveInput) (string, error) {
	if input == nil {
		return "", fmt.Errorf("%w: no interactive input available", ErrOperatorInput)
	}

	logger.Info(ctx, "")
	logger.Info(ctx, "Two-factor authentication required.")
	logger.Info(ctx, "Open the Pulse app on your phone and type the 6-digit code it shows.")
	logger.Info(ctx, "")

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		answer, err := input.Prompt(ctx, PromptMessage)
		if err != nil {
			return "", classifyPromptError(err)
		}

		code := strings.TrimSpace(answer)
		if IsValidCode(code) {
			logger.Info(ctx, "2FA code entered manually")

			return code, nil
		}

		logger.Warnf(ctx, "The code must be exactly %d digits (attempt %d of %d)", CodeLength, attempt, p.maxAttempts)
	}

	return "", fmt.Errorf("%w: %d malformed attempts", ErrOperatorInput, p.maxAttempts)
}

// IsValidCode reports whether code is exactly CodeLength ASCII digits.
func IsValidCode(code string) bool {
	if len(code) != CodeLength {
		return false
	}

	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}

	return true
}

func classifyPromptError(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	case errors.Is(err, io.EOF):
		return fmt.Errorf("%w: input closed", ErrOperatorInput)
	default:
		return fmt.Errorf("failed to read the 2FA code: %w", err)
	}
}
