package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/oshokin/extranet-bot/internal/config"
	"github.com/oshokin/extranet-bot/internal/logger"
	"github.com/oshokin/extranet-bot/internal/service/authcode"
)

// ErrNoSecret is returned by the code command when no shared secret is configured.
var ErrNoSecret = errors.New("PULSE_TOTP_SECRET is not set")

// ExecuteCodeCommand prints the current 2FA code and how long it stays valid.
func ExecuteCodeCommand(ctx context.Context, envFilename string) {
	creds, err := config.LoadCredentials(envFilename)
	if err != nil {
		logger.Fatalf(ctx, "Failed to load credentials: %v", err)
	}

	if err = WriteCurrentCode(os.Stdout, creds.TOTPSecret, time.Now()); err != nil {
		logger.Fatalf(ctx, "Failed to generate 2FA code: %v", err)
	}
}

// WriteCurrentCode writes the code valid at now together with its remaining validity.
func WriteCurrentCode(w io.Writer, secret string, now time.Time) error {
	if secret == "" {
		return ErrNoSecret
	}

	code, err := authcode.GenerateCode(secret, now)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "%s (valid for %s)\n", code, authcode.RemainingValidity(now).Round(time.Second))

	return err
}
