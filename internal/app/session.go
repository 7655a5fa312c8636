package app

import (
	"context"
	"fmt"
	"os"

	"github.com/oshokin/extranet-bot/internal/browser"
	"github.com/oshokin/extranet-bot/internal/config"
	"github.com/oshokin/extranet-bot/internal/logger"
	"github.com/oshokin/extranet-bot/internal/service/authcode"
	"github.com/oshokin/extranet-bot/internal/service/extranet"
)

// newCodeProvider builds the 2FA code provider.
// Prompts go to stderr so that stdout stays clean for command output.
func newCodeProvider(cfg *config.Config, creds *config.Credentials) *authcode.ProviderImpl {
	return authcode.NewProvider(
		creds.TOTPSecret,
		authcode.NewTerminalInput(os.Stdin, os.Stderr),
		authcode.WithMaxAttempts(int(cfg.MaxCodeAttempts)),
	)
}

// openSession launches the browser and signs in.
// The returned service must be closed by the caller.
func openSession(ctx context.Context, cfg *config.Config, envFilename string) (*extranet.ServiceImpl, error) {
	creds, err := config.LoadCredentials(envFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}

	codes := newCodeProvider(cfg, creds)
	if codes.HasSecret() {
		if err = authcode.ValidateSecret(creds.TOTPSecret); err != nil {
			return nil, fmt.Errorf("PULSE_TOTP_SECRET: %w", err)
		}

		logger.Info(ctx, "2FA codes will be generated automatically")
	} else {
		logger.Info(ctx, "PULSE_TOTP_SECRET is not set, 2FA codes will be requested in the terminal")
	}

	session, err := browser.Launch(ctx, browser.NewOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	service := extranet.NewService(cfg, creds, session, codes)

	if err = service.Login(ctx); err != nil {
		closeSession(ctx, service)

		return nil, err
	}

	return service, nil
}

// closeSession closes the browser with a context that survives cancellation of ctx.
func closeSession(ctx context.Context, service extranet.Service) {
	if err := service.Close(context.WithoutCancel(ctx)); err != nil {
		logger.Errorf(ctx, "Failed to close browser: %v", err)
	}
}

// withSession runs fn on a signed-in service and always closes the browser.
func withSession(
	ctx context.Context,
	cfg *config.Config,
	envFilename string,
	fn func(ctx context.Context, service extranet.Service) error,
) error {
	service, err := openSession(ctx, cfg, envFilename)
	if err != nil {
		return err
	}

	defer closeSession(ctx, service)

	return fn(ctx, service)
}
